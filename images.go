package gridplan

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/eringen/gridplan/planner"
)

const (
	uploadField        = "files"
	maxFilesPerRequest = 20

	// DefaultMaxPixels caps the decoded size of an upload (about 8000x6000).
	DefaultMaxPixels = 48_000_000
)

var imageMIME = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
}

// ImageDecoder reads a picked file and returns it as a data URI, provided it
// decodes as an image. The bytes are passed through unchanged.
type ImageDecoder struct {
	MaxSize   int64
	MaxPixels int // DefaultMaxPixels when zero
}

// Decode implements planner.Decoder.
func (d ImageDecoder) Decode(ctx context.Context, f planner.File) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if d.MaxSize > 0 && f.Size > d.MaxSize {
		return "", fmt.Errorf("%s: file too large (%d bytes)", f.Name, f.Size)
	}
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()

	r := io.Reader(rc)
	if d.MaxSize > 0 {
		r = io.LimitReader(rc, d.MaxSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", f.Name, err)
	}
	if d.MaxSize > 0 && int64(len(data)) > d.MaxSize {
		return "", fmt.Errorf("%s: file too large", f.Name)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image %s: %w", f.Name, err)
	}
	maxPixels := d.MaxPixels
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return "", fmt.Errorf("%s: image dimensions %dx%d out of range", f.Name, cfg.Width, cfg.Height)
	}
	if _, _, err := image.Decode(bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("decode image %s: %w", f.Name, err)
	}
	mime, ok := imageMIME[format]
	if !ok {
		return "", fmt.Errorf("%s: unsupported image format %q", f.Name, format)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func (a *App) handleUploadTarget(c echo.Context) error {
	ws := workspaceFrom(c)
	target, err := planner.ParseTarget(c.FormValue("target"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req, err := ws.Planner.BeginUpload(target)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPickerResponse(req))
}

// consumeTargetOnError resets the armed upload target when the upload is
// rejected before reaching the planner, e.g. by the rate limiter or the body
// limit, so it cannot apply to a later selection.
func consumeTargetOnError(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		if err != nil {
			if ws := workspaceFrom(c); ws != nil {
				ws.Planner.CompleteUpload(c.Request().Context(), nil).Wait()
			}
		}
		return err
	}
}

func (a *App) handleUpload(c echo.Context) error {
	ws := workspaceFrom(c)
	if !a.uploadLimiter.Allow(c.RealIP()) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "Too many uploads. Try again later.")
	}

	files := uploadedFiles(c, maxFilesPerRequest)

	// An empty selection still consumes the armed target.
	res := ws.Planner.CompleteUpload(c.Request().Context(), files).Wait()
	a.log.Debug("upload finished",
		slog.String("workspace", ws.ID),
		slog.Int("files", len(files)),
		slog.Int("applied", res.Applied),
		slog.Int("dropped", res.Dropped),
		slog.Int("superseded", res.Superseded))

	return a.renderPlanner(c, ws)
}
