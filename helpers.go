package gridplan

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/gridplan/planner"
)

// formIndex parses a grid index. Range checks are left to the planner.
func formIndex(s string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "grid index must be a number")
	}
	return i, nil
}

func pathField(c echo.Context) (planner.Field, error) {
	f, ok := planner.ParseField(c.Param("field"))
	if !ok {
		return "", echo.NewHTTPError(http.StatusNotFound, "unknown profile field")
	}
	return f, nil
}

// fieldValue normalizes a submitted field value. Bio keeps its whitespace so
// line breaks survive.
func fieldValue(f planner.Field, v string) string {
	if f == planner.FieldBio {
		return strings.TrimRight(v, " \t\r\n")
	}
	return strings.TrimSpace(v)
}

// uploadedFiles returns the picked files of a multipart request, at most
// limit of them. A missing form yields no files.
func uploadedFiles(c echo.Context, limit int) []planner.File {
	var headers []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil {
		headers = form.File[uploadField]
	}
	if limit > 0 && len(headers) > limit {
		headers = headers[:limit]
	}
	files := make([]planner.File, 0, len(headers))
	for _, fh := range headers {
		files = append(files, planner.File{
			Name: fh.Filename,
			Size: fh.Size,
			Open: func() (io.ReadCloser, error) { return fh.Open() },
		})
	}
	return files
}
