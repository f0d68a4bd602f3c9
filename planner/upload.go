package planner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// UploadTarget is the destination of the next file-picker result.
// It is one of NoTarget, GridCellTarget, AvatarTarget or HighlightTarget.
type UploadTarget interface {
	fmt.Stringer
	isUploadTarget()
}

// NoTarget routes every selected file to the panel.
type NoTarget struct{}

// GridCellTarget routes the first selected file to one grid slot.
type GridCellTarget struct{ Index int }

// AvatarTarget routes the first selected file to the profile avatar.
type AvatarTarget struct{}

// HighlightTarget routes the first selected file to one highlight cover.
type HighlightTarget struct{ ID string }

func (NoTarget) isUploadTarget()        {}
func (GridCellTarget) isUploadTarget()  {}
func (AvatarTarget) isUploadTarget()    {}
func (HighlightTarget) isUploadTarget() {}

func (NoTarget) String() string          { return "none" }
func (t GridCellTarget) String() string  { return "grid:" + strconv.Itoa(t.Index) }
func (AvatarTarget) String() string      { return "avatar" }
func (t HighlightTarget) String() string { return "highlight:" + t.ID }

// ParseTarget parses the String form of an UploadTarget.
// The empty string is NoTarget.
func ParseTarget(s string) (UploadTarget, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "" || s == "none":
		return NoTarget{}, nil
	case s == "avatar":
		return AvatarTarget{}, nil
	case strings.HasPrefix(s, "grid:"):
		i, err := strconv.Atoi(strings.TrimPrefix(s, "grid:"))
		if err != nil {
			return nil, fmt.Errorf("planner: bad grid target %q: %w", s, err)
		}
		return GridCellTarget{Index: i}, nil
	case strings.HasPrefix(s, "highlight:"):
		id := strings.TrimPrefix(s, "highlight:")
		if id == "" {
			return nil, fmt.Errorf("planner: empty highlight target")
		}
		return HighlightTarget{ID: id}, nil
	}
	return nil, fmt.Errorf("planner: unknown upload target %q", s)
}

// ImageAccept is the file-type filter handed to the file picker.
const ImageAccept = "image/*"

// PickerRequest tells the file picker what to ask the user for.
// Token differs on every request so a re-selected identical file still
// registers as a change.
type PickerRequest struct {
	Target   UploadTarget
	Multiple bool
	Accept   string
	Token    string
}

// File is one file returned by the picker.
type File struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// Decoder turns a picked file into a self-contained image src.
type Decoder interface {
	Decode(ctx context.Context, f File) (string, error)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(ctx context.Context, f File) (string, error)

func (fn DecoderFunc) Decode(ctx context.Context, f File) (string, error) { return fn(ctx, f) }

// BeginUpload arms target for the next CompleteUpload and returns the picker
// request to present. A previously armed target is replaced.
func (p *Planner) BeginUpload(target UploadTarget) (PickerRequest, error) {
	if target == nil {
		target = NoTarget{}
	}
	if t, ok := target.(GridCellTarget); ok {
		if err := checkIndex(t.Index); err != nil {
			return PickerRequest{}, err
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.target = target
	p.seq++
	_, multiple := target.(NoTarget)
	return PickerRequest{
		Target:   target,
		Multiple: multiple,
		Accept:   ImageAccept,
		Token:    "pick-" + strconv.FormatUint(p.seq, 10),
	}, nil
}

// Target returns the currently armed upload target.
func (p *Planner) Target() UploadTarget {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.target
}

// UploadResult summarizes a finished upload batch.
type UploadResult struct {
	Applied    int
	Dropped    int // decode failures
	Superseded int // finished after a later upload to the same target
}

// UploadBatch tracks the asynchronous decodes started by CompleteUpload.
type UploadBatch struct {
	done       chan struct{}
	applied    atomic.Int64
	dropped    atomic.Int64
	superseded atomic.Int64
}

// Done is closed once every decode of the batch has been applied or dropped.
func (b *UploadBatch) Done() <-chan struct{} { return b.done }

// Wait blocks until the batch finishes and returns its result.
func (b *UploadBatch) Wait() UploadResult {
	<-b.done
	return UploadResult{
		Applied:    int(b.applied.Load()),
		Dropped:    int(b.dropped.Load()),
		Superseded: int(b.superseded.Load()),
	}
}

type uploadJob struct {
	file   File
	target UploadTarget
	key    string
	seq    uint64
}

// CompleteUpload consumes the armed target, resets it to NoTarget, and
// decodes files in the background. Results are applied as each decode
// finishes, so panel order follows completion order.
//
// For a targeted upload only the latest initiated batch for that target may
// apply; earlier ones that finish later are counted as superseded.
func (p *Planner) CompleteUpload(ctx context.Context, files []File) *UploadBatch {
	p.mu.Lock()
	target := p.target
	p.target = NoTarget{}
	jobs := p.routeLocked(target, files)
	p.mu.Unlock()

	b := &UploadBatch{done: make(chan struct{})}
	if len(jobs) == 0 {
		close(b.done)
		return b
	}

	go func() {
		defer close(b.done)
		var g errgroup.Group
		g.SetLimit(p.workers)
		for _, job := range jobs {
			g.Go(func() error {
				p.runJob(ctx, b, job)
				return nil
			})
		}
		_ = g.Wait()
	}()
	return b
}

// routeLocked decides where each file goes. p.mu must be held.
func (p *Planner) routeLocked(target UploadTarget, files []File) []uploadJob {
	if len(files) == 0 {
		return nil
	}
	var jobs []uploadJob
	switch t := target.(type) {
	case GridCellTarget, AvatarTarget, HighlightTarget:
		key := t.String()
		p.targetSeq[key]++
		jobs = append(jobs, uploadJob{file: files[0], target: t, key: key, seq: p.targetSeq[key]})
		if _, ok := t.(GridCellTarget); ok {
			for _, f := range files[1:] {
				jobs = append(jobs, uploadJob{file: f, target: NoTarget{}})
			}
		}
	default:
		for _, f := range files {
			jobs = append(jobs, uploadJob{file: f, target: NoTarget{}})
		}
	}
	return jobs
}

func (p *Planner) runJob(ctx context.Context, b *UploadBatch, job uploadJob) {
	src, err := p.decoder.Decode(ctx, job.file)
	if err != nil {
		b.dropped.Add(1)
		p.log.Warn("upload dropped",
			slog.String("file", job.file.Name),
			slog.String("target", job.target.String()),
			slog.Any("error", err))
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if job.key != "" && p.targetSeq[job.key] != job.seq {
		b.superseded.Add(1)
		return
	}
	switch t := job.target.(type) {
	case GridCellTarget:
		if err := p.place(t.Index, NewImage(job.file.Name, src)); err != nil {
			b.dropped.Add(1)
			return
		}
	case AvatarTarget:
		p.profile.Avatar = src
	case HighlightTarget:
		h := p.profile.highlight(t.ID)
		if h == nil {
			return
		}
		h.ImageSrc = src
	default:
		p.panel.Add(NewImage(job.file.Name, src))
	}
	b.applied.Add(1)
}
