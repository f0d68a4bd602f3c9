package planner

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"
)

// Image is an uploaded picture. Src is a self-contained data URI.
type Image struct {
	ID  string `json:"id"`
	Src string `json:"src"`
}

var imageSeq atomic.Uint64

// NewImage creates an Image whose id is derived from the source file name and
// the creation time.
func NewImage(fileName, src string) Image {
	return Image{
		ID:  fmt.Sprintf("%s-%d-%d", imageSlug(fileName), time.Now().UnixMilli(), imageSeq.Add(1)),
		Src: src,
	}
}

func imageSlug(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	base = strings.ToLower(strings.TrimSpace(base))
	var b strings.Builder
	prev := false
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	s := strings.TrimRight(b.String(), "-")
	if s == "" {
		return "image"
	}
	return s
}

// Panel is the pool of uploaded images not yet placed in the grid.
type Panel struct {
	images []Image
}

// Add appends img unless an image with the same id is already present.
func (p *Panel) Add(img Image) {
	if p.Contains(img.ID) {
		return
	}
	p.images = append(p.images, img)
}

// Remove drops the image with the given id. Absent ids are ignored.
func (p *Panel) Remove(id string) {
	for i, img := range p.images {
		if img.ID == id {
			p.images = append(p.images[:i], p.images[i+1:]...)
			return
		}
	}
}

// Contains reports whether an image with id is in the panel.
func (p *Panel) Contains(id string) bool {
	_, ok := p.Find(id)
	return ok
}

// Find returns the image with id.
func (p *Panel) Find(id string) (Image, bool) {
	for _, img := range p.images {
		if img.ID == id {
			return img, true
		}
	}
	return Image{}, false
}

// Index returns the position of id in the panel, or -1.
func (p *Panel) Index(id string) int {
	for i, img := range p.images {
		if img.ID == id {
			return i
		}
	}
	return -1
}

// Len returns the number of images in the panel.
func (p *Panel) Len() int { return len(p.images) }

// Images returns a copy of the panel contents.
func (p *Panel) Images() []Image {
	out := make([]Image, len(p.images))
	copy(out, p.images)
	return out
}
