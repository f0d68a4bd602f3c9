// Package planner is the in-memory state model of a profile grid plan:
// the panel of unplaced images, the 18-slot grid, the profile metadata,
// and the drag/drop and upload transitions between them.
//
// A Planner is safe for concurrent use. Every operation runs to completion
// under a single lock before the next one is observed.
package planner

import (
	"log/slog"
	"sync"
)

// DefaultDecodeWorkers bounds concurrent decodes per upload batch.
const DefaultDecodeWorkers = 4

// Planner owns the panel, grid, profile, the pending upload target and the
// in-flight drag item.
type Planner struct {
	mu sync.Mutex

	panel   Panel
	grid    Grid
	profile Profile

	drag   *DragItem
	target UploadTarget

	// targetSeq holds the sequence of the latest upload initiated per target.
	targetSeq map[string]uint64
	seq       uint64

	decoder Decoder
	workers int
	log     *slog.Logger
}

// Option configures a Planner.
type Option func(*Planner)

// WithProfile seeds the planner with p instead of DefaultProfile.
func WithProfile(p Profile) Option {
	return func(pl *Planner) {
		pl.profile = p.clone()
	}
}

// WithDecodeWorkers sets the number of concurrent decodes per batch.
func WithDecodeWorkers(n int) Option {
	return func(pl *Planner) {
		if n > 0 {
			pl.workers = n
		}
	}
}

// WithLogger sets the logger used for dropped uploads.
func WithLogger(l *slog.Logger) Option {
	return func(pl *Planner) {
		if l != nil {
			pl.log = l
		}
	}
}

// New creates a planner with an empty grid and panel and a seeded profile.
func New(dec Decoder, opts ...Option) *Planner {
	p := &Planner{
		profile:   DefaultProfile(),
		target:    NoTarget{},
		targetSeq: make(map[string]uint64),
		decoder:   dec,
		workers:   DefaultDecodeWorkers,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.With(slog.String("component", "planner"))
	return p
}

// State is a point-in-time copy of the planner for rendering.
type State struct {
	Panel    []Image   `json:"panel"`
	Grid     []*Image  `json:"grid"`
	Profile  Profile   `json:"profile"`
	Dragging *DragItem `json:"dragging,omitempty"`
	Target   string    `json:"upload_target"`
}

// Snapshot returns a copy of the current state.
func (p *Planner) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := State{
		Panel:   p.panel.Images(),
		Grid:    p.grid.Slots(),
		Profile: p.profile.clone(),
		Target:  p.target.String(),
	}
	if p.drag != nil {
		d := *p.drag
		s.Dragging = &d
	}
	return s
}

// Profile returns a copy of the profile metadata.
func (p *Planner) Profile() Profile {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.profile.clone()
}

// AddToPanel places img in the panel unless it is already there.
func (p *Planner) AddToPanel(img Image) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.grid.IndexOf(img.ID) >= 0 {
		return
	}
	p.panel.Add(img)
}

// UpdateProfile merges the non-nil fields of patch into the profile.
func (p *Planner) UpdateProfile(patch ProfilePatch) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.profile.apply(patch)
}

// UpdateHighlight merges patch into the highlight with id. It reports false
// when no such highlight exists.
func (p *Planner) UpdateHighlight(id string, patch HighlightPatch) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	h := p.profile.highlight(id)
	if h == nil {
		return false
	}
	if patch.ImageSrc != nil {
		h.ImageSrc = *patch.ImageSrc
	}
	if patch.Name != nil {
		h.Name = *patch.Name
	}
	return true
}

// recycle returns an image displaced from the grid to the panel.
// Every path that takes an image out of the grid without discarding it goes
// through here; p.mu must be held.
func (p *Planner) recycle(img *Image) {
	if img == nil {
		return
	}
	p.panel.Add(*img)
}

// place puts img into slot i, takes it out of the panel, and recycles the
// previous occupant. p.mu must be held.
func (p *Planner) place(i int, img Image) error {
	prior, err := p.grid.At(i)
	if err != nil {
		return err
	}
	if err := p.grid.Set(i, &img); err != nil {
		return err
	}
	p.panel.Remove(img.ID)
	if prior != nil && prior.ID != img.ID {
		p.recycle(prior)
	}
	return nil
}
