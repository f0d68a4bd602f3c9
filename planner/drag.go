package planner

import (
	"errors"
	"fmt"
)

// ErrNotDragging is returned by Drop when no drag gesture is in progress.
var ErrNotDragging = errors.New("planner: no drag in progress")

// Origin tells where a dragged image came from.
type Origin int

const (
	OriginPanel Origin = iota + 1
	OriginGrid
)

func (o Origin) String() string {
	switch o {
	case OriginPanel:
		return "panel"
	case OriginGrid:
		return "grid"
	}
	return fmt.Sprintf("Origin(%d)", int(o))
}

// MarshalText encodes the origin as "panel" or "grid".
func (o Origin) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText decodes "panel" or "grid".
func (o *Origin) UnmarshalText(b []byte) error {
	v, err := ParseOrigin(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// ParseOrigin parses "panel" or "grid".
func ParseOrigin(s string) (Origin, error) {
	switch s {
	case "panel":
		return OriginPanel, nil
	case "grid":
		return OriginGrid, nil
	}
	return 0, fmt.Errorf("planner: unknown drag origin %q", s)
}

// DragItem is the payload of one drag gesture.
type DragItem struct {
	Origin      Origin `json:"origin"`
	Image       Image  `json:"image"`
	SourceIndex int    `json:"source_index"`
}

// PanelItem builds a DragItem for the panel image with id.
func (p *Planner) PanelItem(id string) (DragItem, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.panel.Index(id)
	if i < 0 {
		return DragItem{}, false
	}
	img, _ := p.panel.Find(id)
	return DragItem{Origin: OriginPanel, Image: img, SourceIndex: i}, true
}

// GridItem builds a DragItem for the image in slot i. It reports false when
// the slot is empty.
func (p *Planner) GridItem(i int) (DragItem, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	img, err := p.grid.At(i)
	if err != nil {
		return DragItem{}, false, err
	}
	if img == nil {
		return DragItem{}, false, nil
	}
	return DragItem{Origin: OriginGrid, Image: *img, SourceIndex: i}, true, nil
}

// DragStart records item as the in-flight drag, replacing any previous one.
func (p *Planner) DragStart(item DragItem) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.drag = &item
}

// Dragging returns the in-flight drag item, if any.
func (p *Planner) Dragging() (DragItem, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.drag == nil {
		return DragItem{}, false
	}
	return *p.drag, true
}

// Drop applies the in-flight drag to slot target and ends the gesture.
// A grid image is swapped with the target slot; a panel image replaces the
// target's occupant, which goes back to the panel. If the dragged image left
// its source while the drag was in flight, the drop does nothing.
func (p *Planner) Drop(target int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.drag == nil {
		return ErrNotDragging
	}
	if err := checkIndex(target); err != nil {
		return err
	}
	item := *p.drag
	p.drag = nil

	switch item.Origin {
	case OriginGrid:
		if item.SourceIndex == target || p.grid.IndexOf(item.Image.ID) != item.SourceIndex {
			return nil
		}
		return p.grid.Swap(item.SourceIndex, target)
	case OriginPanel:
		if !p.panel.Contains(item.Image.ID) {
			return nil
		}
		return p.place(target, item.Image)
	}
	return fmt.Errorf("planner: drop with %v", item.Origin)
}

// DragEnd returns to idle. It is safe to call after Drop or on cancel.
func (p *Planner) DragEnd() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.drag = nil
}

// DeleteFromGrid empties slot i and returns its image to the panel.
func (p *Planner) DeleteFromGrid(i int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	img, err := p.grid.At(i)
	if err != nil || img == nil {
		return err
	}
	if err := p.grid.Set(i, nil); err != nil {
		return err
	}
	p.recycle(img)
	return nil
}

// DeleteFromPanel discards the panel image with id.
func (p *Planner) DeleteFromPanel(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.panel.Remove(id)
}
