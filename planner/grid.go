package planner

import "fmt"

// GridSize is the number of slots in the profile grid (6 rows of 3).
const GridSize = 18

// GridColumns is the row width of the on-screen layout.
const GridColumns = 3

// IndexError reports a grid index outside [0, GridSize).
type IndexError struct {
	Index int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("planner: grid index %d out of range [0,%d)", e.Index, GridSize)
}

func checkIndex(i int) error {
	if i < 0 || i >= GridSize {
		return &IndexError{Index: i}
	}
	return nil
}

// Grid is a fixed sequence of optional image slots in row-major order.
type Grid struct {
	slots [GridSize]*Image
}

// At returns the image in slot i, or nil when the slot is empty.
func (g *Grid) At(i int) (*Image, error) {
	if err := checkIndex(i); err != nil {
		return nil, err
	}
	if g.slots[i] == nil {
		return nil, nil
	}
	img := *g.slots[i]
	return &img, nil
}

// Set replaces slot i unconditionally. A nil img empties the slot.
// What happens to the previous occupant is the caller's concern.
func (g *Grid) Set(i int, img *Image) error {
	if err := checkIndex(i); err != nil {
		return err
	}
	if img == nil {
		g.slots[i] = nil
		return nil
	}
	cp := *img
	g.slots[i] = &cp
	return nil
}

// Swap exchanges the contents of slots i and j. Either may be empty.
func (g *Grid) Swap(i, j int) error {
	if err := checkIndex(i); err != nil {
		return err
	}
	if err := checkIndex(j); err != nil {
		return err
	}
	if i == j {
		return nil
	}
	g.slots[i], g.slots[j] = g.slots[j], g.slots[i]
	return nil
}

// IndexOf returns the slot holding the image with id, or -1.
func (g *Grid) IndexOf(id string) int {
	for i, s := range g.slots {
		if s != nil && s.ID == id {
			return i
		}
	}
	return -1
}

// Slots returns a copy of every slot; empty slots are nil.
func (g *Grid) Slots() []*Image {
	out := make([]*Image, GridSize)
	for i, s := range g.slots {
		if s != nil {
			img := *s
			out[i] = &img
		}
	}
	return out
}
