package planner

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func memFile(name, content string) File {
	return File{
		Name: name,
		Size: int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

// textDecoder returns "data:" + the file contents, failing on "bad".
var textDecoder = DecoderFunc(func(ctx context.Context, f File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	if string(b) == "bad" {
		return "", errors.New("not an image")
	}
	return "data:" + string(b), nil
})

func img(id string) Image { return Image{ID: id, Src: "data:" + id} }

func gridIDs(s State) []string {
	out := make([]string, len(s.Grid))
	for i, g := range s.Grid {
		if g != nil {
			out[i] = g.ID
		}
	}
	return out
}

func panelIDs(s State) []string {
	var out []string
	for _, p := range s.Panel {
		out = append(out, p.ID)
	}
	return out
}

func assertNoDuplicates(t *testing.T, p *Planner) {
	t.Helper()
	s := p.Snapshot()
	inPanel := make(map[string]bool)
	for _, im := range s.Panel {
		inPanel[im.ID] = true
	}
	seen := make(map[string]int)
	for i, g := range s.Grid {
		if g == nil {
			continue
		}
		if inPanel[g.ID] {
			t.Fatalf("image %q is in the panel and in grid slot %d", g.ID, i)
		}
		if prev, ok := seen[g.ID]; ok {
			t.Fatalf("image %q is in grid slots %d and %d", g.ID, prev, i)
		}
		seen[g.ID] = i
	}
}

func mustGrid(t *testing.T, p *Planner, i int, im Image) {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.grid.Set(i, &im); err != nil {
		t.Fatalf("Set(%d): %v", i, err)
	}
}

func TestNewPlannerIsEmpty(t *testing.T) {
	p := New(textDecoder)
	s := p.Snapshot()
	if len(s.Grid) != GridSize {
		t.Fatalf("grid len = %d, want %d", len(s.Grid), GridSize)
	}
	for i, g := range s.Grid {
		if g != nil {
			t.Errorf("slot %d = %v, want empty", i, g)
		}
	}
	if len(s.Panel) != 0 {
		t.Errorf("panel = %v, want empty", s.Panel)
	}
	if s.Target != "none" {
		t.Errorf("target = %q, want none", s.Target)
	}
	if len(s.Profile.Highlights) != DefaultHighlightCount {
		t.Errorf("highlights = %d, want %d", len(s.Profile.Highlights), DefaultHighlightCount)
	}
}

func TestDefaultProfileSeedsArtwork(t *testing.T) {
	p := DefaultProfile()
	const prefix = "data:image/svg+xml;base64,"
	if !strings.HasPrefix(p.Avatar, prefix) {
		t.Errorf("avatar = %.40q, want an svg data uri", p.Avatar)
	}
	seen := make(map[string]bool)
	for _, h := range p.Highlights {
		if !strings.HasPrefix(h.ImageSrc, prefix) {
			t.Errorf("%s cover = %.40q, want an svg data uri", h.ID, h.ImageSrc)
		}
		if seen[h.ImageSrc] {
			t.Errorf("%s reuses another highlight's cover", h.ID)
		}
		seen[h.ImageSrc] = true
	}
	if got, ok := p.Highlight("highlight-3"); !ok || got.Name != "Highlight 3" {
		t.Errorf("Highlight(highlight-3) = %+v, %v", got, ok)
	}
	if _, ok := p.Highlight("nope"); ok {
		t.Error("Highlight(nope) should not be found")
	}
}

func TestDragPanelToEmptySlot(t *testing.T) {
	p := New(textDecoder)
	p.AddToPanel(img("A"))

	item, ok := p.PanelItem("A")
	if !ok {
		t.Fatal("PanelItem(A) not found")
	}
	p.DragStart(item)
	if err := p.Drop(5); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	p.DragEnd()

	s := p.Snapshot()
	for i, id := range gridIDs(s) {
		want := ""
		if i == 5 {
			want = "A"
		}
		if id != want {
			t.Errorf("slot %d = %q, want %q", i, id, want)
		}
	}
	if len(s.Panel) != 0 {
		t.Errorf("panel = %v, want empty", panelIDs(s))
	}
	if s.Dragging != nil {
		t.Errorf("still dragging %v", s.Dragging)
	}
}

func TestDragGridToGridSwaps(t *testing.T) {
	p := New(textDecoder)
	mustGrid(t, p, 5, img("A"))
	mustGrid(t, p, 2, img("B"))
	p.AddToPanel(img("P"))

	item, ok, err := p.GridItem(5)
	if err != nil || !ok {
		t.Fatalf("GridItem(5) = %v, %v", ok, err)
	}
	p.DragStart(item)
	if err := p.Drop(2); err != nil {
		t.Fatalf("Drop: %v", err)
	}

	s := p.Snapshot()
	ids := gridIDs(s)
	if ids[5] != "B" || ids[2] != "A" {
		t.Errorf("slots 5,2 = %q,%q, want B,A", ids[5], ids[2])
	}
	if got := panelIDs(s); len(got) != 1 || got[0] != "P" {
		t.Errorf("panel = %v, want [P]", got)
	}
}

func TestDragGridToEmptySlotMoves(t *testing.T) {
	p := New(textDecoder)
	mustGrid(t, p, 0, img("A"))

	item, _, _ := p.GridItem(0)
	p.DragStart(item)
	if err := p.Drop(17); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	ids := gridIDs(p.Snapshot())
	if ids[0] != "" || ids[17] != "A" {
		t.Errorf("slots 0,17 = %q,%q, want \"\",A", ids[0], ids[17])
	}
}

func TestDragPanelOntoOccupiedSlotRecycles(t *testing.T) {
	p := New(textDecoder)
	mustGrid(t, p, 5, img("A"))
	p.AddToPanel(img("C"))

	item, _ := p.PanelItem("C")
	p.DragStart(item)
	if err := p.Drop(5); err != nil {
		t.Fatalf("Drop: %v", err)
	}

	s := p.Snapshot()
	if id := gridIDs(s)[5]; id != "C" {
		t.Errorf("slot 5 = %q, want C", id)
	}
	if got := panelIDs(s); len(got) != 1 || got[0] != "A" {
		t.Errorf("panel = %v, want [A]", got)
	}
	assertNoDuplicates(t, p)
}

func TestSelfDropIsNoop(t *testing.T) {
	p := New(textDecoder)
	mustGrid(t, p, 7, img("A"))
	mustGrid(t, p, 8, img("B"))
	before := gridIDs(p.Snapshot())

	item, _, _ := p.GridItem(7)
	p.DragStart(item)
	if err := p.Drop(7); err != nil {
		t.Fatalf("Drop: %v", err)
	}

	after := gridIDs(p.Snapshot())
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("slot %d changed from %q to %q", i, before[i], after[i])
		}
	}
}

func TestDropWithoutDrag(t *testing.T) {
	p := New(textDecoder)
	if err := p.Drop(3); !errors.Is(err, ErrNotDragging) {
		t.Fatalf("Drop error = %v, want ErrNotDragging", err)
	}
}

func TestDropOutOfRange(t *testing.T) {
	p := New(textDecoder)
	p.AddToPanel(img("A"))
	item, _ := p.PanelItem("A")
	p.DragStart(item)

	for _, idx := range []int{-1, GridSize, 100} {
		err := p.Drop(idx)
		var ie *IndexError
		if !errors.As(err, &ie) {
			t.Fatalf("Drop(%d) error = %v, want *IndexError", idx, err)
		}
		if ie.Index != idx {
			t.Errorf("IndexError.Index = %d, want %d", ie.Index, idx)
		}
	}
	if _, ok := p.Dragging(); !ok {
		t.Error("rejected drop should keep the drag in flight")
	}
}

func TestDropAfterSourceDeleted(t *testing.T) {
	p := New(textDecoder)
	p.AddToPanel(img("A"))
	item, _ := p.PanelItem("A")
	p.DragStart(item)
	p.DeleteFromPanel("A")

	if err := p.Drop(4); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	s := p.Snapshot()
	if s.Grid[4] != nil {
		t.Errorf("deleted image placed into slot 4: %s", s.Grid[4].ID)
	}
	if len(s.Panel) != 0 {
		t.Errorf("panel = %v, want empty", panelIDs(s))
	}
	if _, ok := p.Dragging(); ok {
		t.Error("expected idle after drop")
	}
}

func TestDropAfterGridSourceMoved(t *testing.T) {
	p := New(textDecoder)
	mustGrid(t, p, 2, img("A"))
	item, _, _ := p.GridItem(2)
	p.DragStart(item)
	if err := p.DeleteFromGrid(2); err != nil {
		t.Fatalf("DeleteFromGrid: %v", err)
	}
	mustGrid(t, p, 2, img("B"))

	if err := p.Drop(6); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	s := p.Snapshot()
	if s.Grid[6] != nil || s.Grid[2] == nil || s.Grid[2].ID != "B" {
		t.Errorf("grid = %v, want B untouched in slot 2", gridIDs(s))
	}
}

func TestDragEndIsIdempotent(t *testing.T) {
	p := New(textDecoder)
	p.DragEnd()
	p.DragStart(DragItem{Origin: OriginPanel, Image: img("A")})
	p.DragEnd()
	p.DragEnd()
	if _, ok := p.Dragging(); ok {
		t.Fatal("expected idle after DragEnd")
	}
}

func TestDragStartOverwrites(t *testing.T) {
	p := New(textDecoder)
	p.DragStart(DragItem{Origin: OriginPanel, Image: img("A")})
	p.DragStart(DragItem{Origin: OriginGrid, Image: img("B"), SourceIndex: 3})
	item, ok := p.Dragging()
	if !ok || item.Image.ID != "B" || item.Origin != OriginGrid {
		t.Fatalf("Dragging() = %+v, %v; want B from grid", item, ok)
	}
}

func TestDeleteFromGridRecycles(t *testing.T) {
	p := New(textDecoder)
	mustGrid(t, p, 4, img("A"))

	if err := p.DeleteFromGrid(4); err != nil {
		t.Fatalf("DeleteFromGrid: %v", err)
	}
	s := p.Snapshot()
	if s.Grid[4] != nil {
		t.Errorf("slot 4 = %v, want empty", s.Grid[4])
	}
	if got := panelIDs(s); len(got) != 1 || got[0] != "A" {
		t.Errorf("panel = %v, want [A]", got)
	}

	// already empty
	if err := p.DeleteFromGrid(4); err != nil {
		t.Fatalf("DeleteFromGrid on empty slot: %v", err)
	}
	if got := panelIDs(p.Snapshot()); len(got) != 1 {
		t.Errorf("panel = %v, want [A]", got)
	}
	if err := p.DeleteFromGrid(GridSize); err == nil {
		t.Error("expected error for out-of-range delete")
	}
}

func TestDeleteFromPanelIdempotent(t *testing.T) {
	p := New(textDecoder)
	p.AddToPanel(img("A"))
	p.AddToPanel(img("B"))

	p.DeleteFromPanel("A")
	first := panelIDs(p.Snapshot())
	p.DeleteFromPanel("A")
	second := panelIDs(p.Snapshot())

	if len(first) != 1 || first[0] != "B" {
		t.Fatalf("after first delete panel = %v, want [B]", first)
	}
	if len(second) != len(first) || second[0] != first[0] {
		t.Errorf("second delete changed panel from %v to %v", first, second)
	}
}

func TestAddToPanelDeduplicates(t *testing.T) {
	p := New(textDecoder)
	p.AddToPanel(img("A"))
	p.AddToPanel(img("A"))
	mustGrid(t, p, 0, img("G"))
	p.AddToPanel(img("G"))

	if got := panelIDs(p.Snapshot()); len(got) != 1 || got[0] != "A" {
		t.Errorf("panel = %v, want [A]", got)
	}
}

func TestNoDuplicatesAcrossSequence(t *testing.T) {
	p := New(textDecoder)
	for _, id := range []string{"A", "B", "C", "D"} {
		p.AddToPanel(img(id))
	}
	steps := []struct {
		panelID string
		from    int
		to      int
	}{
		{panelID: "A", to: 0},
		{panelID: "B", to: 0},
		{from: 0, to: 3},
		{panelID: "A", to: 3},
		{panelID: "C", to: 1},
		{from: 1, to: 3},
		{panelID: "D", to: 3},
	}
	for n, st := range steps {
		var item DragItem
		if st.panelID != "" {
			var ok bool
			item, ok = p.PanelItem(st.panelID)
			if !ok {
				t.Fatalf("step %d: %q not in panel", n, st.panelID)
			}
		} else {
			var ok bool
			var err error
			item, ok, err = p.GridItem(st.from)
			if err != nil || !ok {
				t.Fatalf("step %d: GridItem(%d) = %v, %v", n, st.from, ok, err)
			}
		}
		p.DragStart(item)
		if err := p.Drop(st.to); err != nil {
			t.Fatalf("step %d: Drop: %v", n, err)
		}
		p.DragEnd()
		assertNoDuplicates(t, p)
	}

	s := p.Snapshot()
	total := len(s.Panel)
	for _, g := range s.Grid {
		if g != nil {
			total++
		}
	}
	if total != 4 {
		t.Errorf("images tracked = %d, want 4 (none lost)", total)
	}
}

func TestUpdateProfileMerges(t *testing.T) {
	p := New(textDecoder)
	before := p.Profile()
	name := "Jane"
	bio := "new bio"
	p.UpdateProfile(ProfilePatch{Name: &name, Bio: &bio})

	after := p.Profile()
	if after.Name != "Jane" || after.Bio != "new bio" {
		t.Errorf("Name, Bio = %q, %q", after.Name, after.Bio)
	}
	if after.Username != before.Username || after.Followers != before.Followers {
		t.Errorf("untouched fields changed: %+v", after)
	}
}

func TestUpdateHighlight(t *testing.T) {
	p := New(textDecoder)
	name := "Travel"
	if !p.UpdateHighlight("highlight-3", HighlightPatch{Name: &name}) {
		t.Fatal("UpdateHighlight(highlight-3) reported missing")
	}
	if p.UpdateHighlight("nope", HighlightPatch{Name: &name}) {
		t.Error("UpdateHighlight(nope) should report false")
	}
	for _, h := range p.Profile().Highlights {
		if h.ID == "highlight-3" && h.Name != "Travel" {
			t.Errorf("highlight-3 name = %q, want Travel", h.Name)
		}
		if h.ID != "highlight-3" && h.Name == "Travel" {
			t.Errorf("%s renamed unexpectedly", h.ID)
		}
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	p := New(textDecoder)
	s := p.Snapshot()
	s.Profile.Highlights[0].Name = "mutated"
	if p.Profile().Highlights[0].Name == "mutated" {
		t.Fatal("snapshot shares highlight storage with planner")
	}
}
