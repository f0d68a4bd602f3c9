package gridplan

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/eringen/gridplan/planner"
)

// Workspace is one browser session's plan plus its open inline edits.
type Workspace struct {
	ID      string
	Planner *planner.Planner

	mu       sync.Mutex
	edits    map[planner.Field]*planner.EditSession
	names    map[string]*planner.EditSession // highlight id -> name edit
	lastSeen atomic.Int64
}

func (w *Workspace) touch(now time.Time) { w.lastSeen.Store(now.UnixNano()) }

func (w *Workspace) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, w.lastSeen.Load()))
}

func (w *Workspace) session(f planner.Field) *planner.EditSession {
	s, ok := w.edits[f]
	if !ok {
		s = &planner.EditSession{}
		w.edits[f] = s
	}
	return s
}

// BeginEdit opens an inline edit of f from its current value.
func (w *Workspace) BeginEdit(f planner.Field) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.session(f)
	s.Begin(w.Planner.Profile().Value(f))
	return s.Value()
}

// Editing reports whether f has an inline edit open.
func (w *Workspace) Editing(f planner.Field) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.edits[f]
	return ok && s.Active()
}

// CommitEdit finishes the edit of f with value v. The profile is only
// updated when v differs from the last committed value.
func (w *Workspace) CommitEdit(f planner.Field, v string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.session(f)
	if !s.Active() {
		s.Begin(w.Planner.Profile().Value(f))
	}
	s.Set(v)
	val, changed := s.Commit()
	if changed {
		w.Planner.UpdateProfile(f.Patch(val))
	}
	return changed
}

// CancelEdit discards the edit of f and returns the committed value.
func (w *Workspace) CancelEdit(f planner.Field) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.edits[f]
	if !ok {
		return w.Planner.Profile().Value(f)
	}
	return s.Cancel()
}

func (w *Workspace) highlightName(id string) (string, bool) {
	h, ok := w.Planner.Profile().Highlight(id)
	return h.Name, ok
}

func (w *Workspace) nameSession(id string) *planner.EditSession {
	s, ok := w.names[id]
	if !ok {
		s = &planner.EditSession{}
		w.names[id] = s
	}
	return s
}

// BeginHighlightEdit opens an edit of the name of highlight id. It reports
// false for unknown ids.
func (w *Workspace) BeginHighlightEdit(id string) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	name, ok := w.highlightName(id)
	if !ok {
		return "", false
	}
	s := w.nameSession(id)
	s.Begin(name)
	return s.Value(), true
}

// CommitHighlightName finishes the name edit of highlight id. The highlight
// is only updated when v differs from the last committed name; unknown ids
// are ignored.
func (w *Workspace) CommitHighlightName(id, v string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	name, ok := w.highlightName(id)
	if !ok {
		return false
	}
	s := w.nameSession(id)
	if !s.Active() {
		s.Begin(name)
	}
	s.Set(v)
	val, changed := s.Commit()
	if changed {
		w.Planner.UpdateHighlight(id, planner.HighlightPatch{Name: &val})
	}
	return changed
}

// CancelHighlightEdit discards the name edit of highlight id and returns the
// committed name.
func (w *Workspace) CancelHighlightEdit(id string) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	name, ok := w.highlightName(id)
	if !ok {
		return "", false
	}
	if s, ok := w.names[id]; ok {
		s.Cancel()
	}
	return name, true
}

// Registry holds every live workspace. Workspaces idle for longer than the
// TTL are dropped by a background sweep.
type Registry struct {
	mu         sync.RWMutex
	items      map[string]*Workspace
	ttl        time.Duration
	newPlanner func() *planner.Planner
	now        func() time.Time

	stopOnce sync.Once
	stop     chan struct{}
}

// NewRegistry creates a Registry and starts its sweeper. Call Close to stop it.
func NewRegistry(ttl time.Duration, newPlanner func() *planner.Planner) *Registry {
	r := &Registry{
		items:      make(map[string]*Workspace),
		ttl:        ttl,
		newPlanner: newPlanner,
		now:        time.Now,
		stop:       make(chan struct{}),
	}
	go r.cleanup()
	return r
}

// Get returns the workspace with id and marks it as used.
func (r *Registry) Get(id string) (*Workspace, bool) {
	r.mu.RLock()
	w, ok := r.items[id]
	r.mu.RUnlock()
	if ok {
		w.touch(r.now())
	}
	return w, ok
}

// Create starts a fresh workspace with a new id.
func (r *Registry) Create() *Workspace {
	w := &Workspace{
		ID:      uuid.NewString(),
		Planner: r.newPlanner(),
		edits:   make(map[planner.Field]*planner.EditSession),
		names:   make(map[string]*planner.EditSession),
	}
	w.touch(r.now())
	r.mu.Lock()
	r.items[w.ID] = w
	r.mu.Unlock()
	return w
}

// Len returns the number of live workspaces.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Close stops the sweeper.
func (r *Registry) Close() {
	r.stopOnce.Do(func() { close(r.stop) })
}

func (r *Registry) cleanup() {
	interval := r.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

// sweep drops idle workspaces and returns how many were removed.
func (r *Registry) sweep() int {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, w := range r.items {
		if w.idleSince(now) > r.ttl {
			delete(r.items, id)
			n++
		}
	}
	return n
}
