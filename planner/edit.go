package planner

// EditSession tracks one inline edit of a text value. The zero value is idle.
type EditSession struct {
	committed string
	current   string
	active    bool
}

// Begin starts editing from the last committed value.
func (e *EditSession) Begin(committed string) {
	e.committed = committed
	e.current = committed
	e.active = true
}

// Active reports whether an edit is in progress.
func (e *EditSession) Active() bool { return e.active }

// Set records the in-progress value.
func (e *EditSession) Set(v string) { e.current = v }

// Value returns the in-progress value, or the committed one when idle.
func (e *EditSession) Value() string {
	if e.active {
		return e.current
	}
	return e.committed
}

// Commit ends the edit. It returns the new value and true only when the value
// differs from the last committed one.
func (e *EditSession) Commit() (string, bool) {
	if !e.active {
		return e.committed, false
	}
	e.active = false
	if e.current == e.committed {
		return e.committed, false
	}
	e.committed = e.current
	return e.committed, true
}

// Cancel discards the in-progress value and returns the committed one.
func (e *EditSession) Cancel() string {
	e.active = false
	e.current = e.committed
	return e.committed
}
