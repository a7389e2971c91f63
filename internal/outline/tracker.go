package outline

import "sync"

// Tracker keeps the scroll-spy "active section" id. Visibility events arrive
// for rendered headings; the most recent heading to enter the viewport band
// wins. Ids that vanish after an edit simply never match again, which is the
// accepted cost of position-derived identity.
type Tracker struct {
	mu     sync.Mutex
	active string
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Observe records one visibility transition for a heading id. Only entering
// headings update the active id; a heading leaving the band keeps the last
// active id until another one enters.
func (t *Tracker) Observe(id string, entering bool) {
	if !entering {
		return
	}
	t.mu.Lock()
	t.active = id
	t.mu.Unlock()
}

// Active returns the current active heading id, or "" before any heading has
// been observed.
func (t *Tracker) Active() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Reset clears the active id, used when the outline is rebuilt from scratch.
func (t *Tracker) Reset() {
	t.mu.Lock()
	t.active = ""
	t.mu.Unlock()
}
