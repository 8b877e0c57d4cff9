// Package paging holds the session-scoped history navigation state. A
// cursor is owned by one session, driven by the store's query results,
// and never persisted.
package paging

// Cursor tracks where a session is in the descending keyset walk of the
// history. lastSeenID == 0 means the first page; backStack is a LIFO of
// previously-seen anchors, empty exactly when on the first page.
type Cursor struct {
	lastSeenID int64
	backStack  []int64
	hasMore    bool
}

func NewCursor() *Cursor {
	return &Cursor{}
}

// LastSeenID is the upper-exclusive id bound of the current page, or 0 on
// the first page.
func (c *Cursor) LastSeenID() int64 {
	return c.lastSeenID
}

func (c *Cursor) OnFirstPage() bool {
	return c.lastSeenID == 0
}

func (c *Cursor) HasMore() bool {
	return c.hasMore
}

// SetHasMore records whether the store reported records beyond the
// current page. It gates the next Advance.
func (c *Cursor) SetHasMore(v bool) {
	c.hasMore = v
}

// Advance moves to the next (older) page anchored at nextAnchor, the
// oldest id on the current page. Refused unless the current page reported
// more records. Reports whether the cursor moved.
func (c *Cursor) Advance(nextAnchor int64) bool {
	if !c.hasMore || nextAnchor <= 0 {
		return false
	}
	if c.lastSeenID != 0 {
		c.backStack = append(c.backStack, c.lastSeenID)
	}
	c.lastSeenID = nextAnchor
	c.hasMore = false
	return true
}

// Retreat moves back to the previous (newer) page, or to the first page
// when the back stack is empty.
func (c *Cursor) Retreat() {
	if n := len(c.backStack); n > 0 {
		c.lastSeenID = c.backStack[n-1]
		c.backStack = c.backStack[:n-1]
		return
	}
	c.lastSeenID = 0
}

// Reset returns to the start state. Triggered by a new classification, a
// history clear, or an explicit refresh.
func (c *Cursor) Reset() {
	c.lastSeenID = 0
	c.backStack = nil
	c.hasMore = false
}

// PageNumber is the 1-based page number for display.
func (c *Cursor) PageNumber() int {
	if c.OnFirstPage() {
		return 1
	}
	return len(c.backStack) + 2
}
