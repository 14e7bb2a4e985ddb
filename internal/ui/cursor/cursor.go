// Package cursor tracks a cursor and scroll offset over a list.
package cursor

// Cursor manages cursor position and scroll offset for a scrollable list.
// List length and viewport height are passed in since both change.
type Cursor struct {
	pos    int
	offset int // first visible index
	margin int // rows kept visible above/below the cursor
}

// New creates a new Cursor with the specified scroll margin.
func New(margin int) Cursor {
	return Cursor{margin: margin}
}

// Pos returns the current cursor position.
func (c Cursor) Pos() int {
	return c.pos
}

// Offset returns the current scroll offset.
func (c Cursor) Offset() int {
	return c.offset
}

// Move moves the cursor by delta, clamped to the list, and scrolls to keep
// it visible. No-op on an empty list.
func (c *Cursor) Move(delta, listLen, height int) {
	c.Jump(c.pos+delta, listLen, height)
}

// Jump places the cursor at pos, clamped to the list.
func (c *Cursor) Jump(pos, listLen, height int) {
	if listLen == 0 {
		return
	}
	c.pos = clamp(pos, listLen-1)
	c.ensureVisible(listLen, height)
}

// Clamp pulls the cursor back inside a list that shrank.
func (c *Cursor) Clamp(listLen, height int) {
	if listLen == 0 {
		c.pos, c.offset = 0, 0
		return
	}
	c.Jump(c.pos, listLen, height)
}

// VisibleRange returns the visible indices as [start, end).
func (c Cursor) VisibleRange(listLen, height int) (start, end int) {
	if listLen == 0 || height <= 0 {
		return 0, 0
	}
	return c.offset, min(c.offset+height, listLen)
}

func (c *Cursor) ensureVisible(listLen, height int) {
	if height <= 0 {
		return
	}
	margin := min(c.margin, (height-1)/2)

	if c.pos < c.offset+margin {
		c.offset = max(c.pos-margin, 0)
	}
	if c.pos >= c.offset+height-margin {
		c.offset = c.pos - height + margin + 1
	}
	c.offset = clamp(c.offset, max(listLen-height, 0))
}

func clamp(v, maxVal int) int {
	return min(max(v, 0), maxVal)
}
