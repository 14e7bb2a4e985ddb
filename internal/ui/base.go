package ui

// popupPadding is the horizontal padding inside a popup border.
const popupPadding = 2

// Base carries the size and focus of a component. Embed it in panel and
// popup models:
//
//	type Model struct {
//	    ui.Base
//	    cursor cursor.Cursor
//	}
type Base struct {
	width, height int
	focused       bool
}

// SetFocused sets whether the component receives list keys.
func (b *Base) SetFocused(focused bool) {
	b.focused = focused
}

// IsFocused returns whether the component receives list keys.
func (b Base) IsFocused() bool {
	return b.focused
}

// SetSize sets the space given to the component.
func (b *Base) SetSize(width, height int) {
	b.width = width
	b.height = height
}

// Width returns the component width.
func (b Base) Width() int {
	return b.width
}

// Height returns the component height.
func (b Base) Height() int {
	return b.height
}

// Hidden reports whether there is no room to draw anything.
func (b Base) Hidden() bool {
	return b.width <= 0 || b.height <= 0
}

// InnerWidth is the width left inside a panel border.
func (b Base) InnerWidth() int {
	return max(b.width-BorderHeight, 0)
}

// PopupWidth is the text width of a bordered, padded popup that is at
// most limit columns wide overall. It is at least 1.
func (b Base) PopupWidth(limit int) int {
	return max(min(b.width, limit)-BorderHeight-popupPadding, 1)
}
