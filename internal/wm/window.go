// Package wm is the floating window manager: z-ordered windows with
// drag/resize/minimize/maximize, chrome hit-testing, the taskbar row,
// and the hierarchical start menu.
package wm

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stylith/termdesk/internal/screen"
)

// Kind is the window-content contract. The set of kinds is small and
// closed: pty app, file manager, settings panel.
type Kind interface {
	Render(s *screen.Surface, area screen.Rect)
	HandleKey(msg tea.KeyMsg) bool
	HandleMouse(msg tea.MouseMsg, localX, localY int) bool
}

// Window is one floating frame on the desktop. Geometry is always in
// desktop coordinates; Rect includes the one-cell border with the
// title bar on the top row.
type Window struct {
	ID          uint64
	Title       string
	Rect        screen.Rect
	RestoreRect *screen.Rect
	Minimized   bool
	Maximized   bool
	MinW, MinH  int
	Kind        Kind
}

// ContentRect is the drawable interior, inside the border.
func (w *Window) ContentRect() screen.Rect {
	return w.Rect.Inset(1)
}

// HitRegion identifies what part of a window's chrome a point lands
// on. Checked in priority order; first match wins.
type HitRegion int

const (
	HitNone HitRegion = iota
	HitClose
	HitMaximize
	HitMinimize
	HitCornerTL
	HitCornerTR
	HitCornerBL
	HitCornerBR
	HitTitle
	HitContent
)

// Button cells on the title row, right-aligned inside the border:
// ... [-][+][x]<corner>
func (w *Window) closeX() int    { return w.Rect.Right() - 2 }
func (w *Window) maximizeX() int { return w.Rect.Right() - 3 }
func (w *Window) minimizeX() int { return w.Rect.Right() - 4 }

// Hit classifies (x, y) against the window. Corner handles are single
// cells and disabled while maximized.
func (w *Window) Hit(x, y int) HitRegion {
	if !w.Rect.Contains(x, y) {
		return HitNone
	}
	top := w.Rect.Y
	bottom := w.Rect.Bottom() - 1
	left := w.Rect.X
	right := w.Rect.Right() - 1

	if y == top {
		switch x {
		case w.closeX():
			return HitClose
		case w.maximizeX():
			return HitMaximize
		case w.minimizeX():
			return HitMinimize
		}
	}
	if !w.Maximized {
		switch {
		case x == left && y == top:
			return HitCornerTL
		case x == right && y == top:
			return HitCornerTR
		case x == left && y == bottom:
			return HitCornerBL
		case x == right && y == bottom:
			return HitCornerBR
		}
	}
	if y == top {
		return HitTitle
	}
	return HitContent
}
