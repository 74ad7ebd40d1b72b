package wm

import "github.com/stylith/termdesk/internal/screen"

// Hard floor for window geometry; per-kind minimums may be larger.
const (
	floorMinW = 20
	floorMinH = 8
)

// Corner names a resize handle.
type Corner int

const (
	CornerTL Corner = iota
	CornerTR
	CornerBL
	CornerBR
)

// DragState tracks the one in-flight drag. Move drags remember the
// grab offset inside the title bar; resize drags remember the corner
// and the rect at mouse-down. Cleared on every mouse-up.
type DragState struct {
	WindowID uint64
	Move     bool
	DX, DY   int
	Corner   Corner
	Origin   screen.Rect
}

// Manager owns the z-ordered window list. Focus is the last element;
// any interaction raises the window before its effect is applied.
type Manager struct {
	windows     []*Window
	nextID      uint64
	desktop     screen.Rect
	drag        *DragState
	TaskbarPage int
}

func New(desktop screen.Rect) *Manager {
	return &Manager{desktop: desktop, nextID: 1}
}

func (m *Manager) Desktop() screen.Rect { return m.desktop }

// SetDesktop re-clamps every window into the new area; maximized
// windows track it exactly.
func (m *Manager) SetDesktop(r screen.Rect) {
	m.desktop = r
	for _, w := range m.windows {
		m.Clamp(w)
	}
}

// Windows returns the list back-to-front. Callers must not reorder it.
func (m *Manager) Windows() []*Window { return m.windows }

func (m *Manager) Len() int { return len(m.windows) }

// Focused returns the topmost window, nil when the desktop is empty.
func (m *Manager) Focused() *Window {
	if len(m.windows) == 0 {
		return nil
	}
	return m.windows[len(m.windows)-1]
}

// Add creates a window, clamps it, and focuses it.
func (m *Manager) Add(title string, rect screen.Rect, minW, minH int, kind Kind) *Window {
	if minW < floorMinW {
		minW = floorMinW
	}
	if minH < floorMinH {
		minH = floorMinH
	}
	w := &Window{
		ID:    m.nextID,
		Title: title,
		Rect:  rect,
		MinW:  minW,
		MinH:  minH,
		Kind:  kind,
	}
	m.nextID++
	m.Clamp(w)
	m.windows = append(m.windows, w)
	return w
}

// Focus moves the window to the end of the list.
func (m *Manager) Focus(id uint64) {
	for i, w := range m.windows {
		if w.ID == id {
			m.windows = append(append(m.windows[:i:i], m.windows[i+1:]...), w)
			return
		}
	}
}

// Remove detaches the window and returns it; the caller terminates any
// owned session. An in-flight drag on it is dropped.
func (m *Manager) Remove(id uint64) *Window {
	for i, w := range m.windows {
		if w.ID == id {
			m.windows = append(m.windows[:i], m.windows[i+1:]...)
			if m.drag != nil && m.drag.WindowID == id {
				m.drag = nil
			}
			return w
		}
	}
	return nil
}

func (m *Manager) ByID(id uint64) *Window {
	for _, w := range m.windows {
		if w.ID == id {
			return w
		}
	}
	return nil
}

// TopAt returns the topmost non-minimized window under (x, y).
func (m *Manager) TopAt(x, y int) *Window {
	for i := len(m.windows) - 1; i >= 0; i-- {
		w := m.windows[i]
		if w.Minimized {
			continue
		}
		if w.Rect.Contains(x, y) {
			return w
		}
	}
	return nil
}

// Clamp forces the window inside the desktop at no less than its
// minimum size. Degenerate desktops clamp, never error.
func (m *Manager) Clamp(w *Window) {
	if w.Maximized {
		w.Rect = m.desktop
		return
	}
	r := &w.Rect
	// Cap to the desktop first: the minimum-size floor wins on a
	// degenerate desktop, matching the resize path.
	if r.W > m.desktop.W {
		r.W = m.desktop.W
	}
	if r.H > m.desktop.H {
		r.H = m.desktop.H
	}
	if r.W < w.MinW {
		r.W = w.MinW
	}
	if r.H < w.MinH {
		r.H = w.MinH
	}
	if r.X < m.desktop.X {
		r.X = m.desktop.X
	}
	if r.Y < m.desktop.Y {
		r.Y = m.desktop.Y
	}
	if r.Right() > m.desktop.Right() {
		r.X = m.desktop.Right() - r.W
	}
	if r.Bottom() > m.desktop.Bottom() {
		r.Y = m.desktop.Bottom() - r.H
	}
}

// ── Drag / resize ─────────────────────────────────────────────────

func (m *Manager) Dragging() bool { return m.drag != nil }

// StartMove begins a title-bar drag. Maximized windows do not move.
func (m *Manager) StartMove(w *Window, mx, my int) {
	if w.Maximized {
		return
	}
	m.drag = &DragState{
		WindowID: w.ID,
		Move:     true,
		DX:       mx - w.Rect.X,
		DY:       my - w.Rect.Y,
	}
}

// StartResize begins a corner drag. Maximized windows do not resize.
func (m *Manager) StartResize(w *Window, corner Corner) {
	if w.Maximized {
		return
	}
	m.drag = &DragState{
		WindowID: w.ID,
		Corner:   corner,
		Origin:   w.Rect,
	}
}

// DragTo applies the current mouse position to the in-flight drag.
func (m *Manager) DragTo(mx, my int) {
	if m.drag == nil {
		return
	}
	w := m.ByID(m.drag.WindowID)
	if w == nil {
		m.drag = nil
		return
	}
	if m.drag.Move {
		w.Rect.X = mx - m.drag.DX
		w.Rect.Y = my - m.drag.DY
		m.Clamp(w)
		return
	}
	w.Rect = m.resizeRect(w, m.drag.Origin, m.drag.Corner, mx, my)
}

// EndDrag clears the drag state unconditionally.
func (m *Manager) EndDrag() { m.drag = nil }

// resizeRect computes the rect for a corner drag. The corner opposite
// the grabbed one is the anchor and never moves; the dragged edge is
// clamped to the minimum size and the desktop.
func (m *Manager) resizeRect(w *Window, origin screen.Rect, corner Corner, mx, my int) screen.Rect {
	r := origin

	// Horizontal edge.
	switch corner {
	case CornerTR, CornerBR:
		anchorX := origin.X
		maxR := m.desktop.Right()
		right := clampInt(mx+1, anchorX+w.MinW, maxR)
		r.X = anchorX
		r.W = right - anchorX
	case CornerTL, CornerBL:
		anchorR := origin.Right()
		left := clampInt(mx, m.desktop.X, anchorR-w.MinW)
		r.X = left
		r.W = anchorR - left
	}

	// Vertical edge.
	switch corner {
	case CornerBL, CornerBR:
		anchorY := origin.Y
		maxB := m.desktop.Bottom()
		bottom := clampInt(my+1, anchorY+w.MinH, maxB)
		r.Y = anchorY
		r.H = bottom - anchorY
	case CornerTL, CornerTR:
		anchorB := origin.Bottom()
		top := clampInt(my, m.desktop.Y, anchorB-w.MinH)
		r.Y = top
		r.H = anchorB - top
	}

	return r
}

// ── Minimize / maximize ───────────────────────────────────────────

func (m *Manager) Minimize(w *Window) { w.Minimized = true }

func (m *Manager) Restore(w *Window) {
	w.Minimized = false
	m.Focus(w.ID)
}

// ToggleMaximize flips between the saved rect and the full desktop.
func (m *Manager) ToggleMaximize(w *Window) {
	if w.Maximized {
		w.Maximized = false
		if w.RestoreRect != nil {
			w.Rect = *w.RestoreRect
			w.RestoreRect = nil
		}
		m.Clamp(w)
		return
	}
	saved := w.Rect
	w.RestoreRect = &saved
	w.Maximized = true
	w.Rect = m.desktop
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
