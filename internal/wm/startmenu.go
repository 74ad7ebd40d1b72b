package wm

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stylith/termdesk/internal/screen"
)

// DefaultHoverDelay is the debounce before a hovered submenu expands.
const DefaultHoverDelay = 170 * time.Millisecond

// LaunchSpec is what a leaf menu entry activates: either a program to
// spawn in a pty window, or a builtin desktop action.
type LaunchSpec struct {
	Program string
	Args    []string
	Caption string
	Profile string
	Builtin string // "files", "settings", "exit"
}

// MenuItem is one row of the start menu. Items with Children expand
// into the next pane; items with Launch activate.
type MenuItem struct {
	Label    string
	Children []MenuItem
	Launch   *LaunchSpec
}

// StartMenu is the 3-level hover-driven menu: root pane, submenu pane,
// leaf pane. Mouse hover over a row with children arms a debounce
// timer; keyboard navigation crosses levels immediately.
type StartMenu struct {
	Open       bool
	Items      []MenuItem
	HoverDelay time.Duration

	Level      int    // pane the keyboard cursor is in, 0..2
	Sel        [3]int // selected row per pane
	openLevels int    // panes visible, 1..3

	hoverArmed bool
	hoverLevel int
	hoverRow   int
	hoverAt    time.Time
}

func NewStartMenu(items []MenuItem, hoverDelay time.Duration) *StartMenu {
	if hoverDelay <= 0 {
		hoverDelay = DefaultHoverDelay
	}
	return &StartMenu{Items: items, HoverDelay: hoverDelay}
}

func (s *StartMenu) OpenMenu() {
	s.Open = true
	s.Level = 0
	s.Sel = [3]int{}
	s.openLevels = 1
	s.CancelHover()
}

func (s *StartMenu) Close() {
	s.Open = false
	s.openLevels = 0
	s.CancelHover()
}

// OpenLevels reports how many panes are visible.
func (s *StartMenu) OpenLevels() int { return s.openLevels }

// ItemsAt returns the row list of a pane, nil when that pane is not
// reachable from the current selection.
func (s *StartMenu) ItemsAt(level int) []MenuItem {
	items := s.Items
	for l := 0; l < level; l++ {
		if s.Sel[l] < 0 || s.Sel[l] >= len(items) {
			return nil
		}
		items = items[s.Sel[l]].Children
	}
	return items
}

func (s *StartMenu) current() *MenuItem {
	items := s.ItemsAt(s.Level)
	if s.Sel[s.Level] < 0 || s.Sel[s.Level] >= len(items) {
		return nil
	}
	return &items[s.Sel[s.Level]]
}

// ── Keyboard navigation ───────────────────────────────────────────

// Key handles a keystroke while the menu is open. Returns the
// activated leaf, if any, and whether the menu consumed the key.
func (s *StartMenu) Key(msg tea.KeyMsg) (*LaunchSpec, bool) {
	switch msg.String() {
	case "up":
		if s.Sel[s.Level] > 0 {
			s.Sel[s.Level]--
		}
		s.collapseBelow()
		return nil, true
	case "down":
		if s.Sel[s.Level] < len(s.ItemsAt(s.Level))-1 {
			s.Sel[s.Level]++
		}
		s.collapseBelow()
		return nil, true
	case "right", "tab":
		s.descend()
		return nil, true
	case "left":
		if s.Level > 0 {
			s.openLevels = s.Level
			s.Level--
		}
		return nil, true
	case "enter", " ":
		it := s.current()
		if it == nil {
			return nil, true
		}
		if len(it.Children) > 0 {
			s.descend()
			return nil, true
		}
		return it.Launch, true
	}
	return nil, false
}

func (s *StartMenu) descend() {
	it := s.current()
	if it == nil || len(it.Children) == 0 || s.Level >= 2 {
		return
	}
	s.Level++
	s.Sel[s.Level] = 0
	s.openLevels = s.Level + 1
}

// collapseBelow closes panes deeper than the cursor after the
// selection moved, so stale child panes never linger.
func (s *StartMenu) collapseBelow() {
	s.openLevels = s.Level + 1
	s.CancelHover()
}

// ── Mouse hover ───────────────────────────────────────────────────

// Hover moves the highlight to (level, row) and, when the row has
// children, arms the expansion debounce. Re-hovering the same target
// keeps the original timer.
func (s *StartMenu) Hover(level, row int, now time.Time) {
	items := s.ItemsAt(level)
	if row < 0 || row >= len(items) {
		return
	}
	s.Level = level
	if s.Sel[level] != row {
		s.Sel[level] = row
		s.openLevels = level + 1
	}
	if len(items[row].Children) == 0 {
		s.CancelHover()
		return
	}
	if s.hoverArmed && s.hoverLevel == level && s.hoverRow == row {
		return
	}
	s.hoverArmed = true
	s.hoverLevel = level
	s.hoverRow = row
	s.hoverAt = now
}

// AdvanceHover fires the debounce on the UI tick: if the same target
// has been hovered for the full delay, its pane opens and any sibling
// pane closes.
func (s *StartMenu) AdvanceHover(now time.Time) {
	if !s.hoverArmed || now.Sub(s.hoverAt) < s.HoverDelay {
		return
	}
	level, row := s.hoverLevel, s.hoverRow
	s.CancelHover()
	items := s.ItemsAt(level)
	if row < 0 || row >= len(items) || len(items[row].Children) == 0 {
		return
	}
	s.Sel[level] = row
	s.Level = level + 1
	s.Sel[s.Level] = 0
	s.openLevels = s.Level + 1
}

// CancelHover disarms a pending expansion (mouse moved off in time).
func (s *StartMenu) CancelHover() {
	s.hoverArmed = false
}

// HoverPending reports whether an expansion timer is armed.
func (s *StartMenu) HoverPending() bool { return s.hoverArmed }

// Click activates row in a pane: rows with children expand without
// the hover delay, leaves return their launch spec.
func (s *StartMenu) Click(level, row int) *LaunchSpec {
	items := s.ItemsAt(level)
	if row < 0 || row >= len(items) {
		return nil
	}
	s.Level = level
	s.Sel[level] = row
	if len(items[row].Children) > 0 {
		s.descend()
		return nil
	}
	return items[row].Launch
}

// ── Pane geometry ─────────────────────────────────────────────────

// PaneRect places pane `level` on the desktop: the root sits above
// the taskbar at the left edge, each child pane opens to the right of
// its parent, aligned with the selected row.
func (s *StartMenu) PaneRect(desktop screen.Rect, level int) screen.Rect {
	items := s.ItemsAt(level)
	if len(items) == 0 {
		return screen.Rect{}
	}
	w := paneWidth(items)
	h := len(items) + 2

	var r screen.Rect
	if level == 0 {
		r = screen.Rect{X: desktop.X, Y: desktop.Bottom() - h, W: w, H: h}
	} else {
		parent := s.PaneRect(desktop, level-1)
		r = screen.Rect{
			X: parent.Right(),
			Y: parent.Y + s.Sel[level-1],
			W: w,
			H: h,
		}
	}
	if r.Bottom() > desktop.Bottom() {
		r.Y = desktop.Bottom() - r.H
	}
	if r.Y < desktop.Y {
		r.Y = desktop.Y
	}
	if r.Right() > desktop.Right() {
		r.X = desktop.Right() - r.W
	}
	return r
}

func paneWidth(items []MenuItem) int {
	w := 0
	for _, it := range items {
		n := len([]rune(it.Label))
		if len(it.Children) > 0 {
			n += 2 // room for the ▸ marker
		}
		if n > w {
			w = n
		}
	}
	return w + 4 // border plus padding
}
