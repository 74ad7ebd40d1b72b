package wm

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stylith/termdesk/internal/screen"
)

func testMenu() *StartMenu {
	items := []MenuItem{
		{Label: "Programs", Children: []MenuItem{
			{Label: "Terminals", Children: []MenuItem{
				{Label: "Shell", Launch: &LaunchSpec{Program: "sh"}},
				{Label: "Top", Launch: &LaunchSpec{Program: "top"}},
			}},
			{Label: "Editor", Launch: &LaunchSpec{Program: "vi"}},
		}},
		{Label: "Files", Launch: &LaunchSpec{Builtin: "files"}},
		{Label: "Exit", Launch: &LaunchSpec{Builtin: "exit"}},
	}
	return NewStartMenu(items, 0)
}

func press(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestHoverDebounce(t *testing.T) {
	m := testMenu()
	m.OpenMenu()
	now := time.Now()

	m.Hover(0, 0, now) // "Programs" has children
	if !m.HoverPending() {
		t.Fatal("hover over an expandable row should arm the timer")
	}
	if m.OpenLevels() != 1 {
		t.Fatal("submenu must not open before the delay")
	}

	m.AdvanceHover(now.Add(50 * time.Millisecond))
	if m.OpenLevels() != 1 {
		t.Fatal("advance before the delay must not expand")
	}

	m.AdvanceHover(now.Add(DefaultHoverDelay + 10*time.Millisecond))
	if m.OpenLevels() != 2 {
		t.Fatal("submenu should open after the hover delay")
	}
	if m.Level != 1 || m.Sel[1] != 0 {
		t.Errorf("cursor should land in the submenu: level=%d sel=%v", m.Level, m.Sel)
	}
}

func TestHoverMovingOffCancels(t *testing.T) {
	m := testMenu()
	m.OpenMenu()
	m.HoverDelay = DefaultHoverDelay
	now := time.Now()

	m.Hover(0, 0, now)
	m.Hover(0, 1, now.Add(50*time.Millisecond)) // "Files", a leaf
	if m.HoverPending() {
		t.Fatal("moving to a leaf should disarm the timer")
	}
	m.AdvanceHover(now.Add(time.Second))
	if m.OpenLevels() != 1 {
		t.Error("no pane may open after the hover was cancelled")
	}
}

func TestHoverSiblingReplaces(t *testing.T) {
	m := testMenu()
	m.OpenMenu()
	now := time.Now()

	// Expand Programs, then hover its "Terminals" child.
	m.Hover(0, 0, now)
	m.AdvanceHover(now.Add(DefaultHoverDelay + time.Millisecond))
	m.Hover(1, 0, now.Add(300*time.Millisecond))
	m.AdvanceHover(now.Add(300*time.Millisecond + DefaultHoverDelay + time.Millisecond))
	if m.OpenLevels() != 3 {
		t.Fatalf("leaf pane should be open, levels=%d", m.OpenLevels())
	}

	// Moving the root selection closes the deeper panes.
	m.Hover(0, 1, now.Add(time.Second))
	if m.OpenLevels() != 1 {
		t.Errorf("sibling hover should close child panes, levels=%d", m.OpenLevels())
	}
}

func TestKeyboardNavigationSkipsHoverDelay(t *testing.T) {
	m := testMenu()
	m.OpenMenu()

	m.Key(press("right")) // expand Programs immediately
	if m.OpenLevels() != 2 || m.Level != 1 {
		t.Fatalf("right should open the submenu at once: levels=%d level=%d", m.OpenLevels(), m.Level)
	}

	m.Key(press("down"))
	spec, _ := m.Key(press("enter"))
	if spec == nil || spec.Program != "vi" {
		t.Fatalf("enter on Editor should activate vi, got %+v", spec)
	}

	m.Key(press("left"))
	if m.Level != 0 || m.OpenLevels() != 1 {
		t.Error("left should collapse back to the root pane")
	}
}

func TestEnterDescendsIntoChildren(t *testing.T) {
	m := testMenu()
	m.OpenMenu()

	spec, consumed := m.Key(press("enter"))
	if spec != nil || !consumed {
		t.Fatal("enter on an expandable row descends instead of activating")
	}
	if m.Level != 1 {
		t.Error("cursor should be in the submenu")
	}
}

func TestClickActivatesLeaf(t *testing.T) {
	m := testMenu()
	m.OpenMenu()

	if spec := m.Click(0, 0); spec != nil {
		t.Fatal("clicking an expandable row must not activate")
	}
	if m.OpenLevels() != 2 {
		t.Fatal("click should expand without the hover delay")
	}
	spec := m.Click(0, 2)
	if spec == nil || spec.Builtin != "exit" {
		t.Fatalf("click on Exit = %+v", spec)
	}
}

func TestPaneRects(t *testing.T) {
	m := testMenu()
	m.OpenMenu()
	desktop := screen.Rect{X: 0, Y: 1, W: 120, H: 38}

	root := m.PaneRect(desktop, 0)
	if root.X != 0 {
		t.Errorf("root pane should hug the left edge: %+v", root)
	}
	if root.Bottom() != desktop.Bottom() {
		t.Errorf("root pane should sit on the taskbar: %+v", root)
	}
	if root.H != 3+2 {
		t.Errorf("root height = %d, want rows+border", root.H)
	}

	m.Key(press("right"))
	sub := m.PaneRect(desktop, 1)
	if sub.X != root.Right() {
		t.Errorf("submenu should open to the right of the root: %+v vs %+v", sub, root)
	}
	if !inside(desktop, sub) {
		t.Errorf("submenu must stay on the desktop: %+v", sub)
	}
}
