package wm

import (
	"strings"
	"testing"

	"github.com/stylith/termdesk/internal/screen"
)

func addN(m *Manager, n int, title string) {
	for i := 0; i < n; i++ {
		m.Add(title, screen.Rect{X: 0, Y: 1, W: 30, H: 10}, 20, 8, nullKind{})
	}
}

func TestButtonLabel(t *testing.T) {
	w := &Window{Title: "shell"}
	if got := ButtonLabel(w); got != "[shell]" {
		t.Errorf("label = %q", got)
	}
	w.Minimized = true
	if got := ButtonLabel(w); got != "(shell)" {
		t.Errorf("minimized label = %q", got)
	}

	long := &Window{Title: strings.Repeat("x", 30)}
	got := ButtonLabel(long)
	if got != "["+strings.Repeat("x", 16)+"]" {
		t.Errorf("long title should truncate to 16: %q", got)
	}
}

func TestTaskbarUnpagedLayout(t *testing.T) {
	m := testManager()
	addN(m, 3, "sh")
	row := m.Taskbar(120)
	if row.Paged {
		t.Fatal("three short buttons should fit without paging")
	}
	if len(row.Buttons) != 3 {
		t.Fatalf("buttons = %d", len(row.Buttons))
	}
	if row.Buttons[0].X != 8 {
		t.Errorf("first button at x=%d, want 8", row.Buttons[0].X)
	}
	// 1-column gaps between buttons.
	if row.Buttons[1].X != row.Buttons[0].X+row.Buttons[0].W+1 {
		t.Error("buttons should be separated by one column")
	}
}

func TestTaskbarPaging(t *testing.T) {
	m := testManager()
	addN(m, 12, "longwindowtitle")

	row := m.Taskbar(60)
	if !row.Paged {
		t.Fatal("twelve long buttons cannot fit in 60 columns")
	}
	if row.HasPrev {
		t.Error("first page has nothing before it")
	}
	if !row.HasNext {
		t.Error("first page should advertise more pages")
	}

	// Walk to the last page.
	for i := 0; i < 50; i++ {
		m.TaskbarPageStep(1)
		row = m.Taskbar(60)
		if !row.HasNext {
			break
		}
	}
	if row.HasNext {
		t.Error("paging never reached the end")
	}
	if !row.HasPrev {
		t.Error("last page should allow scrolling back")
	}
}

func TestTaskbarPageClampsWhenWindowsClose(t *testing.T) {
	m := testManager()
	addN(m, 12, "longwindowtitle")
	for i := 0; i < 50; i++ {
		m.TaskbarPageStep(1)
		if !m.Taskbar(60).HasNext {
			break
		}
	}
	// Close everything but one; the stored page index must clamp.
	for m.Len() > 1 {
		m.Remove(m.Windows()[0].ID)
	}
	row := m.Taskbar(60)
	if len(row.Buttons) != 1 {
		t.Errorf("one window should yield one button, got %d", len(row.Buttons))
	}
}

func TestTaskbarHit(t *testing.T) {
	m := testManager()
	addN(m, 2, "sh")
	row := m.Taskbar(120)

	id, delta, ok := m.TaskbarHit(120, row.Buttons[1].X)
	if !ok || delta != 0 || id != row.Buttons[1].WindowID {
		t.Errorf("hit = (%d,%d,%v)", id, delta, ok)
	}
	if _, _, ok := m.TaskbarHit(120, 119); ok {
		t.Error("empty taskbar space should not hit")
	}
}
