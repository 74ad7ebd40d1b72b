package desktop

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/stylith/termdesk/internal/config"
	"github.com/stylith/termdesk/internal/screen"
	"github.com/stylith/termdesk/internal/wm"
)

// styles pairs the lipgloss styles for the status and taskbar rows with
// the raw colors the cell compositor paints windows with.
type styles struct {
	topBar      lipgloss.Style
	topAccent   lipgloss.Style
	flash       lipgloss.Style
	taskbar     lipgloss.Style
	startButton lipgloss.Style
	taskButton  lipgloss.Style
	taskFocused lipgloss.Style
	arrow       lipgloss.Style
	arrowDim    lipgloss.Style

	desktopBg     screen.Color
	surfaceBg     screen.Color
	text          screen.Color
	textDim       screen.Color
	border        screen.Color
	borderFocused screen.Color
	titleActive   screen.Color
	titleInactive screen.Color
	accent        screen.Color
	danger        screen.Color
}

func newStyles(t config.Theme) styles {
	bar := lipgloss.NewStyle().
		Background(lipgloss.Color(t.Surface)).
		Foreground(lipgloss.Color(t.Text))

	return styles{
		topBar:      bar,
		topAccent:   bar.Foreground(lipgloss.Color(t.Accent)).Bold(true),
		flash:       bar.Foreground(lipgloss.Color(t.Danger)).Bold(true),
		taskbar:     bar,
		startButton: bar.Foreground(lipgloss.Color(t.Accent)).Bold(true),
		taskButton:  bar,
		taskFocused: bar.Reverse(true),
		arrow:       bar.Foreground(lipgloss.Color(t.Accent)),
		arrowDim:    bar.Foreground(lipgloss.Color(t.TextDim)),

		desktopBg:     parseHex(t.Background),
		surfaceBg:     parseHex(t.Surface),
		text:          parseHex(t.Text),
		textDim:       parseHex(t.TextDim),
		border:        parseHex(t.Border),
		borderFocused: parseHex(t.BorderFocused),
		titleActive:   parseHex(t.TitlebarActive),
		titleInactive: parseHex(t.TitlebarInactive),
		accent:        parseHex(t.Accent),
		danger:        parseHex(t.Danger),
	}
}

// parseHex reads a "#rrggbb" theme color; anything else becomes the
// terminal default.
func parseHex(s string) screen.Color {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return screen.Color{}
	}
	return screen.RGB(r, g, b)
}

// ── Frame assembly ────────────────────────────────────────────────

func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	surf := screen.New(m.width, m.height)
	d := m.wm.Desktop()
	surf.Fill(d, screen.Cell{Ch: ' ', Style: screen.Style{Fg: m.styles.textDim, Bg: m.styles.desktopBg}})

	focused := m.wm.Focused()
	for _, w := range m.wm.Windows() {
		if w.Minimized {
			continue
		}
		m.drawWindow(surf, w, w == focused)
	}
	if m.menu.Open {
		m.drawMenu(surf, d)
	}

	lines := strings.Split(surf.Frame(), "\n")
	if len(lines) > 0 {
		lines[0] = m.topBarLine()
	}
	if len(lines) > 1 {
		lines[len(lines)-1] = m.taskbarLine()
	}
	return strings.Join(lines, "\n")
}

// ── Window chrome ─────────────────────────────────────────────────

func (m *Model) drawWindow(surf *screen.Surface, w *wm.Window, focused bool) {
	r := w.Rect
	if r.W < 2 || r.H < 2 {
		return
	}

	borderFg := m.styles.border
	titleBg := m.styles.titleInactive
	if focused {
		borderFg = m.styles.borderFocused
		titleBg = m.styles.titleActive
	}
	bst := screen.Style{Fg: borderFg, Bg: m.styles.surfaceBg}

	surf.Fill(r.Inset(1), screen.Cell{Ch: ' ', Style: screen.Style{Fg: m.styles.text, Bg: m.styles.surfaceBg}})

	for y := r.Y + 1; y < r.Bottom()-1; y++ {
		surf.Set(r.X, y, screen.Cell{Ch: '│', Style: bst})
		surf.Set(r.Right()-1, y, screen.Cell{Ch: '│', Style: bst})
	}
	surf.Set(r.X, r.Bottom()-1, screen.Cell{Ch: '└', Style: bst})
	surf.Set(r.Right()-1, r.Bottom()-1, screen.Cell{Ch: '┘', Style: bst})
	for x := r.X + 1; x < r.Right()-1; x++ {
		surf.Set(x, r.Bottom()-1, screen.Cell{Ch: '─', Style: bst})
	}

	// Title bar: a solid row carrying the caption and the three
	// buttons the hit-tester knows about.
	tst := screen.Style{Fg: m.styles.text, Bg: titleBg, Bold: focused}
	for x := r.X; x < r.Right(); x++ {
		surf.Set(x, r.Y, screen.Cell{Ch: ' ', Style: tst})
	}
	surf.SetString(r.X+2, r.Y, clipString(w.Title, r.W-8), tst)
	surf.Set(r.Right()-4, r.Y, screen.Cell{Ch: '_', Style: tst})
	surf.Set(r.Right()-3, r.Y, screen.Cell{Ch: '□', Style: tst})
	closeSt := tst
	closeSt.Fg = m.styles.danger
	surf.Set(r.Right()-2, r.Y, screen.Cell{Ch: 'X', Style: closeSt})

	if w.Kind != nil {
		w.Kind.Render(surf, w.ContentRect())
	}

	// Cursor overlay for the focused terminal.
	if focused {
		if pk, ok := w.Kind.(*PtyKind); ok {
			if x, y, ok := pk.Session.CursorScreenPos(w.ContentRect()); ok {
				c := surf.Get(x, y)
				c.Reverse = !c.Reverse
				surf.Set(x, y, c)
			}
		}
	}
}

// ── Start menu ────────────────────────────────────────────────────

func (m *Model) drawMenu(surf *screen.Surface, desktop screen.Rect) {
	for level := 0; level < m.menu.OpenLevels(); level++ {
		r := m.menu.PaneRect(desktop, level)
		items := m.menu.ItemsAt(level)
		if r.W == 0 || items == nil {
			continue
		}
		m.drawBox(surf, r)
		for i, it := range items {
			st := screen.Style{Fg: m.styles.text, Bg: m.styles.surfaceBg}
			if m.menu.Sel[level] == i {
				st.Reverse = true
			}
			surf.SetString(r.X+2, r.Y+1+i, clipString(it.Label, r.W-4), st)
			if len(it.Children) > 0 {
				surf.Set(r.Right()-2, r.Y+1+i, screen.Cell{Ch: '▸', Style: st})
			}
		}
	}
}

func (m *Model) drawBox(surf *screen.Surface, r screen.Rect) {
	bst := screen.Style{Fg: m.styles.borderFocused, Bg: m.styles.surfaceBg}
	surf.Fill(r.Inset(1), screen.Cell{Ch: ' ', Style: screen.Style{Fg: m.styles.text, Bg: m.styles.surfaceBg}})
	for x := r.X + 1; x < r.Right()-1; x++ {
		surf.Set(x, r.Y, screen.Cell{Ch: '─', Style: bst})
		surf.Set(x, r.Bottom()-1, screen.Cell{Ch: '─', Style: bst})
	}
	for y := r.Y + 1; y < r.Bottom()-1; y++ {
		surf.Set(r.X, y, screen.Cell{Ch: '│', Style: bst})
		surf.Set(r.Right()-1, y, screen.Cell{Ch: '│', Style: bst})
	}
	surf.Set(r.X, r.Y, screen.Cell{Ch: '┌', Style: bst})
	surf.Set(r.Right()-1, r.Y, screen.Cell{Ch: '┐', Style: bst})
	surf.Set(r.X, r.Bottom()-1, screen.Cell{Ch: '└', Style: bst})
	surf.Set(r.Right()-1, r.Bottom()-1, screen.Cell{Ch: '┘', Style: bst})
}

// ── Bars ──────────────────────────────────────────────────────────

// topBarLine is the status row: desktop name, the focused window's
// caption, any flash message, and the session indicator with a clock.
func (m *Model) topBarLine() string {
	left := " termdesk"
	if w := m.wm.Focused(); w != nil {
		left += "  " + w.Title
	}
	right := fmt.Sprintf("S%d/%d  %s ", m.reg.Active()+1, m.reg.Count(), m.now.Format("15:04"))

	leftW := len([]rune(left))
	rightW := len([]rune(right))
	midW := m.width - leftW - rightW
	mid := ""
	if midW > 0 {
		flash := clipString(m.flash, midW-2)
		pad := midW - len([]rune(flash))
		lp := pad / 2
		mid = strings.Repeat(" ", lp) + flash + strings.Repeat(" ", pad-lp)
	}

	line := m.styles.topAccent.Render(left)
	if mid != "" {
		line += m.styles.flash.Render(mid)
	}
	line += m.styles.topBar.Render(right)
	return line
}

// taskbarLine renders the bottom row from the same layout TaskbarHit
// resolves clicks against, so the pixels and the hit boxes agree.
func (m *Model) taskbarLine() string {
	row := m.wm.Taskbar(m.width)
	focused := m.wm.Focused()

	var b strings.Builder
	pos := 0
	emit := func(x int, text string, st lipgloss.Style) {
		if x > pos {
			b.WriteString(m.styles.taskbar.Render(strings.Repeat(" ", x-pos)))
			pos = x
		}
		b.WriteString(st.Render(text))
		pos += len([]rune(text))
	}

	startSt := m.styles.startButton
	if m.menu.Open {
		startSt = m.styles.taskFocused
	}
	emit(0, "[Start]", startSt)

	if row.Paged {
		st := m.styles.arrowDim
		if row.HasPrev {
			st = m.styles.arrow
		}
		emit(row.PrevX, "◄", st)
	}
	for _, btn := range row.Buttons {
		st := m.styles.taskButton
		if focused != nil && focused.ID == btn.WindowID && !focused.Minimized {
			st = m.styles.taskFocused
		}
		emit(btn.X, btn.Label, st)
	}
	if row.Paged {
		st := m.styles.arrowDim
		if row.HasNext {
			st = m.styles.arrow
		}
		emit(row.NextX, "►", st)
	}

	if m.width > pos {
		b.WriteString(m.styles.taskbar.Render(strings.Repeat(" ", m.width-pos)))
	}
	return b.String()
}
