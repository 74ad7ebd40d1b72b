package wm

// Taskbar button labels: "[title]" for normal windows, "(title)" when
// minimized, titles truncated to 16 characters. Buttons begin at x=8,
// after the start button, with 1-column gaps. When they no longer fit
// the row, layout switches to pages with ◄/► affordances.

const (
	taskbarButtonsX  = 8
	taskbarTitleMax  = 16
	taskbarGap       = 1
	taskbarArrowCell = 2 // arrow glyph plus gap
)

// TaskButton is one laid-out taskbar entry.
type TaskButton struct {
	WindowID uint64
	Label    string
	X, W     int
}

// TaskbarRow is the per-frame taskbar layout.
type TaskbarRow struct {
	Buttons []TaskButton
	Paged   bool
	HasPrev bool
	HasNext bool
	PrevX   int
	NextX   int
}

// ButtonLabel renders a window's taskbar label.
func ButtonLabel(w *Window) string {
	title := w.Title
	if len([]rune(title)) > taskbarTitleMax {
		title = string([]rune(title)[:taskbarTitleMax])
	}
	if w.Minimized {
		return "(" + title + ")"
	}
	return "[" + title + "]"
}

// Taskbar lays out the buttons for the given row width, recomputed
// every frame from the current window list. The manager's TaskbarPage
// is clamped into range as windows come and go.
func (m *Manager) Taskbar(width int) TaskbarRow {
	labels := make([]string, len(m.windows))
	total := 0
	for i, w := range m.windows {
		labels[i] = ButtonLabel(w)
		if i > 0 {
			total += taskbarGap
		}
		total += len([]rune(labels[i]))
	}

	avail := width - taskbarButtonsX
	if avail <= 0 || len(m.windows) == 0 {
		m.TaskbarPage = 0
		return TaskbarRow{}
	}

	if total <= avail {
		m.TaskbarPage = 0
		return TaskbarRow{Buttons: packButtons(m.windows, labels, taskbarButtonsX)}
	}

	// Paged mode: arrows eat a cell and a gap at each end.
	inner := avail - 2*taskbarArrowCell
	if inner < 1 {
		inner = 1
	}
	pages := paginate(labels, inner)
	if m.TaskbarPage >= len(pages) {
		m.TaskbarPage = len(pages) - 1
	}
	if m.TaskbarPage < 0 {
		m.TaskbarPage = 0
	}
	p := pages[m.TaskbarPage]

	row := TaskbarRow{
		Paged:   true,
		HasPrev: m.TaskbarPage > 0,
		HasNext: m.TaskbarPage < len(pages)-1,
		PrevX:   taskbarButtonsX,
		NextX:   width - taskbarArrowCell,
		Buttons: packButtons(m.windows[p.start:p.end], labels[p.start:p.end], taskbarButtonsX+taskbarArrowCell),
	}
	return row
}

// TaskbarPageStep moves one page in either direction, clamped by the
// next Taskbar call.
func (m *Manager) TaskbarPageStep(delta int) {
	m.TaskbarPage += delta
	if m.TaskbarPage < 0 {
		m.TaskbarPage = 0
	}
}

type pageSpan struct{ start, end int }

// paginate packs labels greedily into pages of at most width columns.
// Every page holds at least one button so an oversized label cannot
// stall the loop.
func paginate(labels []string, width int) []pageSpan {
	var pages []pageSpan
	i := 0
	for i < len(labels) {
		used := 0
		j := i
		for j < len(labels) {
			w := len([]rune(labels[j]))
			if j > i {
				w += taskbarGap
			}
			if used+w > width && j > i {
				break
			}
			used += w
			j++
		}
		pages = append(pages, pageSpan{start: i, end: j})
		i = j
	}
	if pages == nil {
		pages = []pageSpan{{}}
	}
	return pages
}

func packButtons(windows []*Window, labels []string, x int) []TaskButton {
	out := make([]TaskButton, 0, len(windows))
	for i, w := range windows {
		width := len([]rune(labels[i]))
		out = append(out, TaskButton{WindowID: w.ID, Label: labels[i], X: x, W: width})
		x += width + taskbarGap
	}
	return out
}

// TaskbarHit resolves a click at column x on the taskbar row to a
// window, or to a page arrow (delta ±1), using the same layout the
// renderer drew.
func (m *Manager) TaskbarHit(width, x int) (windowID uint64, pageDelta int, ok bool) {
	row := m.Taskbar(width)
	if row.Paged {
		if x == row.PrevX && row.HasPrev {
			return 0, -1, true
		}
		if x == row.NextX && row.HasNext {
			return 0, 1, true
		}
	}
	for _, b := range row.Buttons {
		if x >= b.X && x < b.X+b.W {
			return b.WindowID, 0, true
		}
	}
	return 0, 0, false
}
