// Package screen provides the styled cell surface that windows and
// chrome are composited into, plus the rectangle math used for window
// geometry and hit-testing.
package screen

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// ── Geometry ──────────────────────────────────────────────────────

// Rect is a screen-space rectangle. X and Y are signed so a window may
// sit partially off-desktop mid-drag before clamping pulls it back.
type Rect struct {
	X, Y int
	W, H int
}

func (r Rect) Right() int  { return r.X + r.W }
func (r Rect) Bottom() int { return r.Y + r.H }

func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Inset shrinks the rect by n cells on every side.
func (r Rect) Inset(n int) Rect {
	out := Rect{X: r.X + n, Y: r.Y + n, W: r.W - 2*n, H: r.H - 2*n}
	if out.W < 0 {
		out.W = 0
	}
	if out.H < 0 {
		out.H = 0
	}
	return out
}

// Intersect returns the overlap of two rects, or a zero-size rect.
func (r Rect) Intersect(o Rect) Rect {
	x1 := max(r.X, o.X)
	y1 := max(r.Y, o.Y)
	x2 := min(r.Right(), o.Right())
	y2 := min(r.Bottom(), o.Bottom())
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// ── Cells ─────────────────────────────────────────────────────────

// Color is a concrete RGB value. The zero value means "terminal
// default" and renders as SGR 39/49.
type Color struct {
	R, G, B uint8
	Valid   bool
}

func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b, Valid: true} }

// Style carries the attributes a terminal cell can render.
type Style struct {
	Fg, Bg    Color
	Bold      bool
	Italic    bool
	Underline bool
	Reverse   bool
}

// Cell is one character cell. Ch == 0 marks the spacer half of a wide
// character; Frame emits nothing for it so the wide rune keeps its two
// columns.
type Cell struct {
	Ch rune
	Style
}

// Blank is the defined out-of-range / empty cell value.
func Blank() Cell { return Cell{Ch: ' '} }

// ── Surface ───────────────────────────────────────────────────────

// Surface is a w×h grid of cells. All accessors tolerate out-of-range
// coordinates: writes are dropped, reads return Blank.
type Surface struct {
	w, h  int
	cells []Cell
}

func New(w, h int) *Surface {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	s := &Surface{w: w, h: h, cells: make([]Cell, w*h)}
	s.Clear()
	return s
}

func (s *Surface) Size() (w, h int) { return s.w, s.h }

func (s *Surface) Set(x, y int, c Cell) {
	if x < 0 || x >= s.w || y < 0 || y >= s.h {
		return
	}
	s.cells[y*s.w+x] = c
}

func (s *Surface) Get(x, y int) Cell {
	if x < 0 || x >= s.w || y < 0 || y >= s.h {
		return Blank()
	}
	return s.cells[y*s.w+x]
}

// Clear resets every cell to Blank.
func (s *Surface) Clear() {
	for i := range s.cells {
		s.cells[i] = Blank()
	}
}

// Fill writes c into every cell of r (clipped to the surface).
func (s *Surface) Fill(r Rect, c Cell) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			s.Set(x, y, c)
		}
	}
}

// SetString writes str left-to-right starting at (x, y), clipping at
// the surface edge. One cell per rune; chrome strings are ASCII.
func (s *Surface) SetString(x, y int, str string, st Style) {
	for _, r := range str {
		s.Set(x, y, Cell{Ch: r, Style: st})
		x++
	}
}

// ── Frame encoding ────────────────────────────────────────────────

// Frame encodes the surface as one ANSI string, rows joined by
// newlines. Style changes are emitted only at run boundaries.
func (s *Surface) Frame() string {
	var b strings.Builder
	b.Grow(s.w * s.h * 2)
	for y := 0; y < s.h; y++ {
		var cur Style
		styled := false
		for x := 0; x < s.w; x++ {
			c := s.cells[y*s.w+x]
			if c.Ch == 0 {
				// Spacer half of a wide rune. If chrome overwrote the
				// leading cell the spacer is orphaned and must still
				// occupy its column, or the rest of the row shifts.
				if x > 0 && runewidth.RuneWidth(s.cells[y*s.w+x-1].Ch) == 2 {
					continue
				}
				c.Ch = ' '
			}
			if !styled || c.Style != cur {
				writeSGR(&b, c.Style)
				cur = c.Style
				styled = true
			}
			b.WriteRune(c.Ch)
		}
		b.WriteString("\x1b[0m")
		if y < s.h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func writeSGR(b *strings.Builder, st Style) {
	b.WriteString("\x1b[0")
	if st.Bold {
		b.WriteString(";1")
	}
	if st.Italic {
		b.WriteString(";3")
	}
	if st.Underline {
		b.WriteString(";4")
	}
	if st.Reverse {
		b.WriteString(";7")
	}
	if st.Fg.Valid {
		fmt.Fprintf(b, ";38;2;%d;%d;%d", st.Fg.R, st.Fg.G, st.Fg.B)
	}
	if st.Bg.Valid {
		fmt.Fprintf(b, ";48;2;%d;%d;%d", st.Bg.R, st.Bg.G, st.Bg.B)
	}
	b.WriteByte('m')
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
