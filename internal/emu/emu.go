// Package emu wraps a headless ANSI/VT terminal engine behind the
// small surface the rest of the desktop needs: feed bytes, resize,
// read styled cells, and query the modes that drive input encoding.
package emu

import (
	"image/color"
	"io"

	headlessterm "github.com/danielgatis/go-headless-term"

	"github.com/stylith/termdesk/internal/screen"
)

// Named color indices past the 256-entry palette, as the engine
// reports them: 256/257 are the default foreground/background,
// 259-266 the dim variants of the base colors, 267 the bright default
// foreground. The engine does not export these.
const (
	namedDimBlack         = 259
	namedDimWhite         = 266
	namedBrightForeground = 267
)

// MouseMode is the mouse-reporting level a child application has
// requested via DEC private modes.
type MouseMode int

const (
	MouseOff MouseMode = iota
	MouseClicks
	MouseCellMotion
	MouseAllMotion
)

// Emulator owns one terminal grid. The engine serializes all access
// internally, so the pty reader goroutine and the render pass may call
// into it concurrently.
type Emulator struct {
	term *headlessterm.Terminal
}

// New creates an emulator sized cols×rows. Terminal query responses
// (cursor position reports, device attributes) are written to
// responses, typically the pty master; nil discards them.
func New(cols, rows int, responses io.Writer) *Emulator {
	if responses == nil {
		responses = headlessterm.NoopResponse{}
	}
	t := headlessterm.New(
		headlessterm.WithSize(rows, cols),
		headlessterm.WithResponse(responses),
	)
	return &Emulator{term: t}
}

// Process feeds raw child output into the engine. Malformed escape
// sequences are absorbed silently.
func (e *Emulator) Process(p []byte) {
	e.term.Write(p)
}

func (e *Emulator) Size() (cols, rows int) {
	return e.term.Cols(), e.term.Rows()
}

// Resize adjusts the grid. Unchanged dimensions are a no-op.
func (e *Emulator) Resize(cols, rows int) {
	if cols == e.term.Cols() && rows == e.term.Rows() {
		return
	}
	e.term.Resize(rows, cols)
}

// Cell returns the styled cell at (row, col). Out-of-range coordinates
// return a blank cell and false; the renderer never needs to guard.
func (e *Emulator) Cell(row, col int) (screen.Cell, bool) {
	c := e.term.Cell(row, col)
	if c == nil {
		return screen.Blank(), false
	}
	if c.IsWideSpacer() {
		return screen.Cell{Ch: 0, Style: cellStyle(c)}, true
	}
	ch := c.Char
	if ch == 0 {
		ch = ' '
	}
	return screen.Cell{Ch: ch, Style: cellStyle(c)}, true
}

// Line returns the text content of one row, for liveness checks and
// tests.
func (e *Emulator) Line(row int) string {
	return e.term.LineContent(row)
}

func (e *Emulator) CursorPos() (row, col int) {
	return e.term.CursorPos()
}

func (e *Emulator) CursorVisible() bool {
	return e.term.CursorVisible()
}

// ApplicationCursorKeys reports DECCKM, which flips arrow/Home/End
// encoding from CSI to SS3.
func (e *Emulator) ApplicationCursorKeys() bool {
	return e.term.HasMode(headlessterm.ModeCursorKeys)
}

// Mouse reports the child's requested mouse-reporting level.
func (e *Emulator) Mouse() MouseMode {
	switch {
	case e.term.HasMode(headlessterm.ModeReportAllMouseMotion):
		return MouseAllMotion
	case e.term.HasMode(headlessterm.ModeReportCellMouseMotion):
		return MouseCellMotion
	case e.term.HasMode(headlessterm.ModeReportMouseClicks):
		return MouseClicks
	default:
		return MouseOff
	}
}

// SGRMouse reports whether the child enabled SGR (1006) mouse
// encoding; otherwise the legacy X10 encoding applies.
func (e *Emulator) SGRMouse() bool {
	return e.term.HasMode(headlessterm.ModeSGRMouse)
}

// ── Style conversion ──────────────────────────────────────────────

func cellStyle(c *headlessterm.Cell) screen.Style {
	return screen.Style{
		Fg:        resolveColor(c.Fg, true),
		Bg:        resolveColor(c.Bg, false),
		Bold:      c.HasFlag(headlessterm.CellFlagBold),
		Italic:    c.HasFlag(headlessterm.CellFlagItalic),
		Underline: c.HasFlag(headlessterm.CellFlagUnderline),
		Reverse:   c.HasFlag(headlessterm.CellFlagReverse),
	}
}

// resolveColor maps the engine's palette-relative colors to concrete
// RGB. The semantic default foreground/background stay the zero Color
// so the compositor can substitute the window theme.
func resolveColor(c color.Color, fg bool) screen.Color {
	switch v := c.(type) {
	case nil:
		return screen.Color{}
	case color.RGBA:
		return screen.RGB(v.R, v.G, v.B)
	case *headlessterm.IndexedColor:
		if v.Index >= 0 && v.Index < 256 {
			p := headlessterm.DefaultPalette[v.Index]
			return screen.RGB(p.R, p.G, p.B)
		}
		return screen.Color{}
	case *headlessterm.NamedColor:
		return resolveNamed(v.Name, fg)
	default:
		r, g, b, _ := c.RGBA()
		return screen.RGB(uint8(r>>8), uint8(g>>8), uint8(b>>8))
	}
}

func resolveNamed(name int, fg bool) screen.Color {
	switch {
	case name >= 0 && name < 16:
		p := headlessterm.DefaultPalette[name]
		return screen.RGB(p.R, p.G, p.B)
	case name >= namedDimBlack && name <= namedDimWhite:
		p := headlessterm.DefaultPalette[name-namedDimBlack]
		return screen.RGB(uint8(float64(p.R)*0.66), uint8(float64(p.G)*0.66), uint8(float64(p.B)*0.66))
	case name == namedBrightForeground:
		p := headlessterm.DefaultPalette[15]
		return screen.RGB(p.R, p.G, p.B)
	default:
		// Foreground/background/cursor defaults stay unset so the
		// window theme decides.
		_ = fg
		return screen.Color{}
	}
}
