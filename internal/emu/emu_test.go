package emu

import (
	"strings"
	"testing"

	headlessterm "github.com/danielgatis/go-headless-term"

	"github.com/stylith/termdesk/internal/screen"
)

func TestCellOutOfRangeIsBlank(t *testing.T) {
	e := New(80, 24, nil)
	e.Process([]byte("hello\x1b[31mred\x1b[0m"))

	cases := []struct{ row, col int }{
		{-1, 0}, {0, -1}, {24, 0}, {0, 80}, {1000, 1000},
	}
	for _, c := range cases {
		cell, ok := e.Cell(c.row, c.col)
		if ok {
			t.Errorf("Cell(%d,%d) reported in-range", c.row, c.col)
		}
		if cell != screen.Blank() {
			t.Errorf("Cell(%d,%d) = %+v, want blank", c.row, c.col, cell)
		}
	}
}

func TestProcessWritesGrid(t *testing.T) {
	e := New(80, 24, nil)
	e.Process([]byte("hi"))

	c, ok := e.Cell(0, 0)
	if !ok || c.Ch != 'h' {
		t.Errorf("Cell(0,0) = %+v ok=%v, want 'h'", c, ok)
	}
	c, _ = e.Cell(0, 1)
	if c.Ch != 'i' {
		t.Errorf("Cell(0,1) = %q, want 'i'", c.Ch)
	}
}

func TestStyledCell(t *testing.T) {
	e := New(80, 24, nil)
	e.Process([]byte("\x1b[1;31mR"))

	c, _ := e.Cell(0, 0)
	if !c.Bold {
		t.Error("cell should be bold")
	}
	if !c.Fg.Valid {
		t.Error("red foreground should resolve to a concrete color")
	}
}

func TestResizeIdempotent(t *testing.T) {
	e := New(80, 24, nil)
	e.Process([]byte("before resize"))

	e.Resize(100, 30)
	line := e.Line(0)
	cols, rows := e.Size()

	e.Resize(100, 30)
	if got := e.Line(0); got != line {
		t.Errorf("second identical resize changed content: %q vs %q", got, line)
	}
	if c, r := e.Size(); c != cols || r != rows {
		t.Errorf("second identical resize changed size: %dx%d vs %dx%d", c, r, cols, rows)
	}
	if cols != 100 || rows != 30 {
		t.Errorf("size = %dx%d, want 100x30", cols, rows)
	}
}

func TestResizeExtendsGrid(t *testing.T) {
	e := New(80, 24, nil)
	if _, ok := e.Cell(29, 99); ok {
		t.Fatal("cell (29,99) should be out of range before resize")
	}
	e.Resize(100, 30)
	if _, ok := e.Cell(29, 99); !ok {
		t.Error("cell (29,99) should be in range after resize to 100x30")
	}
}

func TestMalformedInputAbsorbed(t *testing.T) {
	e := New(20, 5, nil)
	// Truncated CSI, stray OSC, random control bytes.
	e.Process([]byte("\x1b[999;zzz\x1b]0;title\x07\x00\xfftext"))
	if !strings.Contains(e.Line(0)+e.Line(1), "text") {
		// The engine may place text differently, but it must not panic
		// and printable bytes should survive somewhere on screen.
		found := false
		for r := 0; r < 5; r++ {
			if strings.Contains(e.Line(r), "text") {
				found = true
			}
		}
		if !found {
			t.Log("printable tail not found; acceptable as long as no panic occurred")
		}
	}
}

func TestResolveNamedColors(t *testing.T) {
	if got := resolveNamed(1, true); got != screen.RGB(
		headlessterm.DefaultPalette[1].R,
		headlessterm.DefaultPalette[1].G,
		headlessterm.DefaultPalette[1].B,
	) {
		t.Errorf("base color 1 = %+v", got)
	}

	// Dim variants scale the base palette entry down.
	base := headlessterm.DefaultPalette[1]
	dim := resolveNamed(namedDimBlack+1, true)
	if !dim.Valid || dim.R >= base.R && base.R > 0 {
		t.Errorf("dim red = %+v, base %+v", dim, base)
	}

	bright := headlessterm.DefaultPalette[15]
	if got := resolveNamed(namedBrightForeground, true); got != screen.RGB(bright.R, bright.G, bright.B) {
		t.Errorf("bright foreground = %+v", got)
	}

	// Semantic defaults stay unset so the window theme decides.
	if resolveNamed(256, true).Valid || resolveNamed(257, false).Valid {
		t.Error("default fg/bg must resolve to the zero color")
	}
}

func TestModesDefaultOff(t *testing.T) {
	e := New(80, 24, nil)
	if e.ApplicationCursorKeys() {
		t.Error("DECCKM should default off")
	}
	if e.Mouse() != MouseOff {
		t.Error("mouse reporting should default off")
	}

	e.Process([]byte("\x1b[?1h"))
	if !e.ApplicationCursorKeys() {
		t.Error("CSI ?1h should enable application cursor keys")
	}

	e.Process([]byte("\x1b[?1000h\x1b[?1006h"))
	if e.Mouse() != MouseClicks {
		t.Errorf("mouse mode = %v, want clicks", e.Mouse())
	}
	if !e.SGRMouse() {
		t.Error("CSI ?1006h should enable SGR mouse encoding")
	}
}
