package screen

import (
	"strings"
	"testing"
)

func TestSurfaceOutOfRange(t *testing.T) {
	s := New(80, 24)

	// Writes outside the surface must be dropped, never panic.
	s.Set(-1, 0, Cell{Ch: 'X'})
	s.Set(80, 0, Cell{Ch: 'X'})
	s.Set(0, 24, Cell{Ch: 'X'})

	cases := []struct{ x, y int }{
		{-1, 0}, {80, 0}, {0, -1}, {0, 24}, {1000, 1000},
	}
	for _, c := range cases {
		if got := s.Get(c.x, c.y); got != Blank() {
			t.Errorf("Get(%d,%d) = %+v, want blank", c.x, c.y, got)
		}
	}
}

func TestSurfaceSetGet(t *testing.T) {
	s := New(80, 24)
	c := Cell{Ch: 'A', Style: Style{Fg: RGB(255, 0, 0), Bold: true}}
	s.Set(10, 5, c)
	if got := s.Get(10, 5); got != c {
		t.Errorf("Get(10,5) = %+v, want %+v", got, c)
	}
}

func TestSurfaceFillClips(t *testing.T) {
	s := New(20, 10)
	s.Fill(Rect{X: 15, Y: 5, W: 10, H: 10}, Cell{Ch: '#'})
	if s.Get(16, 6).Ch != '#' {
		t.Error("cell inside fill rect should be '#'")
	}
	if s.Get(14, 6).Ch == '#' {
		t.Error("cell outside fill rect should be untouched")
	}
}

func TestSetStringClips(t *testing.T) {
	s := New(10, 2)
	s.SetString(7, 0, "hello", Style{})
	if s.Get(7, 0).Ch != 'h' || s.Get(9, 0).Ch != 'l' {
		t.Error("string should be written up to the edge")
	}
	// Nothing wraps to the next row.
	if s.Get(0, 1).Ch != ' ' {
		t.Error("clipped string must not wrap")
	}
}

func TestFrameContainsText(t *testing.T) {
	s := New(12, 2)
	s.SetString(0, 0, "hello", Style{Fg: RGB(1, 2, 3)})
	f := s.Frame()
	if !strings.Contains(f, "hello") {
		t.Errorf("frame missing text: %q", f)
	}
	if !strings.Contains(f, "38;2;1;2;3") {
		t.Errorf("frame missing fg SGR: %q", f)
	}
	if strings.Count(f, "\n") != 1 {
		t.Errorf("expected 1 newline for 2 rows, got %d", strings.Count(f, "\n"))
	}
}

func TestFrameSkipsWideSpacer(t *testing.T) {
	s := New(4, 1)
	s.Set(0, 0, Cell{Ch: '中'})
	s.Set(1, 0, Cell{Ch: 0}) // spacer half
	s.Set(2, 0, Cell{Ch: 'B'})
	f := s.Frame()
	if !strings.Contains(f, "中B") {
		t.Errorf("wide char should keep its two columns: %q", f)
	}
}

func TestFrameOrphanedSpacerKeepsColumn(t *testing.T) {
	s := New(4, 1)
	s.Set(0, 0, Cell{Ch: '中'})
	s.Set(1, 0, Cell{Ch: 0})
	s.Set(2, 0, Cell{Ch: 'B'})
	// Chrome overwrites the leading cell, orphaning the spacer.
	s.Set(0, 0, Cell{Ch: 'A'})
	f := s.Frame()
	if !strings.Contains(f, "A") || !strings.Contains(f, "B") {
		t.Fatalf("frame lost cells: %q", f)
	}
	if strings.Contains(f, "AB") {
		t.Errorf("orphaned spacer dropped its column: %q", f)
	}
}

func TestRectMath(t *testing.T) {
	r := Rect{X: 2, Y: 3, W: 10, H: 5}
	if !r.Contains(2, 3) || !r.Contains(11, 7) {
		t.Error("corners inside rect should be contained")
	}
	if r.Contains(12, 3) || r.Contains(2, 8) {
		t.Error("right/bottom edges are exclusive")
	}
	got := r.Intersect(Rect{X: 8, Y: 0, W: 10, H: 4})
	want := Rect{X: 8, Y: 3, W: 4, H: 1}
	if got != want {
		t.Errorf("Intersect = %+v, want %+v", got, want)
	}
	if empty := r.Intersect(Rect{X: 50, Y: 50, W: 2, H: 2}); empty.W != 0 || empty.H != 0 {
		t.Errorf("disjoint rects should intersect to zero size, got %+v", empty)
	}
}
