package term

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// MouseToBytes encodes a desktop mouse event as a terminal mouse
// report at content-local cell (col, row), both 0-based. sgr selects
// the SGR (1006) encoding; otherwise the legacy X10 encoding is used,
// which caps coordinates at 223. Returns nil for events that have no
// terminal representation.
func MouseToBytes(msg tea.MouseMsg, col, row int, sgr bool) []byte {
	b, ok := mouseButtonCode(msg)
	if !ok {
		return nil
	}
	if msg.Action == tea.MouseActionMotion {
		b += 32
	}
	if msg.Shift {
		b += 4
	}
	if msg.Alt {
		b += 8
	}
	if msg.Ctrl {
		b += 16
	}

	if sgr {
		final := byte('M')
		if msg.Action == tea.MouseActionRelease {
			final = 'm'
		}
		return []byte(fmt.Sprintf("\x1b[<%d;%d;%d%c", b, col+1, row+1, final))
	}

	if msg.Action == tea.MouseActionRelease {
		b = (b &^ 0x3) | 3
	}
	return []byte{0x1b, '[', 'M', byte(32 + b), x10Coord(col), x10Coord(row)}
}

// mouseButtonCode maps the bubbletea button to the xterm base code.
func mouseButtonCode(msg tea.MouseMsg) (int, bool) {
	switch msg.Button {
	case tea.MouseButtonLeft:
		return 0, true
	case tea.MouseButtonMiddle:
		return 1, true
	case tea.MouseButtonRight:
		return 2, true
	case tea.MouseButtonWheelUp:
		return 64, true
	case tea.MouseButtonWheelDown:
		return 65, true
	case tea.MouseButtonWheelLeft:
		return 66, true
	case tea.MouseButtonWheelRight:
		return 67, true
	case tea.MouseButtonNone:
		// Motion with no button held (any-motion tracking).
		if msg.Action == tea.MouseActionMotion {
			return 3, true
		}
		return 0, false
	default:
		return 0, false
	}
}

func x10Coord(v int) byte {
	if v < 0 {
		v = 0
	}
	if v > 222 {
		v = 222
	}
	return byte(32 + v + 1)
}
