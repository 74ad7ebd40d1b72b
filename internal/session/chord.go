package session

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultChordWindow is how long the recognizer waits between chord
// keystrokes before flushing them as literal input.
const DefaultChordWindow = 1200 * time.Millisecond

type chordState int

const (
	chordIdle chordState = iota
	chordSawTilde
	chordSawDoubleTilde
)

// Chord recognizes the ~~<digit> session-switch sequence. Keystrokes
// that turn out not to be a chord are returned verbatim so a literal
// tilde is never lost.
type Chord struct {
	Window time.Duration

	state chordState
	since time.Time
}

func NewChord(window time.Duration) *Chord {
	if window <= 0 {
		window = DefaultChordWindow
	}
	return &Chord{Window: window}
}

// Result of feeding one keystroke through the recognizer.
type Result struct {
	// Consumed means the keystroke was absorbed by the chord and must
	// not reach the child.
	Consumed bool
	// Flush holds buffered tilde bytes to forward to the child before
	// handling the current keystroke normally.
	Flush []byte
	// Switch is the requested slot index when HasSwitch is set.
	Switch    int
	HasSwitch bool
}

// Feed processes one keystroke. valid reports whether a slot index is
// an acceptable switch target.
func (c *Chord) Feed(msg tea.KeyMsg, now time.Time, valid func(int) bool) Result {
	var res Result

	if c.state != chordIdle && now.Sub(c.since) > c.Window {
		res.Flush = c.buffered()
		c.state = chordIdle
	}

	r, isRune := soleRune(msg)

	switch c.state {
	case chordIdle:
		if isRune && r == '~' && !msg.Alt {
			c.state = chordSawTilde
			c.since = now
			res.Consumed = true
		}
		return res

	case chordSawTilde:
		if isRune && r == '~' && !msg.Alt {
			c.state = chordSawDoubleTilde
			c.since = now
			res.Consumed = true
			return res
		}
		res.Flush = append(res.Flush, '~')
		c.state = chordIdle
		return res

	case chordSawDoubleTilde:
		if isRune && r >= '1' && r <= '9' && !msg.Alt {
			// A digit always completes the chord. An invalid slot is
			// swallowed whole; the tildes and the digit were an
			// attempted switch, not input for the child.
			c.state = chordIdle
			res.Consumed = true
			idx := int(r - '1')
			if valid != nil && valid(idx) {
				res.Switch = idx
				res.HasSwitch = true
			}
			return res
		}
		res.Flush = append(res.Flush, '~', '~')
		c.state = chordIdle
		return res
	}

	return res
}

// Expire flushes the buffered tildes once the window has lapsed with
// no further keystrokes. Called on every UI tick.
func (c *Chord) Expire(now time.Time) []byte {
	if c.state == chordIdle || now.Sub(c.since) <= c.Window {
		return nil
	}
	out := c.buffered()
	c.state = chordIdle
	return out
}

// Pending reports whether the recognizer is mid-chord.
func (c *Chord) Pending() bool { return c.state != chordIdle }

func (c *Chord) buffered() []byte {
	switch c.state {
	case chordSawTilde:
		return []byte{'~'}
	case chordSawDoubleTilde:
		return []byte{'~', '~'}
	}
	return nil
}

func soleRune(msg tea.KeyMsg) (rune, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return 0, false
	}
	return msg.Runes[0], true
}
