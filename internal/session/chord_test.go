package session

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func allValid(int) bool  { return true }
func noneValid(int) bool { return false }

func TestChordSwitch(t *testing.T) {
	c := NewChord(0)
	now := time.Now()

	r := c.Feed(runeKey('~'), now, allValid)
	if !r.Consumed || r.Flush != nil {
		t.Fatalf("first tilde should be consumed silently: %+v", r)
	}
	r = c.Feed(runeKey('~'), now.Add(100*time.Millisecond), allValid)
	if !r.Consumed {
		t.Fatalf("second tilde should be consumed: %+v", r)
	}
	r = c.Feed(runeKey('3'), now.Add(200*time.Millisecond), allValid)
	if !r.HasSwitch || r.Switch != 2 {
		t.Fatalf("~~3 should request slot index 2: %+v", r)
	}
	if !r.Consumed || r.Flush != nil {
		t.Fatalf("chord completion must send nothing to the child: %+v", r)
	}
}

func TestChordTimeoutFlushesLiteralTilde(t *testing.T) {
	c := NewChord(0)
	now := time.Now()

	c.Feed(runeKey('~'), now, allValid)

	// Past the window, a following key gets the buffered tilde first.
	r := c.Feed(runeKey('a'), now.Add(2*time.Second), allValid)
	if string(r.Flush) != "~" {
		t.Errorf("flush = %q, want %q", r.Flush, "~")
	}
	if r.Consumed {
		t.Error("the breaking key must still be handled normally")
	}
}

func TestChordExpireOnTick(t *testing.T) {
	c := NewChord(0)
	now := time.Now()

	c.Feed(runeKey('~'), now, allValid)
	c.Feed(runeKey('~'), now.Add(50*time.Millisecond), allValid)

	if out := c.Expire(now.Add(time.Second)); out != nil {
		t.Errorf("expire inside the window flushed %q", out)
	}
	if out := c.Expire(now.Add(3 * time.Second)); string(out) != "~~" {
		t.Errorf("expire past the window flushed %q, want %q", out, "~~")
	}
	if c.Pending() {
		t.Error("recognizer should be idle after expiry")
	}
}

func TestChordNonTildeBreaks(t *testing.T) {
	c := NewChord(0)
	now := time.Now()

	c.Feed(runeKey('~'), now, allValid)
	r := c.Feed(runeKey('x'), now.Add(time.Millisecond), allValid)
	if string(r.Flush) != "~" || r.Consumed {
		t.Errorf("~x should flush the tilde and pass x through: %+v", r)
	}

	// Non-rune keys break the chord too.
	c.Feed(runeKey('~'), now, allValid)
	r = c.Feed(tea.KeyMsg{Type: tea.KeyEnter}, now.Add(time.Millisecond), allValid)
	if string(r.Flush) != "~" {
		t.Errorf("~<enter> should flush the tilde: %+v", r)
	}
}

func TestChordInvalidDigitConsumedSilently(t *testing.T) {
	c := NewChord(0)
	now := time.Now()

	c.Feed(runeKey('~'), now, noneValid)
	c.Feed(runeKey('~'), now.Add(time.Millisecond), noneValid)
	r := c.Feed(runeKey('9'), now.Add(2*time.Millisecond), noneValid)
	if r.HasSwitch {
		t.Error("invalid slot must not raise a switch request")
	}
	if !r.Consumed || r.Flush != nil {
		t.Errorf("an invalid digit completes the chord silently, nothing reaches the child: %+v", r)
	}
	if c.Pending() {
		t.Error("recognizer should be idle after a failed switch")
	}
}

func TestChordRestartAfterTimeout(t *testing.T) {
	c := NewChord(0)
	now := time.Now()

	c.Feed(runeKey('~'), now, allValid)
	// A tilde after the window flushes the stale one and starts over.
	r := c.Feed(runeKey('~'), now.Add(3*time.Second), allValid)
	if string(r.Flush) != "~" || !r.Consumed {
		t.Errorf("stale tilde should flush, new one should arm: %+v", r)
	}
	if !c.Pending() {
		t.Error("recognizer should be mid-chord again")
	}
}
