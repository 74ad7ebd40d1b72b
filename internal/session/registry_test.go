package session

import "testing"

func TestValidTargetBounds(t *testing.T) {
	r := NewRegistry()

	// One slot exists at start: slot 0 and the next free slot 1.
	cases := []struct {
		idx  int
		want bool
	}{
		{-1, false},
		{0, true},
		{1, true},
		{2, false},
	}
	for _, c := range cases {
		if got := r.ValidTarget(c.idx); got != c.want {
			t.Errorf("ValidTarget(%d) = %v, want %v", c.idx, got, c.want)
		}
	}
}

func TestValidTargetCapped(t *testing.T) {
	r := NewRegistry()
	for i := 1; i < MaxSessions; i++ {
		r.SetActive(i)
	}
	if r.Count() != MaxSessions {
		t.Fatalf("count = %d, want %d", r.Count(), MaxSessions)
	}
	if r.ValidTarget(MaxSessions) {
		t.Error("slot beyond the cap must be rejected")
	}
	if !r.ValidTarget(MaxSessions - 1) {
		t.Error("last existing slot must stay valid")
	}
}

func TestSwitchRequestLifecycle(t *testing.T) {
	r := NewRegistry()

	if r.HasSwitchRequest() {
		t.Fatal("fresh registry should have no pending request")
	}
	if r.RequestSwitch(0) {
		t.Error("switching to the active slot is a no-op")
	}
	if !r.RequestSwitch(1) {
		t.Fatal("switch to the next free slot should be accepted")
	}
	if !r.HasSwitchRequest() {
		t.Fatal("request should be pending")
	}
	idx, ok := r.TakeSwitchRequest()
	if !ok || idx != 1 {
		t.Errorf("TakeSwitchRequest = (%d, %v), want (1, true)", idx, ok)
	}
	if _, ok := r.TakeSwitchRequest(); ok {
		t.Error("request must be consumed exactly once")
	}
}

func TestParkResumeExclusivity(t *testing.T) {
	r := NewRegistry()

	// Parking nil is ignored.
	r.Park(0, nil)
	if r.Parked(0) {
		t.Error("nil session must not occupy a slot")
	}

	if _, ok := r.Resume(5); ok {
		t.Error("resuming an empty slot reports no session")
	}

	r.SetActive(1)
	if r.Active() != 1 || r.Count() != 2 {
		t.Errorf("active=%d count=%d, want 1 and 2", r.Active(), r.Count())
	}
}
