package arena

import "testing"

func TestParseAction(t *testing.T) {
	for _, a := range Actions() {
		got, ok := ParseAction(a.String())
		if !ok || got != a {
			t.Fatalf("ParseAction(%q) = %v, %v", a.String(), got, ok)
		}
	}
	for _, s := range []string{"fly", "STRIKE", "", "strike "} {
		if _, ok := ParseAction(s); ok {
			t.Fatalf("ParseAction(%q) unexpectedly succeeded", s)
		}
	}
}

func TestActionWireValues(t *testing.T) {
	// These values are signed into attestations; reordering them breaks
	// every outstanding signature.
	want := map[Action]uint8{
		ActionStrike:  0,
		ActionTaunt:   1,
		ActionDodge:   2,
		ActionSpecial: 3,
		ActionRecover: 4,
	}
	for a, v := range want {
		if uint8(a) != v {
			t.Fatalf("action %s has wire value %d, want %d", a, uint8(a), v)
		}
	}
	if Action(5).Valid() {
		t.Fatalf("action 5 must be out of vocabulary")
	}
}

func TestActionNamesMirrorWireOrder(t *testing.T) {
	names := ActionNames()
	actions := Actions()
	if len(names) != len(actions) {
		t.Fatalf("len(names) = %d, len(actions) = %d", len(names), len(actions))
	}
	for i, a := range actions {
		if names[i] != a.String() {
			t.Fatalf("names[%d] = %q, want %q", i, names[i], a.String())
		}
	}
}

func TestSideString(t *testing.T) {
	if SideA.String() != "A" || SideB.String() != "B" {
		t.Fatalf("side names: got %q/%q", SideA.String(), SideB.String())
	}
}
