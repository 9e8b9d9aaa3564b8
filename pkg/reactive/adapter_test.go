package reactive

import "testing"

func TestAdapterIsRawSignal(t *testing.T) {
	var a Adapter
	if !a.IsRawSignal(NewSignal(1)) || !a.IsRawSignal(NewMemo(func() int { return 1 })) {
		t.Error("signals and memos are raw signals")
	}
	if a.IsRawSignal(1) || a.IsRawSignal(func() int { return 1 }) {
		t.Error("plain values and functions are not raw signals")
	}
}

func TestAdapterGetTracks(t *testing.T) {
	var a Adapter
	s := NewSignal("x")
	var seen []any

	dispose := a.CreateEffect(func() { seen = append(seen, a.Get(s)) })
	s.Set("y")
	dispose()
	s.Set("z")

	if len(seen) != 2 || seen[1] != "y" {
		t.Errorf("seen = %v", seen)
	}
}

func TestRef(t *testing.T) {
	r := NewRef[string]("")
	if r.IsSet() {
		t.Error("new ref should not be set")
	}
	r.Set("node")
	if !r.IsSet() || r.Current() != "node" {
		t.Error("ref should hold the set value")
	}
}
