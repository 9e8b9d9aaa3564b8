package reactive

import "testing"

func TestMemoLazyAndCached(t *testing.T) {
	count := NewSignal(2)
	computes := 0
	doubled := NewMemo(func() int {
		computes++
		return count.Get() * 2
	})

	if computes != 0 {
		t.Error("memo should be lazy")
	}
	if doubled.Get() != 4 || doubled.Get() != 4 {
		t.Error("memo value wrong")
	}
	if computes != 1 {
		t.Errorf("memo should cache, computes = %d", computes)
	}

	count.Set(3)
	if doubled.Peek() != 6 {
		t.Errorf("memo should recompute after change, got %d", doubled.Peek())
	}
}

func TestMemoDrivesEffect(t *testing.T) {
	name := NewSignal("ada")
	greeting := NewMemo(func() string { return "hi " + name.Get() })

	var seen []string
	e := CreateEffect(func() Cleanup {
		seen = append(seen, greeting.Get())
		return nil
	})
	defer e.Dispose()

	name.Set("grace")
	if len(seen) != 2 || seen[1] != "hi grace" {
		t.Errorf("seen = %v", seen)
	}
}
