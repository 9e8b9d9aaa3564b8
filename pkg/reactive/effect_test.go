package reactive

import "testing"

func TestEffectRunsOnCreate(t *testing.T) {
	ran := false
	e := CreateEffect(func() Cleanup {
		ran = true
		return nil
	})
	defer e.Dispose()

	if !ran {
		t.Error("effect should run immediately on creation")
	}
}

func TestEffectRerunsSynchronously(t *testing.T) {
	count := NewSignal(0)
	var seen []int

	e := CreateEffect(func() Cleanup {
		seen = append(seen, count.Get())
		return nil
	})
	defer e.Dispose()

	count.Set(1)
	count.Set(2)

	if len(seen) != 3 || seen[1] != 1 || seen[2] != 2 {
		t.Errorf("expected synchronous reruns [0 1 2], got %v", seen)
	}
}

func TestEffectCleanupBeforeRerun(t *testing.T) {
	count := NewSignal(0)
	var log []string

	e := CreateEffect(func() Cleanup {
		v := count.Get()
		log = append(log, "run")
		return func() {
			log = append(log, "cleanup")
			_ = v
		}
	})

	count.Set(1)
	e.Dispose()

	want := []string{"run", "cleanup", "run", "cleanup"}
	if len(log) != len(want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("log = %v, want %v", log, want)
		}
	}
}

func TestEffectDisposeUnsubscribes(t *testing.T) {
	count := NewSignal(0)
	runs := 0
	e := CreateEffect(func() Cleanup {
		_ = count.Get()
		runs++
		return nil
	})

	e.Dispose()
	count.Set(5)

	if runs != 1 {
		t.Errorf("disposed effect should not rerun, runs = %d", runs)
	}
	if count.Subscribers() != 0 {
		t.Errorf("disposed effect should unsubscribe, got %d", count.Subscribers())
	}
	if !e.IsDisposed() {
		t.Error("IsDisposed should be true")
	}
}

func TestEffectDynamicDependencies(t *testing.T) {
	useA := NewSignal(true)
	a := NewSignal("a")
	b := NewSignal("b")
	runs := 0

	e := CreateEffect(func() Cleanup {
		runs++
		if useA.Get() {
			_ = a.Get()
		} else {
			_ = b.Get()
		}
		return nil
	})
	defer e.Dispose()

	useA.Set(false)
	runs = 0
	a.Set("a2")
	if runs != 0 {
		t.Error("effect should no longer depend on a")
	}
	b.Set("b2")
	if runs != 1 {
		t.Errorf("effect should depend on b, runs = %d", runs)
	}
}

func TestEffectSelfInvalidationReruns(t *testing.T) {
	count := NewSignal(0)
	e := CreateEffect(func() Cleanup {
		if v := count.Get(); v < 3 {
			count.Set(v + 1)
		}
		return nil
	})
	defer e.Dispose()

	if count.Peek() != 3 {
		t.Errorf("expected effect to converge at 3, got %d", count.Peek())
	}
	if e.Runs() != 4 {
		t.Errorf("expected 4 runs, got %d", e.Runs())
	}
}

func TestNestedEffectsTrackIndependently(t *testing.T) {
	outer := NewSignal(0)
	inner := NewSignal(0)
	outerRuns, innerRuns := 0, 0

	var child *Effect
	parent := CreateEffect(func() Cleanup {
		_ = outer.Get()
		outerRuns++
		child = CreateEffect(func() Cleanup {
			_ = inner.Get()
			innerRuns++
			return nil
		})
		return child.Dispose
	})
	defer parent.Dispose()

	inner.Set(1)
	if outerRuns != 1 || innerRuns != 2 {
		t.Errorf("inner change should only rerun inner: outer=%d inner=%d", outerRuns, innerRuns)
	}

	outer.Set(1)
	if outerRuns != 2 || innerRuns != 3 {
		t.Errorf("outer change should rebuild inner: outer=%d inner=%d", outerRuns, innerRuns)
	}
	if inner.Subscribers() != 1 {
		t.Errorf("old inner effect should be disposed, subscribers = %d", inner.Subscribers())
	}
}

func TestOwnerDisposesEffects(t *testing.T) {
	owner := NewOwner(nil)
	count := NewSignal(0)
	runs := 0

	WithOwner(owner, func() {
		CreateEffect(func() Cleanup {
			_ = count.Get()
			runs++
			return nil
		})
	})

	owner.Dispose()
	count.Set(1)
	if runs != 1 {
		t.Errorf("effect should be disposed with owner, runs = %d", runs)
	}
}
