package template

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/vango-dev/loom/pkg/compiler"
	"github.com/vango-dev/loom/pkg/metrics"
)

func countingCompiler(n *atomic.Int32) CompileFunc {
	return func(key string, fragments []string) (*compiler.Program, error) {
		n.Add(1)
		return compiler.Compile(key, fragments)
	}
}

func TestLoadCompilesOnce(t *testing.T) {
	var n atomic.Int32
	c := NewCache(countingCompiler(&n))
	tpl := New("<p>static</p>")

	first, err := c.Load(tpl)
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Load(tpl)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("second Load should return the cached program")
	}
	if n.Load() != 1 {
		t.Errorf("compiled %d times, want 1", n.Load())
	}
	if s := c.Stats(); s.Hits != 1 || s.Misses != 1 || s.Size != 1 {
		t.Errorf("Stats = %+v", s)
	}
}

func TestIdentityNotContent(t *testing.T) {
	var n atomic.Int32
	c := NewCache(countingCompiler(&n))
	a := New("<p>same</p>")
	b := New("<p>same</p>")

	pa, _ := c.Load(a)
	pb, _ := c.Load(b)
	if pa == pb {
		t.Error("structurally identical templates should compile independently")
	}
	if n.Load() != 2 {
		t.Errorf("compiled %d times, want 2", n.Load())
	}
}

func TestCompileErrorCached(t *testing.T) {
	var n atomic.Int32
	c := NewCache(func(key string, fragments []string) (*compiler.Program, error) {
		n.Add(1)
		return nil, errors.New("boom")
	})
	tpl := New("x")
	for i := 0; i < 3; i++ {
		if _, err := c.Load(tpl); err == nil {
			t.Fatal("expected error")
		}
	}
	if n.Load() != 1 {
		t.Errorf("compiled %d times, want 1", n.Load())
	}
}

func TestConcurrentLoad(t *testing.T) {
	var n atomic.Int32
	c := NewCache(countingCompiler(&n), WithMetrics(metrics.New()))
	tpl := New("<a>", "</a>")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Load(tpl); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if n.Load() != 1 {
		t.Errorf("compiled %d times, want 1", n.Load())
	}
	if s := c.Stats(); s.Hits+s.Misses != 16 || s.Misses != 1 {
		t.Errorf("Stats = %+v", s)
	}
}

func TestTemplateIdentity(t *testing.T) {
	a := New("<a>", "</a>")
	b := Named("page.html", "x")
	if a.ID() == b.ID() {
		t.Error("ids must be unique")
	}
	if a.Slots() != 1 || b.Slots() != 0 {
		t.Errorf("Slots = %d, %d", a.Slots(), b.Slots())
	}
	if got := b.Key(); got[:10] != "page.html#" {
		t.Errorf("Key = %q", got)
	}
	frags := a.Fragments()
	frags[0] = "mutated"
	if a.Fragments()[0] != "<a>" {
		t.Error("Fragments must return a copy")
	}
}
