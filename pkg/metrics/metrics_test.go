package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	return m.GetCounter().GetValue()
}

func histogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.CompileDone(time.Millisecond, nil)
	m.CacheHit()
	m.CacheMiss()
	m.RenderDone(time.Millisecond)
	m.RegionRecomputed()
	m.RegionFailed()
	m.CleanupFailed()
	m.ComponentMounted()
	m.MissingComponent("Card")
	if m.Gatherer() != nil {
		t.Error("nil metrics should have no gatherer")
	}
}

func TestCompileResults(t *testing.T) {
	m := New()
	m.CompileDone(time.Millisecond, nil)
	m.CompileDone(time.Millisecond, errors.New("bad"))
	m.CompileDone(time.Millisecond, nil)

	if got := counterValue(t, m.compilesTotal.WithLabelValues("ok")); got != 2 {
		t.Errorf("compiles_total(ok) = %v, want 2", got)
	}
	if got := counterValue(t, m.compilesTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("compiles_total(error) = %v, want 1", got)
	}
	if got := histogramCount(t, m.compileDuration); got != 3 {
		t.Errorf("compile_duration samples = %d, want 3", got)
	}
}

func TestCountersAndMissingComponents(t *testing.T) {
	m := New()
	m.CacheHit()
	m.CacheHit()
	m.CacheMiss()
	m.MissingComponent("Card")
	m.MissingComponent("Card")
	m.MissingComponent("Dialog")

	if got := counterValue(t, m.cacheHits); got != 2 {
		t.Errorf("cache hits = %v", got)
	}
	if got := counterValue(t, m.cacheMisses); got != 1 {
		t.Errorf("cache misses = %v", got)
	}
	if got := counterValue(t, m.missingComponents.WithLabelValues("Card")); got != 2 {
		t.Errorf("missing Card = %v", got)
	}
}

func TestPrivateRegistriesDoNotCollide(t *testing.T) {
	a := New()
	b := New()
	a.CacheHit()
	if counterValue(t, b.cacheHits) != 0 {
		t.Error("separate Metrics must not share collectors")
	}
}

func TestCustomRegistryAndNamespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(WithRegistry(reg), WithNamespace("tpl"), WithSubsystem("web"))
	m.RegionRecomputed()

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "tpl_web_region_recomputes_total" {
			found = true
		}
	}
	if !found {
		t.Error("expected tpl_web_region_recomputes_total to be registered")
	}
	if m.Gatherer() != reg {
		t.Error("Gatherer should return the supplied registry")
	}
}
