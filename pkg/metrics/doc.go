// Package metrics instruments compilation, the template cache and the
// runtime with Prometheus collectors.
//
// Metrics registers on a private registry unless WithRegistry supplies one,
// so several environments can coexist in one process. Every method is safe
// to call on a nil *Metrics.
//
// Metrics collected (namespace "loom" by default):
//   - loom_compiles_total: compilations by result (ok, error)
//   - loom_compile_duration_seconds: compilation time
//   - loom_cache_hits_total, loom_cache_misses_total: template cache lookups
//   - loom_render_duration_seconds: program execution time
//   - loom_region_recomputes_total: dynamic region re-evaluations
//   - loom_region_failures_total: recomputations that panicked
//   - loom_cleanup_failures_total: cleanup callbacks that panicked
//   - loom_components_mounted_total: component instantiations
//   - loom_missing_components_total: lookup misses by component name
package metrics
