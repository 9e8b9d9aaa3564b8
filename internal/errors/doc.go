// Package errors provides structured, coded errors for loom.
//
// Each error carries a code that maps to a category and a short message:
//   - E1xx template: construction-time authoring bugs (slot mismatches,
//     slots in names, bound attributes without a slot)
//   - E2xx runtime: fail-soft conditions that are logged, never returned
//     past a render (missing components, failing regions and cleanups)
//   - E3xx config and cli
//
// # Usage
//
//	err := errors.New(errors.CodeSlotMismatch).
//	    WithDetailf("template %s expects %d values, got %d", key, want, got).
//	    WithSuggestion("pass exactly one value per ${} slot")
//
//	fmt.Println(err.Format())
package errors
