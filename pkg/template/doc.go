// Package template gives templates an identity and caches their compiled
// programs.
//
// Identity is the *Template value, not its text: two templates built from
// identical fragments compile independently. Declare templates once, at
// package level or in a long-lived value, and reuse them:
//
//	var greeting = template.New("<b>Hello ", "</b>")
//
//	prog, err := cache.Load(greeting)
package template
