// Package switcher applies a resolved profile to the host editor using an
// ordered list of invocation strategies, best-effort.
package switcher
