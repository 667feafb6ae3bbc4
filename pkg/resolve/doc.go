// Package resolve decides which editor profile applies to a file,
// based on workspace settings, directory mappings, and match rules.
package resolve
