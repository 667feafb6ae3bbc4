// Package expr provides a thread-safe CEL environment with path helpers.
package expr
