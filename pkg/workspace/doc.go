// Package workspace wires configuration discovery, profile resolution, and
// profile application into one session.
package workspace
