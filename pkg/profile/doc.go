// Package profile models the host editor's profile registry and
// enumerates the profiles available for switching.
package profile
