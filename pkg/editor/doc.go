// Package editor talks to the host editor: it invokes the profile-switch
// CLI, reads the profile registry, and lists profile storage.
package editor
