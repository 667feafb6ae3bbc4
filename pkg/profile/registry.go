package profile

import (
	"encoding/json"
	"fmt"
)

// DefaultName is the sentinel for the editor's built-in profile. It has no
// identifier in the registry and no directory in profile storage.
const DefaultName = "Default"

// Entry is one registered profile: an internal identifier paired with the
// human-readable name shown in the editor.
type Entry struct {
	// ID is the editor-internal profile identifier.
	ID string `json:"location"`
	// Name is the human-readable profile name.
	Name string `json:"name"`
}

// Registry holds the profiles registered with the host editor.
type Registry struct {
	Entries []Entry
}

// registryDocument mirrors the editor's global storage JSON. Fields other
// than the profile list are ignored.
type registryDocument struct {
	UserDataProfiles []Entry `json:"userDataProfiles"`
}

// ParseRegistry decodes the editor's storage JSON into a [Registry].
func ParseRegistry(data []byte) (*Registry, error) {
	var doc registryDocument

	err := json.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("unmarshal profile registry: %w", err)
	}

	return &Registry{Entries: doc.UserDataProfiles}, nil
}

// LookupIdentifier translates a human-readable profile name to its internal
// identifier. It scans entries in reverse so the most recently registered
// entry wins when names collide. Unknown names yield ("", false).
func (r *Registry) LookupIdentifier(name string) (string, bool) {
	if r == nil {
		return "", false
	}

	for i := len(r.Entries) - 1; i >= 0; i-- {
		if r.Entries[i].Name == name {
			return r.Entries[i].ID, true
		}
	}

	return "", false
}

// NameFor returns the human-readable name registered for an identifier,
// or ("", false) when the identifier is unknown.
func (r *Registry) NameFor(id string) (string, bool) {
	if r == nil {
		return "", false
	}

	for i := len(r.Entries) - 1; i >= 0; i-- {
		if r.Entries[i].ID == id {
			return r.Entries[i].Name, true
		}
	}

	return "", false
}
