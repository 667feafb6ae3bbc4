package profile

import (
	"io/fs"
	"slices"
	"strings"
)

// List turns the profile storage directory entries into the set of
// switchable profile names. Hidden entries (leading "."), reserved entries
// (leading "__"), and plain files are filtered out. Directory identifiers
// are overlaid with registry names when registered, falling back to the raw
// directory name. The sentinel [DefaultName] is injected when absent, and
// the result is sorted lexicographically and deduplicated.
//
// Callers that fail to read the storage directory pass nil entries; the
// result is then just the sentinel.
func List(entries []fs.DirEntry, registry *Registry) []string {
	names := make([]string, 0, len(entries)+1)

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		id := entry.Name()
		if strings.HasPrefix(id, ".") || strings.HasPrefix(id, "__") {
			continue
		}

		if name, ok := registry.NameFor(id); ok {
			names = append(names, name)

			continue
		}

		names = append(names, id)
	}

	if !slices.Contains(names, DefaultName) {
		names = append(names, DefaultName)
	}

	slices.Sort(names)

	return slices.Compact(names)
}
