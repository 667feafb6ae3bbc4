package resolve

import (
	"path"
	"slices"
	"strings"

	"github.com/profhop/profhop/pkg/rule"
)

// Kind discriminates the origin of a resolution.
type Kind string

const (
	// WorkspaceLevel means the workspace pins a profile directly.
	WorkspaceLevel Kind = "workspace"
	// DirectoryLevel means a directory mapping matched the file.
	DirectoryLevel Kind = "directory"
	// RuleLevel means a match rule selected the profile.
	RuleLevel Kind = "rule"
	// NoMatch means nothing applies to the file.
	NoMatch Kind = "none"
)

// Context carries everything a single resolution needs.
type Context struct {
	// WorkspaceRoot is the absolute path of the open workspace.
	WorkspaceRoot string
	// FilePath is the absolute path of the file being resolved.
	FilePath string
	// WorkspaceProfile, when non-empty, pins the whole workspace to one
	// profile and takes precedence over everything else.
	WorkspaceProfile string
	// Mappings maps workspace-relative directory prefixes to profile names.
	// The empty key is a catch-all that matches every file.
	Mappings map[string]string
	// Rules are evaluated in order when no mapping matches.
	Rules []*rule.Rule
}

// Result is a tagged resolution outcome. Exactly the fields implied by Kind
// are populated.
type Result struct {
	Kind    Kind
	Profile string
	// MatchedPath is the normalized mapping key, for DirectoryLevel.
	MatchedPath string
	// MatchedRule is the rule's match expression, for RuleLevel.
	MatchedRule string
}

// Resolve determines the profile for c.FilePath. It is total: every input
// produces a Result and no input produces an error.
//
// Precedence is strict: a workspace profile wins outright, then the longest
// matching directory mapping, then the first matching rule, then NoMatch.
func Resolve(c Context) Result {
	if c.WorkspaceProfile != "" {
		return Result{Kind: WorkspaceLevel, Profile: c.WorkspaceProfile}
	}

	relPath, inRoot := relativePath(c.WorkspaceRoot, c.FilePath)

	// The file path conceptually lives inside its own directory, so it gets
	// the same trailing slash treatment as the mapping keys.
	if key, profile, ok := matchMapping(c.Mappings, NormalizeDir(relPath), inRoot); ok {
		return Result{Kind: DirectoryLevel, Profile: profile, MatchedPath: key}
	}

	if inRoot {
		for _, r := range c.Rules {
			if r.MatchPath(relPath) {
				return Result{Kind: RuleLevel, Profile: r.Profile, MatchedRule: r.Match}
			}
		}
	}

	return Result{Kind: NoMatch}
}

// matchMapping returns the longest normalized mapping key that prefixes
// relPath. The catch-all key matches even files outside the workspace root.
// Ties between raw keys that normalize identically break on raw key order.
func matchMapping(mappings map[string]string, relPath string, inRoot bool) (string, string, bool) {
	rawKeys := make([]string, 0, len(mappings))
	for k := range mappings {
		rawKeys = append(rawKeys, k)
	}

	slices.Sort(rawKeys)

	var (
		bestKey     string
		bestProfile string
		found       bool
	)

	for _, rawKey := range rawKeys {
		key := NormalizeDir(rawKey)

		switch {
		case key == "/":
			// Catch-all, the weakest possible match.
		case !inRoot || !strings.HasPrefix(relPath, key):
			continue
		}

		if !found || len(key) > len(bestKey) {
			bestKey = key
			bestProfile = mappings[rawKey]
			found = true
		}
	}

	return bestKey, bestProfile, found
}

// NormalizeDir converts a mapping key to canonical form: forward slashes
// and a trailing "/". The empty key normalizes to "/", the catch-all.
func NormalizeDir(key string) string {
	key = toSlash(key)
	if key == "" || key == "/" {
		return "/"
	}

	if !strings.HasSuffix(key, "/") {
		key += "/"
	}

	return key
}

// relativePath computes the slash-separated path of file relative to root.
// The second return is false when file does not live under root.
func relativePath(root, file string) (string, bool) {
	root = path.Clean(toSlash(root))
	file = path.Clean(toSlash(file))

	if file == root {
		return ".", true
	}

	if root == "/" {
		return strings.TrimPrefix(file, "/"), strings.HasPrefix(file, "/")
	}

	if rest, ok := strings.CutPrefix(file, root+"/"); ok {
		return rest, true
	}

	return "", false
}

// toSlash is host-independent: backslash separators are converted even on
// hosts where the native separator is already "/".
func toSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
