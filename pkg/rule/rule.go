package rule

import (
	"errors"
	"fmt"
	"path"

	"github.com/google/cel-go/cel"

	"github.com/profhop/profhop/pkg/expr"
)

// Rule uses a CEL matcher to determine if its profile should be applied.
//
// CEL expressions have access to variables:
//   - `path` (string): The workspace-relative file path, slash-separated
//   - `dir` (string): The directory portion of `path`
//
// CEL expressions must return a boolean value:
//   - pathExt(path) in [".md", ".rst"] - true for documentation files
//   - dir.startsWith("vendor/") - true for vendored code
//   - pathBase(path).matches(".*_test\\.go$") - true for Go test files
//   - false - rule doesn't match
//
// CEL path functions available:
//   - pathBase(string): Returns the last element of the path (filename)
//   - pathDir(string): Returns all but the last element of the path (directory)
//   - pathExt(string): Returns the file extension including the dot
//
// CEL also provides standard functions like `endsWith`, `contains`,
// `startsWith`, `matches`, along with list membership via `in`, and
// logical operators like `&&`, `||`, and `!`.
type Rule struct {
	matchProgram cel.Program // Compiled CEL program for matching file paths.

	// Match is a CEL expression to match file paths.
	Match string `json:"match" jsonschema:"title=Match Expression"`
	// Profile is the name of the profile to use when this rule matches.
	Profile string `json:"profile" jsonschema:"title=Profile Name"`
}

// New creates a new rule with the given profile name and match expression.
func New(profileName, match string) (*Rule, error) {
	r := &Rule{
		Match:   match,
		Profile: profileName,
	}
	if err := r.CompileMatch(); err != nil {
		return nil, fmt.Errorf("rule %q: %w", match, err)
	}

	return r, nil
}

// MustNew creates a new rule and panics if there's an error.
func MustNew(profileName, match string) *Rule {
	r, err := New(profileName, match)
	if err != nil {
		panic(err)
	}

	return r
}

// CompileMatch compiles the rule's match expression into a CEL program.
func (r *Rule) CompileMatch() error {
	if r.matchProgram == nil {
		env, err := expr.NewEnvironment(
			cel.Variable("path", cel.StringType),
			cel.Variable("dir", cel.StringType),
		)
		if err != nil {
			return fmt.Errorf("create CEL environment: %w", err)
		}

		program, err := env.Compile(r.Match)
		if err != nil {
			return fmt.Errorf("compile match expression: %w", err)
		}

		r.matchProgram = program
	}

	return nil
}

// MatchPath evaluates the rule against a workspace-relative file path.
// The path must already be slash-separated.
//
// The CEL expression must return a boolean value indicating whether the rule
// matches; evaluation errors and non-boolean results are non-matches.
func (r *Rule) MatchPath(relPath string) bool {
	if r.matchProgram == nil {
		panic(errors.New("rule missing a match expression"))
	}

	result, _, err := r.matchProgram.Eval(map[string]any{
		"path": relPath,
		"dir":  path.Dir(relPath),
	})
	if err != nil {
		// If evaluation fails, consider it a non-match.
		return false
	}

	// CEL expression must return a boolean value.
	if boolVal, ok := result.Value().(bool); ok {
		return boolVal
	}

	// If the result is not a boolean, treat as non-match.
	return false
}

func (r *Rule) String() string {
	return fmt.Sprintf("%s: %s", r.Profile, r.Match)
}
