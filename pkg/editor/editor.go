package editor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	shellwords "github.com/mattn/go-shellwords"

	"github.com/profhop/profhop/pkg/execs"
	"github.com/profhop/profhop/pkg/log"
	"github.com/profhop/profhop/pkg/profile"
)

// ProfilePlaceholder marks where the profile identifier goes in the
// configured argument list.
const ProfilePlaceholder = "{profile}"

// DefaultArgs pass the profile to a VS Code-style CLI.
var DefaultArgs = []string{"--profile", ProfilePlaceholder}

// Editor is the production host implementation. It shells out to the
// configured editor CLI for switches and reads the editor's storage for
// registry and enumeration data.
type Editor struct {
	cmd          execs.Command
	registryPath string
	profilesDir  string
}

type Opt func(e *Editor)

// WithRegistryPath sets the editor storage JSON holding the profile
// registry.
func WithRegistryPath(path string) Opt {
	return func(e *Editor) {
		e.registryPath = path
	}
}

// WithProfilesDir sets the profile storage directory to enumerate.
func WithProfilesDir(dir string) Opt {
	return func(e *Editor) {
		e.profilesDir = dir
	}
}

// New creates an [Editor] from a shell-quoted command line. Tokens after
// the first become leading arguments, before cmd.Args.
func New(commandLine string, cmd execs.Command, opts ...Opt) (*Editor, error) {
	tokens, err := shellwords.Parse(commandLine)
	if err != nil {
		return nil, fmt.Errorf("parse editor command: %w", err)
	}

	if len(tokens) == 0 {
		return nil, execs.ErrEmptyCommand
	}

	args := cmd.Args
	if len(args) == 0 {
		args = DefaultArgs
	}

	cmd.Command = tokens[0]
	cmd.Args = append(append([]string{}, tokens[1:]...), args...)

	e := &Editor{
		cmd:          cmd,
		registryPath: DefaultRegistryPath(),
		profilesDir:  DefaultProfilesDir(),
	}
	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// SwitchProfile invokes the editor CLI for the given identifier. An empty
// identifier requests the built-in profile: the placeholder argument is
// omitted entirely, along with the flag that introduces it.
func (e *Editor) SwitchProfile(ctx context.Context, identifier string) error {
	cmd := e.cmd
	cmd.Args = expandArgs(e.cmd.Args, identifier)

	executor := execs.NewExecutor(cmd)

	_, err := executor.Exec(ctx, "")
	if err != nil {
		return fmt.Errorf("switch profile: %w", err)
	}

	return nil
}

// Registry reads the profile registry from the editor's storage JSON.
// A missing or malformed file degrades to an empty registry.
func (e *Editor) Registry(ctx context.Context) *profile.Registry {
	logger := log.WithContext(ctx).With(slog.String("path", e.registryPath))

	data, err := os.ReadFile(e.registryPath)
	if err != nil {
		logger.DebugContext(ctx, "no profile registry", slog.Any("error", err))

		return &profile.Registry{}
	}

	reg, err := profile.ParseRegistry(data)
	if err != nil {
		logger.DebugContext(ctx, "malformed profile registry", slog.Any("error", err))

		return &profile.Registry{}
	}

	return reg
}

// ListProfiles enumerates switchable profile names from profile storage,
// overlaid with registry names. I/O errors degrade to an empty listing, so
// the sentinel is always present.
func (e *Editor) ListProfiles(ctx context.Context) []string {
	entries, err := os.ReadDir(e.profilesDir)
	if err != nil {
		log.WithContext(ctx).DebugContext(ctx, "no profile storage",
			slog.String("path", e.profilesDir),
			slog.Any("error", err),
		)

		entries = nil
	}

	return profile.List(entries, e.Registry(ctx))
}

// LookupIdentifier implements [switcher.Lookup] against the live registry.
func (e *Editor) LookupIdentifier(name string) (string, bool) {
	return e.Registry(context.Background()).LookupIdentifier(name)
}

// expandArgs substitutes the profile placeholder. With an empty identifier
// the placeholder argument is dropped, along with an immediately preceding
// flag argument; placeholders embedded in longer arguments are dropped with
// their whole argument.
func expandArgs(args []string, identifier string) []string {
	out := make([]string, 0, len(args))

	for _, arg := range args {
		if !strings.Contains(arg, ProfilePlaceholder) {
			out = append(out, arg)

			continue
		}

		if identifier == "" {
			if arg == ProfilePlaceholder && len(out) > 0 && strings.HasPrefix(out[len(out)-1], "-") {
				out = out[:len(out)-1]
			}

			continue
		}

		out = append(out, strings.ReplaceAll(arg, ProfilePlaceholder, identifier))
	}

	return out
}

// DefaultRegistryPath is the VS Code global storage location under the
// user config dir.
func DefaultRegistryPath() string {
	cfgDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	return filepath.Join(cfgDir, "Code", "User", "globalStorage", "storage.json")
}

// DefaultProfilesDir is the VS Code profile storage location under the
// user config dir.
func DefaultProfilesDir() string {
	cfgDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	return filepath.Join(cfgDir, "Code", "User", "profiles")
}
