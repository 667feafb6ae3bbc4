package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/profhop/profhop/pkg/config"
	"github.com/profhop/profhop/pkg/editor"
	"github.com/profhop/profhop/pkg/log"
	"github.com/profhop/profhop/pkg/resolve"
	"github.com/profhop/profhop/pkg/switcher"
)

// Host extends the switcher host with the registry and enumeration
// operations the session needs. [*editor.Editor] implements it.
type Host interface {
	switcher.Host
	switcher.Lookup

	ListProfiles(ctx context.Context) []string
}

// Snapshot is the workspace configuration in effect for one target path.
// It is rebuilt per call; the backing file may change between calls.
type Snapshot struct {
	Config *config.WorkspaceConfig
	// Path is the workspace config file, empty when none was found.
	Path string
	// Root is the workspace root: the config file's directory, or the
	// fallback when no config exists.
	Root string
}

// Session coordinates resolution and application for one editor host.
type Session struct {
	host   Host
	sw     *switcher.Switcher
	cfg    *config.Config
	tracer trace.Tracer
	// root overrides workspace root discovery when set.
	root string
}

type Opt func(s *Session)

// WithHost replaces the editor host, mainly for tests.
func WithHost(h Host) Opt {
	return func(s *Session) {
		s.host = h
	}
}

// WithRoot pins the workspace root instead of deriving it from the
// discovered config file location.
func WithRoot(root string) Opt {
	return func(s *Session) {
		s.root = root
	}
}

// New creates a [Session] from the global configuration.
func New(cfg *config.Config, opts ...Opt) (*Session, error) {
	cfg.EnsureDefaults()

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	s := &Session{
		cfg:    cfg,
		tracer: otel.Tracer("workspace"),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.host == nil {
		var editorOpts []editor.Opt
		if cfg.Editor.RegistryPath != "" {
			editorOpts = append(editorOpts, editor.WithRegistryPath(cfg.Editor.RegistryPath))
		}

		if cfg.Editor.ProfilesDir != "" {
			editorOpts = append(editorOpts, editor.WithProfilesDir(cfg.Editor.ProfilesDir))
		}

		host, err := editor.New(cfg.Editor.Command, cfg.EditorCommand(), editorOpts...)
		if err != nil {
			return nil, fmt.Errorf("editor: %w", err)
		}

		s.host = host
	}

	s.sw = switcher.New(s.host,
		switcher.WithLookup(s.host),
		switcher.WithGraceDelay(*cfg.GraceDelay),
	)

	return s, nil
}

// Workspace discovers the configuration in effect for target. Discovery
// walks up from target and stops at the first config file; read or
// validation failures degrade to an empty configuration.
func (s *Session) Workspace(ctx context.Context, target string) Snapshot {
	logger := log.WithContext(ctx).With(slog.String("target", target))

	snap := Snapshot{
		Config: config.NewWorkspaceConfig(),
		Root:   s.fallbackRoot(target),
	}

	configPath, err := config.FindWorkspaceConfig(target)
	if err != nil || configPath == "" {
		if err != nil {
			logger.DebugContext(ctx, "workspace config discovery failed", slog.Any("error", err))
		}

		return snap
	}

	loader, err := config.NewWorkspaceLoaderFromFile(configPath)
	if err != nil {
		logger.DebugContext(ctx, "workspace config unreadable",
			slog.String("path", configPath),
			slog.Any("error", err),
		)

		return snap
	}

	wc, err := loader.Load()
	if err == nil {
		err = wc.Validate()
	}

	if err != nil {
		// Malformed workspace config means no mappings, not a hard failure.
		logger.WarnContext(ctx, "ignoring malformed workspace config",
			slog.String("path", configPath),
			slog.Any("error", err),
		)

		return snap
	}

	snap.Config = wc
	snap.Path = configPath

	if s.root == "" {
		snap.Root = filepath.Dir(configPath)
	}

	return snap
}

// Resolve computes the profile for target from the current workspace state.
func (s *Session) Resolve(ctx context.Context, target string) resolve.Result {
	ctx, span := s.tracer.Start(ctx, "resolve", trace.WithAttributes(
		attribute.String("target", target),
	))
	defer span.End()

	snap := s.Workspace(ctx, target)

	absTarget, err := filepath.Abs(target)
	if err != nil {
		absTarget = target
	}

	result := resolve.Resolve(resolve.Context{
		WorkspaceRoot:    snap.Root,
		FilePath:         absTarget,
		WorkspaceProfile: snap.Config.Profile,
		Mappings:         snap.Config.Mappings,
		Rules:            snap.Config.Rules,
	})

	span.SetAttributes(
		attribute.String("kind", string(result.Kind)),
		attribute.String("profile", result.Profile),
	)

	return result
}

// Apply resolves target and, when a profile applies and auto-switch is
// enabled, invokes the switcher. The outcome is nil when nothing was
// attempted.
func (s *Session) Apply(ctx context.Context, target string) (resolve.Result, *switcher.Outcome) {
	ctx, span := s.tracer.Start(ctx, "apply", trace.WithAttributes(
		attribute.String("target", target),
	))
	defer span.End()

	result := s.Resolve(ctx, target)
	if result.Kind == resolve.NoMatch {
		return result, nil
	}

	if !*s.cfg.AutoSwitch {
		log.WithContext(ctx).DebugContext(ctx, "auto-switch disabled, resolution only",
			slog.String("profile", result.Profile),
		)

		return result, nil
	}

	outcome := s.Switch(ctx, result.Profile)

	return result, &outcome
}

// Switch applies a profile by name, regardless of resolution state.
func (s *Session) Switch(ctx context.Context, profileName string) switcher.Outcome {
	return s.sw.Apply(ctx, profileName)
}

// ListProfiles enumerates switchable profile names from the host.
func (s *Session) ListProfiles(ctx context.Context) []string {
	return s.host.ListProfiles(ctx)
}

func (s *Session) fallbackRoot(target string) string {
	if s.root != "" {
		return s.root
	}

	absTarget, err := filepath.Abs(target)
	if err != nil {
		return target
	}

	info, err := os.Stat(absTarget)
	if err == nil && info.IsDir() {
		return absTarget
	}

	return filepath.Dir(absTarget)
}
