package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/profhop/profhop/pkg/config"
	"github.com/profhop/profhop/pkg/yaml"
)

// Edit is a staged change to a workspace config file. Staging computes the
// new document without touching disk, so callers can diff Before against
// After before committing.
type Edit struct {
	// Path is the file the edit applies to.
	Path string
	// Before is the current document, nil when the file does not exist yet.
	Before []byte
	// After is the document with the change applied.
	After []byte
}

// Commit writes the staged document.
func (e *Edit) Commit() error {
	err := os.MkdirAll(filepath.Dir(e.Path), 0o700)
	if err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	err = os.WriteFile(e.Path, e.After, 0o600)
	if err != nil {
		return fmt.Errorf("write workspace config: %w", err)
	}

	return nil
}

// StageProfile stages pinning the workspace profile for target's workspace.
// When no config file exists, a new one is staged next to target.
func (s *Session) StageProfile(ctx context.Context, target, profileName string) (*Edit, error) {
	return s.stage(ctx, target, map[string]any{"profile": profileName})
}

// StageMapping stages a directory mapping for target's workspace. The key
// is stored as given; normalization happens at resolution time.
func (s *Session) StageMapping(ctx context.Context, target, dir, profileName string) (*Edit, error) {
	snap := s.Workspace(ctx, target)

	mappings := map[string]string{}
	for k, v := range snap.Config.Mappings {
		mappings[k] = v
	}

	mappings[dir] = profileName

	return s.stage(ctx, target, map[string]any{"mappings": mappings})
}

// stage merges values into the discovered workspace config, preserving its
// comments and structure, or stages a fresh document when none exists.
func (s *Session) stage(ctx context.Context, target string, values map[string]any) (*Edit, error) {
	snap := s.Workspace(ctx, target)

	if snap.Path == "" {
		wc := config.NewWorkspaceConfig()
		applyValues(wc, values)

		after, err := yaml.Marshal(wc)
		if err != nil {
			return nil, fmt.Errorf("marshal workspace config: %w", err)
		}

		return &Edit{
			Path:  filepath.Join(snap.Root, config.WorkspaceConfigFileNames[0]),
			After: after,
		}, nil
	}

	before, err := os.ReadFile(snap.Path)
	if err != nil {
		return nil, fmt.Errorf("read workspace config: %w", err)
	}

	after, err := yaml.MergeRootFromValue(before, values)
	if err != nil {
		return nil, fmt.Errorf("merge workspace config: %w", err)
	}

	return &Edit{Path: snap.Path, Before: before, After: after}, nil
}

func applyValues(wc *config.WorkspaceConfig, values map[string]any) {
	if v, ok := values["profile"].(string); ok {
		wc.Profile = v
	}

	if v, ok := values["mappings"].(map[string]string); ok {
		wc.Mappings = v
	}
}
