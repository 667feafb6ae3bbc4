package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/fsnotify/fsnotify"

	"github.com/profhop/profhop/pkg/config"
	"github.com/profhop/profhop/pkg/log"
)

// Watch re-invokes onChange whenever the workspace configuration for target
// changes: edits to a discovered config file, or a config file appearing or
// disappearing anywhere between target and the workspace root. It blocks
// until ctx is done.
func (s *Session) Watch(ctx context.Context, target string, onChange func(ctx context.Context)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close() //nolint:errcheck // Best-effort cleanup.

	logger := log.WithContext(ctx).With(slog.String("target", target))

	for _, dir := range s.watchDirs(ctx, target) {
		err = watcher.Add(dir)
		if err != nil {
			logger.DebugContext(ctx, "cannot watch directory",
				slog.String("dir", dir),
				slog.Any("error", err),
			)

			continue
		}

		logger.DebugContext(ctx, "watching directory", slog.String("dir", dir))
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !isConfigEvent(event) {
				continue
			}

			logger.InfoContext(ctx, "workspace config changed",
				slog.String("file", event.Name),
				slog.String("op", event.Op.String()),
			)

			onChange(ctx)

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			logger.WarnContext(ctx, "watch error", slog.Any("error", watchErr))
		}
	}
}

// watchDirs lists every directory from target up to and including the
// workspace root. Config files in any of them affect discovery.
func (s *Session) watchDirs(ctx context.Context, target string) []string {
	snap := s.Workspace(ctx, target)

	dir := s.fallbackRoot(target)

	var dirs []string

	for {
		dirs = append(dirs, dir)

		if dir == snap.Root {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}

		dir = parent
	}

	return dirs
}

func isConfigEvent(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Remove) &&
		!event.Op.Has(fsnotify.Rename) {
		return false
	}

	return slices.Contains(config.WorkspaceConfigFileNames, filepath.Base(event.Name))
}
