package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/profhop/profhop/pkg/resolve"
	"github.com/profhop/profhop/pkg/switcher"
	"github.com/profhop/profhop/pkg/workspace"
)

const cmdExamples = `  # Resolve and apply the profile for the current directory:
  profhop apply

  # Resolve and apply the profile for a file:
  profhop apply ./services/api/main.go

  # Keep watching the workspace config and re-apply on changes:
  profhop apply --watch

  # Pick a profile interactively and pin it for the workspace:
  profhop select

  # Pick a profile for a subdirectory mapping instead:
  profhop select --folder ./services/api`

type ApplyArgs struct {
	*RootArgs

	Watch bool
}

func NewApplyArgs(rootArgs *RootArgs) *ApplyArgs {
	return &ApplyArgs{
		RootArgs: rootArgs,
	}
}

func (aa *ApplyArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&aa.Watch, "watch", "w", false, "Watch for workspace config changes and re-apply")
}

func NewApplyCmd(aa *ApplyArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply [path]",
		Short: "Resolve the profile for a path and switch the editor to it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) > 0 {
				target = args[0]
			}

			session, err := newSession(aa.RootArgs)
			if err != nil {
				return err
			}

			applyOnce(cmd, session, target)

			if aa.Watch {
				return session.Watch(cmd.Context(), target, func(_ context.Context) {
					applyOnce(cmd, session, target)
				})
			}

			return nil
		},
	}
	aa.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

// applyOnce resolves and applies, reporting the outcome. Switch failures
// are reported with a retry hint but are not command errors: the applier is
// best-effort by contract.
func applyOnce(cmd *cobra.Command, session *workspace.Session, target string) {
	result, outcome := session.Apply(cmd.Context(), target)

	switch {
	case result.Kind == resolve.NoMatch:
		mustN(fmt.Fprintf(cmd.OutOrStdout(), "no profile applies to %s\n", target))

	case outcome == nil:
		mustN(fmt.Fprintf(cmd.OutOrStdout(), "resolved %s (%s), auto-switch disabled\n",
			result.Profile, describeMatch(result)))

	case outcome.Status == switcher.Switched:
		mustN(fmt.Fprintf(cmd.OutOrStdout(), "switched to %s (%s)\n",
			result.Profile, describeMatch(result)))

	default:
		mustN(fmt.Fprintf(cmd.OutOrStdout(),
			"could not switch to %s: all %d strategies failed; retry with: %s apply %s\n",
			result.Profile, len(outcome.Attempts), cmdName, target))
	}
}

func describeMatch(result resolve.Result) string {
	switch result.Kind {
	case resolve.WorkspaceLevel:
		return "workspace profile"

	case resolve.DirectoryLevel:
		return fmt.Sprintf("mapping %q", result.MatchedPath)

	case resolve.RuleLevel:
		return fmt.Sprintf("rule %q", result.MatchedRule)

	case resolve.NoMatch:
	}

	return "no match"
}
