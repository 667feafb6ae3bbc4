package cli

import (
	"fmt"

	"github.com/aymanbagabas/go-udiff"
	"github.com/charmbracelet/huh"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/profhop/profhop/pkg/switcher"
	"github.com/profhop/profhop/pkg/workspace"
)

type SelectArgs struct {
	*RootArgs

	Folder  string
	Query   string
	Profile string
	Yes     bool
}

func NewSelectArgs(rootArgs *RootArgs) *SelectArgs {
	return &SelectArgs{
		RootArgs: rootArgs,
	}
}

func (sa *SelectArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&sa.Folder, "folder", "", "Map this workspace-relative folder instead of pinning the workspace")
	cmd.Flags().StringVarP(&sa.Query, "query", "q", "", "Fuzzy-filter the profile list")
	cmd.Flags().StringVarP(&sa.Profile, "profile", "p", "", "Use this profile instead of prompting")
	cmd.Flags().BoolVarP(&sa.Yes, "yes", "y", false, "Write the workspace config without showing a diff")
}

func NewSelectCmd(sa *SelectArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select [path]",
		Short: "Pick a profile, persist it for the workspace, and apply it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "."
			if len(args) > 0 {
				target = args[0]
			}

			session, err := newSession(sa.RootArgs)
			if err != nil {
				return err
			}

			return runSelect(cmd, session, sa, target)
		},
	}
	sa.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func runSelect(cmd *cobra.Command, session *workspace.Session, sa *SelectArgs, target string) error {
	ctx := cmd.Context()

	profileName := sa.Profile
	if profileName == "" {
		var err error

		profileName, err = pickProfile(session.ListProfiles(ctx), sa.Query)
		if err != nil {
			return err
		}
	}

	var (
		edit *workspace.Edit
		err  error
	)

	if sa.Folder != "" {
		edit, err = session.StageMapping(ctx, target, sa.Folder, profileName)
	} else {
		edit, err = session.StageProfile(ctx, target, profileName)
	}

	if err != nil {
		return fmt.Errorf("stage workspace config: %w", err)
	}

	if !sa.Yes {
		diff := udiff.Unified("a/"+edit.Path, "b/"+edit.Path, string(edit.Before), string(edit.After))
		if diff != "" {
			mustN(fmt.Fprintln(cmd.OutOrStdout(), diff))
		}
	}

	err = edit.Commit()
	if err != nil {
		return fmt.Errorf("write workspace config: %w", err)
	}

	outcome := session.Switch(ctx, profileName)
	if outcome.Status != switcher.Switched {
		mustN(fmt.Fprintf(cmd.OutOrStdout(),
			"saved %s, but could not switch to %s; retry with: %s apply %s\n",
			edit.Path, profileName, cmdName, target))

		return nil
	}

	mustN(fmt.Fprintf(cmd.OutOrStdout(), "saved %s and switched to %s\n", edit.Path, profileName))

	return nil
}

// pickProfile prompts for a profile, optionally narrowing the candidates
// with a fuzzy query first. A query with exactly one candidate skips the
// prompt.
func pickProfile(names []string, query string) (string, error) {
	if query != "" {
		matches := fuzzy.Find(query, names)

		filtered := make([]string, 0, len(matches))
		for _, m := range matches {
			filtered = append(filtered, names[m.Index])
		}

		if len(filtered) == 0 {
			return "", fmt.Errorf("no profile matches %q", query)
		}

		if len(filtered) == 1 {
			return filtered[0], nil
		}

		names = filtered
	}

	options := make([]huh.Option[string], 0, len(names))
	for _, name := range names {
		options = append(options, huh.NewOption(name, name))
	}

	var selected string

	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Profile").
			Options(options...).
			Value(&selected),
	))

	err := form.Run()
	if err != nil {
		return "", fmt.Errorf("select profile: %w", err)
	}

	return selected, nil
}
