package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

type ListArgs struct {
	*RootArgs

	JSON bool
}

func NewListArgs(rootArgs *RootArgs) *ListArgs {
	return &ListArgs{
		RootArgs: rootArgs,
	}
}

func (la *ListArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&la.JSON, "json", false, "Output as JSON")
}

func NewListCmd(la *ListArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the profiles available for switching",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := newSession(la.RootArgs)
			if err != nil {
				return err
			}

			names := session.ListProfiles(cmd.Context())

			if la.JSON {
				data, err := json.Marshal(names)
				if err != nil {
					return fmt.Errorf("marshal profiles: %w", err)
				}

				mustN(fmt.Fprintln(cmd.OutOrStdout(), string(data)))

				return nil
			}

			for _, name := range names {
				mustN(fmt.Fprintln(cmd.OutOrStdout(), name))
			}

			return nil
		},
	}
	la.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}
