package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/profhop/profhop/pkg/mcp"
)

type ServeMCPArgs struct {
	*RootArgs

	Address string
}

func NewServeMCPArgs(rootArgs *RootArgs) *ServeMCPArgs {
	return &ServeMCPArgs{
		RootArgs: rootArgs,
	}
}

func (sa *ServeMCPArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&sa.Address, "address", "", "Serve MCP over HTTP at this address instead of stdio")
}

func NewServeMCPCmd(sa *ServeMCPArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve-mcp",
		Short: "Serve profile resolution and switching over MCP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := newSession(sa.RootArgs)
			if err != nil {
				return err
			}

			server := mcp.NewServer(sa.Address, session)

			err = server.Serve(cmd.Context())
			if err != nil {
				return fmt.Errorf("serve MCP: %w", err)
			}

			return nil
		},
	}
	sa.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}
