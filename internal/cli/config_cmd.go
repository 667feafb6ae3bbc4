package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/profhop/profhop/pkg/config"
)

type ConfigArgs struct {
	*RootArgs

	Write bool
	Force bool
}

func NewConfigArgs(rootArgs *RootArgs) *ConfigArgs {
	return &ConfigArgs{
		RootArgs: rootArgs,
	}
}

func (ca *ConfigArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&ca.Write, "write", false, "Write the default configuration files and exit")
	cmd.Flags().BoolVar(&ca.Force, "force", false, "Back up and replace an existing config when writing")
}

func NewConfigCmd(ca *ConfigArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the active configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath := ca.ConfigPath
			if configPath == "" {
				configPath = config.GetPath()
			}

			if ca.Write {
				return config.WriteDefaultConfig(configPath, ca.Force)
			}

			cfg, configPath, err := loadConfig(ca.RootArgs)
			if err != nil {
				return err
			}

			slog.Info("active configuration", slog.String("path", configPath))

			yamlBytes, err := cfg.MarshalYAML()
			if err != nil {
				return fmt.Errorf("marshal config yaml: %w", err)
			}

			yamlConfig := string(yamlBytes)

			// Highlight only when a human is looking.
			if term.IsTerminal(int(os.Stdout.Fd())) {
				err = quick.Highlight(cmd.OutOrStdout(), yamlConfig, "yaml", "terminal256", "catppuccin-mocha")
				if err == nil {
					return nil
				}

				slog.Debug("highlight config failed", slog.Any("error", err))
			}

			mustN(fmt.Fprint(cmd.OutOrStdout(), yamlConfig))

			return nil
		},
	}
	ca.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}
