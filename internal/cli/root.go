package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/profhop/profhop/pkg/config"
	"github.com/profhop/profhop/pkg/log"
	"github.com/profhop/profhop/pkg/workspace"
)

const (
	cmdName = "profhop"
	cmdDesc = `Workspace-aware editor profile switching.`
)

type RootArgs struct {
	LogLevel     string
	LogFormat    string
	ConfigPath   string
	OTLPEndpoint string

	shutdownTracing func()
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVar(&ra.LogLevel, "log-level", "info", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	cmd.PersistentFlags().
		StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.AllFormats))
	cmd.PersistentFlags().
		StringVar(&ra.ConfigPath, "config", "", "Path to the profhop configuration file")
	cmd.PersistentFlags().
		StringVar(&ra.OTLPEndpoint, "otlp-endpoint", "", "Export traces to an OTLP gRPC endpoint")

	var err error

	err = cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.AllLevels, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.MarkPersistentFlagFilename("config", "yaml", "yml")
	if err != nil {
		panic(err)
	}
}

func NewRootCmd() *cobra.Command {
	args := NewRootArgs()

	applyCmd := NewApplyCmd(NewApplyArgs(args))
	cmd := &cobra.Command{
		Use:               cmdName,
		Short:             cmdDesc,
		Example:           cmdExamples,
		PersistentPreRunE: setup(args),
		PersistentPostRun: teardown(args),
		Args:              applyCmd.Args,
		RunE:              applyCmd.RunE,
	}

	args.AddFlags(cmd)
	cmd.AddCommand(
		applyCmd,
		NewSelectCmd(NewSelectArgs(args)),
		NewListCmd(NewListArgs(args)),
		NewConfigCmd(NewConfigArgs(args)),
		NewServeMCPCmd(NewServeMCPArgs(args)),
	)

	bindEnvVars(cmd)

	return cmd
}

func setup(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		logHandler, err := log.CreateHandlerWithStrings(cmd.ErrOrStderr(), ra.LogLevel, ra.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		slog.SetDefault(slog.New(logHandler))

		if ra.OTLPEndpoint != "" {
			shutdown, err := setupTracing(cmd.Context(), ra.OTLPEndpoint)
			if err != nil {
				return fmt.Errorf("setup tracing: %w", err)
			}

			ra.shutdownTracing = shutdown
		}

		return nil
	}
}

func teardown(ra *RootArgs) func(cmd *cobra.Command, _ []string) {
	return func(_ *cobra.Command, _ []string) {
		if ra.shutdownTracing != nil {
			ra.shutdownTracing()
		}
	}
}

// loadConfig reads the global configuration, writing the embedded defaults
// on first run. A missing or unreadable config falls back to defaults; an
// invalid one is a hard error.
func loadConfig(ra *RootArgs) (*config.Config, string, error) {
	configPath := ra.ConfigPath
	if configPath == "" {
		configPath = config.GetPath()
	}

	err := config.WriteDefaultConfig(configPath, false)
	if err != nil {
		slog.Error("write default config", slog.Any("err", err))
	}

	cfg := config.New()

	loader, err := config.NewLoaderFromFile(configPath, config.New, config.DefaultValidator)
	if err != nil {
		slog.Warn("could not read config, using defaults", slog.Any("err", err))

		return cfg, configPath, nil
	}

	err = loader.Validate()
	if err != nil {
		return nil, configPath, fmt.Errorf("invalid config %q: %w", configPath, err)
	}

	cfg, err = loader.Load()
	if err != nil {
		return nil, configPath, fmt.Errorf("invalid config %q: %w", configPath, err)
	}

	return cfg, configPath, nil
}

// newSession builds a workspace session from the active configuration.
func newSession(ra *RootArgs) (*workspace.Session, error) {
	cfg, _, err := loadConfig(ra)
	if err != nil {
		return nil, err
	}

	session, err := workspace.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return session, nil
}
