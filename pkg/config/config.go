package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/profhop/profhop/pkg/execs"
	"github.com/profhop/profhop/pkg/yaml"
)

//go:generate go run ../../internal/schemagen/config/main.go -o config.v1beta1.json

var (
	//go:embed config.yaml
	defaultConfigYAML []byte

	//go:embed config.v1beta1.json
	schemaJSON []byte

	ValidAPIVersions = []string{
		"profhop.dev/v1beta1",
	}
	ValidKinds = []string{
		"Configuration",
	}

	DefaultValidator = yaml.MustNewValidator("/config.v1beta1.json", schemaJSON)

	defaultGraceDelay = 500 * time.Millisecond
	defaultAutoSwitch = true
)

// Object is implemented by all configuration kinds.
type Object interface {
	EnsureDefaults()
}

// Config is the global profhop configuration.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	// Editor configures the host editor integration.
	Editor *EditorConfig `json:"editor,omitempty" jsonschema:"title=Editor"`
	// AutoSwitch enables automatic profile switching on resolution.
	AutoSwitch *bool `json:"autoSwitch,omitempty" jsonschema:"title=Auto Switch,default=true"`
	// GraceDelay is how long to wait after a successful switch invocation.
	GraceDelay *time.Duration `json:"graceDelay,omitempty" jsonschema:"title=Grace Delay,type=string,default=500ms"`
	// APIVersion specifies the API version for this configuration.
	APIVersion string `json:"apiVersion" jsonschema:"title=API Version"`
	// Kind defines the type of configuration.
	Kind string `json:"kind" jsonschema:"title=Kind"`
}

// EditorConfig describes the editor CLI and its storage locations.
type EditorConfig struct {
	// Command is the editor command line, shell-style quoting allowed.
	Command string `json:"command" jsonschema:"title=Command"`
	// Args are the switch arguments; "{profile}" marks the identifier.
	Args []string `json:"args,omitempty" jsonschema:"title=Arguments" yaml:"args,flow,omitempty"`
	// RegistryPath is the editor storage JSON holding the profile registry.
	RegistryPath string `json:"registryPath,omitempty" jsonschema:"title=Registry Path"`
	// ProfilesDir is the profile storage directory to enumerate.
	ProfilesDir string `json:"profilesDir,omitempty" jsonschema:"title=Profiles Directory"`
	// Env contains environment variable definitions for the editor process.
	Env []execs.EnvVar `json:"env,omitempty" jsonschema:"title=Environment Variables"`
	// EnvFrom contains sources for inheriting environment variables.
	EnvFrom []execs.EnvFromSource `json:"envFrom,omitempty" jsonschema:"title=Environment Variables From"`
}

func New() *Config {
	c := &Config{
		APIVersion: "profhop.dev/v1beta1",
		Kind:       "Configuration",
	}
	c.EnsureDefaults()

	return c
}

func (c *Config) EnsureDefaults() {
	if c.Editor == nil {
		c.Editor = &EditorConfig{Command: "code"}
	}

	if c.Editor.Command == "" {
		c.Editor.Command = "code"
	}

	if c.AutoSwitch == nil {
		c.AutoSwitch = &defaultAutoSwitch
	}

	if c.GraceDelay == nil {
		c.GraceDelay = &defaultGraceDelay
	}
}

// Validate runs Go-side checks that the schema cannot express.
func (c *Config) Validate() error {
	cmd := c.EditorCommand()

	err := cmd.CompilePatterns()
	if err != nil {
		return fmt.Errorf("editor: %w", err)
	}

	return nil
}

// EditorCommand assembles the [execs.Command] for the configured editor,
// seeded with the caller environment.
func (c *Config) EditorCommand() execs.Command {
	cmd := execs.NewCommand(os.Environ())
	if c.Editor != nil {
		cmd.Args = c.Editor.Args
		cmd.Env = append(cmd.Env, c.Editor.Env...)
		cmd.EnvFrom = append(cmd.EnvFrom, c.Editor.EnvFrom...)
	}

	return cmd
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	extendSchemaWithEnums(jss, ValidAPIVersions, ValidKinds)
}

func (c *Config) MarshalYAML() ([]byte, error) {
	b := &bytes.Buffer{}
	enc := yaml.NewEncoder(b)

	err := enc.Encode(*c)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}

	return b.Bytes(), nil
}

// extendSchemaWithEnums constrains apiVersion and kind to known values.
func extendSchemaWithEnums(jss *jsonschema.Schema, apiVersions, kinds []string) {
	apiVersion, ok := jss.Properties.Get("apiVersion")
	if !ok {
		panic("apiVersion property not found in schema")
	}

	for _, version := range apiVersions {
		apiVersion.OneOf = append(apiVersion.OneOf, &jsonschema.Schema{
			Type:  "string",
			Const: version,
			Title: "API Version",
		})
	}

	_, _ = jss.Properties.Set("apiVersion", apiVersion)

	kind, ok := jss.Properties.Get("kind")
	if !ok {
		panic("kind property not found in schema")
	}

	for _, kindValue := range kinds {
		kind.OneOf = append(kind.OneOf, &jsonschema.Schema{
			Type:  "string",
			Const: kindValue,
			Title: "Kind",
		})
	}

	_, _ = jss.Properties.Set("kind", kind)
}

// WriteDefaultConfig writes the embedded default config.yaml and jsonschema
// to the specified path.
func WriteDefaultConfig(path string, force bool) error {
	configExists := false
	pathInfo, err := os.Stat(path)
	if pathInfo != nil {
		switch {
		case err == nil && pathInfo.Mode().IsRegular():
			configExists = true
		case pathInfo.IsDir():
			return fmt.Errorf("%s: path is a directory", path)
		default:
			return fmt.Errorf("%s: unknown file state", path)
		}
	}

	err = os.MkdirAll(filepath.Dir(path), 0o700)
	if err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	if configExists && force {
		// Move the existing file to a backup.
		backupFile := fmt.Sprintf("%s.%d.old", filepath.Base(path), time.Now().UnixNano())
		backupPath := filepath.Join(filepath.Dir(path), backupFile)
		slog.Info("backing up existing config file",
			slog.String("path", backupPath),
		)

		err = os.Rename(path, backupPath)
		if err != nil {
			return fmt.Errorf("rename existing config file to backup: %w", err)
		}

		configExists = false
	}

	// Write the default config file.
	if !configExists {
		slog.Info("write default configuration",
			slog.String("path", path),
		)

		err = os.WriteFile(path, defaultConfigYAML, 0o600)
		if err != nil {
			return fmt.Errorf("write config file: %w", err)
		}
	} else {
		slog.Debug("configuration file already exists, skipping write",
			slog.String("path", path),
		)
	}

	// Write the JSON schema file alongside the config file.
	schemaPath := filepath.Join(filepath.Dir(path), "config.v1beta1.json")
	slog.Debug("write JSON schema",
		slog.String("path", schemaPath),
	)

	err = os.WriteFile(schemaPath, schemaJSON, 0o600)
	if err != nil {
		return fmt.Errorf("write schema file: %w", err)
	}

	return nil
}

func GetPath() string {
	if xdgHome, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok && xdgHome != "" {
		return filepath.Join(xdgHome, "profhop", "config.yaml")
	}

	usrHome, err := os.UserHomeDir()
	if err == nil && usrHome != "" {
		return filepath.Join(usrHome, ".config", "profhop", "config.yaml")
	}

	tmpConfig := filepath.Join(os.TempDir(), "profhop", "config.yaml")

	slog.Warn("could not determine user config directory, using temp path for config",
		slog.String("path", tmpConfig),
		slog.Any("error", fmt.Errorf("$XDG_CONFIG_HOME is unset, fall back to home directory: %w", err)),
	)

	return tmpConfig
}

func readConfig(path string) ([]byte, error) {
	pathInfo, err := os.Stat(path)
	if pathInfo != nil {
		if err == nil && pathInfo.IsDir() {
			return nil, fmt.Errorf("%s: path is a directory", path)
		}
		if err == nil && !pathInfo.Mode().IsRegular() {
			return nil, fmt.Errorf("%s: unknown file state", path)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}
