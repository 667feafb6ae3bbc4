package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/profhop/profhop/pkg/rule"
	"github.com/profhop/profhop/pkg/yaml"
)

//go:generate go run ../../internal/schemagen/workspace/main.go -o workspaceconfigurations.v1beta1.json

var (
	// WorkspaceConfigFileNames contains the valid names for workspace
	// configuration files.
	WorkspaceConfigFileNames = []string{
		".profhoprc.yaml",
		"profhoprc.yaml",
	}

	//go:embed workspaceconfigurations.v1beta1.json
	workspaceSchemaJSON []byte

	// WorkspaceValidator validates workspace configuration against the JSON schema.
	WorkspaceValidator = yaml.MustNewValidator("/workspaceconfigurations.v1beta1.json", workspaceSchemaJSON)

	// ValidWorkspaceKinds contains the valid kind values for workspace configurations.
	ValidWorkspaceKinds = []string{
		"WorkspaceConfiguration",
	}
)

// WorkspaceConfig represents workspace-level configuration. It is the
// persisted form of the resolution inputs: a pinned profile, directory
// mappings, and match rules.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type WorkspaceConfig struct {
	// Mappings maps workspace-relative directory prefixes to profile names.
	Mappings map[string]string `json:"mappings,omitempty" jsonschema:"title=Directory Mappings"`
	// Profile pins the whole workspace to one profile.
	Profile string `json:"profile,omitempty" jsonschema:"title=Workspace Profile"`
	// APIVersion specifies the API version for this configuration.
	APIVersion string `json:"apiVersion" jsonschema:"title=API Version"`
	// Kind defines the type of configuration.
	Kind string `json:"kind" jsonschema:"title=Kind"`
	// Rules are evaluated in order when no mapping matches.
	Rules []*rule.Rule `json:"rules,omitempty" jsonschema:"title=Match Rules"`
}

// NewWorkspaceConfig creates a new [WorkspaceConfig].
func NewWorkspaceConfig() *WorkspaceConfig {
	c := &WorkspaceConfig{
		APIVersion: "profhop.dev/v1beta1",
		Kind:       "WorkspaceConfiguration",
	}
	c.EnsureDefaults()

	return c
}

func (c *WorkspaceConfig) EnsureDefaults() {
	if c.Mappings == nil {
		c.Mappings = map[string]string{}
	}
}

// Validate compiles all rule match expressions.
func (c *WorkspaceConfig) Validate() error {
	for i, r := range c.Rules {
		err := r.CompileMatch()
		if err != nil {
			return fmt.Errorf("rules[%d]: %w", i, err)
		}
	}

	return nil
}

func (c WorkspaceConfig) JSONSchemaExtend(jss *jsonschema.Schema) {
	extendSchemaWithEnums(jss, ValidAPIVersions, ValidWorkspaceKinds)
}

// NewWorkspaceLoaderFromFile creates a [Loader] for a workspace config file.
func NewWorkspaceLoaderFromFile(path string, opts ...LoaderOpt) (*Loader[*WorkspaceConfig], error) {
	return NewLoaderFromFile(path, NewWorkspaceConfig, WorkspaceValidator, opts...)
}

// FindWorkspaceConfig searches for a workspace config file starting from
// targetPath and walking up the directory tree until the filesystem root.
// It checks for all [WorkspaceConfigFileNames] in each directory.
// Returns the path to the config file if found, or empty string if not found.
func FindWorkspaceConfig(targetPath string) (string, error) {
	// Get absolute path.
	absPath, err := filepath.Abs(targetPath)
	if err != nil {
		return "", fmt.Errorf("get absolute path: %w", err)
	}

	// If targetPath is a file, start from its directory.
	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("stat path: %w", err)
	}

	var searchDir string
	if info.IsDir() {
		searchDir = absPath
	} else {
		searchDir = filepath.Dir(absPath)
	}

	// Walk up the directory tree looking for workspace config files.
	for {
		for _, fileName := range WorkspaceConfigFileNames {
			configPath := filepath.Join(searchDir, fileName)

			_, statErr := os.Stat(configPath)
			if statErr == nil {
				return configPath, nil
			}
		}

		// Move to parent directory.
		parent := filepath.Dir(searchDir)
		if parent == searchDir {
			// Reached the root, no config found.
			break
		}

		searchDir = parent
	}

	return "", nil
}
