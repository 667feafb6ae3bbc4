package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/profhop/profhop/pkg/config"
)

func TestNewDefaults(t *testing.T) {
	t.Parallel()

	c := config.New()

	assert.Equal(t, "profhop.dev/v1beta1", c.APIVersion)
	assert.Equal(t, "Configuration", c.Kind)

	require.NotNil(t, c.Editor)
	assert.Equal(t, "code", c.Editor.Command)

	require.NotNil(t, c.AutoSwitch)
	assert.True(t, *c.AutoSwitch)

	require.NotNil(t, c.GraceDelay)
	assert.Equal(t, 500*time.Millisecond, *c.GraceDelay)
}

func TestLoaderLoad(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantErr bool
		check   func(t *testing.T, c *config.Config)
	}{
		{
			name: "full config",
			data: `
apiVersion: profhop.dev/v1beta1
kind: Configuration
editor:
  command: code-insiders
  args: [--profile, "{profile}"]
autoSwitch: false
graceDelay: 250ms
`,
			check: func(t *testing.T, c *config.Config) {
				t.Helper()
				assert.Equal(t, "code-insiders", c.Editor.Command)
				assert.False(t, *c.AutoSwitch)
				assert.Equal(t, 250*time.Millisecond, *c.GraceDelay)
			},
		},
		{
			name: "defaults fill omitted fields",
			data: `
apiVersion: profhop.dev/v1beta1
kind: Configuration
`,
			check: func(t *testing.T, c *config.Config) {
				t.Helper()
				assert.Equal(t, "code", c.Editor.Command)
				assert.True(t, *c.AutoSwitch)
				assert.Equal(t, 500*time.Millisecond, *c.GraceDelay)
			},
		},
		{
			name:    "malformed yaml",
			data:    "editor: [unclosed",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			loader := config.NewLoaderFromBytes([]byte(tt.data), config.New, config.DefaultValidator)

			cfg, err := loader.Load()
			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoaderValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{
			name: "valid document",
			data: `
apiVersion: profhop.dev/v1beta1
kind: Configuration
editor:
  command: code
`,
		},
		{
			name: "unknown kind",
			data: `
apiVersion: profhop.dev/v1beta1
kind: Sandwich
`,
			wantErr: true,
		},
		{
			name: "missing apiVersion",
			data: `
kind: Configuration
`,
			wantErr: true,
		},
		{
			name: "wrong type for autoSwitch",
			data: `
apiVersion: profhop.dev/v1beta1
kind: Configuration
autoSwitch: "sometimes"
`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			loader := config.NewLoaderFromBytes([]byte(tt.data), config.New, config.DefaultValidator)

			err := loader.Validate()
			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestNewLoaderFromFile(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()

	path := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"apiVersion: profhop.dev/v1beta1\nkind: Configuration\n",
	), 0o600))

	loader, err := config.NewLoaderFromFile(path, config.New, config.DefaultValidator)
	require.NoError(t, err)

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "Configuration", cfg.Kind)

	_, err = config.NewLoaderFromFile(filepath.Join(tmpDir, "missing.yaml"), config.New, config.DefaultValidator)
	require.Error(t, err)

	_, err = config.NewLoaderFromFile(tmpDir, config.New, config.DefaultValidator)
	require.Error(t, err)
}

func TestWriteDefaultConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "profhop", "config.yaml")

	require.NoError(t, config.WriteDefaultConfig(path, false))

	loader, err := config.NewLoaderFromFile(path, config.New, config.DefaultValidator)
	require.NoError(t, err)
	require.NoError(t, loader.Validate())

	// Schema is written alongside the config.
	_, err = os.Stat(filepath.Join(tmpDir, "profhop", "config.v1beta1.json"))
	require.NoError(t, err)

	// A second write without force leaves the file untouched.
	require.NoError(t, os.WriteFile(path, []byte("# edited\n"), 0o600))
	require.NoError(t, config.WriteDefaultConfig(path, false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# edited\n", string(data))

	// Force moves the edited file aside and restores the default.
	require.NoError(t, config.WriteDefaultConfig(path, true))

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, "# edited\n", string(data))

	backups, err := filepath.Glob(filepath.Join(tmpDir, "profhop", "config.yaml.*.old"))
	require.NoError(t, err)
	assert.Len(t, backups, 1)
}

func TestEditorCommand(t *testing.T) {
	t.Parallel()

	c := config.New()
	c.Editor.Args = []string{"--profile={profile}"}

	cmd := c.EditorCommand()
	assert.Equal(t, []string{"--profile={profile}"}, cmd.Args)
	require.NoError(t, c.Validate())
}
