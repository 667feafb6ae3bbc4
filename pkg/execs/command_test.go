package execs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/profhop/profhop/pkg/execs"
)

func TestNewCommand(t *testing.T) {
	t.Parallel()

	cmd := execs.NewCommand([]string{"PATH=/usr/bin", "HOME=/home/test"})
	assert.Empty(t, cmd.Env)
	assert.Empty(t, cmd.EnvFrom)
}

func TestCommandGetEnv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		setup    func(t *testing.T) execs.Command
		validate func(t *testing.T, result []string)
	}{
		{
			name: "essential vars survive, others are dropped",
			setup: func(t *testing.T) execs.Command {
				t.Helper()

				return execs.NewCommand([]string{
					"PATH=/usr/bin",
					"HOME=/home/test",
					"DISPLAY=:0",
					"NON_ESSENTIAL=value",
				})
			},
			validate: func(t *testing.T, result []string) {
				t.Helper()
				assert.Contains(t, result, "PATH=/usr/bin")
				assert.Contains(t, result, "HOME=/home/test")
				assert.Contains(t, result, "DISPLAY=:0")
				assert.NotContains(t, result, "NON_ESSENTIAL=value")
			},
		},
		{
			name: "static env var",
			setup: func(t *testing.T) execs.Command {
				t.Helper()
				cmd := execs.NewCommand([]string{})
				cmd.AddEnvVar(execs.EnvVar{Name: "STATIC", Value: "static_value"})

				return cmd
			},
			validate: func(t *testing.T, result []string) {
				t.Helper()
				assert.Contains(t, result, "STATIC=static_value")
			},
		},
		{
			name: "static var overrides inherited value",
			setup: func(t *testing.T) execs.Command {
				t.Helper()
				cmd := execs.NewCommand([]string{"HOME=/home/test"})
				cmd.AddEnvVar(execs.EnvVar{Name: "HOME", Value: "/home/other"})

				return cmd
			},
			validate: func(t *testing.T, result []string) {
				t.Helper()
				assert.Contains(t, result, "HOME=/home/other")
				assert.NotContains(t, result, "HOME=/home/test")
			},
		},
		{
			name: "caller reference copies an inherited value",
			setup: func(t *testing.T) execs.Command {
				t.Helper()
				cmd := execs.NewCommand([]string{"PATH=/usr/bin"})
				cmd.AddEnvVar(execs.EnvVar{
					Name: "COPIED_PATH",
					ValueFrom: &execs.EnvVarSource{
						CallerRef: &execs.CallerRef{Name: "PATH"},
					},
				})

				return cmd
			},
			validate: func(t *testing.T, result []string) {
				t.Helper()
				assert.Contains(t, result, "COPIED_PATH=/usr/bin")
				assert.Contains(t, result, "PATH=/usr/bin")
			},
		},
		{
			name: "missing caller reference is skipped",
			setup: func(t *testing.T) execs.Command {
				t.Helper()
				cmd := execs.NewCommand([]string{})
				cmd.AddEnvVar(execs.EnvVar{
					Name: "MISSING",
					ValueFrom: &execs.EnvVarSource{
						CallerRef: &execs.CallerRef{Name: "NONEXISTENT"},
					},
				})

				return cmd
			},
			validate: func(t *testing.T, result []string) {
				t.Helper()
				for _, envVar := range result {
					assert.NotContains(t, envVar, "MISSING=")
				}
			},
		},
		{
			name: "envFrom name reference inherits a non-essential var",
			setup: func(t *testing.T) execs.Command {
				t.Helper()
				cmd := execs.NewCommand([]string{"EDITOR_FLAGS=--wait", "PATH=/usr/bin"})
				cmd.AddEnvFrom([]execs.EnvFromSource{
					{CallerRef: &execs.CallerRef{Name: "EDITOR_FLAGS"}},
				})

				return cmd
			},
			validate: func(t *testing.T, result []string) {
				t.Helper()
				assert.Contains(t, result, "EDITOR_FLAGS=--wait")
			},
		},
		{
			name: "envFrom pattern reference",
			setup: func(t *testing.T) execs.Command {
				t.Helper()
				cmd := execs.NewCommand([]string{
					"VSCODE_IPC_HOOK=/tmp/hook",
					"VSCODE_CWD=/tmp",
					"OTHER=value",
				})

				ref := &execs.CallerRef{Pattern: "VSCODE_.*"}
				require.NoError(t, ref.Compile())

				cmd.AddEnvFrom([]execs.EnvFromSource{{CallerRef: ref}})

				return cmd
			},
			validate: func(t *testing.T, result []string) {
				t.Helper()
				assert.Contains(t, result, "VSCODE_IPC_HOOK=/tmp/hook")
				assert.Contains(t, result, "VSCODE_CWD=/tmp")
				assert.NotContains(t, result, "OTHER=value")
			},
		},
		{
			name: "empty names and nil refs are skipped",
			setup: func(t *testing.T) execs.Command {
				t.Helper()
				cmd := execs.NewCommand([]string{"PATH=/usr/bin"})
				cmd.AddEnvVar(execs.EnvVar{Name: "", Value: "ignored"})
				cmd.AddEnvFrom([]execs.EnvFromSource{{CallerRef: nil}})

				return cmd
			},
			validate: func(t *testing.T, result []string) {
				t.Helper()
				assert.NotContains(t, result, "=ignored")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd := tt.setup(t)
			tt.validate(t, cmd.GetEnv())
		})
	}
}

func TestCommandCompilePatterns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   func(t *testing.T) execs.Command
		errMsg  string
		wantErr bool
	}{
		{
			name: "no patterns",
			setup: func(t *testing.T) execs.Command {
				t.Helper()

				return execs.NewCommand([]string{})
			},
		},
		{
			name: "valid patterns",
			setup: func(t *testing.T) execs.Command {
				t.Helper()
				cmd := execs.NewCommand([]string{})
				cmd.AddEnvVar(execs.EnvVar{
					Name: "V",
					ValueFrom: &execs.EnvVarSource{
						CallerRef: &execs.CallerRef{Pattern: "VSCODE_.*"},
					},
				})
				cmd.AddEnvFrom([]execs.EnvFromSource{
					{CallerRef: &execs.CallerRef{Pattern: "XDG_.*"}},
				})

				return cmd
			},
		},
		{
			name: "invalid env pattern",
			setup: func(t *testing.T) execs.Command {
				t.Helper()
				cmd := execs.NewCommand([]string{})
				cmd.AddEnvVar(execs.EnvVar{
					Name: "V",
					ValueFrom: &execs.EnvVarSource{
						CallerRef: &execs.CallerRef{Pattern: "[invalid"},
					},
				})

				return cmd
			},
			wantErr: true,
			errMsg:  "env[0]",
		},
		{
			name: "invalid envFrom pattern",
			setup: func(t *testing.T) execs.Command {
				t.Helper()
				cmd := execs.NewCommand([]string{})
				cmd.AddEnvFrom([]execs.EnvFromSource{
					{CallerRef: &execs.CallerRef{Pattern: "[invalid"}},
				})

				return cmd
			},
			wantErr: true,
			errMsg:  "envFrom[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd := tt.setup(t)

			err := cmd.CompilePatterns()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestCommandString(t *testing.T) {
	t.Parallel()

	cmd := execs.NewCommand([]string{})
	cmd.Command = "code"
	cmd.Args = []string{"--profile", "Work"}

	assert.Equal(t, "code --profile Work", cmd.String())
}
