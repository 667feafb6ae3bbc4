package log_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/profhop/profhop/pkg/log"
)

func TestGetLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		level   string
		want    slog.Level
		wantErr bool
	}{
		{name: "error", level: "error", want: slog.LevelError},
		{name: "warn", level: "warn", want: slog.LevelWarn},
		{name: "warning alias", level: "warning", want: slog.LevelWarn},
		{name: "info", level: "info", want: slog.LevelInfo},
		{name: "debug", level: "debug", want: slog.LevelDebug},
		{name: "mixed case", level: "DeBuG", want: slog.LevelDebug},
		{name: "unknown", level: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := log.GetLevel(tt.level)
			if tt.wantErr {
				require.ErrorIs(t, err, log.ErrUnknownLogLevel)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  string
		want    log.Format
		wantErr bool
	}{
		{name: "json", format: "json", want: log.FormatJSON},
		{name: "logfmt", format: "logfmt", want: log.FormatLogfmt},
		{name: "text", format: "text", want: log.FormatText},
		{name: "mixed case", format: "JSON", want: log.FormatJSON},
		{name: "unknown", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := log.GetFormat(tt.format)
			if tt.wantErr {
				require.ErrorIs(t, err, log.ErrUnknownLogFormat)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreateHandlerWithStrings(t *testing.T) {
	t.Parallel()

	t.Run("valid arguments", func(t *testing.T) {
		t.Parallel()

		buf := &bytes.Buffer{}

		handler, err := log.CreateHandlerWithStrings(buf, "info", "json")
		require.NoError(t, err)

		logger := slog.New(handler)
		logger.Info("hello")

		assert.Contains(t, buf.String(), `"msg":"hello"`)

		logger.Debug("hidden")
		assert.NotContains(t, buf.String(), "hidden")
	})

	t.Run("invalid level", func(t *testing.T) {
		t.Parallel()

		_, err := log.CreateHandlerWithStrings(&bytes.Buffer{}, "verbose", "json")
		require.ErrorIs(t, err, log.ErrInvalidArgument)
	})

	t.Run("invalid format", func(t *testing.T) {
		t.Parallel()

		_, err := log.CreateHandlerWithStrings(&bytes.Buffer{}, "info", "xml")
		require.ErrorIs(t, err, log.ErrInvalidArgument)
	})
}

func TestWithContext(t *testing.T) {
	t.Parallel()

	logger := log.WithContext(t.Context())
	require.NotNil(t, logger)
	assert.Equal(t, slog.Default(), logger)
}
