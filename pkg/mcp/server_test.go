package mcp_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/profhop/profhop/pkg/config"
	"github.com/profhop/profhop/pkg/mcp"
	"github.com/profhop/profhop/pkg/workspace"
)

type fakeHost struct {
	identifiers map[string]string
	profiles    []string
	calls       []string
}

func (h *fakeHost) SwitchProfile(_ context.Context, identifier string) error {
	h.calls = append(h.calls, identifier)

	return nil
}

func (h *fakeHost) LookupIdentifier(name string) (string, bool) {
	id, ok := h.identifiers[name]

	return id, ok
}

func (h *fakeHost) ListProfiles(_ context.Context) []string {
	return h.profiles
}

func newTestSession(t *testing.T, host workspace.Host) (*workspace.Session, string) {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".profhoprc.yaml"), []byte(`
apiVersion: profhop.dev/v1beta1
kind: WorkspaceConfiguration
mappings:
  docs/: Docs
`), 0o600))

	docs := filepath.Join(root, "docs")
	require.NoError(t, os.MkdirAll(docs, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(docs, "guide.md"), nil, 0o600))

	cfg := config.New()
	zero := time.Duration(0)
	cfg.GraceDelay = &zero

	session, err := workspace.New(cfg, workspace.WithHost(host))
	require.NoError(t, err)

	return session, root
}

func TestServerIntegration(t *testing.T) {
	t.Parallel()

	host := &fakeHost{
		identifiers: map[string]string{"Docs": "-2448"},
		profiles:    []string{"Default", "Docs"},
	}
	session, root := newTestSession(t, host)

	clientTransport, serverTransport := sdk.NewInMemoryTransports()

	testServer := mcp.NewServer("", session)

	ctx := t.Context()

	serverSession, err := testServer.Server().Connect(ctx, serverTransport)
	require.NoError(t, err)

	client := sdk.NewClient(&sdk.Implementation{Name: "client"}, nil)
	clientSession, err := client.Connect(ctx, clientTransport)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, clientSession.Close())
		require.NoError(t, serverSession.Wait())
	})

	target := filepath.Join(root, "docs", "guide.md")

	tcs := map[string]struct {
		params *sdk.CallToolParams
		want   map[string]any
	}{
		"resolve_profile": {
			params: &sdk.CallToolParams{
				Name:      "resolve_profile",
				Arguments: map[string]any{"path": target},
			},
			want: map[string]any{
				"kind":        "directory",
				"profile":     "Docs",
				"matchedPath": "docs/",
			},
		},
		"resolve_profile_no_match": {
			params: &sdk.CallToolParams{
				Name:      "resolve_profile",
				Arguments: map[string]any{"path": root},
			},
			want: map[string]any{
				"kind": "none",
			},
		},
		"apply_profile_by_path": {
			params: &sdk.CallToolParams{
				Name:      "apply_profile",
				Arguments: map[string]any{"path": target},
			},
			want: map[string]any{
				"status":  "switched",
				"profile": "Docs",
				"kind":    "directory",
			},
		},
		"apply_profile_by_name": {
			params: &sdk.CallToolParams{
				Name:      "apply_profile",
				Arguments: map[string]any{"profile": "Docs"},
			},
			want: map[string]any{
				"status":  "switched",
				"profile": "Docs",
			},
		},
		"apply_profile_no_match": {
			params: &sdk.CallToolParams{
				Name:      "apply_profile",
				Arguments: map[string]any{"path": root},
			},
			want: map[string]any{
				"status": "none",
				"kind":   "none",
			},
		},
		"list_profiles": {
			params: &sdk.CallToolParams{
				Name:      "list_profiles",
				Arguments: map[string]any{},
			},
			want: map[string]any{
				"profiles": []any{"Default", "Docs"},
			},
		},
	}

	//nolint:paralleltest // Shares a clientSession.
	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			r, err := clientSession.CallTool(ctx, tc.params)
			require.NoError(t, err)
			require.NotNil(t, r)

			assert.Equal(t, tc.want, r.StructuredContent)
		})
	}
}

func TestServerApplyProfileRequiresInput(t *testing.T) {
	t.Parallel()

	session, _ := newTestSession(t, &fakeHost{})

	clientTransport, serverTransport := sdk.NewInMemoryTransports()

	testServer := mcp.NewServer("", session)

	ctx := t.Context()

	serverSession, err := testServer.Server().Connect(ctx, serverTransport)
	require.NoError(t, err)

	client := sdk.NewClient(&sdk.Implementation{Name: "client"}, nil)
	clientSession, err := client.Connect(ctx, clientTransport)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, clientSession.Close())
		require.NoError(t, serverSession.Wait())
	})

	r, err := clientSession.CallTool(ctx, &sdk.CallToolParams{
		Name:      "apply_profile",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	assert.True(t, r.IsError)
}
