package profile_test

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/profhop/profhop/pkg/profile"
)

func TestParseRegistry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		want    []profile.Entry
		wantErr bool
	}{
		{
			name: "valid document",
			data: `{
				"userDataProfiles": [
					{"location": "-1337", "name": "Work"},
					{"location": "-2448", "name": "Docs"}
				],
				"telemetry": {"machineId": "ignored"}
			}`,
			want: []profile.Entry{
				{ID: "-1337", Name: "Work"},
				{ID: "-2448", Name: "Docs"},
			},
		},
		{
			name: "no profiles key",
			data: `{"windowState": {}}`,
			want: nil,
		},
		{
			name:    "malformed json",
			data:    `{"userDataProfiles": [`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := profile.ParseRegistry([]byte(tt.data))
			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Entries)
		})
	}
}

func TestRegistryLookupIdentifier(t *testing.T) {
	t.Parallel()

	reg := &profile.Registry{Entries: []profile.Entry{
		{ID: "-1", Name: "Work"},
		{ID: "-2", Name: "Docs"},
		{ID: "-3", Name: "Work"},
	}}

	tests := []struct {
		name     string
		registry *profile.Registry
		lookup   string
		wantID   string
		wantOK   bool
	}{
		{name: "known name", registry: reg, lookup: "Docs", wantID: "-2", wantOK: true},
		{name: "duplicate names resolve to the newest entry", registry: reg, lookup: "Work", wantID: "-3", wantOK: true},
		{name: "unknown name", registry: reg, lookup: "Nope"},
		{name: "nil registry", registry: nil, lookup: "Work"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			id, ok := tt.registry.LookupIdentifier(tt.lookup)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestRegistryNameFor(t *testing.T) {
	t.Parallel()

	reg := &profile.Registry{Entries: []profile.Entry{
		{ID: "-1", Name: "Work"},
	}}

	name, ok := reg.NameFor("-1")
	require.True(t, ok)
	assert.Equal(t, "Work", name)

	_, ok = reg.NameFor("-404")
	assert.False(t, ok)

	var nilReg *profile.Registry

	_, ok = nilReg.NameFor("-1")
	assert.False(t, ok)
}

type fakeDirEntry struct {
	name string
	dir  bool
}

func (e fakeDirEntry) Name() string               { return e.name }
func (e fakeDirEntry) IsDir() bool                { return e.dir }
func (e fakeDirEntry) Type() fs.FileMode          { return 0 }
func (e fakeDirEntry) Info() (fs.FileInfo, error) { return nil, fs.ErrNotExist }

var _ fs.DirEntry = fakeDirEntry{}

func TestList(t *testing.T) {
	t.Parallel()

	registry := &profile.Registry{Entries: []profile.Entry{
		{ID: "-1337", Name: "Work"},
	}}

	tests := []struct {
		name     string
		entries  []fs.DirEntry
		registry *profile.Registry
		want     []string
	}{
		{
			name: "filters files, hidden, and reserved entries",
			entries: []fs.DirEntry{
				fakeDirEntry{name: "-1337", dir: true},
				fakeDirEntry{name: "scratch", dir: true},
				fakeDirEntry{name: ".DS_Store"},
				fakeDirEntry{name: ".trash", dir: true},
				fakeDirEntry{name: "__backup", dir: true},
				fakeDirEntry{name: "notes.txt"},
			},
			registry: registry,
			want:     []string{"Default", "Work", "scratch"},
		},
		{
			name: "unregistered identifier keeps its directory name",
			entries: []fs.DirEntry{
				fakeDirEntry{name: "-9999", dir: true},
			},
			registry: registry,
			want:     []string{"-9999", "Default"},
		},
		{
			name:     "nil entries yield just the sentinel",
			entries:  nil,
			registry: registry,
			want:     []string{"Default"},
		},
		{
			name: "sentinel not duplicated",
			entries: []fs.DirEntry{
				fakeDirEntry{name: "Default", dir: true},
			},
			registry: nil,
			want:     []string{"Default"},
		},
		{
			name: "duplicate names collapse",
			entries: []fs.DirEntry{
				fakeDirEntry{name: "-1337", dir: true},
				fakeDirEntry{name: "Work", dir: true},
			},
			registry: registry,
			want:     []string{"Default", "Work"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := profile.List(tt.entries, tt.registry)
			assert.Equal(t, tt.want, got)
		})
	}
}
