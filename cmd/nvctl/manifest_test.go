package main

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/nvkit/internal/format"
)

func TestLoadManifest_YAML(t *testing.T) {
	writeManifest(t, "board.yaml", testManifest)

	m, err := loadManifest(manifestPath)
	require.NoError(t, err)
	assert.Equal(t, 64, m.Size)
	require.Len(t, m.Items, 3)
	assert.Equal(t, ItemSpec{Name: "magic", Type: "u32", Default: "0x11223344"}, m.Items[0])
	assert.Equal(t, "255", m.Items[1].Default, "numeric defaults decode as text")
	assert.Equal(t, 8, m.Items[2].Capacity)
	assert.True(t, m.Finalize.StoreIfInvalid, "default")
	assert.True(t, m.Finalize.WipeUnusedAreas)
	assert.False(t, m.Finalize.StoreAlways)
}

func TestLoadManifest_JSONAndDefaults(t *testing.T) {
	writeManifest(t, "board.json", `{"items":[{"name":"x","type":"bool","default":"true"}]}`)

	m, err := loadManifest(manifestPath)
	require.NoError(t, err)
	assert.Equal(t, format.DefaultStoreSize, m.Size)
	require.Len(t, m.Items, 1)
}

func TestLoadManifest_EnvOverride(t *testing.T) {
	writeManifest(t, "board.yaml", testManifest)
	t.Setenv("NVCTL_SIZE", "128")

	m, err := loadManifest(manifestPath)
	require.NoError(t, err)
	assert.Equal(t, 128, m.Size)
}

func TestLoadManifest_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		is      error
	}{
		{"unknown type", "items:\n  - name: a\n    type: quaternion\n", format.ErrUnknownType},
		{"text without capacity", "items:\n  - name: a\n    type: text\n", format.ErrBadValue},
		{"duplicate", "items:\n  - name: a\n    type: u8\n  - name: a\n    type: u8\n", nil},
		{"missing name", "items:\n  - type: u8\n", nil},
		{"size too small", "size: 2\nitems: []\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writeManifest(t, "m.yaml", tt.content)
			_, err := loadManifest(manifestPath)
			require.Error(t, err)
			if tt.is != nil {
				assert.True(t, errors.Is(err, tt.is), "got %v", err)
			}
		})
	}
}

func TestLoadManifest_Missing(t *testing.T) {
	_, err := loadManifest(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
