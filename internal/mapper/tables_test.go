package mapper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTables_CoversDashboardTags(t *testing.T) {
	tables := DefaultTables()

	for tag, keywords := range tables.ClientTypes {
		assert.NotEmpty(t, keywords, "tag %q has no keywords", tag)
		assert.Equal(t, Fold(tag), tag, "tag %q must be stored folded", tag)
	}
}

func TestLoadTables_MergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	content := `
client_types:
  solar: ["heliotermia"]
  piscinas: ["piscina", "spa"]
location_aliases:
  costa: ["malaga", "alicante"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	tables, err := LoadTables(path)
	require.NoError(t, err)

	// Overridden entry replaces the default list.
	assert.Equal(t, []string{"heliotermia"}, tables.ClientTypes["solar"])
	// New entry is added.
	assert.Equal(t, []string{"piscina", "spa"}, tables.ClientTypes["piscinas"])
	// Untouched defaults survive.
	assert.NotEmpty(t, tables.ClientTypes["industrial"])
	assert.Equal(t, []string{"malaga", "alicante"}, tables.LocationAliases["costa"])
}

func TestLoadTables_MissingFile(t *testing.T) {
	_, err := LoadTables(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadTables_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("client_types: ["), 0o644))

	_, err := LoadTables(path)
	assert.Error(t, err)
}
