package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "pat.db"), ExpandPath("~/pat.db"))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, "/var/lib/patdb/pat.db", ExpandPath("/var/lib/patdb/pat.db"))

	t.Setenv("PATDB_TEST_DIR", "/tmp/patdb")
	assert.Equal(t, "/tmp/patdb/pat.db", ExpandPath("$PATDB_TEST_DIR/pat.db"))
}
