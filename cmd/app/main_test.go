package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		require.NoError(t, loadEnv(filepath.Join(t.TempDir(), "absent.env")))
	})

	t.Run("loads values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bot.env")
		require.NoError(t, os.WriteFile(path, []byte("DEADX_TEST_PREFIX=pfx\n"), 0o600))
		t.Setenv("DEADX_TEST_PREFIX", "")
		require.NoError(t, os.Unsetenv("DEADX_TEST_PREFIX"))

		require.NoError(t, loadEnv(path))
		assert.Equal(t, "pfx", os.Getenv("DEADX_TEST_PREFIX"))
	})

	t.Run("disabled", func(t *testing.T) {
		assert.NoError(t, loadEnv(""))
	})
}

func TestRootCmd(t *testing.T) {
	cmd := newRootCmd()

	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["run"])
	assert.True(t, names["session"])

	session, _, err := cmd.Find([]string{"session", "validate"})
	require.NoError(t, err)
	assert.Equal(t, "validate", session.Name())
}
