package pkg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesToString(t *testing.T) {
	assert.Equal(t, "liftlog", BytesToString([]byte("liftlog")))
	assert.Equal(t, "", BytesToString(nil))
}

func TestGenerateRandomString(t *testing.T) {
	s1, err := GenerateRandomString(35)
	require.NoError(t, err)
	s2, err := GenerateRandomString(35)
	require.NoError(t, err)

	assert.NotEmpty(t, s1)
	assert.NotEqual(t, s1, s2)
}

func TestPathExists(t *testing.T) {
	dir := t.TempDir()

	exists, err := PathExists(dir, true)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = PathExists(filepath.Join(dir, "nope"), true)
	require.NoError(t, err)
	assert.False(t, exists)

	file := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	exists, err = PathExists(file, false)
	require.NoError(t, err)
	assert.True(t, exists)

	// a file is not a dir
	exists, err = PathExists(file, true)
	require.NoError(t, err)
	assert.False(t, exists)
}
