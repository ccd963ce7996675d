package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()

	c, err := New(filepath.Join(t.TempDir(), DefaultCacheDir))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	return c
}

func TestHashContent(t *testing.T) {
	hash1 := HashContent([]byte("content"))
	hash2 := HashContent([]byte("content"))
	hash3 := HashContent([]byte("different"))

	assert.NotEmpty(t, hash1)
	assert.Equal(t, hash1, hash2, "Hash should be consistent")
	assert.NotEqual(t, hash1, hash3, "Different content should produce different hash")
}

func TestHashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artifact.go")
	err := os.WriteFile(path, []byte("content"), 0o644)
	require.NoError(t, err)

	hash, err := HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, HashContent([]byte("content")), hash)

	_, err = HashFile(filepath.Join(t.TempDir(), "missing.go"))
	assert.Error(t, err)
}

func TestCache_GetStore(t *testing.T) {
	c := newTestCache(t)

	// Miss before store
	entry, err := c.Get("/build/doctests/autogen/doctest_build.go")
	require.NoError(t, err)
	assert.Nil(t, entry)

	content := []byte("package buildinfo\n")
	err = c.Store("/build/doctests/autogen/doctest_build.go", content, "doctests", "9.4.8")
	require.NoError(t, err)

	entry, err = c.Get("/build/doctests/autogen/doctest_build.go")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, HashContent(content), entry.Hash)
	assert.Equal(t, "doctests", entry.Suite)
	assert.Equal(t, "9.4.8", entry.Toolchain)
	assert.False(t, entry.Timestamp.IsZero())
}

func TestCache_Fresh(t *testing.T) {
	c := newTestCache(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "doctest_build.go")
	content := []byte("package buildinfo\n")

	// Nothing stored yet
	assert.False(t, c.Fresh(path, content))

	err := os.WriteFile(path, content, 0o644)
	require.NoError(t, err)
	err = c.Store(path, content, "doctests", "9.4.8")
	require.NoError(t, err)

	assert.True(t, c.Fresh(path, content))

	// Changed content invalidates
	assert.False(t, c.Fresh(path, []byte("package buildinfo // v2\n")))

	// File modified behind the cache's back invalidates
	err = os.WriteFile(path, []byte("tampered"), 0o644)
	require.NoError(t, err)
	assert.False(t, c.Fresh(path, content))

	// Missing file invalidates
	err = os.Remove(path)
	require.NoError(t, err)
	assert.False(t, c.Fresh(path, content))
}

func TestCache_Clear(t *testing.T) {
	c := newTestCache(t)

	err := c.Store("/a", []byte("a"), "doctests", "9.4.8")
	require.NoError(t, err)
	err = c.Store("/b", []byte("b"), "doctests", "9.4.8")
	require.NoError(t, err)

	count, err := c.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	err = c.Clear()
	require.NoError(t, err)

	count, err = c.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestNew_DefaultsAndReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", DefaultCacheDir)

	c, err := New(dir)
	require.NoError(t, err)

	err = c.Store("/a", []byte("a"), "doctests", "9.4.8")
	require.NoError(t, err)
	require.NoError(t, c.Close())

	// Entries survive reopen
	c, err = New(dir)
	require.NoError(t, err)
	defer c.Close()

	entry, err := c.Get("/a")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, HashContent([]byte("a")), entry.Hash)
}
