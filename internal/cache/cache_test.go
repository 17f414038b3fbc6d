package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

// bumpMtime moves the file's mtime forward past any filesystem timestamp
// granularity, so the hash memo cannot serve a stale digest.
func bumpMtime(t *testing.T, path string) {
	t.Helper()

	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))
}

func TestHasChangedUnchangedFile(t *testing.T) {
	dir := t.TempDir()
	c, err := New(filepath.Join(dir, ".build_cache"))
	require.NoError(t, err)

	file := writeFile(t, dir, "main.poh", "Write \"hello\"\n")

	// Unknown paths count as changed.
	assert.True(t, c.HasChanged(file, "key"))

	require.NoError(t, c.Update(file, "key"))
	assert.False(t, c.HasChanged(file, "key"))
}

func TestHasChangedOneByteFlip(t *testing.T) {
	dir := t.TempDir()
	c, err := New(filepath.Join(dir, ".build_cache"))
	require.NoError(t, err)

	file := writeFile(t, dir, "main.poh", "Write \"hello\"\n")
	require.NoError(t, c.Update(file, "key"))
	require.False(t, c.HasChanged(file, "key"))

	writeFile(t, dir, "main.poh", "Write \"hellO\"\n")
	bumpMtime(t, file)
	assert.True(t, c.HasChanged(file, "key"))
}

func TestHasChangedUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	c, err := New(filepath.Join(dir, ".build_cache"))
	require.NoError(t, err)

	missing := filepath.Join(dir, "gone.poh")

	// Unreadable files always count as changed, even twice in a row.
	assert.True(t, c.HasChanged(missing, "key"))
	require.NoError(t, c.Update(missing, "key"))
	assert.True(t, c.HasChanged(missing, "key"))
}

func TestChangedFilesEmptyInput(t *testing.T) {
	dir := t.TempDir()
	c, err := New(filepath.Join(dir, ".build_cache"))
	require.NoError(t, err)

	assert.Empty(t, c.ChangedFiles(nil, "key"))
	assert.Empty(t, c.ChangedFiles([]string{}, "key"))
}

func TestChangedFilesFiltersToChanged(t *testing.T) {
	dir := t.TempDir()
	c, err := New(filepath.Join(dir, ".build_cache"))
	require.NoError(t, err)

	a := writeFile(t, dir, "a.poh", "a")
	b := writeFile(t, dir, "b.poh", "b")

	require.NoError(t, c.Update(a, "key"))
	require.NoError(t, c.Update(b, "key"))
	assert.Empty(t, c.ChangedFiles([]string{a, b}, "key"))

	writeFile(t, dir, "b.poh", "b2")
	bumpMtime(t, b)
	assert.Equal(t, []string{b}, c.ChangedFiles([]string{a, b}, "key"))
}

func TestClearForcesRebuild(t *testing.T) {
	dir := t.TempDir()
	c, err := New(filepath.Join(dir, ".build_cache"))
	require.NoError(t, err)

	file := writeFile(t, dir, "main.poh", "x")
	require.NoError(t, c.Update(file, "key"))
	require.False(t, c.HasChanged(file, "key"))

	require.NoError(t, c.Clear("key"))
	assert.True(t, c.HasChanged(file, "key"))
}

func TestClearAllDropsEveryKey(t *testing.T) {
	dir := t.TempDir()
	c, err := New(filepath.Join(dir, ".build_cache"))
	require.NoError(t, err)

	file := writeFile(t, dir, "main.poh", "x")
	require.NoError(t, c.Update(file, "k1"))
	require.NoError(t, c.Update(file, "k2"))

	require.NoError(t, c.Clear(""))
	assert.Empty(t, c.Keys())
}

func TestKeysAreIndependent(t *testing.T) {
	dir := t.TempDir()
	c, err := New(filepath.Join(dir, ".build_cache"))
	require.NoError(t, err)

	file := writeFile(t, dir, "main.poh", "x")
	require.NoError(t, c.Update(file, "android-debug-basic"))

	assert.False(t, c.HasChanged(file, "android-debug-basic"))
	assert.True(t, c.HasChanged(file, "android-release-full"))
}

func TestMetadataSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, ".build_cache")

	c, err := New(cacheDir)
	require.NoError(t, err)

	file := writeFile(t, dir, "main.poh", "x")
	require.NoError(t, c.Update(file, "key"))

	reopened, err := New(cacheDir)
	require.NoError(t, err)
	assert.False(t, reopened.HasChanged(file, "key"))
}

func TestCorruptMetadataYieldsEmptyCache(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, ".build_cache")
	require.NoError(t, os.MkdirAll(cacheDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cacheDir, metadataFile), []byte("{not json"), 0o644))

	c, err := New(cacheDir)
	require.NoError(t, err)
	assert.Empty(t, c.Keys())

	file := writeFile(t, dir, "main.poh", "x")
	assert.True(t, c.HasChanged(file, "key"))
}

func TestStats(t *testing.T) {
	dir := t.TempDir()
	c, err := New(filepath.Join(dir, ".build_cache"))
	require.NoError(t, err)

	a := writeFile(t, dir, "a.poh", "a")
	b := writeFile(t, dir, "b.poh", "b")
	require.NoError(t, c.Update(a, "k1"))
	require.NoError(t, c.Update(b, "k1"))
	require.NoError(t, c.Update(a, "k2"))

	keys, files := c.Stats()
	assert.Equal(t, 2, keys)
	assert.Equal(t, 3, files)
}

func TestHasherMemoInvalidatesOnContentChange(t *testing.T) {
	dir := t.TempDir()
	h, err := NewHasher()
	require.NoError(t, err)

	file := writeFile(t, dir, "f.poh", "one")
	first := h.Hash(file)
	require.NotEmpty(t, first)
	assert.Equal(t, first, h.Hash(file))

	writeFile(t, dir, "f.poh", "two!")
	second := h.Hash(file)
	require.NotEmpty(t, second)
	assert.NotEqual(t, first, second)
}

func TestHashOfDirectoryIsEmpty(t *testing.T) {
	h, err := NewHasher()
	require.NoError(t, err)

	assert.Equal(t, "", h.Hash(t.TempDir()))
}
