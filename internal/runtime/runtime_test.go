package runtime

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	goruntime "runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBinary writes an executable shell script acting as the runtime.
func fakeBinary(t *testing.T, dir, script string) string {
	t.Helper()

	if goruntime.GOOS == "windows" {
		t.Skip("shell script stub requires a POSIX shell")
	}

	path := filepath.Join(dir, BinaryName())
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))

	return path
}

func TestLocatePrefersRuntimeBin(t *testing.T) {
	root := t.TempDir()

	runtimeBin := filepath.Join(root, "Runtime", "bin")
	legacyBin := filepath.Join(root, "bin")
	require.NoError(t, os.MkdirAll(runtimeBin, 0o755))
	require.NoError(t, os.MkdirAll(legacyBin, 0o755))

	preferred := filepath.Join(runtimeBin, BinaryName())
	require.NoError(t, os.WriteFile(preferred, []byte("x"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(legacyBin, BinaryName()), []byte("x"), 0o755))

	assert.Equal(t, preferred, Locate(root))
}

func TestLocateFallsBackToLegacyBin(t *testing.T) {
	root := t.TempDir()

	legacy := filepath.Join(root, "bin", BinaryName())
	require.NoError(t, os.MkdirAll(filepath.Dir(legacy), 0o755))
	require.NoError(t, os.WriteFile(legacy, []byte("x"), 0o755))

	assert.Equal(t, legacy, Locate(root))
}

func TestExecutorRunExitCode(t *testing.T) {
	bin := fakeBinary(t, t.TempDir(), `echo "running $2"; exit 3`)

	exe := NewExecutor(bin)
	var stdout bytes.Buffer
	exe.Stdout = &stdout

	code, err := exe.Run(context.Background(), "main.poh")
	require.NoError(t, err)
	assert.Equal(t, 3, code)
	assert.Contains(t, stdout.String(), "running main.poh")
}

func TestExecutorRunSuccess(t *testing.T) {
	bin := fakeBinary(t, t.TempDir(), `exit 0`)

	code, err := NewExecutor(bin).Run(context.Background(), "main.poh")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestExecutorMissingBinary(t *testing.T) {
	exe := NewExecutor(filepath.Join(t.TempDir(), "nope"))

	code, err := exe.Run(context.Background(), "main.poh")
	assert.Error(t, err)
	assert.Equal(t, -1, code)
}

func TestSyncLocalCopiesBinary(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "PLHub")
	repo := filepath.Join(parent, "PohLang")
	require.NoError(t, os.MkdirAll(root, 0o755))

	src := filepath.Join(repo, "runtime", "target", "debug", BinaryName())
	require.NoError(t, os.MkdirAll(filepath.Dir(src), 0o755))
	require.NoError(t, os.WriteFile(src, []byte("binary"), 0o755))

	cargo := "[package]\nname = \"pohlang\"\nversion = \"0.6.0\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(repo, "runtime", "Cargo.toml"), []byte(cargo), 0o644))

	// Default repo resolution: sibling PohLang/ directory.
	require.NoError(t, SyncLocal(root, "", "debug"))

	installed, err := os.ReadFile(filepath.Join(root, "Runtime", "bin", BinaryName()))
	require.NoError(t, err)
	assert.Equal(t, []byte("binary"), installed)

	meta, ok := LoadMetadata(root)
	require.True(t, ok)
	assert.Equal(t, "0.6.0", meta.Version)
	assert.Equal(t, "local_build", meta.Source)
	assert.Equal(t, "debug", meta.BuildProfile)
}

func TestSyncLocalMissingBuild(t *testing.T) {
	err := SyncLocal(t.TempDir(), filepath.Join(t.TempDir(), "PohLang"), "release")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cargo build")
}

func TestCargoVersionFallback(t *testing.T) {
	assert.Equal(t, "unknown", cargoVersion(t.TempDir()))
}
