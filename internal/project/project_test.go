package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaffoldBasic(t *testing.T) {
	parent := t.TempDir()

	dir, err := Scaffold(parent, "myapp", "basic")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(parent, "myapp"), dir)

	manifest, err := LoadManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, "myapp", manifest.Name)
	assert.Equal(t, "src/main.poh", manifest.Main)

	main, err := os.ReadFile(filepath.Join(dir, "src", "main.poh"))
	require.NoError(t, err)
	assert.Contains(t, string(main), "myapp")
	assert.NotContains(t, string(main), "{{APP_NAME}}")

	for _, sub := range []string{"src", "tests", "examples"} {
		info, err := os.Stat(filepath.Join(dir, sub))
		require.NoError(t, err, sub)
		assert.True(t, info.IsDir())
	}
}

func TestScaffoldUnknownTemplateFallsBack(t *testing.T) {
	dir, err := Scaffold(t.TempDir(), "myapp", "no-such-template")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "src", "main.poh"))
	assert.NoError(t, err)
}

func TestScaffoldExistingDirFails(t *testing.T) {
	parent := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(parent, "taken"), 0o755))

	_, err := Scaffold(parent, "taken", "basic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInit(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, Init(dir, "proj", false))

	manifest, err := LoadManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, "proj", manifest.Name)

	// Second init without force fails.
	err = Init(dir, "proj", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	// With force it succeeds.
	assert.NoError(t, Init(dir, "proj2", true))
}

func TestInitPreservesExistingMain(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o755))

	custom := []byte("Start Program\nWrite \"mine\"\nEnd Program\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "main.poh"), custom, 0o644))

	require.NoError(t, Init(dir, "proj", false))

	content, err := os.ReadFile(filepath.Join(dir, "src", "main.poh"))
	require.NoError(t, err)
	assert.Equal(t, custom, content)
}

func TestFindRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, NewManifest("p").Save(root))

	nested := filepath.Join(root, "src", "deep", "deeper")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	assert.Equal(t, root, FindRoot(nested))
	assert.Equal(t, root, FindRoot(root))
}

func TestFindRootNotFound(t *testing.T) {
	assert.Equal(t, "", FindRoot(t.TempDir()))
}

func TestManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()

	m := NewManifest("app")
	m.Dependencies["leftpad"] = "1.0.0"
	require.NoError(t, m.Save(dir))

	loaded, err := LoadManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, m.Name, loaded.Name)
	assert.Equal(t, "1.0.0", loaded.Dependencies["leftpad"])
	assert.Equal(t, "plhub run src/main.poh", loaded.Scripts["start"])
}

func TestLoadManifestNilDependencies(t *testing.T) {
	dir := t.TempDir()
	data := `{"name": "bare", "version": "1.0.0", "main": "src/main.poh"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestFile), []byte(data), 0o644))

	m, err := LoadManifest(dir)
	require.NoError(t, err)
	require.NotNil(t, m.Dependencies)

	m.Dependencies["x"] = "1" // must not panic
}

func TestLoadManifestInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestFile), []byte("{oops"), 0o644))

	_, err := LoadManifest(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid")
}

func TestTemplateNamesMatchCatalog(t *testing.T) {
	names := TemplateNames()
	assert.Len(t, names, len(templates))

	for _, name := range names {
		tmpl, ok := LookupTemplate(name)
		require.True(t, ok, name)
		assert.NotEmpty(t, tmpl.Description)
		assert.NotEmpty(t, tmpl.Files)

		for _, content := range tmpl.Files {
			rendered := render(content, "X")
			assert.False(t, strings.Contains(rendered, "{{APP_NAME}}"))
		}
	}
}
