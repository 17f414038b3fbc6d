package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPackageName(t *testing.T) {
	assert.Equal(t, "com.pohlang.myapp", DefaultPackageName("MyApp"))
	assert.Equal(t, "com.pohlang.my_app", DefaultPackageName("My-App"))
}

func TestScaffoldAndroid(t *testing.T) {
	out := t.TempDir()

	dir, err := Scaffold(Android, "My-App", out, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "My-App"), dir)

	// The tree must pass the same structure check the builder runs.
	assert.Empty(t, validateStructure(dir, []string{"build.gradle*", "gradlew*", "app"}))

	manifest, err := os.ReadFile(filepath.Join(dir, "app", "src", "main", "AndroidManifest.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(manifest), "com.pohlang.my_app")
	assert.Contains(t, string(manifest), `android:label="My-App"`)

	info, err := os.Stat(filepath.Join(dir, "gradlew"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0o100, "gradlew must be executable")

	sources, err := AndroidBuilder{}.SourceFiles(dir)
	require.NoError(t, err)
	assert.NotEmpty(t, sources)
}

func TestScaffoldAndroidCustomPackage(t *testing.T) {
	dir, err := Scaffold(Android, "app", t.TempDir(), "org.acme.demo")
	require.NoError(t, err)

	gradle, err := os.ReadFile(filepath.Join(dir, "app", "build.gradle"))
	require.NoError(t, err)
	assert.Contains(t, string(gradle), `applicationId "org.acme.demo"`)
}

func TestScaffoldXcodeProjects(t *testing.T) {
	for _, p := range []Platform{IOS, MacOS} {
		dir, err := Scaffold(p, "Demo", t.TempDir(), "")
		require.NoError(t, err)

		proj, scheme, err := xcodeProject(dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "Demo.xcodeproj"), proj)
		assert.Equal(t, "Demo", scheme)
	}
}

func TestScaffoldWindows(t *testing.T) {
	dir, err := Scaffold(Windows, "Demo", t.TempDir(), "")
	require.NoError(t, err)

	csproj, err := findCsproj(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Demo.csproj"), csproj)
}

func TestScaffoldWeb(t *testing.T) {
	dir, err := Scaffold(Web, "demo", t.TempDir(), "")
	require.NoError(t, err)

	scripts, err := packageScripts(dir)
	require.NoError(t, err)
	assert.Contains(t, scripts, "build")
	assert.Contains(t, scripts, "dev")
}

func TestScaffoldExistingDir(t *testing.T) {
	out := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(out, "taken"), 0o755))

	_, err := Scaffold(Web, "taken", out, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
