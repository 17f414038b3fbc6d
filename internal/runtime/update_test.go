package runtime

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeSDKZip builds an in-memory SDK zip holding one binary per OS key.
func makeSDKZip(t *testing.T, version string, contents map[string][]byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	for osKey, binary := range contents {
		name := "pohlang"
		if osKey == "windows" {
			name = "pohlang.exe"
		}

		f, err := w.Create(fmt.Sprintf("pohlang-sdk-%s/bin/%s/%s", version, osKey, name))
		require.NoError(t, err)
		_, err = f.Write(binary)
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())

	return buf.Bytes()
}

// releaseServer serves a canned release document and its zip asset.
func releaseServer(t *testing.T, tag string, zipName string, blob []byte) (*httptest.Server, *GitHubClient) {
	t.Helper()

	mux := http.NewServeMux()

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	release := Release{
		TagName: tag,
		Name:    "PohLang SDK",
		Assets: []ReleaseAsset{{
			Name:               zipName,
			BrowserDownloadURL: srv.URL + "/assets/" + zipName,
			Size:               int64(len(blob)),
		}},
	}

	mux.HandleFunc("/repos/AlhaqGH/PohLang/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(release)
	})
	mux.HandleFunc("/repos/AlhaqGH/PohLang/releases/tags/"+tag, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(release)
	})
	mux.HandleFunc("/assets/"+zipName, func(w http.ResponseWriter, r *http.Request) {
		w.Write(blob)
	})

	client := &GitHubClient{BaseURL: srv.URL, HTTPClient: srv.Client()}

	return srv, client
}

func TestUpdateInstallsFromLatestRelease(t *testing.T) {
	root := t.TempDir()
	binary := []byte("#!/bin/sh\necho pohlang 0.5.0\n")
	blob := makeSDKZip(t, "0.5.0", map[string][]byte{"linux": binary})

	_, client := releaseServer(t, "sdk-v0.5.0", "pohlang-sdk-0.5.0.zip", blob)

	err := Update(UpdateOptions{
		Version:   "latest",
		OSKey:     "linux",
		PlhubRoot: root,
		Client:    client,
	})
	require.NoError(t, err)

	installed, err := os.ReadFile(filepath.Join(root, "bin", "pohlang"))
	require.NoError(t, err)
	assert.Equal(t, binary, installed)

	info, err := os.Stat(filepath.Join(root, "bin", "pohlang"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	meta, ok := LoadMetadata(root)
	require.True(t, ok)
	assert.Equal(t, "0.5.0", meta.Version)
	assert.Equal(t, "sdk-v0.5.0", meta.SourceTag)
	assert.Equal(t, "release", meta.Source)
	assert.Equal(t, filepath.Join("bin", "pohlang"), meta.InstalledBinary)
}

func TestUpdateByExplicitVersion(t *testing.T) {
	root := t.TempDir()
	blob := makeSDKZip(t, "0.4.1", map[string][]byte{"linux": []byte("bin")})

	_, client := releaseServer(t, "sdk-v0.4.1", "pohlang-sdk-0.4.1.zip", blob)

	err := Update(UpdateOptions{
		Version:   "0.4.1",
		OSKey:     "linux",
		PlhubRoot: root,
		Client:    client,
	})
	require.NoError(t, err)

	meta, ok := LoadMetadata(root)
	require.True(t, ok)
	assert.Equal(t, "0.4.1", meta.Version)
}

func TestUpdateRejectsInvalidVersion(t *testing.T) {
	err := Update(UpdateOptions{
		Version:   "not-a-version",
		OSKey:     "linux",
		PlhubRoot: t.TempDir(),
		Client:    &GitHubClient{BaseURL: "http://127.0.0.1:0", HTTPClient: http.DefaultClient},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid version")
}

func TestUpdateSHA256Mismatch(t *testing.T) {
	root := t.TempDir()
	blob := makeSDKZip(t, "0.5.0", map[string][]byte{"linux": []byte("bin")})

	zipPath := filepath.Join(t.TempDir(), "pohlang-sdk-0.5.0.zip")
	require.NoError(t, os.WriteFile(zipPath, blob, 0o644))

	err := Update(UpdateOptions{
		ZipURL:    zipPath,
		SHA256:    "deadbeef",
		OSKey:     "linux",
		PlhubRoot: root,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHA256 mismatch")

	// Nothing was installed.
	_, statErr := os.Stat(filepath.Join(root, "bin", "pohlang"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestUpdateSHA256Match(t *testing.T) {
	root := t.TempDir()
	blob := makeSDKZip(t, "0.5.0", map[string][]byte{"linux": []byte("bin")})

	zipPath := filepath.Join(t.TempDir(), "pohlang-sdk-0.5.0.zip")
	require.NoError(t, os.WriteFile(zipPath, blob, 0o644))

	digest := sha256.Sum256(blob)

	err := Update(UpdateOptions{
		ZipURL:    zipPath,
		SHA256:    hex.EncodeToString(digest[:]),
		OSKey:     "linux",
		PlhubRoot: root,
	})
	require.NoError(t, err)
}

func TestUpdateDryRunInstallsNothing(t *testing.T) {
	root := t.TempDir()
	blob := makeSDKZip(t, "0.5.0", map[string][]byte{"linux": []byte("bin")})

	zipPath := filepath.Join(t.TempDir(), "pohlang-sdk-0.5.0.zip")
	require.NoError(t, os.WriteFile(zipPath, blob, 0o644))

	err := Update(UpdateOptions{
		ZipURL:    zipPath,
		DryRun:    true,
		OSKey:     "linux",
		PlhubRoot: root,
	})
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(root, "bin", "pohlang"))
	assert.True(t, os.IsNotExist(statErr))

	_, ok := LoadMetadata(root)
	assert.False(t, ok)
}

func TestUpdateMissingBinaryInZip(t *testing.T) {
	blob := makeSDKZip(t, "0.5.0", map[string][]byte{"windows": []byte("bin")})

	zipPath := filepath.Join(t.TempDir(), "pohlang-sdk-0.5.0.zip")
	require.NoError(t, os.WriteFile(zipPath, blob, 0o644))

	err := Update(UpdateOptions{
		ZipURL:    zipPath,
		OSKey:     "linux",
		PlhubRoot: t.TempDir(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not find pohlang binary")
}

func TestVersionFromTag(t *testing.T) {
	tests := []struct {
		tag      string
		expected string
	}{
		{"sdk-v0.5.0", "0.5.0"},
		{"pohlang-v1.2.3", "1.2.3"},
		{"v2.0.0", "2.0.0"},
		{"weird-tag", "weird-tag"},
		{"v-not-semver", "v-not-semver"},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, versionFromTag(test.tag), "tag %q", test.tag)
	}
}

func TestVersionFromZipName(t *testing.T) {
	assert.Equal(t, "0.5.0", versionFromZipName("https://example.com/pohlang-sdk-0.5.0.zip"))
	assert.Equal(t, "", versionFromZipName("https://example.com/other.zip"))
}

func TestOSKeyValues(t *testing.T) {
	assert.Contains(t, []string{"linux", "windows", "macos"}, OSKey())
}

func TestMetadataRoundTrip(t *testing.T) {
	root := t.TempDir()

	meta := Metadata{
		Version:     "0.5.0",
		SourceTag:   "sdk-v0.5.0",
		InstalledAt: time.Now().UTC().Truncate(time.Second),
		Source:      "release",
	}
	require.NoError(t, SaveMetadata(root, meta))

	loaded, ok := LoadMetadata(root)
	require.True(t, ok)
	assert.Equal(t, meta.Version, loaded.Version)
	assert.Equal(t, meta.SourceTag, loaded.SourceTag)
	assert.Equal(t, meta.Source, loaded.Source)
}
