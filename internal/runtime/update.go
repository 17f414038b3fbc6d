package runtime

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog/log"
)

// UpdateOptions controls an update-runtime invocation.
type UpdateOptions struct {
	Version   string // semver string or "latest"
	ZipURL    string // direct URL or local path override
	SHA256    string // expected digest of the SDK zip; mismatch aborts
	OSKey     string // "linux", "windows", "macos"; defaults to the host
	DryRun    bool   // download and locate only, do not install
	PlhubRoot string
	Client    *GitHubClient
}

// OSKey maps the host OS to the SDK's binary directory naming.
func OSKey() string {
	switch goruntime.GOOS {
	case "windows":
		return "windows"
	case "darwin":
		return "macos"
	default:
		return "linux"
	}
}

func sdkTag(version string) string {
	return "sdk-v" + version
}

// versionFromTag strips known tag prefixes and validates the remainder as
// semver. Unknown formats are returned unchanged.
func versionFromTag(tag string) string {
	for _, prefix := range []string{"sdk-v", "pohlang-v", "v"} {
		if strings.HasPrefix(tag, prefix) {
			candidate := strings.TrimPrefix(tag, prefix)
			if _, err := semver.NewVersion(candidate); err == nil {
				return candidate
			}
		}
	}

	return tag
}

// Update downloads the runtime SDK zip, verifies it, extracts the
// OS-specific binary and installs it under <root>/bin, recording provenance
// in Runtime/pohlang_metadata.json. Any network or integrity failure aborts
// immediately; there is no retry and no partial-install cleanup beyond never
// having written the binary.
func Update(opts UpdateOptions) error {
	osKey := opts.OSKey
	if osKey == "" {
		osKey = OSKey()
	}

	binaryName := "pohlang"
	if osKey == "windows" {
		binaryName = "pohlang.exe"
	}

	version := opts.Version
	if version == "" {
		version = "latest"
	}

	client := opts.Client
	if client == nil {
		client = NewGitHubClient()
	}

	zipURL := opts.ZipURL
	if zipURL == "" {
		resolved, resolvedVersion, err := resolveAsset(client, version)
		if err != nil {
			return err
		}
		zipURL = resolved
		version = resolvedVersion
	}

	blob, err := fetchZip(client, zipURL)
	if err != nil {
		return err
	}

	if version == "latest" {
		if v := versionFromZipName(zipURL); v != "" {
			version = v
		}
	}

	digest := sha256.Sum256(blob)
	actual := hex.EncodeToString(digest[:])
	log.Debug().Str("sha256", actual).Msg("SDK zip downloaded")

	if opts.SHA256 != "" {
		expected := strings.ToLower(strings.TrimSpace(opts.SHA256))
		if actual != expected {
			return fmt.Errorf("SHA256 mismatch: expected %s, got %s", expected, actual)
		}
	}

	binary, err := extractBinary(blob, osKey, binaryName)
	if err != nil {
		return err
	}

	if opts.DryRun {
		log.Info().Msg("dry run: downloaded and located binary, not installing")
		return nil
	}

	binDir := filepath.Join(opts.PlhubRoot, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("failed to create bin directory: %w", err)
	}

	dst := filepath.Join(binDir, binaryName)
	mode := os.FileMode(0o644)
	if osKey != "windows" {
		mode = 0o755
	}
	if err := os.WriteFile(dst, binary, mode); err != nil {
		return fmt.Errorf("failed to write runtime binary: %w", err)
	}

	meta := Metadata{
		Version:         version,
		SourceRepo:      "https://github.com/" + sourceRepo,
		SourceTag:       sdkTag(version),
		DownloadURL:     zipURL,
		SDKZipSHA256:    actual,
		InstalledBinary: filepath.Join("bin", binaryName),
		InstalledAt:     time.Now().UTC(),
		Source:          "release",
	}
	if err := SaveMetadata(opts.PlhubRoot, meta); err != nil {
		log.Warn().Err(err).Msg("failed to write runtime metadata")
	}

	log.Info().Str("version", version).Str("path", dst).Msg("runtime installed")

	return nil
}

// resolveAsset picks the SDK zip URL for the requested version from the
// GitHub releases API.
func resolveAsset(client *GitHubClient, version string) (url, resolved string, err error) {
	var release *Release

	if version == "latest" {
		release, err = client.LatestRelease()
	} else {
		if _, verr := semver.NewVersion(version); verr != nil {
			return "", "", fmt.Errorf("invalid version %q: %w", version, verr)
		}
		release, err = client.ReleaseByTag(sdkTag(version))
	}
	if err != nil {
		return "", "", err
	}

	if version == "latest" {
		version = versionFromTag(release.TagName)
	}

	want := fmt.Sprintf("pohlang-sdk-%s.zip", version)
	var fallback string
	for _, asset := range release.Assets {
		if asset.Name == want {
			return asset.BrowserDownloadURL, version, nil
		}
		if fallback == "" && strings.HasSuffix(asset.Name, ".zip") {
			fallback = asset.BrowserDownloadURL
		}
	}

	if fallback != "" {
		return fallback, version, nil
	}

	return "", "", fmt.Errorf("could not determine SDK zip URL from release assets of %s", release.TagName)
}

// fetchZip loads the SDK zip from an HTTP(S) URL or a local path.
func fetchZip(client *GitHubClient, zipURL string) ([]byte, error) {
	if strings.HasPrefix(zipURL, "http://") || strings.HasPrefix(zipURL, "https://") {
		return client.Download(zipURL)
	}

	blob, err := os.ReadFile(strings.TrimPrefix(zipURL, "file://"))
	if err != nil {
		return nil, fmt.Errorf("zip file not found at %s: %w", zipURL, err)
	}

	return blob, nil
}

// versionFromZipName infers the version from a pohlang-sdk-<ver>.zip name.
func versionFromZipName(zipURL string) string {
	name := filepath.Base(zipURL)
	if strings.HasPrefix(name, "pohlang-sdk-") && strings.HasSuffix(name, ".zip") {
		return strings.TrimSuffix(strings.TrimPrefix(name, "pohlang-sdk-"), ".zip")
	}

	return ""
}

// extractBinary pulls bin/<osKey>/<binaryName> out of the SDK zip.
func extractBinary(blob []byte, osKey, binaryName string) ([]byte, error) {
	reader, err := zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		return nil, fmt.Errorf("reading SDK zip: %w", err)
	}

	needle := "/bin/" + osKey + "/"
	for _, file := range reader.File {
		name := strings.ReplaceAll(file.Name, "\\", "/")
		if !strings.Contains(name, needle) || !strings.HasSuffix(name, binaryName) {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("extracting %s: %w", file.Name, err)
		}
		defer rc.Close()

		return io.ReadAll(rc)
	}

	return nil, fmt.Errorf("could not find %s binary for %s in SDK zip", binaryName, osKey)
}
