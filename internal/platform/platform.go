// Package platform orchestrates native toolchain builds (gradle, xcodebuild,
// dotnet, npm) for the supported target platforms. It wraps each build with
// dependency validation and the build cache's skip/no-skip decision; it never
// implements incremental compilation itself.
package platform

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Platform identifies a supported build target.
type Platform string

const (
	Android Platform = "android"
	IOS     Platform = "ios"
	MacOS   Platform = "macos"
	Windows Platform = "windows"
	Web     Platform = "web"
)

// All lists every supported platform in display order.
var All = []Platform{Android, IOS, MacOS, Windows, Web}

// Parse converts a user-supplied platform name, accepting artifact-style
// aliases (apk, ipa, exe, app, dmg).
func Parse(name string) (Platform, error) {
	switch name {
	case "android", "apk":
		return Android, nil
	case "ios", "ipa":
		return IOS, nil
	case "macos", "app", "dmg":
		return MacOS, nil
	case "windows", "exe":
		return Windows, nil
	case "web":
		return Web, nil
	}

	return "", fmt.Errorf("unsupported platform: %s", name)
}

// Subprocess timeouts. Builds are given generous headroom; probes must fail
// fast so doctor and pre-build checks stay snappy.
const (
	BuildTimeout = 10 * time.Minute
	TestTimeout  = 30 * time.Second
	ProbeTimeout = 5 * time.Second
)

// BuildConfig describes one build invocation. It is immutable once created.
type BuildConfig struct {
	Platform      Platform
	Configuration string // "debug" or "release"
	ProjectDir    string
	EnableCache   bool
	Parallel      bool
	Optimization  string // "minimal", "standard", "aggressive"
	Incremental   bool
	Force         bool // skip the missing-dependency prompt
}

// DefaultBuildConfig returns a config with the standard knobs enabled.
func DefaultBuildConfig(p Platform, projectDir, configuration string) BuildConfig {
	return BuildConfig{
		Platform:      p,
		Configuration: configuration,
		ProjectDir:    projectDir,
		EnableCache:   true,
		Parallel:      true,
		Optimization:  "standard",
		Incremental:   true,
	}
}

// CacheKey derives the cache partition for this config. Only platform,
// configuration and optimization level participate; project files are cache
// entries, not part of the key.
func (c BuildConfig) CacheKey() string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s-%s-%s", c.Platform, c.Configuration, c.Optimization))
	return hex.EncodeToString(sum[:])
}

// BuildResult reports one build invocation. Never persisted; consumed by the
// CLI layer for exit code and summary.
type BuildResult struct {
	Success   bool
	Duration  time.Duration
	Cached    bool
	Errors    []string
	Warnings  []string
	Artifacts []string
}

// Summary renders a short human-readable outcome.
func (r *BuildResult) Summary() string {
	status := "FAILED"
	if r.Success {
		status = "SUCCESS"
	}

	cached := ""
	if r.Cached {
		cached = " (cached)"
	}

	return fmt.Sprintf("%s%s - %.2fs\n  Errors: %d\n  Warnings: %d\n  Artifacts: %d",
		status, cached, r.Duration.Seconds(), len(r.Errors), len(r.Warnings), len(r.Artifacts))
}

// Device is an attachable run target (emulator, simulator, browser, or the
// local machine).
type Device struct {
	ID   string
	Name string
	Type string
}
