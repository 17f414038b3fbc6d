package platform

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// xcodeProject finds the .xcodeproj bundle and returns its path and scheme.
func xcodeProject(projectDir string) (string, string, error) {
	matches, err := filepath.Glob(filepath.Join(projectDir, "*.xcodeproj"))
	if err != nil || len(matches) == 0 {
		return "", "", fmt.Errorf("no .xcodeproj found in %s", projectDir)
	}

	proj := matches[0]
	scheme := strings.TrimSuffix(filepath.Base(proj), ".xcodeproj")

	return proj, scheme, nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// xcodeBuilder holds behavior shared by the iOS and macOS builders.
type xcodeBuilder struct {
	platform Platform
	sdkArgs  []string // extra xcodebuild args ("-sdk iphoneos" for iOS)
}

func (b xcodeBuilder) Platform() Platform { return b.platform }

func (b xcodeBuilder) SourceFiles(projectDir string) ([]string, error) {
	return collectSources(projectDir, ".swift", ".m", ".h", ".storyboard", ".xib", ".plist", ".poh")
}

func (b xcodeBuilder) Execute(ctx context.Context, cfg BuildConfig, run Runner) *BuildResult {
	proj, scheme, err := xcodeProject(cfg.ProjectDir)
	if err != nil {
		return failure(err.Error())
	}

	args := []string{
		"-project", proj,
		"-scheme", scheme,
		"-configuration", titleCase(cfg.Configuration),
	}
	args = append(args, b.sdkArgs...)
	args = append(args, "build")

	buildCtx, cancel := context.WithTimeout(ctx, BuildTimeout)
	defer cancel()

	res := run.Run(buildCtx, cfg.ProjectDir, "xcodebuild", args...)

	result := &BuildResult{
		Success:  res.Ok(),
		Warnings: parseWarnings(res.Stdout),
	}

	if !res.Ok() {
		result.Errors = append(result.Errors, "xcodebuild failed")
		appendOutput(result, res)
		return result
	}

	result.Artifacts = glob(filepath.Join(cfg.ProjectDir, "build"), "*.app")

	return result
}

func (b xcodeBuilder) Run(ctx context.Context, projectDir, device string, run Runner) error {
	proj, scheme, err := xcodeProject(projectDir)
	if err != nil {
		return err
	}

	buildCtx, cancel := context.WithTimeout(ctx, BuildTimeout)
	defer cancel()

	if b.platform == IOS {
		destination := "platform=iOS Simulator"
		if device != "" {
			destination += ",name=" + device
		}

		res := run.Run(buildCtx, projectDir, "xcodebuild",
			"-project", proj, "-scheme", scheme, "-destination", destination, "run")
		if !res.Ok() {
			return fmt.Errorf("xcodebuild run failed: %s", strings.TrimSpace(res.Stderr))
		}

		return nil
	}

	// macOS: build then open the produced bundle.
	cfg := DefaultBuildConfig(b.platform, projectDir, "debug")
	result := b.Execute(ctx, cfg, run)
	if !result.Success {
		return fmt.Errorf("build failed before launch: %s", strings.Join(result.Errors, "; "))
	}

	apps := glob(filepath.Join(projectDir, "build", "Debug"), "*.app")
	if len(apps) == 0 {
		return fmt.Errorf("no .app bundle found under build/Debug")
	}

	if res := run.Run(buildCtx, projectDir, "open", apps[0]); !res.Ok() {
		return fmt.Errorf("failed to open %s", apps[0])
	}

	return nil
}

func (b xcodeBuilder) Test(ctx context.Context, projectDir string, run Runner) error {
	proj, scheme, err := xcodeProject(projectDir)
	if err != nil {
		return err
	}

	args := []string{"-project", proj, "-scheme", scheme}
	if b.platform == IOS {
		args = append(args, "-destination", "platform=iOS Simulator")
	}
	args = append(args, "test")

	testCtx, cancel := context.WithTimeout(ctx, BuildTimeout)
	defer cancel()

	if res := run.Run(testCtx, projectDir, "xcodebuild", args...); !res.Ok() {
		return fmt.Errorf("xcodebuild test failed: %s", strings.TrimSpace(res.Stderr))
	}

	return nil
}

func (b xcodeBuilder) Deploy(ctx context.Context, projectDir, target string, run Runner) error {
	proj, scheme, err := xcodeProject(projectDir)
	if err != nil {
		return err
	}

	buildCtx, cancel := context.WithTimeout(ctx, BuildTimeout)
	defer cancel()

	archive := filepath.Join(projectDir, "build", scheme+".xcarchive")
	res := run.Run(buildCtx, projectDir, "xcodebuild",
		"-project", proj, "-scheme", scheme,
		"-configuration", "Release", "-archivePath", archive, "archive")
	if !res.Ok() {
		return fmt.Errorf("xcodebuild archive failed: %s", strings.TrimSpace(res.Stderr))
	}

	return nil
}

func (b xcodeBuilder) Devices(ctx context.Context, run Runner) ([]Device, error) {
	if b.platform == MacOS {
		return []Device{{ID: "local", Name: "Local Mac", Type: "physical"}}, nil
	}

	probeCtx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()

	res := run.Run(probeCtx, "", "xcrun", "simctl", "list", "devices", "available")
	if !res.Ok() {
		return nil, fmt.Errorf("xcrun not available")
	}

	var devices []Device
	for _, line := range strings.Split(res.Stdout, "\n") {
		start := strings.Index(line, "(")
		end := strings.Index(line, ")")
		if start <= 0 || end <= start {
			continue
		}

		devices = append(devices, Device{
			ID:   line[start+1 : end],
			Name: strings.TrimSpace(line[:start]),
			Type: "simulator",
		})
	}

	return devices, nil
}

// NewIOSBuilder creates the iOS builder.
func NewIOSBuilder() Builder {
	return xcodeBuilder{platform: IOS, sdkArgs: []string{"-sdk", "iphoneos"}}
}

// NewMacOSBuilder creates the macOS builder.
func NewMacOSBuilder() Builder {
	return xcodeBuilder{platform: MacOS}
}
