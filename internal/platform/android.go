package platform

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// AndroidBuilder drives Gradle. Incrementality within a build is Gradle's
// own; plhub only decides whether to invoke it at all.
type AndroidBuilder struct{}

func (AndroidBuilder) Platform() Platform { return Android }

func (AndroidBuilder) SourceFiles(projectDir string) ([]string, error) {
	return collectSources(filepath.Join(projectDir, "app", "src"),
		".java", ".kt", ".xml", ".gradle", ".gradle.kts", ".poh")
}

func gradleWrapper() string {
	if runtime.GOOS == "windows" {
		return "gradlew.bat"
	}
	return "./gradlew"
}

func (b AndroidBuilder) Execute(ctx context.Context, cfg BuildConfig, run Runner) *BuildResult {
	if missing := validateStructure(cfg.ProjectDir, []string{"build.gradle*", "gradlew*", "app"}); len(missing) > 0 {
		return failure("invalid Android project structure, missing: " + strings.Join(missing, ", "))
	}

	task := "assembleDebug"
	if cfg.Configuration == "release" {
		task = "assembleRelease"
	}

	args := []string{task, "--stacktrace"}
	if cfg.Parallel {
		args = append(args, "--parallel")
	}
	switch cfg.Optimization {
	case "aggressive":
		args = append(args, "--build-cache", "--configure-on-demand")
	case "standard":
		args = append(args, "--build-cache")
	}

	buildCtx, cancel := context.WithTimeout(ctx, BuildTimeout)
	defer cancel()

	res := run.Run(buildCtx, cfg.ProjectDir, gradleWrapper(), args...)

	result := &BuildResult{
		Success:  res.Ok(),
		Warnings: parseWarnings(res.Stdout),
	}

	if !res.Ok() {
		result.Errors = append(result.Errors, "Gradle build failed")
		appendOutput(result, res)
		return result
	}

	outputDir := filepath.Join(cfg.ProjectDir, "app", "build", "outputs")
	if cfg.Configuration == "release" {
		result.Artifacts = append(glob(outputDir, "*-release.apk"), glob(outputDir, "*-release.aab")...)
	} else {
		result.Artifacts = glob(outputDir, "*-debug.apk")
	}

	return result
}

func (b AndroidBuilder) Run(ctx context.Context, projectDir, device string, run Runner) error {
	devices, err := b.Devices(ctx, run)
	if err != nil || len(devices) == 0 {
		return fmt.Errorf("no Android devices connected; connect a device or start an emulator")
	}

	if device == "" {
		device = devices[0].ID
	}

	buildCtx, cancel := context.WithTimeout(ctx, BuildTimeout)
	defer cancel()

	if res := run.Run(buildCtx, projectDir, gradleWrapper(), "installDebug"); !res.Ok() {
		return fmt.Errorf("failed to install APK: %s", strings.TrimSpace(res.Stderr))
	}

	pkg := "com.pohlang.app"
	adbArgs := []string{"-s", device, "shell", "am", "start", "-n", pkg + "/" + pkg + ".MainActivity"}
	if res := run.Run(buildCtx, projectDir, "adb", adbArgs...); !res.Ok() {
		return fmt.Errorf("failed to launch activity on %s", device)
	}

	return nil
}

func (b AndroidBuilder) Test(ctx context.Context, projectDir string, run Runner) error {
	testCtx, cancel := context.WithTimeout(ctx, BuildTimeout)
	defer cancel()

	if res := run.Run(testCtx, projectDir, gradleWrapper(), "test"); !res.Ok() {
		return fmt.Errorf("unit tests failed: %s", strings.TrimSpace(res.Stderr))
	}

	// Instrumented tests need a device; skip quietly when none is attached.
	if devices, err := b.Devices(ctx, run); err == nil && len(devices) > 0 {
		if res := run.Run(testCtx, projectDir, gradleWrapper(), "connectedAndroidTest"); !res.Ok() {
			return fmt.Errorf("instrumented tests failed: %s", strings.TrimSpace(res.Stderr))
		}
	}

	return nil
}

func (b AndroidBuilder) Deploy(ctx context.Context, projectDir, target string, run Runner) error {
	buildCtx, cancel := context.WithTimeout(ctx, BuildTimeout)
	defer cancel()

	if res := run.Run(buildCtx, projectDir, gradleWrapper(), "bundleRelease"); !res.Ok() {
		return fmt.Errorf("bundleRelease failed: %s", strings.TrimSpace(res.Stderr))
	}

	return nil
}

func (b AndroidBuilder) Devices(ctx context.Context, run Runner) ([]Device, error) {
	probeCtx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()

	res := run.Run(probeCtx, "", "adb", "devices", "-l")
	if !res.Ok() {
		return nil, fmt.Errorf("adb not available")
	}

	var devices []Device
	lines := strings.Split(res.Stdout, "\n")
	for _, line := range lines[min(1, len(lines)):] {
		fields := strings.Fields(line)
		if len(fields) < 2 || fields[1] != "device" {
			continue
		}

		kind := "physical"
		if strings.HasPrefix(fields[0], "emulator") {
			kind = "emulator"
		}

		devices = append(devices, Device{ID: fields[0], Name: fields[0], Type: kind})
	}

	return devices, nil
}
