package platform

import (
	"context"
	"strings"
)

// DependencyInfo describes one external SDK or tool a platform build needs.
// Installed is populated by Validator.Check; everything else is static.
type DependencyInfo struct {
	Name         string
	Version      string
	Required     bool
	Installed    bool
	CheckCommand string
	InstallHint  string
}

// dependencyCatalog is the static per-platform tool catalog. Check commands
// are probed with ProbeTimeout; a nonzero exit, timeout or missing executable
// all read as "not installed".
var dependencyCatalog = map[Platform][]DependencyInfo{
	Android: {
		{Name: "Android SDK", Required: true, CheckCommand: "adb --version",
			InstallHint: "Install Android Studio from https://developer.android.com/studio"},
		{Name: "Gradle", Required: true, CheckCommand: "gradle --version",
			InstallHint: "Installed with Android Studio or from https://gradle.org"},
		{Name: "Java JDK", Version: "11+", Required: true, CheckCommand: "java -version",
			InstallHint: "Install from https://adoptium.net/"},
	},
	IOS: {
		{Name: "Xcode", Required: true, CheckCommand: "xcodebuild -version",
			InstallHint: "Install from Mac App Store (macOS only)"},
		{Name: "Xcode Command Line Tools", Required: true, CheckCommand: "xcode-select -p",
			InstallHint: "xcode-select --install"},
		{Name: "CocoaPods", Required: false, CheckCommand: "pod --version",
			InstallHint: "sudo gem install cocoapods"},
	},
	MacOS: {
		{Name: "Xcode", Required: true, CheckCommand: "xcodebuild -version",
			InstallHint: "Install from Mac App Store (macOS only)"},
	},
	Windows: {
		{Name: ".NET SDK", Version: "7.0+", Required: true, CheckCommand: "dotnet --version",
			InstallHint: "Install from https://dotnet.microsoft.com/download"},
		{Name: "Visual Studio", Required: false, CheckCommand: "where msbuild",
			InstallHint: "Install from https://visualstudio.microsoft.com/"},
	},
	Web: {
		{Name: "Node.js", Version: "16+", Required: true, CheckCommand: "node --version",
			InstallHint: "Install from https://nodejs.org/"},
		{Name: "npm", Required: true, CheckCommand: "npm --version",
			InstallHint: "Included with Node.js"},
	},
}

// Validator probes platform dependencies. It is a pure read-only check with
// no caching; every build re-runs it.
type Validator struct {
	runner Runner
}

// NewValidator creates a Validator using the given runner.
func NewValidator(runner Runner) *Validator {
	return &Validator{runner: runner}
}

// Check probes every dependency of p and reports whether all required ones
// are installed. Probe failures are never surfaced as errors; they mark the
// dependency as missing. Optional dependencies do not affect the aggregate.
func (v *Validator) Check(ctx context.Context, p Platform) (bool, []DependencyInfo) {
	catalog := dependencyCatalog[p]
	deps := make([]DependencyInfo, len(catalog))
	copy(deps, catalog)

	allSatisfied := true

	for i := range deps {
		if deps[i].CheckCommand == "" {
			continue
		}

		parts := strings.Fields(deps[i].CheckCommand)
		probeCtx, cancel := context.WithTimeout(ctx, ProbeTimeout)
		result := v.runner.Run(probeCtx, "", parts[0], parts[1:]...)
		cancel()

		deps[i].Installed = result.Ok()

		if deps[i].Required && !deps[i].Installed {
			allSatisfied = false
		}
	}

	return allSatisfied, deps
}
