package platform

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// WindowsBuilder drives the dotnet CLI.
type WindowsBuilder struct{}

func (WindowsBuilder) Platform() Platform { return Windows }

func (WindowsBuilder) SourceFiles(projectDir string) ([]string, error) {
	return collectSources(projectDir, ".cs", ".xaml", ".csproj", ".poh")
}

func findCsproj(projectDir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(projectDir, "*.csproj"))
	if err != nil || len(matches) == 0 {
		return "", fmt.Errorf("no .csproj found in %s", projectDir)
	}

	return matches[0], nil
}

func (b WindowsBuilder) Execute(ctx context.Context, cfg BuildConfig, run Runner) *BuildResult {
	csproj, err := findCsproj(cfg.ProjectDir)
	if err != nil {
		return failure(err.Error())
	}

	buildCtx, cancel := context.WithTimeout(ctx, BuildTimeout)
	defer cancel()

	res := run.Run(buildCtx, cfg.ProjectDir, "dotnet",
		"build", csproj, "-c", titleCase(cfg.Configuration))

	result := &BuildResult{
		Success:  res.Ok(),
		Warnings: parseWarnings(res.Stdout),
	}

	if !res.Ok() {
		result.Errors = append(result.Errors, "dotnet build failed")
		appendOutput(result, res)
		return result
	}

	result.Artifacts = glob(filepath.Join(cfg.ProjectDir, "bin"), "*.exe")

	return result
}

func (b WindowsBuilder) Run(ctx context.Context, projectDir, device string, run Runner) error {
	csproj, err := findCsproj(projectDir)
	if err != nil {
		return err
	}

	buildCtx, cancel := context.WithTimeout(ctx, BuildTimeout)
	defer cancel()

	if res := run.Run(buildCtx, projectDir, "dotnet", "run", "--project", csproj); !res.Ok() {
		return fmt.Errorf("dotnet run failed: %s", strings.TrimSpace(res.Stderr))
	}

	return nil
}

func (b WindowsBuilder) Test(ctx context.Context, projectDir string, run Runner) error {
	testCtx, cancel := context.WithTimeout(ctx, BuildTimeout)
	defer cancel()

	if res := run.Run(testCtx, projectDir, "dotnet", "test"); !res.Ok() {
		return fmt.Errorf("dotnet test failed: %s", strings.TrimSpace(res.Stderr))
	}

	return nil
}

func (b WindowsBuilder) Deploy(ctx context.Context, projectDir, target string, run Runner) error {
	csproj, err := findCsproj(projectDir)
	if err != nil {
		return err
	}

	buildCtx, cancel := context.WithTimeout(ctx, BuildTimeout)
	defer cancel()

	res := run.Run(buildCtx, projectDir, "dotnet",
		"publish", csproj, "-c", "Release", "-r", "win-x64", "--self-contained")
	if !res.Ok() {
		return fmt.Errorf("dotnet publish failed: %s", strings.TrimSpace(res.Stderr))
	}

	return nil
}

func (WindowsBuilder) Devices(ctx context.Context, run Runner) ([]Device, error) {
	return []Device{{ID: "local", Name: "Local PC", Type: "physical"}}, nil
}
