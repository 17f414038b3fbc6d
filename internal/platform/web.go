package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// WebBuilder drives npm. Bundler-level incrementality belongs to the
// project's own tooling (webpack, vite, ...).
type WebBuilder struct{}

func (WebBuilder) Platform() Platform { return Web }

func (WebBuilder) SourceFiles(projectDir string) ([]string, error) {
	src := filepath.Join(projectDir, "src")
	if _, err := os.Stat(src); err != nil {
		return nil, nil
	}

	return collectSources(src, ".js", ".ts", ".jsx", ".tsx", ".css", ".scss", ".html", ".poh")
}

// packageScripts reads the scripts map from package.json.
func packageScripts(projectDir string) (map[string]string, error) {
	data, err := os.ReadFile(filepath.Join(projectDir, "package.json"))
	if err != nil {
		return nil, err
	}

	var pkg struct {
		Scripts map[string]string `json:"scripts"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("invalid package.json: %w", err)
	}

	return pkg.Scripts, nil
}

func (b WebBuilder) Execute(ctx context.Context, cfg BuildConfig, run Runner) *BuildResult {
	if missing := validateStructure(cfg.ProjectDir, []string{"package.json"}); len(missing) > 0 {
		return failure("invalid web project structure, missing: package.json")
	}

	buildCtx, cancel := context.WithTimeout(ctx, BuildTimeout)
	defer cancel()

	// Install dependencies when node_modules is absent.
	if _, err := os.Stat(filepath.Join(cfg.ProjectDir, "node_modules")); err != nil {
		res := run.Run(buildCtx, cfg.ProjectDir, "npm", "ci")
		if !res.Ok() {
			res = run.Run(buildCtx, cfg.ProjectDir, "npm", "install")
		}
		if !res.Ok() {
			result := failure("failed to install dependencies")
			appendOutput(result, res)
			return result
		}
	}

	scripts, err := packageScripts(cfg.ProjectDir)
	if err != nil {
		return failure(err.Error())
	}

	script := "build"
	if cfg.Configuration != "release" {
		if _, ok := scripts["build:dev"]; ok {
			script = "build:dev"
		}
	}
	if _, ok := scripts[script]; !ok {
		return failure("no build script found in package.json")
	}

	res := run.Run(buildCtx, cfg.ProjectDir, "npm", "run", script)

	result := &BuildResult{
		Success:  res.Ok(),
		Warnings: parseWarnings(res.Stdout),
	}

	if !res.Ok() {
		result.Errors = append(result.Errors, "npm build failed")
		appendOutput(result, res)
		return result
	}

	for _, dir := range []string{"dist", "build", "out", "public"} {
		candidate := filepath.Join(cfg.ProjectDir, dir)
		if entries, err := os.ReadDir(candidate); err == nil && len(entries) > 0 {
			result.Artifacts = []string{candidate}
			break
		}
	}

	return result
}

func (b WebBuilder) Run(ctx context.Context, projectDir, device string, run Runner) error {
	scripts, err := packageScripts(projectDir)
	if err != nil {
		return err
	}

	var devScript string
	for _, name := range []string{"dev", "start", "serve"} {
		if _, ok := scripts[name]; ok {
			devScript = name
			break
		}
	}
	if devScript == "" {
		return fmt.Errorf("no dev server script found in package.json (expected dev, start, or serve)")
	}

	// The dev server runs until interrupted; no timeout here.
	if res := run.Run(ctx, projectDir, "npm", "run", devScript); !res.Ok() && ctx.Err() == nil {
		return fmt.Errorf("dev server failed: %s", strings.TrimSpace(res.Stderr))
	}

	return nil
}

func (b WebBuilder) Test(ctx context.Context, projectDir string, run Runner) error {
	testCtx, cancel := context.WithTimeout(ctx, BuildTimeout)
	defer cancel()

	if res := run.Run(testCtx, projectDir, "npm", "run", "test"); !res.Ok() {
		return fmt.Errorf("npm test failed: %s", strings.TrimSpace(res.Stderr))
	}

	return nil
}

func (b WebBuilder) Deploy(ctx context.Context, projectDir, target string, run Runner) error {
	cfg := DefaultBuildConfig(Web, projectDir, "release")
	result := b.Execute(ctx, cfg, run)
	if !result.Success {
		return fmt.Errorf("release build failed: %s", strings.Join(result.Errors, "; "))
	}

	return nil
}

func (WebBuilder) Devices(ctx context.Context, run Runner) ([]Device, error) {
	names := []string{"Chrome", "Firefox"}
	switch runtime.GOOS {
	case "windows":
		names = []string{"Chrome", "Edge", "Firefox"}
	case "darwin":
		names = []string{"Safari", "Chrome", "Firefox"}
	}

	devices := make([]Device, 0, len(names))
	for _, n := range names {
		devices = append(devices, Device{ID: strings.ToLower(n), Name: n, Type: "browser"})
	}

	return devices, nil
}
