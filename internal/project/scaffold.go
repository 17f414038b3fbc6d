package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Scaffold creates a new project directory from the named template. On any
// failure the partially created directory is removed.
func Scaffold(parentDir, name, templateName string) (string, error) {
	tmpl, ok := LookupTemplate(templateName)
	if !ok {
		log.Warn().Str("template", templateName).Msg("unknown template, using basic")
		tmpl = templates["basic"]
	}

	projectDir := filepath.Join(parentDir, name)
	if _, err := os.Stat(projectDir); err == nil {
		return "", fmt.Errorf("directory %q already exists", name)
	}

	if err := generate(projectDir, name, tmpl); err != nil {
		os.RemoveAll(projectDir)
		return "", err
	}

	return projectDir, nil
}

// Init writes a manifest and the standard directories into an existing
// directory. force allows overwriting an existing manifest.
func Init(dir, name string, force bool) error {
	manifestPath := filepath.Join(dir, ManifestFile)
	if _, err := os.Stat(manifestPath); err == nil && !force {
		return fmt.Errorf("%s already exists in %s (use --force to overwrite)", ManifestFile, dir)
	}

	for _, sub := range []string{"src", "tests", "examples"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return err
		}
	}

	if err := NewManifest(name).Save(dir); err != nil {
		return err
	}

	mainFile := filepath.Join(dir, "src", "main.poh")
	if _, err := os.Stat(mainFile); os.IsNotExist(err) {
		if err := os.WriteFile(mainFile, []byte(render(basicMain, name)), 0o644); err != nil {
			return err
		}
	}

	return nil
}

func generate(projectDir, name string, tmpl Template) error {
	for _, dir := range tmpl.Directories {
		if err := os.MkdirAll(filepath.Join(projectDir, dir), 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	for rel, content := range tmpl.Files {
		path := filepath.Join(projectDir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(render(content, name)), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", rel, err)
		}
	}

	return NewManifest(name).Save(projectDir)
}
