// Package project handles the plhub.json manifest and project scaffolding.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestFile is the project manifest name.
const ManifestFile = "plhub.json"

// Manifest is the persisted project descriptor.
type Manifest struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Description     string            `json:"description,omitempty"`
	Main            string            `json:"main"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"dev_dependencies,omitempty"`
	Scripts         map[string]string `json:"scripts,omitempty"`
}

// NewManifest returns a manifest with the standard defaults for name.
func NewManifest(name string) Manifest {
	return Manifest{
		Name:         name,
		Version:      "1.0.0",
		Description:  "PohLang project: " + name,
		Main:         "src/main.poh",
		Dependencies: map[string]string{},
		Scripts: map[string]string{
			"start": "plhub run src/main.poh",
			"build": "plhub build",
			"test":  "plhub test",
		},
	}
}

// LoadManifest reads plhub.json from dir.
func LoadManifest(dir string) (Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return Manifest{}, err
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("invalid %s: %w", ManifestFile, err)
	}

	if m.Dependencies == nil {
		m.Dependencies = map[string]string{}
	}

	return m, nil
}

// Save writes the manifest into dir.
func (m Manifest) Save(dir string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, ManifestFile), data, 0o644)
}

// FindRoot walks up from dir looking for a plhub.json. Returns "" when no
// project root exists.
func FindRoot(dir string) string {
	for {
		if _, err := os.Stat(filepath.Join(dir, ManifestFile)); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}

		dir = parent
	}

	return ""
}

// FindRootFromCwd is FindRoot anchored at the working directory.
func FindRootFromCwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	return FindRoot(cwd)
}
