// Package style manages UI themes: built-in token sets plus per-project
// theme files under ui/styles. Themes are plain JSON design tokens; nothing
// here interprets them beyond reading and writing.
package style

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	// StylesDir is the project-relative directory holding theme files.
	StylesDir = "ui/styles"

	// activeManifest names the file recording the applied theme.
	activeManifest = "active_style.json"
)

// Theme is one named set of design tokens.
type Theme struct {
	Key         string                       `json:"key"`
	Name        string                       `json:"name"`
	Description string                       `json:"description,omitempty"`
	Tokens      map[string]map[string]string `json:"tokens"`
}

// Record pairs a theme with where it came from.
type Record struct {
	Theme
	Source string // "builtin" or "project"
	Path   string // file path for project themes, "" for builtins
}

// ActiveManifest records which theme a project has applied.
type ActiveManifest struct {
	ActiveTheme string `json:"activeTheme"`
	DisplayName string `json:"displayName"`
	ThemePath   string `json:"themePath"`
	AppliedAt   string `json:"appliedAt"`
}

var builtinThemes = []Theme{
	{
		Key:         "default_light",
		Name:        "Default Light",
		Description: "Bright neutral palette for everyday apps",
		Tokens: map[string]map[string]string{
			"colors": {
				"background": "#FFFFFF",
				"surface":    "#F5F5F5",
				"primary":    "#2563EB",
				"secondary":  "#7C3AED",
				"text":       "#111827",
				"muted":      "#6B7280",
			},
			"typography": {
				"fontFamily": "Inter, sans-serif",
				"baseSize":   "16px",
				"headingSize": "24px",
			},
			"spacing": {
				"small":  "4px",
				"medium": "8px",
				"large":  "16px",
			},
		},
	},
	{
		Key:         "default_dark",
		Name:        "Default Dark",
		Description: "Low-glare palette mirroring the light theme",
		Tokens: map[string]map[string]string{
			"colors": {
				"background": "#0F172A",
				"surface":    "#1E293B",
				"primary":    "#60A5FA",
				"secondary":  "#A78BFA",
				"text":       "#F1F5F9",
				"muted":      "#94A3B8",
			},
			"typography": {
				"fontFamily": "Inter, sans-serif",
				"baseSize":   "16px",
				"headingSize": "24px",
			},
			"spacing": {
				"small":  "4px",
				"medium": "8px",
				"large":  "16px",
			},
		},
	},
	{
		Key:         "ocean_blue",
		Name:        "Ocean Blue",
		Description: "Cool blue accents on a deep background",
		Tokens: map[string]map[string]string{
			"colors": {
				"background": "#082F49",
				"surface":    "#0C4A6E",
				"primary":    "#38BDF8",
				"secondary":  "#22D3EE",
				"text":       "#E0F2FE",
				"muted":      "#7DD3FC",
			},
			"typography": {
				"fontFamily": "Inter, sans-serif",
				"baseSize":   "16px",
				"headingSize": "24px",
			},
			"spacing": {
				"small":  "4px",
				"medium": "8px",
				"large":  "16px",
			},
		},
	},
	{
		Key:         "high_contrast",
		Name:        "High Contrast",
		Description: "Accessibility-first palette with maximal contrast",
		Tokens: map[string]map[string]string{
			"colors": {
				"background": "#000000",
				"surface":    "#000000",
				"primary":    "#FFFF00",
				"secondary":  "#00FFFF",
				"text":       "#FFFFFF",
				"muted":      "#C0C0C0",
			},
			"typography": {
				"fontFamily": "Inter, sans-serif",
				"baseSize":   "18px",
				"headingSize": "28px",
			},
			"spacing": {
				"small":  "6px",
				"medium": "12px",
				"large":  "20px",
			},
		},
	},
}

// Manager resolves and applies themes for one project. A nil project root
// limits it to built-in themes.
type Manager struct {
	projectRoot string
}

// NewManager creates a manager. projectRoot may be empty when no project is
// detected.
func NewManager(projectRoot string) *Manager {
	return &Manager{projectRoot: projectRoot}
}

// Builtin returns the built-in themes in a stable order.
func (m *Manager) Builtin() []Record {
	out := make([]Record, 0, len(builtinThemes))
	for _, t := range builtinThemes {
		out = append(out, Record{Theme: t, Source: "builtin"})
	}

	return out
}

// Project returns themes found under the project's ui/styles directory,
// skipping the active-theme manifest and unreadable files.
func (m *Manager) Project() []Record {
	if m.projectRoot == "" {
		return nil
	}

	dir := filepath.Join(m.projectRoot, filepath.FromSlash(StylesDir))
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var out []Record
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") || name == activeManifest {
			continue
		}

		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var theme Theme
		if err := json.Unmarshal(data, &theme); err != nil {
			continue
		}

		if theme.Key == "" {
			theme.Key = strings.TrimSuffix(name, ".json")
		}
		if theme.Name == "" {
			theme.Name = theme.Key
		}

		out = append(out, Record{Theme: theme, Source: "project", Path: path})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })

	return out
}

// Resolve finds a theme by key, name, or filename. Project themes shadow
// builtins with the same key.
func (m *Manager) Resolve(identifier string) (Record, error) {
	want := strings.ToLower(strings.TrimSuffix(identifier, ".json"))

	for _, rec := range m.Project() {
		if strings.ToLower(rec.Key) == want || strings.ToLower(rec.Name) == want {
			return rec, nil
		}
	}

	for _, rec := range m.Builtin() {
		if strings.ToLower(rec.Key) == want || strings.ToLower(rec.Name) == want {
			return rec, nil
		}
	}

	return Record{}, fmt.Errorf("unknown style %q (try 'plhub style list')", identifier)
}

// Active returns the applied theme manifest, if any.
func (m *Manager) Active() (*ActiveManifest, error) {
	if m.projectRoot == "" {
		return nil, nil
	}

	path := filepath.Join(m.projectRoot, filepath.FromSlash(StylesDir), activeManifest)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var manifest ActiveManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse %s: %w", activeManifest, err)
	}

	return &manifest, nil
}

// Apply activates a theme for the project: writes the theme file under
// ui/styles (unless it exists and force is false) and records it in the
// active-theme manifest.
func (m *Manager) Apply(identifier string, force bool) (*ActiveManifest, error) {
	if m.projectRoot == "" {
		return nil, fmt.Errorf("style apply requires a project (plhub.json not found)")
	}

	rec, err := m.Resolve(identifier)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(m.projectRoot, filepath.FromSlash(StylesDir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	themeFile := rec.Key + ".json"
	themePath := filepath.Join(dir, themeFile)

	if rec.Source == "builtin" {
		if _, err := os.Stat(themePath); err == nil && !force {
			return nil, fmt.Errorf("theme file %s already exists (use --force to overwrite)", themeFile)
		}

		if err := writeJSON(themePath, rec.Theme); err != nil {
			return nil, err
		}
	}

	manifest := &ActiveManifest{
		ActiveTheme: rec.Key,
		DisplayName: rec.Name,
		ThemePath:   themeFile,
		AppliedAt:   time.Now().UTC().Format(time.RFC3339),
	}

	if err := writeJSON(filepath.Join(dir, activeManifest), manifest); err != nil {
		return nil, err
	}

	return manifest, nil
}

// Create clones a base theme into a new editable project theme. The default
// base is default_light.
func (m *Manager) Create(name, baseIdentifier, description string, force bool) (Record, error) {
	if m.projectRoot == "" {
		return Record{}, fmt.Errorf("style create requires a project (plhub.json not found)")
	}

	if baseIdentifier == "" {
		baseIdentifier = "default_light"
	}

	base, err := m.Resolve(baseIdentifier)
	if err != nil {
		return Record{}, err
	}

	key := Keyify(name)
	if key == "" {
		return Record{}, fmt.Errorf("style name %q produces an empty key", name)
	}

	theme := Theme{
		Key:         key,
		Name:        name,
		Description: description,
		Tokens:      cloneTokens(base.Tokens),
	}
	if theme.Description == "" {
		theme.Description = "Based on " + base.Name
	}

	dir := filepath.Join(m.projectRoot, filepath.FromSlash(StylesDir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Record{}, err
	}

	path := filepath.Join(dir, key+".json")
	if _, err := os.Stat(path); err == nil && !force {
		return Record{}, fmt.Errorf("theme %s already exists (use --force to overwrite)", key)
	}

	if err := writeJSON(path, theme); err != nil {
		return Record{}, err
	}

	return Record{Theme: theme, Source: "project", Path: path}, nil
}

// Keyify converts a display name into a filesystem-safe theme key.
func Keyify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('_')
		}
	}

	return strings.Trim(b.String(), "_")
}

func cloneTokens(tokens map[string]map[string]string) map[string]map[string]string {
	out := make(map[string]map[string]string, len(tokens))
	for group, vals := range tokens {
		inner := make(map[string]string, len(vals))
		for k, v := range vals {
			inner[k] = v
		}
		out[group] = inner
	}

	return out
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, append(data, '\n'), 0o644)
}
