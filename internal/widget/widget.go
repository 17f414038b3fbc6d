// Package widget scaffolds reusable UI widget files from templates.
// Templates are PohLang snippets with {{WIDGET_NAME}} and {{WIDGET_FILE}}
// placeholders, written under the project's ui/widgets directory.
package widget

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// WidgetsDir is the project-relative directory for generated widgets.
const WidgetsDir = "ui/widgets"

// FileSpec describes one file a template generates.
type FileSpec struct {
	Path        string // project-relative, with {{WIDGET_FILE}} placeholders
	Description string
	Content     string
}

// Template is one scaffoldable widget.
type Template struct {
	Key         string
	Name        string
	Description string
	Category    string
	Tags        []string
	Files       []FileSpec
	Preview     string
}

const buttonContent = `# {{WIDGET_NAME}} button widget
Start Program

Make render_{{WIDGET_FILE}} with label
    Write "[ " plus label plus " ]"
End

Use render_{{WIDGET_FILE}} with "{{WIDGET_NAME}}"

End Program
`

const cardContent = `# {{WIDGET_NAME}} card widget
Start Program

Make render_{{WIDGET_FILE}} with title, body
    Write "+----------------------+"
    Write "| " plus title
    Write "| " plus body
    Write "+----------------------+"
End

Use render_{{WIDGET_FILE}} with "{{WIDGET_NAME}}", "Card body goes here."

End Program
`

const inputContent = `# {{WIDGET_NAME}} input widget
Start Program

Make prompt_{{WIDGET_FILE}} with label
    Write label plus ":"
    Ask for value
    Write "You entered " plus value
End

Use prompt_{{WIDGET_FILE}} with "{{WIDGET_NAME}}"

End Program
`

const listContent = `# {{WIDGET_NAME}} list widget
Start Program

Make render_{{WIDGET_FILE}}_item with item
    Write "  - " plus item
End

Write "{{WIDGET_NAME}}:"
Use render_{{WIDGET_FILE}}_item with "First item"
Use render_{{WIDGET_FILE}}_item with "Second item"
Use render_{{WIDGET_FILE}}_item with "Third item"

End Program
`

var templates = map[string]Template{
	"button": {
		Key:         "button",
		Name:        "Button",
		Description: "Clickable action button with a text label",
		Category:    "input",
		Tags:        []string{"interactive", "basic"},
		Files: []FileSpec{{
			Path:        WidgetsDir + "/{{WIDGET_FILE}}.poh",
			Description: "Button rendering routine",
			Content:     buttonContent,
		}},
		Preview: "[ OK ]",
	},
	"card": {
		Key:         "card",
		Name:        "Card",
		Description: "Bordered container with a title and body",
		Category:    "layout",
		Tags:        []string{"container"},
		Files: []FileSpec{{
			Path:        WidgetsDir + "/{{WIDGET_FILE}}.poh",
			Description: "Card rendering routine",
			Content:     cardContent,
		}},
		Preview: "+----------------------+\n| Title\n| Body\n+----------------------+",
	},
	"input": {
		Key:         "input",
		Name:        "Input",
		Description: "Prompt the user for a value",
		Category:    "input",
		Tags:        []string{"interactive", "form"},
		Files: []FileSpec{{
			Path:        WidgetsDir + "/{{WIDGET_FILE}}.poh",
			Description: "Input prompt routine",
			Content:     inputContent,
		}},
		Preview: "Name:\n> _",
	},
	"list": {
		Key:         "list",
		Name:        "List",
		Description: "Render a bulleted list of items",
		Category:    "display",
		Tags:        []string{"collection"},
		Files: []FileSpec{{
			Path:        WidgetsDir + "/{{WIDGET_FILE}}.poh",
			Description: "List rendering routines",
			Content:     listContent,
		}},
		Preview: "Items:\n  - First item\n  - Second item",
	},
}

// Manager lists, previews and generates widgets for one project. Listing and
// previewing work without a project; generation requires one.
type Manager struct {
	projectRoot string
}

// NewManager creates a manager. projectRoot may be empty.
func NewManager(projectRoot string) *Manager {
	return &Manager{projectRoot: projectRoot}
}

// Templates returns the built-in templates in a stable order.
func (m *Manager) Templates() []Template {
	keys := make([]string, 0, len(templates))
	for k := range templates {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Template, 0, len(keys))
	for _, k := range keys {
		out = append(out, templates[k])
	}

	return out
}

// Lookup resolves a template by key or name.
func (m *Manager) Lookup(identifier string) (Template, error) {
	want := strings.ToLower(identifier)

	if t, ok := templates[want]; ok {
		return t, nil
	}

	for _, t := range templates {
		if strings.ToLower(t.Name) == want {
			return t, nil
		}
	}

	return Template{}, fmt.Errorf("unknown widget template %q (try 'plhub widget list')", identifier)
}

// ProjectWidgets returns project-relative paths of generated widget files.
func (m *Manager) ProjectWidgets() []string {
	if m.projectRoot == "" {
		return nil
	}

	dir := filepath.Join(m.projectRoot, filepath.FromSlash(WidgetsDir))
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var out []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".poh") {
			continue
		}
		out = append(out, WidgetsDir+"/"+entry.Name())
	}
	sort.Strings(out)

	return out
}

// Generate instantiates a template. name overrides the widget name used for
// placeholders; dryRun resolves paths without writing. Returns the
// project-relative paths the template creates (or would create).
func (m *Manager) Generate(identifier, name string, force, dryRun bool) (Template, []string, error) {
	if m.projectRoot == "" {
		return Template{}, nil, fmt.Errorf("widget generate requires a project (plhub.json not found)")
	}

	tmpl, err := m.Lookup(identifier)
	if err != nil {
		return Template{}, nil, err
	}

	if name == "" {
		name = tmpl.Name
	}
	fileName := FileName(name)
	if fileName == "" {
		return Template{}, nil, fmt.Errorf("widget name %q produces an empty filename", name)
	}

	var relPaths []string
	for _, spec := range tmpl.Files {
		rel := strings.ReplaceAll(spec.Path, "{{WIDGET_FILE}}", fileName)
		relPaths = append(relPaths, rel)

		abs := filepath.Join(m.projectRoot, filepath.FromSlash(rel))
		if _, err := os.Stat(abs); err == nil && !force {
			return Template{}, nil, fmt.Errorf("%s already exists (use --force to overwrite)", rel)
		}
	}

	if dryRun {
		return tmpl, relPaths, nil
	}

	for i, spec := range tmpl.Files {
		abs := filepath.Join(m.projectRoot, filepath.FromSlash(relPaths[i]))
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			return Template{}, nil, err
		}

		content := strings.ReplaceAll(spec.Content, "{{WIDGET_NAME}}", name)
		content = strings.ReplaceAll(content, "{{WIDGET_FILE}}", fileName)

		if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
			return Template{}, nil, err
		}
	}

	return tmpl, relPaths, nil
}

// FileName converts a widget display name into a snake_case filename stem.
func FileName(name string) string {
	var b strings.Builder
	prevUnderscore := true
	for i, r := range name {
		switch {
		case r >= 'A' && r <= 'Z':
			if i > 0 && !prevUnderscore {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			prevUnderscore = false
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevUnderscore = false
		case r == ' ' || r == '-' || r == '_':
			if !prevUnderscore {
				b.WriteByte('_')
			}
			prevUnderscore = true
		}
	}

	return strings.Trim(b.String(), "_")
}
