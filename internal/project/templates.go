package project

import "strings"

// Template is a named project layout.
type Template struct {
	Name        string
	Description string
	Directories []string
	// Files maps relative path to content. The {{APP_NAME}} placeholder is
	// substituted at generation time.
	Files map[string]string
}

const basicMain = `Start Program

Write "Hello from {{APP_NAME}}!"

End Program
`

const consoleMain = `Start Program

Write "Welcome to {{APP_NAME}}"
Ask for name
Write "Hello, " plus name

End Program
`

const webMain = `Start Program

Write "{{APP_NAME}} web entry point"
Write "Serve assets from the web/ directory"

End Program
`

const libraryMain = `Start Program

Write "{{APP_NAME}} library self-test"

End Program
`

const starterTest = `Start Program

Write "test: {{APP_NAME}} smoke"

End Program
`

const readme = `# {{APP_NAME}}

A PohLang project managed by plhub.

## Commands

- plhub run src/main.poh
- plhub build
- plhub test
`

// templates is the built-in template catalog.
var templates = map[string]Template{
	"basic": {
		Name:        "basic",
		Description: "Simple console application",
		Directories: []string{"src", "tests", "examples"},
		Files: map[string]string{
			"src/main.poh":       basicMain,
			"tests/smoke.poh":    starterTest,
			"README.md":          readme,
			"examples/hello.poh": basicMain,
		},
	},
	"console": {
		Name:        "console",
		Description: "Advanced console application with input/output",
		Directories: []string{"src", "tests", "examples"},
		Files: map[string]string{
			"src/main.poh":    consoleMain,
			"tests/smoke.poh": starterTest,
			"README.md":       readme,
		},
	},
	"web": {
		Name:        "web",
		Description: "Web application template (experimental)",
		Directories: []string{"src", "tests", "web", "web/assets"},
		Files: map[string]string{
			"src/main.poh":    webMain,
			"tests/smoke.poh": starterTest,
			"README.md":       readme,
			"web/index.html":  "<!doctype html>\n<title>{{APP_NAME}}</title>\n",
		},
	},
	"library": {
		Name:        "library",
		Description: "Reusable PohLang library",
		Directories: []string{"src", "tests"},
		Files: map[string]string{
			"src/lib.poh":     libraryMain,
			"tests/smoke.poh": starterTest,
			"README.md":       readme,
		},
	},
}

// TemplateNames lists templates in a stable order.
func TemplateNames() []string {
	return []string{"basic", "console", "web", "library"}
}

// LookupTemplate finds a template by name; ok is false for unknown names.
func LookupTemplate(name string) (Template, bool) {
	t, ok := templates[name]
	return t, ok
}

// render substitutes placeholders in template content.
func render(content, appName string) string {
	return strings.ReplaceAll(content, "{{APP_NAME}}", appName)
}
