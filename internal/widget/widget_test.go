package widget

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatesStableOrder(t *testing.T) {
	m := NewManager("")

	tmpls := m.Templates()
	require.NotEmpty(t, tmpls)

	var keys []string
	for _, tmpl := range tmpls {
		keys = append(keys, tmpl.Key)
		assert.NotEmpty(t, tmpl.Name)
		assert.NotEmpty(t, tmpl.Files)
	}

	assert.True(t, sort.StringsAreSorted(keys), "templates not in stable order: %v", keys)
	assert.Contains(t, keys, "button")
	assert.Contains(t, keys, "card")
}

func TestLookupByKeyAndName(t *testing.T) {
	m := NewManager("")

	byKey, err := m.Lookup("button")
	require.NoError(t, err)
	assert.Equal(t, "Button", byKey.Name)

	byName, err := m.Lookup("Card")
	require.NoError(t, err)
	assert.Equal(t, "card", byName.Key)

	_, err = m.Lookup("carousel")
	assert.Error(t, err)
}

func TestGenerateSubstitutesPlaceholders(t *testing.T) {
	root := t.TempDir()
	m := NewManager(root)

	tmpl, paths, err := m.Generate("button", "SubmitButton", false, false)
	require.NoError(t, err)
	assert.Equal(t, "button", tmpl.Key)
	require.Len(t, paths, 1)
	assert.Equal(t, "ui/widgets/submit_button.poh", paths[0])

	content, err := os.ReadFile(filepath.Join(root, "ui", "widgets", "submit_button.poh"))
	require.NoError(t, err)

	text := string(content)
	assert.Contains(t, text, "SubmitButton")
	assert.Contains(t, text, "render_submit_button")
	assert.False(t, strings.Contains(text, "{{"))
}

func TestGenerateDefaultName(t *testing.T) {
	root := t.TempDir()

	_, paths, err := NewManager(root).Generate("card", "", false, false)
	require.NoError(t, err)
	assert.Equal(t, "ui/widgets/card.poh", paths[0])
}

func TestGenerateDryRunWritesNothing(t *testing.T) {
	root := t.TempDir()

	_, paths, err := NewManager(root).Generate("list", "TodoList", false, true)
	require.NoError(t, err)
	require.Len(t, paths, 1)

	_, statErr := os.Stat(filepath.Join(root, "ui", "widgets"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestGenerateRefusesOverwriteWithoutForce(t *testing.T) {
	root := t.TempDir()
	m := NewManager(root)

	_, _, err := m.Generate("button", "Ok", false, false)
	require.NoError(t, err)

	_, _, err = m.Generate("button", "Ok", false, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	_, _, err = m.Generate("button", "Ok", true, false)
	assert.NoError(t, err)
}

func TestGenerateRequiresProject(t *testing.T) {
	_, _, err := NewManager("").Generate("button", "", false, false)
	assert.Error(t, err)
}

func TestProjectWidgets(t *testing.T) {
	root := t.TempDir()
	m := NewManager(root)

	assert.Empty(t, m.ProjectWidgets())

	_, _, err := m.Generate("button", "A", false, false)
	require.NoError(t, err)
	_, _, err = m.Generate("card", "B", false, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"ui/widgets/a.poh", "ui/widgets/b.poh"}, m.ProjectWidgets())
}

func TestFileName(t *testing.T) {
	tests := map[string]string{
		"SubmitButton": "submit_button",
		"Welcome Card": "welcome_card",
		"already_ok":   "already_ok",
		"ABC":          "a_b_c",
		"x9 Y":         "x9_y",
	}

	for input, expected := range tests {
		assert.Equal(t, expected, FileName(input), "FileName(%q)", input)
	}
}
