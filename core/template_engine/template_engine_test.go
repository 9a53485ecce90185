package template_engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateRefsExist(t *testing.T) {
	engine := NewTemplateEngine()
	refs := []TemplateRef{
		TEMPLATES.INIT,
		TEMPLATES.TYPES.IMPORTS_D_TS,
		TEMPLATES.TYPES.PATHS_D_TS,
		TEMPLATES.TYPES.GLOBALS_D_TS,
		TEMPLATES.TYPES.EXVITE_D_TS,
		TEMPLATES.TYPES.TSCONFIG_JSON,
	}
	for _, ref := range refs {
		assert.NoError(t, engine.ValidateTemplate(ref), ref.Path)
	}
	assert.Error(t, engine.ValidateTemplate(TemplateRef{Path: "types", IsDir: false}))
}

func TestRenderRejectsDirectories(t *testing.T) {
	_, err := NewTemplateEngine().Render(TEMPLATES.INIT, nil)
	assert.Error(t, err)
}

func TestGenerateFolderScaffoldsProject(t *testing.T) {
	dir := t.TempDir()

	err := NewTemplateEngine().GenerateFolder(TEMPLATES.INIT, dir, map[string]string{"Name": "my-ext"})
	require.NoError(t, err)

	for _, f := range []string{"exvite.yaml", "tsconfig.json", ".gitignore", "entrypoints/background.ts", "entrypoints/popup.html", "utils/greeting.ts"} {
		assert.FileExists(t, filepath.Join(dir, filepath.FromSlash(f)))
	}
	assert.NoFileExists(t, filepath.Join(dir, "exvite.yaml.tmpl"))

	popup, err := os.ReadFile(filepath.Join(dir, "entrypoints", "popup.html"))
	require.NoError(t, err)
	assert.Contains(t, string(popup), "<title>My-ext</title>")
}

func TestGenerateFolderRequiresDirectoryRef(t *testing.T) {
	err := NewTemplateEngine().GenerateFolder(TEMPLATES.TYPES.PATHS_D_TS, t.TempDir(), nil)
	assert.Error(t, err)
}
