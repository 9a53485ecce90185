package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tristendillon/exvite/core/config"
	"github.com/tristendillon/exvite/core/models"
)

type stubImports struct {
	imports []models.Import
	err     error
}

func (s stubImports) Imports(context.Context, *config.InternalConfig) ([]models.Import, error) {
	return append([]models.Import(nil), s.imports...), s.err
}

func newConfig(t *testing.T, cfg *config.Config) *config.InternalConfig {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	internal, err := cfg.Resolve(t.TempDir(), config.CommandBuild)
	require.NoError(t, err)
	return internal
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func entry(cfg *config.InternalConfig, typ models.EntrypointType, name, input string) models.Entrypoint {
	outDir := cfg.OutDir
	if typ == models.EntrypointContentScript {
		outDir = filepath.Join(cfg.OutDir, "content-scripts")
	}
	return models.Entrypoint{
		Type:      typ,
		Name:      name,
		InputPath: filepath.Join(cfg.EntrypointsDir, input),
		OutputDir: outDir,
	}
}

func TestGenerateTypesDirWritesAllFiles(t *testing.T) {
	cfg := newConfig(t, nil)
	entrypoints := []models.Entrypoint{
		entry(cfg, models.EntrypointPopup, "popup", "popup/index.html"),
		entry(cfg, models.EntrypointBackground, "background", "background.ts"),
		entry(cfg, models.EntrypointContentScript, "overlay", "overlay.content.ts"),
	}
	gen := NewTypesGenerator(stubImports{imports: []models.Import{
		{Name: "defineBackground", From: "exvite/client"},
		{Name: "browser", From: "exvite/browser"},
		{Name: "default", As: "formatDate", From: "../../utils/format-date"},
	}})

	require.NoError(t, gen.GenerateTypesDir(context.Background(), entrypoints, cfg))

	assert.Equal(t, `// Generated by exvite
export {}
declare global {
  const browser: typeof import('exvite/browser')['browser']
  const defineBackground: typeof import('exvite/client')['defineBackground']
  const formatDate: typeof import('../../utils/format-date')['default']
}
`, readFile(t, filepath.Join(cfg.TypesDir, ImportsFileName)))

	assert.Equal(t, `// Generated by exvite
type EntrypointPath =
  | "/background.js"
  | "/content-scripts/overlay.js"
  | "/popup.html"
`, readFile(t, filepath.Join(cfg.TypesDir, PathsFileName)))

	assert.Equal(t, `// Generated by exvite
/// <reference types="./types/imports.d.ts" />
/// <reference types="./types/paths.d.ts" />
/// <reference types="./types/globals.d.ts" />
`, readFile(t, filepath.Join(cfg.ExviteDir, MainFileName)))

	tsconfig := readFile(t, filepath.Join(cfg.ExviteDir, TsConfigFileName))
	assert.Contains(t, tsconfig, `"moduleResolution": "Bundler"`)
	assert.Contains(t, tsconfig, `"strict": true`)
	assert.Contains(t, tsconfig, "\"include\": [\n    \"../**/*\",\n    \"./exvite.d.ts\"\n  ]")
	assert.Contains(t, tsconfig, `"exclude": ["../.output"]`)
}

func TestPathsDeclarationWithoutEntrypoints(t *testing.T) {
	cfg := newConfig(t, nil)
	gen := NewTypesGenerator(stubImports{})

	require.NoError(t, gen.GenerateTypesDir(context.Background(), nil, cfg))

	assert.Equal(t, "// Generated by exvite\ntype EntrypointPath = never\n",
		readFile(t, filepath.Join(cfg.TypesDir, PathsFileName)))
}

func TestPathsDeclarationIsSortedWithOneLiteralPerEntrypoint(t *testing.T) {
	cfg := newConfig(t, nil)
	var entrypoints []models.Entrypoint
	for _, name := range []string{"zeta", "alpha", "mid", "beta"} {
		entrypoints = append(entrypoints, entry(cfg, models.EntrypointUnlistedPage, name, name+".html"))
		entrypoints = append(entrypoints, entry(cfg, models.EntrypointUnlistedScript, name+"-script", name+"-script.ts"))
	}

	paths, err := EntrypointPaths(entrypoints, cfg.OutDir)
	require.NoError(t, err)
	require.Len(t, paths, len(entrypoints))
	assert.IsNonDecreasing(t, paths)

	for _, p := range paths {
		if strings.HasSuffix(p, "-script.js") {
			continue
		}
		assert.True(t, strings.HasSuffix(p, ".html"), p)
	}
}

func TestGlobalsDeclarationKeepsInputOrder(t *testing.T) {
	cfg := newConfig(t, &config.Config{
		Globals: []models.Global{
			{Name: "__Z__", Type: "number"},
			{Name: "__A__", Type: "string"},
		},
	})
	gen := NewTypesGenerator(stubImports{})

	require.NoError(t, gen.GenerateTypesDir(context.Background(), nil, cfg))

	content := readFile(t, filepath.Join(cfg.TypesDir, GlobalsFileName))
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	require.Equal(t, []string{"// Generated by exvite", "export {}", "declare global {"}, lines[:3])
	assert.Equal(t, "}", lines[len(lines)-1])

	decls := lines[3 : len(lines)-1]
	require.Len(t, decls, 11)
	assert.Equal(t, "  const __MANIFEST_VERSION__: 2 | 3;", decls[0])
	assert.Equal(t, `  const __COMMAND__: "build" | "serve";`, decls[7])
	assert.Equal(t, "  const __Z__: number;", decls[9])
	assert.Equal(t, "  const __A__: string;", decls[10])
}

func TestTsConfigPathsForCustomLayout(t *testing.T) {
	outside := t.TempDir()
	cfg := newConfig(t, &config.Config{
		SrcDir: "src",
		OutDir: filepath.Join(outside, "dist"),
	})
	gen := NewTypesGenerator(stubImports{})

	require.NoError(t, gen.GenerateTypesDir(context.Background(), nil, cfg))

	outRel, err := filepath.Rel(cfg.ExviteDir, cfg.OutBaseDir)
	require.NoError(t, err)

	tsconfig := readFile(t, filepath.Join(cfg.ExviteDir, TsConfigFileName))
	assert.Contains(t, tsconfig, `"../**/*"`)
	assert.Contains(t, tsconfig, fmt.Sprintf(`"exclude": ["%s"]`, filepath.ToSlash(outRel)))
	assert.True(t, strings.HasSuffix(filepath.ToSlash(outRel), "/dist"))
}

func TestGenerateTypesDirPropagatesErrors(t *testing.T) {
	cfg := newConfig(t, nil)

	scanErr := errors.New("scan failed")
	err := NewTypesGenerator(stubImports{err: scanErr}).GenerateTypesDir(context.Background(), nil, cfg)
	assert.ErrorIs(t, err, scanErr)
	assert.NoFileExists(t, filepath.Join(cfg.ExviteDir, MainFileName))

	blocked := newConfig(t, nil)
	require.NoError(t, os.WriteFile(blocked.ExviteDir, []byte("not a dir"), 0644))
	err = NewTypesGenerator(stubImports{}).GenerateTypesDir(context.Background(), nil, blocked)
	assert.Error(t, err)
}

func TestPrepareDiscoversEntrypoints(t *testing.T) {
	cfg := newConfig(t, nil)
	for _, f := range []string{"popup.html", "background.ts"} {
		path := filepath.Join(cfg.EntrypointsDir, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, nil, 0644))
	}

	require.NoError(t, NewTypesGenerator(stubImports{}).Prepare(context.Background(), cfg))

	paths := readFile(t, filepath.Join(cfg.TypesDir, PathsFileName))
	assert.Contains(t, paths, `  | "/background.js"`)
	assert.Contains(t, paths, `  | "/popup.html"`)
}
