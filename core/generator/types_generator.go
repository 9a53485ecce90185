package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/tristendillon/exvite/core/config"
	"github.com/tristendillon/exvite/core/globals"
	"github.com/tristendillon/exvite/core/logger"
	"github.com/tristendillon/exvite/core/models"
	"github.com/tristendillon/exvite/core/shared"
	"github.com/tristendillon/exvite/core/template_engine"
	"github.com/tristendillon/exvite/core/walker"
	"golang.org/x/sync/errgroup"
)

const (
	ImportsFileName  = "imports.d.ts"
	PathsFileName    = "paths.d.ts"
	GlobalsFileName  = "globals.d.ts"
	MainFileName     = "exvite.d.ts"
	TsConfigFileName = "tsconfig.json"
)

// ImportSource supplies the auto-imports declared in imports.d.ts.
type ImportSource interface {
	Imports(ctx context.Context, cfg *config.InternalConfig) ([]models.Import, error)
}

type TypesGenerator struct {
	engine  *template_engine.TemplateEngine
	imports ImportSource
	Walker  walker.EntrypointWalker
}

func NewTypesGenerator(imports ImportSource) *TypesGenerator {
	return &TypesGenerator{
		engine:  template_engine.NewTemplateEngine(),
		imports: imports,
		Walker:  walker.NewEntrypointWalker(),
	}
}

// Prepare discovers the entrypoints of cfg and regenerates the types directory.
func (g *TypesGenerator) Prepare(ctx context.Context, cfg *config.InternalConfig) error {
	entrypoints, err := g.Walker.Walk(cfg)
	if err != nil {
		return fmt.Errorf("failed to find entrypoints: %w", err)
	}
	logger.Debug("Found %d entrypoints", len(entrypoints))

	if err := g.GenerateTypesDir(ctx, entrypoints, cfg); err != nil {
		return fmt.Errorf("failed to generate types: %w", err)
	}

	rel, _ := shared.RelSlash(cfg.Root, cfg.ExviteDir)
	logger.Success("Generated types in %s for %d entrypoints", rel, len(entrypoints))
	return nil
}

// GenerateTypesDir writes every file of cfg.TypesDir, then the main
// declaration file and tsconfig.json that reference them.
func (g *TypesGenerator) GenerateTypesDir(ctx context.Context, entrypoints []models.Entrypoint, cfg *config.InternalConfig) error {
	if err := os.MkdirAll(cfg.TypesDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create types directory %s: %w", cfg.TypesDir, err)
	}

	// Slots keep the reference order fixed regardless of which write finishes first.
	references := make([]string, 3)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		references[0], err = g.writeImportsDeclarationFile(egCtx, cfg)
		return err
	})
	eg.Go(func() (err error) {
		references[1], err = g.writePathsDeclarationFile(entrypoints, cfg)
		return err
	})
	eg.Go(func() (err error) {
		references[2], err = g.writeGlobalsDeclarationFile(cfg)
		return err
	})
	if err := eg.Wait(); err != nil {
		return err
	}

	mainReference, err := g.writeMainDeclarationFile(references, cfg)
	if err != nil {
		return err
	}
	return g.writeTsConfigFile(mainReference, cfg)
}

func (g *TypesGenerator) writeImportsDeclarationFile(ctx context.Context, cfg *config.InternalConfig) (string, error) {
	filePath := filepath.Join(cfg.TypesDir, ImportsFileName)

	imports, err := g.imports.Imports(ctx, cfg)
	if err != nil {
		return "", fmt.Errorf("failed to scan imports: %w", err)
	}
	sort.SliceStable(imports, func(i, j int) bool {
		return imports[i].DeclaredName() < imports[j].DeclaredName()
	})

	data := struct{ Imports []models.Import }{Imports: imports}
	if err := g.engine.GenerateFile(template_engine.TEMPLATES.TYPES.IMPORTS_D_TS, filePath, data); err != nil {
		return "", err
	}
	logger.Debug("Wrote %d auto-imports to %s", len(imports), filePath)
	return filePath, nil
}

func (g *TypesGenerator) writePathsDeclarationFile(entrypoints []models.Entrypoint, cfg *config.InternalConfig) (string, error) {
	filePath := filepath.Join(cfg.TypesDir, PathsFileName)

	paths, err := EntrypointPaths(entrypoints, cfg.OutDir)
	if err != nil {
		return "", err
	}

	data := struct{ Paths []string }{Paths: paths}
	if err := g.engine.GenerateFile(template_engine.TEMPLATES.TYPES.PATHS_D_TS, filePath, data); err != nil {
		return "", err
	}
	return filePath, nil
}

// EntrypointPaths returns the sorted bundle path of every entrypoint, relative to outDir.
func EntrypointPaths(entrypoints []models.Entrypoint, outDir string) ([]string, error) {
	paths := make([]string, 0, len(entrypoints))
	for _, entry := range entrypoints {
		p, err := entry.BundlePath(outDir, entry.BundleExt())
		if err != nil {
			return nil, fmt.Errorf("failed to compute bundle path for %s: %w", entry.InputPath, err)
		}
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}

func (g *TypesGenerator) writeGlobalsDeclarationFile(cfg *config.InternalConfig) (string, error) {
	filePath := filepath.Join(cfg.TypesDir, GlobalsFileName)

	data := struct{ Globals []models.Global }{Globals: globals.GetGlobals(cfg)}
	if err := g.engine.GenerateFile(template_engine.TEMPLATES.TYPES.GLOBALS_D_TS, filePath, data); err != nil {
		return "", err
	}
	return filePath, nil
}

func (g *TypesGenerator) writeMainDeclarationFile(references []string, cfg *config.InternalConfig) (string, error) {
	dir := cfg.ExviteDir
	filePath := filepath.Join(dir, MainFileName)

	relRefs := make([]string, 0, len(references))
	for _, ref := range references {
		rel, err := shared.RelSlash(dir, ref)
		if err != nil {
			return "", fmt.Errorf("failed to relativize reference %s: %w", ref, err)
		}
		relRefs = append(relRefs, "./"+rel)
	}

	data := struct{ References []string }{References: relRefs}
	if err := g.engine.GenerateFile(template_engine.TEMPLATES.TYPES.EXVITE_D_TS, filePath, data); err != nil {
		return "", err
	}
	return filePath, nil
}

func (g *TypesGenerator) writeTsConfigFile(mainReference string, cfg *config.InternalConfig) error {
	dir := cfg.ExviteDir

	root, err := shared.RelSlash(dir, cfg.Root)
	if err != nil {
		return fmt.Errorf("failed to relativize root: %w", err)
	}
	main, err := shared.RelSlash(dir, mainReference)
	if err != nil {
		return fmt.Errorf("failed to relativize %s: %w", mainReference, err)
	}
	outBase, err := shared.RelSlash(dir, cfg.OutBaseDir)
	if err != nil {
		return fmt.Errorf("failed to relativize output dir: %w", err)
	}

	data := struct {
		Root          string
		MainReference string
		OutBaseDir    string
	}{
		Root:          root,
		MainReference: "./" + main,
		OutBaseDir:    outBase,
	}
	return g.engine.GenerateFile(template_engine.TEMPLATES.TYPES.TSCONFIG_JSON, filepath.Join(dir, TsConfigFileName), data)
}
