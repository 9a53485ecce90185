package template_engine

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/tristendillon/exvite/core/logger"
	"github.com/tristendillon/exvite/core/shared"
)

//go:embed all:templates
var TemplateFS embed.FS

type TemplateRef struct {
	Path  string
	IsDir bool
}

func (tr TemplateRef) IsFile() bool {
	return !tr.IsDir
}

func (tr TemplateRef) IsDirectory() bool {
	return tr.IsDir
}

var TEMPLATES = struct {
	INIT  TemplateRef
	TYPES struct {
		IMPORTS_D_TS  TemplateRef
		PATHS_D_TS    TemplateRef
		GLOBALS_D_TS  TemplateRef
		EXVITE_D_TS   TemplateRef
		TSCONFIG_JSON TemplateRef
	}
}{
	INIT: TemplateRef{Path: "init", IsDir: true},
	TYPES: struct {
		IMPORTS_D_TS  TemplateRef
		PATHS_D_TS    TemplateRef
		GLOBALS_D_TS  TemplateRef
		EXVITE_D_TS   TemplateRef
		TSCONFIG_JSON TemplateRef
	}{
		IMPORTS_D_TS:  TemplateRef{Path: "types/imports.d.ts.tmpl"},
		PATHS_D_TS:    TemplateRef{Path: "types/paths.d.ts.tmpl"},
		GLOBALS_D_TS:  TemplateRef{Path: "types/globals.d.ts.tmpl"},
		EXVITE_D_TS:   TemplateRef{Path: "types/exvite.d.ts.tmpl"},
		TSCONFIG_JSON: TemplateRef{Path: "types/tsconfig.json.tmpl"},
	},
}

type TemplateEngine struct {
	funcMap template.FuncMap
}

func getDefaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"upper":     strings.ToUpper,
		"lower":     strings.ToLower,
		"title":     shared.ToTitle,
		"camel":     shared.ToCamel,
		"trim":      strings.TrimSpace,
		"replace":   strings.ReplaceAll,
		"hasPrefix": strings.HasPrefix,
		"hasSuffix": strings.HasSuffix,
		"join":      strings.Join,
	}
}

func NewTemplateEngine() *TemplateEngine {
	return &TemplateEngine{funcMap: getDefaultFuncMap()}
}

// Render executes a file template and returns its output.
func (te *TemplateEngine) Render(templateRef TemplateRef, data interface{}) ([]byte, error) {
	if templateRef.IsDirectory() {
		return nil, fmt.Errorf("cannot render directory reference: %s", templateRef.Path)
	}
	return te.render(path.Join("templates", templateRef.Path), data)
}

// GenerateFile renders templateRef into outputPath, creating parent directories.
// The file is only written once rendering succeeded.
func (te *TemplateEngine) GenerateFile(templateRef TemplateRef, outputPath string, data interface{}) error {
	content, err := te.Render(templateRef, data)
	if err != nil {
		return err
	}
	return writeFile(outputPath, content)
}

// GenerateFolder copies a template directory into outputDir. Files ending in
// .tmpl are executed and lose the suffix; everything else is copied verbatim.
func (te *TemplateEngine) GenerateFolder(templateRef TemplateRef, outputDir string, data interface{}) error {
	if templateRef.IsFile() {
		return fmt.Errorf("cannot generate folder from file reference: %s", templateRef.Path)
	}

	templateDir := path.Join("templates", templateRef.Path)
	logger.Debug("Generating folder from template reference: %s", templateDir)

	return fs.WalkDir(TemplateFS, templateDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == templateDir {
			return nil
		}

		relPath := strings.TrimPrefix(p, templateDir+"/")
		outputPath := filepath.Join(outputDir, filepath.FromSlash(relPath))

		if d.IsDir() {
			return os.MkdirAll(outputPath, os.ModePerm)
		}

		logger.Debug("Generating file from path: %s", p)
		if !strings.HasSuffix(p, ".tmpl") {
			content, err := TemplateFS.ReadFile(p)
			if err != nil {
				return fmt.Errorf("failed to read template file %s: %w", p, err)
			}
			return writeFile(outputPath, content)
		}

		content, err := te.render(p, data)
		if err != nil {
			return err
		}
		return writeFile(strings.TrimSuffix(outputPath, ".tmpl"), content)
	})
}

func (te *TemplateEngine) render(templatePath string, data interface{}) ([]byte, error) {
	content, err := TemplateFS.ReadFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file %s: %w", templatePath, err)
	}

	tmpl, err := template.New(path.Base(templatePath)).Funcs(te.funcMap).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", templatePath, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template %s: %w", templatePath, err)
	}
	return buf.Bytes(), nil
}

func (te *TemplateEngine) ValidateTemplate(templateRef TemplateRef) error {
	templatePath := path.Join("templates", templateRef.Path)

	info, err := fs.Stat(TemplateFS, templatePath)
	if err != nil {
		return fmt.Errorf("template not found: %s", templateRef.Path)
	}

	if info.IsDir() != templateRef.IsDirectory() {
		return fmt.Errorf("template reference type mismatch for %s: expected dir=%t, got dir=%t",
			templateRef.Path, templateRef.IsDirectory(), info.IsDir())
	}

	return nil
}

func writeFile(outputPath string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", outputPath, err)
	}
	return nil
}
