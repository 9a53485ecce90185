// Package scan finds the exports of project source files that should be auto-imported.
package scan

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/evanw/esbuild/pkg/api"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tristendillon/exvite/core/config"
	"github.com/tristendillon/exvite/core/logger"
	"github.com/tristendillon/exvite/core/models"
	"github.com/tristendillon/exvite/core/shared"
)

const DefaultCacheSize = 1000

var scriptExts = map[string]bool{
	".ts": true, ".tsx": true, ".mts": true,
	".js": true, ".jsx": true, ".mjs": true,
}

type metafile struct {
	Outputs map[string]metafileOutput `json:"outputs"`
}

type metafileOutput struct {
	EntryPoint string   `json:"entryPoint,omitempty"`
	Exports    []string `json:"exports"`
}

type CacheStats struct {
	Hits    int64
	Misses  int64
	Entries int
}

type Scanner struct {
	cache  *lru.Cache[string, *models.CacheEntry]
	hits   atomic.Int64
	misses atomic.Int64
}

func NewScanner(cacheSize int) (*Scanner, error) {
	cache, err := lru.New[string, *models.CacheEntry](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create scan cache: %w", err)
	}
	return &Scanner{cache: cache}, nil
}

// Invalidate drops the cached exports of path.
func (s *Scanner) Invalidate(path string) {
	if s.cache.Remove(path) {
		logger.Debug("Invalidated scan cache entry for %s", path)
	}
}

func (s *Scanner) Stats() CacheStats {
	return CacheStats{Hits: s.hits.Load(), Misses: s.misses.Load(), Entries: s.cache.Len()}
}

func (s *Scanner) LogStats() {
	stats := s.Stats()
	logger.Debug("Scan cache stats: Hits=%d, Misses=%d, Entries=%d", stats.Hits, stats.Misses, stats.Entries)
}

// Imports returns the configured imports followed by the exports of every
// file under the auto-import dirs. A name is declared once; later duplicates are dropped.
func (s *Scanner) Imports(ctx context.Context, cfg *config.InternalConfig) ([]models.Import, error) {
	if cfg.Imports.Disabled {
		return nil, nil
	}

	files, err := s.ScanDirs(ctx, cfg)
	if err != nil {
		return nil, err
	}

	seen := map[string]string{}
	var imports []models.Import
	add := func(imp models.Import) {
		name := imp.DeclaredName()
		if prev, ok := seen[name]; ok {
			logger.Warn("Duplicate auto-import %q from %s, already imported from %s", name, imp.From, prev)
			return
		}
		seen[name] = imp.From
		imports = append(imports, imp)
	}

	for _, imp := range cfg.Imports.Imports {
		add(imp)
	}

	for _, file := range files {
		from, err := shared.DotRelSlash(cfg.TypesDir, strings.TrimSuffix(file.Path, filepath.Ext(file.Path)))
		if err != nil {
			return nil, fmt.Errorf("failed to relativize %s: %w", file.Path, err)
		}
		for _, export := range file.Exports {
			imp := models.Import{Name: export, From: from}
			if export == "default" {
				imp.As = defaultExportName(file.Path)
				if imp.As == "" {
					continue
				}
			}
			add(imp)
		}
	}

	return imports, nil
}

// ScanDirs returns the exports of each script file in the auto-import dirs, sorted by path.
// Files esbuild cannot parse are logged and left out; they are retried on the next call.
func (s *Scanner) ScanDirs(ctx context.Context, cfg *config.InternalConfig) ([]models.ScannedFile, error) {
	paths, err := findScriptFiles(cfg.SrcDir, cfg.Imports.Dirs)
	if err != nil {
		return nil, err
	}

	results := make(map[string]*models.ScannedFile, len(paths))
	var stale []string
	for _, p := range paths {
		if scanned, ok := s.lookup(p); ok {
			results[p] = scanned
			continue
		}
		stale = append(stale, p)
	}

	for _, p := range stale {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sf, err := scanExports(cfg.Root, p)
		if err != nil {
			logger.Warn("Skipping auto-imports from %s: %v", p, err)
			continue
		}
		results[p] = sf
		entry, err := models.NewCacheEntry(p, sf)
		if err != nil {
			logger.Debug("Not caching %s: %v", p, err)
			continue
		}
		s.cache.Add(p, entry)
	}

	files := make([]models.ScannedFile, 0, len(paths))
	for _, p := range paths {
		if sf, ok := results[p]; ok {
			files = append(files, *sf)
		}
	}
	return files, nil
}

func (s *Scanner) lookup(path string) (*models.ScannedFile, bool) {
	entry, ok := s.cache.Get(path)
	if !ok {
		s.misses.Add(1)
		return nil, false
	}
	valid, touched, err := entry.Check()
	if err != nil || !valid {
		s.cache.Remove(path)
		s.misses.Add(1)
		return nil, false
	}
	if touched {
		// Same content under a new mtime: store a fresh entry, cached entries are shared.
		if fresh, err := models.NewCacheEntry(path, entry.Scanned); err == nil {
			s.cache.Add(path, fresh)
		}
	}
	s.hits.Add(1)
	return entry.Scanned, true
}

func findScriptFiles(srcDir string, dirs []string) ([]string, error) {
	var paths []string
	for _, dir := range dirs {
		root := filepath.Join(srcDir, dir)
		if _, err := os.Stat(root); os.IsNotExist(err) {
			continue
		}
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && (strings.HasPrefix(d.Name(), ".") || d.Name() == "node_modules") {
					return filepath.SkipDir
				}
				return nil
			}
			if isScannable(d.Name()) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", root, err)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func isScannable(name string) bool {
	if !scriptExts[filepath.Ext(name)] {
		return false
	}
	for _, suffix := range []string{".d.ts", ".test.ts", ".spec.ts", ".test.js", ".spec.js"} {
		if strings.HasSuffix(name, suffix) {
			return false
		}
	}
	return true
}

// scanExports runs a non-bundling esbuild pass over a single file and reads
// its export names from the metafile. Nothing is written to disk.
func scanExports(root, path string) (*models.ScannedFile, error) {
	result := api.Build(api.BuildOptions{
		EntryPoints:   []string{path},
		AbsWorkingDir: root,
		Outdir:        filepath.Join(root, ".exvite", "scan"),
		Bundle:        false,
		Write:         false,
		Metafile:      true,
		Format:        api.FormatESModule,
		LogLevel:      api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		msgs := api.FormatMessages(result.Errors, api.FormatMessagesOptions{Kind: api.ErrorMessage})
		return nil, fmt.Errorf("failed to scan exports: %s", strings.TrimSpace(strings.Join(msgs, "\n")))
	}

	var meta metafile
	if err := json.Unmarshal([]byte(result.Metafile), &meta); err != nil {
		return nil, fmt.Errorf("failed to parse esbuild metafile: %w", err)
	}

	sf := &models.ScannedFile{Path: path}
	for _, out := range meta.Outputs {
		if out.EntryPoint == "" {
			continue
		}
		sf.Exports = append([]string(nil), out.Exports...)
		sort.Strings(sf.Exports)
	}
	logger.Debug("Scanned %s: %v", path, sf.Exports)
	return sf, nil
}

// defaultExportName names a default export after its file, or its directory for index files.
func defaultExportName(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if base == "index" {
		base = filepath.Base(filepath.Dir(path))
	}
	return shared.ToCamel(base)
}
