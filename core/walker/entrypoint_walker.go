package walker

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar"
	"github.com/tristendillon/exvite/core/config"
	"github.com/tristendillon/exvite/core/logger"
	"github.com/tristendillon/exvite/core/models"
)

const scriptExts = "{ts,tsx,js,jsx}"

type entrypointPattern struct {
	glob string
	typ  models.EntrypointType
}

// First match wins, so specific names come before the unlisted catch-alls.
var entrypointPatterns = []entrypointPattern{
	{"sandbox.html", models.EntrypointSandbox},
	{"sandbox/index.html", models.EntrypointSandbox},
	{"*.sandbox.html", models.EntrypointSandbox},
	{"*.sandbox/index.html", models.EntrypointSandbox},
	{"bookmarks.html", models.EntrypointBookmarks},
	{"bookmarks/index.html", models.EntrypointBookmarks},
	{"popup.html", models.EntrypointPopup},
	{"popup/index.html", models.EntrypointPopup},
	{"options.html", models.EntrypointOptions},
	{"options/index.html", models.EntrypointOptions},
	{"background." + scriptExts, models.EntrypointBackground},
	{"background/index." + scriptExts, models.EntrypointBackground},
	{"content." + scriptExts, models.EntrypointContentScript},
	{"*.content." + scriptExts, models.EntrypointContentScript},
	{"content/index." + scriptExts, models.EntrypointContentScript},
	{"*.content/index." + scriptExts, models.EntrypointContentScript},
	{"*.html", models.EntrypointUnlistedPage},
	{"*/index.html", models.EntrypointUnlistedPage},
	{"*." + scriptExts, models.EntrypointUnlistedScript},
	{"*/index." + scriptExts, models.EntrypointUnlistedScript},
}

type EntrypointWalker interface {
	Walk(cfg *config.InternalConfig) ([]models.Entrypoint, error)
}

type EntrypointWalkerImpl struct {
	Exclude []string
}

func NewEntrypointWalker() *EntrypointWalkerImpl {
	return &EntrypointWalkerImpl{
		Exclude: []string{"node_modules", "__tests__"},
	}
}

// Walk discovers every entrypoint under cfg.EntrypointsDir, sorted by input path.
// A missing entrypoints directory yields no entrypoints.
func (w *EntrypointWalkerImpl) Walk(cfg *config.InternalConfig) ([]models.Entrypoint, error) {
	root := cfg.EntrypointsDir
	if _, err := os.Stat(root); os.IsNotExist(err) {
		logger.Warn("Entrypoints directory %s does not exist", root)
		return nil, nil
	}

	var entrypoints []models.Entrypoint
	outputs := map[string]string{}

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		if info.IsDir() {
			if w.isExcluded(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		typ, ok, err := matchEntrypoint(relPath)
		if err != nil {
			return err
		}
		if !ok {
			logger.Debug("Ignoring non-entrypoint file: %s", relPath)
			return nil
		}

		entry := models.Entrypoint{
			Type:      typ,
			Name:      entrypointName(relPath),
			InputPath: path,
			OutputDir: cfg.OutDir,
		}
		if typ == models.EntrypointContentScript {
			entry.OutputDir = filepath.Join(cfg.OutDir, "content-scripts")
		}

		out := entry.OutputFile(entry.BundleExt())
		if other, exists := outputs[out]; exists {
			return fmt.Errorf("entrypoints %s and %s both output to %s", other, path, out)
		}
		outputs[out] = path

		entrypoints = append(entrypoints, entry)
		logger.Debug("Registered entrypoint: %s (%s)", entry.Name, entry.Type)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Slice(entrypoints, func(i, j int) bool {
		return entrypoints[i].InputPath < entrypoints[j].InputPath
	})
	return entrypoints, nil
}

func (w *EntrypointWalkerImpl) isExcluded(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	for _, ex := range w.Exclude {
		if name == ex {
			return true
		}
	}
	return false
}

func matchEntrypoint(relPath string) (models.EntrypointType, bool, error) {
	for _, p := range entrypointPatterns {
		ok, err := doublestar.Match(p.glob, relPath)
		if err != nil {
			return "", false, fmt.Errorf("bad entrypoint pattern %s: %w", p.glob, err)
		}
		if ok {
			return p.typ, true, nil
		}
	}
	return "", false, nil
}

// entrypointName is the first path segment, cut at the first "." or "/".
func entrypointName(relPath string) string {
	if i := strings.IndexAny(relPath, "./"); i >= 0 {
		return relPath[:i]
	}
	return relPath
}
