package models

import (
	"path/filepath"
	"strings"
)

type EntrypointType string

const (
	EntrypointBackground     EntrypointType = "background"
	EntrypointContentScript  EntrypointType = "content-script"
	EntrypointPopup          EntrypointType = "popup"
	EntrypointOptions        EntrypointType = "options"
	EntrypointSandbox        EntrypointType = "sandbox"
	EntrypointBookmarks      EntrypointType = "bookmarks"
	EntrypointUnlistedPage   EntrypointType = "unlisted-page"
	EntrypointUnlistedScript EntrypointType = "unlisted-script"
)

// Entrypoint is a build input together with the directory its bundle is written to.
type Entrypoint struct {
	Type      EntrypointType
	Name      string
	InputPath string
	OutputDir string
}

func (e Entrypoint) IsHTML() bool {
	return strings.HasSuffix(e.InputPath, ".html")
}

// BundleExt is the extension of the emitted bundle: ".html" for pages, ".js" otherwise.
func (e Entrypoint) BundleExt() string {
	if e.IsHTML() {
		return ".html"
	}
	return ".js"
}

// OutputFile is the absolute path of the emitted bundle for ext.
func (e Entrypoint) OutputFile(ext string) string {
	return filepath.Join(e.OutputDir, e.Name+ext)
}

// BundlePath returns the bundle location relative to outDir, always slash separated.
func (e Entrypoint) BundlePath(outDir, ext string) (string, error) {
	rel, err := filepath.Rel(outDir, e.OutputFile(ext))
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}
