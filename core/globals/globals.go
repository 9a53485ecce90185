// Package globals lists the compile-time constants exvite defines for extension code.
package globals

import (
	"github.com/tristendillon/exvite/core/config"
	"github.com/tristendillon/exvite/core/models"
)

// GetGlobals returns the built-in globals followed by the user's globals, in declaration order.
func GetGlobals(cfg *config.InternalConfig) []models.Global {
	globals := []models.Global{
		{Name: "__MANIFEST_VERSION__", Value: cfg.ManifestVersion, Type: "2 | 3"},
		{Name: "__BROWSER__", Value: cfg.Browser, Type: "string"},
		{Name: "__IS_CHROME__", Value: cfg.Browser == "chrome", Type: "boolean"},
		{Name: "__IS_FIREFOX__", Value: cfg.Browser == "firefox", Type: "boolean"},
		{Name: "__IS_SAFARI__", Value: cfg.Browser == "safari", Type: "boolean"},
		{Name: "__IS_EDGE__", Value: cfg.Browser == "edge", Type: "boolean"},
		{Name: "__IS_OPERA__", Value: cfg.Browser == "opera", Type: "boolean"},
		{Name: "__COMMAND__", Value: cfg.Command, Type: `"build" | "serve"`},
		{Name: "__MODE__", Value: cfg.Mode, Type: "string"},
	}
	for _, g := range cfg.Globals {
		if g.Type == "" {
			g.Type = "any"
		}
		globals = append(globals, g)
	}
	return globals
}
