package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/tristendillon/exvite/core/logger"
	"github.com/tristendillon/exvite/core/models"
	"gopkg.in/yaml.v3"
)

const (
	ConfigFileName = "exvite.yaml"
	EnvFileName    = ".env"
)

const (
	CommandBuild = "build"
	CommandServe = "serve"
)

// Config is the user facing exvite.yaml. Relative paths are resolved against the project root.
type Config struct {
	SrcDir          string          `yaml:"src_dir"`
	EntrypointsDir  string          `yaml:"entrypoints_dir"`
	OutDir          string          `yaml:"out_dir"`
	Browser         string          `yaml:"browser"`
	ManifestVersion int             `yaml:"manifest_version"`
	Mode            string          `yaml:"mode"`
	Imports         Imports         `yaml:"imports"`
	Globals         []models.Global `yaml:"globals"`
}

type Imports struct {
	Disabled bool            `yaml:"disabled"`
	Dirs     []string        `yaml:"dirs"`
	Imports  []models.Import `yaml:"imports"`
}

// InternalConfig is Config with every directory made absolute and every default applied.
type InternalConfig struct {
	Root            string
	SrcDir          string
	EntrypointsDir  string
	OutBaseDir      string
	OutDir          string
	ExviteDir       string
	TypesDir        string
	Browser         string
	ManifestVersion int
	Command         string
	Mode            string
	Imports         Imports
	Globals         []models.Global
}

var DefaultImportDirs = []string{"components", "composables", "hooks", "utils"}

var DefaultImports = []models.Import{
	{Name: "defineConfig", From: "exvite"},
	{Name: "defineBackground", From: "exvite/client"},
	{Name: "defineContentScript", From: "exvite/client"},
	{Name: "mountContentScriptUI", From: "exvite/client"},
	{Name: "browser", From: "exvite/browser"},
}

func Default() *Config {
	return &Config{
		Browser: "chrome",
		Imports: Imports{
			Dirs:    DefaultImportDirs,
			Imports: DefaultImports,
		},
	}
}

// Load reads exvite.yaml from root, falling back to the defaults when it is missing.
// Values from .env and the process environment are applied on top.
func Load(root string) (*Config, error) {
	cfg := Default()

	filePath := filepath.Join(root, ConfigFileName)
	data, err := os.ReadFile(filePath)
	switch {
	case os.IsNotExist(err):
		logger.Debug("No config file found, using default config")
	case err != nil:
		return nil, fmt.Errorf("failed to read config file %s: %w", filePath, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filePath, err)
		}
		logger.Debug("Config file found: %s", filePath)
	}

	if err := cfg.applyEnv(root); err != nil {
		return nil, err
	}

	logger.Debug("Config: %+v", *cfg)
	return cfg, nil
}

func (c *Config) applyEnv(root string) error {
	env := map[string]string{}
	envPath := filepath.Join(root, EnvFileName)
	if _, err := os.Stat(envPath); err == nil {
		fileEnv, err := godotenv.Read(envPath)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", envPath, err)
		}
		env = fileEnv
	}

	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return env[key]
	}

	if v := lookup("EXVITE_BROWSER"); v != "" {
		c.Browser = v
	}
	if v := lookup("EXVITE_MODE"); v != "" {
		c.Mode = v
	}
	if v := lookup("EXVITE_MANIFEST_VERSION"); v != "" {
		mv, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid EXVITE_MANIFEST_VERSION %q: %w", v, err)
		}
		c.ManifestVersion = mv
	}
	return nil
}

// Resolve produces the InternalConfig for root and the given command.
func (c *Config) Resolve(root, command string) (*InternalConfig, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve root %s: %w", root, err)
	}
	if command != CommandBuild && command != CommandServe {
		return nil, fmt.Errorf("unknown command %q", command)
	}

	browser := c.Browser
	if browser == "" {
		browser = "chrome"
	}

	manifestVersion := c.ManifestVersion
	if manifestVersion == 0 {
		manifestVersion = 3
		if browser == "firefox" {
			manifestVersion = 2
		}
	}
	if manifestVersion != 2 && manifestVersion != 3 {
		return nil, fmt.Errorf("manifest_version must be 2 or 3, got %d", manifestVersion)
	}

	mode := c.Mode
	if mode == "" {
		mode = "production"
		if command == CommandServe {
			mode = "development"
		}
	}

	srcDir := resolveDir(root, c.SrcDir, ".")
	outBaseDir := resolveDir(root, c.OutDir, ".output")
	exviteDir := filepath.Join(root, ".exvite")

	imports := c.Imports
	if imports.Dirs == nil {
		imports.Dirs = DefaultImportDirs
	}

	return &InternalConfig{
		Root:            root,
		SrcDir:          srcDir,
		EntrypointsDir:  resolveDir(srcDir, c.EntrypointsDir, "entrypoints"),
		OutBaseDir:      outBaseDir,
		OutDir:          filepath.Join(outBaseDir, fmt.Sprintf("%s-mv%d", browser, manifestVersion)),
		ExviteDir:       exviteDir,
		TypesDir:        filepath.Join(exviteDir, "types"),
		Browser:         browser,
		ManifestVersion: manifestVersion,
		Command:         command,
		Mode:            mode,
		Imports:         imports,
		Globals:         c.Globals,
	}, nil
}

func resolveDir(base, dir, fallback string) string {
	if dir == "" {
		dir = fallback
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(base, dir)
}

// LoadInternal is Load followed by Resolve.
func LoadInternal(root, command string) (*InternalConfig, error) {
	cfg, err := Load(root)
	if err != nil {
		return nil, err
	}
	return cfg.Resolve(root, command)
}
