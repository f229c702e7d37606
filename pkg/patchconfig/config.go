// Package patchconfig loads gradlever settings.
//
// Settings are layered, later layers winning: built-in defaults, the
// 'gradlever' extension in grove.yml, .gradlever.toml, the environment
// (including a .env file in the project root), then command line flags.
package patchconfig

//go:generate sh -c "cd ../.. && go run ./tools/config-schema-generator/"

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/grovetools/core/config"
	coreerrors "github.com/grovetools/core/errors"
	"github.com/grovetools/gradlever/pkg/manifest"
	"github.com/grovetools/gradlever/pkg/patcher"
	"github.com/joho/godotenv"
	pelletier "github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
)

const (
	// ExtensionKey is the grove.yml section holding gradlever settings.
	ExtensionKey = "gradlever"
	// FileName is the project-local TOML config file.
	FileName = ".gradlever.toml"

	DefaultBuildFile = "android/app/build.gradle"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config defines the structure for the 'gradlever' section in grove.yml and
// for .gradlever.toml.
type Config struct {
	BuildFile    string `yaml:"build_file" toml:"build_file" json:"build_file" jsonschema:"description=Build descriptor to patch relative to the project root,default=android/app/build.gradle"`
	ManifestType string `yaml:"manifest_type" toml:"manifest_type" json:"manifest_type" jsonschema:"description=Version manifest kind,enum=expo,enum=node,default=expo"`
	ManifestFile string `yaml:"manifest_file,omitempty" toml:"manifest_file,omitempty" json:"manifest_file,omitempty" jsonschema:"description=Manifest path relative to the project root. Defaults to the manifest type's file"`
	VersionPath  string `yaml:"version_path,omitempty" toml:"version_path,omitempty" json:"version_path,omitempty" jsonschema:"description=Dotted property path of the version string. Defaults to the manifest type's path"`
	Anchor       string `yaml:"anchor" toml:"anchor" json:"anchor" jsonschema:"description=Regular expression for the line after which the version block is inserted"`
	Backup       bool   `yaml:"backup" toml:"backup" json:"backup" jsonschema:"description=Keep a .bak copy of the build file before writing"`
}

// layer is one partial source of settings. Empty fields do not override.
type layer struct {
	BuildFile    string `yaml:"build_file" toml:"build_file"`
	ManifestType string `yaml:"manifest_type" toml:"manifest_type"`
	ManifestFile string `yaml:"manifest_file" toml:"manifest_file"`
	VersionPath  string `yaml:"version_path" toml:"version_path"`
	Anchor       string `yaml:"anchor" toml:"anchor"`
	Backup       *bool  `yaml:"backup" toml:"backup"`
}

// Environment variables read by Load.
const (
	EnvBuildFile    = "GRADLEVER_BUILD_FILE"
	EnvManifestType = "GRADLEVER_MANIFEST_TYPE"
	EnvManifestFile = "GRADLEVER_MANIFEST_FILE"
	EnvVersionPath  = "GRADLEVER_VERSION_PATH"
	EnvBackup       = "GRADLEVER_BACKUP"
)

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		BuildFile:    DefaultBuildFile,
		ManifestType: string(manifest.TypeExpo),
		Anchor:       patcher.DefaultAnchor,
	}
}

func (c *Config) merge(l layer) {
	if l.BuildFile != "" {
		c.BuildFile = l.BuildFile
	}
	if l.ManifestType != "" {
		c.ManifestType = l.ManifestType
	}
	if l.ManifestFile != "" {
		c.ManifestFile = l.ManifestFile
	}
	if l.VersionPath != "" {
		c.VersionPath = l.VersionPath
	}
	if l.Anchor != "" {
		c.Anchor = l.Anchor
	}
	if l.Backup != nil {
		c.Backup = *l.Backup
	}
}

// Load builds the configuration for projectRoot from defaults, grove.yml,
// .gradlever.toml and the environment. Flags are applied separately with
// ApplyFlags.
func Load(projectRoot string) (*Config, error) {
	return LoadWithGroveConfig(projectRoot, "")
}

// LoadWithGroveConfig is Load reading the grove.yml layer from groveConfig.
// An empty groveConfig searches for grove.yml from projectRoot upward, and
// finding none is not an error.
func LoadWithGroveConfig(projectRoot, groveConfig string) (*Config, error) {
	cfg := Default()

	ext, err := loadGroveExtension(projectRoot, groveConfig)
	if err != nil {
		return nil, err
	}
	cfg.merge(ext)

	fileLayer, err := loadTOML(filepath.Join(projectRoot, FileName))
	if err != nil {
		return nil, err
	}
	cfg.merge(fileLayer)

	envLayer, err := loadEnv(projectRoot)
	if err != nil {
		return nil, err
	}
	cfg.merge(envLayer)

	return cfg, nil
}

func loadGroveExtension(projectRoot, groveConfig string) (layer, error) {
	var l layer

	var groveCfg *config.Config
	var err error
	if groveConfig != "" {
		groveCfg, err = config.Load(groveConfig)
	} else {
		groveCfg, err = config.LoadFrom(projectRoot)
	}
	if err != nil {
		if groveConfig == "" && coreerrors.Is(err, coreerrors.ErrCodeConfigNotFound) {
			return l, nil
		}
		return l, fmt.Errorf("loading grove config: %w", err)
	}

	if err := groveCfg.UnmarshalExtension(ExtensionKey, &l); err != nil {
		return l, fmt.Errorf("%w: grove.yml: %v", ErrInvalidConfig, err)
	}
	return l, nil
}

func loadTOML(path string) (layer, error) {
	var l layer
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return l, nil
	}

	md, err := toml.DecodeFile(path, &l)
	if err != nil {
		return l, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return l, fmt.Errorf("%w: unknown keys in %s: %s", ErrInvalidConfig, filepath.Base(path), strings.Join(keys, ", "))
	}
	return l, nil
}

// loadEnv reads GRADLEVER_* settings. Process environment wins over .env.
func loadEnv(projectRoot string) (layer, error) {
	var l layer

	dotenv := map[string]string{}
	envPath := filepath.Join(projectRoot, ".env")
	if _, err := os.Stat(envPath); err == nil {
		values, err := godotenv.Read(envPath)
		if err != nil {
			return l, fmt.Errorf("parsing .env: %w", err)
		}
		dotenv = values
	}

	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return dotenv[key]
	}

	l.BuildFile = lookup(EnvBuildFile)
	l.ManifestType = lookup(EnvManifestType)
	l.ManifestFile = lookup(EnvManifestFile)
	l.VersionPath = lookup(EnvVersionPath)
	if v := lookup(EnvBackup); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return l, fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidConfig, EnvBackup, v)
		}
		l.Backup = &b
	}

	return l, nil
}

// BindFlags registers the config flags on fs.
func BindFlags(fs *pflag.FlagSet) {
	fs.String("build-file", "", "Build descriptor to patch, relative to the project root (default "+DefaultBuildFile+")")
	fs.String("manifest-type", "", "Version manifest kind: expo or node")
	fs.String("manifest-file", "", "Version manifest path, relative to the project root")
	fs.String("version-path", "", "Dotted property path of the version in the manifest")
	fs.String("anchor", "", "Regular expression for the insertion anchor line")
	fs.Bool("backup", false, "Keep a .bak copy of the build file")
}

// ApplyFlags overrides settings with the flags the user set explicitly.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	var l layer
	var err error

	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "build-file":
			l.BuildFile = f.Value.String()
		case "manifest-type":
			l.ManifestType = f.Value.String()
		case "manifest-file":
			l.ManifestFile = f.Value.String()
		case "version-path":
			l.VersionPath = f.Value.String()
		case "anchor":
			l.Anchor = f.Value.String()
		case "backup":
			b, perr := strconv.ParseBool(f.Value.String())
			if perr != nil {
				err = perr
				return
			}
			l.Backup = &b
		}
	})
	if err != nil {
		return err
	}

	c.merge(l)
	return nil
}

// Handler returns the manifest handler for the configured type, honoring
// manifest_file and version_path overrides.
func (c *Config) Handler() (manifest.Handler, error) {
	h, err := manifest.NewRegistry().Get(manifest.Type(c.ManifestType))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.ManifestFile == "" && c.VersionPath == "" {
		return h, nil
	}

	file, path := h.ManifestFile(), h.VersionPath()
	if c.ManifestFile != "" {
		file = c.ManifestFile
	}
	if c.VersionPath != "" {
		path = c.VersionPath
	}
	return manifest.NewJSONHandler(file, path), nil
}

// Validate checks that the settings can drive a patch.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BuildFile) == "" {
		return fmt.Errorf("%w: build_file is empty", ErrInvalidConfig)
	}
	if _, err := c.Handler(); err != nil {
		return err
	}
	if filepath.IsAbs(c.ManifestFile) {
		return fmt.Errorf("%w: manifest_file must be relative to the project root", ErrInvalidConfig)
	}
	if _, err := regexp.Compile(c.Anchor); err != nil {
		return fmt.Errorf("%w: anchor: %v", ErrInvalidConfig, err)
	}
	_, err := patcher.New(c.PatchOptions(false))
	return err
}

// BuildFilePath resolves the build file against projectRoot.
func (c *Config) BuildFilePath(projectRoot string) string {
	if filepath.IsAbs(c.BuildFile) {
		return c.BuildFile
	}
	return filepath.Join(projectRoot, c.BuildFile)
}

// PatchOptions converts the settings into patcher options.
func (c *Config) PatchOptions(dryRun bool) patcher.Options {
	opts := patcher.Options{
		Anchor: c.Anchor,
		DryRun: dryRun,
		Backup: c.Backup,
	}
	if h, err := c.Handler(); err == nil {
		opts.ManifestFile = h.ManifestFile()
		opts.VersionPath = h.VersionPath()
	}
	return opts
}

// Encode renders the settings as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := pelletier.NewEncoder(&buf)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the settings to path as TOML.
func (c *Config) Save(path string) error {
	data, err := c.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
