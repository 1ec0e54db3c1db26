// Package config loads and validates the site configuration. It is a public
// package because compiled plugins receive *Config in every hook signature.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the site configuration.
type Config struct {
	SiteTitle       string                      `yaml:"site_title"`
	SiteDescription string                      `yaml:"site_description"`
	BaseURL         string                      `yaml:"base_url"`
	OutputDir       string                      `yaml:"output_dir"`
	PagesDir        string                      `yaml:"pages_dir"`
	TemplatesDir    string                      `yaml:"templates_dir"`
	StaticDir       string                      `yaml:"static_dir"`
	AssetsDir       string                      `yaml:"assets_dir"`
	DataDir         string                      `yaml:"data_dir"`
	PluginsDir      string                      `yaml:"plugins_dir"`
	Collections     map[string]CollectionConfig `yaml:"collections,omitempty"`
	RSSCollection   string                      `yaml:"rss_collection,omitempty"`

	// ConfigPath records where the configuration was loaded from, for
	// relative lookups and watch registration. Not read from YAML.
	ConfigPath string `yaml:"-"`
}

// CollectionConfig defines one named content collection.
type CollectionConfig struct {
	Path   string `yaml:"path"`
	Output string `yaml:"output,omitempty"`
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	if err := loadEnvFile(); err != nil {
		fmt.Fprintf(os.Stderr, "Note: .env file couldn't be loaded: %v\n", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyDefaults()
	config.ConfigPath = configPath

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.SiteTitle == "" {
		c.SiteTitle = "My Static Site"
	}
	if c.OutputDir == "" {
		c.OutputDir = "./public"
	}
	if c.PagesDir == "" {
		c.PagesDir = "./pages"
	}
	if c.TemplatesDir == "" {
		c.TemplatesDir = "./templates"
	}
	if c.StaticDir == "" {
		c.StaticDir = "./static"
	}
	if c.AssetsDir == "" {
		c.AssetsDir = "./assets"
	}
	if c.RSSCollection == "" {
		c.RSSCollection = "posts"
	}
	for name, coll := range c.Collections {
		if coll.Output == "" {
			coll.Output = name
			c.Collections[name] = coll
		}
	}
}

// Validate checks the configuration for internally inconsistent values.
func (c *Config) Validate() error {
	if c.BaseURL != "" && !strings.Contains(c.BaseURL, "://") {
		return fmt.Errorf("base_url must be an absolute URL, got %q", c.BaseURL)
	}
	for name, coll := range c.Collections {
		if coll.Path == "" {
			return fmt.Errorf("collection %q has no path", name)
		}
	}
	return nil
}

// CollectionNames returns the configured collection names in sorted order,
// so every consumer iterates collections deterministically.
func (c *Config) CollectionNames() []string {
	names := make([]string, 0, len(c.Collections))
	for name := range c.Collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WatchRoots lists every directory whose changes should trigger a rebuild.
func (c *Config) WatchRoots() []string {
	roots := []string{
		c.PagesDir,
		c.TemplatesDir,
		c.StaticDir,
		c.AssetsDir,
	}
	if c.DataDir != "" {
		roots = append(roots, c.DataDir)
	}
	if c.PluginsDir != "" {
		roots = append(roots, c.PluginsDir)
	}
	for _, name := range c.CollectionNames() {
		roots = append(roots, c.Collections[name].Path)
	}
	return roots
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := `site_title: "My Static Site"
site_description: "A site built with sitegen"
base_url: "http://localhost:8000"
output_dir: "./public"
pages_dir: "./pages"
templates_dir: "./templates"
static_dir: "./static"
assets_dir: "./assets"
data_dir: "./_data"
plugins_dir: "./plugins"
collections:
  posts:
    path: "./posts"
    output: "blog"
rss_collection: "posts"
`

	return os.WriteFile(configPath, []byte(example), 0o644)
}

// loadEnvFile loads environment variables from .env/.env.local files. It
// attempts each supported filename in order and stops at the first parsed
// file; having no env file at all is not an error. Existing process
// environment variables are not overwritten.
func loadEnvFile() error {
	envPaths := []string{".env", ".env.local"}
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		return godotenv.Load(envPath)
	}
	return nil
}
