package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tliron/commonlog"
	"gopkg.in/yaml.v3"
)

// FileName is looked up in the workspace root when no file is given.
const FileName = ".phpscan.yaml"

type DiagnosticsConfig struct {
	// Syntax publishes the first syntax error of a document.
	Syntax bool `yaml:"syntax"`
	// Promotion publishes a hint per constructor assignment that could
	// become a promoted property.
	Promotion bool `yaml:"promotion"`
}

type Config struct {
	Diagnostics   DiagnosticsConfig `yaml:"diagnostics"`
	MaxDocuments  int               `yaml:"max_documents"`
	WorkspaceRoot string            `yaml:"-"`
}

func NewConfig() *Config {
	return &Config{
		Diagnostics:  DiagnosticsConfig{Syntax: true, Promotion: true},
		MaxDocuments: 1000,
	}
}

// Load overlays the YAML file at path onto c. A missing file leaves c as is.
// Relative paths resolve against the workspace root.
func (c *Config) Load(path string) error {
	logger := commonlog.GetLoggerf("phpscan.config")
	if path == "" {
		return nil
	}
	if !filepath.IsAbs(path) && c.WorkspaceRoot != "" {
		path = filepath.Join(c.WorkspaceRoot, path)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debugf("no config at %s", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	if c.MaxDocuments <= 0 {
		c.MaxDocuments = NewConfig().MaxDocuments
	}
	logger.Infof("loaded config from %s", path)
	return nil
}

// LoadWorkspace loads FileName from the workspace root.
func (c *Config) LoadWorkspace() error {
	if c.WorkspaceRoot == "" {
		return nil
	}
	return c.Load(FileName)
}

// ApplyInitializationOptions reads the options a client sends with
// `initialize`. A config_file is loaded first so the inline options win.
func (c *Config) ApplyInitializationOptions(opts map[string]any) error {
	if opts == nil {
		return nil
	}
	if file, ok := opts["config_file"].(string); ok && file != "" {
		if err := c.Load(file); err != nil {
			return err
		}
	}

	switch d := opts["diagnostics"].(type) {
	case bool:
		c.Diagnostics.Syntax = d
		c.Diagnostics.Promotion = d
	case map[string]any:
		if v, ok := d["syntax"].(bool); ok {
			c.Diagnostics.Syntax = v
		}
		if v, ok := d["promotion"].(bool); ok {
			c.Diagnostics.Promotion = v
		}
	}

	// JSON numbers decode as float64
	switch n := opts["max_documents"].(type) {
	case float64:
		if n > 0 {
			c.MaxDocuments = int(n)
		}
	case int:
		if n > 0 {
			c.MaxDocuments = n
		}
	}
	return nil
}
