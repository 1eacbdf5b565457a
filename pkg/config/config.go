// Package config loads AVLisp interpreter settings from YAML files.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/robert-porter/avlisp/pkg/diagnostics"
)

const (
	// ProjectFile is looked up in the project directory.
	ProjectFile = ".avlisp.yaml"
	// HomeEnv overrides the user configuration directory (default ~/.avlisp).
	HomeEnv = "AVLISP_HOME"

	DefineYieldsNode  = "node"
	DefineYieldsValue = "value"
)

// Config holds interpreter settings.
type Config struct {
	MaxDepth     int      `yaml:"max_depth"`
	DefineYields string   `yaml:"define_yields"`
	Trace        bool     `yaml:"trace"`
	RunID        string   `yaml:"run_id"`
	Builtins     Builtins `yaml:"builtins"`

	// Path is the file the settings came from; empty for defaults.
	Path string `yaml:"-"`
}

// Builtins restricts which built-in procedures are bound.
type Builtins struct {
	Deny []string `yaml:"deny"`
}

// Error reports an unreadable or invalid configuration file.
type Error struct {
	Path   string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config %s: %s", e.Path, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Diagnostic() diagnostics.Diagnostic {
	return diagnostics.MakeDiag(diagnostics.EConfig, e.Error(), e.Path, "")
}

// Default returns the built-in settings: unbounded depth, define yields its node.
func Default() *Config {
	return &Config{DefineYields: DefineYieldsNode, RunID: "cli"}
}

// DefineYieldsValue reports whether define forms should evaluate to the bound value.
func (c *Config) DefineYieldsValue() bool {
	return c.DefineYields == DefineYieldsValue
}

// Load resolves settings for projectDir.
// Precedence: project (.avlisp.yaml) → user ($AVLISP_HOME/config.yaml, default
// ~/.avlisp/config.yaml) → defaults. A file that exists but cannot be parsed
// is an error rather than a fallthrough.
func Load(projectDir string) (*Config, error) {
	projectPath := filepath.Join(projectDir, ProjectFile)
	if cfg, err := LoadFile(projectPath); err == nil {
		return cfg, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	if dir, err := userDir(); err == nil {
		userPath := filepath.Join(dir, "config.yaml")
		if cfg, err := LoadFile(userPath); err == nil {
			return cfg, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	return Default(), nil
}

// LoadFile reads a single YAML configuration file. Unset fields keep their
// default values. Unknown keys are rejected.
func LoadFile(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg := Default()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, &Error{Path: path, Reason: "parse: " + err.Error(), Err: err}
	}
	cfg.Path = path
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var issues []string
	if c.MaxDepth < 0 {
		issues = append(issues, "max_depth must not be negative")
	}
	switch c.DefineYields {
	case DefineYieldsNode, DefineYieldsValue:
	default:
		issues = append(issues, fmt.Sprintf("define_yields must be %q or %q, got %q", DefineYieldsNode, DefineYieldsValue, c.DefineYields))
	}
	for i, name := range c.Builtins.Deny {
		if strings.TrimSpace(name) == "" {
			issues = append(issues, fmt.Sprintf("builtins.deny[%d] must be a non-empty name", i))
		}
	}
	if len(issues) > 0 {
		return &Error{Path: c.Path, Reason: strings.Join(issues, "; ")}
	}
	return nil
}

func userDir() (string, error) {
	if home := strings.TrimSpace(os.Getenv(HomeEnv)); home != "" {
		return home, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}
	return filepath.Join(home, ".avlisp"), nil
}
