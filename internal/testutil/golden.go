// Package testutil provides shared test helpers for AVLisp Go tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/robert-porter/avlisp/pkg/config"
)

// ScenariosDir is the path of the scenario suites relative to the module root.
const ScenariosDir = "testdata/scenarios"

// Scenario modes.
const (
	ModeExecute = "execute"
	ModeCheck   = "check"
	ModeFormat  = "format"
)

// Suite is one YAML file of scenarios.
type Suite struct {
	Name      string     `yaml:"name"`
	Scenarios []Scenario `yaml:"scenarios"`

	Path string `yaml:"-"`
}

// Scenario is a single program with its expected outcome.
type Scenario struct {
	Name    string `yaml:"name"`
	Program string `yaml:"program"`
	// Mode is execute (default), check or format.
	Mode   string         `yaml:"mode,omitempty"`
	Config *config.Config `yaml:"config,omitempty"`
	Expect ExpectedResult `yaml:"expect"`
}

// ExpectedResult describes the expected outcome of running a scenario.
type ExpectedResult struct {
	// Kind is none, int, bool or quoted (execute mode).
	Kind string `yaml:"kind,omitempty"`
	// Output is the printed result, or the formatted source in format mode.
	Output string `yaml:"output,omitempty"`
	// Error is the diagnostic code of the failure behind a none result.
	Error string `yaml:"error,omitempty"`
	// Diagnostics lists the codes reported in check mode, in order.
	Diagnostics []string `yaml:"diagnostics,omitempty"`
	// Panics marks a host fault that escapes the interpreter.
	Panics bool `yaml:"panics,omitempty"`
}

// LoadSuite loads a scenario suite from a YAML file.
func LoadSuite(path string) (*Suite, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var s Suite
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("suite %s: %w", path, err)
	}
	s.Path = path
	for i := range s.Scenarios {
		sc := &s.Scenarios[i]
		if sc.Mode == "" {
			sc.Mode = ModeExecute
		}
		if sc.Name == "" {
			return nil, fmt.Errorf("suite %s: scenario %d has no name", path, i)
		}
		switch sc.Mode {
		case ModeExecute, ModeCheck, ModeFormat:
		default:
			return nil, fmt.Errorf("suite %s: scenario %q has unknown mode %q", path, sc.Name, sc.Mode)
		}
	}
	return &s, nil
}

// ListSuites returns all scenario files under root in sorted order.
func ListSuites(root string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(root, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}
