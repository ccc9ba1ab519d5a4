package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tamirms/strhash"
)

// scenario is one benchmark run.
type scenario struct {
	Name    string `yaml:"name"`
	Keys    int    `yaml:"keys"`
	Width   int    `yaml:"width"`
	Hash    string `yaml:"hash"`
	Workers int    `yaml:"workers"`
	Wide    bool   `yaml:"wide"`
	Queries int    `yaml:"queries"`
}

// scenarioFile is the top level of a -scenario YAML file:
//
//	defaults:
//	  queries: 1000000
//	runs:
//	  - name: symbols-12
//	    keys: 20000
//	    width: 12
//	    hash: djb1
//	  - name: wide-xxh3
//	    keys: 200000
//	    width: 16
//	    hash: xxh3
//	    wide: true
//	    workers: 4
type scenarioFile struct {
	Defaults scenario   `yaml:"defaults"`
	Runs     []scenario `yaml:"runs"`
}

// supportedWidths lists the key widths the tool is compiled for.
var supportedWidths = []int{4, 8, 10, 12, 16, 24, 32, 64}

// loadScenarios parses a scenario file and fills unset fields from its
// defaults section, then from base.
func loadScenarios(data []byte, base scenario) ([]scenario, error) {
	var f scenarioFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse scenario file: %w", err)
	}
	if len(f.Runs) == 0 {
		return nil, fmt.Errorf("scenario file has no runs")
	}
	defaults := f.Defaults.withDefaults(base)
	runs := make([]scenario, len(f.Runs))
	for i, r := range f.Runs {
		runs[i] = r.withDefaults(defaults)
		if runs[i].Name == "" {
			runs[i].Name = fmt.Sprintf("run-%d", i+1)
		}
		if err := runs[i].validate(); err != nil {
			return nil, fmt.Errorf("run %q: %w", runs[i].Name, err)
		}
	}
	return runs, nil
}

func readScenarios(path string, base scenario) ([]scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	return loadScenarios(data, base)
}

func (s scenario) withDefaults(d scenario) scenario {
	if s.Keys == 0 {
		s.Keys = d.Keys
	}
	if s.Width == 0 {
		s.Width = d.Width
	}
	if s.Hash == "" {
		s.Hash = d.Hash
	}
	if s.Workers == 0 {
		s.Workers = d.Workers
	}
	if !s.Wide {
		s.Wide = d.Wide
	}
	if s.Queries == 0 {
		s.Queries = d.Queries
	}
	return s
}

func (s scenario) validate() error {
	if s.Keys < 1 {
		return fmt.Errorf("keys must be positive, got %d", s.Keys)
	}
	if s.Queries < 1 {
		return fmt.Errorf("queries must be positive, got %d", s.Queries)
	}
	if _, err := strhash.ParseHashFunc(s.Hash); err != nil {
		return err
	}
	for _, w := range supportedWidths {
		if s.Width == w {
			return nil
		}
	}
	return fmt.Errorf("unsupported key width %d (supported: %v)", s.Width, supportedWidths)
}
