// Package cases reads batch grading files and grades them concurrently.
//
// A case file is YAML:
//
//	params:
//	  strict_syntax: false
//	cases:
//	  - name: speed
//	    response: "2 km/h"
//	    answer: "2*kilo*metre/hour"
//	    expect: true
//
// Case params override file params, which override configured defaults.
package cases

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is a parsed case file.
type File struct {
	Params map[string]any `yaml:"params"`
	Cases  []Case         `yaml:"cases"`
}

// Case is one response to grade.
type Case struct {
	Name     string         `json:"name" yaml:"name"`
	Response string         `json:"response" yaml:"response"`
	Answer   string         `json:"answer,omitempty" yaml:"answer"`
	Params   map[string]any `json:"params,omitempty" yaml:"params"`
	// Expect is the expected verdict; nil means none.
	Expect *bool `json:"expect,omitempty" yaml:"expect"`
	// Preview grades nothing and records how the response is read.
	Preview bool `json:"preview,omitempty" yaml:"preview"`
}

// Errors returned by Parse.
var (
	ErrNoCases   = errors.New("case file has no cases")
	ErrNoAnswer  = errors.New("case has no answer")
	ErrDuplicate = errors.New("duplicate case name")
)

// Load reads a case file from disk.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("read case file: %w", err)
	}
	f, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes and checks a case file. Unknown fields are errors so a
// misspelt key does not silently drop a parameter.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoCases
		}
		return nil, fmt.Errorf("parse case file: %w", err)
	}
	if len(f.Cases) == 0 {
		return nil, ErrNoCases
	}

	seen := make(map[string]int, len(f.Cases))
	for i := range f.Cases {
		c := &f.Cases[i]
		if c.Name == "" {
			c.Name = fmt.Sprintf("case %d", i+1)
		}
		if prev, ok := seen[c.Name]; ok {
			return nil, fmt.Errorf("%w %q (cases %d and %d)", ErrDuplicate, c.Name, prev+1, i+1)
		}
		seen[c.Name] = i
		if c.Answer == "" && !c.Preview {
			return nil, fmt.Errorf("%s: %w", c.Name, ErrNoAnswer)
		}
	}
	return &f, nil
}
