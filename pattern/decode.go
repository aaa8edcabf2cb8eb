package pattern

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// document is the on-disk shape of a pattern library.
type document struct {
	N        int          `yaml:"n"`
	AllowAll bool         `yaml:"allow_all"`
	Patterns []docPattern `yaml:"patterns"`
	Rules    []docRule    `yaml:"rules"`
}

type docPattern struct {
	Name    string  `yaml:"name"`
	Weight  float64 `yaml:"weight"`
	Content any     `yaml:"content"`
}

type docRule struct {
	A         string `yaml:"a"`
	B         string `yaml:"b"`
	DX        int    `yaml:"dx"`
	DY        int    `yaml:"dy"`
	Symmetric bool   `yaml:"symmetric"`
}

// Decode reads a YAML library document:
//
//	n: 2
//	allow_all: false
//	patterns:
//	  - {name: land, weight: 3, content: "#"}
//	  - {name: sea, weight: 1, content: "~"}
//	rules:
//	  - {a: land, b: sea, dx: 1, dy: 0, symmetric: true}
//
// Rules reference patterns by name. Pattern names must be unique.
// A missing n defaults to 1.
//
// Errors: ErrDecode for malformed YAML, ErrUnknownPattern for rules naming
// absent patterns, plus every NewLibrary error.
func Decode(r io.Reader) (*Library, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("Decode: %w: %v", ErrDecode, err)
	}
	if doc.N == 0 {
		doc.N = 1
	}

	index := make(map[string]ID, len(doc.Patterns))
	patterns := make([]Pattern, len(doc.Patterns))
	for i, p := range doc.Patterns {
		if p.Name == "" {
			p.Name = fmt.Sprintf("p%d", i)
		}
		if _, dup := index[p.Name]; dup {
			return nil, errorf("Decode", ErrDecode, "duplicate pattern name %q", p.Name)
		}
		index[p.Name] = ID(i)
		patterns[i] = Pattern{Name: p.Name, Weight: p.Weight, Content: p.Content}
	}

	compat := CompatibleFunc(AllCompatible)
	if !doc.AllowAll {
		rules := NewRules()
		for _, dr := range doc.Rules {
			a, ok := index[dr.A]
			if !ok {
				return nil, errorf("Decode", ErrUnknownPattern, "rule references %q", dr.A)
			}
			b, ok := index[dr.B]
			if !ok {
				return nil, errorf("Decode", ErrUnknownPattern, "rule references %q", dr.B)
			}
			if dr.Symmetric {
				rules.AllowSymmetric(a, b, dr.DX, dr.DY)
			} else {
				rules.Allow(a, b, dr.DX, dr.DY)
			}
		}
		compat = rules.Compatible
	}

	return NewLibrary(doc.N, patterns, compat)
}
