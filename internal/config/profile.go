package config

import (
	"fmt"
	"os"

	"github.com/dgallion1/orgview/internal/org"
	"github.com/dgallion1/orgview/internal/render"
	"gopkg.in/yaml.v3"
)

// Profile is a saved set of render settings:
//
//	options:
//	  toc: 2
//	  num: nil
//	export:
//	  header_offset: 2
//	  class_prefix: org-
type Profile struct {
	Options map[string]any       `yaml:"options"`
	Export  render.ExportOptions `yaml:"export"`
}

// LoadProfile reads a YAML profile. Export settings missing from the file
// keep their defaults.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	return ParseProfile(data)
}

func ParseProfile(data []byte) (*Profile, error) {
	p := &Profile{Export: render.DefaultExportOptions()}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	return p, nil
}

// Apply sets the profile's document options on opts. String values use
// the #+options: value syntax, so t and nil are booleans.
func (p *Profile) Apply(opts *org.Options) {
	opts.Apply(p.Options)
}
