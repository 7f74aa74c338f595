// Package template loads component trees from YAML scene files. A
// template names component types registered in a factory Registry,
// sets initial property values through the erased property surface,
// and declares dynamic bindings between named properties.
//
// # Format
//
//	version: 1.0.0
//	components:
//	  - type: hud.Label
//	    name: HealthLabel
//	    properties:
//	      text: "..."
//	    bindings:
//	      - source: health
//	        target: text
//	        lookup: parent
//	        converter: "format:Health: %.0f"
//	    children: []
//
// The version field gates compatibility: it must be valid semver in
// the v1 line and not newer than FormatVersion.
package template

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/jddutz/nexus/pkg/errors"
)

// FormatVersion is the newest template format this engine reads.
const FormatVersion = "v1.2.0"

// Template is a parsed scene file.
type Template struct {
	Version    string          `yaml:"version"`
	Components []ComponentSpec `yaml:"components"`
}

// ComponentSpec declares one node of the tree.
type ComponentSpec struct {
	Type       string          `yaml:"type"`
	Name       string          `yaml:"name,omitempty"`
	Properties map[string]any  `yaml:"properties,omitempty"`
	Bindings   []BindingSpec   `yaml:"bindings,omitempty"`
	Children   []ComponentSpec `yaml:"children,omitempty"`
}

// BindingSpec declares a dynamic binding on its component. Fields
// mirror binding.DynamicConfig.
type BindingSpec struct {
	Source    string `yaml:"source"`
	Target    string `yaml:"target"`
	Lookup    string `yaml:"lookup,omitempty"`
	Name      string `yaml:"name,omitempty"`
	Converter string `yaml:"converter,omitempty"`
	TwoWay    bool   `yaml:"two_way,omitempty"`
}

// Parse decodes and validates a scene template. Schema and version
// violations fail here, before any component is constructed.
func Parse(data []byte) (*Template, error) {
	var t Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, templateErr("template.Parse", fmt.Errorf("failed to parse template: %w", err))
	}
	if err := checkVersion(t.Version); err != nil {
		return nil, templateErr("template.Parse", err)
	}
	if len(t.Components) == 0 {
		return nil, templateErr("template.Parse", fmt.Errorf("template declares no components"))
	}
	for i := range t.Components {
		if err := checkSpec(&t.Components[i]); err != nil {
			return nil, templateErr("template.Parse", err)
		}
	}
	return &t, nil
}

// Load reads and parses the scene template at path.
func Load(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, templateErr("template.Load", fmt.Errorf("failed to read template: %w", err))
	}
	return Parse(data)
}

// checkVersion enforces the format gate. The yaml field may omit the
// "v" prefix.
func checkVersion(v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("template has no version")
	}
	canon := v
	if !strings.HasPrefix(canon, "v") {
		canon = "v" + canon
	}
	if !semver.IsValid(canon) {
		return fmt.Errorf("template version %q is not valid semver", v)
	}
	if semver.Major(canon) != semver.Major(FormatVersion) {
		return fmt.Errorf("template version %q is outside the supported %s format line", v, semver.Major(FormatVersion))
	}
	if semver.Compare(canon, FormatVersion) > 0 {
		return fmt.Errorf("template version %q is newer than the supported format %s", v, FormatVersion)
	}
	return nil
}

// checkSpec validates structural constraints that do not need the
// factory registry.
func checkSpec(spec *ComponentSpec) error {
	if strings.TrimSpace(spec.Type) == "" {
		return fmt.Errorf("component %q has no type", spec.Name)
	}
	for _, b := range spec.Bindings {
		if strings.TrimSpace(b.Source) == "" || strings.TrimSpace(b.Target) == "" {
			return fmt.Errorf("component %q declares a binding without source or target", displayName(spec))
		}
	}
	for i := range spec.Children {
		if err := checkSpec(&spec.Children[i]); err != nil {
			return err
		}
	}
	return nil
}

// displayName names a spec in diagnostics, falling back to its type
// for anonymous components.
func displayName(spec *ComponentSpec) string {
	if spec.Name != "" {
		return spec.Name
	}
	return spec.Type
}

func templateErr(op string, err error) error {
	return &errors.Error{Op: op, Kind: errors.KindTemplate, Err: err}
}
