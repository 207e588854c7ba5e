// Package manifest parses package declaration files and answers dependency
// membership queries. Version strings are carried verbatim and never
// interpreted.
package manifest

import (
	"encoding/json"
	"fmt"
)

// Filename is the manifest expected at the repository root.
const Filename = "package.json"

// Manifest is the parsed package declaration file. Both dependency maps are
// optional in the source document.
type Manifest struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// Parse decodes a manifest document.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: parse %s: %w", Filename, err)
	}
	return &m, nil
}

// Has reports whether pkg is declared as a regular or development dependency.
// The two maps are treated as a simple key union; neither takes precedence.
func (m *Manifest) Has(pkg string) bool {
	if m == nil {
		return false
	}
	if _, ok := m.Dependencies[pkg]; ok {
		return true
	}
	_, ok := m.DevDependencies[pkg]
	return ok
}

// Dependencies returns the declaration flag for each required package.
func (m *Manifest) DependencyFlags(required []string) map[string]bool {
	flags := make(map[string]bool, len(required))
	for _, pkg := range required {
		flags[pkg] = m.Has(pkg)
	}
	return flags
}
