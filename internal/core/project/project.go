// Package project reads and writes the package.json manifest of the site being deployed.
package project

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestName is the project manifest file.
const ManifestName = "package.json"

// Manifest is the subset of package.json the deployer cares about. Every
// other field is carried through untouched when the manifest is saved.
type Manifest struct {
	Name            string
	Homepage        string
	Scripts         map[string]string
	Dependencies    map[string]string
	DevDependencies map[string]string

	raw map[string]json.RawMessage
}

// NewManifest returns an empty Manifest with initialized maps.
func NewManifest() *Manifest {
	return &Manifest{
		Scripts:         make(map[string]string),
		Dependencies:    make(map[string]string),
		DevDependencies: make(map[string]string),
		raw:             make(map[string]json.RawMessage),
	}
}

// Exists reports whether dir contains a manifest.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ManifestName))
	return err == nil
}

// Load reads package.json from dir. A missing file is returned as an error
// satisfying errors.Is(err, os.ErrNotExist).
func Load(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes manifest content.
func Parse(data []byte) (*Manifest, error) {
	m := NewManifest()
	if err := json.Unmarshal(data, &m.raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ManifestName, err)
	}
	if m.raw == nil {
		// The document was the literal null.
		m.raw = make(map[string]json.RawMessage)
	}

	fields := []struct {
		key string
		dst any
	}{
		{"name", &m.Name},
		{"homepage", &m.Homepage},
		{"scripts", &m.Scripts},
		{"dependencies", &m.Dependencies},
		{"devDependencies", &m.DevDependencies},
	}
	for _, f := range fields {
		v, ok := m.raw[f.key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, f.dst); err != nil {
			return nil, fmt.Errorf("failed to parse %q in %s: %w", f.key, ManifestName, err)
		}
	}
	if m.Scripts == nil {
		m.Scripts = make(map[string]string)
	}
	if m.Dependencies == nil {
		m.Dependencies = make(map[string]string)
	}
	if m.DevDependencies == nil {
		m.DevDependencies = make(map[string]string)
	}
	return m, nil
}

// HasDependency reports whether name is declared in dependencies or devDependencies.
func (m *Manifest) HasDependency(name string) bool {
	if _, ok := m.Dependencies[name]; ok {
		return true
	}
	_, ok := m.DevDependencies[name]
	return ok
}

// HasScripts reports whether every named script is declared with a non-empty body.
func (m *Manifest) HasScripts(names ...string) bool {
	for _, name := range names {
		if m.Scripts[name] == "" {
			return false
		}
	}
	return true
}

// SetScript declares or replaces a script.
func (m *Manifest) SetScript(name, body string) {
	if m.Scripts == nil {
		m.Scripts = make(map[string]string)
	}
	m.Scripts[name] = body
}

// Save writes the manifest to dir as two-space indented JSON.
func (m *Manifest) Save(dir string) error {
	data, err := m.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, ManifestName), data, 0644)
}

// Marshal encodes the manifest, merging the modelled fields back into the
// fields that were not modelled.
func (m *Manifest) Marshal() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(m.raw)+5)
	for k, v := range m.raw {
		out[k] = v
	}

	set := func(key string, v any, keep bool) error {
		if !keep {
			return nil
		}
		b, err := encode(v, "")
		if err != nil {
			return fmt.Errorf("failed to encode %q: %w", key, err)
		}
		out[key] = b
		return nil
	}
	_, hadScripts := m.raw["scripts"]
	_, hadDeps := m.raw["dependencies"]
	_, hadDevDeps := m.raw["devDependencies"]
	_, hadName := m.raw["name"]
	_, hadHomepage := m.raw["homepage"]

	if err := set("name", m.Name, hadName || m.Name != ""); err != nil {
		return nil, err
	}
	if err := set("homepage", m.Homepage, hadHomepage || m.Homepage != ""); err != nil {
		return nil, err
	}
	if err := set("scripts", m.Scripts, hadScripts || len(m.Scripts) > 0); err != nil {
		return nil, err
	}
	if err := set("dependencies", m.Dependencies, hadDeps || len(m.Dependencies) > 0); err != nil {
		return nil, err
	}
	if err := set("devDependencies", m.DevDependencies, hadDevDeps || len(m.DevDependencies) > 0); err != nil {
		return nil, err
	}

	data, err := encode(out, "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", ManifestName, err)
	}
	return data, nil
}

// encode is json.Marshal without HTML escaping, so scripts like "a && b"
// are written verbatim. The result ends with a newline.
func encode(v any, indent string) ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
