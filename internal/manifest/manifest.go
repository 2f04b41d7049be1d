// Package manifest reads, diffs and rewrites a mod pack's manifest.json and
// its README changelog.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/git-pkgs/modsync/internal/core"
)

const (
	keyVersion      = "version_number"
	keyDependencies = "dependencies"
)

var errTrailingData = errors.New("unexpected data after manifest object")

// Manifest is a JSON object that keeps its fields in document order.
// Only version_number and dependencies are interpreted; every other field
// is written back verbatim.
type Manifest struct {
	keys   []string
	fields map[string]json.RawMessage
}

// Load reads and parses the manifest at path.
func Load(fsys afero.Fs, path string) (*Manifest, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, &core.ManifestError{Op: "read", Path: path, Err: err}
	}
	m, err := Parse(data)
	if err != nil {
		return nil, &core.ManifestError{Op: "parse", Path: path, Err: err}
	}
	return m, nil
}

// Parse decodes a manifest document. A repeated key keeps its first
// position and its last value.
func Parse(data []byte) (*Manifest, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	m := &Manifest{fields: make(map[string]json.RawMessage)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		if _, seen := m.fields[key]; !seen {
			m.keys = append(m.keys, key)
		}
		m.fields[key] = raw
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errTrailingData
	}

	if raw, ok := m.fields[keyVersion]; ok {
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("field %q: %w", keyVersion, err)
		}
	}
	if raw, ok := m.fields[keyDependencies]; ok {
		var deps []string
		if err := json.Unmarshal(raw, &deps); err != nil {
			return nil, fmt.Errorf("field %q: %w", keyDependencies, err)
		}
	}
	return m, nil
}

// Version returns version_number, or "" when it is absent.
func (m *Manifest) Version() string {
	var v string
	if raw, ok := m.fields[keyVersion]; ok {
		_ = json.Unmarshal(raw, &v)
	}
	return v
}

// Dependencies returns the recorded dependency full names.
func (m *Manifest) Dependencies() []string {
	var deps []string
	if raw, ok := m.fields[keyDependencies]; ok {
		_ = json.Unmarshal(raw, &deps)
	}
	return deps
}

// SetVersion replaces version_number.
func (m *Manifest) SetVersion(v string) error {
	return m.set(keyVersion, v)
}

// SetDependencies replaces the dependency list.
func (m *Manifest) SetDependencies(deps core.DependencySet) error {
	if deps == nil {
		deps = core.DependencySet{}
	}
	return m.set(keyDependencies, []string(deps))
}

func (m *Manifest) set(key string, value any) error {
	raw, err := encode(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if _, ok := m.fields[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.fields[key] = raw
	return nil
}

// Marshal renders the manifest with two-space indentation and a trailing newline.
func (m *Manifest) Marshal() ([]byte, error) {
	var compact bytes.Buffer
	compact.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			compact.WriteByte(',')
		}
		k, err := encode(key)
		if err != nil {
			return nil, err
		}
		compact.Write(k)
		compact.WriteByte(':')
		if err := json.Compact(&compact, m.fields[key]); err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
	}
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// encode marshals v without HTML escaping, so text such as "<3" or "&"
// survives unchanged.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
