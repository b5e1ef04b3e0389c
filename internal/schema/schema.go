// Target schema: an externally supplied ordered field -> default mapping,
// loaded once at startup, used to project any assembled record onto exactly
// the required output shape. Field order in the file is the output order,
// so the file is parsed with a token stream instead of a map.

package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// ConfigError means the output contract is undefined; the process must not
// run past startup with one of these.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("target schema %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Field is one schema entry: output name plus the default used when the
// record has no usable value.
type Field struct {
	Name    string
	Default any
}

// TargetSchema is the ordered field list. Immutable after Load.
type TargetSchema struct {
	fields []Field
}

// Load reads and parses the schema file. Any problem is a ConfigError.
func Load(path string) (*TargetSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	s, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	return s, nil
}

// Parse decodes a JSON object of key: defaultValue pairs, preserving key
// order. The top level must be an object with at least one field.
func Parse(r io.Reader) (*TargetSchema, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("reading schema: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("schema must be a JSON object of key: defaultValue pairs")
	}

	var fields []Field
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading schema key: %w", err)
		}
		key := keyTok.(string)

		var def any
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("reading default for %q: %w", key, err)
		}
		fields = append(fields, Field{Name: key, Default: def})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("reading schema: %w", err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("schema defines no fields")
	}
	return &TargetSchema{fields: fields}, nil
}

// Fields returns the ordered field list; callers must not mutate it.
func (s *TargetSchema) Fields() []Field {
	return s.fields
}

// Project maps an arbitrary record onto exactly the schema: every schema
// key present, extras dropped, order preserved, defaults filled for
// missing values. Empty strings and nil are both treated as missing.
func (s *TargetSchema) Project(record map[string]any) *Projection {
	values := make(map[string]any, len(s.fields))
	for _, f := range s.fields {
		v, ok := record[f.Name]
		if !ok || isMissing(v) {
			values[f.Name] = f.Default
			continue
		}
		values[f.Name] = v
	}
	return &Projection{schema: s, values: values}
}

func isMissing(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// Projection is a record forced into the schema's shape. Marshalling
// emits the fields in schema order.
type Projection struct {
	schema *TargetSchema
	values map[string]any
}

// Get returns the projected value for a field name.
func (p *Projection) Get(name string) any {
	return p.values[name]
}

// Keys returns the field names in output order.
func (p *Projection) Keys() []string {
	keys := make([]string, 0, len(p.schema.fields))
	for _, f := range p.schema.fields {
		keys = append(keys, f.Name)
	}
	return keys
}

// MarshalJSON writes the projection as a JSON object in schema order.
func (p *Projection) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range p.schema.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(p.values[f.Name])
		if err != nil {
			return nil, fmt.Errorf("marshalling field %q: %w", f.Name, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
