// Package labels decodes the label mapping table published by the prediction
// service: for every categorical field, the human readable labels and the codes
// the models expect. Mapping order is preserved exactly as served.
package labels

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrNotMapping is returned when the payload (or one of its fields) is not an
// object.
var ErrNotMapping = errors.New("labels: expected a mapping")

// Option is a single label/code pair.
type Option struct {
	Label string
	Code  float64
}

// Field lists the options of one categorical field in document order.
type Field struct {
	Name    string
	Options []Option
}

// LabelFor returns the label mapped to code.
func (f Field) LabelFor(code float64) (string, bool) {
	for _, opt := range f.Options {
		if opt.Code == code {
			return opt.Label, true
		}
	}
	return "", false
}

// CodeFor returns the code mapped to label.
func (f Field) CodeFor(label string) (float64, bool) {
	for _, opt := range f.Options {
		if opt.Label == label {
			return opt.Code, true
		}
	}
	return 0, false
}

// Mappings is the ordered field -> label -> code table. The zero value is an
// empty table.
type Mappings struct {
	fields []Field
	index  map[string]int
}

// New builds Mappings from fields, keeping their order. Later duplicates
// replace earlier ones in place.
func New(fields ...Field) Mappings {
	var m Mappings
	for _, field := range fields {
		m.put(field)
	}
	return m
}

// Decode parses the JSON mapping document. Field and label order follow the
// document; a repeated label keeps its first position and its last code.
func Decode(data []byte) (Mappings, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if err := expectObject(dec); err != nil {
		return Mappings{}, err
	}
	out := Mappings{}
	for dec.More() {
		name, err := readKey(dec)
		if err != nil {
			return Mappings{}, err
		}
		if err := expectObject(dec); err != nil {
			return Mappings{}, fmt.Errorf("labels: field %q: %w", name, err)
		}
		field, err := readField(dec, name)
		if err != nil {
			return Mappings{}, err
		}
		out.put(field)
	}
	if _, err := dec.Token(); err != nil {
		return Mappings{}, fmt.Errorf("labels: decode: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Mappings{}, errors.New("labels: decode: trailing data after mapping")
	}
	return out, nil
}

func readField(dec *json.Decoder, name string) (Field, error) {
	field := Field{Name: name}
	seen := map[string]int{}
	for dec.More() {
		label, err := readKey(dec)
		if err != nil {
			return Field{}, err
		}
		tok, err := dec.Token()
		if err != nil {
			return Field{}, fmt.Errorf("labels: decode: %w", err)
		}
		code, err := toCode(tok)
		if err != nil {
			return Field{}, fmt.Errorf("labels: field %q label %q: %w", name, label, err)
		}
		if idx, ok := seen[label]; ok {
			field.Options[idx].Code = code
			continue
		}
		seen[label] = len(field.Options)
		field.Options = append(field.Options, Option{Label: label, Code: code})
	}
	if _, err := dec.Token(); err != nil {
		return Field{}, fmt.Errorf("labels: decode: %w", err)
	}
	return field, nil
}

func expectObject(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("labels: decode: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return ErrNotMapping
	}
	return nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("labels: decode: %w", err)
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("labels: decode: unexpected token %v", tok)
	}
	return key, nil
}

func toCode(tok json.Token) (float64, error) {
	var raw string
	switch v := tok.(type) {
	case json.Number:
		raw = v.String()
	case string:
		raw = strings.TrimSpace(v)
	default:
		return 0, fmt.Errorf("code %v is not numeric", tok)
	}
	code, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("code %q is not numeric", raw)
	}
	return code, nil
}

func (m *Mappings) put(field Field) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if idx, ok := m.index[field.Name]; ok {
		m.fields[idx] = field
		return
	}
	m.index[field.Name] = len(m.fields)
	m.fields = append(m.fields, field)
}

// Len reports the number of fields.
func (m Mappings) Len() int {
	return len(m.fields)
}

// Fields returns a copy of the fields in document order.
func (m Mappings) Fields() []Field {
	out := make([]Field, len(m.fields))
	copy(out, m.fields)
	return out
}

// Names returns the field names in document order.
func (m Mappings) Names() []string {
	out := make([]string, 0, len(m.fields))
	for _, field := range m.fields {
		out = append(out, field.Name)
	}
	return out
}

// Field returns the named field.
func (m Mappings) Field(name string) (Field, bool) {
	idx, ok := m.index[name]
	if !ok {
		return Field{}, false
	}
	return m.fields[idx], true
}
