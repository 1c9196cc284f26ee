package model

// FieldType is the simplified enum for the controls a form renders.
type FieldType string

const (
	FieldTypeSelect FieldType = "select"
	FieldTypeNumber FieldType = "number"
)

// Option is a single label/code choice of a select field.
type Option struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Field models an individual control inside a generated form. Struct fields
// are annotated so renderers can serialise them directly when needed.
type Field struct {
	Name        string    `json:"name"`
	Type        FieldType `json:"type"`
	Label       string    `json:"label,omitempty"`
	Description string    `json:"description,omitempty"`
	Integer     bool      `json:"integer,omitempty"`
	Required    bool      `json:"required"`
	Minimum     *float64  `json:"minimum,omitempty"`
	Maximum     *float64  `json:"maximum,omitempty"`
	Options     []Option  `json:"options,omitempty"`
}

// OptionLabel returns the label whose code equals value.
func (f Field) OptionLabel(value float64) (string, bool) {
	for _, opt := range f.Options {
		if opt.Value == value {
			return opt.Label, true
		}
	}
	return "", false
}

// FormModel is the top-level representation renderers consume.
type FormModel struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Endpoint    string  `json:"endpoint"`
	SubmitLabel string  `json:"submitLabel"`
	Fields      []Field `json:"fields"`
}

// Field returns the named field.
func (m FormModel) Field(name string) (Field, bool) {
	for _, field := range m.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Names lists the rendered field names in order.
func (m FormModel) Names() []string {
	out := make([]string, 0, len(m.Fields))
	for _, field := range m.Fields {
		out = append(out, field.Name)
	}
	return out
}
