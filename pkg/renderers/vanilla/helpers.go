package vanilla

import (
	"strings"

	"github.com/goliatone/go-pricegen/pkg/model"
	"github.com/goliatone/go-pricegen/pkg/render"
)

type optionView struct {
	Label    string
	Value    string
	Selected bool
}

type fieldView struct {
	ID          string
	Name        string
	Label       string
	Description string
	Value       string
	HasValue    bool
	Error       string
	Select      bool
	Integer     bool
	Required    bool
	Min         string
	Max         string
	Options     []optionView
}

func controlID(formID, name string) string {
	return "pg-" + strings.TrimSpace(formID) + "-" + strings.TrimSpace(name)
}

// formClass keeps the class names the stylesheet targets per form.
func formClass(formID string) string {
	switch formID {
	case model.FormTraining:
		return "add_training_row"
	case model.FormPrediction:
		return "price_prediction"
	default:
		return "pg-form-" + formID
	}
}

func buildFieldViews(form model.FormModel, values model.FormData, errs map[string]string) []fieldView {
	out := make([]fieldView, 0, len(form.Fields))
	for _, field := range form.Fields {
		view := fieldView{
			ID:          controlID(form.ID, field.Name),
			Name:        field.Name,
			Label:       render.SanitizeText(field.Label),
			Description: render.SanitizeText(field.Description),
			Error:       errs[field.Name],
			Select:      field.Type == model.FieldTypeSelect,
			Integer:     field.Integer,
			Required:    field.Required,
		}
		if view.Label == "" {
			view.Label = field.Name
		}
		if field.Minimum != nil {
			view.Min = model.Format(*field.Minimum)
		}
		if field.Maximum != nil {
			view.Max = model.Format(*field.Maximum)
		}

		value, ok := values[field.Name]
		if ok {
			view.HasValue = true
			view.Value = model.Format(value)
		}
		for _, opt := range field.Options {
			view.Options = append(view.Options, optionView{
				Label:    render.SanitizeText(opt.Label),
				Value:    model.Format(opt.Value),
				Selected: ok && opt.Value == value,
			})
		}
		out = append(out, view)
	}
	return out
}
