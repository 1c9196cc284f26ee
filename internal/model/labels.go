package model

import "strings"

// labelOverrides covers field names whose title-cased form reads poorly.
var labelOverrides = map[string]string{
	"has_incidents":         "Incidents",
	"combined_fuel_economy": "Combined Fuel Economy (MPG)",
	"size_of_vehicle":       "Vehicle Size",
}

// HumanLabeler converts a snake_case field name into a title-cased label,
// used by the terminal prompts.
func HumanLabeler(name string) string {
	if label, ok := labelOverrides[name]; ok {
		return label
	}
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	for i, word := range words {
		lower := strings.ToLower(word)
		words[i] = strings.ToUpper(lower[:1]) + lower[1:]
	}
	return strings.Join(words, " ")
}
