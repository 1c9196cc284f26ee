package model

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// FormData holds the numeric value of every field a form submits.
type FormData map[string]float64

// FormDataFrom copies a seed record.
func FormDataFrom(seed map[string]float64) FormData {
	out := make(FormData, len(seed))
	for key, value := range seed {
		out[key] = value
	}
	return out
}

// Clone returns an independent copy.
func (d FormData) Clone() FormData {
	return FormDataFrom(d)
}

// Set stores the parsed value of raw under name and returns it.
func (d FormData) Set(name, raw string) float64 {
	value := ParseNumber(raw)
	d[name] = value
	return value
}

// Keys returns the field names in lexical order.
func (d FormData) Keys() []string {
	keys := make([]string, 0, len(d))
	for key := range d {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Format renders a value the way the number inputs display it.
func Format(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// ParseNumber reads the longest leading decimal number in raw, ignoring
// leading whitespace, and returns 0 when there is none. NaN and infinities
// also collapse to 0.
func ParseNumber(raw string) float64 {
	text := strings.TrimLeft(raw, " \t\n\r\v\f")
	end := numericPrefix(text)
	if end == 0 {
		return 0
	}
	value, err := strconv.ParseFloat(text[:end], 64)
	if err != nil {
		// Overflowing exponents come back as ±Inf with a range error.
		return 0
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}

func numericPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(rune(s[i])) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(rune(s[j])) {
			j++
			frac++
		}
		if digits > 0 || frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		exp := 0
		for j < len(s) && isDigit(rune(s[j])) {
			j++
			exp++
		}
		if exp > 0 {
			i = j
		}
	}
	return i
}

// FieldErrors maps a field name to the message shown beside it.
type FieldErrors map[string]string

// Clone returns an independent copy.
func (e FieldErrors) Clone() FieldErrors {
	out := make(FieldErrors, len(e))
	for key, value := range e {
		out[key] = value
	}
	return out
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
