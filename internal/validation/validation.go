package validation

import "strings"

// Violations collects field-level validation failures keyed by field name.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

func (v Violations) Add(field, reason string) { v[field] = reason }

// Basic validators

func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func NonNegativeFloat(field string, val float64, v Violations) {
	if val < 0 {
		v[field] = "must_be_non_negative"
	}
}

func RangeFloat(field string, val, minVal, maxVal float64, v Violations) {
	if val < minVal || val > maxVal {
		v[field] = "out_of_range"
	}
}

// Percent checks a percentage field against [0,100].
func Percent(field string, val float64, v Violations) {
	RangeFloat(field, val, 0, 100, v)
}
