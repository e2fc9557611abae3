package validation

import (
	"strings"
	"unicode/utf8"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func Email(field, value string, v Violations) {
	if value != "" && !strings.Contains(value, "@") {
		v[field] = "invalid_email"
	}
}

func MaxRunes(field, value string, limit int, v Violations) {
	if utf8.RuneCountInString(value) > limit {
		v[field] = "too_long"
	}
}
