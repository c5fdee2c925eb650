package core

import "strings"

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// FirstNonEmpty returns the first of vals that is not blank.
func FirstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if CleanString(v) != "" {
			return v
		}
	}
	return ""
}
