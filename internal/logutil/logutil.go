package logutil

import (
	"strings"
)

// IsSensitiveField returns true when a selector or field name likely
// addresses sensitive data.
func IsSensitiveField(key string) bool {
	normalized := strings.ToLower(strings.TrimSpace(key))
	normalized = strings.ReplaceAll(normalized, "-", "")
	normalized = strings.ReplaceAll(normalized, "_", "")

	switch {
	case strings.Contains(normalized, "password"):
		return true
	case strings.Contains(normalized, "token"):
		return true
	case strings.Contains(normalized, "secret"):
		return true
	case strings.Contains(normalized, "otp"):
		return true
	case strings.Contains(normalized, "nhsnumber"):
		return true
	case strings.Contains(normalized, "dateofbirth"), strings.Contains(normalized, "dob"):
		return true
	case strings.Contains(normalized, "cookie"):
		return true
	default:
		return false
	}
}

// RedactFillValue redacts a value typed into a field when the selector
// looks sensitive.
func RedactFillValue(selector, value string) string {
	if IsSensitiveField(selector) {
		return "[REDACTED]"
	}
	return value
}

// TruncateForLog returns a single-line truncated preview for unstructured values.
func TruncateForLog(value string, maxChars int) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	normalized := strings.ReplaceAll(trimmed, "\n", "\\n")
	if maxChars <= 0 || len(normalized) <= maxChars {
		return normalized
	}
	return normalized[:maxChars] + "... [truncated]"
}

// CollapseWhitespace joins the whitespace-separated fields of s with single
// spaces. Widget text read from the DOM often carries layout whitespace.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
