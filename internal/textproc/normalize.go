package textproc

import "strings"

// Normalize strips leading/trailing whitespace and lowercases the input.
// Pure and total; applied before slang correction and segmentation.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
