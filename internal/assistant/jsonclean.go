package assistant

import (
	"regexp"
	"strings"
)

var (
	fenceOpenRE = regexp.MustCompile("```json\\s*")
	fenceRE     = regexp.MustCompile("```\\s*")
	objectRE    = regexp.MustCompile(`(?s)\{.*\}`)
)

// CleanJSON strips markdown code fences and returns the outermost {...}
// span of raw, or the trimmed text when there is none.
func CleanJSON(raw string) string {
	raw = fenceOpenRE.ReplaceAllString(raw, "")
	raw = fenceRE.ReplaceAllString(raw, "")
	if m := objectRE.FindString(raw); m != "" {
		return m
	}
	return strings.TrimSpace(raw)
}
