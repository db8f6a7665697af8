package internal

import (
	"regexp"
	"strings"
)

// Step line markers: explicit ordinals ("Step 3", "2."), bullets, or a
// sequencing adverb opening the line.
var (
	stepMarkerRe = regexp.MustCompile(`(?i)^(step\s+\d+|\d+\.|[*\-•]\s)`)
	stepAdverbRe = regexp.MustCompile(`(?i)^(first|second|third|next|then|finally)\b`)
)

// ExtractSteps decomposes assistant prose into an ordered list of solution
// steps. Lines whose trimmed form matches a step marker are collected in
// original order. When no line matches, the entire input is returned as a
// single unstructured step; the result is never empty.
func ExtractSteps(text string) []string {
	var steps []string

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if stepMarkerRe.MatchString(trimmed) || stepAdverbRe.MatchString(trimmed) {
			steps = append(steps, trimmed)
		}
	}

	if len(steps) == 0 {
		return []string{text}
	}
	return steps
}
