// Package sanitizer normalizes free-text fields before validation and
// storage. Titles, descriptions and business names arrive from untrusted
// clients; everything else in the data model is structured.
package sanitizer

import (
	"regexp"
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reControlChars = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)
	reMultiSpace   = regexp.MustCompile(`[ \t]+`)
	reMultiNewline = regexp.MustCompile(`\n{3,}`)
)

func stripControl(s string) string {
	return reControlChars.ReplaceAllString(s, "")
}

func collapseSpaces(s string) string {
	return reMultiSpace.ReplaceAllString(s, " ")
}

// SanitizeTitle collapses a title onto a single trimmed line.
func SanitizeTitle(input string) string {
	p := Pipeline{
		stripControl,
		func(s string) string { return strings.ReplaceAll(s, "\n", " ") },
		collapseSpaces,
		strings.TrimSpace,
	}
	return p.Apply(input)
}

// SanitizeDescription keeps paragraph structure but trims noise.
func SanitizeDescription(input string) string {
	p := Pipeline{
		stripControl,
		collapseSpaces,
		func(s string) string { return reMultiNewline.ReplaceAllString(s, "\n\n") },
		strings.TrimSpace,
	}
	return p.Apply(input)
}

// SanitizeBusinessName is SanitizeTitle; named separately so call sites read
// naturally.
func SanitizeBusinessName(input string) string {
	return SanitizeTitle(input)
}
