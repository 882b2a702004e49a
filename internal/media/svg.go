package media

import (
	"bytes"
	"errors"
	"regexp"
)

// an attribute value written without quotes ends at whitespace, '>' or "/>"
const bareValue = `(?:[^\s>/]|/[^\s>])+`

// svgStripRules run in order; each match is dropped from the avatar.
var svgStripRules = []*regexp.Regexp{
	// script and foreignObject with their content
	regexp.MustCompile(`(?is)<\s*(?:script|foreignObject)\b[^>]*>.*?<\s*/\s*(?:script|foreignObject)\s*>`),
	regexp.MustCompile(`(?is)<\s*(?:script|foreignObject)\b[^>]*/\s*>`),
	// on* handlers, quoted or bare, including <svg/onload=...>
	regexp.MustCompile(`(?is)[\s/]on[a-z]+\s*=\s*(?:"[^"]*"|'[^']*'|` + bareValue + `)`),
	regexp.MustCompile(`(?is)\s(?:xlink:)?href\s*=\s*(?:"\s*javascript:[^"]*"|'\s*javascript:[^']*'|javascript:` + bareValue + `)`),
}

// SanitizeSVG removes everything from an uploaded avatar that a browser
// could execute: script and foreignObject elements, event handler
// attributes and javascript: links.
func SanitizeSVG(input []byte) ([]byte, error) {
	if !bytes.Contains(bytes.ToLower(input), []byte("<svg")) {
		return nil, errors.New("not an svg document")
	}

	clean := input
	for _, rule := range svgStripRules {
		clean = rule.ReplaceAll(clean, nil)
	}
	return clean, nil
}
