package parser

import (
	"regexp"
	"strings"
)

var typeAnnotationPattern = regexp.MustCompile(`@[\w.]+(\([^)]*\))?\s*`)

// eraseType drops type arguments, annotations and whitespace from a written
// type, keeping array and varargs suffixes.
func eraseType(value string) string {
	value = typeAnnotationPattern.ReplaceAllString(value, "")
	var b strings.Builder
	depth := 0
	for _, r := range value {
		switch {
		case r == '<':
			depth++
		case r == '>':
			if depth > 0 {
				depth--
			}
		case depth > 0:
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func lastSegment(value string) string {
	if idx := strings.LastIndex(value, "."); idx >= 0 {
		return value[idx+1:]
	}
	return value
}

func normalizeDotted(value string) string {
	value = strings.TrimSpace(value)
	value = strings.ReplaceAll(value, "\n", "")
	value = strings.ReplaceAll(value, "\r", "")
	value = strings.ReplaceAll(value, "\t", "")
	return strings.ReplaceAll(value, " ", "")
}

func integerLiteralType(text string) string {
	if strings.HasSuffix(text, "l") || strings.HasSuffix(text, "L") {
		return "long"
	}
	return "int"
}

func floatLiteralType(text string) string {
	if strings.HasSuffix(text, "f") || strings.HasSuffix(text, "F") {
		return "float"
	}
	return "double"
}
