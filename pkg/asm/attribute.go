package asm

import (
	"fmt"
	"strconv"
	"strings"
)

const locationKeyword = ".loc"

// Line is one line of assembly output together with the source line that
// produced it. Source is 0 when the line is not attributed to any source line.
type Line struct {
	Text   string
	Source int
}

// LocationError reports a .loc directive that does not carry a usable line number.
type LocationError struct {
	Directive string
	Reason    string
}

func (e *LocationError) Error() string {
	return fmt.Sprintf("malformed location directive %q: %s", e.Directive, e.Reason)
}

// ParseLocation returns the source line named by a directive of the form
// ".loc <file> <line> <column> ...".
func ParseLocation(directive string) (int, error) {
	fields := strings.Fields(directive)
	if len(fields) == 0 || fields[0] != locationKeyword {
		return 0, &LocationError{Directive: directive, Reason: "not a location directive"}
	}
	if len(fields) < 4 {
		return 0, &LocationError{Directive: directive, Reason: fmt.Sprintf("expected at least 4 fields, got %d", len(fields))}
	}
	line, err := strconv.Atoi(fields[2])
	if err != nil || line < 0 {
		return 0, &LocationError{Directive: directive, Reason: fmt.Sprintf("invalid line number %q", fields[2])}
	}
	return line, nil
}

// AttributeLines pairs every meaningful assembly line with the source line of
// the most recent .loc directive. Comments, bare numeric labels and blank lines
// are dropped; labels and directives are kept with Source 0 for LabelFilter to
// decide on. A blank line or a new mangled function label resets attribution.
// Malformed .loc directives leave the current attribution unchanged.
func AttributeLines(lines []string, demangle Demangler) []Line {
	demangle = demangle.orDefault()
	result := make([]Line, 0, len(lines))
	current := 0

	for _, raw := range lines {
		switch {
		case raw == "":
			current = 0

		case raw[0] == localMarker:
			result = append(result, Line{Text: raw})

		case strings.HasPrefix(raw, directiveHead):
			result = append(result, Line{Text: raw})
			if directiveKeyword(raw) == locationKeyword {
				if line, err := ParseLocation(raw); err == nil {
					current = line
				}
			}

		case strings.HasPrefix(raw, commentMarker), isNumericLabel(raw):

		default:
			if name, ok := mangledName(raw); ok {
				result = append(result, Line{Text: demangle(name) + ":"})
				current = 0
				continue
			}

			text := trimComment(raw)
			if text == "" {
				continue
			}
			result = append(result, Line{Text: text, Source: current})
		}
	}

	return result
}

func directiveKeyword(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// isNumericLabel matches GNU local labels such as "1:".
func isNumericLabel(line string) bool {
	body := line[:len(line)-1]
	if body == "" {
		return false
	}
	for _, r := range body {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
