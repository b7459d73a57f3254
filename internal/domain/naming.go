package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// NameSeparator is dropped from identifiers when deriving unit names.
const NameSeparator = "-"

var unitNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// UnitName derives the reported test name from a case identifier:
// every separator is removed, the first rune is upper-cased and the rest
// lower-cased. "BUILDR-320" becomes "Buildr320".
func UnitName(id string) (string, error) {
	stripped := strings.ReplaceAll(strings.TrimSpace(id), NameSeparator, "")
	if stripped == "" {
		return "", fmt.Errorf("%w: identifier %q has no usable characters", ErrInvalidCase, id)
	}

	first, size := utf8.DecodeRuneInString(stripped)
	name := string(unicode.ToUpper(first)) + strings.ToLower(stripped[size:])

	if !unitNamePattern.MatchString(name) {
		return "", fmt.Errorf("%w: identifier %q normalizes to %q, which is not a valid test name",
			ErrInvalidCase, id, name)
	}
	return name, nil
}
