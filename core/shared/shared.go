package shared

import (
	"path/filepath"
	"strings"
	"unicode"
)

func ToTitle(s string) string {
	if s == "" {
		return s
	}
	first := strings.ToUpper(s[:1])
	rest := s[1:]
	return first + rest
}

// ToCamel turns a file name such as "use-dark-mode" or "format_date" into "useDarkMode" / "formatDate".
func ToCamel(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '$'
	})
	if len(parts) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(strings.ToLower(parts[0][:1]) + parts[0][1:])
	for _, p := range parts[1:] {
		b.WriteString(ToTitle(p))
	}
	return b.String()
}

// RelSlash is filepath.Rel in forward-slash form. The root itself is ".".
func RelSlash(base, target string) (string, error) {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// DotRelSlash is RelSlash with a "./" prefix for paths that do not already climb out of base.
func DotRelSlash(base, target string) (string, error) {
	rel, err := RelSlash(base, target)
	if err != nil {
		return "", err
	}
	if rel == "." || strings.HasPrefix(rel, "../") || rel == ".." {
		return rel, nil
	}
	return "./" + rel, nil
}
