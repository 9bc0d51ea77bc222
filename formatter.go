package domfetch

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// FormatValue renders a value as plain text. Markup is returned as-is,
// objects as their outer HTML, and breakdowns as a single line holding the
// tag, the attributes in key order and the text.
func FormatValue(v Value) (string, error) {
	switch v := v.(type) {
	case Markup:
		return string(v), nil
	case Object:
		return v.HTML()
	case Breakdown:
		return formatBreakdown(v), nil
	}
	return "", Errorf(EINTERNAL, "unknown value type %T", v)
}

// FormatValues renders values one per line.
func FormatValues(values []Value) (string, error) {
	lines := make([]string, 0, len(values))
	for _, v := range values {
		s, err := FormatValue(v)
		if err != nil {
			return "", err
		}
		lines = append(lines, s)
	}
	return strings.Join(lines, "\n"), nil
}

func formatBreakdown(b Breakdown) string {
	var sb strings.Builder
	sb.WriteString(b.Tag)
	for _, k := range slices.Sorted(maps.Keys(b.Attributes)) {
		sb.WriteString(" ")
		sb.WriteString(k)
		sb.WriteString("=")
		sb.WriteString(strconv.Quote(b.Attributes[k]))
	}
	if b.Text != "" {
		sb.WriteString(": ")
		sb.WriteString(b.Text)
	}
	return sb.String()
}
