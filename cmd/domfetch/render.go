package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fwojciec/domfetch"
)

// sourceResult is the JSON shape used when more than one source is given.
type sourceResult struct {
	Source  string `json:"source"`
	Results []any  `json:"results"`
}

// renderText prints values one per line. With several sources each block
// is headed by its source.
func renderText(sources []string, results [][]domfetch.Value) ([]byte, error) {
	var buf bytes.Buffer
	for i, values := range results {
		if len(results) > 1 {
			if i > 0 {
				buf.WriteString("\n")
			}
			fmt.Fprintf(&buf, "==> %s <==\n", sources[i])
		}
		s, err := domfetch.FormatValues(values)
		if err != nil {
			return nil, err
		}
		if s != "" {
			buf.WriteString(s)
			buf.WriteString("\n")
		}
	}
	return buf.Bytes(), nil
}

// renderJSON prints a JSON array of values, or an array of per-source
// objects when more than one source is given.
func renderJSON(sources []string, results [][]domfetch.Value) ([]byte, error) {
	var doc any
	if len(results) == 1 {
		values, err := jsonValues(results[0])
		if err != nil {
			return nil, err
		}
		doc = values
	} else {
		all := make([]sourceResult, 0, len(results))
		for i, values := range results {
			vs, err := jsonValues(values)
			if err != nil {
				return nil, err
			}
			all = append(all, sourceResult{Source: sources[i], Results: vs})
		}
		doc = all
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, domfetch.Errorf(domfetch.EINTERNAL, "encoding results: %v", err)
	}
	return buf.Bytes(), nil
}

// jsonValues maps values to JSON-friendly forms: markup and objects become
// strings, breakdowns stay objects.
func jsonValues(values []domfetch.Value) ([]any, error) {
	out := make([]any, 0, len(values))
	for _, v := range values {
		switch v := v.(type) {
		case domfetch.Markup:
			out = append(out, string(v))
		case domfetch.Object:
			s, err := v.HTML()
			if err != nil {
				return nil, domfetch.Errorf(domfetch.EINTERNAL, "serializing <%s>: %v", v.Tag(), err)
			}
			out = append(out, s)
		default:
			out = append(out, v)
		}
	}
	return out, nil
}
