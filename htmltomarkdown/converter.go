package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/domfetch"
)

// Ensure Converter implements domfetch.Converter at compile time.
var _ domfetch.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert HTML to Markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms an HTML fragment into Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", domfetch.Errorf(domfetch.EINTERNAL, "converting to markdown: %v", err)
	}

	return strings.TrimSpace(result), nil
}

// ConvertValues converts markup and object values to Markdown markup.
// Breakdowns are returned unchanged.
func (c *Converter) ConvertValues(values []domfetch.Value) ([]domfetch.Value, error) {
	out := make([]domfetch.Value, 0, len(values))
	for _, v := range values {
		var html string
		switch v := v.(type) {
		case domfetch.Markup:
			html = string(v)
		case domfetch.Object:
			s, err := v.HTML()
			if err != nil {
				return nil, domfetch.Errorf(domfetch.EINTERNAL, "serializing <%s>: %v", v.Tag(), err)
			}
			html = s
		default:
			out = append(out, v)
			continue
		}
		md, err := c.Convert(html)
		if err != nil {
			return nil, err
		}
		out = append(out, domfetch.Markup(md))
	}
	return out, nil
}
