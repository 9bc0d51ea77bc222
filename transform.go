package domfetch

import "maps"

// Transform maps matched elements to values of the given output mode,
// one value per element in the same order.
func Transform(matches []Element, mode OutputMode) ([]Value, error) {
	values := make([]Value, 0, len(matches))
	for _, el := range matches {
		v, err := transformElement(el, mode)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func transformElement(el Element, mode OutputMode) (Value, error) {
	switch mode {
	case OutputObject:
		return Object{Element: el}, nil
	case OutputChildren:
		s, err := el.InnerHTML()
		if err != nil {
			return nil, Errorf(EINTERNAL, "serializing children of <%s>: %v", el.Tag(), err)
		}
		return Markup(s), nil
	case OutputHTML:
		s, err := el.HTML()
		if err != nil {
			return nil, Errorf(EINTERNAL, "serializing <%s>: %v", el.Tag(), err)
		}
		return Markup(s), nil
	case OutputBreakdown:
		return NewBreakdown(el), nil
	}
	return nil, Errorf(EOUTPUT, "output option not supported: %q", string(mode))
}

// NewBreakdown snapshots an element into a Breakdown.
func NewBreakdown(el Element) Breakdown {
	attrs := el.Attributes()
	if attrs == nil {
		attrs = map[string]string{}
	}
	return Breakdown{
		Tag:        el.Tag(),
		Text:       el.Text(),
		Attributes: maps.Clone(attrs),
	}
}
