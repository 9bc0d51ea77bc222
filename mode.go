package domfetch

// OutputMode selects the shape of each value returned for a matched element.
type OutputMode string

// Supported output modes. There is no default output mode.
const (
	OutputObject    OutputMode = "object"
	OutputChildren  OutputMode = "children"
	OutputHTML      OutputMode = "html"
	OutputBreakdown OutputMode = "breakdown"
)

// OutputModes returns all supported output modes.
func OutputModes() []OutputMode {
	return []OutputMode{OutputObject, OutputChildren, OutputHTML, OutputBreakdown}
}

// ParseOutputMode returns the OutputMode named by s.
// Matching is case-sensitive; an empty or unknown name returns EOUTPUT.
func ParseOutputMode(s string) (OutputMode, error) {
	switch m := OutputMode(s); m {
	case OutputObject, OutputChildren, OutputHTML, OutputBreakdown:
		return m, nil
	}
	return "", Errorf(EOUTPUT, "output option not supported: %q", s)
}

// SourceMode tells how the source argument is interpreted.
type SourceMode string

// Supported source modes.
const (
	SourceURL      SourceMode = "url"
	SourceFile     SourceMode = "file"
	SourceString   SourceMode = "string"
	SourceHeadless SourceMode = "headless"
)

// DefaultSourceMode is used when no source mode is given.
const DefaultSourceMode = SourceURL

// SourceModes returns all supported source modes.
func SourceModes() []SourceMode {
	return []SourceMode{SourceURL, SourceFile, SourceString, SourceHeadless}
}

// ParseSourceMode returns the SourceMode named by s.
// An empty name means the source mode was not given and returns
// DefaultSourceMode. Unknown names return ESOURCE.
func ParseSourceMode(s string) (SourceMode, error) {
	if s == "" {
		return DefaultSourceMode, nil
	}
	switch m := SourceMode(s); m {
	case SourceURL, SourceFile, SourceString, SourceHeadless:
		return m, nil
	}
	return "", Errorf(ESOURCE, "source option not supported: %q", s)
}

// Options holds the caller-supplied options of a selection.
type Options struct {
	// Output is required and must name one of the OutputModes.
	Output string `json:"output"`

	// Source is optional and defaults to "url".
	Source string `json:"source"`
}

// Validate checks the options and returns the resolved modes.
// The output option is checked first, so EOUTPUT wins when both are invalid.
func (o Options) Validate() (OutputMode, SourceMode, error) {
	output, err := ParseOutputMode(o.Output)
	if err != nil {
		return "", "", err
	}
	source, err := ParseSourceMode(o.Source)
	if err != nil {
		return "", "", err
	}
	return output, source, nil
}
