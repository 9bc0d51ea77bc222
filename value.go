package domfetch

// Value is one entry of a selection result. Its dynamic type depends on the
// OutputMode: Object for OutputObject, Markup for OutputChildren and
// OutputHTML, and Breakdown for OutputBreakdown.
type Value interface {
	value()
}

// Object is a live element handle that can be traversed further.
type Object struct {
	Element
}

// Markup is serialized HTML.
type Markup string

// String returns the markup as a plain string.
func (m Markup) String() string { return string(m) }

// Breakdown is a detached snapshot of a matched element. It holds no
// reference into the parsed document.
type Breakdown struct {
	Tag        string            `json:"tag"`
	Text       string            `json:"text"`
	Attributes map[string]string `json:"attributes"`
}

func (Object) value()    {}
func (Markup) value()    {}
func (Breakdown) value() {}
