package domfetch

// Input is the source argument of a selection. Depending on the SourceMode
// it holds a URL, a file path, or markup. A nil *Input means no source was
// given.
type Input struct {
	text    string
	data    []byte
	isBytes bool
}

// Text returns an Input holding s.
func Text(s string) *Input {
	return &Input{text: s}
}

// Bytes returns an Input holding raw content, typically markup read from
// disk or the network in an unknown encoding.
func Bytes(b []byte) *Input {
	return &Input{data: b, isBytes: true}
}

// IsBytes reports whether the input was created from raw bytes.
func (in *Input) IsBytes() bool {
	return in != nil && in.isBytes
}

// String returns the input as text. Byte content is converted without
// decoding; use a charset-aware Resolver for markup in other encodings.
func (in *Input) String() string {
	if in == nil {
		return ""
	}
	if in.isBytes {
		return string(in.data)
	}
	return in.text
}

// Bytes returns the raw input content.
func (in *Input) Bytes() []byte {
	if in == nil {
		return nil
	}
	if in.isBytes {
		return in.data
	}
	return []byte(in.text)
}
