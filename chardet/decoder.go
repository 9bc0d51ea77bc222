// Package chardet decodes markup of unknown encoding into UTF-8 text.
// Declared encodings (byte order mark, Content-Type, <meta charset>) are
// honored first; undeclared non-UTF-8 content is classified statistically.
package chardet

import (
	"bytes"
	"context"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/domfetch"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/htmlindex"
)

// Ensure Decoder implements domfetch.Resolver at compile time.
var _ domfetch.Resolver = (*Decoder)(nil)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decoder resolves in-memory markup. Text input is returned unchanged and
// byte input is decoded to UTF-8.
type Decoder struct{}

// NewDecoder creates a new Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Resolve returns the markup held by in. A nil input returns ENOCONTENT;
// empty content is valid and yields an empty document.
func (d *Decoder) Resolve(ctx context.Context, in *domfetch.Input) (string, error) {
	if in == nil {
		return "", domfetch.Errorf(domfetch.ENOCONTENT, "no content read")
	}
	if !in.IsBytes() {
		return in.String(), nil
	}
	return Decode(in.Bytes(), "")
}

// Decode converts data to UTF-8. contentType is an optional HTTP
// Content-Type header value whose charset parameter takes precedence over
// in-document declarations. Content detected as a charset with no WHATWG
// decoder returns EINVALID.
func Decode(data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", nil
	}

	enc, name, certain := charset.DetermineEncoding(data, contentType)
	if !certain && name == "windows-1252" {
		// No declaration found; DetermineEncoding fell back to its default.
		if utf8.Valid(data) {
			name = "utf-8"
		} else {
			name = Detect(data)
			var err error
			if enc, err = htmlindex.Get(name); err != nil {
				return "", domfetch.Errorf(domfetch.EINVALID, "unsupported charset %q", name)
			}
		}
	}

	if name == "utf-8" {
		return string(bytes.TrimPrefix(data, utf8BOM)), nil
	}

	b, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", domfetch.Errorf(domfetch.EINVALID, "decoding %s content: %v", name, err)
	}
	return string(b), nil
}

// detectorLabels maps detector charset names that are not WHATWG labels.
var detectorLabels = map[string]string{
	"gb-18030": "gb18030",
}

// Detect guesses the charset of data and returns its canonical WHATWG
// name, such as "gb18030" or "shift_jis". Charsets without a WHATWG
// encoding are returned as the detector's lower-case label.
// Returns "windows-1252" when no guess can be made.
func Detect(data []byte) string {
	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(data)
	if err != nil || result == nil || result.Charset == "" {
		return "windows-1252"
	}

	label := strings.ToLower(result.Charset)
	if l, ok := detectorLabels[label]; ok {
		label = l
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return label
	}
	if name, err := htmlindex.Name(enc); err == nil {
		return name
	}
	return label
}
