// Package fs provides file-based source resolution and output writing.
package fs

import (
	"context"
	"errors"
	iofs "io/fs"
	"os"
	"syscall"

	"github.com/fwojciec/domfetch"
	"github.com/fwojciec/domfetch/chardet"
)

// Ensure Reader implements domfetch.Resolver at compile time.
var _ domfetch.Resolver = (*Reader)(nil)

// Reader resolves inputs as filesystem paths. The input is always taken
// literally as a path, so a URL given to a Reader fails with ENOTFOUND.
type Reader struct{}

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{}
}

// Resolve reads the file named by in and decodes it to UTF-8.
func (r *Reader) Resolve(ctx context.Context, in *domfetch.Input) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := in.String()
	if path == "" {
		return "", domfetch.Errorf(domfetch.ENOTFOUND, "no such file: empty path")
	}

	info, err := os.Stat(path)
	// A file used as a directory, as in "page.html/x", does not exist either.
	if errors.Is(err, iofs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
		return "", domfetch.Errorf(domfetch.ENOTFOUND, "no such file %q", path)
	} else if err != nil {
		return "", domfetch.Errorf(domfetch.EINVALID, "cannot read %q: %v", path, err)
	}
	if info.IsDir() {
		return "", domfetch.Errorf(domfetch.EINVALID, "%q is a directory", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", domfetch.Errorf(domfetch.EINVALID, "cannot read %q: %v", path, err)
	}

	return chardet.Decode(data, "")
}
