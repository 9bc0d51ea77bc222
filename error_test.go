package domfetch_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/domfetch"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := domfetch.Errorf(domfetch.ENOTFOUND, "no such file %q", "page.html")

	assert.Equal(t, domfetch.ENOTFOUND, domfetch.ErrorCode(err))
	assert.Equal(t, `no such file "page.html"`, domfetch.ErrorMessage(err))
	assert.Equal(t, `domfetch error: code=not_found message=no such file "page.html"`, err.Error())
}

func TestErrorCode(t *testing.T) {
	t.Parallel()

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, domfetch.ErrorCode(nil))
		assert.Empty(t, domfetch.ErrorMessage(nil))
	})

	t.Run("wrapped application error keeps its code", func(t *testing.T) {
		t.Parallel()

		err := fmt.Errorf("resolving: %w", domfetch.Errorf(domfetch.ETIMEOUT, "timed out"))

		assert.Equal(t, domfetch.ETIMEOUT, domfetch.ErrorCode(err))
		assert.Equal(t, "timed out", domfetch.ErrorMessage(err))
	})

	t.Run("other errors are internal", func(t *testing.T) {
		t.Parallel()

		err := errors.New("boom")

		assert.Equal(t, domfetch.EINTERNAL, domfetch.ErrorCode(err))
		assert.Equal(t, "Internal error", domfetch.ErrorMessage(err))
	})
}
