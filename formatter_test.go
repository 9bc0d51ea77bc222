package domfetch_test

import (
	"testing"

	"github.com/fwojciec/domfetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatValue(t *testing.T) {
	t.Parallel()

	t.Run("markup as-is", func(t *testing.T) {
		t.Parallel()

		s, err := domfetch.FormatValue(domfetch.Markup("<li>Hello</li>"))

		require.NoError(t, err)
		assert.Equal(t, "<li>Hello</li>", s)
	})

	t.Run("object as outer HTML", func(t *testing.T) {
		t.Parallel()

		s, err := domfetch.FormatValue(domfetch.Object{Element: newElement("p", "World", nil)})

		require.NoError(t, err)
		assert.Equal(t, "<p>World</p>", s)
	})

	t.Run("breakdown with sorted attributes", func(t *testing.T) {
		t.Parallel()

		s, err := domfetch.FormatValue(domfetch.Breakdown{
			Tag:        "h1",
			Text:       "Hello World",
			Attributes: map[string]string{"id": "greeting", "class": "title"},
		})

		require.NoError(t, err)
		assert.Equal(t, `h1 class="title" id="greeting": Hello World`, s)
	})

	t.Run("breakdown without text", func(t *testing.T) {
		t.Parallel()

		s, err := domfetch.FormatValue(domfetch.Breakdown{Tag: "div", Attributes: map[string]string{}})

		require.NoError(t, err)
		assert.Equal(t, "div", s)
	})
}

func TestFormatValues(t *testing.T) {
	t.Parallel()

	t.Run("one value per line", func(t *testing.T) {
		t.Parallel()

		s, err := domfetch.FormatValues([]domfetch.Value{domfetch.Markup("a"), domfetch.Markup("b")})

		require.NoError(t, err)
		assert.Equal(t, "a\nb", s)
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		s, err := domfetch.FormatValues(nil)

		require.NoError(t, err)
		assert.Empty(t, s)
	})
}
