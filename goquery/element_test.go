package goquery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElement(t *testing.T) {
	t.Parallel()

	t.Run("exposes tag, attributes and trimmed text", func(t *testing.T) {
		t.Parallel()

		matches, err := parse(t, helloWorld).Select("#first")
		require.NoError(t, err)
		require.Len(t, matches, 1)

		el := matches[0]
		assert.Equal(t, "h1", el.Tag())
		assert.Equal(t, map[string]string{"id": "first", "class": "title"}, el.Attributes())
		assert.Equal(t, "Hello", el.Text())

		class, ok := el.Attr("class")
		assert.True(t, ok)
		assert.Equal(t, "title", class)

		_, ok = el.Attr("missing")
		assert.False(t, ok)
	})

	t.Run("attribute map is a copy", func(t *testing.T) {
		t.Parallel()

		matches, err := parse(t, helloWorld).Select("#first")
		require.NoError(t, err)

		attrs := matches[0].Attributes()
		attrs["id"] = "changed"

		id, _ := matches[0].Attr("id")
		assert.Equal(t, "first", id)
	})

	t.Run("serializes outer and inner markup", func(t *testing.T) {
		t.Parallel()

		matches, err := parse(t, helloWorld).Select("body > p")
		require.NoError(t, err)
		require.Len(t, matches, 1)

		outer, err := matches[0].HTML()
		require.NoError(t, err)
		assert.Equal(t, "<p>Greetings from <b>DomFetch</b>.</p>", outer)

		inner, err := matches[0].InnerHTML()
		require.NoError(t, err)
		assert.Equal(t, "Greetings from <b>DomFetch</b>.", inner)
	})

	t.Run("concatenates descendant text", func(t *testing.T) {
		t.Parallel()

		matches, err := parse(t, helloWorld).Select("body > p")
		require.NoError(t, err)

		assert.Equal(t, "Greetings from DomFetch.", matches[0].Text())
	})

	t.Run("traverses children, parent and descendants", func(t *testing.T) {
		t.Parallel()

		matches, err := parse(t, helloWorld).Select("ul")
		require.NoError(t, err)
		require.Len(t, matches, 1)
		ul := matches[0]

		assert.Len(t, ul.Children(), 4)

		parent, ok := ul.Parent()
		require.True(t, ok)
		assert.Equal(t, "div", parent.Tag())

		found, err := parent.Find("li")
		require.NoError(t, err)
		assert.Len(t, found, 4)
	})

	t.Run("html element has no parent element", func(t *testing.T) {
		t.Parallel()

		matches, err := parse(t, helloWorld).Select("html")
		require.NoError(t, err)
		require.Len(t, matches, 1)

		_, ok := matches[0].Parent()
		assert.False(t, ok)
	})
}
