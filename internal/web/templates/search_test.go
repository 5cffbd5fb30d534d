package templates

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/daman/internal/core"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestErrorAlert(t *testing.T) {
	html := render(t, ErrorAlert("Bad <input>", "", "QR001"))

	assert.Contains(t, html, "<strong>Bad &lt;input&gt;</strong>")
	assert.Contains(t, html, "<small>QR001</small>")
	assert.NotContains(t, html, "<p>")
}

func TestSearchResults(t *testing.T) {
	html := render(t, SearchResults(core.SearchResult{
		Matches:          []core.QRRecord{{Identifier: "A", SequenceNumber: 7, Label: "rack & row"}},
		UnmatchedQueries: []string{"B 1-2"},
	}))

	assert.Contains(t, html, "<caption>1 match(es)</caption>")
	assert.Contains(t, html, "<td>A</td><td>7</td><td>rack &amp; row</td>")
	assert.Contains(t, html, "<li>B 1-2</li>")

	empty := render(t, SearchResults(core.SearchResult{}))
	assert.Contains(t, empty, "No QR codes matched.")
	assert.NotContains(t, empty, "<table>")
}

func TestSearchPage_KeepsQuery(t *testing.T) {
	html := render(t, SearchPage(SearchPageParams{Query: `A 1, "B" 2`}))

	assert.Contains(t, html, `<form method="post" action="/search">`)
	assert.Contains(t, html, "A 1, &#34;B&#34; 2</textarea>")
}
