// Package templates holds the server-rendered HTML components. Components
// live in .templ files; run `templ generate` after editing them.
package templates

import "github.com/JonMunkholm/daman/internal/core"

// SearchPageParams is the state of the search page.
type SearchPageParams struct {
	Query  string
	Result *core.SearchResult
	Error  *core.UserMessage
}
