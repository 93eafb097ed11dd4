package utils

import (
	"github.com/tchap/go-patricia/v2/patricia"
)

// SuggestionFilter drops suggestion texts that were already seen.
// It is case-sensitive: "Foo" and "foo" are different completions.
// Completions of one prefix share long leading runs, which a patricia trie
// stores once instead of keeping every full string as a map key.
type SuggestionFilter struct {
	seen *patricia.Trie
}

// NewSuggestionFilter creates an empty filter
func NewSuggestionFilter() *SuggestionFilter {
	return &SuggestionFilter{seen: patricia.NewTrie()}
}

// ShouldInclude returns true the first time a text is offered and false after.
func (f *SuggestionFilter) ShouldInclude(text string) bool {
	return f.seen.Insert(patricia.Prefix(text), struct{}{})
}

// Len is the number of distinct texts seen
func (f *SuggestionFilter) Len() int {
	n := 0
	f.seen.Visit(func(patricia.Prefix, patricia.Item) error {
		n++
		return nil
	})
	return n
}
