/*
Package suggest is the core of bufcomplete: it finds completions for the word
being typed by looking at the words already present in the same document.

A request runs through a fixed pipeline:

	BuildPattern -> Extract -> Expand -> Rank

Extract collects every `\b<prefix>\w*<suffix>` match that is not the word under
the cursor. Expand synthesizes longer phrase candidates from pairs of matches
whose lines continue identically, and extends short matches with the next word
on their line. Rank orders the combined set by Manhattan distance from the
prefix start, longer text first on ties.

On top of that sits a continuation Tracker. Accepting a suggestion remembers
where its text was copied from; the next request that keeps retyping that
source is offered the next word of it, ahead of the ranked set.

	engine := suggest.NewEngine(suggest.DefaultOptions())
	results, err := engine.Suggest(ctx, suggest.Request{Document: buf, Cursor: pos, Prefix: "co"})
	engine.Accept(results[0])
*/
package suggest

import (
	"context"

	"github.com/bastiangx/bufcomplete/pkg/text"
)

// Provider is what hosts (the IPC server, the CLI) talk to.
type Provider interface {
	// Suggest returns the ordered suggestions for a request
	Suggest(ctx context.Context, req Request) ([]Suggestion, error)

	// Accept records an accepted suggestion for continuation
	Accept(s Suggestion) bool
}

// Kind tags where a suggestion came from.
type Kind uint8

const (
	// KindMatch is a word found verbatim in the document
	KindMatch Kind = iota
	// KindExpansion is a phrase synthesized from one or two matches
	KindExpansion
	// KindContinuation is the next chunk pulled from a previously accepted source
	KindContinuation
)

func (k Kind) String() string {
	switch k {
	case KindMatch:
		return "match"
	case KindExpansion:
		return "expansion"
	case KindContinuation:
		return "continuation"
	}
	return "unknown"
}

// Candidate is a located span of document text offered as a completion.
type Candidate struct {
	Range text.Range
	Text  string
	Kind  Kind
}

// Suggestion is one entry of a result list.
// Source and InsertStart are set when the text can be chained by a later continuation.
type Suggestion struct {
	Text        string
	Kind        Kind
	Source      *text.Range
	InsertStart *text.Position
}

// Request is a single completion request over a document snapshot.
type Request struct {
	Document text.Document
	Cursor   text.Position
	Prefix   string
	// Suffix is the part of the current word after the cursor.
	// nil means derive it from the document with text.SuffixAt.
	Suffix *string
}

// PrefixStart is the position where the typed prefix begins.
func (r Request) PrefixStart() text.Position {
	return text.Position{Row: r.Cursor.Row, Column: r.Cursor.Column - len(r.Prefix)}
}

// Result is delivered by SuggestAsync.
type Result struct {
	Suggestions []Suggestion
	Err         error
}
