/*
Package server implements msgpack IPC for buffer completions.

An editor plugin keeps the documents it wants completions for in sync with
the server and asks for suggestions at a cursor position. Every message is a
single msgpack map written to stdin; each request gets exactly one msgpack
map back on stdout. Logs go to stderr.

# IPC

Every request has an ID and an action ("a"). Open a document, getting an id
assigned when "doc" is empty:

	{"id": "1", "a": "open", "doc": "main.go", "text": "console.log(1)\nco"}

Ask for completions at a cursor. The prefix ("p") and suffix ("s") are
derived from the document when omitted:

	{"id": "2", "a": "complete", "doc": "main.go", "row": 1, "col": 2}

	{"id": "2", "s": [{"t": "console", "k": "match", "r": 1, "src": {...}, "ins": {...}}], "c": 1, "t": 87}

When the user picks a suggestion, send it back unchanged before re-rendering,
then sync the edit:

	{"id": "3", "a": "accept", "doc": "main.go", "pick": {"t": "console", ...}}
	{"id": "4", "a": "edit", "doc": "main.go", "row": 1, "col": 0, "erow": 1, "ecol": 2, "text": "console"}

Other actions: "close", "health", "stats" and "reload" (re-read the config file).

# Errors

Failed requests are answered with ErrorResponse. Codes follow HTTP: 400 for
malformed requests, 404 for unknown documents, 500 for anything else.
*/
package server

import (
	"github.com/bastiangx/bufcomplete/pkg/suggest"
	"github.com/bastiangx/bufcomplete/pkg/text"
)

// Request is the envelope for every action.
type Request struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"a"`
	Doc    string `msgpack:"doc,omitempty"`
	Text   string `msgpack:"text,omitempty"`

	// cursor for "complete", range start for "edit"
	Row int `msgpack:"row"`
	Col int `msgpack:"col"`

	// range end for "edit", defaults to the start (pure insertion)
	EndRow *int `msgpack:"erow,omitempty"`
	EndCol *int `msgpack:"ecol,omitempty"`

	Prefix *string         `msgpack:"p,omitempty"`
	Suffix *string         `msgpack:"s,omitempty"`
	Limit  int             `msgpack:"l,omitempty"`
	Pick   *WireSuggestion `msgpack:"pick,omitempty"`
}

// WirePosition is a text.Position on the wire
type WirePosition struct {
	Row int `msgpack:"row"`
	Col int `msgpack:"col"`
}

// WireRange is a text.Range on the wire
type WireRange struct {
	Start WirePosition `msgpack:"start"`
	End   WirePosition `msgpack:"end"`
}

// WireSuggestion is one completion entry
type WireSuggestion struct {
	Text   string        `msgpack:"t"`
	Kind   string        `msgpack:"k"`
	Rank   uint16        `msgpack:"r"`
	Source *WireRange    `msgpack:"src,omitempty"`
	Insert *WirePosition `msgpack:"ins,omitempty"`
}

// CompletionResponse answers "complete"
type CompletionResponse struct {
	ID          string           `msgpack:"id"`
	Suggestions []WireSuggestion `msgpack:"s"`
	Count       int              `msgpack:"c"`
	TimeTaken   int64            `msgpack:"t"`
}

// DocumentResponse answers "open", "edit" and "close"
type DocumentResponse struct {
	ID     string `msgpack:"id"`
	Doc    string `msgpack:"doc"`
	Status string `msgpack:"status"`
	Lines  int    `msgpack:"lines,omitempty"`
}

// AcceptResponse answers "accept"
type AcceptResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
	// Armed is true when the pick can be continued from
	Armed bool `msgpack:"armed"`
}

// StatusResponse answers "health" and "reload", and is sent once on startup
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// StatsResponse answers "stats"
type StatsResponse struct {
	ID          string         `msgpack:"id"`
	Documents   int            `msgpack:"documents"`
	Requests    int            `msgpack:"requests"`
	Completions map[string]int `msgpack:"completions"`
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}

func toWirePosition(p text.Position) WirePosition {
	return WirePosition{Row: p.Row, Col: p.Column}
}

func (p WirePosition) position() text.Position {
	return text.Position{Row: p.Row, Column: p.Col}
}

func toWireRange(r text.Range) WireRange {
	return WireRange{Start: toWirePosition(r.Start), End: toWirePosition(r.End)}
}

func (r WireRange) textRange() text.Range {
	return text.Range{Start: r.Start.position(), End: r.End.position()}
}

func toWireSuggestion(s suggest.Suggestion, rank uint16) WireSuggestion {
	w := WireSuggestion{Text: s.Text, Kind: s.Kind.String(), Rank: rank}
	if s.Source != nil {
		src := toWireRange(*s.Source)
		w.Source = &src
	}
	if s.InsertStart != nil {
		ins := toWirePosition(*s.InsertStart)
		w.Insert = &ins
	}
	return w
}

func (p WirePosition) negative() bool {
	return p.Row < 0 || p.Col < 0
}

// negative reports whether any coordinate of the pick is below zero
func (w WireSuggestion) negative() bool {
	if w.Source != nil && (w.Source.Start.negative() || w.Source.End.negative()) {
		return true
	}
	return w.Insert != nil && w.Insert.negative()
}

// suggestion turns a pick back into what the engine handed out.
// Only the origin matters for Accept, so an unknown kind is harmless.
func (w WireSuggestion) suggestion() suggest.Suggestion {
	s := suggest.Suggestion{Text: w.Text}
	switch w.Kind {
	case suggest.KindExpansion.String():
		s.Kind = suggest.KindExpansion
	case suggest.KindContinuation.String():
		s.Kind = suggest.KindContinuation
	default:
		s.Kind = suggest.KindMatch
	}
	if w.Source != nil {
		src := w.Source.textRange()
		s.Source = &src
	}
	if w.Insert != nil {
		ins := w.Insert.position()
		s.InsertStart = &ins
	}
	return s
}
