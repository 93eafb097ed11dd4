package suggest

import (
	"strings"
	"sync"

	"github.com/bastiangx/bufcomplete/internal/utils"
	"github.com/bastiangx/bufcomplete/pkg/text"
)

// ContinuationState is what the last accepted suggestion left behind.
type ContinuationState struct {
	Source      *text.Range
	InsertStart *text.Position
}

// Armed reports whether a previous acceptance is remembered at all.
func (s ContinuationState) Armed() bool {
	return s.Source != nil && s.InsertStart != nil
}

// Continuation is the tracker's verdict for one request.
type Continuation struct {
	// Suggestion is the next chunk of the source, nil when there is none
	Suggestion *Suggestion
	// Suppress skips the regular pipeline: the source was already retyped in full
	Suppress bool
}

// Tracker remembers the origin of the last accepted suggestion.
// Remember is the only write; Evaluate never changes the state. A stale
// state is not cleared, it just stops being usable.
type Tracker struct {
	mu       sync.RWMutex
	state    ContinuationState
	minChunk int
}

// NewTracker creates an idle tracker.
func NewTracker(minChunk int) *Tracker {
	return &Tracker{minChunk: minChunk}
}

// Remember overwrites the state with an accepted suggestion's origin.
func (t *Tracker) Remember(source text.Range, insertStart text.Position) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = ContinuationState{Source: &source, InsertStart: &insertStart}
}

// State returns a copy of the remembered state.
func (t *Tracker) State() ContinuationState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	st := t.state
	if st.Source != nil {
		src := *st.Source
		st.Source = &src
	}
	if st.InsertStart != nil {
		ins := *st.InsertStart
		st.InsertStart = &ins
	}
	return st
}

// Evaluate decides whether the remembered source applies to this request and,
// if so, what its next chunk is.
//
// The state applies when the cursor is on the insertion row, at or after the
// insertion column, and everything typed since the insertion start is a
// leading part of the source line from the source start.
func (t *Tracker) Evaluate(doc text.Document, cursor text.Position, prefix, suffix string) Continuation {
	st := t.State()
	if suffix != "" || !st.Armed() {
		return Continuation{}
	}
	src, ins := *st.Source, *st.InsertStart
	if src.Start.Row < 0 || src.Start.Column < 0 || ins.Row < 0 || ins.Column < 0 {
		return Continuation{}
	}

	if cursor.Row != ins.Row || cursor.Column < ins.Column {
		return Continuation{}
	}
	line := doc.LineText(cursor.Row)
	if cursor.Column > len(line) {
		return Continuation{}
	}
	typed := line[ins.Column:cursor.Column]

	sourceLine := doc.LineText(src.Start.Row)
	if src.Start.Column > len(sourceLine) {
		return Continuation{}
	}
	fromSource := sourceLine[src.Start.Column:]
	if !strings.HasPrefix(fromSource, typed) {
		return Continuation{}
	}

	c := Continuation{Suppress: doc.TextInRange(src) == prefix}

	chunk := nextChunk(utils.TrimRightSpace(fromSource[len(typed):]))
	if len(chunk) < t.minChunk {
		return c
	}
	start := src.Start.Advance(len(typed))
	c.Suggestion = &Suggestion{
		Text:        prefix + chunk,
		Kind:        KindContinuation,
		Source:      &text.Range{Start: start, End: start.Advance(len(chunk))},
		InsertStart: &cursor,
	}
	return c
}

// nextChunk is a leading run of non-word characters plus the word after it,
// or just the leading word.
func nextChunk(remainder string) string {
	n := utils.LeadingNonWordLen(remainder)
	if n == 0 {
		return remainder[:utils.LeadingWordLen(remainder)]
	}
	return remainder[:n+utils.LeadingWordLen(remainder[n:])]
}
