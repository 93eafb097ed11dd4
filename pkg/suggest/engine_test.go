package suggest

import (
	"context"
	"testing"
	"time"

	"github.com/bastiangx/bufcomplete/internal/logger"
	"github.com/bastiangx/bufcomplete/pkg/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *Engine {
	opts := DefaultOptions()
	opts.Logger = logger.Discard()
	return NewEngine(opts)
}

func texts(suggestions []Suggestion) []string {
	out := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, s.Text)
	}
	return out
}

func request(doc text.Document, cursor text.Position) Request {
	return Request{Document: doc, Cursor: cursor, Prefix: text.PrefixAt(doc, cursor)}
}

// assertRanked checks the distance/length order of everything but continuations.
func assertRanked(t *testing.T, req Request, suggestions []Suggestion) {
	t.Helper()
	p := req.PrefixStart()
	var prev *Suggestion
	for i := range suggestions {
		s := &suggestions[i]
		if s.Kind == KindContinuation {
			require.Nil(t, prev, "continuations come before ranked suggestions")
			continue
		}
		require.NotNil(t, s.Source)
		assert.False(t, s.Kind == KindMatch && s.Source.ContainsPoint(p), "%q covers the prefix start", s.Text)
		if prev != nil {
			dp := text.ManhattanDistance(p, prev.Source.Start)
			ds := text.ManhattanDistance(p, s.Source.Start)
			assert.True(t, dp < ds || (dp == ds && len(prev.Text) >= len(s.Text)),
				"%q (%d) ranked before %q (%d)", prev.Text, dp, s.Text, ds)
		}
		prev = s
	}
}

func TestSuggestEmptyPrefix(t *testing.T) {
	e := newTestEngine()
	buf := text.NewBuffer("console.log(1)\nconsole.log(2)\n")

	for _, cursor := range []text.Position{pos(0, 0), pos(1, 7), pos(2, 0)} {
		got, err := e.Suggest(context.Background(), Request{Document: buf, Cursor: cursor})
		require.NoError(t, err)
		assert.Equal(t, []Suggestion{}, got)
	}
}

func TestSuggestPhraseExpansion(t *testing.T) {
	e := newTestEngine()
	buf := text.NewBuffer("console.log(1)\nconsole.log(2)\nco")
	req := request(buf, pos(2, 2))

	got, err := e.Suggest(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, []string{"console.log(", "console", "console"}, texts(got))
	assert.Equal(t, KindExpansion, got[0].Kind)
	assert.Equal(t, pos(2, 0), *got[0].InsertStart)
	assertRanked(t, req, got)
}

func TestSuggestShortWordExpansion(t *testing.T) {
	e := newTestEngine()
	buf := text.NewBuffer("fn foo\nf")
	req := request(buf, pos(1, 1))

	got, err := e.Suggest(context.Background(), req)

	require.NoError(t, err)
	assert.Contains(t, texts(got), "fn foo")
	assertRanked(t, req, got)
}

func TestSuggestNoExpansionWithSuffix(t *testing.T) {
	e := newTestEngine()
	buf := text.NewBuffer("console.log(1)\nconsole.log(2)\ncole")
	req := request(buf, pos(2, 2))

	got, err := e.Suggest(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, []string{"console", "console"}, texts(got))
	for _, s := range got {
		assert.Equal(t, KindMatch, s.Kind)
	}

	// an explicit empty suffix hint overrides the document
	empty := ""
	req.Suffix = &empty
	got, err = e.Suggest(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, texts(got), "console.log(")
}

func TestSuggestContinuationChain(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	buf := text.NewBuffer("fmt.Println(value, other)\nfm")

	got, err := e.Suggest(ctx, request(buf, pos(1, 2)))
	require.NoError(t, err)
	require.Equal(t, []string{"fmt.Println", "fmt"}, texts(got))

	// accept "fmt.Println" replacing "fm"
	require.True(t, e.Accept(got[0]))
	buf, err = buf.Replace(span(1, 0, 2), got[0].Text)
	require.NoError(t, err)

	req := request(buf, pos(1, 11))
	got, err = e.Suggest(ctx, req)
	require.NoError(t, err)
	require.Equal(t, []string{"Println(value", "Println"}, texts(got))
	assert.Equal(t, KindContinuation, got[0].Kind)
	assertRanked(t, req, got)

	// accept the continuation replacing "Println"
	require.True(t, e.Accept(got[0]))
	buf, err = buf.Replace(span(1, 4, 11), got[0].Text)
	require.NoError(t, err)
	require.Equal(t, "fmt.Println(value", buf.LineText(1))

	got, err = e.Suggest(ctx, request(buf, pos(1, 17)))
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "value, other", got[0].Text)
	assert.Equal(t, KindContinuation, got[0].Kind)
}

func TestSuggestSuppressedAfterFullRetype(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	buf := text.NewBuffer("console.log(1)\nco")

	got, err := e.Suggest(ctx, request(buf, pos(1, 2)))
	require.NoError(t, err)
	require.Equal(t, []string{"console"}, texts(got))

	require.True(t, e.Accept(got[0]))
	buf, err = buf.Replace(span(1, 0, 2), "console")
	require.NoError(t, err)

	got, err = e.Suggest(ctx, request(buf, pos(1, 7)))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "console.log", got[0].Text)
	assert.Equal(t, KindContinuation, got[0].Kind)
}

func TestSuggestDivergedContinuation(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	buf := text.NewBuffer("fmt.Println(value)\nfm")

	got, err := e.Suggest(ctx, request(buf, pos(1, 2)))
	require.NoError(t, err)
	require.True(t, e.Accept(got[0]))

	buf, err = buf.Replace(span(1, 0, 2), "fmt.Printf")
	require.NoError(t, err)

	got, err = e.Suggest(ctx, request(buf, pos(1, 10)))
	require.NoError(t, err)
	for _, s := range got {
		assert.NotEqual(t, KindContinuation, s.Kind)
	}
	assert.True(t, e.State().Armed(), "stale state is kept, not cleared")
}

func TestAcceptIgnoresSuggestionWithoutOrigin(t *testing.T) {
	e := newTestEngine()

	assert.False(t, e.Accept(Suggestion{Text: "foo"}))
	assert.False(t, e.State().Armed())

	src := span(0, 0, 3)
	ins := pos(1, 0)
	assert.True(t, e.Accept(Suggestion{Text: "foo", Source: &src, InsertStart: &ins}))
	st := e.State()
	require.True(t, st.Armed())
	assert.Equal(t, src, *st.Source)

	// state is overwritten on the next acceptance
	src2 := span(2, 1, 4)
	ins2 := pos(3, 2)
	e.Accept(Suggestion{Text: "bar", Source: &src2, InsertStart: &ins2})
	assert.Equal(t, src2, *e.State().Source)
	assert.Equal(t, ins2, *e.State().InsertStart)
}

func TestEnginesAreIndependent(t *testing.T) {
	a, b := newTestEngine(), newTestEngine()
	src := span(0, 0, 3)
	ins := pos(1, 0)

	a.Accept(Suggestion{Text: "foo", Source: &src, InsertStart: &ins})

	assert.True(t, a.State().Armed())
	assert.False(t, b.State().Armed())
}

func TestSuggestLimit(t *testing.T) {
	opts := DefaultOptions()
	opts.Logger = logger.Discard()
	opts.Limit = 2
	e := NewEngine(opts)
	buf := text.NewBuffer("alpha alpine album\nal")

	got, err := e.Suggest(context.Background(), request(buf, pos(1, 2)))
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestNewEngineDefaults(t *testing.T) {
	e := NewEngine(Options{Logger: logger.Discard(), Limit: -3})
	opts := e.Options()

	assert.Equal(t, DefaultMinGain, opts.MinGain)
	assert.Equal(t, DefaultShortWordMax, opts.ShortWordMax)
	assert.Equal(t, DefaultMinChunk, opts.MinChunk)
	assert.Equal(t, 0, opts.Limit)
}

func TestSuggestCancelled(t *testing.T) {
	e := newTestEngine()
	buf := text.NewBuffer("console.log(1)\nco")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := e.Suggest(ctx, request(buf, pos(1, 2)))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, got)

	select {
	case res := <-e.SuggestAsync(ctx, request(buf, pos(1, 2))):
		assert.ErrorIs(t, res.Err, context.Canceled)
		assert.Nil(t, res.Suggestions)
	case <-time.After(time.Second):
		t.Fatal("no result delivered")
	}
}

func TestSuggestAsync(t *testing.T) {
	e := newTestEngine()
	buf := text.NewBuffer("console.log(1)\nconsole.log(2)\nco")

	res, ok := <-e.SuggestAsync(context.Background(), request(buf, pos(2, 2)))
	require.True(t, ok)
	require.NoError(t, res.Err)
	assert.Equal(t, "console.log(", res.Suggestions[0].Text)
}
