package suggest

import (
	"context"
	"time"

	"github.com/bastiangx/bufcomplete/internal/logger"
	"github.com/bastiangx/bufcomplete/pkg/text"
	"github.com/charmbracelet/log"
)

// Default thresholds.
const (
	// DefaultMinGain is how many characters a pair expansion must add to its base match
	DefaultMinGain = 2
	// DefaultShortWordMax is the longest match that gets extended with the next word
	DefaultShortWordMax = 4
	// DefaultMinChunk is the shortest continuation chunk worth offering
	DefaultMinChunk = 2
)

// Options configures an Engine. Non-positive thresholds fall back to the defaults.
type Options struct {
	MinGain      int
	ShortWordMax int
	MinChunk     int
	// Limit caps the number of suggestions returned, 0 means no cap
	Limit  int
	Logger *log.Logger
}

// DefaultOptions returns Options with the default thresholds and no limit.
func DefaultOptions() Options {
	return Options{
		MinGain:      DefaultMinGain,
		ShortWordMax: DefaultShortWordMax,
		MinChunk:     DefaultMinChunk,
	}
}

// Engine runs completion requests against document snapshots.
// Each engine owns its own continuation state.
type Engine struct {
	opts    Options
	tracker *Tracker
	logger  *log.Logger
}

var _ Provider = (*Engine)(nil)

// NewEngine creates an engine with an idle continuation tracker.
func NewEngine(opts Options) *Engine {
	if opts.MinGain <= 0 {
		opts.MinGain = DefaultMinGain
	}
	if opts.ShortWordMax <= 0 {
		opts.ShortWordMax = DefaultShortWordMax
	}
	if opts.MinChunk <= 0 {
		opts.MinChunk = DefaultMinChunk
	}
	if opts.Limit < 0 {
		opts.Limit = 0
	}
	l := opts.Logger
	if l == nil {
		l = logger.New("suggest")
	}
	return &Engine{
		opts:    opts,
		tracker: NewTracker(opts.MinChunk),
		logger:  l,
	}
}

// Options returns the effective options.
func (e *Engine) Options() Options {
	return e.opts
}

// Suggest computes the ordered suggestions for req.
// Continuation suggestions come first, then matches and expansions ranked
// by distance from the prefix start. An empty prefix yields no suggestions.
// The only error is ctx's, in which case no suggestions are returned.
func (e *Engine) Suggest(ctx context.Context, req Request) ([]Suggestion, error) {
	if req.Prefix == "" || req.Document == nil {
		return []Suggestion{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	var suffix string
	if req.Suffix != nil {
		suffix = *req.Suffix
	} else {
		suffix = text.SuffixAt(req.Document, req.Cursor)
	}
	prefixStart := req.PrefixStart()

	var results []Suggestion
	cont := e.tracker.Evaluate(req.Document, req.Cursor, req.Prefix, suffix)
	if cont.Suggestion != nil {
		results = append(results, *cont.Suggestion)
	}
	if cont.Suppress {
		e.logger.Debug("source already retyped, continuation only", "prefix", req.Prefix, "count", len(results))
		return e.limit(results), nil
	}

	candidates := Extract(req.Document, BuildPattern(req.Prefix, suffix), prefixStart)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := len(candidates)

	if suffix == "" {
		candidates = append(candidates, Expand(req.Document, candidates, prefixStart, e.opts.MinGain, e.opts.ShortWordMax)...)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	Rank(candidates, prefixStart)

	for _, c := range candidates {
		src := c.Range
		ins := prefixStart
		results = append(results, Suggestion{
			Text:        c.Text,
			Kind:        c.Kind,
			Source:      &src,
			InsertStart: &ins,
		})
	}

	e.logger.Debugf("Took [ %v ] for prefix '%s': %d matches, %d expansions, continuation=%t",
		time.Since(start), req.Prefix, raw, len(candidates)-raw, cont.Suggestion != nil)
	return e.limit(results), nil
}

// SuggestAsync runs Suggest on its own goroutine and delivers exactly one Result.
// A request cancelled through ctx delivers ctx's error.
func (e *Engine) SuggestAsync(ctx context.Context, req Request) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		suggestions, err := e.Suggest(ctx, req)
		if err == nil {
			err = ctx.Err()
		}
		if err != nil {
			suggestions = nil
		}
		out <- Result{Suggestions: suggestions, Err: err}
	}()
	return out
}

// Accept remembers where an accepted suggestion came from, so that the next
// request can continue from there. Suggestions without an origin are ignored.
// Hosts must call it before refreshing their suggestion list.
func (e *Engine) Accept(s Suggestion) bool {
	if s.Source == nil || s.InsertStart == nil {
		return false
	}
	e.tracker.Remember(*s.Source, *s.InsertStart)
	e.logger.Debug("accepted", "text", s.Text, "kind", s.Kind, "source", s.Source, "insert", s.InsertStart)
	return true
}

// State returns a copy of the continuation state.
func (e *Engine) State() ContinuationState {
	return e.tracker.State()
}

func (e *Engine) limit(results []Suggestion) []Suggestion {
	if results == nil {
		results = []Suggestion{}
	}
	if e.opts.Limit > 0 && len(results) > e.opts.Limit {
		results = results[:e.opts.Limit]
	}
	return results
}
