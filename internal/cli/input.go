// Package cli handles cmd line input and suggestions for DBG and testing the engine against a file
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bastiangx/bufcomplete/internal/logger"
	"github.com/bastiangx/bufcomplete/internal/utils"
	"github.com/bastiangx/bufcomplete/pkg/suggest"
	"github.com/bastiangx/bufcomplete/pkg/text"
	"github.com/charmbracelet/log"
)

var errQuit = errors.New("quit")

// InputHandler reads commands from stdin and runs completion requests
// against an in-memory copy of a document. Accepted suggestions are applied
// to that copy, never written back to disk.
type InputHandler struct {
	provider     suggest.Provider
	buffer       *text.Buffer
	suggestLimit int
	showRanges   bool
	requestCount int
	out          *log.Logger

	// last completion, for "a <n>"
	last       []suggest.Suggestion
	lastCursor text.Position
	lastPrefix string
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(provider suggest.Provider, buf *text.Buffer, limit int, showRanges bool) *InputHandler {
	return &InputHandler{
		provider:     provider,
		buffer:       buf,
		suggestLimit: limit,
		showRanges:   showRanges,
		out:          logger.Default(os.Stderr, ""),
	}
}

// Buffer returns the current document
func (h *InputHandler) Buffer() *text.Buffer {
	return h.buffer
}

// Start begins the interface loop on stdin.
func (h *InputHandler) Start() error {
	return h.Run(os.Stdin, os.Stderr)
}

// Run reads commands from r until "q" or EOF, printing to w.
func (h *InputHandler) Run(r io.Reader, w io.Writer) error {
	h.out = logger.Default(w, "")
	h.out.Print("bufcomplete CLI [DEBUG]")
	h.out.Print("commands: '<row> <col>' to complete, 'a <n>' to accept, 'p' to print, 'q' to quit")

	scanner := bufio.NewScanner(r)
	for {
		h.out.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := h.handleInput(line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			h.out.Error(err)
		}
	}
}

type commandKind int

const (
	cmdComplete commandKind = iota
	cmdAccept
	cmdPrint
	cmdQuit
)

type command struct {
	kind   commandKind
	cursor text.Position
	// 1-based index into the last suggestion list
	index int
}

func parseCommand(line string) (command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{}, fmt.Errorf("empty command")
	}
	switch fields[0] {
	case "q", "quit":
		return command{kind: cmdQuit}, nil
	case "p", "print":
		return command{kind: cmdPrint}, nil
	case "a", "accept":
		if len(fields) != 2 {
			return command{}, fmt.Errorf("usage: a <n>")
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 {
			return command{}, fmt.Errorf("invalid suggestion number %q", fields[1])
		}
		return command{kind: cmdAccept, index: n}, nil
	}
	if len(fields) != 2 {
		return command{}, fmt.Errorf("unknown command %q", line)
	}
	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return command{}, fmt.Errorf("invalid row %q", fields[0])
	}
	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return command{}, fmt.Errorf("invalid column %q", fields[1])
	}
	return command{kind: cmdComplete, cursor: text.Position{Row: row, Column: col}}, nil
}

func (h *InputHandler) handleInput(line string) error {
	cmd, err := parseCommand(line)
	if err != nil {
		return err
	}
	switch cmd.kind {
	case cmdQuit:
		return errQuit
	case cmdPrint:
		h.printBuffer()
		return nil
	case cmdAccept:
		return h.accept(cmd.index)
	default:
		return h.complete(cmd.cursor)
	}
}

// complete runs one request at cursor and prints the results.
func (h *InputHandler) complete(cursor text.Position) error {
	if cursor.Row < 0 || cursor.Row >= h.buffer.LineCount() ||
		cursor.Column < 0 || cursor.Column > len(h.buffer.LineText(cursor.Row)) {
		return fmt.Errorf("cursor %s: %w", cursor, text.ErrOutOfRange)
	}
	h.requestCount++

	prefix := text.PrefixAt(h.buffer, cursor)
	h.last, h.lastCursor, h.lastPrefix = nil, cursor, prefix
	if prefix == "" {
		log.Warnf("No word before %s", cursor)
		return nil
	}

	start := time.Now()
	suggestions, err := h.provider.Suggest(context.Background(), suggest.Request{
		Document: h.buffer,
		Cursor:   cursor,
		Prefix:   prefix,
	})
	if err != nil {
		return err
	}
	suggestions = h.filter(suggestions)
	log.Debugf("Took [ %v ] for prefix '%s'", time.Since(start), prefix)

	if len(suggestions) == 0 {
		h.out.Warnf("No suggestions found for prefix: '%s'", prefix)
		return nil
	}
	h.last = suggestions

	h.out.Printf("Found %d suggestions for prefix '%s' at %s:", len(suggestions), prefix, cursor)
	for i, s := range suggestions {
		h.out.Print(h.formatSuggestion(i+1, s))
	}
	return nil
}

// accept applies the n-th suggestion over the prefix, records it and asks
// again at the end of the inserted text.
func (h *InputHandler) accept(n int) error {
	if n > len(h.last) {
		return fmt.Errorf("no suggestion %d (have %d)", n, len(h.last))
	}
	s := h.last[n-1]
	start := text.Position{Row: h.lastCursor.Row, Column: h.lastCursor.Column - len(h.lastPrefix)}
	armed := h.provider.Accept(s)

	buf, err := h.buffer.Replace(text.Range{Start: start, End: h.lastCursor}, s.Text)
	if err != nil {
		return err
	}
	h.buffer = buf
	cursor := start.Advance(len(s.Text))
	h.out.Printf("Accepted '%s' (continuable: %t)", s.Text, armed)
	h.out.Print(h.buffer.LineText(cursor.Row))
	return h.complete(cursor)
}

func (h *InputHandler) filter(suggestions []suggest.Suggestion) []suggest.Suggestion {
	seen := utils.NewSuggestionFilter()
	out := suggestions[:0:0]
	for _, s := range suggestions {
		if !seen.ShouldInclude(s.Text) {
			continue
		}
		out = append(out, s)
		if h.suggestLimit > 0 && len(out) == h.suggestLimit {
			break
		}
	}
	return out
}

func (h *InputHandler) printBuffer() {
	for i, line := range h.buffer.Lines() {
		h.out.Printf("%s %s", lineNumberStyle.Render(fmt.Sprintf("%4d", i)), line)
	}
}
