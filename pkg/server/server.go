package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bastiangx/bufcomplete/internal/logger"
	"github.com/bastiangx/bufcomplete/internal/utils"
	"github.com/bastiangx/bufcomplete/pkg/config"
	"github.com/bastiangx/bufcomplete/pkg/suggest"
	"github.com/bastiangx/bufcomplete/pkg/text"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	// ErrUnknownDocument is returned for actions on a document that was never opened
	ErrUnknownDocument = errors.New("unknown document")
	// ErrUnknownAction is returned for an unsupported "a" value
	ErrUnknownAction = errors.New("unknown action")
	// ErrInvalidRequest is returned for malformed or out of bounds requests
	ErrInvalidRequest = errors.New("invalid request")
)

// session is one open document with its own engine, so continuation state
// never leaks between documents.
type session struct {
	buffer      *text.Buffer
	engine      *suggest.Engine
	opened      time.Time
	completions int
}

// Server handles the IPC for buffer completions
type Server struct {
	config       *config.Config
	configPath   string
	decoder      *msgpack.Decoder
	encoder      *msgpack.Encoder
	sessions     map[string]*session
	requestCount int
	logger       *log.Logger
}

// NewServer creates a new completion server using stdin/stdout for IPC
func NewServer(cfg *config.Config, configPath string) *Server {
	return NewServerWithIO(cfg, configPath, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server over arbitrary streams
func NewServerWithIO(cfg *config.Config, configPath string, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Server{
		config:     cfg,
		configPath: configPath,
		decoder:    msgpack.NewDecoder(bufio.NewReader(r)),
		encoder:    msgpack.NewEncoder(w),
		sessions:   make(map[string]*session),
		logger:     logger.New("server"),
	}
}

// Start begins listening for IPC requests and returns nil once the input is closed.
func (s *Server) Start() error {
	s.logger.Debug("Starting Server.")
	s.sendResponse(StatusResponse{Status: "ready"})

	for {
		// decode raw first so a malformed request never desyncs the stream
		raw, err := s.decoder.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debug("Input closed, stopping server")
				return nil
			}
			s.logger.Errorf("Reading from stdin: %v", err)
			return err
		}

		var req Request
		if err := msgpack.Unmarshal(raw, &req); err != nil {
			s.logger.Errorf("Unmarshaling request: %v", err)
			s.sendError("", fmt.Errorf("%w: %v", ErrInvalidRequest, err))
			continue
		}
		s.requestCount++
		s.handleRequest(req)
	}
}

func (s *Server) handleRequest(req Request) {
	var err error
	switch req.Action {
	case "open":
		s.handleOpen(req)
	case "edit":
		err = s.handleEdit(req)
	case "complete":
		err = s.handleComplete(req)
	case "accept":
		err = s.handleAccept(req)
	case "close":
		err = s.handleClose(req)
	case "health":
		s.sendResponse(StatusResponse{ID: req.ID, Status: "ok"})
	case "stats":
		s.handleStats(req)
	case "reload":
		err = s.handleReload(req)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
	}
	if err != nil {
		s.logger.Debug("request failed", "id", req.ID, "action", req.Action, "err", err)
		s.sendError(req.ID, err)
	}
}

func (s *Server) handleOpen(req Request) {
	doc := req.Doc
	if doc == "" {
		doc = uuid.NewString()
	}
	opts := s.config.EngineOptions()
	opts.Logger = logger.New("suggest")
	buf := text.NewBuffer(req.Text)
	s.sessions[doc] = &session{
		buffer: buf,
		engine: suggest.NewEngine(opts),
		opened: time.Now(),
	}
	s.logger.Debugf("Opened document %s (%d lines)", doc, buf.LineCount())
	s.sendResponse(DocumentResponse{ID: req.ID, Doc: doc, Status: "opened", Lines: buf.LineCount()})
}

func (s *Server) handleEdit(req Request) error {
	sess, err := s.session(req.Doc)
	if err != nil {
		return err
	}
	start := text.Position{Row: req.Row, Column: req.Col}
	end := start
	if req.EndRow != nil {
		end.Row = *req.EndRow
	}
	if req.EndCol != nil {
		end.Column = *req.EndCol
	}
	buf, err := sess.buffer.Replace(text.NewRange(start, end), req.Text)
	if err != nil {
		return err
	}
	sess.buffer = buf
	s.sendResponse(DocumentResponse{ID: req.ID, Doc: req.Doc, Status: "edited", Lines: buf.LineCount()})
	return nil
}

// handleComplete validates the request, runs the document's engine and sends
// the ranked suggestions. Dropping duplicates keeps the first, best ranked copy.
func (s *Server) handleComplete(req Request) error {
	sess, err := s.session(req.Doc)
	if err != nil {
		return err
	}
	cursor := text.Position{Row: req.Row, Column: req.Col}
	if cursor.Row < 0 || cursor.Row >= sess.buffer.LineCount() ||
		cursor.Column < 0 || cursor.Column > len(sess.buffer.LineText(cursor.Row)) {
		return fmt.Errorf("cursor %s: %w", cursor, text.ErrOutOfRange)
	}

	var prefix string
	if req.Prefix != nil {
		prefix = *req.Prefix
		if prefix != "" && !utils.IsValidInput(prefix) {
			return fmt.Errorf("%w: prefix spans lines", ErrInvalidRequest)
		}
	} else {
		prefix = text.PrefixAt(sess.buffer, cursor)
	}
	if len(prefix) > s.config.Server.MaxPrefix {
		return fmt.Errorf("%w: prefix exceeds maximum length of %d characters", ErrInvalidRequest, s.config.Server.MaxPrefix)
	}

	limit := req.Limit
	if limit < 1 || limit > s.config.Server.MaxLimit {
		limit = s.config.Server.MaxLimit
	}

	start := time.Now()
	suggestions, err := sess.engine.Suggest(context.Background(), suggest.Request{
		Document: sess.buffer,
		Cursor:   cursor,
		Prefix:   prefix,
		Suffix:   req.Suffix,
	})
	if err != nil {
		return err
	}
	if s.config.Server.Dedupe {
		suggestions = dedupe(suggestions)
	}
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	elapsed := time.Since(start)

	ranks := utils.CreateRankList(len(suggestions))
	wire := make([]WireSuggestion, len(suggestions))
	for i, sg := range suggestions {
		wire[i] = toWireSuggestion(sg, ranks[i])
	}
	sess.completions++

	s.sendResponse(CompletionResponse{
		ID:          req.ID,
		Suggestions: wire,
		Count:       len(wire),
		TimeTaken:   elapsed.Microseconds(),
	})
	return nil
}

func (s *Server) handleAccept(req Request) error {
	sess, err := s.session(req.Doc)
	if err != nil {
		return err
	}
	if req.Pick == nil {
		return fmt.Errorf("%w: missing 'pick'", ErrInvalidRequest)
	}
	if req.Pick.negative() {
		return fmt.Errorf("%w: negative coordinates in 'pick'", ErrInvalidRequest)
	}
	armed := sess.engine.Accept(req.Pick.suggestion())
	s.sendResponse(AcceptResponse{ID: req.ID, Status: "ok", Armed: armed})
	return nil
}

func (s *Server) handleClose(req Request) error {
	sess, err := s.session(req.Doc)
	if err != nil {
		return err
	}
	delete(s.sessions, req.Doc)
	s.logger.Debugf("Closed document %s after %v, %d completions", req.Doc, time.Since(sess.opened), sess.completions)
	s.sendResponse(DocumentResponse{ID: req.ID, Doc: req.Doc, Status: "closed"})
	return nil
}

func (s *Server) handleStats(req Request) {
	completions := make(map[string]int, len(s.sessions))
	for doc, sess := range s.sessions {
		completions[doc] = sess.completions
	}
	s.sendResponse(StatsResponse{
		ID:          req.ID,
		Documents:   len(s.sessions),
		Requests:    s.requestCount,
		Completions: completions,
	})
}

// handleReload re-reads the config file. Open documents keep their engines
// and continuation state, new documents get the new thresholds.
func (s *Server) handleReload(req Request) error {
	if s.configPath == "" {
		return fmt.Errorf("%w: no config file in use", ErrInvalidRequest)
	}
	cfg, err := config.LoadConfig(s.configPath)
	if err != nil {
		return err
	}
	s.config = cfg
	s.logger.Debugf("Config reloaded from %s", s.configPath)
	s.sendResponse(StatusResponse{ID: req.ID, Status: "reloaded"})
	return nil
}

func (s *Server) session(doc string) (*session, error) {
	sess, ok := s.sessions[doc]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDocument, doc)
	}
	return sess, nil
}

func dedupe(suggestions []suggest.Suggestion) []suggest.Suggestion {
	filter := utils.NewSuggestionFilter()
	out := suggestions[:0:0]
	for _, sg := range suggestions {
		if filter.ShouldInclude(sg.Text) {
			out = append(out, sg)
		}
	}
	return out
}

func (s *Server) sendResponse(response any) {
	if err := s.encoder.Encode(response); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
	}
}

// sendError sends an error response with an HTTP-like code
func (s *Server) sendError(id string, err error) {
	s.sendResponse(ErrorResponse{ID: id, Error: err.Error(), Code: errorCode(err)})
}

func errorCode(err error) int {
	switch {
	case errors.Is(err, ErrUnknownDocument):
		return 404
	case errors.Is(err, ErrUnknownAction), errors.Is(err, ErrInvalidRequest), errors.Is(err, text.ErrOutOfRange):
		return 400
	default:
		return 500
	}
}
