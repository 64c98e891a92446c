package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/microcosm-cc/bluemonday"

	"github.com/fredcamaral/coursedeck/internal/adapters/secondary/monitoring"
	"github.com/fredcamaral/coursedeck/internal/domain/entities"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string    `json:"error"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// HealthResponse is served on /health
type HealthResponse struct {
	Status      string               `json:"status"`
	Collections int                  `json:"collections"`
	Sessions    int                  `json:"sessions"`
	Clients     int                  `json:"clients"`
	Time        time.Time            `json:"time"`
	Metrics     *monitoring.Snapshot `json:"metrics,omitempty"`
	RenderCache *entities.CacheStats `json:"renderCache,omitempty"`
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	collections, err := s.catalog.Collections(ctx)
	if err != nil {
		s.handleError(w, err, statusFor(err))
		return
	}

	page, err := s.renderer.RenderHome(ctx, collections)
	s.writePage(w, page, err)
}

func (s *Server) handleCollectionPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	collection, err := s.catalog.Collection(ctx, mux.Vars(r)["collection"])
	if err != nil {
		s.handleError(w, err, statusFor(err))
		return
	}

	page, err := s.renderer.RenderCollection(ctx, collection)
	s.writePage(w, page, err)
}

func (s *Server) handleDeckPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	deck, err := s.sanitizedDeck(ctx, r)
	if err != nil {
		s.handleError(w, err, statusFor(err))
		return
	}

	page, err := s.renderer.RenderDeck(ctx, deck)
	s.writePage(w, page, err)
}

func (s *Server) handleSupportPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	doc, err := s.sanitizedSupport(ctx, r)
	if err != nil {
		s.handleError(w, err, statusFor(err))
		return
	}

	page, err := s.renderer.RenderSupport(ctx, doc)
	s.writePage(w, page, err)
}

func (s *Server) handleAPICollections(w http.ResponseWriter, r *http.Request) {
	collections, err := s.catalog.Collections(r.Context())
	if err != nil {
		s.handleError(w, err, statusFor(err))
		return
	}
	s.writeJSON(w, collections)
}

func (s *Server) handleAPICollection(w http.ResponseWriter, r *http.Request) {
	collection, err := s.catalog.Collection(r.Context(), mux.Vars(r)["collection"])
	if err != nil {
		s.handleError(w, err, statusFor(err))
		return
	}
	s.writeJSON(w, collection)
}

// handleAPIDocument serves the parsed section document.
// ?splits=false disables forced splits for this request.
func (s *Server) handleAPIDocument(w http.ResponseWriter, r *http.Request) {
	enableSplits := s.enableSplits
	if raw := r.URL.Query().Get("splits"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			s.handleError(w, err, http.StatusBadRequest)
			return
		}
		enableSplits = v
	}

	vars := mux.Vars(r)
	doc, err := s.decks.Document(r.Context(), vars["collection"], vars["module"], enableSplits)
	if err != nil {
		s.handleError(w, err, statusFor(err))
		return
	}
	s.writeJSON(w, doc)
}

func (s *Server) handleAPIDeck(w http.ResponseWriter, r *http.Request) {
	deck, err := s.sanitizedDeck(r.Context(), r)
	if err != nil {
		s.handleError(w, err, statusFor(err))
		return
	}
	s.writeJSON(w, deck)
}

func (s *Server) handleAPISupport(w http.ResponseWriter, r *http.Request) {
	doc, err := s.sanitizedSupport(r.Context(), r)
	if err != nil {
		s.handleError(w, err, statusFor(err))
		return
	}
	s.writeJSON(w, doc)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Clients: s.connMgr.Count(),
		Time:    time.Now(),
	}

	if s.sessions != nil {
		resp.Sessions = s.sessions.Count()
	}

	collections, err := s.catalog.Collections(r.Context())
	if err != nil {
		resp.Status = "degraded"
		s.logger.Warn("Health check could not list collections: %v", err)
	}
	resp.Collections = len(collections)

	if s.monitor != nil {
		snapshot := s.monitor.Snapshot()
		resp.Metrics = &snapshot
		if !s.monitor.Healthy() {
			resp.Status = "degraded"
		}
	}

	if s.renderCache != nil {
		stats := s.renderCache.Stats()
		resp.RenderCache = &stats
	}

	s.writeJSON(w, resp)
}

// sanitizedDeck builds the deck of the routed module and cleans its HTML
func (s *Server) sanitizedDeck(ctx context.Context, r *http.Request) (*entities.Deck, error) {
	vars := mux.Vars(r)
	start := time.Now()
	deck, err := s.decks.BuildDeck(ctx, vars["collection"], vars["module"])
	if err != nil {
		s.monitor.RecordDeckBuild(time.Since(start), 0, err)
		return nil, err
	}
	s.monitor.RecordDeckBuild(time.Since(start), len(deck.Slides), nil)

	policy := createHTMLSanitizer()
	clean := *deck
	clean.Slides = make([]entities.DeckSlide, len(deck.Slides))
	for i, slide := range deck.Slides {
		slide.HTML = policy.Sanitize(slide.HTML)
		clean.Slides[i] = slide
	}
	return &clean, nil
}

// sanitizedSupport builds the support document of the routed module and cleans its HTML
func (s *Server) sanitizedSupport(ctx context.Context, r *http.Request) (*entities.SupportDocument, error) {
	vars := mux.Vars(r)
	doc, err := s.decks.BuildSupport(ctx, vars["collection"], vars["module"])
	if err != nil {
		return nil, err
	}

	policy := createHTMLSanitizer()
	clean := *doc
	clean.Sections = make([]entities.SupportEntry, len(doc.Sections))
	for i, entry := range doc.Sections {
		entry.HTML = policy.Sanitize(entry.HTML)
		clean.Sections[i] = entry
	}
	return &clean, nil
}

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, entities.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrInvalidSlide):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// handleError writes a sanitized JSON error and logs the real one
func (s *Server) handleError(w http.ResponseWriter, err error, status int) {
	var message string
	switch status {
	case http.StatusBadRequest:
		message = "Invalid request"
	case http.StatusNotFound:
		message = "Resource not found"
	case http.StatusMethodNotAllowed:
		message = "Method not allowed"
	case http.StatusTooManyRequests:
		message = "Too many requests"
	case http.StatusInternalServerError:
		message = "Internal server error"
	default:
		message = "An error occurred"
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("HTTP error (status %d): %v", status, err)
	} else {
		s.logger.Debug("HTTP error (status %d): %v", status, err)
	}

	response := ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Time:    time.Now(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encodeErr := json.NewEncoder(w).Encode(response); encodeErr != nil {
		s.logger.Error("Failed to encode error response: %v", encodeErr)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		s.handleError(w, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(append(body, '\n')); err != nil {
		s.logger.Debug("Failed to write JSON response: %v", err)
	}
}

func (s *Server) writePage(w http.ResponseWriter, page []byte, err error) {
	if err != nil {
		s.handleError(w, err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(page); err != nil {
		s.logger.Debug("Failed to write page: %v", err)
	}
}

var textAlign = regexp.MustCompile(`^(left|right|center)$`)

// createHTMLSanitizer allows the subset of HTML produced by the markdown renderer
func createHTMLSanitizer() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowElements("p", "br", "hr")
	p.AllowElements("strong", "b", "em", "i", "u", "s", "del", "mark", "sub", "sup", "kbd")
	p.AllowElements("ul", "ol", "li", "dl", "dt", "dd")
	p.AllowElements("blockquote", "pre", "code")
	p.AllowElements("table", "thead", "tbody", "tr", "th", "td", "caption")
	p.AllowElements("div", "span")

	p.RequireParseableURLs(true)
	p.AllowURLSchemes("http", "https", "mailto")
	p.AllowRelativeURLs(true)
	p.AllowAttrs("href", "title").OnElements("a")
	p.AllowAttrs("src", "alt", "title").OnElements("img")

	p.AllowAttrs("start").Matching(bluemonday.Integer).OnElements("ol")
	p.AllowAttrs("type").Matching(regexp.MustCompile(`^checkbox$`)).OnElements("input")
	p.AllowAttrs("checked", "disabled").OnElements("input")
	p.AllowAttrs("align").Matching(textAlign).OnElements("th", "td")
	p.AllowStyles("text-align").Matching(textAlign).OnElements("th", "td")

	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowAttrs("class").OnElements("h1", "h2", "h3", "h4", "h5", "h6", "p", "div", "span", "pre", "code")

	return p
}
