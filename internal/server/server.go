package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"poap2rss/internal/domain"
	"poap2rss/internal/poap"
	"poap2rss/internal/rss"
	"poap2rss/internal/service"
)

// FeedRenderer assembles feeds for the two inbound request shapes.
type FeedRenderer interface {
	EventFeed(ctx context.Context, eventID int64, opts service.RenderOptions) (*domain.Feed, error)
	AddressFeed(ctx context.Context, address string, opts service.RenderOptions) (*domain.Feed, error)
}

// Config holds HTTP boundary configuration.
type Config struct {
	// RequestTimeout bounds one whole render: credential refresh plus
	// the upstream calls plus alias resolution.
	RequestTimeout time.Duration
	// CacheTTL is advertised to clients via Cache-Control.
	CacheTTL time.Duration
}

// Server exposes the two feed endpoints.
type Server struct {
	feeds  FeedRenderer
	logger *slog.Logger
	cfg    Config
}

// New creates a Server.
func New(feeds FeedRenderer, logger *slog.Logger, cfg Config) *Server {
	return &Server{
		feeds:  feeds,
		logger: logger.With("component", "server"),
		cfg:    cfg,
	}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /event/{id}", s.handleEventFeed)
	mux.HandleFunc("GET /address/{address}", s.handleAddressFeed)
	return mux
}

func (s *Server) handleEventFeed(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "event id must be a number")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	feed, err := s.feeds.EventFeed(ctx, eventID, renderOptions(r))
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	s.writeFeed(w, r, feed)
}

func (s *Server) handleAddressFeed(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	feed, err := s.feeds.AddressFeed(ctx, address, renderOptions(r))
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	s.writeFeed(w, r, feed)
}

// renderOptions reads the request-level switches. noalert=1 (or any
// truthy value) suppresses the inactivity entry; caching is unaffected
// since cached payloads are upstream data, not rendered feeds.
func renderOptions(r *http.Request) service.RenderOptions {
	suppress, _ := strconv.ParseBool(r.URL.Query().Get("noalert"))
	return service.RenderOptions{SuppressInactivity: suppress}
}

func (s *Server) writeFeed(w http.ResponseWriter, r *http.Request, feed *domain.Feed) {
	body, err := rss.Render(feed)
	if err != nil {
		s.logger.Error("render failed", "path", r.URL.Path, "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d", int(s.cfg.CacheTTL.Seconds())))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// writeFailure maps the error taxonomy to response statuses: unknown
// resource 404, rate limiting 503, upstream/auth trouble 502,
// everything else (parse errors included) 500.
func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	var (
		authErr     *poap.AuthError
		upstreamErr *poap.UpstreamError
		parseErr    *poap.ParseError
	)

	switch {
	case errors.Is(err, service.ErrFeedNotFound):
		s.logger.Info("feed not found", "path", r.URL.Path)
		s.writeError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, poap.ErrRateLimited):
		s.logger.Warn("upstream rate limited", "path", r.URL.Path)
		s.writeError(w, http.StatusServiceUnavailable, "upstream rate limited, retry later")
	case errors.As(err, &authErr):
		s.logger.Error("upstream auth failed", "path", r.URL.Path, "error", err)
		s.writeError(w, http.StatusBadGateway, "upstream authentication failed")
	case errors.As(err, &upstreamErr):
		s.logger.Error("upstream error", "path", r.URL.Path, "status", upstreamErr.Status)
		s.writeError(w, http.StatusBadGateway, "upstream error")
	case errors.As(err, &parseErr):
		s.logger.Error("upstream response unparseable", "path", r.URL.Path, "endpoint", parseErr.Endpoint, "error", parseErr.Err)
		s.writeError(w, http.StatusInternalServerError, "internal server error")
	default:
		s.logger.Error("render failed", "path", r.URL.Path, "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
