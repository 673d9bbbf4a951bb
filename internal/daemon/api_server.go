package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/cors"

	"spyglass/internal/bookmarks"
	"spyglass/internal/config"
	"spyglass/internal/frigate"
	"spyglass/internal/logging"
	"spyglass/internal/media"
	"spyglass/internal/services"
)

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	if cfg == nil || d == nil {
		return nil, nil
	}
	bind := strings.TrimSpace(cfg.Server.Bind)
	if bind == "" {
		return nil, nil
	}

	mux := http.NewServeMux()
	srv := &apiServer{
		bind:   bind,
		logger: logger,
		daemon: d,
	}

	mux.HandleFunc("/api/healthz", srv.handleHealth)
	mux.HandleFunc("/api/status", srv.handleStatus)
	mux.HandleFunc("/api/browse", srv.handleBrowse)
	mux.HandleFunc("/api/resolve", srv.handleResolve)
	mux.HandleFunc("/api/events", srv.handleEvents)
	mux.HandleFunc("/api/summary", srv.handleSummary)
	mux.HandleFunc("/api/bookmarks", srv.handleBookmarks)
	mux.HandleFunc("/api/bookmarks/", srv.handleBookmarkItem)

	var handler http.Handler = mux
	if cfg.Server.EnableGzip {
		handler = gzhttp.GzipHandler(handler)
	}
	handler = authMiddleware(cfg.Server.APIToken, handler)
	if len(cfg.Server.CORSOrigins) > 0 {
		// CORS sits outside auth so browser preflight requests succeed
		// without a token.
		handler = cors.New(cors.Options{
			AllowedOrigins: cfg.Server.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		}).Handler(handler)
	}
	handler = requestIDMiddleware(handler)

	srv.server = &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) address() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

type statusPayload struct {
	Running        bool   `json:"running"`
	PID            int    `json:"pid"`
	Version        string `json:"version"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
	Bind           string `json:"bind"`
	FrigateURL     string `json:"frigate_url"`
	LockFilePath   string `json:"lock_file_path"`
	BookmarkDBPath string `json:"bookmark_db_path"`
	BookmarkCount  int    `json:"bookmark_count"`
}

type eventsResponse struct {
	Events []frigate.Event `json:"events"`
}

type bookmarksResponse struct {
	Bookmarks []*bookmarks.Bookmark `json:"bookmarks"`
}

type bookmarkRequest struct {
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
}

func (b bookmarkRequest) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Name, validation.Required, validation.Length(1, 64)),
		validation.Field(&b.Identifier, validation.Required, validation.By(parseableIdentifier)),
	)
}

func parseableIdentifier(value any) error {
	raw, _ := value.(string)
	if _, ok := media.ParseIdentifier(raw); !ok {
		return errors.New("not a recognized media source identifier")
	}
	return nil
}

type eventsQuery struct {
	After  *int64
	Before *int64
	Camera string
	Label  string
	Zone   string
	Limit  int
}

func (q eventsQuery) Validate() error {
	if err := validation.ValidateStruct(&q,
		validation.Field(&q.Camera, validation.Length(0, 64)),
		validation.Field(&q.Label, validation.Length(0, 64)),
		validation.Field(&q.Zone, validation.Length(0, 64)),
		validation.Field(&q.Limit, validation.Min(0), validation.Max(10000)),
	); err != nil {
		return err
	}
	if q.After != nil && q.Before != nil && *q.After >= *q.Before {
		return errors.New("after must be earlier than before")
	}
	return nil
}

func (q eventsQuery) toFrigate() frigate.EventsQuery {
	return frigate.EventsQuery{
		After:  q.After,
		Before: q.Before,
		Camera: q.Camera,
		Label:  q.Label,
		Zone:   q.Zone,
		Limit:  q.Limit,
	}
}

func parseEventsQuery(r *http.Request) (eventsQuery, error) {
	values := r.URL.Query()
	q := eventsQuery{
		Camera: strings.TrimSpace(values.Get("camera")),
		Label:  strings.TrimSpace(values.Get("label")),
		Zone:   strings.TrimSpace(values.Get("zone")),
	}
	if raw := strings.TrimSpace(values.Get("after")); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return q, fmt.Errorf("invalid after timestamp %q", raw)
		}
		q.After = &parsed
	}
	if raw := strings.TrimSpace(values.Get("before")); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return q, fmt.Errorf("invalid before timestamp %q", raw)
		}
		q.Before = &parsed
	}
	if raw := strings.TrimSpace(values.Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return q, fmt.Errorf("invalid limit %q", raw)
		}
		q.Limit = parsed
	}
	return q, nil
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	status := s.daemon.Status(r.Context())
	s.writeJSON(w, http.StatusOK, statusPayload{
		Running:        status.Running,
		PID:            status.PID,
		Version:        status.Version,
		UptimeSeconds:  status.UptimeSeconds,
		Bind:           status.Bind,
		FrigateURL:     status.FrigateURL,
		LockFilePath:   status.LockFilePath,
		BookmarkDBPath: status.BookmarkDBPath,
		BookmarkCount:  status.BookmarkCount,
	})
}

func (s *apiServer) handleBrowse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	identifier := strings.TrimSpace(r.URL.Query().Get("identifier"))
	ctx := services.WithIdentifier(r.Context(), identifier)
	logging.WithContext(ctx, s.log()).Debug("serving browse request")
	node, err := s.daemon.source.Browse(ctx, identifier)
	if err != nil {
		s.writeError(w, services.HTTPStatus(err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, node)
}

func (s *apiServer) handleResolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	identifier := strings.TrimSpace(r.URL.Query().Get("identifier"))
	if identifier == "" {
		s.writeError(w, http.StatusBadRequest, "identifier query parameter is required")
		return
	}
	logging.WithContext(services.WithIdentifier(r.Context(), identifier), s.log()).Debug("serving resolve request")
	resolved, err := s.daemon.source.Resolve(identifier)
	if err != nil {
		s.writeError(w, services.HTTPStatus(err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, resolved)
}

func (s *apiServer) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	query, err := parseEventsQuery(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := query.Validate(); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ctx := services.WithCamera(r.Context(), query.Camera)
	logging.WithContext(ctx, s.log()).Debug("serving event query", logging.Int("limit", query.Limit))
	events, err := s.daemon.client.GetEvents(ctx, query.toFrigate())
	if err != nil {
		wrapped := services.Wrap(services.ErrUnavailable, "api-server", "events", "event query failed", err)
		s.writeError(w, services.HTTPStatus(wrapped), wrapped.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, eventsResponse{Events: events})
}

func (s *apiServer) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	rows, err := s.daemon.client.GetEventSummary(r.Context())
	if err != nil {
		wrapped := services.Wrap(services.ErrUnavailable, "api-server", "summary", "event summary fetch failed", err)
		s.writeError(w, services.HTTPStatus(wrapped), wrapped.Error())
		return
	}
	summary, err := media.BuildSummary(rows, s.daemon.loc)
	if err != nil {
		s.writeError(w, services.HTTPStatus(err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

func (s *apiServer) handleBookmarks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := s.daemon.store.List(r.Context())
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, bookmarksResponse{Bookmarks: list})
	case http.MethodPost:
		var req bookmarkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid bookmark payload")
			return
		}
		if err := req.Validate(); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		bookmark, err := s.daemon.store.Save(r.Context(), req.Name, req.Identifier)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.writeJSON(w, http.StatusCreated, bookmark)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *apiServer) handleBookmarkItem(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/api/bookmarks/")
	if name == "" || strings.Contains(name, "/") {
		s.writeError(w, http.StatusNotFound, "bookmark not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		bookmark, err := s.daemon.store.Get(r.Context(), name)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if bookmark == nil {
			s.writeError(w, http.StatusNotFound, "bookmark not found")
			return
		}
		s.writeJSON(w, http.StatusOK, bookmark)
	case http.MethodDelete:
		removed, err := s.daemon.store.Delete(r.Context(), name)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !removed {
			s.writeError(w, http.StatusNotFound, "bookmark not found")
			return
		}
		s.writeJSON(w, http.StatusNoContent, nil)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *apiServer) log() *slog.Logger {
	if s.logger != nil {
		return s.logger.With(logging.String("component", "api-server"))
	}
	return logging.NewNop()
}
