package daemon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"spyglass/internal/bookmarks"
	"spyglass/internal/frigate"
	"spyglass/internal/logging"
	"spyglass/internal/media"
	"spyglass/internal/services"
	"spyglass/internal/testsupport"
)

func newTestDaemon(t *testing.T, frigateURL string) *Daemon {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithFrigateURL(frigateURL))
	store := testsupport.MustOpenStore(t, cfg)
	client, err := frigate.New(cfg.Frigate.URL)
	if err != nil {
		t.Fatalf("frigate.New: %v", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("Location: %v", err)
	}
	source, err := media.NewSource(client, media.WithLocation(loc))
	if err != nil {
		t.Fatalf("media.NewSource: %v", err)
	}
	d, err := New(cfg, store, client, source, logging.NewNop(), "test")
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	return d
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func TestAPIServerHandleBrowseRoot(t *testing.T) {
	d := newTestDaemon(t, "http://frigate.test:5000")

	req := httptest.NewRequest(http.MethodGet, "/api/browse", nil)
	w := httptest.NewRecorder()
	d.api.handleBrowse(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var node media.BrowseNode
	decodeJSON(t, w, &node)
	if len(node.Children) != 2 {
		t.Fatalf("expected 2 root children, got %d", len(node.Children))
	}
}

func TestAPIServerBrowseLogsRequestScope(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFrigateURL("http://frigate.test:5000"))
	store := testsupport.MustOpenStore(t, cfg)
	client, err := frigate.New(cfg.Frigate.URL)
	if err != nil {
		t.Fatalf("frigate.New: %v", err)
	}
	source, err := media.NewSource(client)
	if err != nil {
		t.Fatalf("media.NewSource: %v", err)
	}
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	d, err := New(cfg, store, client, source, logger, "test")
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/browse?identifier=bogus/x", nil)
	req = req.WithContext(services.WithRequestID(req.Context(), "req-7"))
	w := httptest.NewRecorder()
	d.api.handleBrowse(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid identifier, got %d", w.Code)
	}
	output := logs.String()
	for _, fragment := range []string{"serving browse request", "request_id=req-7", "identifier=bogus/x"} {
		if !strings.Contains(output, fragment) {
			t.Errorf("expected %q in browse log output, got %q", fragment, output)
		}
	}
}

func TestAPIServerHandleBrowseInvalidIdentifier(t *testing.T) {
	d := newTestDaemon(t, "http://frigate.test:5000")

	req := httptest.NewRequest(http.MethodGet, "/api/browse?identifier=bogus/x", nil)
	w := httptest.NewRecorder()
	d.api.handleBrowse(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid identifier, got %d", w.Code)
	}
}

func TestAPIServerHandleBrowseRecorderDown(t *testing.T) {
	backend := httptest.NewServer(http.NotFoundHandler())
	url := backend.URL
	backend.Close()

	d := newTestDaemon(t, url)

	req := httptest.NewRequest(http.MethodGet, "/api/browse?identifier=clip-search", nil)
	w := httptest.NewRecorder()
	d.api.handleBrowse(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 when recorder is down, got %d", w.Code)
	}
}

func TestAPIServerHandleResolve(t *testing.T) {
	d := newTestDaemon(t, "http://frigate.test:5000")

	req := httptest.NewRequest(http.MethodGet, "/api/resolve?identifier=clips/front_door-1718000000.0.mp4", nil)
	w := httptest.NewRecorder()
	d.api.handleResolve(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var resolved media.PlayMedia
	decodeJSON(t, w, &resolved)
	if !strings.HasPrefix(resolved.URL, "/api/frigate/") {
		t.Fatalf("unexpected playback url: %q", resolved.URL)
	}
	if resolved.MIMEType != "video/mp4" {
		t.Fatalf("unexpected mime type: %q", resolved.MIMEType)
	}
}

func TestAPIServerHandleResolveRequiresIdentifier(t *testing.T) {
	d := newTestDaemon(t, "http://frigate.test:5000")

	req := httptest.NewRequest(http.MethodGet, "/api/resolve", nil)
	w := httptest.NewRecorder()
	d.api.handleResolve(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing identifier, got %d", w.Code)
	}
}

func TestAPIServerHandleEventsRejectsBadQuery(t *testing.T) {
	d := newTestDaemon(t, "http://frigate.test:5000")

	cases := []struct {
		name  string
		query string
	}{
		{"bad after", "after=tomorrow"},
		{"bad limit", "limit=many"},
		{"negative limit", "limit=-1"},
		{"inverted window", "after=200&before=100"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/events?"+tc.query, nil)
			w := httptest.NewRecorder()
			d.api.handleEvents(w, req)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
		})
	}
}

func TestAPIServerHandleEvents(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/events" {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("camera"); got != "front_door" {
			t.Errorf("unexpected camera filter: %q", got)
		}
		fmt.Fprint(w, `[{"id":"1718000000.123456-abcd","camera":"front_door","label":"person","zones":["porch"],"start_time":1718000000,"end_time":1718000012,"top_score":0.92,"has_clip":true,"has_snapshot":true}]`)
	}))
	t.Cleanup(backend.Close)

	d := newTestDaemon(t, backend.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/events?camera=front_door&limit=5", nil)
	w := httptest.NewRecorder()
	d.api.handleEvents(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var resp eventsResponse
	decodeJSON(t, w, &resp)
	if len(resp.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(resp.Events))
	}
	if resp.Events[0].Camera != "front_door" {
		t.Fatalf("unexpected camera: %q", resp.Events[0].Camera)
	}
}

func TestAPIServerHandleSummary(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/events/summary" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `[{"camera":"front_door","label":"person","zones":["porch"],"day":"2024-06-10","count":3}]`)
	}))
	t.Cleanup(backend.Close)

	d := newTestDaemon(t, backend.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	w := httptest.NewRecorder()
	d.api.handleSummary(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var summary media.SummaryData
	decodeJSON(t, w, &summary)
	if len(summary.Rows) != 1 {
		t.Fatalf("expected 1 summary row, got %d", len(summary.Rows))
	}
	if len(summary.Cameras) != 1 || summary.Cameras[0] != "front_door" {
		t.Fatalf("unexpected cameras: %v", summary.Cameras)
	}
}

func TestAPIServerBookmarksLifecycle(t *testing.T) {
	d := newTestDaemon(t, "http://frigate.test:5000")

	body := strings.NewReader(`{"name":"porch","identifier":"clip-search/.front_door///front_door//"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/bookmarks", body)
	w := httptest.NewRecorder()
	d.api.handleBookmarks(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}
	var created bookmarks.Bookmark
	decodeJSON(t, w, &created)
	if created.ID == 0 {
		t.Fatal("expected bookmark id to be assigned")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/bookmarks", nil)
	w = httptest.NewRecorder()
	d.api.handleBookmarks(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var list bookmarksResponse
	decodeJSON(t, w, &list)
	if len(list.Bookmarks) != 1 {
		t.Fatalf("expected 1 bookmark, got %d", len(list.Bookmarks))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/bookmarks/porch", nil)
	w = httptest.NewRecorder()
	d.api.handleBookmarkItem(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/bookmarks/porch", nil)
	w = httptest.NewRecorder()
	d.api.handleBookmarkItem(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 No Content, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/bookmarks/porch", nil)
	w = httptest.NewRecorder()
	d.api.handleBookmarkItem(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}

func TestAPIServerBookmarkValidation(t *testing.T) {
	d := newTestDaemon(t, "http://frigate.test:5000")

	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"identifier":"clip-search"}`},
		{"missing identifier", `{"name":"porch"}`},
		{"unparseable identifier", `{"name":"porch","identifier":"bogus/x"}`},
		{"malformed json", `{"name":`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/bookmarks", strings.NewReader(tc.body))
			w := httptest.NewRecorder()
			d.api.handleBookmarks(w, req)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
		})
	}
}

func TestAPIServerMethodNotAllowed(t *testing.T) {
	d := newTestDaemon(t, "http://frigate.test:5000")

	req := httptest.NewRequest(http.MethodPost, "/api/browse", nil)
	w := httptest.NewRecorder()
	d.api.handleBrowse(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := authMiddleware("secret", next)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong token, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d", w.Code)
	}

	passthrough := authMiddleware("", next)
	req = httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w = httptest.NewRecorder()
	passthrough.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with auth disabled, got %d", w.Code)
	}
}

func TestRequestIDMiddlewarePreservesCallerID(t *testing.T) {
	handler := requestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set(requestIDHeader, "fixed-id")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); got != "fixed-id" {
		t.Fatalf("expected caller request id to survive, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Header().Get(requestIDHeader) == "" {
		t.Fatal("expected generated request id on response")
	}
}
