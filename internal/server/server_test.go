package server

import (
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/lazypower/bestfriend/internal/engine"
	"github.com/lazypower/bestfriend/internal/store"
)

var testToday = time.Date(2025, 2, 27, 15, 0, 0, 0, time.UTC)

func testServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	opts = append([]Option{
		WithClock(engine.FixedClock{T: testToday}),
		WithRand(func() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }),
	}, opts...)
	srv := New(db, "test-version", opts...)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := testServer(t)

	w := do(t, srv, "GET", "/api/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]any
	decodeBody(t, w, &body)

	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
	if body["version"] != "test-version" {
		t.Errorf("version = %v, want test-version", body["version"])
	}
	if body["db"] != true {
		t.Errorf("db = %v, want true", body["db"])
	}
}

func TestRootMessage(t *testing.T) {
	srv := testServer(t)

	w := do(t, srv, "GET", "/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var body map[string]string
	decodeBody(t, w, &body)
	if body["message"] != "Bestest Friend API" {
		t.Errorf("message = %q", body["message"])
	}
}

func TestCORS(t *testing.T) {
	srv := testServer(t, WithAllowedOrigins([]string{"http://localhost:5173"}))

	req := httptest.NewRequest("OPTIONS", "/api/friends", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Allow-Origin = %q, want http://localhost:5173", got)
	}

	req = httptest.NewRequest("GET", "/api/friends", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unexpected Allow-Origin %q for unknown origin", got)
	}
}

func TestChatRateLimit(t *testing.T) {
	srv := testServer(t, WithChatLimit(0.001, 2))

	for i := 0; i < 2; i++ {
		if w := do(t, srv, "POST", "/api/chat", `{"message":"hi"}`); w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, w.Code)
		}
	}
	w := do(t, srv, "POST", "/api/chat", `{"message":"hi"}`)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}

	// Other endpoints are not limited.
	if w := do(t, srv, "GET", "/api/friends", ""); w.Code != http.StatusOK {
		t.Errorf("friends status = %d, want 200", w.Code)
	}
}

func TestUI(t *testing.T) {
	fsys := fstest.MapFS{
		"index.html":    {Data: []byte("<html>app</html>")},
		"assets/app.js": {Data: []byte("console.log(1)")},
	}
	srv := testServer(t, WithUI(fsys))

	w := do(t, srv, "GET", "/app/assets/app.js", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "console.log") {
		t.Errorf("asset: status = %d body = %q", w.Code, w.Body.String())
	}

	w = do(t, srv, "GET", "/app/friends/12", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "<html>app</html>") {
		t.Errorf("fallback: status = %d body = %q", w.Code, w.Body.String())
	}

	if w := do(t, testServer(t), "GET", "/app/", ""); w.Code != http.StatusNotFound {
		t.Errorf("without UI: status = %d, want 404", w.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	srv := testServer(t)

	if w := do(t, srv, "GET", "/api/nope", ""); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
