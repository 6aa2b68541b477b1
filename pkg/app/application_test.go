package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"roombook/pkg/config"
	"roombook/pkg/logger"
	"roombook/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

type routeHandler struct {
	method string
	path   string
	fn     http.HandlerFunc
}

func (h routeHandler) RegisterRoutes(router *httprouter.Router) {
	router.HandlerFunc(h.method, h.path, h.fn)
}

func testConfig() *config.Config {
	return &config.Config{
		Port:            "0",
		AllowedOrigins:  []string{"http://localhost:3000"},
		RequestTimeout:  time.Second,
		IdempotencyTTL:  time.Minute,
		MaxRequestSize:  1024,
		ShutdownTimeout: time.Second,
		Log:             logger.Discard(),
	}
}

func newTestApp(t *testing.T) *Application {
	t.Helper()
	a := NewApplication(testConfig())
	a.SetApp(
		routeHandler{http.MethodGet, "/health", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}},
		routeHandler{http.MethodGet, "/api/bookings", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("[]"))
		}},
		routeHandler{http.MethodPost, "/api/bookings", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}},
		routeHandler{http.MethodGet, "/api/panic", func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}},
	)
	t.Cleanup(a.idempotencyStore.Stop)
	return a
}

func TestApplication_HealthSkipsCORS(t *testing.T) {
	a := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if w.Header().Get(middleware.HeaderRequestID) == "" {
		t.Error("expected request id on health response")
	}
}

func TestApplication_APIStack(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		path        string
		origin      string
		contentType string
		body        string
		wantStatus  int
	}{
		{"allowed origin", http.MethodGet, "/api/bookings", "http://localhost:3000", "", "", http.StatusOK},
		{"no origin", http.MethodGet, "/api/bookings", "", "", "", http.StatusOK},
		{"disallowed origin", http.MethodGet, "/api/bookings", "http://evil.example", "", "", http.StatusForbidden},
		{"wrong content type", http.MethodPost, "/api/bookings", "", "text/plain", "{}", http.StatusUnsupportedMediaType},
		{"body too large", http.MethodPost, "/api/bookings", "", "application/json", strings.Repeat("x", 2048), http.StatusRequestEntityTooLarge},
		{"json post", http.MethodPost, "/api/bookings", "", "application/json", "{}", http.StatusCreated},
		{"panic recovered", http.MethodGet, "/api/panic", "", "", "", http.StatusInternalServerError},
		{"unknown route", http.MethodGet, "/api/nope", "", "", "", http.StatusNotFound},
	}

	a := newTestApp(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()
			a.Handler().ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d (%s)", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestApplication_ShutdownHooksRunInOrder(t *testing.T) {
	a := newTestApp(t)

	var order []int
	a.OnShutdown(func() { order = append(order, 1) })
	a.OnShutdown(func() { order = append(order, 2) })

	for _, hook := range a.shutdownHooks {
		hook()
	}

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("unexpected hook order %v", order)
	}
}
