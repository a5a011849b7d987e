package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/preston-bernstein/football-sync-service/internal/http/handlers"
	"github.com/preston-bernstein/football-sync-service/internal/store"
)

func TestRouterRoutesKnownPaths(t *testing.T) {
	h := handlers.NewHandler(store.NewMemoryStore(), nil, nil, nil)
	router := NewRouter(h, handlers.NewAdminHandler(nil, "secret", nil))

	cases := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/ready", http.StatusOK},
		{http.MethodGet, "/targets", http.StatusOK},
		{http.MethodGet, "/snapshots/latest", http.StatusNotFound},
		{http.MethodGet, "/changes", http.StatusNotFound},
		{http.MethodPost, "/admin/cycles/run", http.StatusUnauthorized},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != tc.want {
			t.Fatalf("%s %s expected status %d, got %d", tc.method, tc.path, tc.want, rr.Code)
		}
	}
}

func TestRouterOmitsAdminWithoutHandler(t *testing.T) {
	h := handlers.NewHandler(nil, nil, nil, nil)
	router := NewRouter(h, nil)

	req := httptest.NewRequest(http.MethodPost, "/admin/cycles/run", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without admin handler, got %d", rr.Code)
	}
}

func TestRouterUnknownRouteReturns404(t *testing.T) {
	router := NewRouter(handlers.NewHandler(nil, nil, nil, nil), nil)

	req := httptest.NewRequest(http.MethodGet, "/does-not-exist", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown route, got %d", rr.Code)
	}
}
