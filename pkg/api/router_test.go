package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ginot/kriptofs/pkg/passthrough"
)

func TestRouterRoutes(t *testing.T) {
	svc, err := passthrough.NewService(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}

	router := NewRouter(svc, func() bool { return true })

	cases := []struct {
		path string
		want int
	}{
		{"/health", http.StatusOK},
		{"/health/ready", http.StatusOK},
		{"/stats", http.StatusOK},
		{"/stats/inodes", http.StatusOK},
		{"/", http.StatusTemporaryRedirect},
		{"/nope", http.StatusNotFound},
	}

	for _, tc := range cases {
		req := httptest.NewRequest("GET", tc.path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != tc.want {
			t.Errorf("GET %s: expected status %d, got %d", tc.path, tc.want, w.Code)
		}
	}
}
