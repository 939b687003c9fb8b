// internal/handlers/friend_test.go
package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"
)

// TestSearchUsersShortQuery checks that sub-minimum queries come back as an
// empty result without a directory lookup. The minimum counts characters,
// not bytes, so a two-character multibyte query is suppressed too.
func TestSearchUsersShortQuery(t *testing.T) {
	_ = newTestServer(t)

	for _, q := range []string{"", "ab", "早餐"} {
		req := authedRequest(t, uuid.New(), "GET", "/friends/search?q="+url.QueryEscape(q), nil)
		w := httptest.NewRecorder()
		SearchUsersHandler(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("query %q: expected 200, got %d: %s", q, w.Code, w.Body.String())
		}
		if w.Body.String() != "[]\n" {
			t.Fatalf("query %q: expected empty array, got %q", q, w.Body.String())
		}
	}
}

func TestSearchUsersRequiresAuth(t *testing.T) {
	_ = newTestServer(t)

	req := httptest.NewRequest("GET", "/friends/search?q=alex", nil)
	w := httptest.NewRecorder()
	SearchUsersHandler(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
