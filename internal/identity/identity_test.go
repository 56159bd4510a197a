package identity

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func run(t *testing.T, req *http.Request) (userID, clientKey string, rec *httptest.ResponseRecorder) {
	t.Helper()
	h := Middleware(true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID = UserIDFromContext(r.Context())
		clientKey = ClientKey(r.Context())
	}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return userID, clientKey, rec
}

func TestMiddlewareIssuesCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/generate", nil)
	req.RemoteAddr = "10.0.0.7:5555"

	userID, key, rec := run(t, req)
	if !isValidAnonID(userID) {
		t.Fatalf("Expected anonymous id, got %q", userID)
	}
	if key != "ip:10.0.0.7" {
		t.Errorf("Expected first-time client keyed by IP, got %q", key)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != AnonCookieName || cookies[0].Value != userID {
		t.Errorf("Unexpected cookies %+v", cookies)
	}
	if cookies[0].Secure {
		t.Error("Expected insecure cookie in development")
	}
}

func TestMiddlewareKeepsValidCookie(t *testing.T) {
	id := "anon_" + strings.Repeat("ab", 16)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AnonCookieName, Value: id})

	userID, key, _ := run(t, req)
	if userID != id {
		t.Errorf("Expected %q, got %q", id, userID)
	}
	if key != id {
		t.Errorf("Expected returning client keyed by id, got %q", key)
	}
}

func TestMiddlewareReplacesInvalidCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AnonCookieName, Value: "anon_../../etc"})

	userID, _, _ := run(t, req)
	if userID == "anon_../../etc" || !isValidAnonID(userID) {
		t.Errorf("Expected a fresh id, got %q", userID)
	}
}

func TestIPFromRequestWithoutPort(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1"
	if got := IPFromRequest(req); got != "192.0.2.1" {
		t.Errorf("Unexpected ip %q", got)
	}
}
