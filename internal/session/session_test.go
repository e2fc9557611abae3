package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

const testSecret = "test-session-secret"

// roundTrip replays the cookies written by a previous response onto a fresh
// request, mimicking a browser.
func roundTrip(t *testing.T, w *httptest.ResponseRecorder, method, target string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestLoginLogoutStateMachine(t *testing.T) {
	m := NewManager(testSecret, nil)

	// Anonymous by default
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := m.CurrentUserID(req); ok {
		t.Fatal("fresh request should be anonymous")
	}

	// Anonymous -> Authenticated(7)
	w := httptest.NewRecorder()
	if err := m.Login(w, req, 7); err != nil {
		t.Fatalf("login: %v", err)
	}
	req2 := roundTrip(t, w, http.MethodGet, "/")
	uid, ok := m.CurrentUserID(req2)
	if !ok || uid != 7 {
		t.Fatalf("expected authenticated user 7, got %d %v", uid, ok)
	}

	// Authenticated -> Anonymous
	w2 := httptest.NewRecorder()
	if err := m.Logout(w2, req2); err != nil {
		t.Fatalf("logout: %v", err)
	}
	req3 := roundTrip(t, w2, http.MethodGet, "/")
	if _, ok := m.CurrentUserID(req3); ok {
		t.Fatal("expected anonymous after logout")
	}
}

func TestMiddlewareResolvesContextUser(t *testing.T) {
	m := NewManager(testSecret, nil)

	login := httptest.NewRecorder()
	if err := m.Login(login, httptest.NewRequest(http.MethodGet, "/", nil), 3); err != nil {
		t.Fatal(err)
	}

	var got uint
	var ok bool
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = UserIDFromContext(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), roundTrip(t, login, http.MethodGet, "/"))
	if !ok || got != 3 {
		t.Fatalf("expected context user 3, got %d %v", got, ok)
	}
}

func TestMiddlewareDropsDeletedUser(t *testing.T) {
	m := NewManager(testSecret, func(uint) bool { return false })

	login := httptest.NewRecorder()
	if err := m.Login(login, httptest.NewRequest(http.MethodGet, "/", nil), 3); err != nil {
		t.Fatal(err)
	}

	called := false
	var ok bool
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		_, ok = UserIDFromContext(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), roundTrip(t, login, http.MethodGet, "/"))
	if !called {
		t.Fatal("wrapped handler should still run")
	}
	if ok {
		t.Fatal("verifier rejected the user; request should be anonymous")
	}
}

func TestRequireAuthRedirectsAnonymous(t *testing.T) {
	m := NewManager(testSecret, nil)

	mutated := false
	h := m.Middleware(m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mutated = true
	})))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/messages/new", nil))

	if mutated {
		t.Fatal("gated handler ran for an anonymous request")
	}
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Fatalf("expected redirect to /, got %q", loc)
	}

	// The flash rides along in the session cookie.
	flashes := m.Flashes(httptest.NewRecorder(), roundTrip(t, w, http.MethodGet, "/"))
	if len(flashes) != 1 || flashes[0].Message != "Access unauthorized." || flashes[0].Category != "danger" {
		t.Fatalf("expected the unauthorized flash, got %#v", flashes)
	}
}

func TestRequireAuthPassesAuthenticated(t *testing.T) {
	m := NewManager(testSecret, nil)

	login := httptest.NewRecorder()
	if err := m.Login(login, httptest.NewRequest(http.MethodGet, "/", nil), 9); err != nil {
		t.Fatal(err)
	}

	var got uint
	h := m.Middleware(m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = UserIDFromContext(r.Context())
	})))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, roundTrip(t, login, http.MethodPost, "/messages/new"))
	if got != 9 {
		t.Fatalf("expected handler to run as user 9, got %d", got)
	}
}

func TestFlashesAreOneShot(t *testing.T) {
	m := NewManager(testSecret, nil)

	w := httptest.NewRecorder()
	m.Flash(w, httptest.NewRequest(http.MethodGet, "/", nil), "success", "Hello, alice!")

	req := roundTrip(t, w, http.MethodGet, "/")
	w2 := httptest.NewRecorder()
	first := m.Flashes(w2, req)
	if len(first) != 1 || first[0].Message != "Hello, alice!" {
		t.Fatalf("expected queued flash, got %#v", first)
	}

	// Draining clears the queue.
	second := m.Flashes(httptest.NewRecorder(), roundTrip(t, w2, http.MethodGet, "/"))
	if len(second) != 0 {
		t.Fatalf("flashes should be one-shot, got %#v", second)
	}
}
