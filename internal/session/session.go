// Package session implements the per-request authentication gate and flash
// messages on top of a gorilla/sessions cookie store. The resolved user id is
// threaded through the request context; handlers never read session state
// directly.
package session

import (
	"context"
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	// Name is the session cookie name.
	Name = "warbler_session"
	// CurrUserKey is the session key holding the authenticated user id.
	CurrUserKey = "curr_user"
)

// FlashMessage is a one-shot status string shown on the next rendered page.
type FlashMessage struct {
	Category string
	Message  string
}

func init() {
	gob.Register(FlashMessage{})
	gob.Register(uint(0))
}

type ctxKey string

const userIDCtxKey = ctxKey("userID")

// WithUserID stores the authenticated user id in the context.
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDCtxKey, userID)
}

// UserIDFromContext extracts the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	v := ctx.Value(userIDCtxKey)
	if v == nil {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// UserVerifier checks that a session's user still exists. Sessions referring
// to deleted users are treated as anonymous.
type UserVerifier func(userID uint) bool

// Manager owns the cookie store and the two session states: Anonymous and
// Authenticated(userID).
type Manager struct {
	store  *sessions.CookieStore
	verify UserVerifier

	// OnUnauthorized, when set, runs each time RequireAuth rejects a request.
	OnUnauthorized func()
}

func NewManager(secret string, verify UserVerifier) *Manager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   3600 * 16,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{store: store, verify: verify}
}

// Login transitions the session to Authenticated(userID).
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, userID uint) error {
	sess, _ := m.store.Get(r, Name)
	sess.Values[CurrUserKey] = userID
	return sess.Save(r, w)
}

// Logout clears the user key, returning the session to Anonymous.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	sess, _ := m.store.Get(r, Name)
	delete(sess.Values, CurrUserKey)
	return sess.Save(r, w)
}

// CurrentUserID reads the authenticated user id from the session cookie.
func (m *Manager) CurrentUserID(r *http.Request) (uint, bool) {
	sess, err := m.store.Get(r, Name)
	if err != nil {
		return 0, false
	}
	id, ok := sess.Values[CurrUserKey].(uint)
	return id, ok
}

// Flash queues a one-shot message for the next rendered page.
func (m *Manager) Flash(w http.ResponseWriter, r *http.Request, category, message string) {
	sess, _ := m.store.Get(r, Name)
	sess.AddFlash(FlashMessage{Category: category, Message: message})
	_ = sess.Save(r, w)
}

// Flashes drains and returns the queued messages.
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) []FlashMessage {
	sess, _ := m.store.Get(r, Name)
	raw := sess.Flashes()
	if len(raw) > 0 {
		_ = sess.Save(r, w)
	}
	out := make([]FlashMessage, 0, len(raw))
	for _, f := range raw {
		if fm, ok := f.(FlashMessage); ok {
			out = append(out, fm)
		}
	}
	return out
}

// Middleware resolves the session user into the request context. A session
// whose user no longer exists stays Anonymous.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if uid, ok := m.CurrentUserID(r); ok {
			if m.verify == nil || m.verify(uid) {
				r = r.WithContext(WithUserID(r.Context(), uid))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth gates a route: Anonymous requests are redirected to "/" with an
// "Access unauthorized." flash and the wrapped handler never runs.
func (m *Manager) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserIDFromContext(r.Context()); !ok {
			if m.OnUnauthorized != nil {
				m.OnUnauthorized()
			}
			m.Flash(w, r, "danger", "Access unauthorized.")
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
