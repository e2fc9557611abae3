package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/warblerhq/warbler/internal/metrics"
	"github.com/warblerhq/warbler/internal/session"
	"github.com/warblerhq/warbler/internal/store"
	"github.com/warblerhq/warbler/internal/validation"
)

// AuthHandler serves signup, login, logout and the home page.
type AuthHandler struct {
	Users    *store.UserStore
	Messages *store.MessageStore
	Sessions *session.Manager
	Metrics  *metrics.Metrics
}

func NewAuthHandler(users *store.UserStore, messages *store.MessageStore, sessions *session.Manager, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{Users: users, Messages: messages, Sessions: sessions, Metrics: m}
}

// Home renders the anonymous pitch page or the authenticated timeline.
func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	flashes := h.Sessions.Flashes(w, r)
	uid, ok := session.UserIDFromContext(r.Context())
	if !ok {
		renderPage(w, flashes, "<h1>What's Happening?</h1>\n<p><a href=\"/signup\">Sign up now</a></p>")
		return
	}
	msgs, err := h.Messages.Timeline(uid)
	if err != nil {
		logrus.WithError(err).Error("load timeline")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	var b strings.Builder
	b.WriteString("<h1>Home</h1>\n<ul>\n")
	for _, m := range msgs {
		fmt.Fprintf(&b, "<li><a href=\"/messages/%d\">%s</a></li>\n", m.ID, escape(m.Text))
	}
	b.WriteString("</ul>")
	renderPage(w, flashes, b.String())
}

const signupForm = `<h2>Join Warbler today.</h2>
<form method="POST" action="/signup">
<input name="username"><input name="email"><input name="password" type="password"><input name="image_url">
<button type="submit">Sign me up!</button>
</form>`

// Signup handles GET (form) and POST (create account + log in).
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		renderPage(w, h.Sessions.Flashes(w, r), signupForm)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	username := strings.TrimSpace(r.FormValue("username"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	imageURL := strings.TrimSpace(r.FormValue("image_url"))

	v := validation.Violations{}
	validation.Required("username", username, v)
	validation.Required("email", email, v)
	validation.Required("password", password, v)
	validation.Email("email", email, v)
	if !v.Empty() {
		h.renderSignupError(w, r, formErrors(v))
		return
	}

	user, err := h.Users.Signup(username, email, password, imageURL)
	if errors.Is(err, store.ErrDuplicate) {
		h.renderSignupError(w, r, "Username or email already taken")
		return
	}
	if err != nil {
		logrus.WithError(err).Error("signup")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if err := h.Sessions.Login(w, r, user.ID); err != nil {
		logrus.WithError(err).Error("create session")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.Metrics.Signups.Inc()
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandler) renderSignupError(w http.ResponseWriter, r *http.Request, msg string) {
	flashes := append(h.Sessions.Flashes(w, r), session.FlashMessage{Category: "danger", Message: msg})
	renderPage(w, flashes, signupForm)
}

const loginForm = `<h2>Welcome back.</h2>
<form method="POST" action="/login">
<input name="username"><input name="password" type="password">
<button type="submit">Log in</button>
</form>`

// Login handles GET (form) and POST (authenticate). Bad credentials re-render
// the form with a generic message, never saying which field was wrong.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		renderPage(w, h.Sessions.Flashes(w, r), loginForm)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	user, err := h.Users.Authenticate(r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		logrus.WithError(err).Error("authenticate")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if user == nil {
		flashes := append(h.Sessions.Flashes(w, r), session.FlashMessage{Category: "danger", Message: "Invalid credentials."})
		renderPage(w, flashes, loginForm)
		return
	}
	if err := h.Sessions.Login(w, r, user.ID); err != nil {
		logrus.WithError(err).Error("create session")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.Sessions.Flash(w, r, "success", fmt.Sprintf("Hello, %s!", user.Username))
	h.Metrics.Logins.Inc()
	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout clears the session and returns to the home page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Logout(w, r); err != nil {
		logrus.WithError(err).Error("clear session")
	}
	h.Sessions.Flash(w, r, "success", "You have successfully logged out.")
	http.Redirect(w, r, "/", http.StatusFound)
}

func formErrors(v validation.Violations) string {
	parts := make([]string, 0, len(v))
	for field, problem := range v {
		parts = append(parts, field+": "+problem)
	}
	return "Invalid signup: " + strings.Join(parts, ", ")
}
