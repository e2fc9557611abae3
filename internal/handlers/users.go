package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/warblerhq/warbler/internal/metrics"
	"github.com/warblerhq/warbler/internal/models"
	"github.com/warblerhq/warbler/internal/session"
	"github.com/warblerhq/warbler/internal/store"
)

// UserHandler serves profile pages, the follow routes, and the like routes.
type UserHandler struct {
	Users    *store.UserStore
	Social   *store.SocialStore
	Messages *store.MessageStore
	Likes    *store.LikeStore
	Sessions *session.Manager
	Metrics  *metrics.Metrics
}

func NewUserHandler(users *store.UserStore, social *store.SocialStore, messages *store.MessageStore, likes *store.LikeStore, sessions *session.Manager, m *metrics.Metrics) *UserHandler {
	return &UserHandler{Users: users, Social: social, Messages: messages, Likes: likes, Sessions: sessions, Metrics: m}
}

// Profile shows a user's page with their messages.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	user, err := h.Users.Get(id)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		logrus.WithError(err).Error("load user")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	msgs, err := h.Messages.ByAuthor(id)
	if err != nil {
		logrus.WithError(err).Error("load user messages")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	var b strings.Builder
	h.writeUserHeader(&b, r, user)
	b.WriteString("<ul>\n")
	for _, m := range msgs {
		fmt.Fprintf(&b, "<li><a href=\"/messages/%d\">%s</a></li>\n", m.ID, escape(m.Text))
	}
	b.WriteString("</ul>")
	renderPage(w, h.Sessions.Flashes(w, r), b.String())
}

// Following lists the users this user follows. Gated: reachable only while
// authenticated.
func (h *UserHandler) Following(w http.ResponseWriter, r *http.Request) {
	h.userListPage(w, r, func(id uint) ([]models.User, error) { return h.Social.Following(id) })
}

// Followers lists the users following this user.
func (h *UserHandler) Followers(w http.ResponseWriter, r *http.Request) {
	h.userListPage(w, r, func(id uint) ([]models.User, error) { return h.Social.Followers(id) })
}

func (h *UserHandler) userListPage(w http.ResponseWriter, r *http.Request, list func(uint) ([]models.User, error)) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	user, err := h.Users.Get(id)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		logrus.WithError(err).Error("load user")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	users, err := list(id)
	if err != nil {
		logrus.WithError(err).Error("load user list")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	var b strings.Builder
	h.writeUserHeader(&b, r, user)
	for _, u := range users {
		fmt.Fprintf(&b, "<p>@%s</p>\n", escape(u.Username))
	}
	renderPage(w, h.Sessions.Flashes(w, r), b.String())
}

// Liked lists the messages this user has liked. Gated.
func (h *UserHandler) Liked(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	user, err := h.Users.Get(id)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		logrus.WithError(err).Error("load user")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	msgs, err := h.Likes.LikedMessages(id)
	if err != nil {
		logrus.WithError(err).Error("load liked messages")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	var b strings.Builder
	h.writeUserHeader(&b, r, user)
	for _, m := range msgs {
		fmt.Fprintf(&b, "<p>%s</p>\n", escape(m.Text))
	}
	renderPage(w, h.Sessions.Flashes(w, r), b.String())
}

// writeUserHeader emits the profile header, with the Edit Profile link only
// on the viewer's own pages.
func (h *UserHandler) writeUserHeader(b *strings.Builder, r *http.Request, user models.User) {
	fmt.Fprintf(b, "<h4>@%s</h4>\n", escape(user.Username))
	if uid, ok := session.UserIDFromContext(r.Context()); ok && uid == user.ID {
		b.WriteString("<a href=\"/users/profile\">Edit Profile</a>\n")
	}
}

// Follow creates a follow edge from the session user to the target.
func (h *UserHandler) Follow(w http.ResponseWriter, r *http.Request) {
	actor, _ := session.UserIDFromContext(r.Context())
	target, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if _, err := h.Users.Get(target); errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err := h.Social.Follow(actor, target); err != nil {
		logrus.WithError(err).Error("follow")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.Metrics.Follows.Inc()
	http.Redirect(w, r, fmt.Sprintf("/users/%d/following", actor), http.StatusFound)
}

// StopFollowing removes the edge; a missing edge is already a no-op.
func (h *UserHandler) StopFollowing(w http.ResponseWriter, r *http.Request) {
	actor, _ := session.UserIDFromContext(r.Context())
	target, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := h.Social.Unfollow(actor, target); err != nil {
		logrus.WithError(err).Error("unfollow")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.Metrics.Unfollows.Inc()
	http.Redirect(w, r, fmt.Sprintf("/users/%d/following", actor), http.StatusFound)
}

// AddLike likes a message and bounces back to the page the form came from.
func (h *UserHandler) AddLike(w http.ResponseWriter, r *http.Request) {
	actor, _ := session.UserIDFromContext(r.Context())
	msgID, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	err := h.Likes.Like(actor, msgID)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		logrus.WithError(err).Error("like")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.Metrics.Likes.Inc()
	http.Redirect(w, r, redirectTarget(r), http.StatusFound)
}

// RemoveLike removes a like; absent likes are a no-op.
func (h *UserHandler) RemoveLike(w http.ResponseWriter, r *http.Request) {
	actor, _ := session.UserIDFromContext(r.Context())
	msgID, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := h.Likes.Unlike(actor, msgID); err != nil {
		logrus.WithError(err).Error("unlike")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.Metrics.Unlikes.Inc()
	http.Redirect(w, r, redirectTarget(r), http.StatusFound)
}

// Delete removes the session user's account and everything referencing it.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := session.UserIDFromContext(r.Context())
	if err := h.Users.Delete(actor); err != nil {
		logrus.WithError(err).Error("delete user")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if err := h.Sessions.Logout(w, r); err != nil {
		logrus.WithError(err).Error("clear session")
	}
	http.Redirect(w, r, "/signup", http.StatusFound)
}
