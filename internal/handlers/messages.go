package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/warblerhq/warbler/internal/metrics"
	"github.com/warblerhq/warbler/internal/session"
	"github.com/warblerhq/warbler/internal/store"
)

// MessageHandler serves the message routes.
type MessageHandler struct {
	Messages *store.MessageStore
	Likes    *store.LikeStore
	Sessions *session.Manager
	Metrics  *metrics.Metrics
}

func NewMessageHandler(messages *store.MessageStore, likes *store.LikeStore, sessions *session.Manager, m *metrics.Metrics) *MessageHandler {
	return &MessageHandler{Messages: messages, Likes: likes, Sessions: sessions, Metrics: m}
}

// Create posts a message for the session user. Validation failures flash and
// redirect rather than surface an error page.
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := session.UserIDFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	_, err := h.Messages.Create(actor, r.FormValue("text"))
	if errors.Is(err, store.ErrMissingField) {
		h.Sessions.Flash(w, r, "danger", "Message text is required.")
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if errors.Is(err, store.ErrTextTooLong) {
		h.Sessions.Flash(w, r, "danger", "Message text is too long.")
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if err != nil {
		logrus.WithError(err).Error("create message")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.Metrics.MessagesSent.Inc()
	http.Redirect(w, r, fmt.Sprintf("/users/%d", actor), http.StatusFound)
}

// Show renders a single message page; 404 when the id is unknown (including
// after deletion).
func (h *MessageHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	msg, err := h.Messages.Get(id)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		logrus.WithError(err).Error("load message")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	likeCount, err := h.Likes.Count(id)
	if err != nil {
		logrus.WithError(err).Error("count likes")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	body := fmt.Sprintf("<p>%s</p>\n<span>%d likes</span>", escape(msg.Text), likeCount)
	renderPage(w, h.Sessions.Flashes(w, r), body)
}

// Delete removes a message. Only the author may; anyone else is bounced home
// with a flash, and the message survives.
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := session.UserIDFromContext(r.Context())
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	err := h.Messages.Delete(id, actor)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if errors.Is(err, store.ErrNotOwner) {
		h.Sessions.Flash(w, r, "danger", "You can only delete your own messages.")
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if err != nil {
		logrus.WithError(err).Error("delete message")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/users/%d", actor), http.StatusFound)
}
