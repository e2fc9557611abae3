// Package server wires stores, session gate, handlers, and metrics into the
// root http.Handler.
package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/warblerhq/warbler/internal/config"
	"github.com/warblerhq/warbler/internal/handlers"
	"github.com/warblerhq/warbler/internal/httpx"
	"github.com/warblerhq/warbler/internal/metrics"
	"github.com/warblerhq/warbler/internal/session"
	"github.com/warblerhq/warbler/internal/store"
)

// New constructs the root handler with all routes and middlewares applied.
func New(dbConn *gorm.DB, cfg config.Config) http.Handler {
	users := store.NewUserStore(dbConn)
	social := store.NewSocialStore(dbConn)
	messages := store.NewMessageStore(dbConn)
	likes := store.NewLikeStore(dbConn)

	// Sessions verify on each request that their user still exists.
	sessions := session.NewManager(cfg.SessionSecret, users.Exists)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	sessions.OnUnauthorized = m.Unauthorized.Inc

	ah := handlers.NewAuthHandler(users, messages, sessions, m)
	uh := handlers.NewUserHandler(users, social, messages, likes, sessions, m)
	mh := handlers.NewMessageHandler(messages, likes, sessions, m)

	r := mux.NewRouter()
	gate := func(h http.HandlerFunc) http.Handler { return sessions.RequireAuth(h) }

	// Public routes
	r.HandleFunc("/", ah.Home).Methods("GET")
	r.HandleFunc("/signup", ah.Signup).Methods("GET", "POST")
	r.HandleFunc("/login", ah.Login).Methods("GET", "POST")
	r.HandleFunc("/logout", ah.Logout).Methods("GET")
	r.HandleFunc("/users/{id:[0-9]+}", uh.Profile).Methods("GET")
	r.HandleFunc("/messages/{id:[0-9]+}", mh.Show).Methods("GET")

	// Gated routes: anonymous requests bounce to "/" with a flash.
	r.Handle("/users/{id:[0-9]+}/following", gate(uh.Following)).Methods("GET")
	r.Handle("/users/{id:[0-9]+}/followers", gate(uh.Followers)).Methods("GET")
	r.Handle("/users/{id:[0-9]+}/liked", gate(uh.Liked)).Methods("GET")
	r.Handle("/users/follow/{id:[0-9]+}", gate(uh.Follow)).Methods("POST")
	r.Handle("/users/stop-following/{id:[0-9]+}", gate(uh.StopFollowing)).Methods("POST")
	r.Handle("/users/add_like/{id:[0-9]+}", gate(uh.AddLike)).Methods("POST")
	r.Handle("/users/remove_like/{id:[0-9]+}", gate(uh.RemoveLike)).Methods("POST")
	r.Handle("/users/delete", gate(uh.Delete)).Methods("POST")
	r.Handle("/messages/new", gate(mh.Create)).Methods("POST")
	r.Handle("/messages/{id:[0-9]+}/delete", gate(mh.Delete)).Methods("POST")

	// Operational endpoints
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := dbConn.Exec("SELECT 1").Error; err != nil {
			httpx.JSONError(w, http.StatusServiceUnavailable, "degraded")
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods("GET")

	return withLogging(sessions.Middleware(r))
}
