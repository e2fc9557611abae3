package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts the mutating operations of the app.
type Metrics struct {
	Signups      prometheus.Counter
	Logins       prometheus.Counter
	MessagesSent prometheus.Counter
	Follows      prometheus.Counter
	Unfollows    prometheus.Counter
	Likes        prometheus.Counter
	Unlikes      prometheus.Counter
	Unauthorized prometheus.Counter
}

// New registers the counters on reg. Pass a fresh registry per server so
// tests can spin up multiple instances.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Signups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "warbler_signups_total",
			Help: "Total number of successful signups",
		}),
		Logins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "warbler_logins_total",
			Help: "Total number of successful logins",
		}),
		MessagesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "warbler_messages_sent_total",
			Help: "Total number of messages posted",
		}),
		Follows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "warbler_follows_total",
			Help: "Total number of follow edges created",
		}),
		Unfollows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "warbler_unfollows_total",
			Help: "Total number of follow edges removed",
		}),
		Likes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "warbler_likes_total",
			Help: "Total number of likes created",
		}),
		Unlikes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "warbler_unlikes_total",
			Help: "Total number of likes removed",
		}),
		Unauthorized: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "warbler_unauthorized_total",
			Help: "Total number of requests rejected by the session gate",
		}),
	}
	reg.MustRegister(
		m.Signups, m.Logins, m.MessagesSent,
		m.Follows, m.Unfollows, m.Likes, m.Unlikes,
		m.Unauthorized,
	)
	return m
}
