package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the bot's Prometheus collectors.
type Metrics struct {
	PostsProcessed prometheus.Counter
	Actions        *prometheus.CounterVec // kind
	ParseErrors    prometheus.Counter
	Replies        *prometheus.CounterVec // result
	FetchFailures  prometheus.Counter
	Appreciations  *prometheus.CounterVec // result
	GamesFinished  *prometheus.CounterVec // outcome
	Cursor         prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		PostsProcessed: f.NewCounter(prometheus.CounterOpts{
			Name: "thread_bot_posts_processed_total",
			Help: "Posts consumed from the thread",
		}),
		Actions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "thread_bot_actions_total",
			Help: "Parsed actions applied to the session",
		}, []string{"kind"}),
		ParseErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "thread_bot_parse_errors_total",
			Help: "Posts rejected by the command parser",
		}),
		Replies: f.NewCounterVec(prometheus.CounterOpts{
			Name: "thread_bot_replies_total",
			Help: "Reply attempts by result",
		}, []string{"result"}),
		FetchFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "thread_bot_fetch_failures_total",
			Help: "Poll ticks skipped because fetching posts failed",
		}),
		Appreciations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "thread_bot_appreciations_total",
			Help: "Winner appreciation attempts by result",
		}, []string{"result"}),
		GamesFinished: f.NewCounterVec(prometheus.CounterOpts{
			Name: "thread_bot_games_finished_total",
			Help: "Finished games by outcome",
		}, []string{"outcome"}),
		Cursor: f.NewGauge(prometheus.GaugeOpts{
			Name: "thread_bot_cursor_floor",
			Help: "Highest floor processed",
		}),
	}
}

func result(err error) string {
	if err != nil {
		return "failed"
	}
	return "ok"
}
