package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Tick results, by outcome: ok, not-modified, fetch-error.
var Checks = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "pollwatch",
	Name:      "checks_total",
	Help:      "Monitor ticks executed, by outcome",
}, []string{"result"})

// Rising edges that triggered a notification.
var Detections = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "pollwatch",
	Name:      "detections_total",
	Help:      "Poll activations that triggered a notification",
})

// Call placements, by outcome: ok, error.
var Calls = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "pollwatch",
	Name:      "calls_total",
	Help:      "Notification call batches placed, by outcome",
}, []string{"result"})

//Handler serves the default registry - mounted at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
