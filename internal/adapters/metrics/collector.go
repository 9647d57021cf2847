package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vncsmyrnk/election/internal/core/ports"
)

const (
	namespace = "election"

	subsystemVotes     = "votes"
	subsystemTally     = "tally"
	subsystemBroadcast = "broadcast"

	labelOutcome = "outcome"
)

// Collector records vote, tally and broadcast metrics on a prometheus
// registerer.
type Collector struct {
	votes         *prometheus.CounterVec
	tallyDuration prometheus.Histogram
	published     prometheus.Counter
	deliveries    prometheus.Counter
	dropped       prometheus.Counter
	observers     prometheus.Gauge
}

var _ ports.Metrics = (*Collector)(nil)

func NewCollector(registerer prometheus.Registerer) *Collector {
	factory := promauto.With(registerer)

	return &Collector{
		votes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemVotes,
			Name:      "attempts_total",
			Help:      "number of cast vote attempts by outcome",
		}, []string{labelOutcome}),
		tallyDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystemTally,
			Name:      "compute_duration_seconds",
			Help:      "time spent computing the tally",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		published: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemBroadcast,
			Name:      "published_total",
			Help:      "number of tallies published to observers",
		}),
		deliveries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemBroadcast,
			Name:      "deliveries_total",
			Help:      "number of tally messages queued for observers",
		}),
		dropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemBroadcast,
			Name:      "dropped_total",
			Help:      "number of vote notifications dropped on a full queue",
		}),
		observers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystemBroadcast,
			Name:      "observers",
			Help:      "number of connected leaderboard observers",
		}),
	}
}

func (c *Collector) VoteAttempted(outcome string) {
	c.votes.WithLabelValues(outcome).Inc()
}

func (c *Collector) TallyComputed(duration time.Duration) {
	c.tallyDuration.Observe(duration.Seconds())
}

func (c *Collector) BroadcastPublished(observers int) {
	c.published.Inc()
	c.deliveries.Add(float64(observers))
}

func (c *Collector) BroadcastDropped() {
	c.dropped.Inc()
}

func (c *Collector) ObserverConnected() {
	c.observers.Inc()
}

func (c *Collector) ObserverDisconnected() {
	c.observers.Dec()
}
