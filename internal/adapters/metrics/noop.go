package metrics

import (
	"time"

	"github.com/vncsmyrnk/election/internal/core/ports"
)

type NoopCollector struct{}

var _ ports.Metrics = (*NoopCollector)(nil)

func NewNoopCollector() *NoopCollector {
	return &NoopCollector{}
}

func (nc *NoopCollector) VoteAttempted(outcome string)         {}
func (nc *NoopCollector) TallyComputed(duration time.Duration) {}
func (nc *NoopCollector) BroadcastPublished(observers int)     {}
func (nc *NoopCollector) BroadcastDropped()                    {}
func (nc *NoopCollector) ObserverConnected()                   {}
func (nc *NoopCollector) ObserverDisconnected()                {}
