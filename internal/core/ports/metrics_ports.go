package ports

import "time"

const (
	OutcomeCast            = "cast"
	OutcomeForbidden       = "forbidden"
	OutcomeNotFound        = "not_found"
	OutcomeInvalid         = "invalid"
	OutcomeConflict        = "conflict"
	OutcomeUnavailable     = "unavailable"
	OutcomeUnauthenticated = "unauthenticated"
)

type VoteMetrics interface {
	VoteAttempted(outcome string)
}

type TallyMetrics interface {
	TallyComputed(duration time.Duration)
}

type BroadcastMetrics interface {
	BroadcastPublished(observers int)
	BroadcastDropped()
	ObserverConnected()
	ObserverDisconnected()
}

type Metrics interface {
	VoteMetrics
	TallyMetrics
	BroadcastMetrics
}
