package service

import "github.com/lfsdirectory/lfsdirectory-backend/pkg/metrics"

// Admin feed event types.
const (
	EventStoreSubmitted  = "store_submitted"
	EventClaimSubmitted  = "claim_submitted"
	EventStoreFlagged    = "store_flagged"
	EventReviewSubmitted = "review_submitted"
)

// FeedPublisher pushes moderation events to connected admin sessions.
type FeedPublisher interface {
	Publish(eventType string, payload interface{})
}

type noopFeed struct{}

func (noopFeed) Publish(string, interface{}) {}

func feedOrNoop(p FeedPublisher) FeedPublisher {
	if p == nil {
		return noopFeed{}
	}
	return p
}

// Directory event outcomes recorded on metrics.DirectoryMetrics.
const (
	outcomeSuccess  = "success"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)

func record(m *metrics.DirectoryMetrics, event string, err error) {
	switch {
	case err == nil:
		m.Inc(event, outcomeSuccess)
	case isClientError(err):
		m.Inc(event, outcomeRejected)
	default:
		m.Inc(event, outcomeError)
	}
}
