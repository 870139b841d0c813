package shared

// Task types processed by cmd/worker
const (
	TypeWarmListings = "content:warm_listings"
)

// Queue names, weighted by the worker
const (
	QueueHigh    = "high"
	QueueDefault = "default"
	QueueLow     = "low"
)

// WarmListingsPayload asks the worker to rebuild the cached listings of one content kind
type WarmListingsPayload struct {
	Kind string `json:"kind"`
}
