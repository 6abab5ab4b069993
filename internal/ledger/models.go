package ledger

import "time"

// Status is the delivery state of one deployment.
type Status string

const (
	StatusPending           Status = "pending"
	StatusValidating        Status = "validating"
	StatusProcessing        Status = "processing"
	StatusDelivered         Status = "delivered"
	StatusLive              Status = "live"
	StatusFailed            Status = "failed"
	StatusRejected          Status = "rejected"
	StatusTakedownRequested Status = "takedown_requested"
)

// progressionOrder is the happy-path lifecycle; failure states sit outside
// it.
var progressionOrder = []Status{
	StatusPending,
	StatusValidating,
	StatusProcessing,
	StatusDelivered,
	StatusLive,
}

// KnownStatuses lists every valid status value.
func KnownStatuses() []Status {
	return append(append([]Status{}, progressionOrder...),
		StatusFailed, StatusRejected, StatusTakedownRequested)
}

// IsValid reports whether the status is a known value.
func (s Status) IsValid() bool {
	for _, known := range KnownStatuses() {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status ends the delivery lifecycle.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusLive, StatusFailed, StatusRejected:
		return true
	}
	return false
}

// Deployment is one release submitted to one distributor.
type Deployment struct {
	ID            string
	ReleaseID     string
	UserID        string
	OrgID         string
	DistributorID string
	Status        Status
	ExternalID    string
	SubmittedAt   time.Time
	LastCheckedAt *time.Time
	LastUpdatedAt time.Time
	Errors        []string
	TrackingLink  string
}

// StatsSummary aggregates ledger state for diagnostic output.
type StatsSummary struct {
	Total     int
	InFlight  int
	Delivered int
	Live      int
	Failed    int
	Rejected  int
}
