// Package status centralizes run-time counters: backing store request
// accounting, transport timeouts, and consistency-layer activity.
// Counters are process-wide and monotonic.
package status

import (
	"math"
	"sync/atomic"
)

var (
	// TransportTimeouts counts backing store request attempts that timed out.
	TransportTimeouts atomic.Int64

	// LatestChangesApplied counts journal entries replayed over stale reads.
	LatestChangesApplied atomic.Int64

	// RandomExpiredDeletes counts expired journal timestamps removed by
	// random cleanup sweeps.
	RandomExpiredDeletes atomic.Int64

	// Per-action request counters for the backing store.
	GetItemActions          atomic.Int64
	DeleteItemActions       atomic.Int64
	PutAttributesActions    atomic.Int64
	DeleteAttributesActions atomic.Int64
	SelectActions           atomic.Int64
	DomainActions           atomic.Int64

	boxUsageBits atomic.Uint64 // float64 bits of the accumulated BoxUsage
)

// AddBoxUsage accumulates the BoxUsage reported by a backing store
// response (machine-hours consumed, per the SimpleDB billing model).
func AddBoxUsage(usage float64) {
	for {
		old := boxUsageBits.Load()
		next := math.Float64bits(math.Float64frombits(old) + usage)
		if boxUsageBits.CompareAndSwap(old, next) {
			return
		}
	}
}

// TotalBoxUsage returns the accumulated BoxUsage.
func TotalBoxUsage() float64 {
	return math.Float64frombits(boxUsageBits.Load())
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	TransportTimeouts    int64 `json:"transport_timeouts"`
	LatestChangesApplied int64 `json:"latest_changes_applied"`
	RandomExpiredDeletes int64 `json:"random_expired_deletes"`

	Actions struct {
		GetItem          int64 `json:"get_item"`
		DeleteItem       int64 `json:"delete_item"`
		PutAttributes    int64 `json:"put_attributes"`
		DeleteAttributes int64 `json:"delete_attributes"`
		Select           int64 `json:"select"`
		Domain           int64 `json:"domain"`
	} `json:"actions"`

	TotalBoxUsage float64 `json:"total_box_usage"`
}

// Read captures the current counter values.
func Read() Snapshot {
	var s Snapshot
	s.TransportTimeouts = TransportTimeouts.Load()
	s.LatestChangesApplied = LatestChangesApplied.Load()
	s.RandomExpiredDeletes = RandomExpiredDeletes.Load()
	s.Actions.GetItem = GetItemActions.Load()
	s.Actions.DeleteItem = DeleteItemActions.Load()
	s.Actions.PutAttributes = PutAttributesActions.Load()
	s.Actions.DeleteAttributes = DeleteAttributesActions.Load()
	s.Actions.Select = SelectActions.Load()
	s.Actions.Domain = DomainActions.Load()
	s.TotalBoxUsage = TotalBoxUsage()
	return s
}
