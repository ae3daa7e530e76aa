package store

import (
	"sync"
	"time"

	"github.com/fulviofreitas/eero-exporter/internal/domain"
)

// CallStat is one endpoint's tally from a single cycle.
type CallStat struct {
	Endpoint string
	Status   string
	Count    uint64
}

// APIKey identifies a cumulative request counter.
type APIKey struct {
	Endpoint string
	Status   string
}

// Outcome is what the scheduler reports after each cycle, success or not.
// Samples and Sequence describe the snapshot a successful cycle published;
// both stay zero on failure.
type Outcome struct {
	Time         time.Time
	Duration     time.Duration
	Err          domain.ErrorKind
	APICalls     []CallStat
	Samples      int
	Sequence     uint64
	Success      bool
	SessionValid bool
}

// HealthSnapshot is a point-in-time copy of the health bookkeeping.
type HealthSnapshot struct {
	LastSuccessAt       *time.Time
	LastAttemptAt       *time.Time
	APIRequests         map[APIKey]uint64
	CycleErrors         map[domain.ErrorKind]uint64
	LastError           domain.ErrorKind
	LastDuration        time.Duration
	ConsecutiveFailures uint64
	CollectionsTotal    uint64
	CollectionsFailed   uint64
	SessionValid        bool
	LastCycleOK         bool
}

// Healthy applies the readiness-to-trust rule: the session must be valid,
// the most recent cycle must have succeeded, and at least one cycle must
// have succeeded at all.
func (h HealthSnapshot) Healthy() bool {
	return h.SessionValid && h.LastCycleOK && h.LastSuccessAt != nil
}

// Health is the collection bookkeeping shared between the scheduler
// (writer) and the HTTP facade (reader).
type Health struct {
	mu   sync.RWMutex
	snap HealthSnapshot
}

func NewHealth() *Health {
	return &Health{snap: HealthSnapshot{
		APIRequests: make(map[APIKey]uint64),
		CycleErrors: make(map[domain.ErrorKind]uint64),
	}}
}

// Record folds one cycle outcome in. Only the scheduler calls this.
func (h *Health) Record(o Outcome) {
	h.mu.Lock()
	defer h.mu.Unlock()

	at := o.Time
	h.snap.LastAttemptAt = &at
	h.snap.LastDuration = o.Duration
	h.snap.CollectionsTotal++
	h.snap.SessionValid = o.SessionValid
	h.snap.LastCycleOK = o.Success

	if o.Success {
		h.snap.ConsecutiveFailures = 0
		h.snap.LastSuccessAt = &at
		h.snap.LastError = domain.KindNone
	} else {
		h.snap.CollectionsFailed++
		h.snap.ConsecutiveFailures++
		h.snap.LastError = o.Err
		h.snap.CycleErrors[o.Err]++
	}

	for _, c := range o.APICalls {
		h.snap.APIRequests[APIKey{Endpoint: c.Endpoint, Status: c.Status}] += c.Count
	}
}

// Read returns a copy safe to use without holding the lock.
func (h *Health) Read() HealthSnapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := h.snap
	out.APIRequests = make(map[APIKey]uint64, len(h.snap.APIRequests))
	for k, v := range h.snap.APIRequests {
		out.APIRequests[k] = v
	}
	out.CycleErrors = make(map[domain.ErrorKind]uint64, len(h.snap.CycleErrors))
	for k, v := range h.snap.CycleErrors {
		out.CycleErrors[k] = v
	}
	if h.snap.LastSuccessAt != nil {
		t := *h.snap.LastSuccessAt
		out.LastSuccessAt = &t
	}
	if h.snap.LastAttemptAt != nil {
		t := *h.snap.LastAttemptAt
		out.LastAttemptAt = &t
	}
	return out
}
