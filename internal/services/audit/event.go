package audit

import "github.com/fulviofreitas/eero-exporter/internal/store"

// Event is the audit record of one collection cycle. Samples and Sequence
// describe the snapshot the cycle published and stay zero for failures.
type Event struct {
	Timestamp  int64  `json:"ts"`
	Outcome    string `json:"outcome"`
	ErrorKind  string `json:"error_kind,omitempty"`
	DurationMS int64  `json:"duration_ms"`
	Samples    int    `json:"samples"`
	Sequence   uint64 `json:"sequence"`
}

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// NewEvent flattens a scheduler outcome into its audit form.
func NewEvent(o store.Outcome) Event {
	ev := Event{
		Timestamp:  o.Time.Unix(),
		Outcome:    outcomeSuccess,
		DurationMS: o.Duration.Milliseconds(),
		Samples:    o.Samples,
		Sequence:   o.Sequence,
	}
	if !o.Success {
		ev.Outcome = outcomeFailure
		ev.ErrorKind = string(o.Err)
	}
	return ev
}
