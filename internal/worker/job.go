package worker

import (
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
)

// Triggers recorded on enqueued runs.
const (
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
)

// DefaultMaxAttempts bounds how often River retries a run that ended in error.
const DefaultMaxAttempts = 3

// RenewJobArgs enqueues one renewal run. At most one run is queued or running
// at any time regardless of its trigger.
type RenewJobArgs struct {
	// Trigger names what enqueued the run.
	Trigger string `json:"trigger"`
}

// Kind returns the River job kind the renew worker is registered under.
func (RenewJobArgs) Kind() string { return "RenewDomainsJob" }

// InsertOpts returns the River options applied when the job is enqueued.
func (RenewJobArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		MaxAttempts: DefaultMaxAttempts,
		UniqueOpts: river.UniqueOpts{
			ByState: []rivertype.JobState{
				rivertype.JobStateAvailable,
				rivertype.JobStatePending,
				rivertype.JobStateRunning,
				rivertype.JobStateRetryable,
				rivertype.JobStateScheduled,
			},
		},
	}
}
