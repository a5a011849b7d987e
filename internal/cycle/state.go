package cycle

import "errors"

// State is the controller's position in a cycle.
type State string

const (
	StateIdle     State = "idle"
	StateFetching State = "fetching"
	StateDiffing  State = "diffing"
	StateApplying State = "applying"
	StateError    State = "error"
)

// Outcome summarizes how a cycle ended.
type Outcome string

const (
	OutcomeApplied   Outcome = "applied"
	OutcomeNoChanges Outcome = "no_changes"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
)

// ErrCycleInProgress is returned when a trigger arrives while a cycle runs.
// The trigger is dropped, not queued.
var ErrCycleInProgress = errors.New("cycle already in progress")
