package domain

// WorkflowState is the per-package state machine position.
type WorkflowState string

const (
	// StateIdle is the initial state before any command touches the package.
	StateIdle WorkflowState = "Idle"
	// StateFetching indicates the Fetcher is retrieving upstream content.
	StateFetching WorkflowState = "Fetching"
	// StateCommitting indicates the snapshot is being recorded in history.
	StateCommitting WorkflowState = "Committing"
	// StateDiffForReview indicates the diff is being presented to the user.
	StateDiffForReview WorkflowState = "DiffForReview"
	// StatePatchApplying indicates stored patches are being reapplied.
	StatePatchApplying WorkflowState = "PatchApplying"
	// StateInstalling indicates the external package manager is running.
	StateInstalling WorkflowState = "Installing"
	// StateDone is the terminal success state.
	StateDone WorkflowState = "Done"
	// StateFailed is the terminal failure state, reachable from any step.
	StateFailed WorkflowState = "Failed"
)

// OutcomeStatus summarizes how one package's workflow ended.
type OutcomeStatus string

const (
	// OutcomeInstalled means the workflow reached Done via the install path.
	OutcomeInstalled OutcomeStatus = "installed"
	// OutcomeCurrent means upstream had no change and the workflow
	// short-circuited to Done.
	OutcomeCurrent OutcomeStatus = "current"
	// OutcomeDeclined means the user rejected the diff at review.
	OutcomeDeclined OutcomeStatus = "declined"
	// OutcomeFailed means the workflow ended in Failed.
	OutcomeFailed OutcomeStatus = "failed"
)

// Outcome is the result of one package's workflow instance. Failures are
// package-scoped: a batch collects one Outcome per package and never
// aborts the others.
type Outcome struct {
	Package  string
	Status   OutcomeStatus
	Snapshot SnapshotID
	Version  string
	Err      error
}
