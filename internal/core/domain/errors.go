package domain

import "go.trai.ch/zerr"

var (
	// ErrUnknownSnapshot is returned when a snapshot id is not present in a package's history.
	ErrUnknownSnapshot = zerr.New("unknown snapshot")

	// ErrPatchConflict is returned when a stored patch cannot be cleanly applied to a snapshot.
	ErrPatchConflict = zerr.New("patch conflict")

	// ErrPatchNotFound is returned when a patch index does not exist for a package.
	ErrPatchNotFound = zerr.New("patch not found")

	// ErrPackageNotFound is returned when the remote catalog does not know the package.
	ErrPackageNotFound = zerr.New("package not found")

	// ErrFetchFailed is returned on transient fetch failures (network, catalog outage).
	ErrFetchFailed = zerr.New("fetch failed")

	// ErrRepositoryCorrupt is returned when a package's history chain is inconsistent.
	// The history is never silently repaired.
	ErrRepositoryCorrupt = zerr.New("repository corrupt")

	// ErrInstallFailed carries a non-zero result from the external package manager.
	ErrInstallFailed = zerr.New("install failed")

	// ErrReviewDeclined is returned when the user rejects the presented diff.
	ErrReviewDeclined = zerr.New("review declined")

	// ErrWorkflowFailed is the aggregate error reported when at least one
	// package in a batch did not reach Done.
	ErrWorkflowFailed = zerr.New("workflow failed")

	// ErrNoPackages is returned when install is invoked without package names.
	ErrNoPackages = zerr.New("no packages specified")
)
