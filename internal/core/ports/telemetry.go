package ports

import "context"

// Telemetry records per-package workflow progress.
type Telemetry interface {
	// Record starts recording a new vertex for one workflow instance.
	Record(ctx context.Context, name string) (context.Context, Vertex)

	// Close flushes and closes the recording session.
	Close() error
}

// Vertex represents one recorded workflow instance.
type Vertex interface {
	// Complete marks the vertex as finished (successfully or with an error).
	Complete(err error)

	// Cached marks the vertex as already current, no work performed.
	Cached()
}
