package domain

// LineKind classifies one line of a hunk.
type LineKind byte

const (
	// LineContext is an unchanged line shared by both sides.
	LineContext LineKind = ' '
	// LineDeleted is a line present only in the old content.
	LineDeleted LineKind = '-'
	// LineAdded is a line present only in the new content.
	LineAdded LineKind = '+'
)

// Line is one line of a hunk. Text keeps its trailing newline (the last
// line of a file may lack one) so applying a diff reproduces the new
// content byte for byte.
type Line struct {
	Kind LineKind `json:"kind"`
	Text string   `json:"text"`
}

// Hunk is one contiguous change region in unified-diff coordinates
// (1-based start lines, zero for an empty side).
type Hunk struct {
	OldStart int    `json:"old_start"`
	OldLines int    `json:"old_lines"`
	NewStart int    `json:"new_start"`
	NewLines int    `json:"new_lines"`
	Lines    []Line `json:"lines"`
}

// FileOp classifies what happened to one file between two snapshots.
type FileOp string

const (
	// FileAdded means the file exists only in the new snapshot.
	FileAdded FileOp = "added"
	// FileDeleted means the file exists only in the old snapshot.
	FileDeleted FileOp = "deleted"
	// FileModified means the file changed between the snapshots.
	FileModified FileOp = "modified"
)

// FileDiff is the ordered set of hunks for one file.
type FileDiff struct {
	Path  string `json:"path"`
	Op    FileOp `json:"op"`
	Hunks []Hunk `json:"hunks"`
}

// Diff is a line-oriented diff between two snapshots, sufficient to
// reconstruct the new content from the old.
type Diff struct {
	Files []FileDiff `json:"files"`
}

// Empty reports whether the diff carries no change.
func (d Diff) Empty() bool {
	return len(d.Files) == 0
}

// Patch is a user-authored modification reapplied across upstream
// updates. Files holds the diff fragment in application order.
type Patch struct {
	// Description is the human label shown in listings and conflicts.
	Description string

	// AuthoredAgainst is the snapshot the patch was written on top of.
	AuthoredAgainst SnapshotID

	// Files is the ordered diff fragment.
	Files []FileDiff
}
