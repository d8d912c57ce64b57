// Package workflow drives the per-package update state machine and
// runs batches of packages with bounded concurrency.
package workflow

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"go.trai.ch/aurum/internal/core/domain"
	"go.trai.ch/aurum/internal/core/ports"
	"go.trai.ch/zerr"
)

// Orchestrator runs the fetch, commit, review, patch and install steps
// for each package. Failures are package-scoped: one package's failure
// never aborts the others in a batch.
type Orchestrator struct {
	cfg       *domain.Config
	fetcher   ports.Fetcher
	repo      ports.Repository
	patches   ports.Patches
	state     ports.InstallState
	installer ports.Installer
	reviewer  ports.Reviewer
	logger    ports.Logger
	telemetry ports.Telemetry

	// installMu serializes installer invocations system-wide. The host
	// package database does not tolerate concurrent transactions.
	installMu sync.Mutex

	mu       sync.Mutex
	pkgLocks map[string]*sync.Mutex
}

// New creates an Orchestrator.
func New(
	cfg *domain.Config,
	fetcher ports.Fetcher,
	repo ports.Repository,
	patches ports.Patches,
	state ports.InstallState,
	installer ports.Installer,
	reviewer ports.Reviewer,
	logger ports.Logger,
	telemetry ports.Telemetry,
) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		fetcher:   fetcher,
		repo:      repo,
		patches:   patches,
		state:     state,
		installer: installer,
		reviewer:  reviewer,
		logger:    logger,
		telemetry: telemetry,
		pkgLocks:  map[string]*sync.Mutex{},
	}
}

// RunBatch runs the workflow for every package and returns one outcome
// per package, in input order. The batch never short-circuits: every
// package gets its turn regardless of earlier failures.
func (o *Orchestrator) RunBatch(ctx context.Context, pkgs []domain.Package) []domain.Outcome {
	if len(pkgs) == 0 {
		return nil
	}

	outcomes := make([]domain.Outcome, len(pkgs))

	g := &errgroup.Group{}
	limit := o.cfg.Parallelism
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, pkg := range pkgs {
		g.Go(func() error {
			outcomes[i] = o.Run(ctx, pkg)
			return nil
		})
	}
	g.Wait() //nolint:errcheck // workers never return errors

	return outcomes
}

// Run executes the full state machine for one package. Concurrent runs
// for the same package are serialized.
func (o *Orchestrator) Run(ctx context.Context, pkg domain.Package) domain.Outcome {
	lock := o.lockFor(pkg.Name)
	lock.Lock()
	defer lock.Unlock()

	ctx, vertex := o.telemetry.Record(ctx, "update "+pkg.Name)

	outcome := o.run(ctx, pkg)
	switch outcome.Status {
	case domain.OutcomeCurrent:
		vertex.Cached()
	default:
		vertex.Complete(outcome.Err)
	}
	return outcome
}

func (o *Orchestrator) run(ctx context.Context, pkg domain.Package) domain.Outcome {
	fail := func(state domain.WorkflowState, err error) domain.Outcome {
		err = zerr.With(zerr.With(err, "package", pkg.Name), "state", string(state))
		o.logger.Error(err)
		return domain.Outcome{Package: pkg.Name, Status: domain.OutcomeFailed, Err: err}
	}

	// Fetching. Only the fetch is bounded by a timeout: the later steps
	// are local, and the install must not be interrupted once started.
	o.logger.Info(pkg.Name + ": fetching")
	fetchCtx, cancel := context.WithTimeout(ctx, o.cfg.FetchTimeout)
	content, meta, err := o.fetcher.Fetch(fetchCtx, pkg)
	cancel()
	if err != nil {
		return fail(domain.StateFetching, err)
	}

	// Committing.
	if err := o.repo.InitHistory(pkg.Name); err != nil {
		return fail(domain.StateCommitting, err)
	}
	prev, err := o.repo.Head(pkg.Name)
	if err != nil {
		return fail(domain.StateCommitting, err)
	}
	if prev != nil && prev.Version != "" && meta.Version != "" &&
		domain.VersionIsGreater(prev.Version, meta.Version) {
		o.logger.Warn(pkg.Name + ": upstream version went backwards (" + prev.Version + " -> " + meta.Version + ")")
	}
	head, err := o.repo.CommitSnapshot(pkg.Name, content, meta)
	if err != nil {
		return fail(domain.StateCommitting, err)
	}

	// The review baseline is what is installed, or the empty tree for a
	// first install.
	record, err := o.state.Installed(pkg.Name)
	if err != nil {
		return fail(domain.StateDiffForReview, err)
	}
	var baseline domain.SnapshotID
	if record != nil {
		baseline = record.Snapshot
	}

	d, err := o.repo.Diff(pkg.Name, baseline, head)
	if err != nil {
		return fail(domain.StateDiffForReview, err)
	}

	if record != nil && d.Empty() {
		o.logger.Info(pkg.Name + ": already current")
		return domain.Outcome{
			Package:  pkg.Name,
			Status:   domain.OutcomeCurrent,
			Snapshot: head,
			Version:  meta.Version,
		}
	}

	// DiffForReview.
	approved, err := o.reviewer.Review(ctx, pkg.Name, d)
	if err != nil {
		return fail(domain.StateDiffForReview, err)
	}
	if !approved {
		// The snapshot stays in history; only the install is skipped.
		o.logger.Warn(pkg.Name + ": changes declined")
		return domain.Outcome{
			Package:  pkg.Name,
			Status:   domain.OutcomeDeclined,
			Snapshot: head,
			Version:  meta.Version,
			Err:      zerr.With(zerr.Wrap(domain.ErrReviewDeclined, ""), "package", pkg.Name),
		}
	}

	// PatchApplying. A conflict aborts before anything touches the host.
	patched, err := o.patches.Apply(pkg.Name, content)
	if err != nil {
		return fail(domain.StatePatchApplying, err)
	}

	// Installing.
	o.logger.Info(pkg.Name + ": installing")
	o.installMu.Lock()
	err = o.installer.Install(ctx, pkg.Name, patched, meta)
	o.installMu.Unlock()
	if err != nil {
		return fail(domain.StateInstalling, err)
	}

	if err := o.state.Record(pkg.Name, head, time.Now().UTC()); err != nil {
		return fail(domain.StateInstalling, err)
	}

	o.logger.Info(pkg.Name + ": installed " + meta.Version)
	return domain.Outcome{
		Package:  pkg.Name,
		Status:   domain.OutcomeInstalled,
		Snapshot: head,
		Version:  meta.Version,
	}
}

func (o *Orchestrator) lockFor(name string) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()
	lock, ok := o.pkgLocks[name]
	if !ok {
		lock = &sync.Mutex{}
		o.pkgLocks[name] = lock
	}
	return lock
}
