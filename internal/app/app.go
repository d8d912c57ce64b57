// Package app implements the application layer for aurum.
package app

import (
	"context"

	"go.trai.ch/aurum/internal/core/domain"
	"go.trai.ch/aurum/internal/core/ports"
	"go.trai.ch/aurum/internal/engine/workflow"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	cfg     *domain.Config
	repo    ports.Repository
	patches ports.Patches
	state   ports.InstallState
	differ  ports.Differ
	orch    *workflow.Orchestrator
	logger  ports.Logger
}

// New creates a new App instance.
func New(
	cfg *domain.Config,
	repo ports.Repository,
	patches ports.Patches,
	state ports.InstallState,
	differ ports.Differ,
	orch *workflow.Orchestrator,
	logger ports.Logger,
) *App {
	return &App{
		cfg:     cfg,
		repo:    repo,
		patches: patches,
		state:   state,
		differ:  differ,
		orch:    orch,
		logger:  logger,
	}
}

// Install runs the workflow for the named packages.
func (a *App) Install(ctx context.Context, names []string) ([]domain.Outcome, error) {
	if len(names) == 0 {
		return nil, domain.ErrNoPackages
	}

	pkgs := make([]domain.Package, 0, len(names))
	for _, name := range names {
		pkgs = append(pkgs, domain.Package{
			Name:   name,
			Source: a.cfg.SourceFor(name),
		})
	}

	outcomes := a.orch.RunBatch(ctx, pkgs)
	return outcomes, aggregate(outcomes)
}

// Update runs the workflow for every tracked package. An empty
// repository is not an error; there is simply nothing to do.
func (a *App) Update(ctx context.Context) ([]domain.Outcome, error) {
	names, err := a.repo.List()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to list tracked packages")
	}
	if len(names) == 0 {
		a.logger.Info("no tracked packages")
		return nil, nil
	}
	return a.Install(ctx, names)
}

// PackageStatus summarizes one tracked package for the status listing.
type PackageStatus struct {
	Package          string
	HeadSnapshot     domain.SnapshotID
	HeadVersion      string
	Snapshots        int
	Patches          int
	InstalledSnap    domain.SnapshotID
	InstalledVersion string
	UpToDate         bool
}

// Status reports every tracked package's head, install state and patch
// count, sorted by name.
func (a *App) Status() ([]PackageStatus, error) {
	names, err := a.repo.List()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to list tracked packages")
	}

	statuses := make([]PackageStatus, 0, len(names))
	for _, name := range names {
		chain, err := a.repo.History(name)
		if err != nil {
			return nil, err
		}

		st := PackageStatus{Package: name, Snapshots: len(chain)}
		if len(chain) > 0 {
			head := chain[len(chain)-1]
			st.HeadSnapshot = head.ID
			st.HeadVersion = head.Version
		}

		patches, err := a.patches.List(name)
		if err != nil {
			return nil, err
		}
		st.Patches = len(patches)

		record, err := a.state.Installed(name)
		if err != nil {
			return nil, err
		}
		if record != nil {
			st.InstalledSnap = record.Snapshot
			st.UpToDate = record.Snapshot == st.HeadSnapshot
			for _, snap := range chain {
				if snap.ID == record.Snapshot {
					st.InstalledVersion = snap.Version
				}
			}
		}

		statuses = append(statuses, st)
	}
	return statuses, nil
}

// AddPatch parses unified-diff text and stores it as a patch for the
// package, authored against the current head.
func (a *App) AddPatch(pkg, description, diffText string) error {
	files, err := a.differ.Parse(diffText)
	if err != nil {
		return zerr.Wrap(err, "failed to parse patch")
	}
	if len(files) == 0 {
		return zerr.With(zerr.New("patch is empty"), "package", pkg)
	}

	p := domain.Patch{
		Description: description,
		Files:       files,
	}
	head, err := a.repo.Head(pkg)
	if err != nil {
		return zerr.Wrap(err, "failed to resolve history head")
	}
	// An empty history leaves AuthoredAgainst unset; the patch applies
	// to whatever snapshot arrives first.
	if head != nil {
		p.AuthoredAgainst = head.ID
	}
	return a.patches.Add(pkg, p)
}

// ListPatches returns the package's patches in addition order.
func (a *App) ListPatches(pkg string) ([]domain.Patch, error) {
	return a.patches.List(pkg)
}

// RemovePatch deletes the patch at the given position in addition order.
func (a *App) RemovePatch(pkg string, index int) error {
	return a.patches.Remove(pkg, index)
}

// aggregate folds a batch's outcomes into one error. Any package that
// did not end installed or current fails the run; a declined review
// counts as not done, it only reports differently.
func aggregate(outcomes []domain.Outcome) error {
	failed := 0
	for _, o := range outcomes {
		if o.Status == domain.OutcomeFailed || o.Status == domain.OutcomeDeclined {
			failed++
		}
	}
	if failed == 0 {
		return nil
	}
	err := zerr.Wrap(domain.ErrWorkflowFailed, "some packages did not install")
	return zerr.With(err, "failed", failed)
}
