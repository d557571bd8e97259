// Package scheduler implements the build graph executor.
package scheduler

import (
	"context"
	"os"
	"runtime"
	"sync"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/engine/fingerprint"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// TargetStatus represents the status of a target within one build call.
type TargetStatus string

const (
	// StatusPending indicates the target is waiting for its dependencies.
	StatusPending TargetStatus = "Pending"
	// StatusRunning indicates the target is currently being evaluated or invoked.
	StatusRunning TargetStatus = "Running"
	// StatusCompleted indicates the target was invoked and stamped successfully.
	StatusCompleted TargetStatus = "Completed"
	// StatusFailed indicates the target's invocation failed.
	StatusFailed TargetStatus = "Failed"
	// StatusCached indicates the invocation was skipped via its fingerprint.
	StatusCached TargetStatus = "Cached"
	// StatusSkipped indicates the target does not apply to the environment's
	// platform or mode.
	StatusSkipped TargetStatus = "Skipped"
)

// Scheduler executes a root target and its transitive dependencies
// exactly once each, dependency order first, with a global cap on
// concurrently running invocations.
type Scheduler struct {
	resolver  ports.SourceResolver
	evaluator *fingerprint.Evaluator
	logger    ports.Logger
	recorder  ports.Recorder

	mu     sync.RWMutex
	status map[domain.InternedString]TargetStatus
}

// NewScheduler creates a new Scheduler with the given dependencies.
func NewScheduler(
	resolver ports.SourceResolver,
	evaluator *fingerprint.Evaluator,
	logger ports.Logger,
	recorder ports.Recorder,
) *Scheduler {
	return &Scheduler{
		resolver:  resolver,
		evaluator: evaluator,
		logger:    logger,
		recorder:  recorder,
		status:    make(map[domain.InternedString]TargetStatus),
	}
}

// Build executes targetName and its transitive dependencies against the
// environment. The closure is validated for cycles before any side
// effect; the cache and copy directories are created idempotently. A
// target's invocation never begins before every transitive dependency
// has completed or been skipped. Unrelated targets may run in parallel
// up to the host's available parallelism.
func (s *Scheduler) Build(ctx context.Context, graph *domain.Graph, env *domain.Environment, targetName string) error {
	root, ok := graph.GetTarget(domain.NewInternedString(targetName))
	if !ok {
		return zerr.With(domain.ErrTargetNotFound, "target", targetName)
	}

	closure, err := graph.Closure(root.Name)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(env.CacheDir, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create cache directory")
	}
	if err := os.MkdirAll(env.CopyDir, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create copy directory")
	}

	s.initStatuses(closure)

	run := &buildRun{
		s:     s,
		graph: graph,
		env:   env,
		sem:   semaphore.NewWeighted(int64(parallelism())),
		runs:  make(map[domain.InternedString]*targetRun, len(closure)),
	}
	return run.ensure(ctx, root)
}

// parallelism returns the invocation concurrency cap: the host's
// available parallelism, or 1 if unknown.
func parallelism() int {
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 1
}

func (s *Scheduler) initStatuses(targets []*domain.Target) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range targets {
		s.status[t.Name] = StatusPending
	}
}

func (s *Scheduler) updateStatus(name domain.InternedString, status TargetStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[name] = status
}

// targetRun is the per-target completion latch for one build call. The
// first traversal branch to reach a target executes it; every other
// branch waits on done and shares the recorded error.
type targetRun struct {
	done chan struct{}
	err  error
}

// buildRun holds the state shared across concurrent traversal branches
// of one Build call: the memoized completion map and the invocation
// semaphore. Both are safe for concurrent access.
type buildRun struct {
	s     *Scheduler
	graph *domain.Graph
	env   *domain.Environment
	sem   *semaphore.Weighted

	mu   sync.Mutex
	runs map[domain.InternedString]*targetRun
}

// ensure resolves and executes a target at most once per build call,
// no matter how many dependency paths reach it.
func (b *buildRun) ensure(ctx context.Context, target *domain.Target) error {
	b.mu.Lock()
	if run, ok := b.runs[target.Name]; ok {
		b.mu.Unlock()
		select {
		case <-run.done:
			return run.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	run := &targetRun{done: make(chan struct{})}
	b.runs[target.Name] = run
	b.mu.Unlock()

	run.err = b.execute(ctx, target)
	close(run.done)
	return run.err
}

// execute completes all dependencies of a target, then evaluates and,
// if needed, invokes it.
func (b *buildRun) execute(ctx context.Context, target *domain.Target) error {
	if len(target.Dependencies) > 0 {
		g, gctx := errgroup.WithContext(ctx)
		for _, dep := range target.Dependencies {
			depTarget, ok := b.graph.GetTarget(dep)
			if !ok {
				return zerr.With(domain.ErrMissingDependency, "dependency", dep.String())
			}
			g.Go(func() error {
				return b.ensure(gctx, depTarget)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}

	if !target.AppliesTo(b.env) {
		b.s.updateStatus(target.Name, StatusSkipped)
		b.s.logger.Info("skipping " + target.Name.String() + ": not applicable to this platform/mode")
		return nil
	}

	return b.invoke(ctx, target)
}

// invoke resolves the target's inputs, consults the fingerprint and
// either skips or runs the invocation and stamps the result. Resolution
// and fingerprinting proceed without holding a concurrency slot; only
// the invocation callback itself is gated by the semaphore.
func (b *buildRun) invoke(ctx context.Context, target *domain.Target) error {
	name := target.Name.String()
	b.s.updateStatus(target.Name, StatusRunning)

	inputs, err := b.s.resolver.Resolve(target.Inputs, b.env)
	if err != nil {
		return b.fail(target, zerr.With(err, "target", name))
	}

	verdict, err := b.s.evaluator.Evaluate(target, inputs, b.env)
	if err != nil {
		return b.fail(target, err)
	}

	if !verdict.MustRun {
		b.s.updateStatus(target.Name, StatusCached)
		b.s.logger.Info("skipping " + name + ": up to date")
		b.s.recorder.Vertex(name).Cached()
		return nil
	}

	vertex := b.s.recorder.Vertex(name)

	if target.Invoke != nil {
		if err := b.sem.Acquire(ctx, 1); err != nil {
			vertex.Complete(err)
			return err
		}
		err := target.Invoke(ctx, inputs, b.env)
		b.sem.Release(1)
		if err != nil {
			vertex.Complete(err)
			return b.fail(target, zerr.With(zerr.Wrap(err, "target invocation failed"), "target", name))
		}
	}

	outputs, err := b.s.resolver.Resolve(target.Outputs, b.env)
	if err != nil {
		vertex.Complete(err)
		return b.fail(target, zerr.With(err, "target", name))
	}

	if err := b.s.evaluator.WriteStamp(target, inputs, outputs, b.env, verdict.Signatures); err != nil {
		vertex.Complete(err)
		return b.fail(target, err)
	}

	vertex.Complete(nil)
	b.s.updateStatus(target.Name, StatusCompleted)
	return nil
}

func (b *buildRun) fail(target *domain.Target, err error) error {
	b.s.updateStatus(target.Name, StatusFailed)
	return err
}
