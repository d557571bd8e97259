package scheduler_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/adapters/fs"
	"go.trai.ch/forge/internal/adapters/logger"
	"go.trai.ch/forge/internal/adapters/stamp"
	"go.trai.ch/forge/internal/adapters/telemetry"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/engine/fingerprint"
	"go.trai.ch/forge/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

type harness struct {
	scheduler *scheduler.Scheduler
	store     *stamp.Store
	env       *domain.Environment
	graph     *domain.Graph
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	root := t.TempDir()

	log := logger.New()
	log.SetOutput(io.Discard)

	return &harness{
		scheduler: scheduler.NewScheduler(
			fs.NewResolver(),
			fingerprint.NewEvaluator(fs.NewHasher(), stamp.NewStore()),
			log,
			telemetry.NewNoopRecorder(),
		),
		store: stamp.NewStore(),
		env: &domain.Environment{
			ProjectDir: root,
			BuildDir:   filepath.Join(root, "build"),
			CacheDir:   filepath.Join(root, ".forge"),
			CopyDir:    filepath.Join(root, "dist"),
		},
		graph: domain.NewGraph(),
	}
}

func (h *harness) writeSource(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(h.env.ProjectDir, name), []byte(content), 0o600))
}

// fileTarget declares a target reading one project file and writing one
// build artifact; the invocation counter tracks how often it actually ran.
func (h *harness) fileTarget(t *testing.T, name, input, output string, counter *atomic.Int32, deps ...string) {
	t.Helper()
	depNames := make([]domain.InternedString, len(deps))
	for i, dep := range deps {
		depNames[i] = domain.NewInternedString(dep)
	}
	require.NoError(t, h.graph.AddTarget(&domain.Target{
		Name:         domain.NewInternedString(name),
		Inputs:       []domain.Source{domain.Pattern("{PROJECT_DIR}" + input)},
		Outputs:      []domain.Source{domain.Pattern("{BUILD_DIR}" + output)},
		Dependencies: depNames,
		Invoke: func(_ context.Context, _ []domain.Entity, env *domain.Environment) error {
			counter.Add(1)
			return os.WriteFile(filepath.Join(env.BuildDir, output), []byte(name), 0o600)
		},
	}))
}

func (h *harness) status(name string) scheduler.TargetStatus {
	return h.scheduler.GetStatusMap()[domain.NewInternedString(name)]
}

func TestScheduler_BuildThenCached(t *testing.T) {
	h := newHarness(t)
	h.writeSource(t, "main.c", "int main() {}")
	var runs atomic.Int32
	h.fileTarget(t, "compile", "main.c", "main.o", &runs)

	require.NoError(t, h.scheduler.Build(context.Background(), h.graph, h.env, "compile"))
	assert.Equal(t, int32(1), runs.Load())
	assert.Equal(t, scheduler.StatusCompleted, h.status("compile"))

	stampPath := h.store.Path(h.env, domain.NewInternedString("compile"))
	first, err := os.ReadFile(stampPath)
	require.NoError(t, err)

	// An unchanged rebuild is a pure cache hit and leaves the stamp alone.
	require.NoError(t, h.scheduler.Build(context.Background(), h.graph, h.env, "compile"))
	assert.Equal(t, int32(1), runs.Load())
	assert.Equal(t, scheduler.StatusCached, h.status("compile"))

	second, err := os.ReadFile(stampPath)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestScheduler_InputChangeReinvokes(t *testing.T) {
	h := newHarness(t)
	h.writeSource(t, "main.c", "int main() {}")
	var runs atomic.Int32
	h.fileTarget(t, "compile", "main.c", "main.o", &runs)

	require.NoError(t, h.scheduler.Build(context.Background(), h.graph, h.env, "compile"))
	h.writeSource(t, "main.c", "int main() { return 1; }")
	require.NoError(t, h.scheduler.Build(context.Background(), h.graph, h.env, "compile"))

	assert.Equal(t, int32(2), runs.Load())
}

func TestScheduler_OutputDeletionReinvokes(t *testing.T) {
	h := newHarness(t)
	h.writeSource(t, "main.c", "int main() {}")
	var runs atomic.Int32
	h.fileTarget(t, "compile", "main.c", "main.o", &runs)

	require.NoError(t, h.scheduler.Build(context.Background(), h.graph, h.env, "compile"))
	require.NoError(t, os.Remove(filepath.Join(h.env.BuildDir, "main.o")))
	require.NoError(t, h.scheduler.Build(context.Background(), h.graph, h.env, "compile"))

	assert.Equal(t, int32(2), runs.Load())
}

func TestScheduler_DiamondRunsSharedDependencyOnce(t *testing.T) {
	h := newHarness(t)
	h.writeSource(t, "gen.in", "g")
	h.writeSource(t, "left.c", "l")
	h.writeSource(t, "right.c", "r")
	h.writeSource(t, "app.c", "a")

	var gen, left, right, app atomic.Int32
	h.fileTarget(t, "gen", "gen.in", "gen.h", &gen)
	h.fileTarget(t, "left", "left.c", "left.o", &left, "gen")
	h.fileTarget(t, "right", "right.c", "right.o", &right, "gen")
	h.fileTarget(t, "app", "app.c", "app.bin", &app, "left", "right")

	require.NoError(t, h.scheduler.Build(context.Background(), h.graph, h.env, "app"))

	assert.Equal(t, int32(1), gen.Load())
	assert.Equal(t, int32(1), left.Load())
	assert.Equal(t, int32(1), right.Load())
	assert.Equal(t, int32(1), app.Load())
	assert.Equal(t, scheduler.StatusCompleted, h.status("app"))
}

func TestScheduler_DiamondOrdering(t *testing.T) {
	h := newHarness(t)

	var mu sync.Mutex
	var started []string
	var sharedDone bool
	record := func(name string) *domain.Target {
		return &domain.Target{
			Name:  domain.NewInternedString(name),
			Phony: true,
			Invoke: func(context.Context, []domain.Entity, *domain.Environment) error {
				mu.Lock()
				if name == "gen" {
					sharedDone = true
				} else {
					assert.True(t, sharedDone, "%s started before gen completed", name)
				}
				started = append(started, name)
				mu.Unlock()
				return nil
			},
		}
	}

	gen := record("gen")
	left := record("left")
	left.Dependencies = []domain.InternedString{gen.Name}
	right := record("right")
	right.Dependencies = []domain.InternedString{gen.Name}
	app := record("app")
	app.Dependencies = []domain.InternedString{left.Name, right.Name}

	for _, target := range []*domain.Target{gen, left, right, app} {
		require.NoError(t, h.graph.AddTarget(target))
	}

	require.NoError(t, h.scheduler.Build(context.Background(), h.graph, h.env, "app"))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, started, 4)
	assert.Equal(t, "gen", started[0])
	assert.Equal(t, "app", started[3])
}

func TestScheduler_DependencyOrder(t *testing.T) {
	h := newHarness(t)
	h.writeSource(t, "a.in", "a")
	h.writeSource(t, "b.in", "b")
	h.writeSource(t, "c.in", "c")

	var mu sync.Mutex
	var order []string
	track := func(name string) *domain.Target {
		return &domain.Target{
			Name: domain.NewInternedString(name),
			Invoke: func(context.Context, []domain.Entity, *domain.Environment) error {
				mu.Lock()
				order = append(order, name)
				mu.Unlock()
				return nil
			},
			Phony: true,
		}
	}

	a := track("a")
	b := track("b")
	b.Dependencies = []domain.InternedString{a.Name}
	c := track("c")
	c.Dependencies = []domain.InternedString{b.Name}

	require.NoError(t, h.graph.AddTarget(a))
	require.NoError(t, h.graph.AddTarget(b))
	require.NoError(t, h.graph.AddTarget(c))

	require.NoError(t, h.scheduler.Build(context.Background(), h.graph, h.env, "c"))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestScheduler_PhonyAlwaysRunsAndNeverStamps(t *testing.T) {
	h := newHarness(t)
	var runs atomic.Int32
	require.NoError(t, h.graph.AddTarget(&domain.Target{
		Name:  domain.NewInternedString("test"),
		Phony: true,
		Invoke: func(context.Context, []domain.Entity, *domain.Environment) error {
			runs.Add(1)
			return nil
		},
	}))

	require.NoError(t, h.scheduler.Build(context.Background(), h.graph, h.env, "test"))
	require.NoError(t, h.scheduler.Build(context.Background(), h.graph, h.env, "test"))
	assert.Equal(t, int32(2), runs.Load())

	_, err := os.Stat(h.store.Path(h.env, domain.NewInternedString("test")))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestScheduler_CycleFailsBeforeAnyInvocation(t *testing.T) {
	h := newHarness(t)
	var runs atomic.Int32
	cycle := func(name, dep string) *domain.Target {
		return &domain.Target{
			Name:         domain.NewInternedString(name),
			Dependencies: []domain.InternedString{domain.NewInternedString(dep)},
			Phony:        true,
			Invoke: func(context.Context, []domain.Entity, *domain.Environment) error {
				runs.Add(1)
				return nil
			},
		}
	}
	require.NoError(t, h.graph.AddTarget(cycle("a", "b")))
	require.NoError(t, h.graph.AddTarget(cycle("b", "c")))
	require.NoError(t, h.graph.AddTarget(cycle("c", "a")))

	err := h.scheduler.Build(context.Background(), h.graph, h.env, "a")
	require.ErrorIs(t, err, domain.ErrCycleDetected)
	assert.Equal(t, int32(0), runs.Load())

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "a -> b -> c -> a", zErr.Metadata()["cycle"])
}

func TestScheduler_InvocationFailureFailsBuild(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.graph.AddTarget(&domain.Target{
		Name:  domain.NewInternedString("broken"),
		Phony: true,
		Invoke: func(context.Context, []domain.Entity, *domain.Environment) error {
			return assert.AnError
		},
	}))

	err := h.scheduler.Build(context.Background(), h.graph, h.env, "broken")
	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, scheduler.StatusFailed, h.status("broken"))
}

func TestScheduler_MissingOutputIsFatalAndUnstamped(t *testing.T) {
	h := newHarness(t)
	h.writeSource(t, "main.c", "int main() {}")
	require.NoError(t, h.graph.AddTarget(&domain.Target{
		Name:    domain.NewInternedString("compile"),
		Inputs:  []domain.Source{domain.Pattern("{PROJECT_DIR}main.c")},
		Outputs: []domain.Source{domain.Pattern("{BUILD_DIR}main.o")},
		Invoke: func(context.Context, []domain.Entity, *domain.Environment) error {
			return nil // never writes main.o
		},
	}))

	err := h.scheduler.Build(context.Background(), h.graph, h.env, "compile")
	require.ErrorIs(t, err, domain.ErrMissingOutput)
	assert.Equal(t, scheduler.StatusFailed, h.status("compile"))

	_, err = os.Stat(h.store.Path(h.env, domain.NewInternedString("compile")))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestScheduler_MissingInputIsFatal(t *testing.T) {
	h := newHarness(t)
	var runs atomic.Int32
	h.fileTarget(t, "compile", "ghost.c", "main.o", &runs)

	err := h.scheduler.Build(context.Background(), h.graph, h.env, "compile")
	require.ErrorIs(t, err, domain.ErrMissingInput)
	assert.Equal(t, int32(0), runs.Load())
}

func TestScheduler_UnknownTarget(t *testing.T) {
	h := newHarness(t)

	err := h.scheduler.Build(context.Background(), h.graph, h.env, "nothing")
	require.ErrorIs(t, err, domain.ErrTargetNotFound)
}

func TestScheduler_NonApplicableTargetIsSkipped(t *testing.T) {
	h := newHarness(t)
	h.env.Platform = domain.PlatformLinuxX64
	var runs atomic.Int32

	require.NoError(t, h.graph.AddTarget(&domain.Target{
		Name:      domain.NewInternedString("ios-pack"),
		Phony:     true,
		Platforms: []domain.Platform{domain.PlatformIOS},
		Invoke: func(context.Context, []domain.Entity, *domain.Environment) error {
			runs.Add(1)
			return nil
		},
	}))

	require.NoError(t, h.scheduler.Build(context.Background(), h.graph, h.env, "ios-pack"))
	assert.Equal(t, int32(0), runs.Load())
	assert.Equal(t, scheduler.StatusSkipped, h.status("ios-pack"))
}

func TestScheduler_NilInvokeStillStamps(t *testing.T) {
	h := newHarness(t)
	h.writeSource(t, "data.txt", "payload")
	require.NoError(t, h.graph.AddTarget(&domain.Target{
		Name:   domain.NewInternedString("collect"),
		Inputs: []domain.Source{domain.Pattern("{PROJECT_DIR}data.txt")},
	}))

	require.NoError(t, h.scheduler.Build(context.Background(), h.graph, h.env, "collect"))
	assert.Equal(t, scheduler.StatusCompleted, h.status("collect"))

	stampRecord, err := h.store.Read(h.env, domain.NewInternedString("collect"))
	require.NoError(t, err)
	require.NotNil(t, stampRecord)
	assert.Len(t, stampRecord.Inputs, 1)
}
