// Package coord orchestrates traveling tasks: creation, barrier-synchronized
// start, completion tracking, join, and the aggregate suite verdict.
package coord

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"migctl/internal/model"
	"migctl/internal/platform"
	"migctl/internal/registry"
	"migctl/internal/report"
	"migctl/internal/task"
)

// DefaultSoakRest is the pause between soak round-trips.
const DefaultSoakRest = time.Second

// Params describes one coordinator run.
type Params struct {
	Source model.NodeID
	Sink   model.NodeID
	Tasks  int

	// SoakRest applies to Soak only; zero means DefaultSoakRest.
	SoakRest time.Duration
}

// Validate rejects malformed parameters before any task is created.
func (p Params) Validate() error {
	if p.Tasks < 1 {
		return configf("task count must be at least 1, got %d", p.Tasks)
	}
	if !p.Source.Valid() {
		return configf("source node id %d out of range [0,%d)", int(p.Source), model.MaxNodes)
	}
	if !p.Sink.Valid() {
		return configf("sink node id %d out of range [0,%d)", int(p.Sink), model.MaxNodes)
	}
	if p.Source == p.Sink {
		return configf("source and sink node ids must differ, both are %d", int(p.Source))
	}
	return nil
}

// Coordinator runs suites of traveling tasks against one platform.
type Coordinator struct {
	platform platform.Platform
	reg      *registry.Registry
	log      *zap.Logger

	completed atomic.Int64
}

func New(p platform.Platform, log *zap.Logger) *Coordinator {
	return &Coordinator{
		platform: p,
		reg:      registry.New(p),
		log:      log,
	}
}

// Completed returns how many tasks of the current or last run have reached a
// terminal observation. Tasks update it only through their completion
// transition inside the coordinator.
func (c *Coordinator) Completed() int {
	return int(c.completed.Load())
}

// Run executes the bounded variant: every task performs one verified
// round-trip and the suite finishes when all tasks have terminated.
func (c *Coordinator) Run(ctx context.Context, p Params) (*report.Suite, error) {
	return c.execute(ctx, p, false)
}

// Soak executes the never-die variant: tasks round-trip indefinitely and are
// only stopped by cancelling ctx. Cancelled-in-flight is the expected
// outcome and is reported as such, not as a failure.
func (c *Coordinator) Soak(ctx context.Context, p Params) (*report.Suite, error) {
	return c.execute(ctx, p, true)
}

func (c *Coordinator) execute(ctx context.Context, p Params, soak bool) (*report.Suite, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	rest := p.SoakRest
	if rest <= 0 {
		rest = DefaultSoakRest
	}

	startedAt := time.Now().UTC()
	c.completed.Store(0)

	// Allocate every task before any starts; a failure here aborts the run.
	tasks := make([]*task.Task, p.Tasks)
	for i := range tasks {
		thread, err := c.platform.Attach()
		if err != nil {
			return nil, resourcef("attach thread for task %d: %v", i, err)
		}
		tasks[i] = task.New(i, p.Source, p.Sink, c.reg, thread, c.log)
	}

	verdicts := make([]task.Verdict, len(tasks))
	durations := make([]time.Duration, len(tasks))

	// Two-phase rendezvous: every task signals readiness, then all are
	// released together once the coordinator has seen all of them arrive.
	var ready sync.WaitGroup
	ready.Add(len(tasks))
	start := make(chan struct{})

	g, gctx := errgroup.WithContext(ctx)
	for i := range tasks {
		i := i
		tk := tasks[i]
		g.Go(func() error {
			ready.Done()
			select {
			case <-start:
			case <-gctx.Done():
				verdicts[i] = task.Verdict{State: tk.State(), Cancelled: true}
				c.completed.Add(1)
				return nil
			}

			began := time.Now()
			if soak {
				verdicts[i] = tk.Soak(gctx, rest)
			} else {
				verdicts[i] = tk.Run(gctx)
			}
			durations[i] = time.Since(began)
			c.completed.Add(1)
			return nil
		})
	}

	ready.Wait()
	close(start)
	c.log.Info("tasks released", zap.Int("count", len(tasks)),
		zap.String("source", p.Source.String()), zap.String("sink", p.Sink.String()))

	// Blocking join; individual failures are verdicts, not errors.
	_ = g.Wait()

	suite := &report.Suite{
		RunID:      uuid.NewString(),
		Source:     int(p.Source),
		Sink:       int(p.Sink),
		Requested:  p.Tasks,
		StartedAt:  startedAt,
		FinishedAt: time.Now().UTC(),
		Tasks:      make([]report.TaskResult, len(tasks)),
	}
	for i, v := range verdicts {
		tk := tasks[i]
		result := report.TaskResult{
			TaskID:     tk.ID,
			ThreadID:   int64(tk.ThreadID()),
			State:      string(v.State),
			Cause:      string(v.Cause),
			Detail:     v.Detail,
			Passed:     v.Passed(),
			Cancelled:  v.Cancelled,
			RoundTrips: v.RoundTrips,
			SourceArch: tk.ObservedArch(p.Source).String(),
			SinkArch:   tk.ObservedArch(p.Sink).String(),
			DurationMs: float64(durations[i].Microseconds()) / 1000.0,
		}
		switch {
		case v.Passed():
			suite.Passed++
		case v.Failed():
			suite.Failed++
		case v.Cancelled:
			suite.Cancelled++
		}
		suite.Tasks[i] = result
	}

	c.log.Info("suite finished",
		zap.String("run_id", suite.RunID),
		zap.Int("passed", suite.Passed),
		zap.Int("failed", suite.Failed),
		zap.Int("cancelled", suite.Cancelled))
	return suite, nil
}
