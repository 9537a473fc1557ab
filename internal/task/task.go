// Package task implements the traveling task: one logical thread that hops
// from its source node to a sink node and back, verifying invariants at
// every checkpoint.
package task

import (
	"context"
	"time"

	"go.uber.org/zap"

	"migctl/internal/migrate"
	"migctl/internal/model"
	"migctl/internal/platform"
	"migctl/internal/registry"
	"migctl/internal/verify"
)

// State is a position in the task's life cycle.
type State string

const (
	Created         State = "CREATED"
	VerifyingLocal  State = "VERIFYING_LOCAL"
	MigratingOut    State = "MIGRATING_OUT"
	VerifyingRemote State = "VERIFYING_REMOTE"
	MigratingBack   State = "MIGRATING_BACK"
	VerifyingReturn State = "VERIFYING_RETURN"
	Passed          State = "PASSED"
	Failed          State = "FAILED"
)

// Terminal reports whether the state ends the task's state machine.
func (s State) Terminal() bool {
	return s == Passed || s == Failed
}

// Verdict is the task's terminal observation, consumed exactly once by the
// coordinator at join time. For a cancelled soak task State holds the last
// observed non-terminal state, which is the expected outcome, not a failure.
type Verdict struct {
	State      State
	Cause      verify.Cause
	Detail     string
	Cancelled  bool
	RoundTrips int
}

// Passed reports a clean bounded run.
func (v Verdict) Passed() bool { return v.State == Passed }

// Failed reports a classified task failure.
func (v Verdict) Failed() bool { return v.State == Failed }

// Task is the unit of work. All fields are mutated only by the goroutine
// running the task; the coordinator reads them after join.
type Task struct {
	ID     int
	Source model.NodeID
	Sink   model.NodeID

	reg    *registry.Registry
	thread platform.Thread
	client *migrate.Client
	log    *zap.Logger

	state      State
	originalID model.ThreadID
	observed   map[model.NodeID]model.Architecture
	roundTrips int
}

// New creates a task bound to an attached thread.
func New(id int, source, sink model.NodeID, reg *registry.Registry, thread platform.Thread, log *zap.Logger) *Task {
	return &Task{
		ID:       id,
		Source:   source,
		Sink:     sink,
		reg:      reg,
		thread:   thread,
		client:   migrate.NewClient(thread),
		log:      log.With(zap.Int("task", id), zap.Int64("thread", int64(thread.ID()))),
		state:    Created,
		observed: make(map[model.NodeID]model.Architecture),
	}
}

// ThreadID returns the identity captured for this task's thread.
func (t *Task) ThreadID() model.ThreadID { return t.thread.ID() }

// State returns the last state the task reached. Valid after join.
func (t *Task) State() State { return t.state }

// ObservedArch returns the architecture recorded for a node during the
// task's sanity checks, ArchUnknown when the node was never observed.
func (t *Task) ObservedArch(id model.NodeID) model.Architecture {
	return t.observed[id]
}

// Run executes one bounded round-trip: verify at source, hop to sink,
// verify, hop back, verify identity continuity and final location.
func (t *Task) Run(ctx context.Context) Verdict {
	if err := ctx.Err(); err != nil {
		return t.cancelled()
	}

	t.state = VerifyingLocal
	id := t.thread.ID()
	if c := verify.Identity(id); !c.OK {
		return t.fail(c)
	}
	t.originalID = id
	if c := t.sanity(t.Source, t.Sink); !c.OK {
		return t.fail(c)
	}

	t.state = MigratingOut
	if c := verify.Hop(t.client.Migrate(t.Sink)); !c.OK {
		return t.fail(c)
	}

	t.state = VerifyingRemote
	if c := verify.Identity(t.thread.ID()); !c.OK {
		return t.fail(c)
	}
	if c := t.sanity(t.Sink, t.Source); !c.OK {
		return t.fail(c)
	}
	t.log.Info("arrived at sink", zap.String("arch", t.observed[t.Sink].String()))

	t.state = MigratingBack
	if c := verify.Hop(t.client.Migrate(t.Source)); !c.OK {
		return t.fail(c)
	}

	t.state = VerifyingReturn
	if c := verify.IdentityRoundTrip(t.originalID, t.thread.ID()); !c.OK {
		return t.fail(c)
	}
	if c := t.sanity(t.Source, t.Sink); !c.OK {
		return t.fail(c)
	}

	t.state = Passed
	t.roundTrips = 1
	t.log.Info("round-trip passed", zap.String("source", t.Source.String()), zap.String("sink", t.Sink.String()))
	return Verdict{State: Passed, RoundTrips: 1}
}

// Soak runs the never-die variant: round-trips repeat with a fixed rest
// between iterations until the context is cancelled by an external
// supervisor. The task never declares success on its own.
func (t *Task) Soak(ctx context.Context, rest time.Duration) Verdict {
	t.state = VerifyingLocal
	id := t.thread.ID()
	if c := verify.Identity(id); !c.OK {
		return t.fail(c)
	}
	t.originalID = id
	if c := t.sanity(t.Source, t.Sink); !c.OK {
		return t.fail(c)
	}

	timer := time.NewTimer(rest)
	defer timer.Stop()

	for {
		if ctx.Err() != nil {
			return t.cancelled()
		}

		t.state = MigratingOut
		if c := verify.Hop(t.client.Migrate(t.Sink)); !c.OK {
			return t.fail(c)
		}

		t.state = VerifyingRemote
		if c := verify.Identity(t.thread.ID()); !c.OK {
			return t.fail(c)
		}
		t.log.Debug("at sink", zap.String("arch", t.observed[t.Sink].String()))

		if ctx.Err() != nil {
			return t.cancelled()
		}

		t.state = MigratingBack
		if c := verify.Hop(t.client.Migrate(t.Source)); !c.OK {
			return t.fail(c)
		}

		t.state = VerifyingReturn
		if c := verify.IdentityRoundTrip(t.originalID, t.thread.ID()); !c.OK {
			return t.fail(c)
		}
		t.roundTrips++
		t.log.Debug("back at source", zap.String("arch", t.observed[t.Source].String()), zap.Int("round_trips", t.roundTrips))

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(rest)
		select {
		case <-ctx.Done():
			return t.cancelled()
		case <-timer.C:
		}
	}
}

// sanity performs the call-and-verify registry checks for an intended hop:
// the thread must execute on local, and both endpoints must be online.
// Architectures of both endpoints are recorded as a side effect.
func (t *Task) sanity(local, remote model.NodeID) verify.Check {
	current, err := t.reg.Current(t.thread)
	if err != nil {
		return verify.Unreachable(err)
	}
	if c := verify.AtNode(current, local); !c.OK {
		return c
	}

	localNode, err := t.reg.Status(local)
	if err != nil {
		return verify.Unreachable(err)
	}
	remoteNode, err := t.reg.Status(remote)
	if err != nil {
		return verify.Unreachable(err)
	}
	if c := verify.EndpointsOnline(localNode, remoteNode); !c.OK {
		return c
	}

	t.observed[local] = localNode.Arch
	t.observed[remote] = remoteNode.Arch
	return verify.Check{OK: true}
}

func (t *Task) fail(c verify.Check) Verdict {
	failedAt := t.state
	t.state = Failed
	t.log.Warn("task failed",
		zap.String("at", string(failedAt)),
		zap.String("cause", string(c.Cause)),
		zap.String("detail", c.Detail))
	return Verdict{State: Failed, Cause: c.Cause, Detail: c.Detail, RoundTrips: t.roundTrips}
}

func (t *Task) cancelled() Verdict {
	t.log.Info("task cancelled", zap.String("state", string(t.state)), zap.Int("round_trips", t.roundTrips))
	return Verdict{State: t.state, Cancelled: true, RoundTrips: t.roundTrips}
}
