// Package verify holds the pure post-migration invariant checks. Each check
// returns a structured result carrying a cause tag from a closed set, so
// suite reports stay machine-checkable.
package verify

import (
	"fmt"

	"migctl/internal/migrate"
	"migctl/internal/model"
)

// Cause classifies why a check failed. The set is closed: report consumers
// match on these tags, never on message text.
type Cause string

const (
	CauseNone                Cause = ""
	CauseRegistryUnreachable Cause = "registry-unreachable"
	CauseWrongNode           Cause = "wrong-node"
	CauseNodeOffline         Cause = "node-offline"
	CauseIdentityLost        Cause = "identity-lost"
	CauseIdentityMismatch    Cause = "identity-mismatch"
	CauseMigrationFailed     Cause = "migration-failed"
)

// Check is the outcome of one invariant evaluation.
type Check struct {
	OK     bool
	Cause  Cause
	Detail string
}

func pass() Check {
	return Check{OK: true}
}

func fail(cause Cause, format string, args ...any) Check {
	return Check{Cause: cause, Detail: fmt.Sprintf(format, args...)}
}

// Identity requires a usable positive context identifier.
func Identity(id model.ThreadID) Check {
	if !id.Valid() {
		return fail(CauseIdentityLost, "thread id is not a positive integer: %d", id)
	}
	return pass()
}

// IdentityRoundTrip requires the identity observed after the return hop to
// equal the one captured before the first hop.
func IdentityRoundTrip(before, after model.ThreadID) Check {
	if !after.Valid() {
		return fail(CauseIdentityLost, "thread id is not a positive integer: %d", after)
	}
	if after != before {
		return fail(CauseIdentityMismatch, "thread id %d does not match original id %d", after, before)
	}
	return pass()
}

// AtNode requires the thread to be executing where the caller believes it is.
// A mismatch indicates migration or bookkeeping corruption, never a warning.
func AtNode(current, want model.NodeID) Check {
	if current != want {
		return fail(CauseWrongNode, "should be at %s but running at %s", want, current)
	}
	return pass()
}

// EndpointsOnline requires both ends of an intended hop to be live.
func EndpointsOnline(local, remote model.Node) Check {
	if !local.Online() {
		return fail(CauseNodeOffline, "%s is offline", local.ID)
	}
	if !remote.Online() {
		return fail(CauseNodeOffline, "%s is offline", remote.ID)
	}
	return pass()
}

// Unreachable tags a failed registry query.
func Unreachable(err error) Check {
	return fail(CauseRegistryUnreachable, "cannot retrieve node information: %v", err)
}

// Hop converts a failed migration outcome into a check result.
func Hop(out migrate.Outcome) Check {
	if out.OK() {
		return pass()
	}
	return fail(CauseMigrationFailed, "%s", out)
}
