// Package migrate wraps the raw migration primitive and classifies its
// status codes into a closed outcome type. Nothing downstream matches on
// raw integers, and no outcome is ever retried here.
package migrate

import (
	"fmt"

	"migctl/internal/model"
	"migctl/internal/platform"
)

// Class is the classified result of one hop attempt.
type Class int

const (
	Success Class = iota
	InvalidDestination
	DestinationOffline
	AlreadyAtDestination
	OtherFailure
)

func (c Class) String() string {
	switch c {
	case Success:
		return "success"
	case InvalidDestination:
		return "invalid-destination"
	case DestinationOffline:
		return "destination-offline"
	case AlreadyAtDestination:
		return "already-at-destination"
	default:
		return "other-failure"
	}
}

// Outcome is produced once per migration call. Code carries the raw status
// for the OtherFailure class; it is zero for Success.
type Outcome struct {
	Class Class
	Code  int
	Dest  model.NodeID
}

// OK reports whether the hop succeeded.
func (o Outcome) OK() bool {
	return o.Class == Success
}

func (o Outcome) String() string {
	switch o.Class {
	case Success:
		return fmt.Sprintf("migrated to %s", o.Dest)
	case InvalidDestination:
		return fmt.Sprintf("invalid migration destination %d", int(o.Dest))
	case DestinationOffline:
		return fmt.Sprintf("destination %s is offline", o.Dest)
	case AlreadyAtDestination:
		return fmt.Sprintf("already running at %s", o.Dest)
	default:
		return fmt.Sprintf("migration to %s failed with code %d", o.Dest, o.Code)
	}
}

// Client issues hops for one thread.
type Client struct {
	thread platform.Thread
}

func NewClient(t platform.Thread) *Client {
	return &Client{thread: t}
}

// Migrate attempts a single hop to dest and classifies the result.
// platform.ProposedDestination accepts the platform's proposed target.
func (c *Client) Migrate(dest model.NodeID) Outcome {
	return Classify(dest, c.thread.Migrate(dest))
}

// Classify maps a raw status code onto the outcome taxonomy.
func Classify(dest model.NodeID, code int) Outcome {
	switch code {
	case platform.StatusOK:
		return Outcome{Class: Success, Dest: dest}
	case platform.CodeInvalidDestination:
		return Outcome{Class: InvalidDestination, Dest: dest}
	case platform.CodeDestinationOffline:
		return Outcome{Class: DestinationOffline, Dest: dest}
	case platform.CodeAlreadyAtDestination:
		return Outcome{Class: AlreadyAtDestination, Dest: dest}
	default:
		return Outcome{Class: OtherFailure, Code: code, Dest: dest}
	}
}
