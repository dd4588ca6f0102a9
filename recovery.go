// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package clearpass

import (
	"fmt"

	"github.com/gogpu/clearpass/render"
)

// Decision is what the event loop does after an event.
type Decision uint8

// Decisions.
const (
	// Continue keeps running.
	Continue Decision = iota
	// Reconfigure means the surface was (or must be) reconfigured. The
	// loop keeps running and does not render again for the same event.
	Reconfigure
	// Terminate stops the loop.
	Terminate
)

func (d Decision) String() string {
	switch d {
	case Continue:
		return "continue"
	case Reconfigure:
		return "reconfigure"
	case Terminate:
		return "terminate"
	}
	return fmt.Sprintf("Decision(%d)", d)
}

// TransientPolicy selects how transient frame errors are handled.
type TransientPolicy uint8

const (
	// TransientRetry logs the error and renders again on the next frame.
	TransientRetry TransientPolicy = iota
	// TransientExit terminates on any transient error.
	TransientExit
)

func (p TransientPolicy) String() string {
	if p == TransientExit {
		return "exit"
	}
	return "retry"
}

// ParseTransientPolicy parses "retry" or "exit".
func ParseTransientPolicy(s string) (TransientPolicy, error) {
	switch s {
	case "retry", "":
		return TransientRetry, nil
	case "exit":
		return TransientExit, nil
	}
	return 0, fmt.Errorf("clearpass: unknown transient policy %q", s)
}

// Decide maps a frame outcome to a loop decision.
func Decide(o render.Outcome, policy TransientPolicy) Decision {
	switch o {
	case render.Success:
		return Continue
	case render.Lost:
		return Reconfigure
	case render.Transient:
		if policy == TransientExit {
			return Terminate
		}
		return Continue
	default: // OutOfMemory, Fatal
		return Terminate
	}
}
