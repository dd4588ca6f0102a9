// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"

	"github.com/gogpu/clearpass/backend"
)

// Outcome classifies the result of a frame.
type Outcome uint8

// Frame outcomes.
const (
	// Success means the frame was presented.
	Success Outcome = iota
	// Lost means the surface must be reconfigured with its current size.
	Lost
	// OutOfMemory means the GPU ran out of memory. Not recoverable.
	OutOfMemory
	// Transient covers stale surfaces, acquire timeouts and any other
	// error expected to clear up on the next frame.
	Transient
	// Fatal means the device is gone. Not recoverable.
	Fatal
)

var outcomeNames = [...]string{
	Success:     "success",
	Lost:        "lost",
	OutOfMemory: "out-of-memory",
	Transient:   "transient",
	Fatal:       "fatal",
}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return fmt.Sprintf("Outcome(%d)", o)
}

// Classify maps a RenderFrame result to its Outcome.
//
// A lost surface is only reported as Lost when it happened while acquiring
// the texture. Out of memory is reported from any stage.
func Classify(err error) Outcome {
	if err == nil {
		return Success
	}
	switch {
	case errors.Is(err, backend.ErrOutOfMemory):
		return OutOfMemory
	case errors.Is(err, backend.ErrDeviceLost):
		return Fatal
	case errors.Is(err, backend.ErrSurfaceLost):
		var fe *FrameError
		if errors.As(err, &fe) && fe.Stage != StageAcquire {
			return Transient
		}
		return Lost
	}
	return Transient
}
