// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "fmt"

// Stage identifies a step of RenderFrame.
type Stage uint8

// Frame stages, in execution order.
const (
	StageAcquire Stage = iota
	StageView
	StageEncoder
	StagePass
	StageFinish
	StageSubmit
	StagePresent
)

var stageNames = [...]string{
	StageAcquire: "acquire",
	StageView:    "view",
	StageEncoder: "encoder",
	StagePass:    "pass",
	StageFinish:  "finish",
	StageSubmit:  "submit",
	StagePresent: "present",
}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("Stage(%d)", s)
}

// FrameError is a RenderFrame failure.
type FrameError struct {
	Stage Stage
	Err   error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("render: %s: %v", e.Stage, e.Err)
}

func (e *FrameError) Unwrap() error { return e.Err }
