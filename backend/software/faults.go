// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import "sync"

// Op identifies a fallible backend operation.
type Op uint8

// Fallible operations.
const (
	OpRequestDevice Op = iota
	OpConfigure
	OpAcquire
	OpSubmit
	OpPresent
)

var opNames = [...]string{
	OpRequestDevice: "request-device",
	OpConfigure:     "configure",
	OpAcquire:       "acquire",
	OpSubmit:        "submit",
	OpPresent:       "present",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "unknown"
}

// Faults queues errors returned by backend operations. Each call of an
// operation consumes at most one queued error, in FIFO order.
type Faults struct {
	mu     sync.Mutex
	queued map[Op][]error
	calls  map[Op]int
}

// NewFaults creates an empty fault injector.
func NewFaults() *Faults {
	return &Faults{
		queued: make(map[Op][]error),
		calls:  make(map[Op]int),
	}
}

// Inject queues errs for op. A nil entry lets one call succeed.
func (f *Faults) Inject(op Op, errs ...error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queued[op] = append(f.queued[op], errs...)
}

// Pending returns the number of queued errors for op.
func (f *Faults) Pending(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queued[op])
}

// Calls returns how many times op was attempted.
func (f *Faults) Calls(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// Reset drops queued errors and call counts.
func (f *Faults) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	clear(f.queued)
	clear(f.calls)
}

// take records a call of op and pops its next queued error.
func (f *Faults) take(op Op) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	q := f.queued[op]
	if len(q) == 0 {
		return nil
	}
	err := q[0]
	f.queued[op] = q[1:]
	return err
}
