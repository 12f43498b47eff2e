package worker

import (
	"context"
	stderrors "errors"
	"sync"
)

// ErrRunInProgress is returned when a run is requested while another is active
var ErrRunInProgress = stderrors.New("a snapshot run is already in progress")

// Runner executes one snapshot run
type Runner interface {
	Run(ctx context.Context, opts RunOptions) (RunResult, error)
}

// SerialRunner lets at most one run through at a time. Callers arriving while a
// run is active get ErrRunInProgress instead of waiting.
type SerialRunner struct {
	runner Runner
	mu     sync.Mutex
}

// NewSerialRunner wraps runner
func NewSerialRunner(runner Runner) *SerialRunner {
	return &SerialRunner{runner: runner}
}

// Run executes the wrapped runner unless a run is already active
func (s *SerialRunner) Run(ctx context.Context, opts RunOptions) (RunResult, error) {
	if !s.mu.TryLock() {
		return RunResult{}, ErrRunInProgress
	}
	defer s.mu.Unlock()
	return s.runner.Run(ctx, opts)
}
