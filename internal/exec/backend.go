// Package exec implements the Execution Backend (spec.md §4.G): it
// consumes a lowered Task stream and produces one contiguous result
// buffer. Two variants are provided — a thread-parallel CPU pool and a
// simulated data-parallel GPU kernel — and both must produce
// byte-identical output for the same input (spec.md §8 property 2).
package exec

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/inodb/vcf2prot/internal/errs"
	"github.com/inodb/vcf2prot/internal/lower"
	"go.uber.org/zap"
)

// Backend is the capability set {submit(Task stream) -> Result buffer}.
type Backend interface {
	Execute(ts *lower.TaskSet) ([]byte, error)
}

// CPU partitions the Task index range across a pool of workers. Each
// worker executes its range independently: writes are disjoint by
// construction (Instructions tile the output), so no synchronization
// is needed beyond a final barrier.
type CPU struct {
	// Workers is the pool size; 0 selects runtime.NumCPU().
	Workers int

	// Debug traces each worker's task index range. Gated by
	// DEBUG_CPU_EXEC.
	Debug bool
	// Logger receives Debug traces; nil disables tracing even if
	// Debug is set.
	Logger *zap.SugaredLogger
}

// Execute runs every task in ts across c.Workers goroutines and
// returns the assembled result buffer.
func (c CPU) Execute(ts *lower.TaskSet) ([]byte, error) {
	if err := validate(ts); err != nil {
		return nil, &errs.FatalBackend{Category: errs.BackendAlloc, Err: err}
	}

	result := make([]byte, ts.ResultLength)
	n := len(ts.ExecCode)
	if n == 0 {
		return result, nil
	}

	workers := c.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	panics := make(chan any, workers)

	for w := 0; w < workers; w++ {
		start := w * chunk
		if start >= n {
			break
		}
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					panics <- r
				}
			}()
			if c.Debug && c.Logger != nil {
				c.Logger.Debugw("cpu worker task range", "start", start, "end", end)
			}
			for i := start; i < end; i++ {
				execOne(ts, result, i)
			}
		}(start, end)
	}
	wg.Wait()
	close(panics)

	if r, ok := <-panics; ok {
		return nil, &errs.FatalBackend{Category: errs.BackendPool, Err: fmt.Errorf("worker panic: %v", r)}
	}
	return result, nil
}

func execOne(ts *lower.TaskSet, result []byte, i int) {
	src := ts.RefStream
	if ts.ExecCode[i] == lower.ExecWriteAlt {
		src = ts.AltStream
	}
	start, length, out := ts.SrcStart[i], ts.Length[i], ts.OutStart[i]
	copy(result[out:out+length], src[start:start+length])
}

func validate(ts *lower.TaskSet) error {
	n := len(ts.ExecCode)
	if len(ts.SrcStart) != n || len(ts.Length) != n || len(ts.OutStart) != n {
		return fmt.Errorf("task array length mismatch: exec_code=%d src_start=%d length=%d out_start=%d",
			n, len(ts.SrcStart), len(ts.Length), len(ts.OutStart))
	}
	return nil
}
