package trace

import (
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"github.com/pavanmanishd/stackarena"
)

// Outcomes reported in Step.Outcome.
const (
	OutcomeRegion    = "region"    // alloc served from the region
	OutcomeHeap      = "heap"      // alloc served by, or free forwarded to, the heap
	OutcomeReclaimed = "reclaimed" // free rewound the cursor
	OutcomeInterior  = "interior"  // free below the top, ignored
)

// Step is the arena state after one op.
type Step struct {
	Index     int
	Op        Op
	Align     int // effective alignment for allocs
	Outcome   string
	Offset    int // region offset of the slice, -1 for heap slices
	Used      int
	Available int
}

// Replay applies ops to a in order. Frees go through CheckedDeallocate, so a
// trace that frees out of order never corrupts the arena.
func Replay(a *stackarena.Arena, ops []Op, logger log.Logger) ([]Step, error) {
	live := make(map[string][]byte, len(ops))
	steps := make([]Step, 0, len(ops))

	for i, op := range ops {
		step := Step{Index: i, Op: op, Offset: -1}
		switch op.Op {
		case OpAlloc:
			align := op.Align
			if align == 0 {
				align = stackarena.MaxAlign
			}
			b := a.Allocate(int(op.Size), align)
			live[op.ID] = b
			step.Align = align
			step.Outcome = OutcomeHeap
			if off, ok := a.Offset(b); ok {
				step.Outcome, step.Offset = OutcomeRegion, off
			}

		case OpFree:
			b, ok := live[op.ID]
			if !ok {
				return steps, errors.Errorf("op %d: id %q is not allocated", i, op.ID)
			}
			delete(live, op.ID)
			off, inRegion := a.Offset(b)
			before := a.Used()
			if err := a.CheckedDeallocate(b); err != nil {
				return steps, errors.Wrapf(err, "op %d: free %q", i, op.ID)
			}
			switch {
			case !inRegion:
				step.Outcome = OutcomeHeap
			case a.Used() < before:
				step.Outcome, step.Offset = OutcomeReclaimed, off
			default:
				step.Outcome, step.Offset = OutcomeInterior, off
			}

		default:
			return steps, errors.Errorf("op %d: unknown op %q", i, op.Op)
		}

		step.Used, step.Available = a.Used(), a.Available()
		level.Debug(logger).Log(
			"msg", "replayed op",
			"index", i,
			"op", op.Op,
			"id", op.ID,
			"outcome", step.Outcome,
			"used", step.Used,
		)
		steps = append(steps, step)
	}
	return steps, nil
}
