package csp

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/gitrdm/ivcp/internal/workerpool"
	"github.com/gitrdm/ivcp/pkg/ivstore"
	"github.com/gitrdm/ivcp/pkg/propagator"
)

// stackFrame is a search node's pending alternative (spec.md §3,
// "Search node"): a snapshot of the store to restore on backtrack, plus
// the branching decision (variable and its unexplored half-domain)
// still owed to that node.
type stackFrame struct {
	snapshot *ivstore.VStore
	v        int
	alt      ivstore.Interval
}

// workerResult is what one Or-parallel worker's TreeAndPar run produces
// (spec.md §4.4): its own statistics, and a snapshot of the best or
// most recent accepted solution it observed.
type workerResult struct {
	stats        Statistics
	bestSolution *ivstore.VStore
}

// runWorker executes the depth-first branch-and-bound loop of spec.md
// §4.4 over one cloned store, from the given decomposition prefix
// (root already has the prefix applied by the caller). minimizeVar==0
// means satisfaction search.
func runWorker(
	ctx context.Context,
	workerID int,
	root *ivstore.VStore,
	props []propagator.Propagator,
	branchVars []int,
	minimizeVar int,
	cfg Config,
	bb *BestBound,
	bud *budget,
	log *logrus.Logger,
) workerResult {
	current := root.Clone()
	var stack []stackFrame
	// Nodes starts at 1: the root itself is a search node (spec.md §8
	// scenario 2, "root top detected without branching (nodes = 1)").
	// Every subsequent branch push below adds one node for the child it
	// creates.
	stats := Statistics{Exhaustive: true, Nodes: 1}
	var best *ivstore.VStore

	var helperPool *workerpool.Pool
	if cfg.AndNodes > 1 {
		helperPool = workerpool.New(cfg.AndNodes, log)
		defer helperPool.Close()
	}

	backtrack := func() bool {
		if len(stack) == 0 {
			return false
		}
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		current.Reset(frame.snapshot)
		current.Update(frame.v, frame.alt)
		return true
	}

	for {
		if bud.Exceeded() {
			stats.Exhaustive = false
			break
		}

		// Prune against the shared best bound before propagating: any
		// solution in this subtree must strictly improve on the best
		// objective any worker has found so far (spec.md §1, §4.5 --
		// the kernel's point is exactly this shared-bound pruning, not
		// just checking the bound at leaves). Narrowing here lets the
		// fixpoint sweep below fail the whole subtree in one shot
		// instead of only catching it once every variable is assigned.
		if minimizeVar != 0 {
			if ub, ok := bb.UB(); ok {
				current.UpdateUB(minimizeVar, ub-1)
			}
		}

		var sweeps int
		if helperPool != nil {
			n, err := propagator.RunParallel(ctx, current, props, helperPool)
			sweeps = n
			if err != nil {
				stats.Exhaustive = false
				break
			}
		} else {
			sweeps = propagator.Run(current, props)
		}
		stats.FixpointIterations += int64(sweeps)

		if current.IsTop() {
			stats.Fails++
			if !backtrack() {
				break
			}
			continue
		}

		v, hasUnassigned := selectBranchVar(current, branchVars, cfg.FreeSearch)
		if !hasUnassigned {
			stats.Solutions++
			bud.recordSolution()
			best = current.Clone()

			if minimizeVar != 0 {
				obj := current.Get(minimizeVar).Ub
				if bb.TightenUpperBound(obj) {
					if cfg.PrintIntermediate {
						log.WithFields(logrus.Fields{
							"worker":    workerID,
							"objective": obj,
						}).Info("improving solution")
					}
				}
				// Force a fail to keep searching for a strictly better
				// solution (spec.md §4.4).
				if !backtrack() {
					break
				}
				continue
			}

			if cfg.StopAfterNSolutions > 0 && stats.Solutions >= int64(cfg.StopAfterNSolutions) {
				stats.Exhaustive = false
				break
			}
			if !backtrack() {
				break
			}
			continue
		}

		itv := current.Get(v)
		w := itv.Width()
		leftUb := itv.Lb + (w+1)/2 - 1
		rightLb := itv.Lb + (w+1)/2

		snapshot := current.Clone()
		stack = append(stack, stackFrame{snapshot: snapshot, v: v, alt: ivstore.Interval{Lb: rightLb, Ub: itv.Ub}})
		current.Update(v, ivstore.Interval{Lb: itv.Lb, Ub: leftUb})

		stats.Nodes++
		bud.recordNode()
		if depth := len(stack); depth > stats.DepthMax {
			stats.DepthMax = depth
		}
	}

	if best != nil && minimizeVar != 0 {
		if ub, ok := bb.UB(); ok {
			v := ub
			stats.BestBound = &v
		}
	}

	return workerResult{stats: stats, bestSolution: best}
}

// selectBranchVar returns the first unassigned variable in order
// (spec.md §4.4 default), or, under free_search, the unassigned
// variable with the smallest current domain (spec.md §6.2).
func selectBranchVar(store *ivstore.VStore, branchVars []int, freeSearch bool) (int, bool) {
	if !freeSearch {
		for _, v := range branchVars {
			if !store.Get(v).IsAssigned() {
				return v, true
			}
		}
		return 0, false
	}

	best := 0
	bestWidth := 0
	found := false
	for _, v := range branchVars {
		itv := store.Get(v)
		if itv.IsAssigned() {
			continue
		}
		if !found || itv.Width() < bestWidth {
			best, bestWidth, found = v, itv.Width(), true
		}
	}
	return best, found
}
