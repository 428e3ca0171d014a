package csp

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/gitrdm/ivcp/pkg/ivstore"
)

// Result is the solver's output surface (spec.md §6.3): no textual
// format is prescribed, so this is a plain struct a consumer formats
// however it likes.
type Result struct {
	Exhaustive     bool
	SolutionsCount int64
	BestSolution   *ivstore.VStore
	BestObjective  *ivstore.Interval
	Stats          Statistics
}

// Driver runs the Or/And-parallel search of spec.md §4.5 over a built
// Problem.
type Driver struct {
	Config Config
	Log    *logrus.Logger
}

// NewDriver creates a Driver with the given configuration. A nil
// logger defaults to a quiet logrus.Logger (warn level), so tests and
// library callers are not forced to see solver-internal chatter.
func NewDriver(cfg Config, log *logrus.Logger) *Driver {
	if log == nil {
		log = logrus.New()
		log.SetLevel(logrus.WarnLevel)
	}
	return &Driver{Config: cfg, Log: log}
}

// Solve partitions the root search space into 2^P deterministic
// subproblems (spec.md §4.5), fans them out across Config.OrNodes
// workers via an atomic fetch-add counter, and joins each worker's
// statistics and best solution into one Result.
func (d *Driver) Solve(ctx context.Context, problem *Problem) Result {
	start := time.Now()
	bud := newBudget(d.Config, start)
	bb := NewBestBound()

	p := d.Config.SubproblemsPower
	if p > len(problem.BranchVars) {
		p = len(problem.BranchVars)
	}
	if p < 0 {
		p = 0
	}
	total := int64(1) << uint(p)

	var counter atomic.Int64
	orNodes := d.Config.OrNodes
	if orNodes < 1 {
		orNodes = 1
	}

	var mu sync.Mutex
	var allStats []Statistics
	var bestSolution *ivstore.VStore
	var bestSolutionObj int // only meaningful if bestSolution != nil and minimizing

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < orNodes; w++ {
		workerID := w
		g.Go(func() error {
			for {
				if bud.Exceeded() {
					return nil
				}
				idx := counter.Add(1) - 1
				if idx >= total {
					return nil
				}

				prefixed := applyPrefix(problem.Store, problem.BranchVars, idx, p)
				res := runWorker(gctx, workerID, prefixed, problem.Propagators, problem.BranchVars, problem.MinimizeVar, d.Config, bb, bud, d.Log)

				mu.Lock()
				allStats = append(allStats, res.stats)
				if res.bestSolution != nil {
					if problem.MinimizeVar != 0 {
						obj := res.bestSolution.Get(problem.MinimizeVar).Ub
						if bestSolution == nil || obj < bestSolutionObj {
							bestSolution = res.bestSolution
							bestSolutionObj = obj
						}
					} else if bestSolution == nil {
						bestSolution = res.bestSolution
					}
				}
				mu.Unlock()
			}
		})
	}

	// Every function passed to g.Go above returns nil (runWorker
	// reports exhaustion via Statistics, not error), so Wait returns nil
	// and this branch is not taken with the current workers.
	if err := g.Wait(); err != nil {
		bud.Stop()
	}

	joined := JoinAll(allStats)
	if len(allStats) == 0 {
		joined.Exhaustive = true
	}

	result := Result{
		Exhaustive:     joined.Exhaustive,
		SolutionsCount: joined.Solutions,
		Stats:          joined,
	}
	if bestSolution != nil {
		result.BestSolution = bestSolution
		if problem.MinimizeVar != 0 {
			obj := bestSolution.Get(problem.MinimizeVar)
			result.BestObjective = &obj
		}
	}

	d.Log.WithFields(logrus.Fields{
		"subproblems": total,
		"or_nodes":    orNodes,
		"duration":    time.Since(start),
	}).Debug("solve finished")

	return result
}

// applyPrefix deterministically derives the starting store for
// decomposition index idx: clone root, then for each of the first p
// branchVars in order, narrow to its left or right half according to
// bit d of idx (spec.md §4.4, §4.5, §8 "Determinism of partition"). A
// variable whose domain has width <= 1 is left as is for bit 0 and
// gives an empty (top) store for bit 1, so no subproblem is repeated.
// No propagation runs between decisions, matching spec.md §4.4's
// "Apply those P decisions to the store before any propagation."
func applyPrefix(root *ivstore.VStore, branchVars []int, idx int64, p int) *ivstore.VStore {
	s := root.Clone()
	for d := 0; d < p && d < len(branchVars); d++ {
		v := branchVars[d]
		itv := s.Get(v)
		w := itv.Width()
		bit := (idx >> uint(d)) & 1
		if w <= 1 {
			// No right half exists: the index with this bit set would
			// repeat the bit-clear subproblem, so it is made empty.
			if bit == 1 {
				s.SetTop()
			}
			continue
		}
		leftUb := itv.Lb + (w+1)/2 - 1
		rightLb := itv.Lb + (w+1)/2
		if bit == 0 {
			s.Update(v, ivstore.Interval{Lb: itv.Lb, Ub: leftUb})
		} else {
			s.Update(v, ivstore.Interval{Lb: rightLb, Ub: itv.Ub})
		}
	}
	return s
}
