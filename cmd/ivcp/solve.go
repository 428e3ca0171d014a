package main

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gitrdm/ivcp/pkg/csp"
)

// newSolveCmd returns the `solve` command group, one subcommand per
// spec.md §8 demonstration scenario. All subcommands share the same
// csp.Config flags (spec.md §6.2).
func newSolveCmd() *cobra.Command {
	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "Run a demonstration constraint problem",
	}

	solveCmd.PersistentFlags().Int("or-nodes", 1, "number of Or-parallel search workers")
	solveCmd.PersistentFlags().Int("and-nodes", 1, "number of And-parallel propagation helpers per worker")
	solveCmd.PersistentFlags().Int("subproblems-power", 4, "log2 of the number of root decomposition subproblems")
	solveCmd.PersistentFlags().Int("stop-after-solutions", 0, "stop after this many solutions (0 = unbounded)")
	solveCmd.PersistentFlags().Int64("stop-after-nodes", 0, "stop after this many search nodes (0 = unbounded)")
	solveCmd.PersistentFlags().Duration("timeout", 0, "wall-clock search budget (0 = unbounded)")
	solveCmd.PersistentFlags().Bool("free-search", false, "reselect the smallest-domain variable instead of the builder's fixed order")
	solveCmd.PersistentFlags().Bool("print-intermediate", false, "log every improving solution during optimization")

	solveCmd.AddCommand(newSolveSatCmd())
	solveCmd.AddCommand(newSolveUnsatCmd())
	solveCmd.AddCommand(newSolveMinimizeCmd())
	solveCmd.AddCommand(newSolveReifiedCmd())

	return solveCmd
}

func configFromFlags(cmd *cobra.Command) csp.Config {
	orNodes, _ := cmd.Flags().GetInt("or-nodes")
	andNodes, _ := cmd.Flags().GetInt("and-nodes")
	power, _ := cmd.Flags().GetInt("subproblems-power")
	stopSolutions, _ := cmd.Flags().GetInt("stop-after-solutions")
	stopNodes, _ := cmd.Flags().GetInt64("stop-after-nodes")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	freeSearch, _ := cmd.Flags().GetBool("free-search")
	printIntermediate, _ := cmd.Flags().GetBool("print-intermediate")

	return csp.NewConfig(
		csp.WithOrNodes(orNodes),
		csp.WithAndNodes(andNodes),
		csp.WithSubproblemsPower(power),
		csp.WithStopAfterNSolutions(stopSolutions),
		csp.WithStopAfterNNodes(stopNodes),
		csp.WithTimeout(timeout),
		csp.WithFreeSearch(freeSearch),
		csp.WithPrintIntermediate(printIntermediate),
	)
}

func runAndPrint(cmd *cobra.Command, problem *csp.Problem) error {
	cfg := configFromFlags(cmd)
	d := csp.NewDriver(cfg, log.StandardLogger())

	ctx := context.Background()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	result := d.Solve(ctx, problem)

	fmt.Printf("solutions=%d exhaustive=%t nodes=%d fails=%d depth_max=%d elapsed=%s\n",
		result.SolutionsCount, result.Exhaustive, result.Stats.Nodes, result.Stats.Fails, result.Stats.DepthMax, time.Since(start))
	if result.BestObjective != nil {
		fmt.Printf("best_objective=%d\n", result.BestObjective.Ub)
	}
	return nil
}

// newSolveSatCmd runs spec.md §8 scenario 1: x,y in [0,2], x+1<=y.
func newSolveSatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sat",
		Short: "x,y in [0,2] with x+1<=y (trivial satisfaction)",
		RunE: func(cmd *cobra.Command, args []string) error {
			b := csp.NewBuilder()
			x := b.AddVar("x", 0, 2)
			y := b.AddVar("y", 0, 2)
			b.AddTemporalConstraint(x, 1, csp.Le, y)
			problem, err := b.Build()
			if err != nil {
				return err
			}
			return runAndPrint(cmd, problem)
		},
	}
}

// newSolveUnsatCmd runs spec.md §8 scenario 2: x in [5,10], x<=4.
func newSolveUnsatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unsat",
		Short: "x in [5,10] with x<=4 (root contradiction)",
		RunE: func(cmd *cobra.Command, args []string) error {
			b := csp.NewBuilder()
			x := b.AddVar("x", 5, 10)
			b.AddLinearConstraint([]int{x}, []int{1}, 4)
			problem, err := b.Build()
			if err != nil {
				return err
			}
			return runAndPrint(cmd, problem)
		},
	}
}

// newSolveMinimizeCmd runs spec.md §8 scenario 3: x,y in [0,10],
// x+1<=y, minimize y.
func newSolveMinimizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "minimize",
		Short: "x,y in [0,10] with x+1<=y, minimize y",
		RunE: func(cmd *cobra.Command, args []string) error {
			b := csp.NewBuilder()
			x := b.AddVar("x", 0, 10)
			y := b.AddVar("y", 0, 10)
			b.AddTemporalConstraint(x, 1, csp.Le, y)
			b.SetObjectiveMinimize(y)
			problem, err := b.Build()
			if err != nil {
				return err
			}
			return runAndPrint(cmd, problem)
		},
	}
}

// newSolveReifiedCmd runs spec.md §8 scenario 4: b in [0,1], x,y in
// [0,5], b <=> (x+1<=y and y-3<=x).
func newSolveReifiedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reified",
		Short: "b in [0,1], x,y in [0,5], b <=> (x+1<=y and y-3<=x)",
		RunE: func(cmd *cobra.Command, args []string) error {
			b := csp.NewBuilder()
			bv := b.AddVar("b", 0, 1)
			x := b.AddVar("x", 0, 5)
			y := b.AddVar("y", 0, 5)
			b.AddReifiedConstraint(bv, x, 1, csp.Le, y, y, -3, csp.Le, x)
			problem, err := b.Build()
			if err != nil {
				return err
			}
			return runAndPrint(cmd, problem)
		},
	}
}
