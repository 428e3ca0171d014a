package csp

import "time"

// Config collects the driver options of spec.md §6.2.
type Config struct {
	OrNodes              int
	AndNodes             int
	SubproblemsPower     int
	StopAfterNSolutions  int
	StopAfterNNodes      int64
	Timeout              time.Duration
	FreeSearch           bool
	PrintIntermediate    bool
}

// Option configures a Config, the functional-option idiom the teacher
// repo uses for its solver/strategy configuration pair.
type Option func(*Config)

// DefaultConfig returns the spec.md §6.2 defaults: 1 Or worker, 1
// helper, 2^12 subproblems, no solution/node/time budget.
func DefaultConfig() Config {
	return Config{
		OrNodes:             1,
		AndNodes:            1,
		SubproblemsPower:    12,
		StopAfterNSolutions: 0,
		StopAfterNNodes:     0,
		Timeout:             0,
	}
}

// NewConfig builds a Config from DefaultConfig plus the given options.
func NewConfig(opts ...Option) Config {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithOrNodes sets the number of Or-parallel search workers.
func WithOrNodes(n int) Option { return func(c *Config) { c.OrNodes = n } }

// WithAndNodes sets the number of And-parallel helpers per worker.
func WithAndNodes(n int) Option { return func(c *Config) { c.AndNodes = n } }

// WithSubproblemsPower sets the root-decomposition depth P (spec.md §4.5).
func WithSubproblemsPower(p int) Option { return func(c *Config) { c.SubproblemsPower = p } }

// WithStopAfterNSolutions stops the search once n solutions are found
// (0 = unbounded).
func WithStopAfterNSolutions(n int) Option {
	return func(c *Config) { c.StopAfterNSolutions = n }
}

// WithStopAfterNNodes stops the search once n nodes have been visited
// (0 = unbounded).
func WithStopAfterNNodes(n int64) Option {
	return func(c *Config) { c.StopAfterNNodes = n }
}

// WithTimeout bounds total wall-clock search time (0 = unbounded).
func WithTimeout(d time.Duration) Option { return func(c *Config) { c.Timeout = d } }

// WithFreeSearch enables smallest-domain reselection in place of the
// builder's fixed branching order (spec.md §6.2).
func WithFreeSearch(v bool) Option { return func(c *Config) { c.FreeSearch = v } }

// WithPrintIntermediate requests that every improving solution be
// reported during optimization, not only the final one.
func WithPrintIntermediate(v bool) Option {
	return func(c *Config) { c.PrintIntermediate = v }
}
