package planner

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/eugenenazirov/plate-changer/internal/inventory"
	"github.com/eugenenazirov/plate-changer/internal/plates"
	"github.com/eugenenazirov/plate-changer/internal/units"
)

// Observer receives the outcome of every Plan call. Outcome is "ok" or the
// Kind of the returned error.
type Observer interface {
	ObservePlan(outcome string, duration time.Duration, operations int)
}

// Request describes a change from one total bar weight to another.
type Request struct {
	CurrentKg string
	DesiredKg string
	// Inventory overrides totals by plate label, e.g. {"25": "4"}.
	Inventory map[string]string
	// Totals is the base inventory in catalogue order. Nil uses the planner defaults.
	Totals []int
}

// Swap returns the request with current and desired exchanged.
func (r Request) Swap() Request {
	r.CurrentKg, r.DesiredKg = r.DesiredKg, r.CurrentKg
	return r
}

// Load is one side of the bar for a given total.
type Load struct {
	Counts        plates.Combination
	PlatesPerSide int
	PerSideKg     decimal.Decimal
	// Plates lists every plate on one side in catalogue order.
	Plates []decimal.Decimal
}

// Move is a number of pairs of one plate weight to add or remove.
type Move struct {
	PlateKg decimal.Decimal
	Pairs   int
}

// Result is the recommended change.
type Result struct {
	BarKg      decimal.Decimal
	CurrentKg  decimal.Decimal
	DesiredKg  decimal.Decimal
	Operations int
	Current    Load
	Desired    Load
	Remove     []Move
	Add        []Move
}

// Unchanged reports whether the bar is already loaded correctly.
func (r Result) Unchanged() bool {
	return r.Operations == 0
}

// Planner validates requests and runs the solver against a plate catalogue.
type Planner struct {
	catalogue inventory.Catalogue
	solver    plates.Solver
	defaults  []int
	maxTotal  decimal.Decimal
	observer  Observer
	logger    *zap.Logger
}

// Option configures a Planner.
type Option func(*Planner)

// WithMaxTotalKg rejects totals above limit. Zero, or a limit above
// units.MaxKg, leaves units.MaxKg as the ceiling.
func WithMaxTotalKg(limit decimal.Decimal) Option {
	return func(p *Planner) {
		p.maxTotal = limit
	}
}

// WithObserver registers an observer for plan outcomes.
func WithObserver(o Observer) Option {
	return func(p *Planner) {
		p.observer = o
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Planner) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a Planner. defaults are the plate totals used when a request
// carries none.
func New(c inventory.Catalogue, solver plates.Solver, defaults []int, opts ...Option) (*Planner, error) {
	validated, err := inventory.Resolve(c, nil, defaults)
	if err != nil {
		return nil, fmt.Errorf("default inventory: %w", err)
	}
	p := &Planner{
		catalogue: c,
		solver:    solver,
		defaults:  validated,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Catalogue returns the plate catalogue the planner works with.
func (p *Planner) Catalogue() inventory.Catalogue {
	return p.catalogue
}

// Plan validates the request and returns the change with the fewest pair
// moves. Errors are always *Error.
func (p *Planner) Plan(req Request) (Result, error) {
	start := time.Now()
	result, err := p.plan(req)
	elapsed := time.Since(start)

	outcome := "ok"
	if err != nil {
		outcome = string(err.Kind)
	}
	if p.observer != nil {
		p.observer.ObservePlan(outcome, elapsed, result.Operations)
	}
	p.logger.Debug("plan computed",
		zap.String("current_kg", req.CurrentKg),
		zap.String("desired_kg", req.DesiredKg),
		zap.String("outcome", outcome),
		zap.Int("operations", result.Operations),
		zap.Duration("duration", elapsed),
	)

	if err != nil {
		return Result{}, err
	}
	return result, nil
}

func (p *Planner) plan(req Request) (Result, *Error) {
	base := req.Totals
	if base == nil {
		base = p.defaults
	}
	totals, err := inventory.Resolve(p.catalogue, req.Inventory, base)
	if err != nil {
		return Result{}, inventoryError(err)
	}
	pairs := inventory.Pairs(totals)

	currentKg, err := units.ParseKg(req.CurrentKg)
	if err != nil {
		return Result{}, weightError(plates.SideCurrent, err)
	}
	desiredKg, err := units.ParseKg(req.DesiredKg)
	if err != nil {
		return Result{}, weightError(plates.SideDesired, err)
	}

	bar := p.catalogue.BarKg()
	if err := p.validateTotal(currentKg, bar); err != nil {
		return Result{}, weightError(plates.SideCurrent, err)
	}
	if err := p.validateTotal(desiredKg, bar); err != nil {
		return Result{}, weightError(plates.SideDesired, err)
	}

	transition, err := p.solver.BestTransition(
		units.PerSideTargetUnits(currentKg, bar),
		units.PerSideTargetUnits(desiredKg, bar),
		pairs,
	)
	if err != nil {
		return Result{}, solveError(err)
	}

	return p.buildResult(currentKg, desiredKg, transition), nil
}

func (p *Planner) validateTotal(total, bar decimal.Decimal) error {
	limit := p.maxTotal
	if !limit.IsPositive() || limit.GreaterThan(units.MaxKg) {
		limit = units.MaxKg
	}
	if total.GreaterThan(limit) {
		return fmt.Errorf("%w of %s kg", ErrAboveLimit, units.FormatKg(limit))
	}
	return units.ValidateTotal(total, bar)
}

func (p *Planner) buildResult(currentKg, desiredKg decimal.Decimal, t plates.Transition) Result {
	remove, add := plates.Moves(t.Current, t.Desired)
	return Result{
		BarKg:      p.catalogue.BarKg(),
		CurrentKg:  currentKg,
		DesiredKg:  desiredKg,
		Operations: t.Operations,
		Current:    p.load(t.Current),
		Desired:    p.load(t.Desired),
		Remove:     p.moves(remove),
		Add:        p.moves(add),
	}
}

func (p *Planner) load(counts plates.Combination) Load {
	list := make([]decimal.Decimal, 0, counts.Plates())
	for i, count := range counts {
		for k := 0; k < count; k++ {
			list = append(list, p.catalogue.PlateKg(i))
		}
	}
	return Load{
		Counts:        counts,
		PlatesPerSide: counts.Plates(),
		PerSideKg:     units.FromUnits(counts.Weight(p.catalogue.Units())),
		Plates:        list,
	}
}

func (p *Planner) moves(in []plates.Move) []Move {
	out := make([]Move, 0, len(in))
	for _, m := range in {
		out = append(out, Move{PlateKg: p.catalogue.PlateKg(m.Index), Pairs: m.Pairs})
	}
	return out
}
