package plates

const (
	// DefaultCombinationLimit caps how many optimal combinations are enumerated per target.
	DefaultCombinationLimit = 800
	// DefaultPairingLimit caps how many combinations per side enter the pairing search.
	DefaultPairingLimit = 500

	maxDenominations = 16
)

type dpSolver struct {
	units            []int
	combinationLimit int
	pairingLimit     int
}

// Option configures the solver.
type Option func(*dpSolver)

// WithCombinationLimit overrides DefaultCombinationLimit. Non-positive values are ignored.
func WithCombinationLimit(limit int) Option {
	return func(s *dpSolver) {
		if limit > 0 {
			s.combinationLimit = limit
		}
	}
}

// WithPairingLimit overrides DefaultPairingLimit. Non-positive values are ignored.
func WithPairingLimit(limit int) Option {
	return func(s *dpSolver) {
		if limit > 0 {
			s.pairingLimit = limit
		}
	}
}

// New creates a Solver for the given denomination unit weights. Order is
// preserved and determines enumeration order and combination indices.
func New(units []int, opts ...Option) (Solver, error) {
	if err := validateDenominations(units); err != nil {
		return nil, err
	}
	s := &dpSolver{
		units:            Combination(units).Clone(),
		combinationLimit: DefaultCombinationLimit,
		pairingLimit:     DefaultPairingLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Solve returns the minimum plate count for target and every combination
// achieving it, up to the combination limit.
func (s *dpSolver) Solve(target int, avail []int) (Solution, error) {
	if err := s.checkInput(target, avail); err != nil {
		return Solution{}, err
	}

	table := minCostTable(s.units, avail, target)
	minPlates, ok := table[0][target].Value()
	if !ok {
		return Solution{}, ErrUnreachable
	}

	e := &enumerator{
		units: s.units,
		avail: avail,
		table: table,
		limit: s.combinationLimit,
	}
	e.walk(0, target, make(Combination, len(s.units)))

	return Solution{
		MinPlates:    minPlates,
		Combinations: e.found,
		Capped:       e.capped,
	}, nil
}

func (s *dpSolver) checkInput(target int, avail []int) error {
	if target < 0 || len(avail) != len(s.units) {
		return ErrInvalidInput
	}
	for _, count := range avail {
		if count < 0 {
			return ErrInvalidInput
		}
	}
	return nil
}

// minCostTable returns table[i][amt]: the cheapest way to build amt using
// only denominations i..n-1 within their availability.
func minCostTable(units, avail []int, target int) [][]Cost {
	n := len(units)
	table := make([][]Cost, n+1)
	for i := range table {
		table[i] = make([]Cost, target+1)
	}
	table[n][0] = Finite(0)

	for i := n - 1; i >= 0; i-- {
		w := units[i]
		for amt := 0; amt <= target; amt++ {
			best := Unreachable
			for c := 0; c <= maxCount(amt, w, avail[i]); c++ {
				if candidate := table[i+1][amt-c*w].Add(c); candidate.Less(best) {
					best = candidate
				}
			}
			table[i][amt] = best
		}
	}

	return table
}

type enumerator struct {
	units  []int
	avail  []int
	table  [][]Cost
	limit  int
	found  []Combination
	capped bool
}

// walk descends through every count that belongs to at least one optimal
// solution. counts is shared across branches; leaves store a copy.
func (e *enumerator) walk(i, amt int, counts Combination) {
	if e.capped {
		return
	}
	if i == len(e.units) {
		if amt == 0 {
			e.found = append(e.found, counts.Clone())
			if len(e.found) >= e.limit {
				e.capped = true
			}
		}
		return
	}

	need := e.table[i][amt]
	if !need.Reachable() {
		return
	}

	w := e.units[i]
	for c := 0; c <= maxCount(amt, w, e.avail[i]); c++ {
		rem := amt - c*w
		if e.table[i+1][rem].Add(c) != need {
			continue
		}
		counts[i] = c
		e.walk(i+1, rem, counts)
		if e.capped {
			break
		}
	}
	counts[i] = 0
}

func maxCount(amt, weight, avail int) int {
	return min(amt/weight, avail)
}

func validateDenominations(units []int) error {
	if len(units) == 0 || len(units) > maxDenominations {
		return ErrInvalidDenominations
	}
	seen := make(map[int]struct{}, len(units))
	for _, w := range units {
		if w <= 0 {
			return ErrInvalidDenominations
		}
		if _, dup := seen[w]; dup {
			return ErrInvalidDenominations
		}
		seen[w] = struct{}{}
	}
	return nil
}
