package plates

// Cost is the minimum number of plates needed to build an amount, or
// Unreachable when no combination exists. The zero value is Unreachable.
type Cost struct {
	plates    int
	reachable bool
}

// Unreachable marks amounts that cannot be built.
var Unreachable = Cost{}

// Finite returns a reachable cost of n plates.
func Finite(n int) Cost {
	return Cost{plates: n, reachable: true}
}

// Value returns the plate count and whether the amount is reachable.
func (c Cost) Value() (int, bool) {
	return c.plates, c.reachable
}

// Reachable reports whether the cost is finite.
func (c Cost) Reachable() bool {
	return c.reachable
}

// Add returns the cost with n more plates. Unreachable stays unreachable.
func (c Cost) Add(n int) Cost {
	if !c.reachable {
		return Unreachable
	}
	return Finite(c.plates + n)
}

// Less orders finite costs by plate count, before any unreachable cost.
func (c Cost) Less(other Cost) bool {
	switch {
	case !c.reachable:
		return false
	case !other.reachable:
		return true
	default:
		return c.plates < other.plates
	}
}

// Combination holds the number of pairs used per denomination, index-aligned
// with the denomination slice the solver was built with.
type Combination []int

// Plates returns the number of plates loaded on one side.
func (c Combination) Plates() int {
	total := 0
	for _, count := range c {
		total += count
	}
	return total
}

// Weight returns the per-side units carried by the combination.
func (c Combination) Weight(units []int) int {
	total := 0
	for i, count := range c {
		total += count * units[i]
	}
	return total
}

// Clone returns an independent copy.
func (c Combination) Clone() Combination {
	out := make(Combination, len(c))
	copy(out, c)
	return out
}

// Solution is the set of minimum-plate combinations for a single target.
// When Capped is true enumeration stopped at the configured limit and more
// optimal combinations may exist; every returned combination is still optimal.
type Solution struct {
	MinPlates    int
	Combinations []Combination
	Capped       bool
}

// Transition pairs a current and a desired combination with the pair
// operations needed to move between them.
type Transition struct {
	Current    Combination
	Desired    Combination
	Operations int
}

// Side identifies which target of a transition a result or error refers to.
type Side int

const (
	SideCurrent Side = iota + 1
	SideDesired
)

func (s Side) String() string {
	switch s {
	case SideCurrent:
		return "current"
	case SideDesired:
		return "desired"
	default:
		return ""
	}
}

// Solver describes the behaviour required from a plate combination solver.
type Solver interface {
	Solve(target int, avail []int) (Solution, error)
	BestTransition(current, desired int, avail []int) (Transition, error)
}
