package plates

// BestTransition solves both targets and returns the pairing of optimal
// combinations with the fewest pair operations. Among equal operation
// counts the pairing whose desired combination loads fewer plates wins.
func (s *dpSolver) BestTransition(current, desired int, avail []int) (Transition, error) {
	cur, err := s.Solve(current, avail)
	if err != nil {
		return Transition{}, &TargetError{Side: SideCurrent, Target: current, Err: err}
	}
	des, err := s.Solve(desired, avail)
	if err != nil {
		return Transition{}, &TargetError{Side: SideDesired, Target: desired, Err: err}
	}

	return pickTransition(
		truncate(cur.Combinations, s.pairingLimit),
		truncate(des.Combinations, s.pairingLimit),
	), nil
}

func pickTransition(currents, desireds []Combination) Transition {
	var best Transition
	found := false
	for _, c := range currents {
		for _, d := range desireds {
			ops := Operations(c, d)
			if found && ops > best.Operations {
				continue
			}
			if found && ops == best.Operations && d.Plates() >= best.Desired.Plates() {
				continue
			}
			best = Transition{Current: c, Desired: d, Operations: ops}
			found = true
			if ops == 0 {
				return best
			}
		}
	}
	return best
}

func truncate(combos []Combination, limit int) []Combination {
	if len(combos) > limit {
		return combos[:limit]
	}
	return combos
}

// Operations returns the number of pair additions and removals needed to
// turn a into b.
func Operations(a, b Combination) int {
	ops := 0
	for i := range a {
		diff := a[i] - b[i]
		if diff < 0 {
			diff = -diff
		}
		ops += diff
	}
	return ops
}

// Move is a change of Pairs pairs at denomination Index.
type Move struct {
	Index int
	Pairs int
}

// Moves splits the transition from current to desired into removals and
// additions, both ordered by denomination index.
func Moves(current, desired Combination) (remove, add []Move) {
	for i := range current {
		switch diff := desired[i] - current[i]; {
		case diff > 0:
			add = append(add, Move{Index: i, Pairs: diff})
		case diff < 0:
			remove = append(remove, Move{Index: i, Pairs: -diff})
		}
	}
	return remove, add
}
