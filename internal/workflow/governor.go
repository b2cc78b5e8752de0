package workflow

// DefaultGovernorCeiling is the invocation count past which the governor
// forces approval.
const DefaultGovernorCeiling = 300

// Governor counts handler invocations and forces approval once the count
// passes its ceiling.
type Governor struct {
	Ceiling int
}

// Enter is called on every handler entry before any other logic. It
// increments the iteration count and reports whether the ceiling has been
// exceeded, in which case the handler must not run and the status becomes
// approved.
func (g Governor) Enter(s *State) (forced bool) {
	s.IterationCount++
	ceiling := g.Ceiling
	if ceiling <= 0 {
		ceiling = DefaultGovernorCeiling
	}
	return s.IterationCount > ceiling
}
