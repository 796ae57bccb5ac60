package condition

import "sort"

// Set tracks the status effects currently applied to one combatant.
// The zero value is an empty, usable Set. It is not safe for concurrent use.
type Set struct {
	active map[Effect]struct{}
}

// Apply adds e to the set. Re-applying an active effect is a no-op; effects
// do not stack.
//
// Postcondition: Has(e) is true.
func (s *Set) Apply(e Effect) {
	if s.active == nil {
		s.active = make(map[Effect]struct{})
	}
	s.active[e] = struct{}{}
}

// Has reports whether e is active.
func (s *Set) Has(e Effect) bool {
	_, ok := s.active[e]
	return ok
}

// Remove deletes e from the set. Removing an absent effect is a no-op.
//
// Postcondition: Has(e) is false.
func (s *Set) Remove(e Effect) {
	delete(s.active, e)
}

// Clear removes every effect.
func (s *Set) Clear() {
	s.active = nil
}

// Len returns the number of active effects.
func (s *Set) Len() int { return len(s.active) }

// Effects returns the active effects in a stable order.
func (s *Set) Effects() []Effect {
	out := make([]Effect, 0, len(s.active))
	for e := range s.active {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clone returns an independent copy of s.
func (s *Set) Clone() Set {
	var c Set
	for e := range s.active {
		c.Apply(e)
	}
	return c
}

// Vulnerable reports whether any active effect leaves the combatant open to attack.
func (s *Set) Vulnerable() bool {
	for e := range s.active {
		if d, ok := defs[e]; ok && d.Vulnerable {
			return true
		}
	}
	return false
}

// NextTurn consumes the effect that governs the combatant's next turn.
// Stun takes precedence over knockdown; only the consumed effect is removed.
//
// Postcondition: Returns RestrictNone and leaves the set unchanged when no
// restricting effect is active.
func (s *Set) NextTurn() (Restriction, Effect) {
	for _, e := range []Effect{Stunned, KnockedDown} {
		if s.Has(e) {
			s.Remove(e)
			return defs[e].Restriction, e
		}
	}
	return RestrictNone, ""
}
