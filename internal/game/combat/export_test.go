package combat

// EndForTest ends the session as if a terminal resolution had occurred.
func (s *Session) EndForTest(o Outcome) { s.endCombat(o) }
