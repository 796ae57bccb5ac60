// Package testutil provides deterministic test doubles shared across packages.
package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ScriptedSource is a dice.Source that replays a fixed sequence of draws.
// Once the script is exhausted it returns Fallback forever.
type ScriptedSource struct {
	mu       sync.Mutex
	draws    []float64
	next     int
	Fallback float64
}

// NewScriptedSource returns a source replaying draws in order.
//
// Precondition: every draw must lie in [0, 1).
// Postcondition: Returns a non-nil source whose Fallback is 0.5.
func NewScriptedSource(draws ...float64) *ScriptedSource {
	for _, d := range draws {
		if d < 0 || d >= 1 {
			panic("testutil.NewScriptedSource: draw outside [0, 1)")
		}
	}
	return &ScriptedSource{draws: append([]float64(nil), draws...), Fallback: 0.5}
}

// Float64 returns the next scripted draw.
func (s *ScriptedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next < len(s.draws) {
		d := s.draws[s.next]
		s.next++
		return d
	}
	return s.Fallback
}

// Push appends draws to the end of the script.
func (s *ScriptedSource) Push(draws ...float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draws = append(s.draws, draws...)
}

// Consumed returns the number of scripted draws handed out so far.
func (s *ScriptedSource) Consumed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

// Remaining returns the number of scripted draws not yet handed out.
func (s *ScriptedSource) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.draws) - s.next
}

// ConstSource always returns the same draw.
type ConstSource float64

// Float64 returns the constant.
func (c ConstSource) Float64() float64 { return float64(c) }

// AssertDrained fails the test if any scripted draws were left unused.
func AssertDrained(t testing.TB, s *ScriptedSource) {
	t.Helper()
	assert.Zero(t, s.Remaining(), "scripted source has unused draws")
}
