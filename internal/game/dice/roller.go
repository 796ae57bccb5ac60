package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger so that every combat check leaves an audit
// trail at debug level.
//
// Roller itself satisfies Source, so it can be handed to code that only needs
// uniform draws.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src must be non-nil; a nil logger is replaced by a no-op logger.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roller{src: src, logger: logger}
}

// Float64 forwards to the underlying Source without logging.
func (r *Roller) Float64() float64 { return r.src.Float64() }

// Percent rolls a percentile check: true when a uniform draw scaled to
// [0,100) falls below chance.
//
// Postcondition: chance <= 0 never succeeds; chance >= 100 always succeeds.
func (r *Roller) Percent(label string, chance float64) bool {
	roll := r.src.Float64() * 100
	ok := roll < chance
	r.logger.Debug("percent check",
		zap.String("check", label),
		zap.Float64("chance", chance),
		zap.Float64("roll", roll),
		zap.Bool("success", ok),
	)
	return ok
}

// Chance rolls a probability check in [0,1].
func (r *Roller) Chance(label string, p float64) bool {
	return r.Percent(label, p*100)
}

// Between returns an integer in [lo, hi].
func (r *Roller) Between(label string, lo, hi int) int {
	v := Between(r.src, lo, hi)
	r.logger.Debug("range roll",
		zap.String("roll", label),
		zap.Int("lo", lo),
		zap.Int("hi", hi),
		zap.Int("value", v),
	)
	return v
}

// Roll evaluates expr and logs the result at debug level.
func (r *Roller) Roll(expr Expression) RollResult {
	result := expr.Roll(r.src)
	r.logger.Debug("dice roll",
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
	return result
}
