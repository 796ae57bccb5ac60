package ai

import (
	"math"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/game/combatant"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/resolve"
)

// WeightHook evaluates a named script against a situation table and returns
// weight deltas keyed by "distance", "stance" and "attack".
type WeightHook interface {
	CallTableHook(hook string, fields map[string]any) map[string]float64
}

// Engine makes decisions for AI-controlled units.
type Engine struct {
	cfg      config.AIConfig
	resolver *resolve.Resolver
	roll     *dice.Roller
	hooks    WeightHook
	logger   *zap.Logger
}

// NewEngine creates an Engine.
//
// Precondition: resolver and roller must be non-nil. hooks may be nil to disable scripting.
func NewEngine(cfg config.AIConfig, resolver *resolve.Resolver, roller *dice.Roller, hooks WeightHook, logger *zap.Logger) *Engine {
	if resolver == nil || roller == nil {
		panic("ai.NewEngine: resolver and roller must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{cfg: cfg, resolver: resolver, roll: roller, hooks: hooks, logger: logger.Named("ai")}
}

// Decide picks s.Self's action for this turn.
//
// Precondition: s.Self and s.Opponent must be non-nil.
// Postcondition: Attack decisions always name a kind Self may attempt; the
// scheduler still applies the usable-kind fallback when state changes.
func (e *Engine) Decide(s Situation) Decision {
	if s.Self == nil || s.Opponent == nil {
		panic("ai.Engine.Decide: Self and Opponent must not be nil")
	}
	target := -1
	if len(s.Targets) > 0 {
		if i := ChooseTarget(s.Targets); i >= 0 {
			target = i
			s.Opponent = s.Targets[i]
		}
	}

	followUps := e.readyFollowUps(s)
	w := e.Weights(s, followUps)

	var d Decision
	switch e.drawType(w) {
	case ActionDistance:
		d = Decision{Type: ActionDistance, Delta: e.distanceStep(s)}
	case ActionStance:
		d = Decision{Type: ActionStance, Stance: e.stanceChoice(s, followUps)}
	default:
		d = Decision{Type: ActionAttack, Kind: e.attackChoice(s, followUps), Area: combatant.AreaBody}
	}
	d.Target = target

	e.logger.Debug("decision",
		zap.String("unit", s.Self.Name),
		zap.String("action", d.Key()),
		zap.Float64("w_distance", w.Distance),
		zap.Float64("w_stance", w.Stance),
		zap.Float64("w_attack", w.Attack),
	)
	return d
}

// Weights computes the adjusted action-type distribution for s, floored at zero.
// followUps are the combo keys that are ready this turn.
func (e *Engine) Weights(s Situation, followUps []string) Weights {
	cfg := e.cfg
	w := Weights{Distance: cfg.DistanceWeight, Stance: cfg.StanceWeight, Attack: cfg.AttackWeight}

	dev := deviation(s)
	w.Distance += float64(dev) * cfg.DeviationWeight
	if dev >= 2 {
		w.Attack -= cfg.FarDeviationPenalty
	}

	if s.Self.Stance != e.desiredStance(s) {
		w.Stance += cfg.CounterStanceWeight
	}

	if e.rangedReady(s) {
		w.Attack += cfg.RangedReadyWeight
	}

	if lowHealth(s.Self, cfg.LowHealth) {
		w.Stance += cfg.LowHealthCaution
		w.Distance += cfg.LowHealthCaution
	}
	if lowHealth(s.Opponent, cfg.LowHealth) {
		w.Attack += cfg.OpponentLowAggression
	}

	for _, key := range followUps {
		if t, _, ok := parseKey(key); ok {
			w = w.add(t, cfg.ComboWeight)
		}
	}

	w = e.applyHook(s, w)
	return w.floored()
}

func (e *Engine) applyHook(s Situation, w Weights) Weights {
	if e.hooks == nil || s.Self.Behavior == nil || s.Self.Behavior.Hook == "" {
		return w
	}
	deltas := e.hooks.CallTableHook(s.Self.Behavior.Hook, e.hookFields(s))
	for _, t := range []ActionType{ActionDistance, ActionStance, ActionAttack} {
		if v, ok := deltas[string(t)]; ok && !math.IsNaN(v) && !math.IsInf(v, 0) {
			w = w.add(t, v)
		}
	}
	return w
}

func (e *Engine) hookFields(s Situation) map[string]any {
	unit := func(c *combatant.Combatant) map[string]any {
		return map[string]any{
			"name":         c.Name,
			"health":       c.Health,
			"max_health":   c.MaxHealth,
			"health_pct":   c.HealthPercent(),
			"stance":       string(c.Stance),
			"momentum":     c.Momentum,
			"stunned":      c.IsStunned(),
			"knocked_down": c.IsKnockedDown(),
			"last_action":  c.LastAction,
		}
	}
	return map[string]any{
		"self":               unit(s.Self),
		"opponent":           unit(s.Opponent),
		"distance":           int(s.Distance),
		"preferred_distance": int(preferredDistance(s.Self)),
		"attacks":            e.resolver.UsableKinds(s.Self, repertoire(e.resolver, s.Self), s.Distance),
	}
}

// drawType resolves the single weighted draw over action types.
func (e *Engine) drawType(w Weights) ActionType {
	total := w.Total()
	if total <= 0 {
		return ActionAttack
	}
	x := e.roll.Float64() * total
	switch {
	case x < w.Distance:
		return ActionDistance
	case x < w.Distance+w.Stance:
		return ActionStance
	default:
		return ActionAttack
	}
}

// readyFollowUps returns the combo keys declared after Self's last action
// that Self can still execute: attacks must be usable, and the unit needs
// momentum or the ammunition the follow-up consumes.
func (e *Engine) readyFollowUps(s Situation) []string {
	var out []string
	for _, key := range s.Self.Behavior.FollowUps(s.Self.LastAction) {
		t, arg, ok := parseKey(key)
		if !ok {
			continue
		}
		if t == ActionAttack {
			if !e.resolver.Usable(s.Self, arg, s.Distance) {
				continue
			}
			kind, _ := e.resolver.Kind(arg)
			if s.Self.Momentum == 0 && kind.Ammo == "" {
				continue
			}
		} else if s.Self.Momentum == 0 {
			continue
		}
		out = append(out, key)
	}
	return out
}

func (e *Engine) desiredStance(s Situation) combatant.Stance {
	if lowHealth(s.Self, e.cfg.LowHealth) {
		return combatant.StanceDefensive
	}
	if st, ok := e.cfg.CounterStance[string(s.Opponent.Stance)]; ok {
		return combatant.Stance(st)
	}
	if s.Self.Behavior != nil && s.Self.Behavior.PreferredStance.Valid() {
		return s.Self.Behavior.PreferredStance
	}
	return s.Self.Stance
}

func (e *Engine) rangedReady(s Situation) bool {
	for _, k := range repertoire(e.resolver, s.Self) {
		if e.resolver.IsRanged(k) && e.resolver.Usable(s.Self, k, s.Distance) {
			return true
		}
	}
	return false
}

func (e *Engine) stanceChoice(s Situation, followUps []string) combatant.Stance {
	for _, key := range followUps {
		if t, arg, _ := parseKey(key); t == ActionStance {
			if st := combatant.Stance(arg); st.Valid() && st != s.Self.Stance {
				return st
			}
		}
	}
	want := e.desiredStance(s)
	if want != s.Self.Stance {
		return want
	}
	if s.Self.Behavior != nil && s.Self.Behavior.PreferredStance.Valid() && s.Self.Behavior.PreferredStance != s.Self.Stance {
		return s.Self.Behavior.PreferredStance
	}
	var others []combatant.Stance
	for _, st := range combatant.Stances {
		if st != s.Self.Stance {
			others = append(others, st)
		}
	}
	return others[dice.Intn(e.roll, len(others))]
}

// distanceStep moves toward the preferred distance, backs off when hurt, and
// never proposes a step past either end of the range.
func (e *Engine) distanceStep(s Situation) int {
	pref := preferredDistance(s.Self)
	switch {
	case lowHealth(s.Self, e.cfg.LowHealth) && s.Distance < combatant.Far:
		return 1
	case s.Distance > pref:
		return -1
	case s.Distance < pref, s.Distance == combatant.Grappling:
		return 1
	default:
		return -1
	}
}

// attackChoice is the secondary draw over the kinds usable at the current range.
func (e *Engine) attackChoice(s Situation, followUps []string) string {
	usable := e.resolver.UsableKinds(s.Self, repertoire(e.resolver, s.Self), s.Distance)
	if len(usable) == 0 {
		kind, _ := e.resolver.UsableKind(s.Self, e.resolver.DefaultKind(s.Self), s.Distance)
		return kind
	}
	if len(usable) == 1 {
		return usable[0]
	}
	weights := make([]float64, len(usable))
	total := 0.0
	for i, k := range usable {
		weights[i] = 10
		if e.resolver.IsRanged(k) {
			weights[i] += e.cfg.RangedReadyWeight
		}
		for _, key := range followUps {
			if key == "attack:"+k {
				weights[i] += e.cfg.ComboWeight
			}
		}
		total += weights[i]
	}
	x := e.roll.Float64() * total
	for i, w := range weights {
		if x < w {
			return usable[i]
		}
		x -= w
	}
	return usable[len(usable)-1]
}

// ChooseTarget returns the index of the living combatant with the lowest
// current health, or -1 if none are alive. Ties keep roster order.
func ChooseTarget(roster []*combatant.Combatant) int {
	best := -1
	for i, c := range roster {
		if c.IsDefeated() {
			continue
		}
		if best < 0 || c.Health < roster[best].Health {
			best = i
		}
	}
	return best
}

func repertoire(r *resolve.Resolver, c *combatant.Combatant) []string {
	if c.Behavior != nil && len(c.Behavior.Attacks) > 0 {
		return c.Behavior.Attacks
	}
	return []string{r.DefaultKind(c)}
}

func preferredDistance(c *combatant.Combatant) combatant.Distance {
	if c.Behavior == nil {
		return combatant.Close
	}
	return c.Behavior.PreferredDistance.Clamp()
}

func deviation(s Situation) int {
	d := int(s.Distance) - int(preferredDistance(s.Self))
	if d < 0 {
		return -d
	}
	return d
}

func lowHealth(c *combatant.Combatant, threshold float64) bool {
	return c.IsAlive() && c.HealthPercent() < threshold
}
