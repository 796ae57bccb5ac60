package reward

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/combatant"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// Summary is the settled result of one battle.
type Summary struct {
	SessionID  string
	Outcome    combat.Outcome
	Experience int
	Currency   int
	Items      []LootItem
	// Relationships maps an ally's template ID to its standing change.
	Relationships map[string]int
}

// String renders s as a short multi-line report.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Outcome: %s\n", s.Outcome)
	fmt.Fprintf(&b, "Experience: %d\n", s.Experience)
	fmt.Fprintf(&b, "Currency: %d\n", s.Currency)
	for _, it := range s.Items {
		fmt.Fprintf(&b, "Item: %s x%d (%s)\n", it.ItemDefID, it.Quantity, it.InstanceID)
	}
	ids := make([]string, 0, len(s.Relationships))
	for id := range s.Relationships {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(&b, "Relationship %s: %+d\n", id, s.Relationships[id])
	}
	return b.String()
}

// Resolver is the default combat.RewardResolver. It is safe for concurrent use.
type Resolver struct {
	mu        sync.Mutex
	src       dice.Source
	logger    *zap.Logger
	summaries []Summary
}

// NewResolver creates a Resolver drawing loot rolls from src.
//
// Precondition: src must be non-nil.
func NewResolver(src dice.Source, logger *zap.Logger) *Resolver {
	if src == nil {
		panic("reward.NewResolver: src must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{src: src, logger: logger.Named("reward")}
}

// Resolve implements combat.RewardResolver.
//
// A victory pays full experience and loot for every defeated enemy; a draw or
// retreat pays half the experience and no loot; a defeat pays nothing.
// Surviving allies gain their relationship value and fallen allies lose it,
// whatever the outcome.
func (r *Resolver) Resolve(s combat.Settlement) {
	sum := Summary{
		SessionID:     s.SessionID,
		Outcome:       s.Outcome,
		Relationships: make(map[string]int),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range s.Enemies {
		if e.IsAlive() || e.Reward == nil {
			continue
		}
		switch s.Outcome {
		case combat.Victory:
			sum.Experience += e.Reward.Experience
			if e.Reward.Loot != nil {
				loot := GenerateLoot(*e.Reward.Loot, r.src)
				sum.Currency += loot.Currency
				sum.Items = append(sum.Items, loot.Items...)
			}
		case combat.Draw, combat.Retreat:
			sum.Experience += e.Reward.Experience / 2
		}
	}

	for _, a := range s.Allies {
		if a.Reward == nil || a.Reward.Relationship == 0 {
			continue
		}
		delta := a.Reward.Relationship
		if a.IsDefeated() {
			delta = -delta
		}
		sum.Relationships[allyKey(a)] += delta
	}

	r.logger.Info("battle settled",
		zap.String("session", s.SessionID),
		zap.Stringer("outcome", s.Outcome),
		zap.Int("experience", sum.Experience),
		zap.Int("currency", sum.Currency),
		zap.Int("items", len(sum.Items)),
	)
	r.summaries = append(r.summaries, sum)
}

// Summaries returns every settlement recorded so far, oldest first.
func (r *Resolver) Summaries() []Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Summary(nil), r.summaries...)
}

// Last returns the most recent settlement.
func (r *Resolver) Last() (Summary, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.summaries) == 0 {
		return Summary{}, false
	}
	return r.summaries[len(r.summaries)-1], true
}

func allyKey(c *combatant.Combatant) string {
	if c.TemplateID != "" {
		return c.TemplateID
	}
	return c.Name
}
