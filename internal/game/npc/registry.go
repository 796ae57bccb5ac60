package npc

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/combatant"
)

// Registry indexes templates by ID and spawns instances from them.
// It is read-only after loading and safe for concurrent Spawn calls.
type Registry struct {
	templates map[string]*Template
	logger    *zap.Logger
}

// NewRegistry returns an empty Registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{templates: make(map[string]*Template), logger: logger}
}

// Register adds t to the registry.
//
// Precondition: t must have passed Validate.
// Postcondition: Returns an error if t.ID is already registered.
func (r *Registry) Register(t *Template) error {
	if _, exists := r.templates[t.ID]; exists {
		return fmt.Errorf("npc.Registry: template %q already registered", t.ID)
	}
	r.templates[t.ID] = t
	return nil
}

// LoadDir loads and registers every template in dir.
func (r *Registry) LoadDir(dir string) error {
	templates, err := LoadTemplates(dir)
	if err != nil {
		return err
	}
	for _, t := range templates {
		if err := r.Register(t); err != nil {
			return err
		}
	}
	r.logger.Debug("templates loaded", zap.String("dir", dir), zap.Int("count", len(templates)))
	return nil
}

// Template returns the template registered under id.
func (r *Registry) Template(id string) (*Template, bool) {
	t, ok := r.templates[id]
	return t, ok
}

// IDs returns every registered template ID in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.templates))
	for id := range r.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Spawn instantiates the template id as a combatant of the given kind.
// An unknown id yields a minimal default combatant and a warning, never an error.
//
// Postcondition: The result shares no mutable state with the template.
func (r *Registry) Spawn(id string, kind combatant.Kind) *combatant.Combatant {
	t, ok := r.templates[id]
	if !ok {
		r.logger.Warn("unknown combatant template, using default",
			zap.String("template", id),
			zap.String("kind", kind.String()),
		)
		t = DefaultTemplate(kind)
	}
	return Instantiate(t, kind)
}

// DefaultTemplate is the fallback archetype for an unknown template ID.
func DefaultTemplate(kind combatant.Kind) *Template {
	name := "Brigand"
	switch kind {
	case combatant.KindAlly:
		name = "Militiaman"
	case combatant.KindPlayer:
		name = "Wanderer"
	}
	return &Template{
		ID:        "default",
		Name:      name,
		MaxHealth: 20,
		Power:     2,
		Skills:    combatant.Skills{Melee: 2, Command: 2},
		Distance:  combatant.Close,
	}
}

// Instantiate builds a fresh combatant of kind from t, deep-copying every
// template collection.
func Instantiate(t *Template, kind combatant.Kind) *combatant.Combatant {
	c := combatant.New(kind, t.Name, t.MaxHealth)
	c.TemplateID = t.ID
	c.Power = t.Power
	c.Defense = t.Defense
	c.Accuracy = t.Accuracy
	c.CounterSkill = t.CounterSkill
	c.Skills = t.Skills
	if t.NaturalDamage != "" {
		c.NaturalDamage = t.NaturalDamage
	}
	c.Distance = t.Distance.Clamp()
	if t.Stance.Valid() {
		c.Stance = t.Stance
	}
	for ammo, n := range t.Ammo {
		c.Ammo[ammo] = combatant.AmmoPool{Current: n, Max: n}
	}
	c.Loadout = t.Loadout

	if kind == combatant.KindPlayer {
		return c
	}
	if t.Behavior != nil {
		c.Behavior = t.Behavior.Clone()
	} else {
		c.Behavior = &combatant.Behavior{PreferredStance: c.Stance, PreferredDistance: c.Distance}
	}
	if !c.Behavior.PreferredStance.Valid() {
		c.Behavior.PreferredStance = combatant.StanceNeutral
	}
	if t.Reward != nil {
		c.Reward = t.Reward.Clone()
	}
	return c
}
