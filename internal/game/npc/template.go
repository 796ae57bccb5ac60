// Package npc loads combatant templates from YAML and spawns battle-ready
// instances from them.
package npc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/skirmish/internal/game/combatant"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// Template defines a reusable combatant archetype loaded from YAML.
type Template struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	MaxHealth    int    `yaml:"max_health"`
	Power        int    `yaml:"power"`
	Defense      int    `yaml:"defense"`
	Accuracy     int    `yaml:"accuracy"`
	CounterSkill int    `yaml:"counter_skill"`
	// NaturalDamage is the unarmed dice expression; empty uses the configured default.
	NaturalDamage string           `yaml:"natural_damage"`
	Skills        combatant.Skills `yaml:"skills"`
	// Stance and Distance are the starting posture; Distance is measured from the player.
	Stance   combatant.Stance   `yaml:"stance"`
	Distance combatant.Distance `yaml:"distance"`
	// Ammo maps ammunition kind to the starting count, which is also the maximum.
	Ammo     map[string]int      `yaml:"ammo"`
	Loadout  combatant.Loadout   `yaml:"loadout"`
	Behavior *combatant.Behavior `yaml:"behavior"`
	Reward   *combatant.Reward   `yaml:"reward"`
}

// Validate checks every template invariant.
//
// Postcondition: Returns nil iff the template is well-formed; otherwise the
// error lists every violation.
func (t *Template) Validate() error {
	var errs []error
	if t.ID == "" {
		return errors.New("npc template: id must not be empty")
	}
	if t.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if t.MaxHealth < 1 {
		errs = append(errs, fmt.Errorf("max_health must be >= 1, got %d", t.MaxHealth))
	}
	if t.Stance != "" && !t.Stance.Valid() {
		errs = append(errs, fmt.Errorf("unknown stance %q", t.Stance))
	}
	if t.Distance < combatant.Grappling || t.Distance > combatant.Far {
		errs = append(errs, fmt.Errorf("distance must be in [0, 3], got %d", t.Distance))
	}
	if t.NaturalDamage != "" {
		if _, err := dice.Parse(t.NaturalDamage); err != nil {
			errs = append(errs, fmt.Errorf("natural_damage: %w", err))
		}
	}
	for kind, n := range t.Ammo {
		if n < 0 {
			errs = append(errs, fmt.Errorf("ammo %q must be >= 0, got %d", kind, n))
		}
	}
	if b := t.Behavior; b != nil {
		if b.PreferredStance != "" && !b.PreferredStance.Valid() {
			errs = append(errs, fmt.Errorf("behavior: unknown preferred_stance %q", b.PreferredStance))
		}
		if b.PreferredDistance < combatant.Grappling || b.PreferredDistance > combatant.Far {
			errs = append(errs, fmt.Errorf("behavior: preferred_distance must be in [0, 3], got %d", b.PreferredDistance))
		}
		for i, c := range b.Combos {
			if c.After == "" || c.Next == "" {
				errs = append(errs, fmt.Errorf("behavior: combo[%d] needs both after and next", i))
			}
		}
	}
	if t.Reward != nil {
		if err := t.Reward.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("npc template %q: %w", t.ID, err)
	}
	return nil
}

// LoadTemplateFromBytes parses a single template from raw YAML bytes.
//
// Postcondition: Returns a validated *Template, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or
// validate failure; on error, the partial result is discarded.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading combatant dir %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}
