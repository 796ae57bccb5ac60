package combatant

import "slices"

// Combo declares that the action keyed After is often followed by Next.
// Keys take the form "attack:<kind>", "stance:<stance>" or "distance:<closer|away>".
type Combo struct {
	After string `yaml:"after"`
	Next  string `yaml:"next"`
}

// Behavior carries the attractors and repertoire an AI-controlled unit decides with.
type Behavior struct {
	PreferredStance   Stance   `yaml:"preferred_stance"`
	PreferredDistance Distance `yaml:"preferred_distance"`
	// Attacks is the unit's attack repertoire; empty means the configured default kind only.
	Attacks []string `yaml:"attacks"`
	// DefaultAttack is the fallback kind when nothing in Attacks is usable.
	DefaultAttack string  `yaml:"default_attack"`
	Combos        []Combo `yaml:"combos"`
	// Hook names a Lua function that adjusts decision weights; empty disables it.
	Hook string `yaml:"ai_hook"`
}

// FollowUps returns the action keys declared to follow last.
func (b *Behavior) FollowUps(last string) []string {
	if b == nil || last == "" {
		return nil
	}
	var out []string
	for _, c := range b.Combos {
		if c.After == last && !slices.Contains(out, c.Next) {
			out = append(out, c.Next)
		}
	}
	return out
}

// Clone returns a deep copy of b.
func (b *Behavior) Clone() *Behavior {
	if b == nil {
		return nil
	}
	c := *b
	c.Attacks = slices.Clone(b.Attacks)
	c.Combos = slices.Clone(b.Combos)
	return &c
}

// Loadout names the catalog items a combatant starts the battle with.
type Loadout struct {
	Weapon string `yaml:"weapon"`
	Shield string `yaml:"shield"`
	Armor  string `yaml:"armor"`
}
