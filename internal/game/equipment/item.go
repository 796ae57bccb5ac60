// Package equipment supplies the weapon, shield and armor state that the
// combat resolver reads and wears down.
package equipment

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// Slot is where an item is carried.
type Slot string

const (
	SlotWeapon Slot = "weapon"
	SlotShield Slot = "shield"
	SlotArmor  Slot = "armor"
)

// Def is the static catalog entry for an item.
type Def struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Slot Slot   `yaml:"slot"`
	// Damage is a dice expression; weapons only.
	Damage string `yaml:"damage"`
	// Accuracy is added to the wielder's hit chance; weapons only.
	Accuracy int `yaml:"accuracy"`
	// BlockChance is the percent chance to negate an attack; shields only.
	BlockChance float64 `yaml:"block_chance"`
	// Defense is added to the wearer's mitigation; armor and shields.
	Defense    int `yaml:"defense"`
	Durability int `yaml:"durability"`
}

// Validate reports every problem with the definition.
//
// Postcondition: Returns nil iff the def is well-formed.
func (d *Def) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	switch d.Slot {
	case SlotWeapon:
		if _, err := dice.Parse(d.Damage); err != nil {
			errs = append(errs, fmt.Errorf("damage: %w", err))
		}
	case SlotShield:
		if d.BlockChance < 0 || d.BlockChance > 100 {
			errs = append(errs, fmt.Errorf("block_chance must be in [0, 100], got %v", d.BlockChance))
		}
	case SlotArmor:
	default:
		errs = append(errs, fmt.Errorf("unknown slot %q", d.Slot))
	}
	if d.Defense < 0 {
		errs = append(errs, fmt.Errorf("defense must be >= 0, got %d", d.Defense))
	}
	if d.Durability < 1 {
		errs = append(errs, fmt.Errorf("durability must be >= 1, got %d", d.Durability))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("item %q: %w", d.ID, err)
	}
	return nil
}

// Item is a carried instance of a Def with its own durability.
type Item struct {
	Def        *Def
	Durability int
}

// NewItem returns a pristine instance of def.
//
// Precondition: def must be non-nil and valid.
func NewItem(def *Def) *Item {
	return &Item{Def: def, Durability: def.Durability}
}

// Broken reports whether durability is exhausted.
func (i *Item) Broken() bool { return i.Durability <= 0 }

// Condition returns current durability as a fraction of maximum, in [0, 1].
func (i *Item) Condition() float64 {
	return float64(max(i.Durability, 0)) / float64(i.Def.Durability)
}

type catalogFile struct {
	Items []*Def `yaml:"items"`
}

// LoadCatalog reads every *.yaml file in dir and returns the item definitions.
// Each file holds a top-level "items" list.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all definitions or the first read, parse or validate error.
func LoadCatalog(dir string) ([]*Def, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading item dir %q: %w", dir, err)
	}
	var defs []*Def
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var f catalogFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		for _, d := range f.Items {
			if err := d.Validate(); err != nil {
				return nil, fmt.Errorf("loading %q: %w", path, err)
			}
		}
		defs = append(defs, f.Items...)
	}
	return defs, nil
}
