// Package config provides Viper-based configuration loading for the skirmish engine.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is "stderr", "stdout", or a file path. Narrative goes to stdout, so
	// the CLI keeps logs on stderr by default.
	Output string `mapstructure:"output"`
}

// ContentConfig locates the YAML and Lua content loaded at startup.
type ContentConfig struct {
	CombatantsDir string `mapstructure:"combatants_dir"`
	ItemsDir      string `mapstructure:"items_dir"`
	ScriptsDir    string `mapstructure:"scripts_dir"`
	// ScriptInstructionLimit caps Lua opcodes per hook call; 0 = scripting default.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// SessionConfig holds pacing and termination settings for a combat session.
type SessionConfig struct {
	// IntroDelayMs is the pause between session creation and the first player phase.
	IntroDelayMs int `mapstructure:"intro_delay_ms"`
	// ActionDelayMs separates an announced action from its resolution.
	ActionDelayMs int `mapstructure:"action_delay_ms"`
	// CounterDelayMs separates riposte exchanges.
	CounterDelayMs int `mapstructure:"counter_delay_ms"`
	// MaxTurns is the default turn limit; <= 0 means unlimited.
	MaxTurns      int  `mapstructure:"max_turns"`
	RequireDefeat bool `mapstructure:"require_defeat"`
	// EnemyTargetsAllyChance is the probability an enemy attacks an ally instead of the player.
	EnemyTargetsAllyChance float64 `mapstructure:"enemy_targets_ally_chance"`
	FleeBase               float64 `mapstructure:"flee_base"`
	FleePerDistance        float64 `mapstructure:"flee_per_distance"`
}

// AttackKindConfig describes the fixed multipliers and rules of one attack kind.
type AttackKindConfig struct {
	Damage           float64 `mapstructure:"damage"`
	Accuracy         float64 `mapstructure:"accuracy"`
	HitBonus         int     `mapstructure:"hit_bonus"`
	ArmorPenetration int     `mapstructure:"armor_penetration"`
	Ranged           bool    `mapstructure:"ranged"`
	MinDistance      int     `mapstructure:"min_distance"`
	MaxDistance      int     `mapstructure:"max_distance"`
	RequiresShield   bool    `mapstructure:"requires_shield"`
	Ammo             string  `mapstructure:"ammo"`
	StunChance       float64 `mapstructure:"stun_chance"`
}

// CombatConfig holds every numeric constant used by the action resolver.
type CombatConfig struct {
	BaseHitChance      float64 `mapstructure:"base_hit_chance"`
	MinHitChance       float64 `mapstructure:"min_hit_chance"`
	MaxHitChance       float64 `mapstructure:"max_hit_chance"`
	SkillCoefficient   float64 `mapstructure:"skill_coefficient"`
	DefenseCoefficient float64 `mapstructure:"defense_coefficient"`
	// MeleeDistance and RangedDistance are hit modifiers indexed by distance bucket 0..3.
	MeleeDistance  []int `mapstructure:"melee_distance"`
	RangedDistance []int `mapstructure:"ranged_distance"`
	// StanceHit maps attacker stance -> defender stance -> hit modifier.
	StanceHit map[string]map[string]int `mapstructure:"stance_hit"`
	// AreaHit and AreaDamage are keyed by target area.
	AreaHit    map[string]int     `mapstructure:"area_hit"`
	AreaDamage map[string]float64 `mapstructure:"area_damage"`
	// StanceDamage is the outgoing damage multiplier per attacker stance.
	StanceDamage map[string]float64 `mapstructure:"stance_damage"`
	// DefensiveIncoming multiplies damage taken by a defender in defensive stance.
	DefensiveIncoming  float64 `mapstructure:"defensive_incoming"`
	PowerCoefficient   float64 `mapstructure:"power_coefficient"`
	DefenseReduction   float64 `mapstructure:"defense_reduction"`
	VulnerabilityBonus int     `mapstructure:"vulnerability_bonus"`
	MomentumHitBonus   int     `mapstructure:"momentum_hit_bonus"`
	MaxMomentum        int     `mapstructure:"max_momentum"`
	NaturalDamage      string  `mapstructure:"natural_damage"`

	AttackKinds map[string]AttackKindConfig `mapstructure:"attack_kinds"`
	DefaultKind string                      `mapstructure:"default_kind"`

	DefensiveBlockBonus float64 `mapstructure:"defensive_block_bonus"`

	// LowDurability is the condition ratio below which items lose effectiveness.
	LowDurability     float64 `mapstructure:"low_durability"`
	DurabilityPenalty float64 `mapstructure:"durability_penalty"`
	MinWear           int     `mapstructure:"min_wear"`
	MaxWear           int     `mapstructure:"max_wear"`

	CounterBase          float64 `mapstructure:"counter_base"`
	CounterPerSkill      float64 `mapstructure:"counter_per_skill"`
	CounterDefensive     float64 `mapstructure:"counter_defensive"`
	CounterMaxChance     float64 `mapstructure:"counter_max_chance"`
	CounterHitBonus      int     `mapstructure:"counter_hit_bonus"`
	CounterDamage        float64 `mapstructure:"counter_damage"`
	MaxCounterChain      int     `mapstructure:"max_counter_chain"`
	ShoveRollRange       int     `mapstructure:"shove_roll_range"`
	ShoveKnockdownMargin int     `mapstructure:"shove_knockdown_margin"`
}

// AIConfig holds the weights used by the AI decision engine.
type AIConfig struct {
	DistanceWeight        float64 `mapstructure:"distance_weight"`
	StanceWeight          float64 `mapstructure:"stance_weight"`
	AttackWeight          float64 `mapstructure:"attack_weight"`
	DeviationWeight       float64 `mapstructure:"deviation_weight"`
	FarDeviationPenalty   float64 `mapstructure:"far_deviation_penalty"`
	CounterStanceWeight   float64 `mapstructure:"counter_stance_weight"`
	RangedReadyWeight     float64 `mapstructure:"ranged_ready_weight"`
	LowHealth             float64 `mapstructure:"low_health"`
	LowHealthCaution      float64 `mapstructure:"low_health_caution"`
	OpponentLowAggression float64 `mapstructure:"opponent_low_aggression"`
	ComboWeight           float64 `mapstructure:"combo_weight"`
	// CounterStance maps the opponent's stance to the preferred response stance.
	CounterStance map[string]string `mapstructure:"counter_stance"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Content ContentConfig `mapstructure:"content"`
	Session SessionConfig `mapstructure:"session"`
	Combat  CombatConfig  `mapstructure:"combat"`
	AI      AIConfig      `mapstructure:"ai"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSession(c.Session); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateCombat(c.Combat); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateAI(c.AI); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateSession(s SessionConfig) error {
	var errs []string
	if s.IntroDelayMs < 0 || s.ActionDelayMs < 0 || s.CounterDelayMs < 0 {
		errs = append(errs, "session delays must not be negative")
	}
	if s.EnemyTargetsAllyChance < 0 || s.EnemyTargetsAllyChance > 1 {
		errs = append(errs, fmt.Sprintf("session.enemy_targets_ally_chance must be in [0,1], got %v", s.EnemyTargetsAllyChance))
	}
	if s.FleeBase < 0 || s.FleePerDistance < 0 {
		errs = append(errs, "session flee constants must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateCombat(c CombatConfig) error {
	var errs []string
	if c.MinHitChance < 0 || c.MaxHitChance > 100 || c.MinHitChance > c.MaxHitChance {
		errs = append(errs, fmt.Sprintf("combat hit clamp [%v,%v] must lie within [0,100]", c.MinHitChance, c.MaxHitChance))
	}
	if len(c.MeleeDistance) != 4 {
		errs = append(errs, fmt.Sprintf("combat.melee_distance must have 4 entries, got %d", len(c.MeleeDistance)))
	}
	if len(c.RangedDistance) != 4 {
		errs = append(errs, fmt.Sprintf("combat.ranged_distance must have 4 entries, got %d", len(c.RangedDistance)))
	}
	if len(c.AttackKinds) == 0 {
		errs = append(errs, "combat.attack_kinds must not be empty")
	}
	if k, ok := c.AttackKinds[c.DefaultKind]; !ok {
		errs = append(errs, fmt.Sprintf("combat.default_kind %q is not a configured attack kind", c.DefaultKind))
	} else if k.Ranged || k.Ammo != "" || k.RequiresShield || k.MinDistance != 0 || k.MaxDistance != 3 {
		errs = append(errs, fmt.Sprintf("combat.default_kind %q must be a melee kind usable at every distance without ammo or shield", c.DefaultKind))
	}
	for name, k := range c.AttackKinds {
		if k.MinDistance < 0 || k.MaxDistance > 3 || k.MinDistance > k.MaxDistance {
			errs = append(errs, fmt.Sprintf("combat.attack_kinds.%s distance range [%d,%d] is invalid", name, k.MinDistance, k.MaxDistance))
		}
	}
	if c.MaxCounterChain < 1 {
		errs = append(errs, fmt.Sprintf("combat.max_counter_chain must be >= 1, got %d", c.MaxCounterChain))
	}
	if c.MinWear < 0 || c.MinWear > c.MaxWear {
		errs = append(errs, fmt.Sprintf("combat wear range [%d,%d] is invalid", c.MinWear, c.MaxWear))
	}
	if c.LowDurability <= 0 || c.LowDurability > 1 {
		errs = append(errs, fmt.Sprintf("combat.low_durability must be in (0,1], got %v", c.LowDurability))
	}
	if c.NaturalDamage == "" {
		errs = append(errs, "combat.natural_damage must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateAI(a AIConfig) error {
	if a.DistanceWeight < 0 || a.StanceWeight < 0 || a.AttackWeight < 0 {
		return errors.New("ai base weights must not be negative")
	}
	if a.DistanceWeight+a.StanceWeight+a.AttackWeight <= 0 {
		return errors.New("ai base weights must not all be zero")
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with SKIRMISH_ prefix
	v.SetEnvPrefix("SKIRMISH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns the built-in configuration with no file or environment applied.
//
// Postcondition: Returns a Config that passes Validate.
func Defaults() Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := LoadFromViper(v)
	if err != nil {
		panic("config: built-in defaults are invalid: " + err.Error())
	}
	return cfg
}
