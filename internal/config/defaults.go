package config

import "github.com/spf13/viper"

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("content.combatants_dir", "content/combatants")
	v.SetDefault("content.items_dir", "content/items")
	v.SetDefault("content.scripts_dir", "content/scripts/ai")
	v.SetDefault("content.script_instruction_limit", 0)

	v.SetDefault("session.intro_delay_ms", 800)
	v.SetDefault("session.action_delay_ms", 600)
	v.SetDefault("session.counter_delay_ms", 400)
	v.SetDefault("session.max_turns", 20)
	v.SetDefault("session.require_defeat", false)
	v.SetDefault("session.enemy_targets_ally_chance", 0.3)
	v.SetDefault("session.flee_base", 0.25)
	v.SetDefault("session.flee_per_distance", 0.15)

	setCombatDefaults(v)
	setAIDefaults(v)
}

func setCombatDefaults(v *viper.Viper) {
	v.SetDefault("combat.base_hit_chance", 50.0)
	v.SetDefault("combat.min_hit_chance", 5.0)
	v.SetDefault("combat.max_hit_chance", 95.0)
	v.SetDefault("combat.skill_coefficient", 2.0)
	v.SetDefault("combat.defense_coefficient", 1.5)
	v.SetDefault("combat.melee_distance", []int{20, 0, -10, -20})
	v.SetDefault("combat.ranged_distance", []int{-20, -10, 10, 0})
	v.SetDefault("combat.stance_hit", map[string]any{
		"neutral":    map[string]any{"neutral": 0, "aggressive": 5, "defensive": -10},
		"aggressive": map[string]any{"neutral": 10, "aggressive": 15, "defensive": 0},
		"defensive":  map[string]any{"neutral": -5, "aggressive": 0, "defensive": -15},
	})
	v.SetDefault("combat.area_hit", map[string]any{"head": -20, "body": 0, "legs": -10})
	v.SetDefault("combat.area_damage", map[string]any{"head": 1.5, "body": 1.0, "legs": 0.8})
	v.SetDefault("combat.stance_damage", map[string]any{"neutral": 1.0, "aggressive": 1.3, "defensive": 0.7})
	v.SetDefault("combat.defensive_incoming", 0.7)
	v.SetDefault("combat.power_coefficient", 0.5)
	v.SetDefault("combat.defense_reduction", 0.5)
	v.SetDefault("combat.vulnerability_bonus", 15)
	v.SetDefault("combat.momentum_hit_bonus", 3)
	v.SetDefault("combat.max_momentum", 3)
	v.SetDefault("combat.natural_damage", "1d4")
	v.SetDefault("combat.default_kind", "slash")
	v.SetDefault("combat.attack_kinds", map[string]any{
		"slash":  map[string]any{"damage": 1.0, "accuracy": 1.0, "max_distance": 3},
		"stab":   map[string]any{"damage": 1.2, "accuracy": 0.9, "armor_penetration": 1, "max_distance": 3},
		"cleave": map[string]any{"damage": 1.5, "accuracy": 0.8, "max_distance": 3},
		"bash":   map[string]any{"damage": 0.9, "accuracy": 1.1, "max_distance": 3},
		"javelin": map[string]any{
			"damage": 1.1, "accuracy": 1.0, "hit_bonus": 10, "armor_penetration": 3,
			"ranged": true, "min_distance": 2, "max_distance": 3, "ammo": "javelin",
		},
		"shield_bash": map[string]any{
			"damage": 0.6, "accuracy": 1.0, "max_distance": 1, "requires_shield": true, "stun_chance": 0.5,
		},
		"shield_shove": map[string]any{
			"damage": 0.0, "accuracy": 1.0, "max_distance": 1, "requires_shield": true,
		},
	})
	v.SetDefault("combat.defensive_block_bonus", 15.0)
	v.SetDefault("combat.low_durability", 0.25)
	v.SetDefault("combat.durability_penalty", 0.3)
	v.SetDefault("combat.min_wear", 1)
	v.SetDefault("combat.max_wear", 2)
	v.SetDefault("combat.counter_base", 0.15)
	v.SetDefault("combat.counter_per_skill", 0.02)
	v.SetDefault("combat.counter_defensive", 0.1)
	v.SetDefault("combat.counter_max_chance", 0.75)
	v.SetDefault("combat.counter_hit_bonus", 20)
	v.SetDefault("combat.counter_damage", 1.5)
	v.SetDefault("combat.max_counter_chain", 4)
	v.SetDefault("combat.shove_roll_range", 20)
	v.SetDefault("combat.shove_knockdown_margin", 8)
}

func setAIDefaults(v *viper.Viper) {
	v.SetDefault("ai.distance_weight", 20.0)
	v.SetDefault("ai.stance_weight", 20.0)
	v.SetDefault("ai.attack_weight", 60.0)
	v.SetDefault("ai.deviation_weight", 15.0)
	v.SetDefault("ai.far_deviation_penalty", 20.0)
	v.SetDefault("ai.counter_stance_weight", 20.0)
	v.SetDefault("ai.ranged_ready_weight", 40.0)
	v.SetDefault("ai.low_health", 0.3)
	v.SetDefault("ai.low_health_caution", 15.0)
	v.SetDefault("ai.opponent_low_aggression", 25.0)
	v.SetDefault("ai.combo_weight", 50.0)
	v.SetDefault("ai.counter_stance", map[string]any{
		"aggressive": "defensive",
		"defensive":  "aggressive",
		"neutral":    "aggressive",
	})
}
