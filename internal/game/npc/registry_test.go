package npc_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/combatant"
	"github.com/cory-johannsen/skirmish/internal/game/npc"
)

const skirmisherYAML = `
id: skirmisher
name: Hill Skirmisher
max_health: 18
power: 3
defense: 1
counter_skill: 2
natural_damage: 1d4+1
skills:
  melee: 2
  marksmanship: 4
stance: neutral
distance: 2
ammo:
  javelin: 3
loadout:
  weapon: hand_axe
behavior:
  preferred_stance: aggressive
  preferred_distance: 2
  attacks: [slash, javelin]
  default_attack: slash
  combos:
    - after: attack:javelin
      next: attack:javelin
  ai_hook: skirmisher_weights
reward:
  experience: 25
  loot:
    currency: {min: 2, max: 6}
    items:
      - item: javelin
        chance: 0.5
        min_qty: 1
        max_qty: 2
`

func loadSkirmisher(t *testing.T) *npc.Template {
	t.Helper()
	tmpl, err := npc.LoadTemplateFromBytes([]byte(skirmisherYAML))
	require.NoError(t, err)
	return tmpl
}

func TestLoadTemplateFromBytes(t *testing.T) {
	tmpl := loadSkirmisher(t)
	assert.Equal(t, "Hill Skirmisher", tmpl.Name)
	assert.Equal(t, combatant.Medium, tmpl.Distance)
	assert.Equal(t, 3, tmpl.Ammo["javelin"])
	require.NotNil(t, tmpl.Behavior)
	assert.Equal(t, combatant.StanceAggressive, tmpl.Behavior.PreferredStance)
	assert.Equal(t, []string{"slash", "javelin"}, tmpl.Behavior.Attacks)
	assert.Equal(t, "skirmisher_weights", tmpl.Behavior.Hook)
	assert.Equal(t, 25, tmpl.Reward.Experience)
	assert.Equal(t, 6, tmpl.Reward.Loot.Currency.Max)
}

func TestTemplate_ValidateCollectsViolations(t *testing.T) {
	_, err := npc.LoadTemplateFromBytes([]byte(`
id: broken
max_health: 0
stance: evasive
distance: 7
natural_damage: lots
ammo: {arrow: -1}
behavior:
  preferred_stance: sneaky
  combos:
    - after: attack:slash
reward:
  experience: -5
`))
	require.Error(t, err)
	for _, want := range []string{"name", "max_health", "stance", "distance", "natural_damage", "arrow", "preferred_stance", "combo[0]", "experience"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestTemplate_MissingID(t *testing.T) {
	_, err := npc.LoadTemplateFromBytes([]byte("name: Nobody\nmax_health: 3\n"))
	assert.Error(t, err)
}

func TestLoadTemplateFromBytes_BadYAML(t *testing.T) {
	_, err := npc.LoadTemplateFromBytes([]byte("id: [unterminated"))
	assert.Error(t, err)
}

func TestRegistry_LoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skirmisher.yaml"), []byte(skirmisherYAML), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("skip me"), 0644))

	r := npc.NewRegistry(zap.NewNop())
	require.NoError(t, r.LoadDir(dir))
	assert.Equal(t, []string{"skirmisher"}, r.IDs())
	assert.Error(t, r.LoadDir(dir), "duplicate IDs are rejected")
}

func TestRegistry_LoadDir_Missing(t *testing.T) {
	assert.Error(t, npc.NewRegistry(nil).LoadDir("/nonexistent/combatants"))
}

func TestSpawn_CopiesTemplate(t *testing.T) {
	r := npc.NewRegistry(zap.NewNop())
	require.NoError(t, r.Register(loadSkirmisher(t)))

	c := r.Spawn("skirmisher", combatant.KindEnemy)
	assert.Equal(t, "skirmisher", c.TemplateID)
	assert.Equal(t, 18, c.Health)
	assert.Equal(t, combatant.Medium, c.Distance)
	assert.Equal(t, combatant.AmmoPool{Current: 3, Max: 3}, c.Ammo["javelin"])
	assert.Equal(t, "1d4+1", c.NaturalDamage)
	assert.Equal(t, "hand_axe", c.Loadout.Weapon)
	assert.Equal(t, 4, c.Skills.Marksmanship)
	require.NotNil(t, c.Reward)
	assert.Equal(t, 25, c.Reward.Experience)
}

func TestSpawn_InstancesNeverAliasTemplate(t *testing.T) {
	r := npc.NewRegistry(zap.NewNop())
	tmpl := loadSkirmisher(t)
	require.NoError(t, r.Register(tmpl))

	a := r.Spawn("skirmisher", combatant.KindEnemy)
	b := r.Spawn("skirmisher", combatant.KindEnemy)
	assert.NotEqual(t, a.ID, b.ID)

	a.SpendAmmo("javelin")
	a.Behavior.Attacks[0] = "cleave"
	a.Behavior.Combos[0].Next = "attack:stab"
	a.Reward.Loot.Items[0].Chance = 1
	a.Reward.Loot.Currency.Min = 0

	assert.Equal(t, 3, b.Ammo["javelin"].Current)
	assert.Equal(t, 3, tmpl.Ammo["javelin"])
	assert.Equal(t, "slash", tmpl.Behavior.Attacks[0])
	assert.Equal(t, "attack:javelin", tmpl.Behavior.Combos[0].Next)
	assert.Equal(t, 0.5, tmpl.Reward.Loot.Items[0].Chance)
	assert.Equal(t, 2, b.Reward.Loot.Currency.Min)
}

func TestSpawn_PlayerHasNoBehaviorOrReward(t *testing.T) {
	r := npc.NewRegistry(zap.NewNop())
	require.NoError(t, r.Register(loadSkirmisher(t)))
	p := r.Spawn("skirmisher", combatant.KindPlayer)
	assert.Nil(t, p.Behavior)
	assert.Nil(t, p.Reward)
	assert.Equal(t, combatant.KindPlayer, p.Kind)
}

func TestSpawn_UnknownFallsBackToDefault(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	r := npc.NewRegistry(zap.New(core))

	e := r.Spawn("dragon", combatant.KindEnemy)
	assert.Equal(t, "Brigand", e.Name)
	assert.Equal(t, "default", e.TemplateID)
	assert.Equal(t, 20, e.MaxHealth)
	require.NotNil(t, e.Behavior)
	assert.Equal(t, combatant.StanceNeutral, e.Behavior.PreferredStance)

	a := r.Spawn("knight", combatant.KindAlly)
	assert.Equal(t, "Militiaman", a.Name)
	assert.Equal(t, 2, logs.Len())
}

func TestSpawn_NoBehaviorBlockUsesStartingPosture(t *testing.T) {
	r := npc.NewRegistry(zap.NewNop())
	require.NoError(t, r.Register(&npc.Template{
		ID: "archer", Name: "Archer", MaxHealth: 10,
		Stance: combatant.StanceDefensive, Distance: combatant.Far,
	}))
	c := r.Spawn("archer", combatant.KindEnemy)
	assert.Equal(t, combatant.StanceDefensive, c.Behavior.PreferredStance)
	assert.Equal(t, combatant.Far, c.Behavior.PreferredDistance)
	assert.Equal(t, "1d4", c.NaturalDamage)
}

func TestProperty_SpawnStartsAtFullHealth(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tmpl := &npc.Template{
			ID:        "prop",
			Name:      "Prop",
			MaxHealth: rapid.IntRange(1, 500).Draw(rt, "hp"),
			Distance:  combatant.Distance(rapid.IntRange(0, 3).Draw(rt, "dist")),
		}
		if err := tmpl.Validate(); err != nil {
			rt.Fatal(err)
		}
		c := npc.Instantiate(tmpl, combatant.KindEnemy)
		if c.Health != tmpl.MaxHealth || c.Distance != tmpl.Distance {
			rt.Fatalf("spawned %d/%d at %v from template %d at %v", c.Health, c.MaxHealth, c.Distance, tmpl.MaxHealth, tmpl.Distance)
		}
	})
}
