package reward_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/combatant"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/reward"
	"github.com/cory-johannsen/skirmish/internal/testutil"
)

func validLootTable() combatant.LootTable {
	return combatant.LootTable{
		Currency: &combatant.CurrencyDrop{Min: 10, Max: 20},
		Items: []combatant.ItemDrop{
			{ItemID: "sword", Chance: 0.5, MinQty: 1, MaxQty: 1},
			{ItemID: "javelin", Chance: 1.0, MinQty: 1, MaxQty: 3},
		},
	}
}

func TestGenerateLoot_ScriptedRolls(t *testing.T) {
	// currency, sword chance (fails), javelin chance, javelin quantity
	src := testutil.NewScriptedSource(0.0, 0.7, 0.1, 0.99)
	res := reward.GenerateLoot(validLootTable(), src)

	testutil.AssertDrained(t, src)
	assert.Equal(t, 10, res.Currency)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "javelin", res.Items[0].ItemDefID)
	assert.Equal(t, 3, res.Items[0].Quantity)
	_, err := uuid.Parse(res.Items[0].InstanceID)
	assert.NoError(t, err)
}

func TestGenerateLoot_NoCurrency(t *testing.T) {
	lt := combatant.LootTable{Items: []combatant.ItemDrop{
		{ItemID: "sword", Chance: 1.0, MinQty: 1, MaxQty: 1},
	}}
	res := reward.GenerateLoot(lt, testutil.ConstSource(0.5))
	assert.Equal(t, 0, res.Currency)
	assert.Len(t, res.Items, 1)
}

func TestGenerateLoot_UniqueInstances(t *testing.T) {
	lt := combatant.LootTable{Items: []combatant.ItemDrop{
		{ItemID: "a", Chance: 1.0, MinQty: 1, MaxQty: 1},
		{ItemID: "b", Chance: 1.0, MinQty: 1, MaxQty: 1},
	}}
	res := reward.GenerateLoot(lt, testutil.ConstSource(0.5))
	require.Len(t, res.Items, 2)
	assert.NotEqual(t, res.Items[0].InstanceID, res.Items[1].InstanceID)
}

func TestProperty_GenerateLootWithinBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		lo := rapid.IntRange(0, 50).Draw(rt, "min")
		hi := rapid.IntRange(lo, lo+50).Draw(rt, "max")
		qlo := rapid.IntRange(1, 5).Draw(rt, "min_qty")
		qhi := rapid.IntRange(qlo, qlo+5).Draw(rt, "max_qty")
		lt := combatant.LootTable{
			Currency: &combatant.CurrencyDrop{Min: lo, Max: hi},
			Items:    []combatant.ItemDrop{{ItemID: "x", Chance: 1.0, MinQty: qlo, MaxQty: qhi}},
		}
		res := reward.GenerateLoot(lt, dice.NewSeededSource(rapid.Int64().Draw(rt, "seed")))
		if hi > 0 && (res.Currency < lo || res.Currency > hi) {
			rt.Fatalf("currency %d outside [%d, %d]", res.Currency, lo, hi)
		}
		if len(res.Items) != 1 {
			rt.Fatalf("guaranteed item missing")
		}
		if q := res.Items[0].Quantity; q < qlo || q > qhi {
			rt.Fatalf("quantity %d outside [%d, %d]", q, qlo, qhi)
		}
	})
}
