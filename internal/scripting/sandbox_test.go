package scripting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/scripting"
)

func TestSandbox_HostAccessRemoved(t *testing.T) {
	L := scripting.NewSandboxedState(0)
	defer L.Close()
	for _, name := range []string{"os", "io", "debug", "dofile", "loadfile", "load", "require", "collectgarbage"} {
		assert.Equal(t, lua.LNil, L.GetGlobal(name), name)
	}
}

func TestSandbox_HookLibrariesUsable(t *testing.T) {
	L := scripting.NewSandboxedState(0)
	defer L.Close()
	require.NoError(t, L.DoString(`
		local kinds = {"slash", "javelin"}
		table.insert(kinds, "stab")
		assert(#kinds == 3)
		assert(math.floor(2.7) == 2)
		assert(string.format("%d", 4) == "4")
		for i, k in ipairs(kinds) do assert(type(k) == "string") end
	`))
}

func TestSandbox_RunawayHookStopped(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		limit := rapid.IntRange(1, 200).Draw(rt, "limit")
		L := scripting.NewSandboxedState(limit)
		defer L.Close()
		if err := L.DoString(`while true do end`); err == nil {
			rt.Fatalf("limit %d did not stop an endless loop", limit)
		}
	})
}

func TestArmLimit_FreshBudgetAfterExhaustion(t *testing.T) {
	L := scripting.NewSandboxedState(25)
	defer L.Close()
	require.Error(t, L.DoString(`while true do end`))

	cancel := scripting.ArmLimit(L, 25)
	defer cancel()
	assert.NoError(t, L.DoString(`local damage = 3 * 2`))
}
