package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// RegisterModules installs the engine table into L:
//
//	engine.roll(expr)  -> total of a dice expression, or nil on a bad expression
//	engine.chance(p)   -> true with probability p
//	engine.log(msg)    -> debug log line tagged with the script
//
// Precondition: L must be from NewSandboxedState.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetField(engine, "roll", L.NewFunction(m.luaRoll))
	L.SetField(engine, "chance", L.NewFunction(m.luaChance))
	L.SetField(engine, "log", L.NewFunction(m.luaLog))
	L.SetGlobal("engine", engine)
}

func (m *Manager) luaRoll(L *lua.LState) int {
	expr, err := dice.Parse(L.CheckString(1))
	if err != nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(m.roller.Roll(expr).Total()))
	return 1
}

func (m *Manager) luaChance(L *lua.LState) int {
	p := float64(L.CheckNumber(1))
	L.Push(lua.LBool(m.roller.Chance("script", p)))
	return 1
}

func (m *Manager) luaLog(L *lua.LState) int {
	m.logger.Debug("script", zap.String("msg", L.CheckString(1)))
	return 0
}
