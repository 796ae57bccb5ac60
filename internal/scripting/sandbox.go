// Package scripting runs AI weight hooks in a sandboxed GopherLua VM.
// It has no dependency on game domain packages; hooks exchange plain tables.
package scripting

import (
	"context"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit is the opcode budget of one hook call when the
// configuration leaves it at zero.
const DefaultInstructionLimit = 100_000

// safeLibs are the only standard libraries a hook can reach.
var safeLibs = []lua.LGFunction{lua.OpenBase, lua.OpenTable, lua.OpenString, lua.OpenMath}

// blockedGlobals are base-library functions that load code or touch the host.
var blockedGlobals = []string{"dofile", "loadfile", "load", "collectgarbage", "require"}

// opcodeBudget is a context that cancels itself once Done has been polled
// left times. GopherLua polls Done once per opcode.
type opcodeBudget struct {
	context.Context
	cancel context.CancelFunc
	left   int
}

func (b *opcodeBudget) Done() <-chan struct{} {
	b.left--
	if b.left <= 0 {
		b.cancel()
	}
	return b.Context.Done()
}

// ArmLimit gives L a fresh budget of limit opcodes; limit <= 0 uses
// DefaultInstructionLimit.
//
// Precondition: L is not shared between goroutines while the budget is armed.
// Postcondition: The returned func releases the budget's context.
func ArmLimit(L *lua.LState, limit int) context.CancelFunc {
	if limit <= 0 {
		limit = DefaultInstructionLimit
	}
	ctx, cancel := context.WithCancel(context.Background())
	L.SetContext(&opcodeBudget{Context: ctx, cancel: cancel, left: limit})
	return cancel
}

// NewSandboxedState returns an LState with only safeLibs opened, every
// blockedGlobals entry cleared, and a budget of instLimit opcodes armed.
//
// Postcondition: The caller owns the LState and must Close it.
func NewSandboxedState(instLimit int) *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, open := range safeLibs {
		open(L)
	}
	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	ArmLimit(L, instLimit)
	return L
}
