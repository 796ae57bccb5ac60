package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/game/dice"
)

// Manager owns one sandboxed LState holding every loaded hook and serializes
// calls into it. Each call gets its own instruction budget.
type Manager struct {
	mu     sync.Mutex
	L      *lua.LState
	limit  int
	roller *dice.Roller
	logger *zap.Logger
}

// NewManager creates a Manager with an empty VM.
//
// Precondition: roller must be non-nil; a nil logger is replaced by a no-op logger.
// Postcondition: The engine module is registered.
func NewManager(roller *dice.Roller, logger *zap.Logger, instLimit int) *Manager {
	if roller == nil {
		panic("scripting.NewManager: roller must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		L:      NewSandboxedState(instLimit),
		limit:  instLimit,
		roller: roller,
		logger: logger.Named("scripting"),
	}
	m.RegisterModules(m.L)
	return m
}

// LoadDir executes every *.lua file in dir in lexicographic order.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns an error naming the first file that failed to load.
func (m *Manager) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, path := range files {
		cancel := ArmLimit(m.L, m.limit)
		err := m.L.DoFile(path)
		cancel()
		if err != nil {
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}
	m.logger.Debug("scripts loaded", zap.String("dir", dir), zap.Int("files", len(files)))
	return nil
}

// LoadString executes src under name.
func (m *Manager) LoadString(name, src string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cancel := ArmLimit(m.L, m.limit)
	defer cancel()
	if err := m.L.DoString(src); err != nil {
		return fmt.Errorf("scripting: loading %q: %w", name, err)
	}
	return nil
}

// HasHook reports whether a global function named hook is defined.
func (m *Manager) HasHook(hook string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.L.GetGlobal(hook).(*lua.LFunction)
	return ok
}

// CallHook calls the named Lua global function. Returns (LNil, nil) if the
// hook is not defined. Lua runtime errors, including an exhausted instruction
// budget, are logged at Warn level and never propagated.
//
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.call(hook, args...), nil
}

func (m *Manager) call(hook string, args ...lua.LValue) lua.LValue {
	fn, ok := m.L.GetGlobal(hook).(*lua.LFunction)
	if !ok {
		return lua.LNil
	}
	cancel := ArmLimit(m.L, m.limit)
	defer cancel()
	if err := m.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
		m.logger.Warn("lua runtime error", zap.String("hook", hook), zap.Error(err))
		return lua.LNil
	}
	ret := m.L.Get(-1)
	m.L.Pop(1)
	return ret
}

// CallTableHook passes fields to hook as a Lua table and returns the numeric
// entries of the table it returns. A missing hook, a runtime error or a
// non-table result all yield a nil map.
//
// Supported field values: string, bool, int, float64, []string and nested map[string]any.
func (m *Manager) CallTableHook(hook string, fields map[string]any) map[string]float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	ret := m.call(hook, m.toTable(fields))
	tbl, ok := ret.(*lua.LTable)
	if !ok {
		if ret != lua.LNil {
			m.logger.Warn("hook returned a non-table", zap.String("hook", hook), zap.String("type", ret.Type().String()))
		}
		return nil
	}
	out := make(map[string]float64)
	tbl.ForEach(func(k, v lua.LValue) {
		key, kok := k.(lua.LString)
		num, nok := v.(lua.LNumber)
		if kok && nok {
			out[string(key)] = float64(num)
		}
	})
	return out
}

func (m *Manager) toTable(fields map[string]any) *lua.LTable {
	t := m.L.NewTable()
	for k, v := range fields {
		t.RawSetString(k, m.toValue(v))
	}
	return t
}

func (m *Manager) toValue(v any) lua.LValue {
	switch x := v.(type) {
	case string:
		return lua.LString(x)
	case bool:
		return lua.LBool(x)
	case int:
		return lua.LNumber(x)
	case float64:
		return lua.LNumber(x)
	case []string:
		arr := m.L.NewTable()
		for _, s := range x {
			arr.Append(lua.LString(s))
		}
		return arr
	case map[string]any:
		return m.toTable(x)
	default:
		return lua.LNil
	}
}

// Close releases the VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.L.Close()
}
