package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM hosting chat command scripts.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// CommandContext is what a Lua command handler can see and do. Every
// callback runs inside the game loop, so handlers may touch world state
// freely through them.
type CommandContext struct {
	Caller string // character name of the player running the command

	Reply    func(text string) // error-channel line to the caller only
	Announce func(text string) // server-channel broadcast to everyone
	Warp     func(mapID uint64)
	Online   func() []string
}

// NewEngine creates a Lua VM and loads every .lua file in scriptsDir.
// A missing directory is fine; the engine then knows no commands.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	// Scripts register handlers into this table, keyed by command name
	// without the slash: commands.roll = function(ctx, args) ... end
	vm.SetGlobal("commands", vm.NewTable())

	e := &Engine{vm: vm, log: log}
	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, err
	}
	return e, nil
}

func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

func (e *Engine) Close() {
	e.vm.Close()
}

// HandleCommand looks up a scripted handler for the command name and runs it.
// Returns false when no script claims the command so built-in commands and
// normal chat routing can take over.
func (e *Engine) HandleCommand(ctx CommandContext, name, args string) bool {
	commands, ok := e.vm.GetGlobal("commands").(*lua.LTable)
	if !ok {
		return false
	}
	fn := commands.RawGetString(name)
	if fn == lua.LNil {
		return false
	}

	err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, e.contextTable(ctx), lua.LString(args))
	if err != nil {
		e.log.Error("command script failed",
			zap.String("command", name),
			zap.Error(err),
		)
		if ctx.Reply != nil {
			ctx.Reply(fmt.Sprintf("Command /%s failed.", name))
		}
	}
	return true
}

func (e *Engine) contextTable(ctx CommandContext) *lua.LTable {
	t := e.vm.NewTable()
	t.RawSetString("caller", lua.LString(ctx.Caller))

	t.RawSetString("reply", e.vm.NewFunction(func(L *lua.LState) int {
		if ctx.Reply != nil {
			ctx.Reply(L.CheckString(1))
		}
		return 0
	}))
	t.RawSetString("announce", e.vm.NewFunction(func(L *lua.LState) int {
		if ctx.Announce != nil {
			ctx.Announce(L.CheckString(1))
		}
		return 0
	}))
	t.RawSetString("warp", e.vm.NewFunction(func(L *lua.LState) int {
		if ctx.Warp != nil {
			ctx.Warp(uint64(L.CheckNumber(1)))
		}
		return 0
	}))
	t.RawSetString("online", e.vm.NewFunction(func(L *lua.LState) int {
		names := e.vm.NewTable()
		if ctx.Online != nil {
			for _, name := range ctx.Online() {
				names.Append(lua.LString(name))
			}
		}
		L.Push(names)
		return 1
	}))
	return t
}
