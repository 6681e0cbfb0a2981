package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func newTestEngine(t *testing.T, script string) *Engine {
	t.Helper()
	dir := t.TempDir()
	if script != "" {
		if err := os.WriteFile(filepath.Join(dir, "commands.lua"), []byte(script), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestHandleCommandRunsScript(t *testing.T) {
	e := newTestEngine(t, `
commands.greet = function(ctx, args)
    ctx.reply("hello " .. ctx.caller .. args)
end
`)

	var got string
	handled := e.HandleCommand(CommandContext{
		Caller: "alice",
		Reply:  func(text string) { got = text },
	}, "greet", "!")

	if !handled {
		t.Fatal("scripted command not handled")
	}
	if got != "hello alice!" {
		t.Fatalf("reply = %q", got)
	}
}

func TestHandleCommandUnknownFallsThrough(t *testing.T) {
	e := newTestEngine(t, `commands.known = function(ctx, args) end`)

	if e.HandleCommand(CommandContext{}, "unknown", "") {
		t.Fatal("unknown command claimed as handled")
	}
	if !e.HandleCommand(CommandContext{}, "known", "") {
		t.Fatal("known command not handled")
	}
}

func TestHandleCommandScriptErrorReplies(t *testing.T) {
	e := newTestEngine(t, `
commands.broken = function(ctx, args)
    error("oops")
end
`)

	var got string
	handled := e.HandleCommand(CommandContext{
		Reply: func(text string) { got = text },
	}, "broken", "")

	if !handled {
		t.Fatal("failing command not claimed")
	}
	if got == "" {
		t.Fatal("no failure reply sent")
	}
}

func TestMissingScriptsDir(t *testing.T) {
	e, err := NewEngine(filepath.Join(t.TempDir(), "nope"), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	if e.HandleCommand(CommandContext{}, "anything", "") {
		t.Fatal("empty engine handled a command")
	}
}
