// builtin_line.go
//
// Line editing for the prelude REPL, backed by liner. The primitives use
// linenoise naming; the prelude's shi-main drives them directly.
package shi

import (
	"io"
	"os"

	"github.com/peterh/liner"
)

func (rt *Runtime) liner() *liner.State {
	if rt.line == nil {
		rt.line = liner.NewLiner()
		rt.line.SetCtrlCAborts(true)
	}
	return rt.line
}

// closeLiner restores the terminal owned by liner. Idempotent.
func (rt *Runtime) closeLiner() {
	if rt.line != nil {
		rt.line.Close()
		rt.line = nil
	}
}

// (linenoise prompt) -> line | nil on EOF/abort
func primLinenoise(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("linenoise", args.val(), 1); err != nil {
		return Nil, err
	}
	prompt := rt.arg(args.val(), 0)
	if prompt.Tag != TStr {
		return Nil, rt.errorf(ErrType, "linenoise: 1st arg not string")
	}

	line, err := rt.liner().Prompt(rt.strVal(prompt))
	if err == io.EOF || err == liner.ErrPromptAborted {
		return Nil, nil
	}
	if err != nil {
		return Nil, rt.errorf(ErrHost, "linenoise: %s", err)
	}
	return rt.makeStr(line), nil
}

// (linenoise-history-load path)
func primLinenoiseHistoryLoad(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("linenoise-history-load", args.val(), 1); err != nil {
		return Nil, err
	}
	path := rt.arg(args.val(), 0)
	if path.Tag != TStr {
		return Nil, rt.errorf(ErrType, "linenoise-history-load: 1st arg not string")
	}
	if f, err := os.Open(rt.strVal(path)); err == nil {
		rt.liner().ReadHistory(f)
		f.Close()
	}
	return Nil, nil
}

// (linenoise-history-add line)
func primLinenoiseHistoryAdd(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("linenoise-history-add", args.val(), 1); err != nil {
		return Nil, err
	}
	line := rt.arg(args.val(), 0)
	if line.Tag != TStr {
		return Nil, rt.errorf(ErrType, "linenoise-history-add: 1st arg not string")
	}
	rt.liner().AppendHistory(rt.strVal(line))
	return line, nil
}

// (linenoise-history-save path)
func primLinenoiseHistorySave(rt *Runtime, env, args handle) (Value, error) {
	if err := rt.wantArgs("linenoise-history-save", args.val(), 1); err != nil {
		return Nil, err
	}
	path := rt.arg(args.val(), 0)
	if path.Tag != TStr {
		return Nil, rt.errorf(ErrType, "linenoise-history-save: 1st arg not string")
	}
	f, err := os.Create(rt.strVal(path))
	if err != nil {
		return Nil, rt.errorf(ErrHost, "linenoise-history-save: %s", err)
	}
	defer f.Close()
	rt.liner().WriteHistory(f)
	return Nil, nil
}
