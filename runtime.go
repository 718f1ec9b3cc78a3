// runtime.go
//
// Runtime construction and the public evaluation surface. A Runtime owns
// every process-wide structure (heap, symbol list, primitive table,
// watcher list) as one context value, so multiple interpreter instances
// can coexist.
//
// Fatal conditions raised by the allocator and collector (memory
// exhaustion, collector invariants) travel as a *FatalError panic and are
// converted back to an error exactly once, at this public boundary. Rescue
// overflow is a *FatalError returned as an ordinary error, and recoverable
// errors are ordinary error returns all the way down.
package shi

import (
	"math/rand"
	"time"

	"github.com/peterh/liner"
	"golang.org/x/term"
)

// Version of the interpreter.
const Version = "0.1.0"

type Runtime struct {
	// Heap (heap.go, gc.go).
	heap      []node
	from      []node
	used      int
	capacity  int
	gcRunning bool
	debugGC   bool
	alwaysGC  bool

	// Roots.
	symbols Value // interned symbol list head
	roots   []Value

	// Global environment, held as a permanent root slot.
	global handle

	prims       []primDef
	gensymCount int
	rescueDepth int

	loop *evLoop
	rng  *rand.Rand
	log  *logger

	termState *term.State
	line      *liner.State

	historyFile string
}

// NewRuntime returns a fully-initialized interpreter: constants and
// primitives bound in a fresh global environment, *args* populated from
// argv, prelude not yet loaded (see Boot).
func NewRuntime(cfg Config, argv []string) *Runtime {
	rt := &Runtime{
		capacity:    cfg.HeapSize,
		debugGC:     cfg.DebugGC,
		alwaysGC:    cfg.AlwaysGC,
		symbols:     Nil,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		log:         newLogger(cfg.DebugGC),
		historyFile: cfg.HistoryFile,
	}
	rt.loop = newEvLoop(rt)

	// The global environment lives in a permanent frame that is never
	// popped.
	perm := rt.newFrame()
	rt.global = perm.slot(Nil)
	rt.global.set(rt.makeObj(Nil))

	// Well-known symbols are interned up front so hot-path intern calls
	// never allocate.
	for _, s := range []string{"*env*", "*object-name*", "quote", "quasiquote",
		"unquote", "unquote-splicing", "unbox", "do", "list", "cons", ":"} {
		rt.intern(s)
	}

	rt.defineConstants()
	rt.definePrimitives()
	rt.defineArgs(argv)
	return rt
}

func (rt *Runtime) defineConstants() {
	f := rt.newFrame()
	defer f.end()
	sym := f.slot(Nil)
	val := f.slot(Nil)

	bind := func(name string, v Value) {
		// Root the value before intern, which may allocate.
		val.set(v)
		sym.set(rt.intern(name))
		_ = rt.envSet(rt.global.val(), sym.val(), val.val())
	}

	bind("t", True)
	bind("nil", Nil)
	bind("*system-version*", rt.makeStr(Version))
	bind("*history-file*", rt.makeStr(rt.historyFile))

	// Net
	bind("PF_INET", Int(pfInet))
	bind("SOCK_STREAM", Int(sockStream))

	// Ev
	bind("EV_STAT", Int(EvStat))
	bind("EV_READ", Int(EvRead))
	bind("EV_WRITE", Int(EvWrite))
	bind("EV_TIMER", Int(EvTimer))
	bind("EV_SIGNAL", Int(EvSignal))
}

// defineArgs binds *args* to the host argv as a list of strings.
func (rt *Runtime) defineArgs(argv []string) {
	f := rt.newFrame()
	defer f.end()
	sym := f.slot(rt.intern("*args*"))
	list := f.slot(Nil)
	for i := len(argv) - 1; i >= 0; i-- {
		list.set(rt.cons(rt.makeStr(argv[i]), list.val()))
	}
	_ = rt.envSet(rt.global.val(), sym.val(), list.val())
}

func (rt *Runtime) definePrimitives() {
	env := rt.global.val()

	// Special forms: raw, unevaluated arguments.
	rt.addPrimitive(env, "quote", true, primQuote)
	rt.addPrimitive(env, "if", true, primIf)
	rt.addPrimitive(env, "do", true, primDo)
	rt.addPrimitive(env, "while", true, primWhile)
	rt.addPrimitive(env, "def", true, primDefForm)
	rt.addPrimitive(env, "def-global", true, primDefGlobal)
	rt.addPrimitive(env, "set", true, primSet)
	rt.addPrimitive(env, "fn", true, primFnForm)
	rt.addPrimitive(env, "macro", true, primMacro)

	// Language
	rt.addPrimitive(env, "eq?", false, primEq)
	rt.addPrimitive(env, "apply", false, primApply)
	rt.addPrimitive(env, "type", false, primType)
	rt.addPrimitive(env, "eval", false, primEval)
	rt.addPrimitive(env, "read-sexp", false, primReadSexp)
	rt.addPrimitive(env, "sym", false, primSym)

	// Macro
	rt.addPrimitive(env, "gensym", false, primGensym)
	rt.addPrimitive(env, "macro-expand", false, primMacroExpand)

	// Object
	rt.addPrimitive(env, "obj", false, primObj)
	rt.addPrimitive(env, "obj-get", false, primObjGet)
	rt.addPrimitive(env, "obj-set", false, primObjSet)
	rt.addPrimitive(env, "obj-del", false, primObjDel)
	rt.addPrimitive(env, "obj-proto", false, primObjProto)
	rt.addPrimitive(env, "obj-proto-set!", false, primObjProtoSet)
	rt.addPrimitive(env, "obj->alist", false, primObjToAlist)
	rt.addPrimitive(env, ":", false, primObjFind)

	// Lists
	rt.addPrimitive(env, "cons", false, primCons)
	rt.addPrimitive(env, "car", false, primCar)
	rt.addPrimitive(env, "cdr", false, primCdr)
	rt.addPrimitive(env, "set-car!", false, primSetCar)

	// Strings
	rt.addPrimitive(env, "str", false, primStr)
	rt.addPrimitive(env, "str-len", false, primStrLen)
	rt.addPrimitive(env, "pr-str", false, primPrStr)

	// Math
	rt.addPrimitive(env, "+", false, primPlus)
	rt.addPrimitive(env, "-", false, primMinus)
	rt.addPrimitive(env, "<", false, primLt)
	rt.addPrimitive(env, "=", false, primNumEq)
	rt.addPrimitive(env, "rand", false, primRand)

	// Error
	rt.addPrimitive(env, "error", false, primError)
	rt.addPrimitive(env, "trap-error", false, primTrapError)

	// OS
	rt.addPrimitive(env, "write", false, primWrite)
	rt.addPrimitive(env, "read", false, primRead)
	rt.addPrimitive(env, "open", false, primOpen)
	rt.addPrimitive(env, "close", false, primClose)
	rt.addPrimitive(env, "isatty", false, primIsatty)
	rt.addPrimitive(env, "getenv", false, primGetenv)
	rt.addPrimitive(env, "seconds", false, primSeconds)
	rt.addPrimitive(env, "sleep", false, primSleep)
	rt.addPrimitive(env, "exit", false, primExit)

	// Net
	rt.addPrimitive(env, "socket", false, primSocket)
	rt.addPrimitive(env, "bind-inet", false, primBindInet)
	rt.addPrimitive(env, "listen", false, primListen)
	rt.addPrimitive(env, "accept", false, primAccept)

	// Ev
	rt.addPrimitive(env, "ev-start", false, primEvStart)
	rt.addPrimitive(env, "ev-stop", false, primEvStop)

	// Term
	rt.addPrimitive(env, "term-raw", false, primTermRaw)

	// Line editing
	rt.addPrimitive(env, "linenoise", false, primLinenoise)
	rt.addPrimitive(env, "linenoise-history-load", false, primLinenoiseHistoryLoad)
	rt.addPrimitive(env, "linenoise-history-add", false, primLinenoiseHistoryAdd)
	rt.addPrimitive(env, "linenoise-history-save", false, primLinenoiseHistorySave)
}

// EvalString reads src in full (wrapping multiple expressions in a do) and
// evaluates it in the global environment.
func (rt *Runtime) EvalString(src string) (v Value, err error) {
	defer rt.recoverFatal(&err)
	form, err := rt.readSexp(src)
	if err != nil {
		return Nil, err
	}
	f := rt.newFrame()
	defer f.end()
	expr := f.slot(form)
	return rt.eval(rt.global.val(), expr.val())
}

// PrStr renders a value with the printer.
func (rt *Runtime) PrStr(v Value) string { return rt.prStr(v) }

// Intern exposes symbol interning to hosts.
func (rt *Runtime) Intern(name string) Value { return rt.intern(name) }

// Boot evaluates the embedded prelude and runs (shi-main) inside the event
// loop, so startup code sees a working loop.
func (rt *Runtime) Boot() (err error) {
	defer rt.recoverFatal(&err)
	defer rt.closeLiner()
	defer rt.restoreTerm()

	return rt.loop.run(func() error {
		if _, err := rt.EvalString(preludeSource); err != nil {
			return err
		}
		return rt.callMain()
	})
}

func (rt *Runtime) callMain() error {
	f := rt.newFrame()
	defer f.end()
	call := f.slot(rt.cons(rt.intern("shi-main"), Nil))
	_, err := rt.eval(rt.global.val(), call.val())
	return err
}

// recoverFatal converts the single controlled *FatalError panic into an
// error at the public boundary. Anything else keeps crashing.
func (rt *Runtime) recoverFatal(err *error) {
	if r := recover(); r != nil {
		if fe, ok := r.(*FatalError); ok {
			*err = fe
			return
		}
		panic(r)
	}
}
