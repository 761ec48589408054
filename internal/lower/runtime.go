package lower

import (
	"regen/internal/ast"
	"regen/internal/emit"
	"regen/internal/hoist"
)

// Runtime names the helper object and its members used by lowered code.
type Runtime struct {
	Object string
	Mark   string
	Values string
	Next   string
	Keys   string
}

// DefaultRuntime matches the regenerator runtime.
func DefaultRuntime() Runtime {
	return Runtime{
		Object: "wrapGenerator",
		Mark:   "mark",
		Values: "values",
		Next:   "next",
		Keys:   "keys",
	}
}

// withDefaults fills empty names from DefaultRuntime.
func (r Runtime) withDefaults() Runtime {
	def := DefaultRuntime()
	if r.Object == "" {
		r.Object = def.Object
	}
	if r.Mark == "" {
		r.Mark = def.Mark
	}
	if r.Values == "" {
		r.Values = def.Values
	}
	if r.Next == "" {
		r.Next = def.Next
	}
	if r.Keys == "" {
		r.Keys = def.Keys
	}
	return r
}

// Hoister lifts function-scoped declarations of fn into one var statement.
type Hoister interface {
	Hoist(t *ast.Tree, fn ast.NodeID) (ast.NodeID, error)
}

// Emitter linearizes one generator body.
type Emitter interface {
	Explode(body ast.NodeID) error
	InnerFunction(name string) ast.NodeID
	TryEntries() ast.NodeID
}

// EmitterFactory creates an Emitter for one generator function.
type EmitterFactory func(t *ast.Tree, ctxName string, rt Runtime) Emitter

// StateMachineEmitter is the default EmitterFactory.
func StateMachineEmitter(t *ast.Tree, ctxName string, rt Runtime) Emitter {
	return emit.New(t, ctxName, emit.Runtime{Object: rt.Object, Keys: rt.Keys})
}

var defaultHoister Hoister = hoist.Hoister{}
