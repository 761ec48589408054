// Package lower rewrites generator functions and for-of loops into plain
// control flow driven by a runtime helper object.
//
// A Pass walks the tree once in postorder. Loops and nested generators are
// lowered before the function that contains them, so the emitter only ever
// sees constructs it understands. Each generator becomes an outer function
// that returns `wrapGenerator(inner, outer, this[, tryEntries])`, and its
// declaration form is re-bound as `var f = wrapGenerator.mark(function f()
// {...})` at the top of the enclosing block.
package lower
