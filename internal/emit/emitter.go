package emit

import (
	"errors"
	"fmt"
	"strconv"

	"regen/internal/ast"
)

var (
	// ErrUnsupported is returned for statements the emitter cannot split
	// across cases.
	ErrUnsupported = errors.New("emit: unsupported")
	// ErrYieldContext marks a yield inside an expression the emitter cannot
	// split. It wraps ErrUnsupported.
	ErrYieldContext = fmt.Errorf("%w yield context", ErrUnsupported)
)

// Runtime names the helpers the emitted code calls.
type Runtime struct {
	Object string // wrapGenerator
	Keys   string // keys
}

type locRef struct {
	lit *ast.LiteralData
	to  *loc
}

type tryInfo struct {
	entry *leapEntry
}

// Emitter accumulates the case listing of one generator function.
type Emitter struct {
	tree *ast.Tree
	ctx  string
	rt   Runtime

	listing  []ast.NodeID
	marked   map[int]bool
	refs     []locRef
	tries    []tryInfo
	temps    int
	leaps    leapManager
	finalLoc *loc
}

// New creates an emitter whose context parameter is named ctxName.
func New(t *ast.Tree, ctxName string, rt Runtime) *Emitter {
	return &Emitter{
		tree:     t,
		ctx:      ctxName,
		rt:       rt,
		marked:   map[int]bool{0: true},
		finalLoc: newLoc(),
	}
}

// Explode linearizes every statement of body. body must be a Block.
func (e *Emitter) Explode(body ast.NodeID) error {
	b, ok := e.tree.Block(body)
	if !ok {
		return e.unsupported(body, "function body is not a block")
	}
	for _, stmt := range b.Body {
		if err := e.explodeStatement(stmt, ""); err != nil {
			return err
		}
	}
	return nil
}

// InnerFunction builds the state-machine function named name.
func (e *Emitter) InnerFunction(name string) ast.NodeID {
	t := e.tree
	var cases []ast.NodeID
	var cur *ast.CaseData
	ended := false
	for i, stmt := range e.listing {
		if e.marked[i] {
			c := t.NewCase(t.NewNumber(float64(i)))
			cur, _ = t.Case(c)
			cases = append(cases, c)
			ended = false
		}
		if ended {
			continue
		}
		cur.Cons = append(cur.Cons, stmt)
		if isCaseEnder(t, stmt) {
			ended = true
		}
	}
	e.finalLoc.value = len(e.listing)
	cases = append(cases,
		t.NewCase(e.locRef(e.finalLoc)),
		t.NewCase(t.NewString("end"), t.NewReturn(t.NewCall(e.contextProperty("stop")))),
	)
	e.resolve()

	head := t.NewAssign("=", e.contextProperty("prev"), e.contextProperty("next"))
	loop := t.NewWhile(t.NewNumber(1), t.NewSwitch(head, cases...))
	return t.NewFuncExpr(name, []ast.NodeID{t.NewIdent(e.ctx)}, t.NewBlock(loop))
}

// TryEntries returns the try table as an array literal of
// [tryLoc, catchLoc, finallyLoc, afterLoc] rows, or NoNodeID.
func (e *Emitter) TryEntries() ast.NodeID {
	if len(e.tries) == 0 {
		return ast.NoNodeID
	}
	t := e.tree
	rows := make([]ast.NodeID, 0, len(e.tries))
	for _, ti := range e.tries {
		catchLoc, finLoc := t.NewNull(), t.NewNull()
		if ce := ti.entry.catchEntry; ce != nil {
			catchLoc = e.locRef(ce.firstLoc)
		}
		if fe := ti.entry.finEntry; fe != nil {
			finLoc = e.locRef(fe.firstLoc)
		}
		rows = append(rows, t.NewArray(e.locRef(ti.entry.firstLoc), catchLoc, finLoc, e.locRef(ti.entry.afterLoc)))
	}
	e.resolve()
	return t.NewArray(rows...)
}

func newLoc() *loc {
	return &loc{value: -1}
}

// mark binds l to the current end of the listing and starts a new case.
func (e *Emitter) mark(l *loc) *loc {
	l.value = len(e.listing)
	e.marked[l.value] = true
	return l
}

// locRef creates a numeric literal that will hold l's final value.
func (e *Emitter) locRef(l *loc) ast.NodeID {
	id := e.tree.NewNumber(float64(l.value))
	lit, _ := e.tree.Literal(id)
	e.refs = append(e.refs, locRef{lit: lit, to: l})
	return id
}

func (e *Emitter) resolve() {
	for _, r := range e.refs {
		r.lit.Number = float64(r.to.value)
	}
}

func (e *Emitter) emit(stmt ast.NodeID) {
	if !isStatementKind(e.tree.Kind(stmt)) {
		stmt = e.tree.NewExprStmt(stmt)
	}
	e.listing = append(e.listing, stmt)
}

func (e *Emitter) emitAssign(lhs, rhs ast.NodeID) {
	e.emit(e.tree.NewAssign("=", lhs, rhs))
}

// contextProperty builds `$ctx.name`; `catch` is a keyword in old engines
// and is spelled `$ctx["catch"]`.
func (e *Emitter) contextProperty(name string) ast.NodeID {
	t := e.tree
	if name == "catch" {
		return t.NewIndex(t.NewIdent(e.ctx), t.NewString(name))
	}
	return t.NewMember(t.NewIdent(e.ctx), name)
}

// makeTemp reserves a new context temporary and returns its index.
func (e *Emitter) makeTemp() int {
	n := e.temps
	e.temps++
	return n
}

func tempName(n int) string {
	return "t" + strconv.Itoa(n)
}

// tempRef builds a fresh reference to temporary n.
func (e *Emitter) tempRef(n int) ast.NodeID {
	return e.contextProperty(tempName(n))
}

// isTempRef reports whether id is `$ctx.tN`.
func (e *Emitter) isTempRef(id ast.NodeID) bool {
	m, ok := e.tree.Member(id)
	if !ok || m.Computed || e.tree.Name(m.Object) != e.ctx {
		return false
	}
	name := e.tree.Name(m.Property)
	if len(name) < 2 || name[0] != 't' {
		return false
	}
	_, err := strconv.Atoi(name[1:])
	return err == nil
}

func (e *Emitter) jump(to *loc) {
	e.emitAssign(e.contextProperty("next"), e.locRef(to))
	e.emit(e.tree.NewBreak(""))
}

func (e *Emitter) jumpIf(test ast.NodeID, to *loc) {
	t := e.tree
	body := t.NewBlock(
		t.NewExprStmt(t.NewAssign("=", e.contextProperty("next"), e.locRef(to))),
		t.NewBreak(""),
	)
	e.emit(t.NewIf(test, body, ast.NoNodeID))
}

func (e *Emitter) jumpIfNot(test ast.NodeID, to *loc) {
	t := e.tree
	var negated ast.NodeID
	if u, ok := t.Unary(test); ok && u.Op == "!" {
		negated = u.Arg
	} else {
		negated = t.NewUnary("!", test)
	}
	e.jumpIf(negated, to)
}

// abrupt emits `return $ctx.abrupt(kind[, arg])`.
func (e *Emitter) abrupt(kind string, arg ast.NodeID) {
	t := e.tree
	args := []ast.NodeID{t.NewString(kind)}
	if arg.IsValid() {
		args = append(args, arg)
	}
	e.emit(t.NewReturn(t.NewCall(e.contextProperty("abrupt"), args...)))
}

// updatePrev records the current location in $ctx.prev. A nil l stands for
// the current, unmarked position.
func (e *Emitter) updatePrev(l *loc) *loc {
	if l == nil {
		l = newLoc()
	}
	if l.value == -1 {
		l.value = len(e.listing)
	}
	e.emitAssign(e.contextProperty("prev"), e.locRef(l))
	return l
}

func (e *Emitter) unsupported(id ast.NodeID, format string, args ...any) error {
	n := e.tree.Get(id)
	msg := fmt.Sprintf(format, args...)
	if n == nil {
		return fmt.Errorf("%w: %s", ErrUnsupported, msg)
	}
	return fmt.Errorf("%w: %s at %s", ErrUnsupported, msg, n.Loc)
}

func (e *Emitter) unsupportedExpr(id ast.NodeID, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if n := e.tree.Get(id); n != nil {
		return fmt.Errorf("%w: %s at %s", ErrYieldContext, msg, n.Loc)
	}
	return fmt.Errorf("%w: %s", ErrYieldContext, msg)
}

func isStatementKind(k ast.NodeKind) bool {
	switch k {
	case ast.NodeBlock, ast.NodeEmpty, ast.NodeExprStmt, ast.NodeVarDecl, ast.NodeReturn, ast.NodeIf,
		ast.NodeFor, ast.NodeForIn, ast.NodeForOf, ast.NodeWhile, ast.NodeDoWhile, ast.NodeLabeled,
		ast.NodeBreak, ast.NodeContinue, ast.NodeThrow, ast.NodeTry, ast.NodeSwitch, ast.NodeFuncDecl,
		ast.NodeClassDecl:
		return true
	}
	return false
}
