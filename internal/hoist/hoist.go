package hoist

import (
	"errors"
	"fmt"

	"regen/internal/ast"
)

// ErrUnsupported is returned for shapes the hoister cannot rewrite.
var ErrUnsupported = errors.New("hoist: unsupported")

// Hoister implements declaration hoisting over an ast.Tree.
type Hoister struct{}

// Hoist implements the collaborator interface of the lowering pass.
func (Hoister) Hoist(t *ast.Tree, fn ast.NodeID) (ast.NodeID, error) {
	return Hoist(t, fn)
}

type hoister struct {
	tree   *ast.Tree
	params map[string]struct{}
	seen   map[string]struct{}
	names  []string
}

// Hoist rewrites the body of fn in place and returns a `var a, b;`
// statement naming every hoisted declaration, or ast.NoNodeID when there
// is nothing to hoist.
func Hoist(t *ast.Tree, fn ast.NodeID) (ast.NodeID, error) {
	data, ok := t.Function(fn)
	if !ok {
		return ast.NoNodeID, fmt.Errorf("%w: %s is not a function", ErrUnsupported, t.Kind(fn))
	}
	body, ok := t.Block(data.Body)
	if !ok || data.Expression {
		return ast.NoNodeID, fmt.Errorf("%w: function body is not a block", ErrUnsupported)
	}

	h := &hoister{
		tree:   t,
		params: make(map[string]struct{}),
		seen:   make(map[string]struct{}),
	}
	for _, p := range data.Params {
		for _, name := range t.PatternNames(p) {
			h.params[name] = struct{}{}
		}
	}
	body.Body = h.list(body.Body)

	if len(h.names) == 0 {
		return ast.NoNodeID, nil
	}
	decls := make([]ast.NodeID, 0, len(h.names))
	for _, name := range h.names {
		decls = append(decls, t.NewDeclarator(t.NewIdent(name), ast.NoNodeID))
	}
	return t.NewVarDecl(ast.VarVar, decls...), nil
}

func (h *hoister) declare(names ...string) {
	for _, name := range names {
		if _, ok := h.params[name]; ok {
			continue
		}
		if _, ok := h.seen[name]; ok {
			continue
		}
		h.seen[name] = struct{}{}
		h.names = append(h.names, name)
	}
}

// list rewrites a statement list. Hoisted function assignments go first,
// emptied var statements are dropped.
func (h *hoister) list(stmts []ast.NodeID) []ast.NodeID {
	var funcs, rest []ast.NodeID
	for _, id := range stmts {
		switch h.tree.Kind(id) {
		case ast.NodeFuncDecl:
			funcs = append(funcs, h.function(id))
		case ast.NodeVarDecl:
			if repl := h.varDecl(id); repl.IsValid() {
				rest = append(rest, repl)
			}
		default:
			h.stmt(id)
			rest = append(rest, id)
		}
	}
	return append(funcs, rest...)
}

// slot rewrites a single-statement position such as an if branch.
func (h *hoister) slot(p *ast.NodeID) {
	switch h.tree.Kind(*p) {
	case ast.NodeFuncDecl:
		*p = h.function(*p)
	case ast.NodeVarDecl:
		if repl := h.varDecl(*p); repl.IsValid() {
			*p = repl
		} else {
			*p = h.tree.Position(h.tree.NewEmpty(), *p)
		}
	default:
		h.stmt(*p)
	}
}

func (h *hoister) stmt(id ast.NodeID) {
	t := h.tree
	switch t.Kind(id) {
	case ast.NodeBlock:
		b, _ := t.Block(id)
		b.Body = h.list(b.Body)
	case ast.NodeIf:
		d, _ := t.If(id)
		h.slot(&d.Cons)
		if d.Alt.IsValid() {
			h.slot(&d.Alt)
		}
	case ast.NodeFor:
		d, _ := t.For(id)
		if t.Kind(d.Init) == ast.NodeVarDecl {
			if v, _ := t.VarDecl(d.Init); v.Kind == ast.VarVar {
				d.Init = h.assignments(v)
			}
		}
		h.slot(&d.Body)
	case ast.NodeForIn, ast.NodeForOf:
		d, _ := t.ForEach(id)
		if v, ok := t.VarDecl(d.Left); ok && v.Kind == ast.VarVar && len(v.Decls) == 1 {
			if dd, ok := t.Declarator(v.Decls[0]); ok {
				h.declare(t.PatternNames(dd.ID)...)
				d.Left = dd.ID
			}
		}
		h.slot(&d.Body)
	case ast.NodeWhile, ast.NodeDoWhile:
		d, _ := t.While(id)
		h.slot(&d.Body)
	case ast.NodeLabeled:
		d, _ := t.Labeled(id)
		h.slot(&d.Body)
	case ast.NodeTry:
		d, _ := t.Try(id)
		h.stmt(d.Block)
		if c, ok := t.Catch(d.Handler); ok {
			h.stmt(c.Body)
		}
		if d.Finalizer.IsValid() {
			h.stmt(d.Finalizer)
		}
	case ast.NodeSwitch:
		d, _ := t.Switch(id)
		for _, cid := range d.Cases {
			if c, ok := t.Case(cid); ok {
				c.Cons = h.list(c.Cons)
			}
		}
	}
	// выражения не содержат объявлений var вне вложенных функций
}

// varDecl turns a var statement into an expression statement holding its
// initializers, or returns NoNodeID when nothing is left. let and const
// stay in place.
func (h *hoister) varDecl(id ast.NodeID) ast.NodeID {
	t := h.tree
	v, _ := t.VarDecl(id)
	if v.Kind != ast.VarVar {
		return id
	}
	expr := h.assignments(v)
	if !expr.IsValid() {
		return ast.NoNodeID
	}
	n := *t.Get(id)
	n.Kind = ast.NodeExprStmt
	n.Data = &ast.ExprStmtData{Expr: expr}
	t.Replace(id, n)
	return id
}

// assignments declares every name of v and returns the initializers as an
// assignment or a sequence of assignments.
func (h *hoister) assignments(v *ast.VarDeclData) ast.NodeID {
	t := h.tree
	var exprs []ast.NodeID
	for _, decl := range v.Decls {
		dd, ok := t.Declarator(decl)
		if !ok {
			continue
		}
		h.declare(t.PatternNames(dd.ID)...)
		if dd.Init.IsValid() {
			exprs = append(exprs, t.Position(t.NewAssign("=", dd.ID, dd.Init), decl))
		}
	}
	switch len(exprs) {
	case 0:
		return ast.NoNodeID
	case 1:
		return exprs[0]
	default:
		return t.NewSequence(exprs...)
	}
}

// function turns a function declaration into `name = function name() {}`.
// The function node itself keeps its ID and becomes an expression.
func (h *hoister) function(id ast.NodeID) ast.NodeID {
	t := h.tree
	fn, _ := t.Function(id)
	name := t.Name(fn.ID)
	h.declare(name)

	n := *t.Get(id)
	comments := n.Comments
	n.Kind = ast.NodeFuncExpr
	n.Comments = nil
	t.Replace(id, n)

	stmt := t.NewExprStmt(t.NewAssign("=", t.NewIdent(name), id))
	t.Position(stmt, id)
	t.Get(stmt).Comments = comments
	return stmt
}
