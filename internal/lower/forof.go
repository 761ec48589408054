package lower

import (
	"go.uber.org/zap"

	"regen/internal/ast"
	"regen/internal/emit"
)

// lowerForOf rewrites `for (x of xs) body` into
//
//	for (var x, t1 = <Object>.<Values>(xs), t2; !(t2 = t1.<Next>()).done;) {
//	  x = t2.value;
//	  body
//	}
//
// The node keeps its ID and becomes a NodeFor. A let or const target stays
// block-scoped (const becomes let) unless the loop sits in a generator and
// contains a leap; the state machine cannot split a lexical for head, so
// such targets become var.
func (p *Pass) lowerForOf(id ast.NodeID) error {
	t := p.tree
	d, ok := t.ForEach(id)
	if !ok || !d.Right.IsValid() || !d.Body.IsValid() || !d.Left.IsValid() {
		return p.fail(id, ErrMissingChild, "incomplete for-of statement")
	}

	var (
		name   string
		target ast.NodeID // identifier assigned in the body
		decl   *ast.VarDeclData
	)
	if v, ok := t.VarDecl(d.Left); ok {
		if len(v.Decls) != 1 {
			return p.fail(d.Left, ErrUnsupportedTarget, "for-of declaration with %d declarators", len(v.Decls))
		}
		dd, _ := t.Declarator(v.Decls[0])
		if dd == nil || t.Kind(dd.ID) != ast.NodeIdent {
			return p.fail(d.Left, ErrUnsupportedTarget, "destructuring for-of target")
		}
		decl = v
		name = t.Name(dd.ID)
		target = t.Position(t.NewIdent(name), dd.ID)
	} else {
		if t.Kind(d.Left) != ast.NodeIdent {
			return p.fail(d.Left, ErrUnsupportedTarget, "for-of target %s", t.Kind(d.Left))
		}
		name = t.Name(d.Left)
		target = d.Left
	}

	// решаем до переписывания узла
	split := p.inGenerator() && emit.ContainsLeap(t, id)

	scope := p.scope()
	if scope == nil {
		return p.fail(id, ErrMissingChild, "for-of outside any scope")
	}
	iter := p.names.Temporary(scope)
	info := p.names.Temporary(scope)

	values := t.NewCall(t.NewMember(t.NewIdent(p.rt.Object), p.rt.Values), d.Right)
	iterDecl := t.NewDeclarator(t.NewIdent(iter), t.Position(values, d.Right))
	infoDecl := t.NewDeclarator(t.NewIdent(info), ast.NoNodeID)

	init := d.Left
	if decl != nil {
		decl.Decls = append(decl.Decls, iterDecl, infoDecl)
		switch {
		case split:
			// цикл раскладывается по состояниям: нужен var
			decl.Kind = ast.VarVar
		case decl.Kind == ast.VarConst:
			decl.Kind = ast.VarLet
		}
	} else {
		init = t.Position(t.NewVarDecl(ast.VarVar, iterDecl, infoDecl), d.Left)
	}

	step := t.NewAssign("=", target, t.NewMember(t.NewIdent(info), "value"))
	assign := t.Position(t.NewExprStmt(step), id)
	body := d.Body
	if b, ok := t.Block(body); ok {
		b.Body = ast.InsertAt(b.Body, 0, assign)
	} else {
		body = t.Position(t.NewBlock(assign, body), body)
	}

	next := t.NewCall(t.NewMember(t.NewIdent(iter), p.rt.Next))
	test := t.NewUnary("!", t.NewMember(t.NewAssign("=", t.NewIdent(info), next), "done"))

	n := *t.Get(id)
	n.Kind = ast.NodeFor
	n.Data = &ast.ForData{Init: init, Test: test, Body: body}
	t.Replace(id, n)

	p.stats.Loops++
	p.log.Debug("lowered for-of",
		zap.String("target", name),
		zap.String("iter", iter),
		zap.String("info", info),
	)
	return nil
}
