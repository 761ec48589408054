package lower

import (
	"go.uber.org/zap"

	"regen/internal/ast"
)

// lowerFunction rewrites a generator-marked function in *slot. Other
// functions are left untouched.
func (p *Pass) lowerFunction(slot *ast.NodeID, parent ast.NodeID) error {
	t := p.tree
	id := *slot
	fn, ok := t.Function(id)
	if !ok || !fn.Generator {
		return nil
	}

	// форма проверяется до любых изменений дерева
	if err := p.checkHost(id, parent); err != nil {
		return err
	}
	if !fn.Body.IsValid() {
		return p.fail(id, ErrMissingChild, "generator without body")
	}

	fn.Generator = false
	if fn.Expression {
		body := fn.Body
		fn.Body = t.Position(t.NewBlock(t.Position(t.NewReturn(body), body)), body)
		fn.Expression = false
	}

	outer := t.Name(fn.ID)
	if outer == "" {
		outer = p.names.Fresh("$callee")
		fn.ID = t.Position(t.NewIdent(outer), id)
	}
	inner := p.names.Fresh(outer + "$")
	ctx := p.names.Context()
	args := p.names.Fresh("$args")

	didReplace, hasImplicit := p.renameArguments(id, args)

	p.relaxLexicals(fn.Body, outer)

	vars, err := p.hoister.Hoist(t, id)
	if err != nil {
		return p.fail(id, err, "hoisting %s", outer)
	}
	if didReplace && hasImplicit {
		if !vars.IsValid() {
			vars = t.NewVarDecl(ast.VarVar)
		}
		v, _ := t.VarDecl(vars)
		v.Decls = append(v.Decls, t.NewDeclarator(t.NewIdent(args), t.NewIdent("arguments")))
	}

	em := p.emitter(t, ctx, p.rt)
	if err := em.Explode(fn.Body); err != nil {
		return p.fail(id, err, "in generator %s", outer)
	}
	wrapArgs := []ast.NodeID{em.InnerFunction(inner), t.NewIdent(outer), t.NewThis()}
	if tries := em.TryEntries(); tries.IsValid() {
		wrapArgs = append(wrapArgs, tries)
	}

	var body []ast.NodeID
	if v, ok := t.VarDecl(vars); ok && len(v.Decls) > 0 {
		body = append(body, vars)
	}
	body = append(body, t.NewReturn(t.NewCall(t.NewIdent(p.rt.Object), wrapArgs...)))
	fn.Body = t.Position(t.NewBlock(body...), fn.Body)

	p.stats.Generators++
	p.log.Debug("lowered generator",
		zap.String("fn", outer),
		zap.String("inner", inner),
		zap.String("ctx", ctx),
		zap.Bool("aliasArguments", didReplace && hasImplicit),
		zap.Stringer("kind", t.Kind(id)),
	)

	if t.Kind(id) == ast.NodeFuncDecl {
		p.placeDeclaration(slot, parent, outer)
		return nil
	}
	p.wrapMark(id)
	return nil
}

// relaxLexicals turns let and const statements at the top of a generator
// body into var. Such bindings exist once per call, so function scope binds
// them the same way; the state machine can then split their initializers.
// Destructuring declarations and names that shadow the generator itself
// are left alone.
func (p *Pass) relaxLexicals(body ast.NodeID, self string) {
	t := p.tree
	b, ok := t.Block(body)
	if !ok {
		return
	}
	for _, stmt := range b.Body {
		v, ok := t.VarDecl(stmt)
		if !ok || v.Kind == ast.VarVar || !simpleDeclarators(t, v, self) {
			continue
		}
		v.Kind = ast.VarVar
	}
}

func simpleDeclarators(t *ast.Tree, v *ast.VarDeclData, self string) bool {
	for _, decl := range v.Decls {
		dd, ok := t.Declarator(decl)
		if !ok || t.Kind(dd.ID) != ast.NodeIdent || t.Name(dd.ID) == self {
			return false
		}
	}
	return len(v.Decls) > 0
}

// checkHost rejects generator methods and generator arrows.
func (p *Pass) checkHost(id, parent ast.NodeID) error {
	t := p.tree
	if t.Kind(id) == ast.NodeArrow {
		return p.fail(id, ErrUnsupportedShape, "arrow function marked as generator")
	}
	switch t.Kind(parent) {
	case ast.NodeMethod:
		if m, _ := t.Method(parent); m.Value == id {
			return p.fail(id, ErrUnsupportedShape, "generator class method")
		}
	case ast.NodeProperty:
		if pr, _ := t.Property(parent); pr.Value == id && (pr.Method || pr.Kind != ast.PropInit) {
			return p.fail(id, ErrUnsupportedShape, "generator object method")
		}
	}
	return nil
}

// markCall builds `<Object>.<Mark>(fn)`.
func (p *Pass) markCall(fn ast.NodeID) ast.NodeID {
	t := p.tree
	return t.NewCall(t.NewMember(t.NewIdent(p.rt.Object), p.rt.Mark), fn)
}

// wrapMark replaces the function expression at id by a mark call around a
// copy of it. Parents keep pointing at id.
func (p *Pass) wrapMark(id ast.NodeID) {
	t := p.tree
	moved := t.Move(id)
	orig := *t.Get(id)
	t.Get(moved).Comments = nil

	call := t.Get(p.markCall(moved))
	call.Span, call.Loc, call.Comments = orig.Span, orig.Loc, orig.Comments
	t.Replace(id, *call)
}

// placeDeclaration turns the declaration in *slot into
// `var name = <Object>.<Mark>(function name() {...})` at the top of the
// nearest Block or Program. Without one the declaration stays put.
func (p *Pass) placeDeclaration(slot *ast.NodeID, parent ast.NodeID, name string) {
	t := p.tree
	id := *slot
	if len(p.frames) == 0 {
		return
	}
	n := t.Get(id)
	comments := n.Comments
	n.Comments = nil
	n.Kind = ast.NodeFuncExpr

	decl := t.NewVarDecl(ast.VarVar, t.NewDeclarator(t.Position(t.NewIdent(name), id), p.markCall(id)))
	t.Position(decl, id)
	t.Get(decl).Comments = comments

	p.place(decl)
	p.remove(slot, parent)
}
