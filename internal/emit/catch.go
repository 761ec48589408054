package emit

import "regen/internal/ast"

// renameCatchParam rewrites every reference to name inside body into the
// context temporary n. Nested functions and catch clauses that rebind the
// name are left alone.
func (e *Emitter) renameCatchParam(body ast.NodeID, name string, n int) {
	t := e.tree
	var visit func(id ast.NodeID)
	visit = func(id ast.NodeID) {
		node := t.Get(id)
		if node == nil {
			return
		}
		switch node.Kind {
		case ast.NodeIdent:
			if t.Name(id) == name {
				t.Replace(id, *t.Get(t.Position(e.tempRef(n), id)))
			}
			return
		case ast.NodeFuncDecl, ast.NodeFuncExpr, ast.NodeArrow:
			if ast.NewScope(t, id, nil).Declares(name) {
				return
			}
			fn, _ := t.Function(id)
			for _, p := range fn.Params {
				visit(p)
			}
			visit(fn.Body)
			return
		case ast.NodeCatch:
			c, _ := t.Catch(id)
			if ast.NewScope(t, id, nil).Declares(name) {
				return
			}
			visit(c.Body)
			return
		case ast.NodeMember:
			m, _ := t.Member(id)
			visit(m.Object)
			if m.Computed {
				visit(m.Property)
			}
			return
		case ast.NodeProperty:
			p, _ := t.Property(id)
			if p.Computed {
				visit(p.Key)
			}
			if p.Shorthand && t.Name(p.Value) == name {
				p.Shorthand = false
			}
			visit(p.Value)
			return
		case ast.NodeMethod:
			m, _ := t.Method(id)
			if m.Computed {
				visit(m.Key)
			}
			visit(m.Value)
			return
		}
		for _, c := range t.Children(id) {
			visit(c)
		}
	}
	visit(body)
}
