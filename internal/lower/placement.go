package lower

import (
	"slices"

	"regen/internal/ast"
)

// frame collects declarations waiting to be placed into the statement list
// of a Block or Program once that list has been visited.
type frame struct {
	owner   ast.NodeID
	pending []ast.NodeID
}

// place queues decl for the nearest enclosing Block or Program. It returns
// false when there is none.
func (p *Pass) place(decl ast.NodeID) bool {
	if len(p.frames) == 0 {
		return false
	}
	f := p.frames[len(p.frames)-1]
	f.pending = append(f.pending, decl)
	return true
}

// remove detaches stmt from its parent. Statement lists drop it when they
// finish; a single-statement slot gets an empty statement instead.
func (p *Pass) remove(slot *ast.NodeID, parent ast.NodeID) {
	if _, ok := p.tree.StmtList(parent); ok {
		p.removed[*slot] = struct{}{}
		return
	}
	*slot = p.tree.Position(p.tree.NewEmpty(), *slot)
}

func (p *Pass) dropRemoved(list *[]ast.NodeID) {
	if len(p.removed) == 0 {
		return
	}
	*list = slices.DeleteFunc(*list, func(id ast.NodeID) bool {
		if _, ok := p.removed[id]; ok {
			delete(p.removed, id)
			return true
		}
		return false
	})
}

func (p *Pass) applyFrame(f *frame) {
	if len(f.pending) == 0 {
		return
	}
	list, ok := p.tree.StmtList(f.owner)
	if !ok {
		return
	}
	for _, decl := range f.pending {
		i := 0
		for i < len(*list) && p.shouldNotHoistAbove((*list)[i]) {
			i++
		}
		*list = ast.InsertAt(*list, i, decl)
	}
}

// shouldNotHoistAbove reports whether a generator declaration must be
// placed after stmt: a "use strict" directive or an earlier
// `var x = <Object>.<Mark>(...)`.
func (p *Pass) shouldNotHoistAbove(stmt ast.NodeID) bool {
	t := p.tree
	if es, ok := t.ExprStmt(stmt); ok {
		if es.Directive == "use strict" {
			return true
		}
		lit, ok := t.Literal(es.Expr)
		return ok && lit.Kind == ast.LitString && lit.String == "use strict"
	}
	v, ok := t.VarDecl(stmt)
	if !ok {
		return false
	}
	for _, decl := range v.Decls {
		d, ok := t.Declarator(decl)
		if !ok {
			continue
		}
		if p.isMarkCall(d.Init) {
			return true
		}
	}
	return false
}

func (p *Pass) isMarkCall(id ast.NodeID) bool {
	t := p.tree
	call, ok := t.Call(id)
	if !ok || t.Kind(id) != ast.NodeCall {
		return false
	}
	m, ok := t.Member(call.Callee)
	if !ok || m.Computed {
		return false
	}
	return t.Name(m.Object) == p.rt.Object && t.Name(m.Property) == p.rt.Mark
}
