package lower

import (
	"regen/internal/ast"
)

const argumentsName = "arguments"

// argRef is one candidate reference to the implicit arguments object.
// prop is set when the reference is the value of a shorthand property.
type argRef struct {
	id   ast.NodeID
	prop *ast.PropertyData
}

// renameArguments rewrites references to `arguments` in the body of fn to
// alias. Parameter defaults are not touched.
// hasImplicit reports that fn does not declare its own `arguments`;
// didReplace that at least one reference was rewritten. Nothing is
// rewritten unless hasImplicit holds.
func (p *Pass) renameArguments(fn ast.NodeID, alias string) (didReplace, hasImplicit bool) {
	t := p.tree
	hasImplicit = !ast.NewScope(t, fn, nil).Declares(argumentsName)

	// параметры остаются на внешней функции и видят её arguments;
	// алиас объявляется в теле, из значений по умолчанию он не виден
	data, _ := t.Function(fn)
	refs := p.collectArguments(data.Body, nil)

	if !hasImplicit || len(refs) == 0 {
		return false, hasImplicit
	}
	for _, ref := range refs {
		n := *t.Get(ref.id)
		n.Data = &ast.IdentData{Name: alias}
		t.Replace(ref.id, n)
		if ref.prop != nil {
			ref.prop.Shorthand = false
		}
	}
	return true, hasImplicit
}

// collectArguments gathers `arguments` references below id. It does not
// enter functions or classes that own a separate arguments object; arrow
// functions are entered unless they rebind the name.
func (p *Pass) collectArguments(id ast.NodeID, refs []argRef) []argRef {
	t := p.tree
	n := t.Get(id)
	if n == nil {
		return refs
	}
	switch n.Kind {
	case ast.NodeIdent:
		if t.Name(id) == argumentsName {
			refs = append(refs, argRef{id: id})
		}
		return refs
	case ast.NodeFuncDecl, ast.NodeFuncExpr, ast.NodeClassDecl, ast.NodeClassExpr:
		return refs
	case ast.NodeArrow:
		if ast.NewScope(t, id, nil).Declares(argumentsName) {
			return refs
		}
	case ast.NodeMember:
		m, _ := t.Member(id)
		refs = p.collectArguments(m.Object, refs)
		if m.Computed {
			refs = p.collectArguments(m.Property, refs)
		}
		return refs
	case ast.NodeProperty:
		pr, _ := t.Property(id)
		if pr.Computed {
			refs = p.collectArguments(pr.Key, refs)
		}
		if pr.Shorthand && t.Name(pr.Value) == argumentsName {
			return append(refs, argRef{id: pr.Value, prop: pr})
		}
		return p.collectArguments(pr.Value, refs)
	}
	for _, c := range t.Children(id) {
		refs = p.collectArguments(c, refs)
	}
	return refs
}
