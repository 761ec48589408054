package ast

import "sort"

// Scope is a lexical scope rooted at a Program, a function or a catch clause.
// Bindings are scanned lazily on first query, so a scope created before a
// rewrite sees the tree as it is when first asked.
type Scope struct {
	Node   NodeID
	Parent *Scope
	Depth  int

	tree     *Tree
	bindings map[string]struct{}
	scanned  bool
}

// NewScope creates a scope for node nested in parent (nil for the root).
func NewScope(t *Tree, node NodeID, parent *Scope) *Scope {
	depth := 0
	if parent != nil {
		depth = parent.Depth + 1
	}
	return &Scope{
		Node:     node,
		Parent:   parent,
		Depth:    depth,
		tree:     t,
		bindings: make(map[string]struct{}),
	}
}

// IsScopeNode reports whether nodes of kind k open a Scope.
func IsScopeNode(k NodeKind) bool {
	return k == NodeProgram || k.IsFunction() || k == NodeCatch
}

// Declares reports whether name is bound directly in this scope.
func (s *Scope) Declares(name string) bool {
	s.scan()
	_, ok := s.bindings[name]
	return ok
}

// Lookup returns the innermost scope declaring name, or nil.
func (s *Scope) Lookup(name string) *Scope {
	for sc := s; sc != nil; sc = sc.Parent {
		if sc.Declares(name) {
			return sc
		}
	}
	return nil
}

// Declare records name as bound in this scope.
func (s *Scope) Declare(name string) {
	s.scan()
	s.bindings[name] = struct{}{}
}

// Bindings returns the bound names in sorted order.
func (s *Scope) Bindings() []string {
	s.scan()
	out := make([]string, 0, len(s.bindings))
	for name := range s.bindings {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (s *Scope) scan() {
	if s.scanned {
		return
	}
	s.scanned = true
	t := s.tree
	switch t.Kind(s.Node) {
	case NodeProgram:
		p, _ := t.Program(s.Node)
		for _, stmt := range p.Body {
			s.scanNode(stmt)
		}
	case NodeFuncDecl, NodeFuncExpr, NodeArrow:
		fn, _ := t.Function(s.Node)
		for _, param := range fn.Params {
			s.addPattern(param)
		}
		if !fn.Expression {
			s.scanNode(fn.Body)
		}
	case NodeCatch:
		c, _ := t.Catch(s.Node)
		s.addPattern(c.Param)
	}
}

func (s *Scope) addPattern(id NodeID) {
	for _, name := range s.tree.PatternNames(id) {
		s.bindings[name] = struct{}{}
	}
}

// scanNode collects declarations without entering nested functions, classes
// or catch parameters.
func (s *Scope) scanNode(id NodeID) {
	t := s.tree
	switch t.Kind(id) {
	case NodeInvalid:
		return
	case NodeVarDecl:
		d, _ := t.VarDecl(id)
		for _, decl := range d.Decls {
			dd, ok := t.Declarator(decl)
			if !ok {
				continue
			}
			s.addPattern(dd.ID)
		}
		return
	case NodeFuncDecl:
		fn, _ := t.Function(id)
		s.addPattern(fn.ID)
		return
	case NodeClassDecl:
		c, _ := t.Class(id)
		s.addPattern(c.ID)
		return
	case NodeFuncExpr, NodeArrow, NodeClassExpr:
		return
	case NodeCatch:
		c, _ := t.Catch(id)
		s.scanNode(c.Body)
		return
	}
	for _, c := range t.Children(id) {
		s.scanNode(c)
	}
}
