package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"regen/internal/ast"
)

// CheckTree runs the structural invariants every lowered tree must keep:
// 1) every reachable child ID points into the arena
// 2) no node is reachable through two different slots
// 3) no function is still generator-marked and no for-of statement is left
func CheckTree(t *ast.Tree, root ast.NodeID) error {
	if t == nil {
		return fmt.Errorf("nil tree")
	}
	if !root.IsValid() {
		return fmt.Errorf("invalid root")
	}
	total, err := safecast.Conv[int](t.Nodes.Len())
	if err != nil {
		return fmt.Errorf("arena size overflow: %w", err)
	}

	seen := make(map[ast.NodeID]struct{}, total)
	var walkErr error
	t.Walk(root, func(id ast.NodeID) bool {
		if walkErr != nil {
			return false
		}
		n := t.Get(id)
		if n == nil {
			walkErr = fmt.Errorf("dangling node id=%d", id)
			return false
		}
		if _, dup := seen[id]; dup {
			walkErr = fmt.Errorf("node id=%d (%s) is shared between slots", id, n.Kind)
			return false
		}
		seen[id] = struct{}{}

		// 3) остатки непониженных конструкций
		if n.Kind == ast.NodeForOf {
			walkErr = fmt.Errorf("for-of statement id=%d was not lowered", id)
			return false
		}
		if fn, ok := t.Function(id); ok && fn.Generator {
			walkErr = fmt.Errorf("function id=%d is still a generator", id)
			return false
		}
		return true
	})
	if walkErr != nil {
		return walkErr
	}
	if len(seen) > total {
		return fmt.Errorf("visited %d nodes, arena holds %d", len(seen), total)
	}
	return nil
}

// CheckUniqueDecls reports a name declared twice by var statements directly
// in the same statement list. Lowering never introduces such duplicates.
func CheckUniqueDecls(t *ast.Tree, root ast.NodeID) error {
	var err error
	t.Walk(root, func(id ast.NodeID) bool {
		if err != nil {
			return false
		}
		list, ok := t.StmtList(id)
		if !ok {
			return true
		}
		names := make(map[string]struct{})
		for _, stmt := range *list {
			v, ok := t.VarDecl(stmt)
			if !ok {
				continue
			}
			for _, d := range v.Decls {
				dd, ok := t.Declarator(d)
				if !ok {
					continue
				}
				for _, name := range t.PatternNames(dd.ID) {
					if _, dup := names[name]; dup {
						err = fmt.Errorf("%q declared twice in %s id=%d", name, t.Kind(id), id)
						return false
					}
					names[name] = struct{}{}
				}
			}
		}
		return true
	})
	return err
}
