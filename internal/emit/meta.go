package emit

import "regen/internal/ast"

// ContainsLeap reports whether id contains a yield, return, break or
// continue that belongs to the current function.
func ContainsLeap(t *ast.Tree, id ast.NodeID) bool {
	found := false
	t.Walk(id, func(n ast.NodeID) bool {
		if found {
			return false
		}
		switch t.Kind(n) {
		case ast.NodeYield, ast.NodeReturn, ast.NodeBreak, ast.NodeContinue:
			found = true
			return false
		case ast.NodeFuncDecl, ast.NodeFuncExpr, ast.NodeArrow, ast.NodeClassDecl, ast.NodeClassExpr:
			return false
		}
		return true
	})
	return found
}

// isCaseEnder reports whether control never falls through stmt.
func isCaseEnder(t *ast.Tree, stmt ast.NodeID) bool {
	switch t.Kind(stmt) {
	case ast.NodeBreak, ast.NodeContinue, ast.NodeReturn, ast.NodeThrow:
		return true
	}
	return false
}
