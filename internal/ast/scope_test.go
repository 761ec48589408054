package ast_test

import (
	"testing"

	"github.com/nalgeon/be"

	"regen/internal/ast"
)

func TestScopeCollectsDeclarations(t *testing.T) {
	tr := ast.NewTree(1, 0)
	nested := tr.NewFuncExpr("", nil, tr.NewBlock(
		tr.NewVarDecl(ast.VarVar, tr.NewDeclarator(tr.NewIdent("inner"), ast.NoNodeID)),
	))
	body := tr.NewBlock(
		tr.NewVarDecl(ast.VarLet, tr.NewDeclarator(tr.NewIdent("a"), nested)),
		tr.NewIf(tr.NewIdent("a"), tr.NewBlock(
			tr.NewVarDecl(ast.VarVar, tr.NewDeclarator(tr.NewIdent("b"), ast.NoNodeID)),
		), ast.NoNodeID),
		tr.New(ast.NodeFuncDecl, &ast.FunctionData{ID: tr.NewIdent("helper"), Body: tr.NewBlock()}),
	)
	fn := tr.New(ast.NodeFuncExpr, &ast.FunctionData{
		ID:     tr.NewIdent("self"),
		Params: []ast.NodeID{tr.NewIdent("p")},
		Body:   body,
	})

	sc := ast.NewScope(tr, fn, nil)
	be.Equal(t, sc.Bindings(), []string{"a", "b", "helper", "p"})
	be.True(t, !sc.Declares("inner"))
	be.True(t, !sc.Declares("self"))
}

func TestScopeLookupWalksParents(t *testing.T) {
	tr := ast.NewTree(1, 0)
	inner := tr.NewFuncExpr("", []ast.NodeID{tr.NewIdent("x")}, tr.NewBlock())
	prog := tr.New(ast.NodeProgram, &ast.ProgramData{Body: []ast.NodeID{
		tr.NewVarDecl(ast.VarVar, tr.NewDeclarator(tr.NewIdent("g"), inner)),
	}})
	root := ast.NewScope(tr, prog, nil)
	child := ast.NewScope(tr, inner, root)
	be.Equal(t, child.Depth, 1)
	be.Equal(t, child.Lookup("x"), child)
	be.Equal(t, child.Lookup("g"), root)
	be.Equal(t, child.Lookup("nope"), (*ast.Scope)(nil))

	child.Declare("late")
	be.True(t, child.Declares("late"))
}

func TestCatchScopeBindsOnlyParam(t *testing.T) {
	tr := ast.NewTree(1, 0)
	c := tr.New(ast.NodeCatch, &ast.CatchData{
		Param: tr.NewIdent("err"),
		Body:  tr.NewBlock(tr.NewVarDecl(ast.VarVar, tr.NewDeclarator(tr.NewIdent("v"), ast.NoNodeID))),
	})
	sc := ast.NewScope(tr, c, nil)
	be.Equal(t, sc.Bindings(), []string{"err"})
	be.True(t, ast.IsScopeNode(ast.NodeCatch))
	be.True(t, !ast.IsScopeNode(ast.NodeBlock))
}
