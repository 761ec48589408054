package hoist_test

import (
	"testing"

	"github.com/nalgeon/be"

	"regen/internal/ast"
	"regen/internal/hoist"
)

func varOf(tr *ast.Tree, name string, init ast.NodeID) ast.NodeID {
	return tr.NewVarDecl(ast.VarVar, tr.NewDeclarator(tr.NewIdent(name), init))
}

func TestHoistCollectsFunctionScopedNames(t *testing.T) {
	tr := ast.NewTree(1, 0)
	incr := tr.New(ast.NodeUpdate, &ast.UpdateData{Op: "++", Arg: tr.NewIdent("i")})
	body := tr.NewBlock(
		tr.NewVarDecl(ast.VarVar,
			tr.NewDeclarator(tr.NewIdent("x"), tr.NewNumber(1)),
			tr.NewDeclarator(tr.NewIdent("y"), ast.NoNodeID),
		),
		tr.NewIf(tr.NewIdent("c"), tr.NewBlock(varOf(tr, "z", tr.NewNumber(2))), ast.NoNodeID),
		tr.NewFor(varOf(tr, "i", tr.NewNumber(0)), tr.NewBinary("<", tr.NewIdent("i"), tr.NewIdent("n")), incr, tr.NewBlock()),
		tr.New(ast.NodeForIn, &ast.ForEachData{Left: varOf(tr, "k", ast.NoNodeID), Right: tr.NewIdent("o"), Body: tr.NewBlock()}),
		tr.New(ast.NodeFuncDecl, &ast.FunctionData{ID: tr.NewIdent("g"), Body: tr.NewBlock()}),
		tr.NewVarDecl(ast.VarLet, tr.NewDeclarator(tr.NewIdent("w"), tr.NewNumber(3))),
		varOf(tr, "a", tr.NewNumber(5)),
		tr.NewExprStmt(tr.NewFuncExpr("", nil, tr.NewBlock(varOf(tr, "hidden", ast.NoNodeID)))),
	)
	fn := tr.New(ast.NodeFuncExpr, &ast.FunctionData{Params: []ast.NodeID{tr.NewIdent("a")}, Body: body})

	decl, err := hoist.Hoist(tr, fn)
	be.Err(t, err, nil)
	be.Equal(t, tr.Source(decl), "var x, y, z, i, k, g;\n")

	want := "{\n" +
		"  g = function g() {};\n" +
		"  x = 1;\n" +
		"  if (c) {\n" +
		"    z = 2;\n" +
		"  }\n" +
		"  for (i = 0; i < n; i++) {}\n" +
		"  for (k in o) {}\n" +
		"  let w = 3;\n" +
		"  a = 5;\n" +
		"  (function() {\n" +
		"    var hidden;\n" +
		"  });\n" +
		"}\n"
	be.Equal(t, tr.Source(body), want)
}

func TestHoistSequenceAndSingleSlot(t *testing.T) {
	tr := ast.NewTree(1, 0)
	body := tr.NewBlock(
		tr.NewVarDecl(ast.VarVar,
			tr.NewDeclarator(tr.NewIdent("p"), tr.NewNumber(1)),
			tr.NewDeclarator(tr.NewIdent("q"), tr.NewNumber(2)),
		),
		tr.NewIf(tr.NewIdent("c"), varOf(tr, "r", ast.NoNodeID), ast.NoNodeID),
		varOf(tr, "p", ast.NoNodeID),
	)
	fn := tr.New(ast.NodeFuncExpr, &ast.FunctionData{Body: body})

	decl, err := hoist.Hoist(tr, fn)
	be.Err(t, err, nil)
	be.Equal(t, tr.Source(decl), "var p, q, r;\n")
	be.Equal(t, tr.Source(body), "{\n  p = 1, q = 2;\n  if (c) ;\n}\n")
}

func TestHoistNothing(t *testing.T) {
	tr := ast.NewTree(1, 0)
	fn := tr.New(ast.NodeFuncExpr, &ast.FunctionData{Body: tr.NewBlock(tr.NewReturn(tr.NewNumber(1)))})
	decl, err := hoist.Hoist(tr, fn)
	be.Err(t, err, nil)
	be.Equal(t, decl, ast.NoNodeID)
}

func TestHoistRejectsNonFunction(t *testing.T) {
	tr := ast.NewTree(1, 0)
	_, err := hoist.Hoist(tr, tr.NewBlock())
	be.Err(t, err, hoist.ErrUnsupported)

	arrow := tr.New(ast.NodeArrow, &ast.FunctionData{Body: tr.NewIdent("x"), Expression: true})
	_, err = hoist.Hoister{}.Hoist(tr, arrow)
	be.Err(t, err, hoist.ErrUnsupported)
}
