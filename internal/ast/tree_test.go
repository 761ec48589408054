package ast_test

import (
	"testing"

	"github.com/nalgeon/be"

	"regen/internal/ast"
)

func TestArenaIsOneBased(t *testing.T) {
	a := ast.NewArena[int](0)
	be.Equal(t, a.Get(0), (*int)(nil))
	id := a.Allocate(7)
	be.Equal(t, id, uint32(1))
	be.Equal(t, *a.Get(id), 7)
	a.Set(id, 9)
	be.Equal(t, *a.Get(1), 9)
	be.Equal(t, a.Get(2), (*int)(nil))
	be.Equal(t, a.Len(), uint32(1))
}

func TestReplaceKeepsIdentity(t *testing.T) {
	tr := ast.NewTree(1, 0)
	x := tr.NewIdent("x")
	stmt := tr.NewExprStmt(x)
	tr.Replace(x, *tr.Get(tr.NewIdent("y")))
	es, ok := tr.ExprStmt(stmt)
	be.True(t, ok)
	be.Equal(t, es.Expr, x)
	be.Equal(t, tr.Name(es.Expr), "y")
}

func TestMoveCopiesToFreshSlot(t *testing.T) {
	tr := ast.NewTree(1, 0)
	x := tr.NewIdent("x")
	moved := tr.Move(x)
	be.True(t, moved != x)
	be.Equal(t, tr.Name(moved), "x")
	be.Equal(t, tr.Move(ast.NoNodeID), ast.NoNodeID)
}

func TestSlotsEvaluationOrder(t *testing.T) {
	tr := ast.NewTree(1, 0)
	body := tr.NewBlock()
	test := tr.NewIdent("c")
	loop := tr.New(ast.NodeDoWhile, &ast.WhileData{Test: test, Body: body})
	kids := tr.Children(loop)
	be.Equal(t, kids, []ast.NodeID{body, test})

	ret := tr.NewReturn(ast.NoNodeID)
	be.Equal(t, len(tr.Slots(ret)), 0)
}

func TestSlotsWriteThrough(t *testing.T) {
	tr := ast.NewTree(1, 0)
	call := tr.NewCall(tr.NewIdent("f"), tr.NewIdent("a"))
	slots := tr.Slots(call)
	be.Equal(t, len(slots), 2)
	*slots[1] = tr.NewIdent("b")
	be.Equal(t, tr.Source(call), "f(b)")
}

func TestWalkSkipsChildren(t *testing.T) {
	tr := ast.NewTree(1, 0)
	inner := tr.NewFuncExpr("g", nil, tr.NewBlock(tr.NewReturn(tr.NewIdent("hidden"))))
	prog := tr.New(ast.NodeProgram, &ast.ProgramData{Body: []ast.NodeID{
		tr.NewExprStmt(tr.NewCall(tr.NewIdent("f"), inner)),
	}})
	var names []string
	tr.Walk(prog, func(id ast.NodeID) bool {
		if tr.Kind(id) == ast.NodeIdent {
			names = append(names, tr.Name(id))
		}
		return tr.Kind(id) != ast.NodeFuncExpr
	})
	be.Equal(t, names, []string{"f"})
}

func TestPatternNames(t *testing.T) {
	tr := ast.NewTree(1, 0)
	obj := tr.New(ast.NodeObjectPattern, &ast.ObjectData{Props: []ast.NodeID{
		tr.New(ast.NodeProperty, &ast.PropertyData{Key: tr.NewIdent("k"), Value: tr.NewIdent("v")}),
		tr.New(ast.NodeRest, &ast.SpreadData{Arg: tr.NewIdent("rest")}),
	}})
	arr := tr.New(ast.NodeArrayPattern, &ast.ArrayData{Elements: []ast.NodeID{
		tr.NewIdent("a"),
		ast.NoNodeID,
		tr.New(ast.NodeAssignPattern, &ast.AssignPatternData{Left: tr.NewIdent("b"), Right: tr.NewNumber(1)}),
		obj,
	}})
	be.Equal(t, tr.PatternNames(arr), []string{"a", "b", "v", "rest"})
}

func TestKindByName(t *testing.T) {
	k, ok := ast.KindByName("ForOfStatement")
	be.True(t, ok)
	be.Equal(t, k, ast.NodeForOf)
	be.Equal(t, k.String(), "ForOfStatement")
	_, ok = ast.KindByName("JSXElement")
	be.True(t, !ok)
	be.True(t, ast.NodeArrow.IsFunction())
	be.True(t, !ast.NodeMethod.IsFunction())
}
