package emit_test

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"regen/internal/ast"
	"regen/internal/emit"
)

var rt = emit.Runtime{Object: "wrapGenerator", Keys: "keys"}

func yield(tr *ast.Tree, arg ast.NodeID) ast.NodeID {
	return tr.New(ast.NodeYield, &ast.YieldData{Arg: arg})
}

func explode(t *testing.T, tr *ast.Tree, stmts ...ast.NodeID) (*emit.Emitter, string) {
	t.Helper()
	e := emit.New(tr, "$ctx", rt)
	be.Err(t, e.Explode(tr.NewBlock(stmts...)), nil)
	return e, tr.Source(e.InnerFunction("inner"))
}

func lines(ls ...string) string {
	return strings.Join(ls, "\n") + "\n"
}

func TestExplodeYieldAndReturn(t *testing.T) {
	tr := ast.NewTree(1, 0)
	assign := tr.NewExprStmt(tr.NewAssign("=", tr.NewIdent("x"), yield(tr, tr.NewNumber(1))))
	ret := tr.NewReturn(tr.NewBinary("+", tr.NewIdent("x"), tr.NewNumber(1)))

	e, got := explode(t, tr, assign, ret)
	want := lines(
		"function inner($ctx) {",
		"  while (1) switch ($ctx.prev = $ctx.next) {",
		"    case 0:",
		"      $ctx.next = 2;",
		"      return 1;",
		"    case 2:",
		"      x = $ctx.sent;",
		"      return $ctx.abrupt(\"return\", x + 1);",
		"    case 4:",
		"    case \"end\":",
		"      return $ctx.stop();",
		"  }",
		"}",
	)
	be.Equal(t, got, want)
	be.Equal(t, e.TryEntries(), ast.NoNodeID)
}

func TestExplodeLoopDropsUnreachable(t *testing.T) {
	tr := ast.NewTree(1, 0)
	body := tr.NewBlock(tr.NewExprStmt(yield(tr, tr.NewIdent("i"))), tr.NewBreak(""))
	loop := tr.NewWhile(tr.NewIdent("c"), body)

	_, got := explode(t, tr, loop)
	want := lines(
		"function inner($ctx) {",
		"  while (1) switch ($ctx.prev = $ctx.next) {",
		"    case 0:",
		"      if (!c) {",
		"        $ctx.next = 6;",
		"        break;",
		"      }",
		"      $ctx.next = 3;",
		"      return i;",
		"    case 3:",
		"      return $ctx.abrupt(\"break\", 6);",
		"    case 6:",
		"    case \"end\":",
		"      return $ctx.stop();",
		"  }",
		"}",
	)
	be.Equal(t, got, want)
}

func TestExplodeTryCatch(t *testing.T) {
	tr := ast.NewTree(1, 0)
	handler := tr.New(ast.NodeCatch, &ast.CatchData{
		Param: tr.NewIdent("e"),
		Body:  tr.NewBlock(tr.NewExprStmt(tr.NewCall(tr.NewIdent("f"), tr.NewIdent("e")))),
	})
	try := tr.New(ast.NodeTry, &ast.TryData{
		Block:   tr.NewBlock(tr.NewExprStmt(yield(tr, tr.NewNumber(1)))),
		Handler: handler,
	})

	e, got := explode(t, tr, try)
	want := lines(
		"function inner($ctx) {",
		"  while (1) switch ($ctx.prev = $ctx.next) {",
		"    case 0:",
		"      $ctx.prev = 0;",
		"      $ctx.next = 3;",
		"      return 1;",
		"    case 3:",
		"      $ctx.next = 8;",
		"      break;",
		"    case 5:",
		"      $ctx.prev = 5;",
		"      $ctx.t0 = $ctx[\"catch\"](0);",
		"      {",
		"        f($ctx.t0);",
		"      }",
		"    case 8:",
		"    case \"end\":",
		"      return $ctx.stop();",
		"  }",
		"}",
	)
	be.Equal(t, got, want)
	be.Equal(t, tr.Source(e.TryEntries()), "[[0, 5, null, 8]]")
}

func TestExplodeMethodCallKeepsReceiver(t *testing.T) {
	tr := ast.NewTree(1, 0)
	call := tr.NewCall(tr.NewMember(tr.NewIdent("obj"), "m"), tr.NewIdent("a"), yield(tr, tr.NewIdent("b")))

	_, got := explode(t, tr, tr.NewExprStmt(call))
	be.True(t, strings.Contains(got, "      $ctx.t0 = obj;\n      $ctx.t1 = a;\n"))
	be.True(t, strings.Contains(got, "    case 4:\n      $ctx.t0.m.call($ctx.t0, $ctx.t1, $ctx.sent);\n"))
}

func TestExplodeDelegateYield(t *testing.T) {
	tr := ast.NewTree(1, 0)
	del := tr.New(ast.NodeYield, &ast.YieldData{Arg: tr.NewIdent("inner"), Delegate: true})

	_, got := explode(t, tr, tr.NewReturn(del))
	be.True(t, strings.Contains(got, "return $ctx.delegateYield(inner, \"t0\", 1);"))
	be.True(t, strings.Contains(got, "    case 1:\n      return $ctx.abrupt(\"return\", $ctx.t0);\n"))
}

func TestVerbatimStatementsStayInFirstCase(t *testing.T) {
	tr := ast.NewTree(1, 0)
	_, got := explode(t, tr, tr.NewExprStmt(tr.NewCall(tr.NewIdent("f"))))
	be.True(t, strings.Contains(got, "    case 0:\n      f();\n    case 1:\n    case \"end\":\n"))
}

func TestExplodeRejectsBlockScopedDeclarations(t *testing.T) {
	tr := ast.NewTree(1, 0)
	e := emit.New(tr, "$ctx", rt)
	decl := tr.NewVarDecl(ast.VarLet, tr.NewDeclarator(tr.NewIdent("x"), tr.NewNumber(1)))
	err := e.Explode(tr.NewBlock(decl))
	be.Err(t, err, emit.ErrUnsupported)

	e = emit.New(tr, "$ctx", rt)
	err = e.Explode(tr.NewBlock(tr.NewBreak("nowhere")))
	be.Err(t, err, emit.ErrUnsupported)
}
