package lower_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"regen/internal/ast"
	"regen/internal/diag"
	"regen/internal/estree"
	"regen/internal/lower"
	"regen/internal/testkit"
)

func TestCorpus(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.md"))
	be.Err(t, err, nil)
	be.True(t, len(files) > 0)

	for _, file := range files {
		cases, err := testkit.LoadCases(file)
		be.Err(t, err, nil)
		for _, c := range cases {
			t.Run(c.Name, func(t *testing.T) {
				runCase(t, c)
			})
		}
	}
}

func runCase(t *testing.T, c testkit.Case) {
	t.Helper()
	tr, root, err := estree.DecodeBytes([]byte(c.Input), 1)
	be.Err(t, err, nil)

	bag := diag.NewBag(10)
	err = lower.Lower(tr, root, lower.Options{Reporter: &diag.BagReporter{Bag: bag}})

	if c.Error != "" {
		var ae *lower.AssertionError
		be.True(t, errors.As(err, &ae))
		be.Equal(t, ae.Code().ID(), c.Error)
		be.Equal(t, bag.Len(), 1)
		return
	}
	be.Err(t, err, nil)
	be.Equal(t, bag.Len(), 0)
	be.Equal(t, tr.Source(root), c.Output)
	be.Err(t, testkit.CheckTree(tr, root), nil)
	be.Err(t, testkit.CheckUniqueDecls(tr, root), nil)
}

// generator builds `function* name(params) { body }` as a declaration.
func generator(tr *ast.Tree, name string, params []ast.NodeID, body ...ast.NodeID) ast.NodeID {
	fn := tr.NewFuncExpr(name, params, tr.NewBlock(body...))
	n := tr.Get(fn)
	n.Kind = ast.NodeFuncDecl
	data, _ := tr.Function(fn)
	data.Generator = true
	return fn
}

func yield(tr *ast.Tree, arg ast.NodeID) ast.NodeID {
	return tr.New(ast.NodeYield, &ast.YieldData{Arg: arg})
}

func forOf(tr *ast.Tree, kind ast.VarKind, name string, right, body ast.NodeID) ast.NodeID {
	left := tr.NewVarDecl(kind, tr.NewDeclarator(tr.NewIdent(name), ast.NoNodeID))
	return tr.New(ast.NodeForOf, &ast.ForEachData{Left: left, Right: right, Body: body})
}

func program(tr *ast.Tree, stmts ...ast.NodeID) ast.NodeID {
	return tr.New(ast.NodeProgram, &ast.ProgramData{Body: stmts})
}

func TestLowerIsIdempotent(t *testing.T) {
	tr := ast.NewTree(1, 0)
	loop := forOf(tr, ast.VarConst, "x", tr.NewIdent("xs"), tr.NewExprStmt(yield(tr, tr.NewIdent("x"))))
	root := program(tr, generator(tr, "g", []ast.NodeID{tr.NewIdent("xs")}, loop))

	p := lower.New(tr, lower.Options{})
	be.Err(t, p.Run(root), nil)
	be.Equal(t, p.Stats(), lower.Stats{Generators: 1, Loops: 1})
	first := tr.Source(root)

	again := lower.New(tr, lower.Options{})
	be.Err(t, again.Run(root), nil)
	be.Equal(t, again.Stats(), lower.Stats{})
	be.Equal(t, tr.Source(root), first)
}

func TestForOfInsideGeneratorIsHoisted(t *testing.T) {
	tr := ast.NewTree(1, 0)
	loop := forOf(tr, ast.VarConst, "x", tr.NewIdent("xs"), tr.NewExprStmt(yield(tr, tr.NewIdent("x"))))
	root := program(tr, generator(tr, "g", []ast.NodeID{tr.NewIdent("xs")}, loop))

	be.Err(t, lower.Lower(tr, root, lower.Options{}), nil)
	got := tr.Source(root)
	be.True(t, strings.Contains(got, "  var x, t$1$0, t$1$1;\n"))
	be.True(t, strings.Contains(got, "t$1$0 = wrapGenerator.values(xs);"))
	be.True(t, strings.Contains(got, "x = t$1$1.value;"))
	be.True(t, !strings.Contains(got, "let "))
	be.Err(t, testkit.CheckTree(tr, root), nil)
}

func TestDeclaredArgumentsAreNotAliased(t *testing.T) {
	tr := ast.NewTree(1, 0)
	ret := tr.NewReturn(tr.NewIdent("arguments"))
	root := program(tr, generator(tr, "f", []ast.NodeID{tr.NewIdent("arguments")}, ret))

	be.Err(t, lower.Lower(tr, root, lower.Options{}), nil)
	got := tr.Source(root)
	be.True(t, strings.Contains(got, `return $ctx0.abrupt("return", arguments);`))
	be.True(t, !strings.Contains(got, "$args"))
}

func TestArgumentsPropertyIsNotRenamed(t *testing.T) {
	tr := ast.NewTree(1, 0)
	ret := tr.NewReturn(tr.NewMember(tr.NewIdent("arguments"), "arguments"))
	root := program(tr, generator(tr, "f", nil, ret))

	be.Err(t, lower.Lower(tr, root, lower.Options{}), nil)
	got := tr.Source(root)
	be.True(t, strings.Contains(got, "var $args = arguments;"))
	be.True(t, strings.Contains(got, `abrupt("return", $args.arguments)`))
}

func TestNestedDeclarationGoesToTopOfBlock(t *testing.T) {
	tr := ast.NewTree(1, 0)
	call := tr.NewExprStmt(tr.NewCall(tr.NewIdent("g")))
	block := tr.NewBlock(call, generator(tr, "g", nil))
	root := program(tr, tr.NewIf(tr.NewIdent("c"), block, ast.NoNodeID))

	be.Err(t, lower.Lower(tr, root, lower.Options{}), nil)
	b, _ := tr.Block(block)
	be.Equal(t, len(b.Body), 2)
	be.Equal(t, tr.Kind(b.Body[0]), ast.NodeVarDecl)
	be.Equal(t, b.Body[1], call)
}

func TestDeclarationCommentsMoveToVar(t *testing.T) {
	tr := ast.NewTree(1, 0)
	fn := generator(tr, "g", nil)
	tr.Get(fn).Comments = []ast.Comment{{Kind: ast.CommentLine, Text: " doc"}}
	root := program(tr, fn)

	be.Err(t, lower.Lower(tr, root, lower.Options{}), nil)
	prog, _ := tr.Program(root)
	be.Equal(t, len(prog.Body), 1)
	be.Equal(t, tr.Get(prog.Body[0]).Comments, []ast.Comment{{Kind: ast.CommentLine, Text: " doc"}})
	be.Equal(t, len(tr.Get(fn).Comments), 0)
	be.True(t, strings.HasPrefix(tr.Source(root), "// doc\nvar g = wrapGenerator.mark(function g() {\n"))
}

func TestRootDeclarationStaysInPlace(t *testing.T) {
	tr := ast.NewTree(1, 0)
	fn := generator(tr, "g", nil)

	be.Err(t, lower.Lower(tr, fn, lower.Options{}), nil)
	be.Equal(t, tr.Kind(fn), ast.NodeFuncDecl)
	data, _ := tr.Function(fn)
	be.True(t, !data.Generator)
}

func TestExpressionBodyBecomesReturn(t *testing.T) {
	tr := ast.NewTree(1, 0)
	fn := tr.NewFuncExpr("", nil, tr.NewIdent("v"))
	data, _ := tr.Function(fn)
	data.Generator, data.Expression = true, true
	root := program(tr, tr.NewExprStmt(fn))

	be.Err(t, lower.Lower(tr, root, lower.Options{}), nil)
	be.True(t, strings.Contains(tr.Source(root), `return $ctx0.abrupt("return", v);`))
	be.True(t, !data.Expression)
}

func TestArrowGeneratorIsRejected(t *testing.T) {
	tr := ast.NewTree(1, 0)
	fn := tr.NewFuncExpr("", nil, tr.NewBlock())
	n := tr.Get(fn)
	n.Kind = ast.NodeArrow
	data, _ := tr.Function(fn)
	data.Generator = true
	root := program(tr, tr.NewExprStmt(fn))

	err := lower.Lower(tr, root, lower.Options{})
	be.Err(t, err, lower.ErrUnsupportedShape)
}

func TestCustomRuntime(t *testing.T) {
	tr := ast.NewTree(1, 0)
	root := program(tr,
		generator(tr, "g", nil),
		forOf(tr, ast.VarLet, "x", tr.NewIdent("xs"), tr.NewEmpty()),
	)
	rt := lower.Runtime{Object: "rt", Mark: "m", Values: "iter"}

	be.Err(t, lower.Lower(tr, root, lower.Options{Runtime: rt}), nil)
	got := tr.Source(root)
	be.True(t, strings.HasPrefix(got, "var g = rt.m(function g() {\n  return rt(function g$($ctx0) {"))
	be.True(t, strings.Contains(got, "t$0$0 = rt.iter(xs)"))
	be.True(t, strings.Contains(got, "!(t$0$1 = t$0$0.next()).done"))
}

func TestFailureIsReported(t *testing.T) {
	tr := ast.NewTree(1, 0)
	left := tr.NewVarDecl(ast.VarLet,
		tr.NewDeclarator(tr.NewIdent("a"), ast.NoNodeID),
		tr.NewDeclarator(tr.NewIdent("b"), ast.NoNodeID))
	loop := tr.New(ast.NodeForOf, &ast.ForEachData{Left: left, Right: tr.NewIdent("xs"), Body: tr.NewEmpty()})
	root := program(tr, loop)

	bag := diag.NewBag(10)
	err := lower.Lower(tr, root, lower.Options{Reporter: &diag.BagReporter{Bag: bag}})
	be.Err(t, err, lower.ErrUnsupportedTarget)
	be.Equal(t, bag.Len(), 1)
	be.Equal(t, bag.Items()[0].Code, diag.LowUnsupportedForOfTarget)
	be.True(t, strings.Contains(bag.Items()[0].Message, "2 declarators"))
}

func TestNamer(t *testing.T) {
	tr := ast.NewTree(1, 0)
	root := program(tr,
		tr.NewExprStmt(tr.NewIdent("$callee")),
		tr.NewExprStmt(tr.NewIdent("$ctx0")),
	)
	n := lower.NewNamer(tr, root)

	be.Equal(t, n.Fresh("$callee"), "$callee1")
	be.Equal(t, n.Fresh("$callee"), "$callee2")
	be.Equal(t, n.Fresh("$args"), "$args")
	be.Equal(t, n.Context(), "$ctx1")
	be.Equal(t, n.Context(), "$ctx2")

	scope := ast.NewScope(tr, root, nil)
	be.Equal(t, n.Temporary(scope), "t$0$0")
	be.Equal(t, n.Temporary(scope), "t$0$1")
	be.True(t, scope.Declares("t$0$1"))
}

func TestForOfWithoutScopeRoot(t *testing.T) {
	const loop = `{"type": "ForOfStatement",
	  "left": {"type": "Identifier", "name": "x"},
	  "right": {"type": "Identifier", "name": "xs"},
	  "body": {"type": "ExpressionStatement", "expression": {"type": "Identifier", "name": "x"}}}`
	inputs := map[string]string{
		"block":  `{"type": "BlockStatement", "body": [` + loop + `]}`,
		"for-of": loop,
	}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			tr, root, err := estree.DecodeBytes([]byte(input), 1)
			be.Err(t, err, nil)
			be.Err(t, lower.Lower(tr, root, lower.Options{}), nil)
			got := tr.Source(root)
			be.True(t, strings.Contains(got, "for (var t$0$0 = wrapGenerator.values(xs), t$0$1; !(t$0$1 = t$0$0.next()).done;) {"))
			be.True(t, strings.Contains(got, "x = t$0$1.value;"))
			be.Err(t, testkit.CheckTree(tr, root), nil)
		})
	}
}

// capturingLoop builds `for (<kind> x of xs) fns.push(function () { return x; });`.
func capturingLoop(tr *ast.Tree, kind ast.VarKind) ast.NodeID {
	closure := tr.NewFuncExpr("", nil, tr.NewBlock(tr.NewReturn(tr.NewIdent("x"))))
	push := tr.NewExprStmt(tr.NewCall(tr.NewMember(tr.NewIdent("fns"), "push"), closure))
	return forOf(tr, kind, "x", tr.NewIdent("xs"), push)
}

func TestForOfWithoutLeapKeepsBlockScope(t *testing.T) {
	for _, kind := range []ast.VarKind{ast.VarLet, ast.VarConst} {
		tr := ast.NewTree(1, 0)
		fns := tr.NewVarDecl(ast.VarVar, tr.NewDeclarator(tr.NewIdent("fns"), tr.NewArray()))
		first := tr.NewExprStmt(yield(tr, tr.NewCall(tr.NewIndex(tr.NewIdent("fns"), tr.NewNumber(0)))))
		root := program(tr, generator(tr, "g", []ast.NodeID{tr.NewIdent("xs")}, fns, capturingLoop(tr, kind), first))

		be.Err(t, lower.Lower(tr, root, lower.Options{}), nil)
		got := tr.Source(root)
		be.True(t, strings.Contains(got, "for (let x, t$1$0 = wrapGenerator.values(xs), t$1$1; !(t$1$1 = t$1$0.next()).done;) {"))
		be.True(t, strings.Contains(got, "  var fns;\n"))
		be.True(t, !strings.Contains(got, "var fns, x"))
		be.Err(t, testkit.CheckTree(tr, root), nil)
	}
}

func TestArgumentsInParameterDefaultStayOnOuterFunction(t *testing.T) {
	tr := ast.NewTree(1, 0)
	def := tr.NewMember(tr.NewIdent("arguments"), "length")
	param := tr.New(ast.NodeAssignPattern, &ast.AssignPatternData{Left: tr.NewIdent("a"), Right: def})
	ret := tr.NewReturn(tr.NewIndex(tr.NewIdent("arguments"), tr.NewNumber(0)))
	root := program(tr, generator(tr, "f", []ast.NodeID{param}, ret))

	be.Err(t, lower.Lower(tr, root, lower.Options{}), nil)
	m, _ := tr.Member(def)
	be.Equal(t, tr.Name(m.Object), "arguments")
	got := tr.Source(root)
	be.True(t, strings.Contains(got, "var $args = arguments;"))
	be.True(t, strings.Contains(got, `abrupt("return", $args[0])`))
}

func TestTopLevelLexicalsBecomeVar(t *testing.T) {
	tr := ast.NewTree(1, 0)
	decl := tr.NewVarDecl(ast.VarConst, tr.NewDeclarator(tr.NewIdent("a"), tr.NewNumber(1)))
	use := tr.NewExprStmt(yield(tr, tr.NewIdent("a")))
	root := program(tr, generator(tr, "g", nil, decl, use))

	be.Err(t, lower.Lower(tr, root, lower.Options{}), nil)
	got := tr.Source(root)
	be.True(t, strings.Contains(got, "  var a;\n"))
	be.True(t, strings.Contains(got, "a = 1;"))
	be.True(t, !strings.Contains(got, "const "))
	be.Err(t, testkit.CheckTree(tr, root), nil)
}

func TestLexicalShadowingGeneratorIsRejected(t *testing.T) {
	tr := ast.NewTree(1, 0)
	decl := tr.NewVarDecl(ast.VarLet, tr.NewDeclarator(tr.NewIdent("g"), yield(tr, ast.NoNodeID)))
	root := program(tr, generator(tr, "g", nil, decl))

	bag := diag.NewBag(10)
	err := lower.Lower(tr, root, lower.Options{Reporter: &diag.BagReporter{Bag: bag}})
	be.True(t, err != nil)
	be.Equal(t, bag.Items()[0].Code, diag.LowUnsupportedStatement)
}
