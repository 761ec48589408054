//nolint:errcheck // payload types are fixed by Kind; the assertions are checked by construction.
package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Operator precedence levels used to decide where parentheses are needed.
const (
	precLowest = iota
	precSequence
	precAssign
	precConditional
	precNullish
	precLogicalOr
	precLogicalAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
	precExponent
	precPrefix
	precPostfix
	precCall
	precPrimary
)

var binaryPrec = map[string]int{
	"??": precNullish,
	"||": precLogicalOr, "&&": precLogicalAnd,
	"|": precBitOr, "^": precBitXor, "&": precBitAnd,
	"==": precEquality, "!=": precEquality, "===": precEquality, "!==": precEquality,
	"<": precRelational, ">": precRelational, "<=": precRelational, ">=": precRelational,
	"instanceof": precRelational, "in": precRelational,
	"<<": precShift, ">>": precShift, ">>>": precShift,
	"+": precAdditive, "-": precAdditive,
	"*": precMultiplicative, "/": precMultiplicative, "%": precMultiplicative,
	"**": precExponent,
}

// Printer renders a tree as JavaScript-like source text. The output is
// meant for tests and inspection; it is stable but not minimal.
type Printer struct {
	w      io.Writer
	tree   *Tree
	indent int
	err    error
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer, t *Tree) *Printer {
	return &Printer{w: w, tree: t}
}

// Dump writes the subtree rooted at id to w.
func Dump(w io.Writer, t *Tree, id NodeID) error {
	p := NewPrinter(w, t)
	p.Print(id)
	return p.err
}

// Source returns the printed form of the subtree rooted at id.
func (t *Tree) Source(id NodeID) string {
	var sb strings.Builder
	_ = Dump(&sb, t, id)
	return sb.String()
}

// Print writes id as a statement list, a statement or an expression
// depending on its kind.
func (p *Printer) Print(id NodeID) {
	switch k := p.tree.Kind(id); {
	case k == NodeProgram:
		d, _ := p.tree.Program(id)
		p.stmtList(d.Body)
	case isStatement(k):
		p.line(id)
	default:
		p.expr(id, precLowest)
	}
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) write(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *Printer) pad() {
	p.write(strings.Repeat("  ", p.indent))
}

func isStatement(k NodeKind) bool {
	switch k {
	case NodeBlock, NodeEmpty, NodeExprStmt, NodeVarDecl, NodeReturn, NodeIf,
		NodeFor, NodeForIn, NodeForOf, NodeWhile, NodeDoWhile, NodeLabeled,
		NodeBreak, NodeContinue, NodeThrow, NodeTry, NodeSwitch, NodeFuncDecl,
		NodeClassDecl:
		return true
	}
	return false
}

func (p *Printer) stmtList(list []NodeID) {
	for _, id := range list {
		p.line(id)
	}
}

// line prints comments, indentation, the statement and a newline.
func (p *Printer) line(id NodeID) {
	if n := p.tree.Get(id); n != nil {
		for _, c := range n.Comments {
			p.pad()
			if c.Kind == CommentBlock {
				p.printf("/*%s*/\n", c.Text)
			} else {
				p.printf("//%s\n", c.Text)
			}
		}
	}
	p.pad()
	p.stmt(id)
	p.write("\n")
}

func (p *Printer) block(list []NodeID) {
	if len(list) == 0 {
		p.write("{}")
		return
	}
	p.write("{\n")
	p.indent++
	p.stmtList(list)
	p.indent--
	p.pad()
	p.write("}")
}

func (p *Printer) stmt(id NodeID) {
	t := p.tree
	n := t.Get(id)
	if n == nil {
		p.write(";")
		return
	}
	switch n.Kind {
	case NodeBlock:
		p.block(n.Data.(*BlockData).Body)
	case NodeEmpty:
		p.write(";")
	case NodeExprStmt:
		d := n.Data.(*ExprStmtData)
		if p.needsStmtParens(d.Expr) {
			p.write("(")
			p.expr(d.Expr, precLowest)
			p.write(")")
		} else {
			p.expr(d.Expr, precLowest)
		}
		p.write(";")
	case NodeVarDecl:
		p.varDecl(id)
		p.write(";")
	case NodeReturn:
		d := n.Data.(*ReturnData)
		p.write("return")
		if d.Arg.IsValid() {
			p.write(" ")
			p.expr(d.Arg, precLowest)
		}
		p.write(";")
	case NodeIf:
		d := n.Data.(*IfData)
		p.write("if (")
		p.expr(d.Test, precLowest)
		p.write(") ")
		p.stmt(d.Cons)
		if d.Alt.IsValid() {
			p.write(" else ")
			p.stmt(d.Alt)
		}
	case NodeFor:
		d := n.Data.(*ForData)
		p.write("for (")
		if t.Kind(d.Init) == NodeVarDecl {
			p.varDecl(d.Init)
		} else if d.Init.IsValid() {
			p.expr(d.Init, precLowest)
		}
		p.write(";")
		if d.Test.IsValid() {
			p.write(" ")
			p.expr(d.Test, precLowest)
		}
		p.write(";")
		if d.Update.IsValid() {
			p.write(" ")
			p.expr(d.Update, precLowest)
		}
		p.write(") ")
		p.stmt(d.Body)
	case NodeForIn, NodeForOf:
		d := n.Data.(*ForEachData)
		p.write("for (")
		if t.Kind(d.Left) == NodeVarDecl {
			p.varDecl(d.Left)
		} else {
			p.expr(d.Left, precCall)
		}
		if n.Kind == NodeForIn {
			p.write(" in ")
		} else {
			p.write(" of ")
		}
		p.expr(d.Right, precAssign)
		p.write(") ")
		p.stmt(d.Body)
	case NodeWhile:
		d := n.Data.(*WhileData)
		p.write("while (")
		p.expr(d.Test, precLowest)
		p.write(") ")
		p.stmt(d.Body)
	case NodeDoWhile:
		d := n.Data.(*WhileData)
		p.write("do ")
		p.stmt(d.Body)
		p.write(" while (")
		p.expr(d.Test, precLowest)
		p.write(");")
	case NodeLabeled:
		d := n.Data.(*LabeledData)
		p.printf("%s: ", d.Label)
		p.stmt(d.Body)
	case NodeBreak, NodeContinue:
		d := n.Data.(*JumpData)
		if n.Kind == NodeBreak {
			p.write("break")
		} else {
			p.write("continue")
		}
		if d.Label != "" {
			p.printf(" %s", d.Label)
		}
		p.write(";")
	case NodeThrow:
		p.write("throw ")
		p.expr(n.Data.(*ThrowData).Arg, precLowest)
		p.write(";")
	case NodeTry:
		d := n.Data.(*TryData)
		p.write("try ")
		p.stmt(d.Block)
		if c, ok := t.Catch(d.Handler); ok {
			p.write(" catch ")
			if c.Param.IsValid() {
				p.write("(")
				p.expr(c.Param, precLowest)
				p.write(") ")
			}
			p.stmt(c.Body)
		}
		if d.Finalizer.IsValid() {
			p.write(" finally ")
			p.stmt(d.Finalizer)
		}
	case NodeSwitch:
		d := n.Data.(*SwitchData)
		p.write("switch (")
		p.expr(d.Disc, precLowest)
		p.write(") {\n")
		p.indent++
		for _, cid := range d.Cases {
			c, ok := t.Case(cid)
			if !ok {
				continue
			}
			p.pad()
			if c.Test.IsValid() {
				p.write("case ")
				p.expr(c.Test, precLowest)
				p.write(":\n")
			} else {
				p.write("default:\n")
			}
			p.indent++
			p.stmtList(c.Cons)
			p.indent--
		}
		p.indent--
		p.pad()
		p.write("}")
	case NodeFuncDecl:
		p.function(id)
	case NodeClassDecl:
		p.class(id)
	default:
		p.expr(id, precLowest)
		p.write(";")
	}
}

// needsStmtParens reports whether an expression statement would otherwise
// start with `function`, `class` or `{`.
func (p *Printer) needsStmtParens(id NodeID) bool {
	switch p.tree.Kind(id) {
	case NodeFuncExpr, NodeObject, NodeClassExpr:
		return true
	case NodeAssign:
		d, _ := p.tree.Assign(id)
		return p.tree.Kind(d.Left) == NodeObjectPattern
	}
	return false
}

func (p *Printer) varDecl(id NodeID) {
	d, ok := p.tree.VarDecl(id)
	if !ok {
		return
	}
	p.write(d.Kind.String())
	for i, decl := range d.Decls {
		if i == 0 {
			p.write(" ")
		} else {
			p.write(", ")
		}
		dd, ok := p.tree.Declarator(decl)
		if !ok {
			continue
		}
		p.expr(dd.ID, precAssign)
		if dd.Init.IsValid() {
			p.write(" = ")
			p.expr(dd.Init, precAssign)
		}
	}
}

func (p *Printer) params(list []NodeID) {
	p.write("(")
	p.exprList(list)
	p.write(")")
}

func (p *Printer) exprList(list []NodeID) {
	for i, e := range list {
		if i > 0 {
			p.write(", ")
		}
		p.expr(e, precAssign)
	}
}

func (p *Printer) functionBody(fn *FunctionData) {
	if fn.Expression {
		if p.tree.Kind(fn.Body) == NodeObject {
			p.write("(")
			p.expr(fn.Body, precLowest)
			p.write(")")
			return
		}
		p.expr(fn.Body, precAssign)
		return
	}
	b, ok := p.tree.Block(fn.Body)
	if !ok {
		p.write("{}")
		return
	}
	p.block(b.Body)
}

func (p *Printer) function(id NodeID) {
	fn, ok := p.tree.Function(id)
	if !ok {
		return
	}
	if fn.Async {
		p.write("async ")
	}
	p.write("function")
	if fn.Generator {
		p.write("*")
	}
	if name := p.tree.Name(fn.ID); name != "" {
		p.printf(" %s", name)
	}
	p.params(fn.Params)
	p.write(" ")
	p.functionBody(fn)
}

func (p *Printer) arrow(id NodeID) {
	fn, _ := p.tree.Function(id)
	if fn.Async {
		p.write("async ")
	}
	p.params(fn.Params)
	p.write(" => ")
	p.functionBody(fn)
}

func (p *Printer) class(id NodeID) {
	c, ok := p.tree.Class(id)
	if !ok {
		return
	}
	p.write("class")
	if name := p.tree.Name(c.ID); name != "" {
		p.printf(" %s", name)
	}
	if c.Super.IsValid() {
		p.write(" extends ")
		p.expr(c.Super, precCall)
	}
	if len(c.Members) == 0 {
		p.write(" {}")
		return
	}
	p.write(" {\n")
	p.indent++
	for _, mid := range c.Members {
		m, ok := p.tree.Method(mid)
		if !ok {
			continue
		}
		p.pad()
		if m.Static {
			p.write("static ")
		}
		switch m.Kind {
		case MethodGet:
			p.write("get ")
		case MethodSet:
			p.write("set ")
		}
		p.methodTail(m.Key, m.Value, m.Computed)
		p.write("\n")
	}
	p.indent--
	p.pad()
	p.write("}")
}

// methodTail prints `key(params) {body}` for methods and accessors.
func (p *Printer) methodTail(key, value NodeID, computed bool) {
	fn, ok := p.tree.Function(value)
	if ok && fn.Async {
		p.write("async ")
	}
	if ok && fn.Generator {
		p.write("*")
	}
	p.propKey(key, computed)
	if !ok {
		p.write("() {}")
		return
	}
	p.params(fn.Params)
	p.write(" ")
	p.functionBody(fn)
}

func (p *Printer) propKey(key NodeID, computed bool) {
	if computed {
		p.write("[")
		p.expr(key, precAssign)
		p.write("]")
		return
	}
	p.expr(key, precPrimary)
}

func (p *Printer) exprPrec(id NodeID) int {
	n := p.tree.Get(id)
	if n == nil {
		return precPrimary
	}
	switch n.Kind {
	case NodeSequence:
		return precSequence
	case NodeAssign, NodeYield, NodeArrow, NodeAssignPattern:
		return precAssign
	case NodeConditional:
		return precConditional
	case NodeBinary, NodeLogical:
		if prec, ok := binaryPrec[n.Data.(*BinaryData).Op]; ok {
			return prec
		}
		return precRelational
	case NodeUnary:
		return precPrefix
	case NodeUpdate:
		if n.Data.(*UpdateData).Prefix {
			return precPrefix
		}
		return precPostfix
	case NodeCall, NodeNew, NodeMember:
		return precCall
	}
	return precPrimary
}

func (p *Printer) expr(id NodeID, minPrec int) {
	t := p.tree
	n := t.Get(id)
	if n == nil {
		p.write("<nil>")
		return
	}
	prec := p.exprPrec(id)
	if prec < minPrec {
		p.write("(")
		defer p.write(")")
	}

	switch n.Kind {
	case NodeIdent:
		p.write(n.Data.(*IdentData).Name)
	case NodeLiteral:
		p.literal(n.Data.(*LiteralData))
	case NodeThis:
		p.write("this")
	case NodeArray, NodeArrayPattern:
		d := n.Data.(*ArrayData)
		p.write("[")
		for i, e := range d.Elements {
			if i > 0 {
				p.write(", ")
			}
			if e.IsValid() {
				p.expr(e, precAssign)
			}
		}
		if l := len(d.Elements); l > 0 && !d.Elements[l-1].IsValid() {
			p.write(",")
		}
		p.write("]")
	case NodeObject, NodeObjectPattern:
		d := n.Data.(*ObjectData)
		if len(d.Props) == 0 {
			p.write("{}")
			return
		}
		p.write("{ ")
		for i, prop := range d.Props {
			if i > 0 {
				p.write(", ")
			}
			p.expr(prop, precAssign)
		}
		p.write(" }")
	case NodeProperty:
		d := n.Data.(*PropertyData)
		switch {
		case d.Kind == PropGet || d.Kind == PropSet:
			p.printf("%s ", d.Kind)
			p.methodTail(d.Key, d.Value, d.Computed)
		case d.Method:
			p.methodTail(d.Key, d.Value, d.Computed)
		case d.Shorthand:
			p.expr(d.Value, precAssign)
		default:
			p.propKey(d.Key, d.Computed)
			p.write(": ")
			p.expr(d.Value, precAssign)
		}
	case NodeMember:
		d := n.Data.(*MemberData)
		p.memberObject(d.Object)
		if d.Computed {
			p.write("[")
			p.expr(d.Property, precLowest)
			p.write("]")
		} else {
			p.write(".")
			p.expr(d.Property, precPrimary)
		}
	case NodeCall:
		d := n.Data.(*CallData)
		p.memberObject(d.Callee)
		p.params(d.Args)
	case NodeNew:
		d := n.Data.(*CallData)
		p.write("new ")
		if k := t.Kind(d.Callee); k == NodeCall {
			p.write("(")
			p.expr(d.Callee, precLowest)
			p.write(")")
		} else {
			p.memberObject(d.Callee)
		}
		p.params(d.Args)
	case NodeAssign:
		d := n.Data.(*AssignData)
		p.expr(d.Left, precCall)
		p.printf(" %s ", d.Op)
		p.expr(d.Right, precAssign)
	case NodeAssignPattern:
		d := n.Data.(*AssignPatternData)
		p.expr(d.Left, precCall)
		p.write(" = ")
		p.expr(d.Right, precAssign)
	case NodeUnary:
		d := n.Data.(*UnaryData)
		p.write(d.Op)
		if isWordOp(d.Op) {
			p.write(" ")
		}
		p.expr(d.Arg, precPrefix)
	case NodeUpdate:
		d := n.Data.(*UpdateData)
		if d.Prefix {
			p.write(d.Op)
			p.expr(d.Arg, precPrefix)
		} else {
			p.expr(d.Arg, precPostfix)
			p.write(d.Op)
		}
	case NodeBinary, NodeLogical:
		d := n.Data.(*BinaryData)
		left, right := prec, prec+1
		if d.Op == "**" {
			left, right = prec+1, prec
		}
		p.expr(d.Left, left)
		p.printf(" %s ", d.Op)
		p.expr(d.Right, right)
	case NodeConditional:
		d := n.Data.(*ConditionalData)
		p.expr(d.Test, precNullish)
		p.write(" ? ")
		p.expr(d.Cons, precAssign)
		p.write(" : ")
		p.expr(d.Alt, precAssign)
	case NodeSequence:
		d := n.Data.(*SequenceData)
		for i, e := range d.Exprs {
			if i > 0 {
				p.write(", ")
			}
			p.expr(e, precAssign)
		}
	case NodeYield:
		d := n.Data.(*YieldData)
		p.write("yield")
		if d.Delegate {
			p.write("*")
		}
		if d.Arg.IsValid() {
			p.write(" ")
			p.expr(d.Arg, precAssign)
		}
	case NodeSpread, NodeRest:
		p.write("...")
		p.expr(n.Data.(*SpreadData).Arg, precAssign)
	case NodeFuncExpr, NodeFuncDecl:
		p.function(id)
	case NodeArrow:
		p.arrow(id)
	case NodeClassExpr, NodeClassDecl:
		p.class(id)
	default:
		p.printf("<%s>", n.Kind)
	}
}

// memberObject prints the object of a member access or the callee of a call.
func (p *Printer) memberObject(id NodeID) {
	switch p.tree.Kind(id) {
	case NodeFuncExpr, NodeObject, NodeClassExpr, NodeArrow:
		p.write("(")
		p.expr(id, precLowest)
		p.write(")")
		return
	case NodeLiteral:
		if lit, _ := p.tree.Literal(id); lit.Kind == LitNumber {
			p.write("(")
			p.literal(lit)
			p.write(")")
			return
		}
	}
	p.expr(id, precCall)
}

func (p *Printer) literal(d *LiteralData) {
	switch d.Kind {
	case LitNull:
		p.write("null")
	case LitBool:
		p.write(strconv.FormatBool(d.Bool))
	case LitNumber:
		if d.Raw != "" {
			p.write(d.Raw)
			return
		}
		p.write(strconv.FormatFloat(d.Number, 'f', -1, 64))
	case LitString:
		p.write(strconv.Quote(d.String))
	case LitRegExp:
		p.printf("/%s/%s", d.String, d.Flags)
	}
}

func isWordOp(op string) bool {
	switch op {
	case "typeof", "void", "delete":
		return true
	}
	return false
}
