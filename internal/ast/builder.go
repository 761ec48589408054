package ast

// Node constructors used by the lowering passes. Every call allocates fresh
// nodes; callers must never reuse a NodeID in two parent slots.

func (t *Tree) NewIdent(name string) NodeID {
	return t.New(NodeIdent, &IdentData{Name: name})
}

func (t *Tree) NewString(s string) NodeID {
	return t.New(NodeLiteral, &LiteralData{Kind: LitString, String: s})
}

func (t *Tree) NewNumber(v float64) NodeID {
	return t.New(NodeLiteral, &LiteralData{Kind: LitNumber, Number: v})
}

func (t *Tree) NewNull() NodeID {
	return t.New(NodeLiteral, &LiteralData{Kind: LitNull})
}

func (t *Tree) NewThis() NodeID {
	return t.New(NodeThis, &ThisData{})
}

func (t *Tree) NewEmpty() NodeID {
	return t.New(NodeEmpty, &EmptyData{})
}

// NewMember builds the non-computed access obj.name.
func (t *Tree) NewMember(obj NodeID, name string) NodeID {
	return t.New(NodeMember, &MemberData{Object: obj, Property: t.NewIdent(name)})
}

// NewIndex builds the computed access obj[prop].
func (t *Tree) NewIndex(obj, prop NodeID) NodeID {
	return t.New(NodeMember, &MemberData{Object: obj, Property: prop, Computed: true})
}

func (t *Tree) NewCall(callee NodeID, args ...NodeID) NodeID {
	return t.New(NodeCall, &CallData{Callee: callee, Args: append([]NodeID(nil), args...)})
}

func (t *Tree) NewAssign(op string, left, right NodeID) NodeID {
	return t.New(NodeAssign, &AssignData{Op: op, Left: left, Right: right})
}

func (t *Tree) NewUnary(op string, arg NodeID) NodeID {
	return t.New(NodeUnary, &UnaryData{Op: op, Arg: arg})
}

func (t *Tree) NewBinary(op string, left, right NodeID) NodeID {
	return t.New(NodeBinary, &BinaryData{Op: op, Left: left, Right: right})
}

func (t *Tree) NewSequence(exprs ...NodeID) NodeID {
	return t.New(NodeSequence, &SequenceData{Exprs: append([]NodeID(nil), exprs...)})
}

func (t *Tree) NewArray(elems ...NodeID) NodeID {
	return t.New(NodeArray, &ArrayData{Elements: append([]NodeID(nil), elems...)})
}

func (t *Tree) NewExprStmt(expr NodeID) NodeID {
	return t.New(NodeExprStmt, &ExprStmtData{Expr: expr})
}

func (t *Tree) NewReturn(arg NodeID) NodeID {
	return t.New(NodeReturn, &ReturnData{Arg: arg})
}

func (t *Tree) NewThrow(arg NodeID) NodeID {
	return t.New(NodeThrow, &ThrowData{Arg: arg})
}

func (t *Tree) NewBreak(label string) NodeID {
	return t.New(NodeBreak, &JumpData{Label: label})
}

func (t *Tree) NewBlock(stmts ...NodeID) NodeID {
	return t.New(NodeBlock, &BlockData{Body: append([]NodeID{}, stmts...)})
}

func (t *Tree) NewIf(test, cons, alt NodeID) NodeID {
	return t.New(NodeIf, &IfData{Test: test, Cons: cons, Alt: alt})
}

func (t *Tree) NewWhile(test, body NodeID) NodeID {
	return t.New(NodeWhile, &WhileData{Test: test, Body: body})
}

func (t *Tree) NewFor(init, test, update, body NodeID) NodeID {
	return t.New(NodeFor, &ForData{Init: init, Test: test, Update: update, Body: body})
}

func (t *Tree) NewSwitch(disc NodeID, cases ...NodeID) NodeID {
	return t.New(NodeSwitch, &SwitchData{Disc: disc, Cases: append([]NodeID(nil), cases...)})
}

func (t *Tree) NewCase(test NodeID, cons ...NodeID) NodeID {
	return t.New(NodeCase, &CaseData{Test: test, Cons: append([]NodeID{}, cons...)})
}

func (t *Tree) NewVarDecl(kind VarKind, decls ...NodeID) NodeID {
	return t.New(NodeVarDecl, &VarDeclData{Kind: kind, Decls: append([]NodeID{}, decls...)})
}

func (t *Tree) NewDeclarator(id, init NodeID) NodeID {
	return t.New(NodeDeclarator, &DeclaratorData{ID: id, Init: init})
}

// NewFuncExpr builds `function name(params) body`; name may be "".
func (t *Tree) NewFuncExpr(name string, params []NodeID, body NodeID) NodeID {
	fn := &FunctionData{Params: append([]NodeID{}, params...), Body: body}
	if name != "" {
		fn.ID = t.NewIdent(name)
	}
	return t.New(NodeFuncExpr, fn)
}
