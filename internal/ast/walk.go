//nolint:errcheck // payload types are fixed by Kind; the assertions are checked by construction.
package ast

import "fmt"

// Slots returns pointers to every valid child slot of id in evaluation
// order. Writing through a slot re-parents the child; the pointers stay
// valid until the owning list is resized.
func (t *Tree) Slots(id NodeID) []*NodeID {
	n := t.Get(id)
	if n == nil {
		return nil
	}
	var out []*NodeID
	add := func(slots ...*NodeID) {
		for _, p := range slots {
			if p.IsValid() {
				out = append(out, p)
			}
		}
	}
	list := func(l []NodeID) {
		for i := range l {
			add(&l[i])
		}
	}

	switch n.Kind {
	case NodeProgram:
		list(n.Data.(*ProgramData).Body)
	case NodeBlock:
		list(n.Data.(*BlockData).Body)
	case NodeEmpty, NodeBreak, NodeContinue, NodeIdent, NodeLiteral, NodeThis:
	case NodeExprStmt:
		d := n.Data.(*ExprStmtData)
		add(&d.Expr)
	case NodeVarDecl:
		list(n.Data.(*VarDeclData).Decls)
	case NodeDeclarator:
		d := n.Data.(*DeclaratorData)
		add(&d.ID, &d.Init)
	case NodeReturn:
		d := n.Data.(*ReturnData)
		add(&d.Arg)
	case NodeIf:
		d := n.Data.(*IfData)
		add(&d.Test, &d.Cons, &d.Alt)
	case NodeFor:
		d := n.Data.(*ForData)
		add(&d.Init, &d.Test, &d.Update, &d.Body)
	case NodeForIn, NodeForOf:
		d := n.Data.(*ForEachData)
		add(&d.Left, &d.Right, &d.Body)
	case NodeWhile:
		d := n.Data.(*WhileData)
		add(&d.Test, &d.Body)
	case NodeDoWhile:
		d := n.Data.(*WhileData)
		add(&d.Body, &d.Test)
	case NodeLabeled:
		d := n.Data.(*LabeledData)
		add(&d.Body)
	case NodeThrow:
		d := n.Data.(*ThrowData)
		add(&d.Arg)
	case NodeTry:
		d := n.Data.(*TryData)
		add(&d.Block, &d.Handler, &d.Finalizer)
	case NodeCatch:
		d := n.Data.(*CatchData)
		add(&d.Param, &d.Body)
	case NodeSwitch:
		d := n.Data.(*SwitchData)
		add(&d.Disc)
		list(d.Cases)
	case NodeCase:
		d := n.Data.(*CaseData)
		add(&d.Test)
		list(d.Cons)
	case NodeFuncDecl, NodeFuncExpr, NodeArrow:
		d := n.Data.(*FunctionData)
		add(&d.ID)
		list(d.Params)
		add(&d.Body)
	case NodeClassDecl, NodeClassExpr:
		d := n.Data.(*ClassData)
		add(&d.ID, &d.Super)
		list(d.Members)
	case NodeMethod:
		d := n.Data.(*MethodData)
		add(&d.Key, &d.Value)
	case NodeArray, NodeArrayPattern:
		list(n.Data.(*ArrayData).Elements)
	case NodeObject, NodeObjectPattern:
		list(n.Data.(*ObjectData).Props)
	case NodeProperty:
		d := n.Data.(*PropertyData)
		add(&d.Key, &d.Value)
	case NodeMember:
		d := n.Data.(*MemberData)
		add(&d.Object, &d.Property)
	case NodeCall, NodeNew:
		d := n.Data.(*CallData)
		add(&d.Callee)
		list(d.Args)
	case NodeAssign:
		d := n.Data.(*AssignData)
		add(&d.Left, &d.Right)
	case NodeUnary:
		d := n.Data.(*UnaryData)
		add(&d.Arg)
	case NodeUpdate:
		d := n.Data.(*UpdateData)
		add(&d.Arg)
	case NodeBinary, NodeLogical:
		d := n.Data.(*BinaryData)
		add(&d.Left, &d.Right)
	case NodeConditional:
		d := n.Data.(*ConditionalData)
		add(&d.Test, &d.Cons, &d.Alt)
	case NodeSequence:
		list(n.Data.(*SequenceData).Exprs)
	case NodeYield:
		d := n.Data.(*YieldData)
		add(&d.Arg)
	case NodeSpread, NodeRest:
		d := n.Data.(*SpreadData)
		add(&d.Arg)
	case NodeAssignPattern:
		d := n.Data.(*AssignPatternData)
		add(&d.Left, &d.Right)
	default:
		panic(fmt.Sprintf("ast: slots of unknown node kind %d", n.Kind))
	}
	return out
}

// Children returns the child IDs of id in evaluation order.
func (t *Tree) Children(id NodeID) []NodeID {
	slots := t.Slots(id)
	out := make([]NodeID, len(slots))
	for i, p := range slots {
		out[i] = *p
	}
	return out
}

// Walk visits id and its descendants in preorder. Returning false from fn
// skips the children of the node just visited.
func (t *Tree) Walk(id NodeID, fn func(id NodeID) bool) {
	if !id.IsValid() || !fn(id) {
		return
	}
	for _, c := range t.Children(id) {
		t.Walk(c, fn)
	}
}

// PatternNames returns the binding names introduced by a pattern, in order.
func (t *Tree) PatternNames(id NodeID) []string {
	var names []string
	var collect func(NodeID)
	collect = func(p NodeID) {
		n := t.Get(p)
		if n == nil {
			return
		}
		switch n.Kind {
		case NodeIdent:
			names = append(names, n.Data.(*IdentData).Name)
		case NodeArrayPattern:
			for _, e := range n.Data.(*ArrayData).Elements {
				collect(e)
			}
		case NodeObjectPattern:
			for _, prop := range n.Data.(*ObjectData).Props {
				if pd, ok := t.Property(prop); ok {
					collect(pd.Value)
				} else {
					collect(prop)
				}
			}
		case NodeAssignPattern:
			collect(n.Data.(*AssignPatternData).Left)
		case NodeRest:
			collect(n.Data.(*SpreadData).Arg)
		}
	}
	collect(id)
	return names
}
