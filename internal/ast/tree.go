package ast

import (
	"slices"

	"regen/internal/source"
)

// Tree owns every node of one input. Children are referenced by NodeID.
type Tree struct {
	Nodes *Arena[Node]
	File  source.FileID
}

// NewTree creates an empty tree; capHint sizes the node arena.
func NewTree(file source.FileID, capHint uint) *Tree {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Tree{
		Nodes: NewArena[Node](capHint),
		File:  file,
	}
}

// New allocates a node without position information.
func (t *Tree) New(kind NodeKind, data NodeData) NodeID {
	return NodeID(t.Nodes.Allocate(Node{Kind: kind, Span: source.Span{File: t.File}, Data: data}))
}

// NewAt allocates a node at the given position.
func (t *Tree) NewAt(kind NodeKind, span source.Span, loc source.LineCol, data NodeData) NodeID {
	return NodeID(t.Nodes.Allocate(Node{Kind: kind, Span: span, Loc: loc, Data: data}))
}

// Get returns the node with the given ID, or nil.
func (t *Tree) Get(id NodeID) *Node {
	return t.Nodes.Get(uint32(id))
}

// Kind returns the kind of id, NodeInvalid when id is not valid.
func (t *Tree) Kind(id NodeID) NodeKind {
	n := t.Get(id)
	if n == nil {
		return NodeInvalid
	}
	return n.Kind
}

// Replace overwrites the node stored at id. Every slot referring to id now
// sees the replacement.
func (t *Tree) Replace(id NodeID, n Node) {
	t.Nodes.Set(uint32(id), n)
}

// Move copies the node at id into a fresh slot and returns the new ID. The
// payload is shared, so the caller is expected to Replace id afterwards.
func (t *Tree) Move(id NodeID) NodeID {
	n := t.Get(id)
	if n == nil {
		return NoNodeID
	}
	return NodeID(t.Nodes.Allocate(*n))
}

// Position copies span and location of from onto id.
func (t *Tree) Position(id, from NodeID) NodeID {
	dst, src := t.Get(id), t.Get(from)
	if dst != nil && src != nil {
		dst.Span = src.Span
		dst.Loc = src.Loc
	}
	return id
}

// Name returns the identifier name of id, or "" when id is not an identifier.
func (t *Tree) Name(id NodeID) string {
	if d, ok := t.Ident(id); ok {
		return d.Name
	}
	return ""
}

// StmtList returns the statement list held by a Program, Block or Case.
func (t *Tree) StmtList(id NodeID) (*[]NodeID, bool) {
	n := t.Get(id)
	if n == nil {
		return nil, false
	}
	switch d := n.Data.(type) {
	case *ProgramData:
		return &d.Body, true
	case *BlockData:
		return &d.Body, true
	case *CaseData:
		return &d.Cons, true
	}
	return nil, false
}

// InsertAt inserts id into list before position i; i == len(list) appends.
func InsertAt(list []NodeID, i int, id NodeID) []NodeID {
	return slices.Insert(list, i, id)
}

func payload[T any](t *Tree, id NodeID, kinds ...NodeKind) (*T, bool) {
	n := t.Get(id)
	if n == nil || !slices.Contains(kinds, n.Kind) {
		return nil, false
	}
	d, ok := any(n.Data).(*T)
	return d, ok
}

func (t *Tree) Program(id NodeID) (*ProgramData, bool) {
	return payload[ProgramData](t, id, NodeProgram)
}

func (t *Tree) Block(id NodeID) (*BlockData, bool) {
	return payload[BlockData](t, id, NodeBlock)
}

func (t *Tree) ExprStmt(id NodeID) (*ExprStmtData, bool) {
	return payload[ExprStmtData](t, id, NodeExprStmt)
}

func (t *Tree) VarDecl(id NodeID) (*VarDeclData, bool) {
	return payload[VarDeclData](t, id, NodeVarDecl)
}

func (t *Tree) Declarator(id NodeID) (*DeclaratorData, bool) {
	return payload[DeclaratorData](t, id, NodeDeclarator)
}

func (t *Tree) Return(id NodeID) (*ReturnData, bool) {
	return payload[ReturnData](t, id, NodeReturn)
}

func (t *Tree) If(id NodeID) (*IfData, bool) {
	return payload[IfData](t, id, NodeIf)
}

func (t *Tree) For(id NodeID) (*ForData, bool) {
	return payload[ForData](t, id, NodeFor)
}

// ForEach returns the payload of a for-in or for-of loop.
func (t *Tree) ForEach(id NodeID) (*ForEachData, bool) {
	return payload[ForEachData](t, id, NodeForIn, NodeForOf)
}

// While returns the payload of a while or do-while loop.
func (t *Tree) While(id NodeID) (*WhileData, bool) {
	return payload[WhileData](t, id, NodeWhile, NodeDoWhile)
}

func (t *Tree) Labeled(id NodeID) (*LabeledData, bool) {
	return payload[LabeledData](t, id, NodeLabeled)
}

// Jump returns the payload of a break or continue statement.
func (t *Tree) Jump(id NodeID) (*JumpData, bool) {
	return payload[JumpData](t, id, NodeBreak, NodeContinue)
}

func (t *Tree) Throw(id NodeID) (*ThrowData, bool) {
	return payload[ThrowData](t, id, NodeThrow)
}

func (t *Tree) Try(id NodeID) (*TryData, bool) {
	return payload[TryData](t, id, NodeTry)
}

func (t *Tree) Catch(id NodeID) (*CatchData, bool) {
	return payload[CatchData](t, id, NodeCatch)
}

func (t *Tree) Switch(id NodeID) (*SwitchData, bool) {
	return payload[SwitchData](t, id, NodeSwitch)
}

func (t *Tree) Case(id NodeID) (*CaseData, bool) {
	return payload[CaseData](t, id, NodeCase)
}

// Function returns the payload of any function-like node.
func (t *Tree) Function(id NodeID) (*FunctionData, bool) {
	return payload[FunctionData](t, id, NodeFuncDecl, NodeFuncExpr, NodeArrow)
}

func (t *Tree) Class(id NodeID) (*ClassData, bool) {
	return payload[ClassData](t, id, NodeClassDecl, NodeClassExpr)
}

func (t *Tree) Method(id NodeID) (*MethodData, bool) {
	return payload[MethodData](t, id, NodeMethod)
}

func (t *Tree) Ident(id NodeID) (*IdentData, bool) {
	return payload[IdentData](t, id, NodeIdent)
}

func (t *Tree) Literal(id NodeID) (*LiteralData, bool) {
	return payload[LiteralData](t, id, NodeLiteral)
}

// Array returns the payload of an array literal or array pattern.
func (t *Tree) Array(id NodeID) (*ArrayData, bool) {
	return payload[ArrayData](t, id, NodeArray, NodeArrayPattern)
}

// Object returns the payload of an object literal or object pattern.
func (t *Tree) Object(id NodeID) (*ObjectData, bool) {
	return payload[ObjectData](t, id, NodeObject, NodeObjectPattern)
}

func (t *Tree) Property(id NodeID) (*PropertyData, bool) {
	return payload[PropertyData](t, id, NodeProperty)
}

func (t *Tree) Member(id NodeID) (*MemberData, bool) {
	return payload[MemberData](t, id, NodeMember)
}

// Call returns the payload of a call or new expression.
func (t *Tree) Call(id NodeID) (*CallData, bool) {
	return payload[CallData](t, id, NodeCall, NodeNew)
}

func (t *Tree) Assign(id NodeID) (*AssignData, bool) {
	return payload[AssignData](t, id, NodeAssign)
}

func (t *Tree) Unary(id NodeID) (*UnaryData, bool) {
	return payload[UnaryData](t, id, NodeUnary)
}

func (t *Tree) Update(id NodeID) (*UpdateData, bool) {
	return payload[UpdateData](t, id, NodeUpdate)
}

// Binary returns the payload of a binary or logical expression.
func (t *Tree) Binary(id NodeID) (*BinaryData, bool) {
	return payload[BinaryData](t, id, NodeBinary, NodeLogical)
}

func (t *Tree) Conditional(id NodeID) (*ConditionalData, bool) {
	return payload[ConditionalData](t, id, NodeConditional)
}

func (t *Tree) Sequence(id NodeID) (*SequenceData, bool) {
	return payload[SequenceData](t, id, NodeSequence)
}

func (t *Tree) Yield(id NodeID) (*YieldData, bool) {
	return payload[YieldData](t, id, NodeYield)
}

// Spread returns the payload of a spread element or rest element.
func (t *Tree) Spread(id NodeID) (*SpreadData, bool) {
	return payload[SpreadData](t, id, NodeSpread, NodeRest)
}

func (t *Tree) AssignPattern(id NodeID) (*AssignPatternData, bool) {
	return payload[AssignPatternData](t, id, NodeAssignPattern)
}
