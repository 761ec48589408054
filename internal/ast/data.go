package ast

// ProgramData holds data for NodeProgram.
type ProgramData struct {
	Body []NodeID
}

// BlockData holds data for NodeBlock.
type BlockData struct {
	Body []NodeID
}

// EmptyData holds data for NodeEmpty.
type EmptyData struct{}

// ExprStmtData holds data for NodeExprStmt.
type ExprStmtData struct {
	Expr      NodeID
	Directive string // "use strict" и прочие директивы пролога
}

// VarDeclData holds data for NodeVarDecl.
type VarDeclData struct {
	Kind  VarKind
	Decls []NodeID // NodeDeclarator
}

// DeclaratorData holds data for NodeDeclarator.
type DeclaratorData struct {
	ID   NodeID // pattern
	Init NodeID // NoNodeID if none
}

// ReturnData holds data for NodeReturn.
type ReturnData struct {
	Arg NodeID // NoNodeID for bare return
}

// IfData holds data for NodeIf.
type IfData struct {
	Test NodeID
	Cons NodeID
	Alt  NodeID // NoNodeID if no else branch
}

// ForData holds data for NodeFor (classic three-clause loop).
type ForData struct {
	Init   NodeID // VarDecl or expression, NoNodeID if none
	Test   NodeID
	Update NodeID
	Body   NodeID
}

// ForEachData holds data for NodeForIn and NodeForOf.
type ForEachData struct {
	Left  NodeID // VarDecl or pattern
	Right NodeID
	Body  NodeID
}

// WhileData holds data for NodeWhile and NodeDoWhile.
type WhileData struct {
	Test NodeID
	Body NodeID
}

// LabeledData holds data for NodeLabeled.
type LabeledData struct {
	Label string
	Body  NodeID
}

// JumpData holds data for NodeBreak and NodeContinue.
type JumpData struct {
	Label string // "" for unlabeled
}

// ThrowData holds data for NodeThrow.
type ThrowData struct {
	Arg NodeID
}

// TryData holds data for NodeTry.
type TryData struct {
	Block     NodeID
	Handler   NodeID // NodeCatch or NoNodeID
	Finalizer NodeID // NodeBlock or NoNodeID
}

// CatchData holds data for NodeCatch.
type CatchData struct {
	Param NodeID // pattern, NoNodeID for `catch {}`
	Body  NodeID
}

// SwitchData holds data for NodeSwitch.
type SwitchData struct {
	Disc  NodeID
	Cases []NodeID // NodeCase
}

// CaseData holds data for NodeCase.
type CaseData struct {
	Test NodeID // NoNodeID for default
	Cons []NodeID
}

// FunctionData holds data for NodeFuncDecl, NodeFuncExpr and NodeArrow.
type FunctionData struct {
	ID         NodeID // NodeIdent or NoNodeID
	Params     []NodeID
	Body       NodeID // NodeBlock, or an expression when Expression is set
	Generator  bool
	Async      bool
	Expression bool // тело-выражение: function* () x или (a) => a
}

// ClassData holds data for NodeClassDecl and NodeClassExpr.
type ClassData struct {
	ID      NodeID
	Super   NodeID
	Members []NodeID // NodeMethod
}

// MethodData holds data for NodeMethod.
type MethodData struct {
	Key      NodeID
	Value    NodeID // NodeFuncExpr
	Kind     MethodKind
	Computed bool
	Static   bool
}

// IdentData holds data for NodeIdent.
type IdentData struct {
	Name string
}

// LiteralData holds data for NodeLiteral.
type LiteralData struct {
	Kind   LiteralKind
	Raw    string // исходный текст, если известен
	Bool   bool
	Number float64
	String string // string value; regexp pattern for LitRegExp
	Flags  string // regexp flags
}

// ThisData holds data for NodeThis.
type ThisData struct{}

// ArrayData holds data for NodeArray and NodeArrayPattern.
type ArrayData struct {
	Elements []NodeID // NoNodeID marks a hole
}

// ObjectData holds data for NodeObject and NodeObjectPattern.
type ObjectData struct {
	Props []NodeID // NodeProperty, NodeSpread or NodeRest
}

// PropertyData holds data for NodeProperty.
type PropertyData struct {
	Key       NodeID
	Value     NodeID
	Kind      PropKind
	Computed  bool
	Shorthand bool
	Method    bool
}

// MemberData holds data for NodeMember.
type MemberData struct {
	Object   NodeID
	Property NodeID
	Computed bool
}

// CallData holds data for NodeCall and NodeNew.
type CallData struct {
	Callee NodeID
	Args   []NodeID
}

// AssignData holds data for NodeAssign.
type AssignData struct {
	Op    string // "=", "+=", ...
	Left  NodeID
	Right NodeID
}

// UnaryData holds data for NodeUnary.
type UnaryData struct {
	Op  string
	Arg NodeID
}

// UpdateData holds data for NodeUpdate.
type UpdateData struct {
	Op     string // "++" or "--"
	Prefix bool
	Arg    NodeID
}

// BinaryData holds data for NodeBinary and NodeLogical.
type BinaryData struct {
	Op    string
	Left  NodeID
	Right NodeID
}

// ConditionalData holds data for NodeConditional.
type ConditionalData struct {
	Test NodeID
	Cons NodeID
	Alt  NodeID
}

// SequenceData holds data for NodeSequence.
type SequenceData struct {
	Exprs []NodeID
}

// YieldData holds data for NodeYield.
type YieldData struct {
	Arg      NodeID // NoNodeID for bare yield
	Delegate bool
}

// SpreadData holds data for NodeSpread and NodeRest.
type SpreadData struct {
	Arg NodeID
}

// AssignPatternData holds data for NodeAssignPattern.
type AssignPatternData struct {
	Left  NodeID
	Right NodeID
}

func (*ProgramData) nodeData()       {}
func (*BlockData) nodeData()         {}
func (*EmptyData) nodeData()         {}
func (*ExprStmtData) nodeData()      {}
func (*VarDeclData) nodeData()       {}
func (*DeclaratorData) nodeData()    {}
func (*ReturnData) nodeData()        {}
func (*IfData) nodeData()            {}
func (*ForData) nodeData()           {}
func (*ForEachData) nodeData()       {}
func (*WhileData) nodeData()         {}
func (*LabeledData) nodeData()       {}
func (*JumpData) nodeData()          {}
func (*ThrowData) nodeData()         {}
func (*TryData) nodeData()           {}
func (*CatchData) nodeData()         {}
func (*SwitchData) nodeData()        {}
func (*CaseData) nodeData()          {}
func (*FunctionData) nodeData()      {}
func (*ClassData) nodeData()         {}
func (*MethodData) nodeData()        {}
func (*IdentData) nodeData()         {}
func (*LiteralData) nodeData()       {}
func (*ThisData) nodeData()          {}
func (*ArrayData) nodeData()         {}
func (*ObjectData) nodeData()        {}
func (*PropertyData) nodeData()      {}
func (*MemberData) nodeData()        {}
func (*CallData) nodeData()          {}
func (*AssignData) nodeData()        {}
func (*UnaryData) nodeData()         {}
func (*UpdateData) nodeData()        {}
func (*BinaryData) nodeData()        {}
func (*ConditionalData) nodeData()   {}
func (*SequenceData) nodeData()      {}
func (*YieldData) nodeData()         {}
func (*SpreadData) nodeData()        {}
func (*AssignPatternData) nodeData() {}
