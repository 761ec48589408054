package ast

// NodeKind enumerates the closed set of syntax node kinds.
type NodeKind uint8

const (
	NodeInvalid NodeKind = iota
	// statements
	NodeProgram
	NodeBlock
	NodeEmpty
	NodeExprStmt
	NodeVarDecl
	NodeDeclarator
	NodeReturn
	NodeIf
	NodeFor
	NodeForIn
	NodeForOf
	NodeWhile
	NodeDoWhile
	NodeLabeled
	NodeBreak
	NodeContinue
	NodeThrow
	NodeTry
	NodeCatch
	NodeSwitch
	NodeCase
	// functions and classes
	NodeFuncDecl
	NodeFuncExpr
	NodeArrow
	NodeClassDecl
	NodeClassExpr
	NodeMethod
	// expressions
	NodeIdent
	NodeLiteral
	NodeThis
	NodeArray
	NodeObject
	NodeProperty
	NodeMember
	NodeCall
	NodeNew
	NodeAssign
	NodeUnary
	NodeUpdate
	NodeBinary
	NodeLogical
	NodeConditional
	NodeSequence
	NodeYield
	NodeSpread
	// patterns
	NodeArrayPattern
	NodeObjectPattern
	NodeAssignPattern
	NodeRest
)

var kindNames = [...]string{
	NodeInvalid:       "Invalid",
	NodeProgram:       "Program",
	NodeBlock:         "BlockStatement",
	NodeEmpty:         "EmptyStatement",
	NodeExprStmt:      "ExpressionStatement",
	NodeVarDecl:       "VariableDeclaration",
	NodeDeclarator:    "VariableDeclarator",
	NodeReturn:        "ReturnStatement",
	NodeIf:            "IfStatement",
	NodeFor:           "ForStatement",
	NodeForIn:         "ForInStatement",
	NodeForOf:         "ForOfStatement",
	NodeWhile:         "WhileStatement",
	NodeDoWhile:       "DoWhileStatement",
	NodeLabeled:       "LabeledStatement",
	NodeBreak:         "BreakStatement",
	NodeContinue:      "ContinueStatement",
	NodeThrow:         "ThrowStatement",
	NodeTry:           "TryStatement",
	NodeCatch:         "CatchClause",
	NodeSwitch:        "SwitchStatement",
	NodeCase:          "SwitchCase",
	NodeFuncDecl:      "FunctionDeclaration",
	NodeFuncExpr:      "FunctionExpression",
	NodeArrow:         "ArrowFunctionExpression",
	NodeClassDecl:     "ClassDeclaration",
	NodeClassExpr:     "ClassExpression",
	NodeMethod:        "MethodDefinition",
	NodeIdent:         "Identifier",
	NodeLiteral:       "Literal",
	NodeThis:          "ThisExpression",
	NodeArray:         "ArrayExpression",
	NodeObject:        "ObjectExpression",
	NodeProperty:      "Property",
	NodeMember:        "MemberExpression",
	NodeCall:          "CallExpression",
	NodeNew:           "NewExpression",
	NodeAssign:        "AssignmentExpression",
	NodeUnary:         "UnaryExpression",
	NodeUpdate:        "UpdateExpression",
	NodeBinary:        "BinaryExpression",
	NodeLogical:       "LogicalExpression",
	NodeConditional:   "ConditionalExpression",
	NodeSequence:      "SequenceExpression",
	NodeYield:         "YieldExpression",
	NodeSpread:        "SpreadElement",
	NodeArrayPattern:  "ArrayPattern",
	NodeObjectPattern: "ObjectPattern",
	NodeAssignPattern: "AssignmentPattern",
	NodeRest:          "RestElement",
}

// String returns the ESTree type name of the kind.
func (k NodeKind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Unknown"
}

// KindByName maps an ESTree type name back to a kind.
func KindByName(name string) (NodeKind, bool) {
	for k, n := range kindNames {
		if n == name && NodeKind(k) != NodeInvalid {
			return NodeKind(k), true
		}
	}
	return NodeInvalid, false
}

// IsFunction reports whether the kind introduces its own function scope.
func (k NodeKind) IsFunction() bool {
	return k == NodeFuncDecl || k == NodeFuncExpr || k == NodeArrow
}

// IsLoop reports whether the kind is an iteration statement.
func (k NodeKind) IsLoop() bool {
	switch k {
	case NodeFor, NodeForIn, NodeForOf, NodeWhile, NodeDoWhile:
		return true
	default:
		return false
	}
}
