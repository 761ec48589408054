package ast

import (
	"regen/internal/source"
)

// CommentKind distinguishes line and block comments.
type CommentKind uint8

const (
	CommentLine CommentKind = iota
	CommentBlock
)

// Comment is a leading comment attached to a node.
type Comment struct {
	Kind CommentKind
	Text string
}

// Node is one slot of the tree arena.
type Node struct {
	Kind     NodeKind
	Span     source.Span
	Loc      source.LineCol
	Data     NodeData // Kind-specific payload
	Comments []Comment
}

// NodeData is the interface for kind-specific payloads. Payloads are stored
// by pointer so accessors can mutate them in place.
type NodeData interface {
	nodeData()
}

// VarKind is the declaration keyword of a VarDecl.
type VarKind uint8

const (
	VarVar VarKind = iota
	VarLet
	VarConst
)

func (k VarKind) String() string {
	switch k {
	case VarLet:
		return "let"
	case VarConst:
		return "const"
	default:
		return "var"
	}
}

// LiteralKind enumerates literal value kinds.
type LiteralKind uint8

const (
	LitNull LiteralKind = iota
	LitBool
	LitNumber
	LitString
	LitRegExp
)

// PropKind is the ESTree property kind.
type PropKind uint8

const (
	PropInit PropKind = iota
	PropGet
	PropSet
)

func (k PropKind) String() string {
	switch k {
	case PropGet:
		return "get"
	case PropSet:
		return "set"
	default:
		return "init"
	}
}

// MethodKind is the ESTree method definition kind.
type MethodKind uint8

const (
	MethodPlain MethodKind = iota
	MethodConstructor
	MethodGet
	MethodSet
)

func (k MethodKind) String() string {
	switch k {
	case MethodConstructor:
		return "constructor"
	case MethodGet:
		return "get"
	case MethodSet:
		return "set"
	default:
		return "method"
	}
}
