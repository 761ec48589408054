//nolint:errcheck // payload types are fixed by Kind; the assertions are checked by construction.
package estree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"regen/internal/ast"
)

// field is one key of an ordered JSON object.
type field struct {
	key   string
	value any
}

// ordered marshals as a JSON object with keys in insertion order, so that
// "type" always comes first.
type ordered []field

func (o ordered) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(f.value)
		if err != nil {
			return nil, fmt.Errorf("estree: field %s: %w", f.key, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type encoder struct {
	tree *ast.Tree
}

// Encode writes the subtree rooted at root as indented ESTree JSON.
func Encode(w io.Writer, t *ast.Tree, root ast.NodeID) error {
	e := &encoder{tree: t}
	doc := e.node(root)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("estree: encode: %w", err)
	}
	return nil
}

// EncodeBytes is Encode into a byte slice.
func EncodeBytes(t *ast.Tree, root ast.NodeID) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, t, root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *encoder) opt(id ast.NodeID) any {
	if !id.IsValid() {
		return nil
	}
	return e.node(id)
}

func (e *encoder) list(ids []ast.NodeID) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = e.opt(id)
	}
	return out
}

func ident(name string) any {
	if name == "" {
		return nil
	}
	return ordered{{"type", "Identifier"}, {"name", name}}
}

func (e *encoder) node(id ast.NodeID) any {
	n := e.tree.Get(id)
	if n == nil {
		return nil
	}
	o := ordered{{"type", n.Kind.String()}}
	if !n.Span.Empty() {
		o = append(o, field{"start", n.Span.Start}, field{"end", n.Span.End})
	}
	if n.Loc.Known() {
		o = append(o, field{"loc", ordered{{"start", ordered{{"line", n.Loc.Line}, {"column", n.Loc.Col}}}}})
	}
	if len(n.Comments) > 0 {
		cs := make([]any, len(n.Comments))
		for i, c := range n.Comments {
			typ := "Line"
			if c.Kind == ast.CommentBlock {
				typ = "Block"
			}
			cs[i] = ordered{{"type", typ}, {"value", c.Text}}
		}
		o = append(o, field{"leadingComments", cs})
	}
	return append(o, e.fields(n)...)
}

//nolint:gocyclo // one case per node type
func (e *encoder) fields(n *ast.Node) ordered {
	switch n.Kind {
	case ast.NodeProgram:
		return ordered{{"body", e.list(n.Data.(*ast.ProgramData).Body)}}
	case ast.NodeBlock:
		return ordered{{"body", e.list(n.Data.(*ast.BlockData).Body)}}
	case ast.NodeEmpty, ast.NodeThis:
		return nil
	case ast.NodeExprStmt:
		d := n.Data.(*ast.ExprStmtData)
		o := ordered{{"expression", e.node(d.Expr)}}
		if d.Directive != "" {
			o = append(o, field{"directive", d.Directive})
		}
		return o
	case ast.NodeVarDecl:
		d := n.Data.(*ast.VarDeclData)
		return ordered{{"kind", d.Kind.String()}, {"declarations", e.list(d.Decls)}}
	case ast.NodeDeclarator:
		d := n.Data.(*ast.DeclaratorData)
		return ordered{{"id", e.node(d.ID)}, {"init", e.opt(d.Init)}}
	case ast.NodeReturn:
		return ordered{{"argument", e.opt(n.Data.(*ast.ReturnData).Arg)}}
	case ast.NodeIf:
		d := n.Data.(*ast.IfData)
		return ordered{{"test", e.node(d.Test)}, {"consequent", e.node(d.Cons)}, {"alternate", e.opt(d.Alt)}}
	case ast.NodeFor:
		d := n.Data.(*ast.ForData)
		return ordered{{"init", e.opt(d.Init)}, {"test", e.opt(d.Test)}, {"update", e.opt(d.Update)}, {"body", e.node(d.Body)}}
	case ast.NodeForIn, ast.NodeForOf:
		d := n.Data.(*ast.ForEachData)
		return ordered{{"left", e.node(d.Left)}, {"right", e.node(d.Right)}, {"body", e.node(d.Body)}}
	case ast.NodeWhile, ast.NodeDoWhile:
		d := n.Data.(*ast.WhileData)
		return ordered{{"test", e.node(d.Test)}, {"body", e.node(d.Body)}}
	case ast.NodeLabeled:
		d := n.Data.(*ast.LabeledData)
		return ordered{{"label", ident(d.Label)}, {"body", e.node(d.Body)}}
	case ast.NodeBreak, ast.NodeContinue:
		return ordered{{"label", ident(n.Data.(*ast.JumpData).Label)}}
	case ast.NodeThrow:
		return ordered{{"argument", e.node(n.Data.(*ast.ThrowData).Arg)}}
	case ast.NodeTry:
		d := n.Data.(*ast.TryData)
		return ordered{{"block", e.node(d.Block)}, {"handler", e.opt(d.Handler)}, {"finalizer", e.opt(d.Finalizer)}}
	case ast.NodeCatch:
		d := n.Data.(*ast.CatchData)
		return ordered{{"param", e.opt(d.Param)}, {"body", e.node(d.Body)}}
	case ast.NodeSwitch:
		d := n.Data.(*ast.SwitchData)
		return ordered{{"discriminant", e.node(d.Disc)}, {"cases", e.list(d.Cases)}}
	case ast.NodeCase:
		d := n.Data.(*ast.CaseData)
		return ordered{{"test", e.opt(d.Test)}, {"consequent", e.list(d.Cons)}}
	case ast.NodeFuncDecl, ast.NodeFuncExpr, ast.NodeArrow:
		d := n.Data.(*ast.FunctionData)
		return ordered{
			{"id", e.opt(d.ID)},
			{"params", e.list(d.Params)},
			{"body", e.node(d.Body)},
			{"generator", d.Generator},
			{"async", d.Async},
			{"expression", d.Expression},
		}
	case ast.NodeClassDecl, ast.NodeClassExpr:
		d := n.Data.(*ast.ClassData)
		return ordered{
			{"id", e.opt(d.ID)},
			{"superClass", e.opt(d.Super)},
			{"body", ordered{{"type", "ClassBody"}, {"body", e.list(d.Members)}}},
		}
	case ast.NodeMethod:
		d := n.Data.(*ast.MethodData)
		return ordered{
			{"key", e.node(d.Key)},
			{"value", e.node(d.Value)},
			{"kind", d.Kind.String()},
			{"computed", d.Computed},
			{"static", d.Static},
		}
	case ast.NodeIdent:
		return ordered{{"name", n.Data.(*ast.IdentData).Name}}
	case ast.NodeLiteral:
		return literal(n.Data.(*ast.LiteralData))
	case ast.NodeArray, ast.NodeArrayPattern:
		return ordered{{"elements", e.list(n.Data.(*ast.ArrayData).Elements)}}
	case ast.NodeObject, ast.NodeObjectPattern:
		return ordered{{"properties", e.list(n.Data.(*ast.ObjectData).Props)}}
	case ast.NodeProperty:
		d := n.Data.(*ast.PropertyData)
		return ordered{
			{"key", e.node(d.Key)},
			{"value", e.node(d.Value)},
			{"kind", d.Kind.String()},
			{"computed", d.Computed},
			{"shorthand", d.Shorthand},
			{"method", d.Method},
		}
	case ast.NodeMember:
		d := n.Data.(*ast.MemberData)
		return ordered{{"object", e.node(d.Object)}, {"property", e.node(d.Property)}, {"computed", d.Computed}}
	case ast.NodeCall, ast.NodeNew:
		d := n.Data.(*ast.CallData)
		return ordered{{"callee", e.node(d.Callee)}, {"arguments", e.list(d.Args)}}
	case ast.NodeAssign:
		d := n.Data.(*ast.AssignData)
		return ordered{{"operator", d.Op}, {"left", e.node(d.Left)}, {"right", e.node(d.Right)}}
	case ast.NodeUnary:
		d := n.Data.(*ast.UnaryData)
		return ordered{{"operator", d.Op}, {"prefix", true}, {"argument", e.node(d.Arg)}}
	case ast.NodeUpdate:
		d := n.Data.(*ast.UpdateData)
		return ordered{{"operator", d.Op}, {"prefix", d.Prefix}, {"argument", e.node(d.Arg)}}
	case ast.NodeBinary, ast.NodeLogical:
		d := n.Data.(*ast.BinaryData)
		return ordered{{"operator", d.Op}, {"left", e.node(d.Left)}, {"right", e.node(d.Right)}}
	case ast.NodeConditional:
		d := n.Data.(*ast.ConditionalData)
		return ordered{{"test", e.node(d.Test)}, {"consequent", e.node(d.Cons)}, {"alternate", e.node(d.Alt)}}
	case ast.NodeSequence:
		return ordered{{"expressions", e.list(n.Data.(*ast.SequenceData).Exprs)}}
	case ast.NodeYield:
		d := n.Data.(*ast.YieldData)
		return ordered{{"argument", e.opt(d.Arg)}, {"delegate", d.Delegate}}
	case ast.NodeSpread, ast.NodeRest:
		return ordered{{"argument", e.node(n.Data.(*ast.SpreadData).Arg)}}
	case ast.NodeAssignPattern:
		d := n.Data.(*ast.AssignPatternData)
		return ordered{{"left", e.node(d.Left)}, {"right", e.node(d.Right)}}
	}
	return nil
}

func literal(d *ast.LiteralData) ordered {
	switch d.Kind {
	case ast.LitNull:
		return ordered{{"value", nil}, {"raw", "null"}}
	case ast.LitBool:
		return ordered{{"value", d.Bool}}
	case ast.LitString:
		return ordered{{"value", d.String}}
	case ast.LitRegExp:
		return ordered{{"value", nil}, {"regex", ordered{{"pattern", d.String}, {"flags", d.Flags}}}}
	}
	o := ordered{{"value", d.Number}}
	if math.IsInf(d.Number, 0) || math.IsNaN(d.Number) {
		// JSON не умеет Infinity/NaN
		o = ordered{{"value", nil}}
	}
	if d.Raw != "" {
		o = append(o, field{"raw", d.Raw})
	}
	return o
}
