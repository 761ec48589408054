package estree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"fortio.org/safecast"

	"regen/internal/ast"
	"regen/internal/source"
)

var (
	ErrUnknownNode = errors.New("estree: unknown node type")
	ErrBadField    = errors.New("estree: bad field")
)

type object = map[string]any

type decoder struct {
	tree *ast.Tree
}

// Decode reads one ESTree JSON document. The root is usually a Program but
// any supported node is accepted.
func Decode(r io.Reader, file source.FileID) (*ast.Tree, ast.NodeID, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, ast.NoNodeID, fmt.Errorf("estree: decode json: %w", err)
	}
	obj, ok := raw.(object)
	if !ok {
		return nil, ast.NoNodeID, fmt.Errorf("%w: document root is not an object", ErrBadField)
	}
	d := &decoder{tree: ast.NewTree(file, 0)}
	root, err := d.node(obj)
	if err != nil {
		return nil, ast.NoNodeID, err
	}
	return d.tree, root, nil
}

// DecodeBytes is Decode over an in-memory document.
func DecodeBytes(data []byte, file source.FileID) (*ast.Tree, ast.NodeID, error) {
	return Decode(bytes.NewReader(data), file)
}

func (d *decoder) fieldErr(obj object, field, format string, args ...any) error {
	return fmt.Errorf("%w: %s.%s at %s: %s", ErrBadField, obj["type"], field, position(obj), fmt.Sprintf(format, args...))
}

// child decodes a required child object.
func (d *decoder) child(obj object, field string) (ast.NodeID, error) {
	v, ok := obj[field]
	if !ok || v == nil {
		return ast.NoNodeID, d.fieldErr(obj, field, "missing")
	}
	o, ok := v.(object)
	if !ok {
		return ast.NoNodeID, d.fieldErr(obj, field, "want object, got %T", v)
	}
	return d.node(o)
}

// optChild decodes an optional child; null and absent give NoNodeID.
func (d *decoder) optChild(obj object, field string) (ast.NodeID, error) {
	if v, ok := obj[field]; !ok || v == nil {
		return ast.NoNodeID, nil
	}
	return d.child(obj, field)
}

// list decodes an array of children. holes permits null elements.
func (d *decoder) list(obj object, field string, holes bool) ([]ast.NodeID, error) {
	v, ok := obj[field]
	if !ok || v == nil {
		return []ast.NodeID{}, nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, d.fieldErr(obj, field, "want array, got %T", v)
	}
	out := make([]ast.NodeID, 0, len(arr))
	for i, item := range arr {
		if item == nil {
			if !holes {
				return nil, d.fieldErr(obj, field, "null element %d", i)
			}
			out = append(out, ast.NoNodeID)
			continue
		}
		o, ok := item.(object)
		if !ok {
			return nil, d.fieldErr(obj, field, "element %d is %T", i, item)
		}
		id, err := d.node(o)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func str(obj object, field string) string {
	s, _ := obj[field].(string)
	return s
}

func flag(obj object, field string) bool {
	b, _ := obj[field].(bool)
	return b
}

// label reads an optional Identifier-valued label.
func label(obj object, field string) string {
	o, ok := obj[field].(object)
	if !ok {
		return ""
	}
	return str(o, "name")
}

func (d *decoder) node(obj object) (ast.NodeID, error) {
	typ := str(obj, "type")
	kind, ok := ast.KindByName(typ)
	if !ok {
		if typ == "" {
			return ast.NoNodeID, fmt.Errorf("%w: object without type at %s", ErrUnknownNode, position(obj))
		}
		return ast.NoNodeID, fmt.Errorf("%w %q at %s", ErrUnknownNode, typ, position(obj))
	}
	data, err := d.payload(kind, obj)
	if err != nil {
		return ast.NoNodeID, err
	}
	span, loc := d.span(obj)
	id := d.tree.NewAt(kind, span, loc, data)
	d.tree.Get(id).Comments = comments(obj)
	return id, nil
}

//nolint:gocyclo // one case per node type
func (d *decoder) payload(kind ast.NodeKind, obj object) (ast.NodeData, error) {
	var err error
	// e собирает первую ошибку из цепочки вызовов
	e := func(id ast.NodeID, err2 error) ast.NodeID {
		if err == nil {
			err = err2
		}
		return id
	}
	l := func(ids []ast.NodeID, err2 error) []ast.NodeID {
		if err == nil {
			err = err2
		}
		return ids
	}

	var data ast.NodeData
	switch kind {
	case ast.NodeProgram:
		data = &ast.ProgramData{Body: l(d.list(obj, "body", false))}
	case ast.NodeBlock:
		data = &ast.BlockData{Body: l(d.list(obj, "body", false))}
	case ast.NodeEmpty:
		data = &ast.EmptyData{}
	case ast.NodeExprStmt:
		data = &ast.ExprStmtData{Expr: e(d.child(obj, "expression")), Directive: str(obj, "directive")}
	case ast.NodeVarDecl:
		vk, ok := varKinds[str(obj, "kind")]
		if !ok {
			return nil, d.fieldErr(obj, "kind", "unknown declaration kind %q", str(obj, "kind"))
		}
		data = &ast.VarDeclData{Kind: vk, Decls: l(d.list(obj, "declarations", false))}
	case ast.NodeDeclarator:
		data = &ast.DeclaratorData{ID: e(d.child(obj, "id")), Init: e(d.optChild(obj, "init"))}
	case ast.NodeReturn:
		data = &ast.ReturnData{Arg: e(d.optChild(obj, "argument"))}
	case ast.NodeIf:
		data = &ast.IfData{
			Test: e(d.child(obj, "test")),
			Cons: e(d.child(obj, "consequent")),
			Alt:  e(d.optChild(obj, "alternate")),
		}
	case ast.NodeFor:
		data = &ast.ForData{
			Init:   e(d.optChild(obj, "init")),
			Test:   e(d.optChild(obj, "test")),
			Update: e(d.optChild(obj, "update")),
			Body:   e(d.child(obj, "body")),
		}
	case ast.NodeForIn, ast.NodeForOf:
		data = &ast.ForEachData{
			Left:  e(d.child(obj, "left")),
			Right: e(d.child(obj, "right")),
			Body:  e(d.child(obj, "body")),
		}
	case ast.NodeWhile, ast.NodeDoWhile:
		data = &ast.WhileData{Test: e(d.child(obj, "test")), Body: e(d.child(obj, "body"))}
	case ast.NodeLabeled:
		data = &ast.LabeledData{Label: label(obj, "label"), Body: e(d.child(obj, "body"))}
	case ast.NodeBreak, ast.NodeContinue:
		data = &ast.JumpData{Label: label(obj, "label")}
	case ast.NodeThrow:
		data = &ast.ThrowData{Arg: e(d.child(obj, "argument"))}
	case ast.NodeTry:
		data = &ast.TryData{
			Block:     e(d.child(obj, "block")),
			Handler:   e(d.optChild(obj, "handler")),
			Finalizer: e(d.optChild(obj, "finalizer")),
		}
	case ast.NodeCatch:
		data = &ast.CatchData{Param: e(d.optChild(obj, "param")), Body: e(d.child(obj, "body"))}
	case ast.NodeSwitch:
		data = &ast.SwitchData{Disc: e(d.child(obj, "discriminant")), Cases: l(d.list(obj, "cases", false))}
	case ast.NodeCase:
		data = &ast.CaseData{Test: e(d.optChild(obj, "test")), Cons: l(d.list(obj, "consequent", false))}
	case ast.NodeFuncDecl, ast.NodeFuncExpr, ast.NodeArrow:
		data = &ast.FunctionData{
			ID:         e(d.optChild(obj, "id")),
			Params:     l(d.list(obj, "params", false)),
			Body:       e(d.child(obj, "body")),
			Generator:  flag(obj, "generator"),
			Async:      flag(obj, "async"),
			Expression: flag(obj, "expression"),
		}
	case ast.NodeClassDecl, ast.NodeClassExpr:
		cd := &ast.ClassData{ID: e(d.optChild(obj, "id")), Super: e(d.optChild(obj, "superClass"))}
		if body, ok := obj["body"].(object); ok {
			cd.Members = l(d.list(body, "body", false))
		} else {
			cd.Members = []ast.NodeID{}
		}
		data = cd
	case ast.NodeMethod:
		mk, ok := methodKinds[str(obj, "kind")]
		if !ok {
			return nil, d.fieldErr(obj, "kind", "unknown method kind %q", str(obj, "kind"))
		}
		data = &ast.MethodData{
			Key:      e(d.child(obj, "key")),
			Value:    e(d.child(obj, "value")),
			Kind:     mk,
			Computed: flag(obj, "computed"),
			Static:   flag(obj, "static"),
		}
	case ast.NodeIdent:
		data = &ast.IdentData{Name: str(obj, "name")}
	case ast.NodeLiteral:
		lit, lerr := d.literal(obj)
		if lerr != nil {
			return nil, lerr
		}
		data = lit
	case ast.NodeThis:
		data = &ast.ThisData{}
	case ast.NodeArray, ast.NodeArrayPattern:
		data = &ast.ArrayData{Elements: l(d.list(obj, "elements", true))}
	case ast.NodeObject, ast.NodeObjectPattern:
		data = &ast.ObjectData{Props: l(d.list(obj, "properties", false))}
	case ast.NodeProperty:
		pk := ast.PropInit
		if k := str(obj, "kind"); k != "" {
			var ok bool
			if pk, ok = propKinds[k]; !ok {
				return nil, d.fieldErr(obj, "kind", "unknown property kind %q", k)
			}
		}
		data = &ast.PropertyData{
			Key:       e(d.child(obj, "key")),
			Value:     e(d.child(obj, "value")),
			Kind:      pk,
			Computed:  flag(obj, "computed"),
			Shorthand: flag(obj, "shorthand"),
			Method:    flag(obj, "method"),
		}
	case ast.NodeMember:
		data = &ast.MemberData{
			Object:   e(d.child(obj, "object")),
			Property: e(d.child(obj, "property")),
			Computed: flag(obj, "computed"),
		}
	case ast.NodeCall, ast.NodeNew:
		data = &ast.CallData{Callee: e(d.child(obj, "callee")), Args: l(d.list(obj, "arguments", false))}
	case ast.NodeAssign:
		data = &ast.AssignData{Op: str(obj, "operator"), Left: e(d.child(obj, "left")), Right: e(d.child(obj, "right"))}
	case ast.NodeUnary:
		data = &ast.UnaryData{Op: str(obj, "operator"), Arg: e(d.child(obj, "argument"))}
	case ast.NodeUpdate:
		data = &ast.UpdateData{Op: str(obj, "operator"), Prefix: flag(obj, "prefix"), Arg: e(d.child(obj, "argument"))}
	case ast.NodeBinary, ast.NodeLogical:
		data = &ast.BinaryData{Op: str(obj, "operator"), Left: e(d.child(obj, "left")), Right: e(d.child(obj, "right"))}
	case ast.NodeConditional:
		data = &ast.ConditionalData{
			Test: e(d.child(obj, "test")),
			Cons: e(d.child(obj, "consequent")),
			Alt:  e(d.child(obj, "alternate")),
		}
	case ast.NodeSequence:
		data = &ast.SequenceData{Exprs: l(d.list(obj, "expressions", false))}
	case ast.NodeYield:
		data = &ast.YieldData{Arg: e(d.optChild(obj, "argument")), Delegate: flag(obj, "delegate")}
	case ast.NodeSpread, ast.NodeRest:
		data = &ast.SpreadData{Arg: e(d.child(obj, "argument"))}
	case ast.NodeAssignPattern:
		data = &ast.AssignPatternData{Left: e(d.child(obj, "left")), Right: e(d.child(obj, "right"))}
	default:
		return nil, fmt.Errorf("%w %q at %s", ErrUnknownNode, kind, position(obj))
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (d *decoder) literal(obj object) (*ast.LiteralData, error) {
	lit := &ast.LiteralData{Raw: str(obj, "raw")}
	if re, ok := obj["regex"].(object); ok {
		lit.Kind = ast.LitRegExp
		lit.String = str(re, "pattern")
		lit.Flags = str(re, "flags")
		return lit, nil
	}
	switch v := obj["value"].(type) {
	case nil:
		lit.Kind = ast.LitNull
	case bool:
		lit.Kind = ast.LitBool
		lit.Bool = v
	case string:
		lit.Kind = ast.LitString
		lit.String = v
		lit.Raw = "" // строки печатаем сами
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, d.fieldErr(obj, "value", "bad number %q", v.String())
		}
		lit.Kind = ast.LitNumber
		lit.Number = f
	default:
		return nil, d.fieldErr(obj, "value", "unsupported literal %T", v)
	}
	return lit, nil
}

func (d *decoder) span(obj object) (source.Span, source.LineCol) {
	span := source.Span{File: d.tree.File}
	start, sok := offset(obj["start"])
	end, eok := offset(obj["end"])
	if r, ok := obj["range"].([]any); ok && len(r) == 2 && (!sok || !eok) {
		start, sok = offset(r[0])
		end, eok = offset(r[1])
	}
	if sok && eok {
		span.Start, span.End = start, end
	}
	var lc source.LineCol
	if loc, ok := obj["loc"].(object); ok {
		if st, ok := loc["start"].(object); ok {
			line, lok := offset(st["line"])
			col, cok := offset(st["column"])
			if lok && cok {
				lc = source.LineCol{Line: line, Col: col}
			}
		}
	}
	return span, lc
}

func offset(v any) (uint32, bool) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	i, err := n.Int64()
	if err != nil {
		return 0, false
	}
	u, err := safecast.Conv[uint32](i)
	if err != nil {
		return 0, false
	}
	return u, true
}

func comments(obj object) []ast.Comment {
	var out []ast.Comment
	add := func(c object) {
		kind := ast.CommentLine
		if str(c, "type") == "Block" || str(c, "type") == "CommentBlock" {
			kind = ast.CommentBlock
		}
		out = append(out, ast.Comment{Kind: kind, Text: str(c, "value")})
	}
	if lc, ok := obj["leadingComments"].([]any); ok {
		for _, c := range lc {
			if co, ok := c.(object); ok {
				add(co)
			}
		}
		return out
	}
	if cs, ok := obj["comments"].([]any); ok {
		for _, c := range cs {
			if co, ok := c.(object); ok && flag(co, "leading") {
				add(co)
			}
		}
	}
	return out
}

func position(obj object) string {
	if loc, ok := obj["loc"].(object); ok {
		if st, ok := loc["start"].(object); ok {
			line, lok := offset(st["line"])
			col, cok := offset(st["column"])
			if lok && cok {
				return source.LineCol{Line: line, Col: col}.String()
			}
		}
	}
	if s, ok := offset(obj["start"]); ok {
		return fmt.Sprintf("offset %d", s)
	}
	return "?"
}

var varKinds = map[string]ast.VarKind{
	"var":   ast.VarVar,
	"let":   ast.VarLet,
	"const": ast.VarConst,
}

var propKinds = map[string]ast.PropKind{
	"init": ast.PropInit,
	"get":  ast.PropGet,
	"set":  ast.PropSet,
}

var methodKinds = map[string]ast.MethodKind{
	"method":      ast.MethodPlain,
	"constructor": ast.MethodConstructor,
	"get":         ast.MethodGet,
	"set":         ast.MethodSet,
}
