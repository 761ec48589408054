//nolint:errcheck // payload types are fixed by Kind; the assertions are checked by construction.
package emit

import (
	"regen/internal/ast"
)

// explodeExpression emits whatever part of expr must run before its value
// is available and returns an expression for that value. With ignore set
// the value is emitted as a statement (or dropped) and NoNodeID returned.
func (e *Emitter) explodeExpression(expr ast.NodeID, ignore bool) (ast.NodeID, error) {
	t := e.tree
	finish := func(x ast.NodeID) (ast.NodeID, error) {
		if ignore {
			e.emit(x)
			return ast.NoNodeID, nil
		}
		return x, nil
	}

	if !ContainsLeap(t, expr) {
		return finish(expr)
	}

	n := t.Get(expr)
	switch n.Kind {
	case ast.NodeMember:
		d := n.Data.(*ast.MemberData)
		obj, err := e.explodeOperand(d.Object, d.Computed && ContainsLeap(t, d.Property))
		if err != nil {
			return ast.NoNodeID, err
		}
		prop := d.Property
		if d.Computed {
			if prop, err = e.explodeExpression(d.Property, false); err != nil {
				return ast.NoNodeID, err
			}
		}
		return finish(t.Position(t.New(ast.NodeMember, &ast.MemberData{Object: obj, Property: prop, Computed: d.Computed}), expr))

	case ast.NodeCall:
		return e.explodeCall(expr, n.Data.(*ast.CallData), finish)

	case ast.NodeNew:
		d := n.Data.(*ast.CallData)
		callee, err := e.explodeOperand(d.Callee, anyLeap(t, d.Args))
		if err != nil {
			return ast.NoNodeID, err
		}
		args, err := e.explodeList(d.Args)
		if err != nil {
			return ast.NoNodeID, err
		}
		return finish(t.Position(t.New(ast.NodeNew, &ast.CallData{Callee: callee, Args: args}), expr))

	case ast.NodeArray:
		d := n.Data.(*ast.ArrayData)
		elems, err := e.explodeList(d.Elements)
		if err != nil {
			return ast.NoNodeID, err
		}
		return finish(t.Position(t.NewArray(elems...), expr))

	case ast.NodeObject:
		return e.explodeObject(expr, n.Data.(*ast.ObjectData), finish)

	case ast.NodeSequence:
		d := n.Data.(*ast.SequenceData)
		last := len(d.Exprs) - 1
		for i := 0; i < last; i++ {
			if _, err := e.explodeExpression(d.Exprs[i], true); err != nil {
				return ast.NoNodeID, err
			}
		}
		return e.explodeExpression(d.Exprs[last], ignore)

	case ast.NodeUnary:
		d := n.Data.(*ast.UnaryData)
		arg, err := e.explodeExpression(d.Arg, false)
		if err != nil {
			return ast.NoNodeID, err
		}
		return finish(t.Position(t.NewUnary(d.Op, arg), expr))

	case ast.NodeUpdate:
		d := n.Data.(*ast.UpdateData)
		arg, err := e.explodeExpression(d.Arg, false)
		if err != nil {
			return ast.NoNodeID, err
		}
		return finish(t.Position(t.New(ast.NodeUpdate, &ast.UpdateData{Op: d.Op, Prefix: d.Prefix, Arg: arg}), expr))

	case ast.NodeBinary:
		d := n.Data.(*ast.BinaryData)
		left, err := e.explodeOperand(d.Left, ContainsLeap(t, d.Right))
		if err != nil {
			return ast.NoNodeID, err
		}
		right, err := e.explodeExpression(d.Right, false)
		if err != nil {
			return ast.NoNodeID, err
		}
		return finish(t.Position(t.NewBinary(d.Op, left, right), expr))

	case ast.NodeLogical:
		return e.explodeLogical(n.Data.(*ast.BinaryData), ignore)

	case ast.NodeConditional:
		return e.explodeConditional(n.Data.(*ast.ConditionalData), ignore)

	case ast.NodeAssign:
		d := n.Data.(*ast.AssignData)
		left, err := e.explodeExpression(d.Left, false)
		if err != nil {
			return ast.NoNodeID, err
		}
		right, err := e.explodeExpression(d.Right, false)
		if err != nil {
			return ast.NoNodeID, err
		}
		return finish(t.Position(t.NewAssign(d.Op, left, right), expr))

	case ast.NodeYield:
		return e.explodeYield(expr, n.Data.(*ast.YieldData))
	}

	return ast.NoNodeID, e.unsupportedExpr(expr, "%s containing yield", n.Kind)
}

// explodeOperand explodes id and, when save is set, stores the result in a
// fresh temporary so that later leaping siblings cannot change it.
func (e *Emitter) explodeOperand(id ast.NodeID, save bool) (ast.NodeID, error) {
	r, err := e.explodeExpression(id, false)
	if err != nil {
		return ast.NoNodeID, err
	}
	if !save || e.tree.Kind(r) == ast.NodeLiteral || e.isTempRef(r) {
		return r, nil
	}
	tmp := e.makeTemp()
	e.emitAssign(e.tempRef(tmp), r)
	return e.tempRef(tmp), nil
}

// explodeList explodes call arguments or array elements left to right.
// Holes stay NoNodeID; spread elements keep their spread.
func (e *Emitter) explodeList(list []ast.NodeID) ([]ast.NodeID, error) {
	t := e.tree
	out := make([]ast.NodeID, len(list))
	for i, item := range list {
		if !item.IsValid() {
			continue
		}
		save := anyLeap(t, list[i+1:])
		if sp, ok := t.Spread(item); ok && t.Kind(item) == ast.NodeSpread {
			arg, err := e.explodeOperand(sp.Arg, save)
			if err != nil {
				return nil, err
			}
			out[i] = t.Position(t.New(ast.NodeSpread, &ast.SpreadData{Arg: arg}), item)
			continue
		}
		r, err := e.explodeOperand(item, save)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

func (e *Emitter) explodeCall(expr ast.NodeID, d *ast.CallData, finish func(ast.NodeID) (ast.NodeID, error)) (ast.NodeID, error) {
	t := e.tree
	argsLeap := anyLeap(t, d.Args)
	var callee ast.NodeID
	var receiver ast.NodeID

	if m, ok := t.Member(d.Callee); ok && argsLeap {
		// receiver is saved so `.call` keeps the original this
		obj, err := e.explodeExpression(m.Object, false)
		if err != nil {
			return ast.NoNodeID, err
		}
		tmp := e.makeTemp()
		e.emitAssign(e.tempRef(tmp), obj)
		prop := m.Property
		if m.Computed {
			if prop, err = e.explodeOperand(m.Property, true); err != nil {
				return ast.NoNodeID, err
			}
		}
		fn := t.New(ast.NodeMember, &ast.MemberData{Object: e.tempRef(tmp), Property: prop, Computed: m.Computed})
		callee = t.NewMember(fn, "call")
		receiver = e.tempRef(tmp)
	} else if ok {
		var err error
		if callee, err = e.explodeExpression(d.Callee, false); err != nil {
			return ast.NoNodeID, err
		}
	} else {
		var err error
		if callee, err = e.explodeOperand(d.Callee, argsLeap); err != nil {
			return ast.NoNodeID, err
		}
		if e.isTempRef(callee) {
			callee = t.NewSequence(t.NewNumber(0), callee)
		}
	}

	args, err := e.explodeList(d.Args)
	if err != nil {
		return ast.NoNodeID, err
	}
	if receiver.IsValid() {
		args = append([]ast.NodeID{receiver}, args...)
	}
	return finish(t.Position(t.NewCall(callee, args...), expr))
}

func (e *Emitter) explodeObject(expr ast.NodeID, d *ast.ObjectData, finish func(ast.NodeID) (ast.NodeID, error)) (ast.NodeID, error) {
	t := e.tree
	props := make([]ast.NodeID, 0, len(d.Props))
	for i, pid := range d.Props {
		save := anyLeap(t, d.Props[i+1:])
		if sp, ok := t.Spread(pid); ok {
			arg, err := e.explodeOperand(sp.Arg, save)
			if err != nil {
				return ast.NoNodeID, err
			}
			props = append(props, t.Position(t.New(ast.NodeSpread, &ast.SpreadData{Arg: arg}), pid))
			continue
		}
		p, ok := t.Property(pid)
		if !ok {
			return ast.NoNodeID, e.unsupportedExpr(pid, "object member %s", t.Kind(pid))
		}
		if p.Method || p.Kind != ast.PropInit {
			if ContainsLeap(t, pid) {
				return ast.NoNodeID, e.unsupportedExpr(pid, "computed method key containing yield")
			}
			props = append(props, pid)
			continue
		}
		key := p.Key
		if p.Computed {
			var err error
			if key, err = e.explodeOperand(p.Key, save || ContainsLeap(t, p.Value)); err != nil {
				return ast.NoNodeID, err
			}
		}
		value, err := e.explodeOperand(p.Value, save)
		if err != nil {
			return ast.NoNodeID, err
		}
		props = append(props, t.Position(t.New(ast.NodeProperty, &ast.PropertyData{
			Key:      key,
			Value:    value,
			Kind:     ast.PropInit,
			Computed: p.Computed,
		}), pid))
	}
	return finish(t.Position(t.New(ast.NodeObject, &ast.ObjectData{Props: props}), expr))
}

func (e *Emitter) explodeLogical(d *ast.BinaryData, ignore bool) (ast.NodeID, error) {
	t := e.tree
	after := newLoc()
	res := -1
	if !ignore || d.Op == "??" {
		res = e.makeTemp()
	}

	left, err := e.explodeExpression(d.Left, false)
	if err != nil {
		return ast.NoNodeID, err
	}
	test := left
	if res >= 0 {
		test = t.NewAssign("=", e.tempRef(res), left)
	}
	switch d.Op {
	case "&&":
		e.jumpIfNot(test, after)
	case "||":
		e.jumpIf(test, after)
	case "??":
		e.jumpIf(t.NewBinary("!=", test, t.NewNull()), after)
	default:
		return ast.NoNodeID, e.unsupportedExpr(d.Left, "logical operator %q", d.Op)
	}

	if res >= 0 {
		right, err := e.explodeExpression(d.Right, false)
		if err != nil {
			return ast.NoNodeID, err
		}
		e.emitAssign(e.tempRef(res), right)
	} else if _, err := e.explodeExpression(d.Right, true); err != nil {
		return ast.NoNodeID, err
	}
	e.mark(after)

	if ignore {
		return ast.NoNodeID, nil
	}
	return e.tempRef(res), nil
}

func (e *Emitter) explodeConditional(d *ast.ConditionalData, ignore bool) (ast.NodeID, error) {
	elseLoc, after := newLoc(), newLoc()
	test, err := e.explodeExpression(d.Test, false)
	if err != nil {
		return ast.NoNodeID, err
	}
	e.jumpIfNot(test, elseLoc)

	res := -1
	if !ignore {
		res = e.makeTemp()
	}
	branch := func(x ast.NodeID) error {
		if res < 0 {
			_, err := e.explodeExpression(x, true)
			return err
		}
		r, err := e.explodeExpression(x, false)
		if err != nil {
			return err
		}
		e.emitAssign(e.tempRef(res), r)
		return nil
	}

	if err := branch(d.Cons); err != nil {
		return ast.NoNodeID, err
	}
	e.jump(after)
	e.mark(elseLoc)
	if err := branch(d.Alt); err != nil {
		return ast.NoNodeID, err
	}
	e.mark(after)

	if ignore {
		return ast.NoNodeID, nil
	}
	return e.tempRef(res), nil
}

// explodeYield suspends at a fresh location. The value sent on resume is
// read back from $ctx.sent.
func (e *Emitter) explodeYield(expr ast.NodeID, d *ast.YieldData) (ast.NodeID, error) {
	t := e.tree
	after := newLoc()
	arg := ast.NoNodeID
	if d.Arg.IsValid() {
		var err error
		if arg, err = e.explodeExpression(d.Arg, false); err != nil {
			return ast.NoNodeID, err
		}
	}

	if d.Delegate {
		if !arg.IsValid() {
			return ast.NoNodeID, e.unsupportedExpr(expr, "yield* without argument")
		}
		res := e.makeTemp()
		call := t.NewCall(e.contextProperty("delegateYield"), arg, t.NewString(tempName(res)), e.locRef(after))
		e.emit(t.Position(t.NewReturn(call), expr))
		e.mark(after)
		return e.tempRef(res), nil
	}

	e.emitAssign(e.contextProperty("next"), e.locRef(after))
	e.emit(t.Position(t.NewReturn(arg), expr))
	e.mark(after)
	return e.contextProperty("sent"), nil
}

func anyLeap(t *ast.Tree, ids []ast.NodeID) bool {
	for _, id := range ids {
		if id.IsValid() && ContainsLeap(t, id) {
			return true
		}
	}
	return false
}
