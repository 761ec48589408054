//nolint:errcheck // payload types are fixed by Kind; the assertions are checked by construction.
package emit

import (
	"regen/internal/ast"
)

// explodeStatement appends stmt to the listing, splitting it into cases
// when it contains a leap. label is the label of an enclosing labeled
// statement whose body is stmt.
func (e *Emitter) explodeStatement(stmt ast.NodeID, label string) error {
	t := e.tree
	n := t.Get(stmt)
	if n == nil {
		return e.unsupported(stmt, "missing statement")
	}

	switch n.Kind {
	case ast.NodeVarDecl:
		if d := n.Data.(*ast.VarDeclData); d.Kind != ast.VarVar {
			return e.unsupported(stmt, "%s declaration in generator body", d.Kind)
		}
	case ast.NodeFuncDecl, ast.NodeClassDecl:
		return e.unsupported(stmt, "%s in generator body", n.Kind)
	}

	if !ContainsLeap(t, stmt) {
		e.emit(stmt)
		return nil
	}

	switch n.Kind {
	case ast.NodeBlock:
		for _, s := range n.Data.(*ast.BlockData).Body {
			if err := e.explodeStatement(s, ""); err != nil {
				return err
			}
		}
		return nil

	case ast.NodeExprStmt:
		_, err := e.explodeExpression(n.Data.(*ast.ExprStmtData).Expr, true)
		return err

	case ast.NodeLabeled:
		d := n.Data.(*ast.LabeledData)
		after := newLoc()
		entry := &leapEntry{kind: entryLabeled, label: d.Label, breakLoc: after}
		if err := e.leaps.withEntry(entry, func() error {
			return e.explodeStatement(d.Body, d.Label)
		}); err != nil {
			return err
		}
		e.mark(after)
		return nil

	case ast.NodeWhile:
		d := n.Data.(*ast.WhileData)
		before, after := newLoc(), newLoc()
		e.mark(before)
		test, err := e.explodeExpression(d.Test, false)
		if err != nil {
			return err
		}
		e.jumpIfNot(test, after)
		if err := e.loopBody(d.Body, label, after, before); err != nil {
			return err
		}
		e.jump(before)
		e.mark(after)
		return nil

	case ast.NodeDoWhile:
		d := n.Data.(*ast.WhileData)
		first, test, after := newLoc(), newLoc(), newLoc()
		e.mark(first)
		if err := e.loopBody(d.Body, label, after, test); err != nil {
			return err
		}
		e.mark(test)
		cond, err := e.explodeExpression(d.Test, false)
		if err != nil {
			return err
		}
		e.jumpIf(cond, first)
		e.mark(after)
		return nil

	case ast.NodeFor:
		return e.explodeFor(stmt, n.Data.(*ast.ForData), label)

	case ast.NodeForIn:
		return e.explodeForIn(stmt, n.Data.(*ast.ForEachData), label)

	case ast.NodeForOf:
		return e.unsupported(stmt, "for-of must be lowered before the generator")

	case ast.NodeBreak:
		d := n.Data.(*ast.JumpData)
		target := e.leaps.breakLoc(d.Label)
		if target == nil {
			return e.unsupported(stmt, "break without target %q", d.Label)
		}
		e.abrupt("break", e.locRef(target))
		return nil

	case ast.NodeContinue:
		d := n.Data.(*ast.JumpData)
		target := e.leaps.continueLoc(d.Label)
		if target == nil {
			return e.unsupported(stmt, "continue without target %q", d.Label)
		}
		e.abrupt("continue", e.locRef(target))
		return nil

	case ast.NodeReturn:
		d := n.Data.(*ast.ReturnData)
		arg := ast.NoNodeID
		if d.Arg.IsValid() {
			var err error
			if arg, err = e.explodeExpression(d.Arg, false); err != nil {
				return err
			}
		}
		e.abrupt("return", arg)
		return nil

	case ast.NodeThrow:
		arg, err := e.explodeExpression(n.Data.(*ast.ThrowData).Arg, false)
		if err != nil {
			return err
		}
		e.emit(t.Position(t.NewThrow(arg), stmt))
		return nil

	case ast.NodeIf:
		d := n.Data.(*ast.IfData)
		after := newLoc()
		elseLoc := after
		if d.Alt.IsValid() {
			elseLoc = newLoc()
		}
		test, err := e.explodeExpression(d.Test, false)
		if err != nil {
			return err
		}
		e.jumpIfNot(test, elseLoc)
		if err := e.explodeStatement(d.Cons, ""); err != nil {
			return err
		}
		if d.Alt.IsValid() {
			e.jump(after)
			e.mark(elseLoc)
			if err := e.explodeStatement(d.Alt, ""); err != nil {
				return err
			}
		}
		e.mark(after)
		return nil

	case ast.NodeSwitch:
		return e.explodeSwitch(n.Data.(*ast.SwitchData))

	case ast.NodeTry:
		return e.explodeTry(n.Data.(*ast.TryData))
	}

	return e.unsupported(stmt, "%s containing a leap", n.Kind)
}

func (e *Emitter) loopBody(body ast.NodeID, label string, breakLoc, contLoc *loc) error {
	entry := &leapEntry{kind: entryLoop, label: label, breakLoc: breakLoc, contLoc: contLoc}
	return e.leaps.withEntry(entry, func() error {
		return e.explodeStatement(body, "")
	})
}

func (e *Emitter) explodeFor(stmt ast.NodeID, d *ast.ForData, label string) error {
	t := e.tree
	if d.Init.IsValid() {
		if t.Kind(d.Init) == ast.NodeVarDecl {
			return e.unsupported(stmt, "declaration in for head of generator body")
		}
		if _, err := e.explodeExpression(d.Init, true); err != nil {
			return err
		}
	}
	head, update, after := newLoc(), newLoc(), newLoc()
	e.mark(head)
	if d.Test.IsValid() {
		test, err := e.explodeExpression(d.Test, false)
		if err != nil {
			return err
		}
		e.jumpIfNot(test, after)
	}
	if err := e.loopBody(d.Body, label, after, update); err != nil {
		return err
	}
	e.mark(update)
	if d.Update.IsValid() {
		if _, err := e.explodeExpression(d.Update, true); err != nil {
			return err
		}
	}
	e.jump(head)
	e.mark(after)
	return nil
}

// explodeForIn iterates keys through the runtime helper:
//
//	$ctx.t0 = wrapGenerator.keys(obj)
//	head: if (($ctx.t1 = $ctx.t0()).done) goto after
//	left = $ctx.t1.value
func (e *Emitter) explodeForIn(stmt ast.NodeID, d *ast.ForEachData, label string) error {
	t := e.tree
	if t.Kind(d.Left) == ast.NodeVarDecl {
		return e.unsupported(stmt, "declaration in for-in head of generator body")
	}
	head, after := newLoc(), newLoc()

	right, err := e.explodeExpression(d.Right, false)
	if err != nil {
		return err
	}
	iter := e.makeTemp()
	keys := t.NewMember(t.NewIdent(e.rt.Object), e.rt.Keys)
	e.emitAssign(e.tempRef(iter), t.NewCall(keys, right))

	e.mark(head)
	info := e.makeTemp()
	step := t.NewAssign("=", e.tempRef(info), t.NewCall(e.tempRef(iter)))
	e.jumpIf(t.NewMember(step, "done"), after)
	e.emitAssign(d.Left, t.NewMember(e.tempRef(info), "value"))

	if err := e.loopBody(d.Body, label, after, head); err != nil {
		return err
	}
	e.jump(head)
	e.mark(after)
	return nil
}

func (e *Emitter) explodeSwitch(d *ast.SwitchData) error {
	t := e.tree
	disc := e.makeTemp()
	value, err := e.explodeExpression(d.Disc, false)
	if err != nil {
		return err
	}
	e.emitAssign(e.tempRef(disc), value)

	after := newLoc()
	defaultLoc := after
	caseLocs := make([]*loc, len(d.Cases))
	for i := range d.Cases {
		caseLocs[i] = newLoc()
	}

	// условие строится с конца: последний case вложен глубже всех
	var tests []int
	for i, cid := range d.Cases {
		c, _ := t.Case(cid)
		if c.Test.IsValid() {
			tests = append(tests, i)
		} else {
			defaultLoc = caseLocs[i]
		}
	}
	cond := e.locRef(defaultLoc)
	for j := len(tests) - 1; j >= 0; j-- {
		i := tests[j]
		c, _ := t.Case(d.Cases[i])
		eq := t.NewBinary("===", e.tempRef(disc), c.Test)
		cond = t.New(ast.NodeConditional, &ast.ConditionalData{Test: eq, Cons: e.locRef(caseLocs[i]), Alt: cond})
	}
	target, err := e.explodeExpression(cond, false)
	if err != nil {
		return err
	}
	e.emitAssign(e.contextProperty("next"), target)
	e.emit(t.NewBreak(""))

	entry := &leapEntry{kind: entrySwitch, breakLoc: after}
	if err := e.leaps.withEntry(entry, func() error {
		for i, cid := range d.Cases {
			c, _ := t.Case(cid)
			e.mark(caseLocs[i])
			for _, s := range c.Cons {
				if err := e.explodeStatement(s, ""); err != nil {
					return err
				}
			}
		}
		return nil
	}); err != nil {
		return err
	}
	e.mark(after)
	return nil
}

func (e *Emitter) explodeTry(d *ast.TryData) error {
	t := e.tree
	after := newLoc()
	entry := &leapEntry{kind: entryTry, afterLoc: after}

	catchData, hasCatch := t.Catch(d.Handler)
	if hasCatch {
		entry.catchEntry = &leapEntry{kind: entryCatch, firstLoc: newLoc()}
		if catchData.Param.IsValid() {
			if t.Kind(catchData.Param) != ast.NodeIdent {
				return e.unsupported(d.Handler, "destructuring catch parameter in generator body")
			}
			entry.catchEntry.param = t.Name(catchData.Param)
		}
	}
	if d.Finalizer.IsValid() {
		entry.finEntry = &leapEntry{kind: entryFinally, firstLoc: newLoc()}
	}
	entry.firstLoc = e.updatePrev(nil)
	e.tries = append(e.tries, tryInfo{entry: entry})

	err := e.leaps.withEntry(entry, func() error {
		if err := e.explodeStatement(d.Block, ""); err != nil {
			return err
		}
		if hasCatch {
			if entry.finEntry != nil {
				e.jump(entry.finEntry.firstLoc)
			} else {
				e.jump(after)
			}
			e.updatePrev(e.mark(entry.catchEntry.firstLoc))

			caught := t.NewCall(e.contextProperty("catch"), e.locRef(entry.firstLoc))
			if entry.catchEntry.param != "" {
				safe := e.makeTemp()
				e.emitAssign(e.tempRef(safe), caught)
				e.renameCatchParam(catchData.Body, entry.catchEntry.param, safe)
			} else {
				e.emit(caught)
			}
			if err := e.leaps.withEntry(entry.catchEntry, func() error {
				return e.explodeStatement(catchData.Body, "")
			}); err != nil {
				return err
			}
		}
		if entry.finEntry != nil {
			e.updatePrev(e.mark(entry.finEntry.firstLoc))
			if err := e.leaps.withEntry(entry.finEntry, func() error {
				return e.explodeStatement(d.Finalizer, "")
			}); err != nil {
				return err
			}
			e.emit(t.NewReturn(t.NewCall(e.contextProperty("finish"), e.locRef(entry.finEntry.firstLoc))))
		}
		return nil
	})
	if err != nil {
		return err
	}
	e.mark(after)
	return nil
}
