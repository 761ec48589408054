package lower

import (
	"errors"
	"fmt"

	"regen/internal/ast"
	"regen/internal/diag"
	"regen/internal/emit"
	"regen/internal/hoist"
	"regen/internal/source"
)

var (
	ErrUnsupportedShape  = errors.New("unsupported generator shape")
	ErrUnsupportedTarget = errors.New("unsupported for-of target")
	ErrMissingChild      = errors.New("missing child node")
)

// AssertionError reports a structural problem found while lowering. The
// tree may be partially rewritten when it is returned.
type AssertionError struct {
	Kind ast.NodeKind
	Loc  source.LineCol
	Span source.Span
	Msg  string
	Err  error
}

func (e *AssertionError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("lower: %s at %s: %v", e.Kind, e.Loc, e.Err)
	}
	return fmt.Sprintf("lower: %s at %s: %v: %s", e.Kind, e.Loc, e.Err, e.Msg)
}

func (e *AssertionError) Unwrap() error { return e.Err }

// Message is the error text without the position prefix.
func (e *AssertionError) Message() string {
	if e.Msg == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + ": " + e.Msg
}

// Code maps the failure to its diagnostic code.
func (e *AssertionError) Code() diag.Code {
	switch {
	case errors.Is(e.Err, ErrUnsupportedShape):
		return diag.LowUnsupportedGenerator
	case errors.Is(e.Err, ErrUnsupportedTarget):
		return diag.LowUnsupportedForOfTarget
	case errors.Is(e.Err, ErrMissingChild):
		return diag.LowMissingChild
	case errors.Is(e.Err, emit.ErrYieldContext):
		return diag.LowUnsupportedYieldContext
	case errors.Is(e.Err, emit.ErrUnsupported), errors.Is(e.Err, hoist.ErrUnsupported):
		return diag.LowUnsupportedStatement
	}
	return diag.UnknownCode
}

// fail builds an AssertionError for node id and reports it.
func (p *Pass) fail(id ast.NodeID, err error, format string, args ...any) error {
	ae := &AssertionError{Kind: p.tree.Kind(id), Err: err, Msg: fmt.Sprintf(format, args...)}
	if n := p.tree.Get(id); n != nil {
		ae.Loc = n.Loc
		ae.Span = n.Span
	}
	if p.reporter != nil {
		p.reporter.Report(ae.Code(), diag.SevError, ae.Span, ae.Loc, ae.Message())
	}
	return ae
}
