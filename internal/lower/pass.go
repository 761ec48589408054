package lower

import (
	"go.uber.org/zap"

	"regen/internal/ast"
	"regen/internal/diag"
)

// Options configures a Pass. Zero values select the defaults.
type Options struct {
	Runtime  Runtime
	Hoister  Hoister
	Emitter  EmitterFactory
	Reporter diag.Reporter
	Logger   *zap.Logger
}

// Pass holds the state of one lowering run over one tree.
type Pass struct {
	tree     *ast.Tree
	rt       Runtime
	hoister  Hoister
	emitter  EmitterFactory
	reporter diag.Reporter
	log      *zap.Logger

	names   *Namer
	scopes  []*ast.Scope
	funcs   []ast.NodeID
	frames  []*frame
	removed map[ast.NodeID]struct{}

	stats Stats
}

// Stats counts what a pass rewrote.
type Stats struct {
	Generators int
	Loops      int
}

// New creates a pass over t.
func New(t *ast.Tree, opts Options) *Pass {
	p := &Pass{
		tree:     t,
		rt:       opts.Runtime.withDefaults(),
		hoister:  opts.Hoister,
		emitter:  opts.Emitter,
		reporter: opts.Reporter,
		log:      opts.Logger,
		removed:  make(map[ast.NodeID]struct{}),
	}
	if p.hoister == nil {
		p.hoister = defaultHoister
	}
	if p.emitter == nil {
		p.emitter = StateMachineEmitter
	}
	if p.log == nil {
		p.log = zap.NewNop()
	}
	return p
}

// Run lowers the tree rooted at root in place. It stops at the first
// failure, which is always an *AssertionError.
func (p *Pass) Run(root ast.NodeID) error {
	if !root.IsValid() {
		return p.fail(root, ErrMissingChild, "no root node")
	}
	p.names = NewNamer(p.tree, root)
	// корень без собственной области видимости (Block, ForOf, ...)
	if !ast.IsScopeNode(p.tree.Kind(root)) {
		p.scopes = append(p.scopes, ast.NewScope(p.tree, root, nil))
		defer func() { p.scopes = p.scopes[:0] }()
	}
	slot := root
	return p.visit(&slot, ast.NoNodeID)
}

// Stats returns the rewrite counters of the last Run.
func (p *Pass) Stats() Stats {
	return p.stats
}

// Lower is a shortcut for New(t, opts).Run(root).
func Lower(t *ast.Tree, root ast.NodeID, opts Options) error {
	return New(t, opts).Run(root)
}

func (p *Pass) scope() *ast.Scope {
	if len(p.scopes) == 0 {
		return nil
	}
	return p.scopes[len(p.scopes)-1]
}

// inGenerator reports whether the innermost enclosing function is still
// generator-marked.
func (p *Pass) inGenerator() bool {
	if len(p.funcs) == 0 {
		return false
	}
	fn, ok := p.tree.Function(p.funcs[len(p.funcs)-1])
	return ok && fn.Generator
}

// visit lowers the subtree in *slot after all of its children (postorder).
// parent is the node owning the slot.
func (p *Pass) visit(slot *ast.NodeID, parent ast.NodeID) error {
	id := *slot
	t := p.tree
	kind := t.Kind(id)
	if kind == ast.NodeInvalid {
		return p.fail(parent, ErrMissingChild, "dangling child reference %d", id)
	}

	if ast.IsScopeNode(kind) {
		p.scopes = append(p.scopes, ast.NewScope(t, id, p.scope()))
		defer func() { p.scopes = p.scopes[:len(p.scopes)-1] }()
	}
	if kind.IsFunction() {
		p.funcs = append(p.funcs, id)
		defer func() { p.funcs = p.funcs[:len(p.funcs)-1] }()
	}
	isFrame := kind == ast.NodeBlock || kind == ast.NodeProgram
	if isFrame {
		p.frames = append(p.frames, &frame{owner: id})
	}

	for _, child := range t.Slots(id) {
		if err := p.visit(child, id); err != nil {
			return err
		}
	}

	if list, ok := t.StmtList(id); ok {
		p.dropRemoved(list)
	}
	if isFrame {
		f := p.frames[len(p.frames)-1]
		p.frames = p.frames[:len(p.frames)-1]
		p.applyFrame(f)
	}

	switch kind {
	case ast.NodeFuncDecl, ast.NodeFuncExpr, ast.NodeArrow:
		return p.lowerFunction(slot, parent)
	case ast.NodeForOf:
		return p.lowerForOf(id)
	}
	return nil
}
