package lower

import (
	"strconv"

	"regen/internal/ast"
)

// Namer hands out identifiers that are unique within one tree. It is
// seeded with every identifier already present, and every name it returns
// is registered before it is returned.
type Namer struct {
	used  map[string]struct{}
	ctx   int
	temps map[ast.NodeID]int // next temporary index per scope
}

// NewNamer creates a namer seeded with the identifier names of root.
func NewNamer(t *ast.Tree, root ast.NodeID) *Namer {
	n := &Namer{
		used:  make(map[string]struct{}),
		temps: make(map[ast.NodeID]int),
	}
	t.Walk(root, func(id ast.NodeID) bool {
		if name := t.Name(id); name != "" {
			n.used[name] = struct{}{}
		}
		return true
	})
	return n
}

// Used reports whether name is taken.
func (n *Namer) Used(name string) bool {
	_, ok := n.used[name]
	return ok
}

// Reserve marks name as taken.
func (n *Namer) Reserve(name string) {
	n.used[name] = struct{}{}
}

// Fresh returns base when free, else base followed by the first free
// positive number.
func (n *Namer) Fresh(base string) string {
	name := base
	for i := 1; n.Used(name); i++ {
		name = base + strconv.Itoa(i)
	}
	n.Reserve(name)
	return name
}

// Context returns the next free `$ctx<N>` name.
func (n *Namer) Context() string {
	for {
		name := "$ctx" + strconv.Itoa(n.ctx)
		n.ctx++
		if !n.Used(name) {
			n.Reserve(name)
			return name
		}
	}
}

// Temporary returns a `t$<depth>$<index>` name for scope and declares it
// there. The depth is written in base 36.
func (n *Namer) Temporary(scope *ast.Scope) string {
	prefix := "t$" + strconv.FormatInt(int64(scope.Depth), 36) + "$"
	for {
		idx := n.temps[scope.Node]
		n.temps[scope.Node] = idx + 1
		name := prefix + strconv.Itoa(idx)
		if !n.Used(name) && scope.Lookup(name) == nil {
			n.Reserve(name)
			scope.Declare(name)
			return name
		}
	}
}
