package emit

// loc is a position in the listing. The value stays -1 until the location
// is marked; every numeric literal referring to it is patched afterwards.
type loc struct {
	value int
}

type entryKind uint8

const (
	entryLoop entryKind = iota
	entrySwitch
	entryLabeled
	entryTry
	entryCatch
	entryFinally
)

// leapEntry describes one statement on the leap stack.
type leapEntry struct {
	kind     entryKind
	label    string
	breakLoc *loc
	contLoc  *loc // loops only

	// try statements
	firstLoc   *loc
	afterLoc   *loc
	catchEntry *leapEntry
	finEntry   *leapEntry
	param      string // catch only
}

// leapManager tracks the statements enclosing the one being exploded so
// break and continue can find their targets.
type leapManager struct {
	stack []*leapEntry
}

func (m *leapManager) withEntry(e *leapEntry, fn func() error) error {
	m.stack = append(m.stack, e)
	defer func() { m.stack = m.stack[:len(m.stack)-1] }()
	return fn()
}

func (m *leapManager) breakLoc(label string) *loc {
	for i := len(m.stack) - 1; i >= 0; i-- {
		e := m.stack[i]
		switch e.kind {
		case entryLoop, entrySwitch:
			if label == "" || (e.kind == entryLoop && e.label == label) {
				return e.breakLoc
			}
		case entryLabeled:
			if label != "" && e.label == label {
				return e.breakLoc
			}
		}
	}
	return nil
}

func (m *leapManager) continueLoc(label string) *loc {
	for i := len(m.stack) - 1; i >= 0; i-- {
		e := m.stack[i]
		if e.kind == entryLoop && (label == "" || e.label == label) {
			return e.contLoc
		}
	}
	return nil
}
