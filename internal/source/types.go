package source

import "fmt"

type (
	// FileID uniquely identifies an input within a FileSet.
	FileID uint32 // просто ID источника
	// FileFlags encodes metadata about an input.
	FileFlags uint8 // метаданные
)

const (
	// FileVirtual indicates the input was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска (тест, stdin)
	FileHadBOM
)

// File captures metadata and content for a single input tree.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position as reported by the parser
// that produced the tree.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 0-based, как в ESTree loc
}

// Known reports whether the position carries parser information.
func (lc LineCol) Known() bool {
	return lc.Line != 0
}

func (lc LineCol) String() string {
	if !lc.Known() {
		return "?"
	}
	return fmt.Sprintf("%d:%d", lc.Line, lc.Col)
}
