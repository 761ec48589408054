package diag

import (
	"regen/internal/source"
)

type Note struct {
	Span source.Span
	Loc  source.LineCol
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	// Loc is the parser-reported position of Primary; the inputs are trees,
	// so line information cannot be recomputed from bytes.
	Loc   source.LineCol
	Notes []Note
}
