package diag

import (
	"fmt"
	"strings"

	"regen/internal/source"
)

// FormatShort renders diagnostics one per line:
//
//	<SEV> <CODE> <path>:<line>:<col> <message>
//
// The bag is expected to be sorted beforehand.
func FormatShort(bag *Bag, fs *source.FileSet) string {
	if bag == nil || bag.Len() == 0 {
		return ""
	}
	var b strings.Builder
	for i, d := range bag.Items() {
		path := "<input>"
		if fs != nil {
			if f := fs.Get(d.Primary.File); f != nil {
				path = f.Path
			}
		}
		fmt.Fprintf(&b, "%s %s %s:%s %s", d.Severity, d.Code.ID(), path, d.Loc, sanitizeMessage(d.Message))
		for _, n := range d.Notes {
			fmt.Fprintf(&b, "\n  note %s:%s %s", path, n.Loc, sanitizeMessage(n.Msg))
		}
		if i < bag.Len()-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
