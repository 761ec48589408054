package diag_test

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"regen/internal/diag"
	"regen/internal/source"
)

func TestBagLimitAndErrors(t *testing.T) {
	bag := diag.NewBag(2)
	be.True(t, bag.Add(diag.New(diag.SevWarning, diag.LowInfo, source.Span{}, "first")))
	be.True(t, !bag.HasErrors())
	be.True(t, bag.HasWarnings())
	be.True(t, bag.Add(diag.NewError(diag.LowMissingChild, source.Span{Start: 4}, "second")))
	be.True(t, !bag.Add(diag.NewError(diag.LowMissingChild, source.Span{Start: 5}, "dropped")))
	be.Equal(t, bag.Len(), 2)
	be.True(t, bag.HasErrors())
}

func TestBagSortAndDedup(t *testing.T) {
	bag := diag.NewBag(10)
	r := diag.BagReporter{Bag: bag}
	r.Report(diag.LowUnsupportedGenerator, diag.SevError, source.Span{Start: 30, End: 40}, source.LineCol{Line: 3, Col: 2}, "late")
	r.Report(diag.LowUnsupportedForOfTarget, diag.SevError, source.Span{Start: 1, End: 9}, source.LineCol{Line: 1, Col: 1}, "early")
	r.Report(diag.LowUnsupportedForOfTarget, diag.SevError, source.Span{Start: 1, End: 9}, source.LineCol{Line: 1, Col: 1}, "early again")

	bag.Sort()
	bag.Dedup()
	be.Equal(t, bag.Len(), 2)
	be.Equal(t, bag.Items()[0].Message, "early")

	fs := source.NewFileSet()
	fs.AddVirtual("in.json", nil)
	out := diag.FormatShort(bag, fs)
	lines := strings.Split(out, "\n")
	be.Equal(t, len(lines), 2)
	be.Equal(t, lines[0], "ERROR LOW2002 in.json:1:1 early")
	be.Equal(t, lines[1], "ERROR LOW2001 in.json:3:2 late")
}

func TestCodeID(t *testing.T) {
	be.Equal(t, diag.TreeUnknownNode.ID(), "IO1101")
	be.Equal(t, diag.LowUnsupportedGenerator.ID(), "LOW2001")
	be.Equal(t, diag.ObsCache.ID(), "OBS3002")
	be.Equal(t, diag.Code(42).ID(), "E0000")
	be.Equal(t, diag.Code(9999).Title(), "Unknown error")
}
