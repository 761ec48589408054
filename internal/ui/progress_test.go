package ui

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"regen/internal/driver"
)

func newTestModel(files ...string) *progressModel {
	return NewProgressModel("lowering", files, nil).(*progressModel)
}

func TestApplyEventTracksStages(t *testing.T) {
	m := newTestModel("a.json", "b.json")

	m.applyEvent(driver.Event{File: "a.json", Stage: driver.StageLower, Status: driver.StatusWorking})
	be.Equal(t, m.items[0].status, "lowering")
	be.True(t, math.Abs(m.percent()-0.325) < 1e-9)

	m.applyEvent(driver.Event{File: "a.json", Stage: driver.StageEmit, Status: driver.StatusDone})
	m.applyEvent(driver.Event{File: "b.json", Stage: driver.StageEmit, Status: driver.StatusError, Err: errors.New("boom")})
	be.Equal(t, m.percent(), 1.0)

	done, cached, failed := m.Summary()
	be.Equal(t, [3]int{done, cached, failed}, [3]int{1, 0, 1})
	be.Equal(t, m.items[1].err, "boom")
}

func TestApplyEventIgnoresUnknownFile(t *testing.T) {
	m := newTestModel("a.json")
	be.True(t, m.applyEvent(driver.Event{File: "zzz.json", Status: driver.StatusDone}) == nil)
	be.Equal(t, m.items[0].status, "queued")
}

func TestViewShowsSummaryWhenDone(t *testing.T) {
	m := newTestModel("a.json")
	m.applyEvent(driver.Event{File: "a.json", Stage: driver.StageEmit, Status: driver.StatusCached})
	m.Update(doneMsg{})
	view := m.View()
	be.True(t, strings.Contains(view, "1 cached"))
	be.True(t, strings.Contains(view, "a.json"))
}

func TestTruncate(t *testing.T) {
	be.Equal(t, truncate("abcdef", 10), "abcdef")
	be.Equal(t, truncate("abcdefghij", 6), "abc...")
	be.Equal(t, truncate("abcdef", 2), "ab")
}
