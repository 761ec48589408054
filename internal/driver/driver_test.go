package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"regen/internal/diag"
	"regen/internal/driver"
	"regen/internal/observ"
	"regen/internal/project"
)

const genJSON = `{"type": "Program", "body": [
  {"type": "FunctionDeclaration", "id": {"type": "Identifier", "name": "g"},
   "params": [], "generator": true,
   "body": {"type": "BlockStatement", "body": [
     {"type": "ReturnStatement", "argument": null}]}}
]}`

const loopJSON = `{"type": "Program", "body": [
  {"type": "ForOfStatement",
   "left": {"type": "Identifier", "name": "v"},
   "right": {"type": "Identifier", "name": "vs"},
   "body": {"type": "EmptyStatement"}}
]}`

const badTargetJSON = `{"type": "Program", "body": [
  {"type": "ForOfStatement",
   "left": {"type": "MemberExpression", "computed": false,
     "object": {"type": "Identifier", "name": "o"}, "property": {"type": "Identifier", "name": "p"}},
   "right": {"type": "Identifier", "name": "vs"},
   "body": {"type": "EmptyStatement"}}
]}`

func writeFiles(t *testing.T, files map[string]string) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.json", "b.json", "c.json", "d.json"} {
		body, ok := files[name]
		if !ok {
			continue
		}
		p := filepath.Join(dir, name)
		be.Err(t, os.WriteFile(p, []byte(body), 0o600), nil)
		paths = append(paths, p)
	}
	return dir, paths
}

func TestLowerFilesKeepsOrder(t *testing.T) {
	_, paths := writeFiles(t, map[string]string{"a.json": genJSON, "b.json": loopJSON})

	_, results, err := driver.LowerFiles(context.Background(), &driver.Request{
		Files:  paths,
		Jobs:   2,
		Format: driver.FormatJS,
	})
	be.Err(t, err, nil)
	be.Equal(t, len(results), 2)
	be.Equal(t, results[0].Stats.Generators, 1)
	be.True(t, strings.HasPrefix(string(results[0].Output), "var g = wrapGenerator.mark(function g() {"))
	be.Equal(t, results[1].Stats.Loops, 1)
	be.True(t, strings.HasPrefix(string(results[1].Output), "for (var t$0$0 = wrapGenerator.values(vs), t$0$1;"))
	for _, r := range results {
		be.True(t, !r.Failed())
		be.Equal(t, r.Bag.Len(), 0)
	}
}

func TestLowerFilesReportsFailures(t *testing.T) {
	_, paths := writeFiles(t, map[string]string{
		"a.json": badTargetJSON,
		"b.json": `{"type": "Program", "body": [{"type": "WithStatement"}]}`,
		"c.json": `{"type": `,
	})
	paths = append(paths, filepath.Join(t.TempDir(), "missing.json"))

	_, results, err := driver.LowerFiles(context.Background(), &driver.Request{Files: paths, MaxDiagnostics: 10})
	be.Err(t, err, nil)
	codes := make([]diag.Code, len(results))
	for i, r := range results {
		be.True(t, r.Failed())
		be.Equal(t, r.Bag.Len(), 1)
		codes[i] = r.Bag.Items()[0].Code
	}
	be.Equal(t, codes, []diag.Code{
		diag.LowUnsupportedForOfTarget,
		diag.TreeUnknownNode,
		diag.TreeBadJSON,
		diag.IOLoadFileError,
	})
}

func TestLowerFilesUsesCache(t *testing.T) {
	_, paths := writeFiles(t, map[string]string{"a.json": genJSON})
	cache, err := driver.OpenDiskCacheAt(t.TempDir())
	be.Err(t, err, nil)
	req := &driver.Request{Files: paths, Cache: cache}

	_, first, err := driver.LowerFiles(context.Background(), req)
	be.Err(t, err, nil)
	be.True(t, !first[0].Cached)

	_, second, err := driver.LowerFiles(context.Background(), req)
	be.Err(t, err, nil)
	be.True(t, second[0].Cached)
	be.Equal(t, second[0].Output, first[0].Output)
	be.Equal(t, second[0].Stats, first[0].Stats)

	// другой runtime, другой ключ
	req.Runtime.Object = "rt"
	_, third, err := driver.LowerFiles(context.Background(), req)
	be.Err(t, err, nil)
	be.True(t, !third[0].Cached)
	be.True(t, strings.Contains(string(third[0].Output), `"name": "rt"`))
}

func TestLowerFilesEmitsEvents(t *testing.T) {
	_, paths := writeFiles(t, map[string]string{"a.json": genJSON, "b.json": badTargetJSON})
	events := make(chan driver.Event, 64)
	timer := observ.NewTimer()

	_, _, err := driver.LowerFiles(context.Background(), &driver.Request{
		Files:    paths,
		Progress: driver.ChannelSink{Ch: events},
		Timer:    timer,
	})
	be.Err(t, err, nil)
	close(events)

	final := map[string]driver.Status{}
	for ev := range events {
		if ev.Stage == driver.StageEmit {
			final[ev.File] = ev.Status
		}
	}
	be.Equal(t, len(final), 2)
	for file, status := range final {
		if strings.HasSuffix(file, "a.json") {
			be.Equal(t, status, driver.StatusDone)
		} else {
			be.Equal(t, status, driver.StatusError)
		}
	}
	be.True(t, len(timer.Report().Phases) >= 5)
}

func TestLowerFilesCancelled(t *testing.T) {
	_, paths := writeFiles(t, map[string]string{"a.json": genJSON})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := driver.LowerFiles(ctx, &driver.Request{Files: paths})
	be.Err(t, err, context.Canceled)
}

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := driver.OpenDiskCacheAt(t.TempDir())
	be.Err(t, err, nil)
	key := project.HashString("k")

	var out driver.DiskPayload
	ok, err := cache.Get(key, &out)
	be.Err(t, err, nil)
	be.True(t, !ok)

	be.Err(t, cache.Put(key, &driver.DiskPayload{Path: "x.json", Output: []byte("ok"), Loops: 2}), nil)
	ok, err = cache.Get(key, &out)
	be.Err(t, err, nil)
	be.True(t, ok)
	be.Equal(t, string(out.Output), "ok")
	be.Equal(t, out.Loops, 2)

	be.Err(t, cache.DropAll(), nil)
	ok, err = cache.Get(key, &out)
	be.Err(t, err, nil)
	be.True(t, !ok)
}

func TestParseFormat(t *testing.T) {
	f, err := driver.ParseFormat("")
	be.Err(t, err, nil)
	be.Equal(t, f, driver.FormatJSON)
	f, err = driver.ParseFormat("js")
	be.Err(t, err, nil)
	be.Equal(t, f, driver.FormatJS)
	_, err = driver.ParseFormat("yaml")
	be.True(t, err != nil)
}

func TestLowerFilesReadsRepeatedPathOnce(t *testing.T) {
	_, paths := writeFiles(t, map[string]string{"a.json": loopJSON})
	fs, results, err := driver.LowerFiles(context.Background(), &driver.Request{
		Files:  []string{paths[0], paths[0]},
		Format: driver.FormatJS,
	})
	be.Err(t, err, nil)
	be.Equal(t, fs.Len(), 1)
	be.Equal(t, results[0].FileID, results[1].FileID)
	be.Equal(t, results[0].Output, results[1].Output)
	be.True(t, !results[1].Failed())
}
