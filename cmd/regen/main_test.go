package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/nalgeon/be"
	"github.com/spf13/cobra"

	"regen/internal/diag"
	"regen/internal/driver"
	"regen/internal/source"
)

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

// runCLI executes a fresh command tree so flag state does not leak between tests.
func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	return runCLIWithInput(t, "", args...)
}

func runCLIWithInput(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	color.NoColor = true
	root := &cobra.Command{Use: "regen", SilenceUsage: true, SilenceErrors: true}
	registerRootFlags(root)
	lower := &cobra.Command{Use: "lower", Args: cobra.MinimumNArgs(1), RunE: runLower}
	registerLowerFlags(lower)
	dump := &cobra.Command{Use: "dump", Args: cobra.ExactArgs(1), RunE: runDump}
	root.AddCommand(lower, dump)

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func writeInput(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	be.Err(t, os.WriteFile(p, []byte(body), 0o600), nil)
	return p
}

func emptyConfig(t *testing.T) string {
	t.Helper()
	return writeInput(t, t.TempDir(), "regen.toml", "")
}

func TestLowerPrintsToStdout(t *testing.T) {
	in := writeInput(t, t.TempDir(), "a.json", loopJSON)
	stdout, _, err := runCLI(t, "--config", emptyConfig(t), "lower", "--no-cache", "--ui", "off", "--format", "js", in)
	be.Err(t, err, nil)
	be.True(t, strings.HasPrefix(stdout, "for (var t$0$0 = wrapGenerator.values(vs), t$0$1;"))
}

func TestLowerRuntimeFlagOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "a.json", loopJSON)
	cfg := writeInput(t, dir, "regen.toml", "[runtime]\nobject = \"fromConfig\"\n\n[lower]\nformat = \"js\"\ncache = false\n")

	stdout, _, err := runCLI(t, "--config", cfg, "lower", "--ui", "off", in)
	be.Err(t, err, nil)
	be.True(t, strings.Contains(stdout, "fromConfig.values(vs)"))

	stdout, _, err = runCLI(t, "--config", cfg, "lower", "--ui", "off", "--runtime", "rt", in)
	be.Err(t, err, nil)
	be.True(t, strings.Contains(stdout, "rt.values(vs)"))
}

func TestLowerWritesOutDir(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "a.json", loopJSON)
	out := filepath.Join(dir, "build")

	_, stderr, err := runCLI(t, "--config", emptyConfig(t), "lower", "--no-cache", "--ui", "off", "--out", out, in)
	be.Err(t, err, nil)
	be.True(t, strings.Contains(stderr, "lowered 1 files (0 cached): 0 generators, 1 loops"))

	data, err := os.ReadFile(filepath.Join(out, "a.json"))
	be.Err(t, err, nil)
	var decoded map[string]any
	be.Err(t, json.Unmarshal(data, &decoded), nil)
	be.Equal(t, decoded["type"], any("Program"))
}

func TestLowerReportsFailures(t *testing.T) {
	dir := t.TempDir()
	good := writeInput(t, dir, "a.json", loopJSON)
	bad := writeInput(t, dir, "b.json", badTargetJSON)

	stdout, stderr, err := runCLI(t, "--config", emptyConfig(t), "lower", "--no-cache", "--ui", "off", "--format", "js", good, bad)
	be.True(t, err != nil)
	be.Equal(t, err.Error(), "1 of 2 files failed")
	be.True(t, strings.HasPrefix(stdout, "for (var t$0$0"))
	be.True(t, strings.HasPrefix(stderr, "ERROR LOW2002 "))
	be.True(t, strings.Contains(stderr, "b.json"))
}

func TestLowerRejectsBadFlags(t *testing.T) {
	in := writeInput(t, t.TempDir(), "a.json", loopJSON)
	_, _, err := runCLI(t, "--config", emptyConfig(t), "lower", "--format", "yaml", in)
	be.True(t, err != nil)
	_, _, err = runCLI(t, "--config", emptyConfig(t), "lower", "--ui", "maybe", in)
	be.True(t, err != nil)
}

func TestDumpDoesNotLower(t *testing.T) {
	in := writeInput(t, t.TempDir(), "a.json", loopJSON)
	stdout, _, err := runCLI(t, "dump", in)
	be.Err(t, err, nil)
	be.True(t, strings.HasPrefix(stdout, "for (v of vs)"))
}

func TestDumpReadsStdin(t *testing.T) {
	stdout, _, err := runCLIWithInput(t, loopJSON, "dump", "-")
	be.Err(t, err, nil)
	be.True(t, strings.HasPrefix(stdout, "for (v of vs)"))

	_, _, err = runCLIWithInput(t, `{"type": `, "dump", "-")
	be.True(t, err != nil)
	be.True(t, strings.HasPrefix(err.Error(), "<stdin>: "))
}

func TestPrintDiagnosticsDropsDuplicates(t *testing.T) {
	color.NoColor = true
	bag := diag.NewBag(10)
	for range 2 {
		bag.Add(diag.NewError(diag.LowMissingChild, source.Span{Start: 3}, "missing"))
	}
	var buf bytes.Buffer
	failed := printDiagnostics(&buf, nil, []driver.FileResult{{Path: "a.json", Bag: bag, Err: errors.New("x")}})
	be.Equal(t, failed, 1)
	be.Equal(t, strings.Count(buf.String(), "missing"), 1)
}

func TestOutputPath(t *testing.T) {
	be.Equal(t, outputPath("out", "src/a.json", driver.FormatJS), filepath.Join("out", "a.js"))
	be.Equal(t, outputPath("out", "b", driver.FormatJSON), filepath.Join("out", "b.json"))
}

func TestWriteResultsRejectsCollisions(t *testing.T) {
	results := []driver.FileResult{
		{Path: "x/a.json", Output: []byte("{}")},
		{Path: "y/a.json", Output: []byte("{}")},
	}
	_, err := writeResults(nil, t.TempDir(), driver.FormatJSON, results)
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), "both write"))
}

func TestReadUIMode(t *testing.T) {
	mode, err := readUIMode(" ON ")
	be.Err(t, err, nil)
	be.Equal(t, mode, uiModeOn)
	mode, err = readUIMode("")
	be.Err(t, err, nil)
	be.Equal(t, mode, uiModeAuto)
	_, err = readUIMode("sometimes")
	be.True(t, err != nil)

	be.True(t, shouldUseTUI(uiModeOn, false, true))
	be.True(t, !shouldUseTUI(uiModeAuto, false, false))
}

func TestBuildLogger(t *testing.T) {
	logger, err := buildLogger("debug")
	be.Err(t, err, nil)
	be.True(t, logger != nil)
	_, err = buildLogger("loud")
	be.True(t, err != nil)
}

func TestVersionOutput(t *testing.T) {
	var buf bytes.Buffer
	info := buildInfo{Tool: "regen", Version: "1.2.3", Runtime: "wrapGenerator", GitCommit: "abc"}
	be.Err(t, writeBuildJSON(&buf, info), nil)
	var decoded buildInfo
	be.Err(t, json.Unmarshal(buf.Bytes(), &decoded), nil)
	be.Equal(t, decoded, info)
	be.True(t, !strings.Contains(buf.String(), "build_date"))

	buf.Reset()
	color.NoColor = true
	writeBuildPretty(&buf, info)
	be.Equal(t, buf.String(), "regen 1.2.3 (runtime wrapGenerator)\ncommit: abc\n")
}
