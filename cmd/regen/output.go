package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"regen/internal/diag"
	"regen/internal/driver"
	"regen/internal/observ"
	"regen/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	noteColor    = color.New(color.Faint)
	okColor      = color.New(color.FgGreen)
)

// outputPath maps an input file to <dir>/<name>.<format>.
func outputPath(dir, input string, format driver.Format) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, base+"."+string(format))
}

// writeResults writes every successful output either into dir or to out.
// It returns the number of files written.
func writeResults(out io.Writer, dir string, format driver.Format, results []driver.FileResult) (int, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	written := 0
	seen := make(map[string]string, len(results))
	for i := range results {
		r := &results[i]
		if r.Failed() {
			continue
		}
		data := r.Output
		if !bytes.HasSuffix(data, []byte("\n")) {
			data = append(data[:len(data):len(data)], '\n')
		}
		if dir == "" {
			if _, err := out.Write(data); err != nil {
				return written, fmt.Errorf("failed to write output: %w", err)
			}
			written++
			continue
		}
		target := outputPath(dir, r.Path, format)
		if prev, ok := seen[target]; ok {
			return written, fmt.Errorf("%s and %s both write %s", prev, r.Path, target)
		}
		seen[target] = r.Path
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", target, err)
		}
		written++
	}
	return written, nil
}

// printDiagnostics prints every bag in input order and returns the number
// of failed files.
func printDiagnostics(out io.Writer, fs *source.FileSet, results []driver.FileResult) int {
	failed := 0
	for i := range results {
		r := &results[i]
		if r.Failed() {
			failed++
		}
		if r.Bag == nil || r.Bag.Len() == 0 {
			continue
		}
		r.Bag.Sort()
		r.Bag.Dedup()
		for _, line := range strings.Split(diag.FormatShort(r.Bag, fs), "\n") {
			fmt.Fprintln(out, colorizeLine(line))
		}
	}
	return failed
}

func colorizeLine(line string) string {
	head, rest, ok := strings.Cut(line, " ")
	if !ok {
		return line
	}
	switch head {
	case diag.SevError.String():
		return errorColor.Sprint(head) + " " + rest
	case diag.SevWarning.String():
		return warningColor.Sprint(head) + " " + rest
	case "":
		// строки заметок начинаются с отступа
		return noteColor.Sprint(line)
	}
	return line
}

func printTimings(out io.Writer, timer *observ.Timer) {
	if timer == nil {
		return
	}
	fmt.Fprint(out, timer.Summary())
}

func printSummary(out io.Writer, results []driver.FileResult, written int) {
	var generators, loops, cached int
	for i := range results {
		generators += results[i].Stats.Generators
		loops += results[i].Stats.Loops
		if results[i].Cached {
			cached++
		}
	}
	fmt.Fprintf(out, "%s %d files (%d cached): %d generators, %d loops\n",
		okColor.Sprint("lowered"), written, cached, generators, loops)
}
