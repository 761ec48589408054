package testkit

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	mdast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Fence languages understood in a case file.
const (
	FenceInput  = "json"  // ESTree input
	FenceOutput = "js"    // expected dump of the lowered tree
	FenceError  = "error" // expected diagnostic code id, e.g. LOW2002
)

const casePrefix = "Case: "

// Case is one lowering case taken from a Markdown file.
type Case struct {
	Name   string
	Line   int
	Input  string
	Output string
	Error  string
}

// LoadCases reads the Markdown file at path and extracts its cases.
func LoadCases(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cases, err := ExtractCases(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cases, nil
}

// ExtractCases walks the headings of a Markdown document. Every heading
// starting with "Case: " opens a case; the fenced blocks up to the next
// such heading belong to it. A case needs one input fence and exactly one
// of an output or an error fence.
func ExtractCases(src []byte) ([]Case, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var cases []Case
	var cur *Case
	flush := func() error {
		if cur == nil {
			return nil
		}
		if err := cur.validate(); err != nil {
			return err
		}
		cases = append(cases, *cur)
		return nil
	}

	err := mdast.Walk(doc, func(node mdast.Node, entering bool) (mdast.WalkStatus, error) {
		if !entering {
			return mdast.WalkContinue, nil
		}
		switch n := node.(type) {
		case *mdast.Heading:
			title := nodeText(n, src)
			if !strings.HasPrefix(title, casePrefix) {
				return mdast.WalkSkipChildren, nil
			}
			if err := flush(); err != nil {
				return mdast.WalkStop, err
			}
			cur = &Case{Name: strings.TrimPrefix(title, casePrefix), Line: lineOf(n, src)}
			return mdast.WalkSkipChildren, nil

		case *mdast.FencedCodeBlock:
			lang := string(n.Language(src))
			line := lineOf(n, src)
			if cur == nil {
				if lang != "" {
					return mdast.WalkStop, fmt.Errorf("line %d: %s fence outside of a case", line, lang)
				}
				return mdast.WalkContinue, nil
			}
			body := blockText(n, src)
			var dst *string
			switch lang {
			case FenceInput:
				dst = &cur.Input
			case FenceOutput:
				dst = &cur.Output
			case FenceError:
				dst = &cur.Error
				body = strings.TrimSpace(body)
			case "":
				return mdast.WalkContinue, nil
			default:
				return mdast.WalkStop, fmt.Errorf("line %d: unknown fence %q in case %q", line, lang, cur.Name)
			}
			if *dst != "" {
				return mdast.WalkStop, fmt.Errorf("line %d: duplicate %s fence in case %q", line, lang, cur.Name)
			}
			*dst = body
		}
		return mdast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return cases, nil
}

func (c *Case) validate() error {
	if strings.TrimSpace(c.Input) == "" {
		return fmt.Errorf("case %q (line %d) has no %s fence", c.Name, c.Line, FenceInput)
	}
	if (c.Output == "") == (c.Error == "") {
		return fmt.Errorf("case %q (line %d) needs exactly one of %s or %s", c.Name, c.Line, FenceOutput, FenceError)
	}
	return nil
}

func nodeText(node mdast.Node, src []byte) string {
	var buf bytes.Buffer
	_ = mdast.Walk(node, func(n mdast.Node, entering bool) (mdast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*mdast.Text); ok {
				buf.Write(t.Segment.Value(src))
			}
		}
		return mdast.WalkContinue, nil
	})
	return buf.String()
}

func blockText(block *mdast.FencedCodeBlock, src []byte) string {
	var buf bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return buf.String()
}

// lineOf returns the 1-based line of the first source line of node.
func lineOf(node mdast.Node, src []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}
	start := node.Lines().At(0).Start
	return bytes.Count(src[:min(start, len(src))], []byte("\n")) + 1
}
