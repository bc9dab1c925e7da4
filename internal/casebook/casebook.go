// Package casebook reads end-to-end test cases out of Markdown documents.
//
// A heading "Test: <name>" starts a case. Inside a case, a ```minijava fence
// holds the program and the assertion fences say what must happen:
//
//	stdout  the exact output of the program
//	error   a substring of the compile or runtime error
//	asm     lines that must each appear in the generated assembly
//
// Fences without a language are prose and are ignored anywhere.
package casebook

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// FenceProgram is the language tag of the program fence
const FenceProgram = "minijava"

// AssertionKind is the language tag of an assertion fence
type AssertionKind string

const (
	AssertStdout AssertionKind = "stdout"
	AssertError  AssertionKind = "error"
	AssertAsm    AssertionKind = "asm"
)

// Assertion is one expectation of a case
type Assertion struct {
	Kind    AssertionKind
	Content string
	Line    int // line of the fence content in the Markdown file
}

// Case is one named program with its expectations
type Case struct {
	Name       string
	Program    string
	Line       int // line of the program in the Markdown file
	Assertions []Assertion
}

// Expected returns the content of the first assertion of kind k
func (c Case) Expected(k AssertionKind) (string, bool) {
	for _, a := range c.Assertions {
		if a.Kind == k {
			return a.Content, true
		}
	}
	return "", false
}

// AsmLines returns the non-blank lines of every asm assertion, trimmed
func (c Case) AsmLines() []string {
	var lines []string
	for _, a := range c.Assertions {
		if a.Kind != AssertAsm {
			continue
		}
		for _, l := range strings.Split(a.Content, "\n") {
			if l = strings.TrimSpace(l); l != "" {
				lines = append(lines, l)
			}
		}
	}
	return lines
}

// ExtractFile reads path and extracts its cases
func ExtractFile(path string) ([]Case, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cases, err := Extract(string(content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cases, nil
}

// Extract parses a Markdown document and returns its cases in order
func Extract(markdown string) ([]Case, error) {
	source := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var cases []Case
	var current *Case
	names := make(map[string]bool)

	finish := func() error {
		if current == nil {
			return nil
		}
		if err := validate(current); err != nil {
			return err
		}
		cases = append(cases, *current)
		current = nil
		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			heading := nodeText(n, source)
			if !strings.HasPrefix(heading, "Test: ") {
				return ast.WalkContinue, nil
			}
			if err := finish(); err != nil {
				return ast.WalkStop, err
			}
			name := strings.TrimSpace(strings.TrimPrefix(heading, "Test: "))
			if name == "" {
				return ast.WalkStop, fmt.Errorf("line %d: test heading without a name", lineOf(n, source))
			}
			if names[name] {
				return ast.WalkStop, fmt.Errorf("line %d: duplicate test '%s'", lineOf(n, source), name)
			}
			names[name] = true
			current = &Case{Name: name}

		case *ast.FencedCodeBlock:
			language := string(n.Language(source))
			if language == "" {
				return ast.WalkContinue, nil
			}
			line := lineOf(n, source)
			if !isKnownFence(language) {
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language '%s'", line, language)
			}
			if current == nil {
				return ast.WalkStop, fmt.Errorf("line %d: %s fence found outside of test case", line, language)
			}
			content := fenceContent(n, source)

			if language == FenceProgram {
				if current.Program != "" {
					return ast.WalkStop, fmt.Errorf("line %d: multiple %s fences in test '%s'", line, FenceProgram, current.Name)
				}
				current.Program = content
				current.Line = line
				return ast.WalkContinue, nil
			}
			current.Assertions = append(current.Assertions, Assertion{
				Kind:    AssertionKind(language),
				Content: content,
				Line:    line,
			})
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	if err := finish(); err != nil {
		return nil, err
	}
	return cases, nil
}

func isKnownFence(language string) bool {
	switch language {
	case FenceProgram, string(AssertStdout), string(AssertError), string(AssertAsm):
		return true
	}
	return false
}

func validate(c *Case) error {
	if strings.TrimSpace(c.Program) == "" {
		return fmt.Errorf("test '%s' has no %s fence", c.Name, FenceProgram)
	}
	if len(c.Assertions) == 0 {
		return fmt.Errorf("test '%s' has no assertion fences", c.Name)
	}
	_, hasOut := c.Expected(AssertStdout)
	_, hasErr := c.Expected(AssertError)
	if hasOut && hasErr {
		return fmt.Errorf("test '%s' expects both output and an error", c.Name)
	}
	return nil
}

func nodeText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*ast.Text); ok {
				buf.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func fenceContent(block *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.String()
}

// lineOf is the 1-based line of the first content line of node
func lineOf(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}
	start := node.Lines().At(0).Start
	return 1 + bytes.Count(source[:min(start, len(source))], []byte("\n"))
}
