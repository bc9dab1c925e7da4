package casebook

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

const fence = "```"

func TestExtractBasicCases(t *testing.T) {
	markdown := `# Arithmetic

Some prose.

## Test: precedence
` + fence + `minijava
class M { public static void main(String[] a) { System.out.println(2+3*4); } }
` + fence + `
` + fence + `stdout
14
` + fence + `

## Test: bad type
` + fence + `minijava
class M { public static void main(String[] a) { System.out.println(true); } }
` + fence + `
` + fence + `error
println argument must be int
` + fence + `
` + fence + `asm
` + fence

	cases, err := Extract(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 2)

	c := cases[0]
	be.Equal(t, c.Name, "precedence")
	be.True(t, strings.Contains(c.Program, "println(2+3*4)"))
	be.Equal(t, c.Line, 7)
	out, ok := c.Expected(AssertStdout)
	be.True(t, ok)
	be.Equal(t, out, "14\n")
	_, ok = c.Expected(AssertError)
	be.True(t, !ok)

	c = cases[1]
	be.Equal(t, c.Name, "bad type")
	be.Equal(t, len(c.Assertions), 2)
	msg, ok := c.Expected(AssertError)
	be.True(t, ok)
	be.Equal(t, strings.TrimSpace(msg), "println argument must be int")
	be.Equal(t, len(c.AsmLines()), 0)
}

func TestAsmLinesAreTrimmed(t *testing.T) {
	markdown := "## Test: asm\n" +
		fence + "minijava\nclass M { public static void main(String[] a) { System.out.println(1); } }\n" + fence + "\n" +
		fence + "asm\n    movq $1, %rax\n\n  call printf@PLT\n" + fence + "\n" +
		fence + "asm\nret\n" + fence + "\n"

	cases, err := Extract(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 1)
	be.Equal(t, cases[0].AsmLines(), []string{"movq $1, %rax", "call printf@PLT", "ret"})
}

func TestUntaggedFencesAreProse(t *testing.T) {
	markdown := "# Notes\n\n" + fence + "\nanything\n" + fence + "\n\nNo cases."
	cases, err := Extract(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 0)

	cases, err = Extract("")
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 0)
}

func TestMalformedDocuments(t *testing.T) {
	program := fence + "minijava\nclass M { public static void main(String[] a) { } }\n" + fence + "\n"
	stdout := fence + "stdout\n\n" + fence + "\n"

	tests := []struct {
		name     string
		markdown string
		wantErr  string
	}{
		{"fence outside case", "# Doc\n\n" + program, "line 4: minijava fence found outside of test case"},
		{"unknown fence", "## Test: x\n" + fence + "go\nfunc main() {}\n" + fence + "\n", "unknown fence language 'go'"},
		{"no program", "## Test: empty\n" + stdout, "test 'empty' has no minijava fence"},
		{"no assertion", "## Test: lonely\n" + program, "test 'lonely' has no assertion fences"},
		{"two programs", "## Test: twice\n" + program + program + stdout, "multiple minijava fences in test 'twice'"},
		{"duplicate name", "## Test: a\n" + program + stdout + "## Test: a\n" + program + stdout, "duplicate test 'a'"},
		{"output and error", "## Test: both\n" + program + stdout + fence + "error\nboom\n" + fence + "\n", "expects both output and an error"},
		{"last case invalid", "## Test: ok\n" + program + stdout + "## Test: bad\n" + program, "test 'bad' has no assertion fences"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.markdown)
			be.True(t, err != nil)
			be.True(t, strings.Contains(err.Error(), tt.wantErr))
		})
	}
}

func TestExtractFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cases.md")
	content := "## Test: one\n" +
		fence + "minijava\nclass M { public static void main(String[] a) { System.out.println(1); } }\n" + fence + "\n" +
		fence + "stdout\n1\n" + fence + "\n"
	be.Err(t, os.WriteFile(path, []byte(content), 0o644), nil)

	cases, err := ExtractFile(path)
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 1)
	be.Equal(t, cases[0].Name, "one")

	_, err = ExtractFile(filepath.Join(dir, "missing.md"))
	be.True(t, err != nil)

	be.Err(t, os.WriteFile(path, []byte("## Test: x\n"+fence+"stdout\n1\n"+fence+"\n"), 0o644), nil)
	_, err = ExtractFile(path)
	be.True(t, err != nil)
	be.True(t, strings.Contains(err.Error(), "cases.md"))
}
