package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"mjc/internal/codegen"
	"mjc/internal/compiler"
	"mjc/internal/evaluator"
)

var (
	exitFn    = os.Exit
	compileFn = codegen.CompileToExecutable
	execCmdFn = exec.Command
)

func main() {
	exitFn(runCLI(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func runCLI(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return 1
	}
	switch args[0] {
	case "build":
		return buildCommand(args[1:], stdin, stdout, stderr)
	case "run":
		return runCommand(args[1:], stdin, stdout, stderr)
	case "check":
		return checkCommand(args[1:], stdin, stdout, stderr)
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", args[0])
		printUsage(stderr)
		return 1
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mjc <command> [flags] <file.java | ->")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  build [-o out] [-S]   compile to a native executable, or to assembly with -S")
	fmt.Fprintln(w, "  run [-interp]         compile and run, or interpret with -interp")
	fmt.Fprintln(w, "  check                 parse and type-check only")
	fmt.Fprintln(w, "A file name of - reads the program from standard input.")
}

func buildCommand(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	fs.SetOutput(stderr)
	output := fs.String("o", "", "output path (default: input name without extension)")
	asmOnly := fs.Bool("S", false, "write assembly instead of an executable")
	src, ok := parseCommand(fs, args, stdin, stderr)
	if !ok {
		return 1
	}

	res, err := compiler.CompileSource(src.text, compiler.Config{})
	if err != nil {
		printDiagnostic(stderr, src, err)
		return 1
	}

	if *asmOnly {
		if *output == "" || *output == "-" {
			fmt.Fprint(stdout, res.Assembly)
			return 0
		}
		if err := os.WriteFile(*output, []byte(res.Assembly), 0o644); err != nil {
			printDiagnostic(stderr, src, fmt.Errorf("write assembly: %w", err))
			return 1
		}
		printSuccess(stdout, "Wrote assembly to: "+*output)
		return 0
	}

	out := *output
	if out == "" {
		out = defaultOutput(src.name)
	}
	if err := compileFn(res.Assembly, out); err != nil {
		printDiagnostic(stderr, src, fmt.Errorf("compilation failed: %w", err))
		return 1
	}
	printSuccess(stdout, "Compiled to: "+out)
	return 0
}

func runCommand(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	interp := fs.Bool("interp", false, "run with the interpreter instead of a native build")
	src, ok := parseCommand(fs, args, stdin, stderr)
	if !ok {
		return 1
	}

	if *interp {
		res, err := compiler.AnalyzeSource(src.text)
		if err != nil {
			printDiagnostic(stderr, src, err)
			return 1
		}
		if err := compiler.Interpret(res, stdout, evaluator.Options{}); err != nil {
			printDiagnostic(stderr, src, err)
			return 1
		}
		return 0
	}

	res, err := compiler.CompileSource(src.text, compiler.Config{})
	if err != nil {
		printDiagnostic(stderr, src, err)
		return 1
	}
	dir, err := os.MkdirTemp("", "mjc-run-")
	if err != nil {
		printDiagnostic(stderr, src, err)
		return 1
	}
	defer os.RemoveAll(dir)

	bin := filepath.Join(dir, "program")
	if err := compileFn(res.Assembly, bin); err != nil {
		printDiagnostic(stderr, src, fmt.Errorf("compilation failed: %w", err))
		return 1
	}
	cmd := execCmdFn(runPath(bin))
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		printDiagnostic(stderr, src, fmt.Errorf("execution failed: %w", err))
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
			return exitErr.ExitCode()
		}
		return 1
	}
	return 0
}

func checkCommand(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	src, ok := parseCommand(fs, args, stdin, stderr)
	if !ok {
		return 1
	}
	res, err := compiler.AnalyzeSource(src.text)
	if err != nil {
		printDiagnostic(stderr, src, err)
		return 1
	}
	printSuccess(stdout, fmt.Sprintf("%s: ok (%d classes)", src.name, res.Table.Len()))
	return 0
}

type source struct {
	name string
	text string
}

// parseCommand parses the flags and reads the single input file
func parseCommand(fs *flag.FlagSet, args []string, stdin io.Reader, stderr io.Writer) (source, bool) {
	if err := fs.Parse(args); err != nil {
		return source{}, false
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(stderr, "mjc %s: exactly one input file required\n", fs.Name())
		return source{}, false
	}
	src, err := readSource(fs.Arg(0), stdin)
	if err != nil {
		fmt.Fprintf(stderr, "mjc %s: %v\n", fs.Name(), err)
		return source{}, false
	}
	return src, true
}

func readSource(path string, stdin io.Reader) (source, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return source{}, fmt.Errorf("read stdin: %w", err)
		}
		return source{name: "<stdin>", text: string(data)}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return source{}, fmt.Errorf("read source: %w", err)
	}
	return source{name: path, text: string(data)}, nil
}

func defaultOutput(name string) string {
	if name == "<stdin>" {
		return "a.out"
	}
	base := filepath.Base(name)
	if trimmed := strings.TrimSuffix(base, filepath.Ext(base)); trimmed != "" {
		return trimmed
	}
	return "a.out"
}

// runPath makes a bare file name executable through exec, which does not
// search the working directory
func runPath(path string) string {
	if filepath.IsAbs(path) || strings.ContainsRune(path, os.PathSeparator) {
		return path
	}
	return "." + string(os.PathSeparator) + path
}
