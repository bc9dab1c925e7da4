package diag

import (
	"errors"
	"fmt"
	"strings"
)

// Kind separates user-facing failures from compiler bugs.
type Kind int

const (
	KindSyntax Kind = iota + 1
	KindSemantic
	KindUnsupported
	KindInternal
	KindRuntime
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "syntax error"
	case KindSemantic:
		return "semantic error"
	case KindUnsupported:
		return "unsupported"
	case KindInternal:
		return "internal error"
	case KindRuntime:
		return "runtime error"
	default:
		return "error"
	}
}

// Phase names the pipeline stage that raised an error.
type Phase string

const (
	PhaseParse   Phase = "parse"
	PhaseBuild   Phase = "build"
	PhaseCheck   Phase = "check"
	PhaseLayout  Phase = "layout"
	PhaseCodegen Phase = "codegen"
	PhaseRun     Phase = "run"
)

// CodeError is the single error type every compiler phase returns.
// Line is 0 when the failure has no source position.
type CodeError struct {
	Kind    Kind
	Phase   Phase
	Line    int
	Column  int
	Message string
}

func (e *CodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s", e.Kind, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Errorf builds a CodeError with a formatted message.
func Errorf(kind Kind, phase Phase, line int, format string, args ...interface{}) *CodeError {
	return &CodeError{Kind: kind, Phase: phase, Line: line, Message: fmt.Sprintf(format, args...)}
}

// Internalf reports a broken invariant, something an earlier phase should have rejected.
func Internalf(phase Phase, format string, args ...interface{}) *CodeError {
	return &CodeError{Kind: KindInternal, Phase: phase, Message: fmt.Sprintf(format, args...)}
}

// As unwraps err into a CodeError when it carries one.
func As(err error) (*CodeError, bool) {
	var ce *CodeError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsInternal reports whether err is an internal-invariant violation.
func IsInternal(err error) bool {
	ce, ok := As(err)
	return ok && ce.Kind == KindInternal
}

// SourceLine returns the 1-based line of source, without its newline.
func SourceLine(source string, line int) (string, bool) {
	if line <= 0 {
		return "", false
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return "", false
	}
	return strings.TrimRight(lines[line-1], "\r"), true
}
