package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mjc/internal/diag"
)

var (
	errorColor   = lipgloss.Color("#EF4444")
	successColor = lipgloss.Color("#10B981")
	accentColor  = lipgloss.Color("#3B82F6")
	mutedColor   = lipgloss.Color("#6B7280")
)

type styles struct {
	err     lipgloss.Style
	success lipgloss.Style
	arrow   lipgloss.Style
	gutter  lipgloss.Style
	muted   lipgloss.Style
}

// stylesFor builds styles for w, so output that is not a terminal stays plain
func stylesFor(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		err:     r.NewStyle().Foreground(errorColor).Bold(true),
		success: r.NewStyle().Foreground(successColor),
		arrow:   r.NewStyle().Foreground(accentColor),
		gutter:  r.NewStyle().Foreground(accentColor).Bold(true),
		muted:   r.NewStyle().Foreground(mutedColor),
	}
}

// printDiagnostic writes err with the location and source line when it
// carries a CodeError
func printDiagnostic(w io.Writer, src source, err error) {
	st := stylesFor(w)
	ce, ok := diag.As(err)
	if !ok {
		fmt.Fprintln(w, st.err.Render("error:")+" "+err.Error())
		return
	}

	header := ce.Kind.String()
	if ce.Phase != "" {
		header += " [" + string(ce.Phase) + "]"
	}
	message := ce.Message
	if outer := err.Error(); outer != ce.Error() {
		// keep the context wrapped around the CodeError
		message = strings.TrimSuffix(outer, ce.Error()) + ce.Message
	}
	fmt.Fprintln(w, st.err.Render(header+":")+" "+message)
	if ce.Kind == diag.KindInternal {
		fmt.Fprintln(w, st.muted.Render("  this is a compiler bug"))
	}

	if ce.Line <= 0 {
		return
	}
	fmt.Fprintln(w, st.arrow.Render("  --> ")+src.name+":"+strconv.Itoa(ce.Line))
	text, ok := diag.SourceLine(src.text, ce.Line)
	if !ok {
		return
	}
	num := strconv.Itoa(ce.Line)
	pad := strings.Repeat(" ", len(num))
	fmt.Fprintln(w, st.gutter.Render(pad+" |"))
	fmt.Fprintln(w, st.gutter.Render(num+" |")+" "+text)
	fmt.Fprintln(w, st.gutter.Render(pad+" |"))
}

func printSuccess(w io.Writer, msg string) {
	fmt.Fprintln(w, stylesFor(w).success.Render(msg))
}
