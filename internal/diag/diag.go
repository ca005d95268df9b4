// Package diag renders parse errors as terminal diagnostics: a one-line
// summary, the offending source line, and a caret under the failing column.
package diag

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/scenic-lang/scenic/runtime/parser"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	fileStyle   = lipgloss.NewStyle().Bold(true)
	gutterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	caretStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// Renderer formats diagnostics for one source file.
type Renderer struct {
	filename string
	lines    []string
	color    bool
}

// New creates a Renderer over the file's source text. Pass color=false for
// plain output (pipes, tests).
func New(filename, src string, color bool) *Renderer {
	return &Renderer{
		filename: filename,
		lines:    strings.Split(src, "\n"),
		color:    color,
	}
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if !r.color {
		return text
	}
	return s.Render(text)
}

// Render formats an error. Parse errors get a snippet and caret; anything
// else renders as a plain one-liner.
func (r *Renderer) Render(err error) string {
	perr, ok := err.(*parser.ParseError)
	if !ok {
		return r.style(headerStyle, "error: ") + err.Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n",
		r.style(fileStyle, fmt.Sprintf("%s:%s:", r.filename, perr.Pos)),
		r.style(headerStyle, perr.Kind.String()))
	fmt.Fprintf(&sb, "  %s\n", describe(perr))

	if snippet := r.snippet(perr.Pos.Line, perr.Pos.Column); snippet != "" {
		sb.WriteString(snippet)
	}
	if perr.Suggestion != "" {
		fmt.Fprintf(&sb, "  %s\n",
			r.style(hintStyle, "did you mean "+perr.Suggestion+"?"))
	}
	return sb.String()
}

func describe(e *parser.ParseError) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "in %s: got %s", e.Context, e.Got)
	if len(e.Expected) > 0 {
		names := make([]string, len(e.Expected))
		for i, t := range e.Expected {
			names[i] = "'" + t.String() + "'"
		}
		sb.WriteString(", expected " + strings.Join(names, " or "))
	}
	return sb.String()
}

// snippet renders the offending line with a gutter and a caret line.
func (r *Renderer) snippet(line, column int) string {
	if line < 1 || line > len(r.lines) {
		return ""
	}
	src := r.lines[line-1]
	gutter := fmt.Sprintf("%4d | ", line)

	var sb strings.Builder
	sb.WriteString(r.style(gutterStyle, gutter) + src + "\n")
	pad := strings.Repeat(" ", len(gutter)+max(0, column-1))
	sb.WriteString(pad + r.style(caretStyle, "^") + "\n")
	return sb.String()
}
