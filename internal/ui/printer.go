package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Printer writes styled lines to out.
type Printer struct {
	out      io.Writer
	theme    Theme
	useColor bool
}

// NewPrinter returns a Printer for out. Colour is enabled when out is a terminal.
func NewPrinter(out io.Writer) *Printer {
	useColor := false
	if f, ok := out.(*os.File); ok {
		useColor = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Printer{out: out, theme: DefaultTheme(), useColor: useColor}
}

func (p *Printer) style(text string, s lipgloss.Style) string {
	if !p.useColor {
		return text
	}
	return s.Render(text)
}

// Info prints a plain line.
func (p *Printer) Info(format string, args ...interface{}) {
	fmt.Fprintln(p.out, fmt.Sprintf(format, args...))
}

// Header prints a bold line.
func (p *Printer) Header(text string) {
	fmt.Fprintln(p.out, p.style(text, p.theme.Header))
}

// Step prints "[i/n] text".
func (p *Printer) Step(index, total int, text string) {
	prefix := fmt.Sprintf("[%d/%d]", index, total)
	fmt.Fprintf(p.out, "%s %s\n", p.style(prefix, p.theme.Step), text)
}

// Success prints a line in the success colour.
func (p *Printer) Success(format string, args ...interface{}) {
	fmt.Fprintln(p.out, p.style(fmt.Sprintf(format, args...), p.theme.Success))
}

// Warn prints a line in the warning colour.
func (p *Printer) Warn(format string, args ...interface{}) {
	fmt.Fprintln(p.out, p.style(fmt.Sprintf(format, args...), p.theme.Warn))
}

// Error prints a line in the error colour.
func (p *Printer) Error(format string, args ...interface{}) {
	fmt.Fprintln(p.out, p.style(fmt.Sprintf(format, args...), p.theme.Error))
}

// Muted prints an indented, dimmed line.
func (p *Printer) Muted(text string) {
	fmt.Fprintln(p.out, "  "+p.style(text, p.theme.Muted))
}

// Status prints a doctor-style "[ OK ] text" line coloured by status.
func (p *Printer) Status(status, text string) {
	tag := fmt.Sprintf("[%-4s]", status)
	s := p.theme.Muted
	switch status {
	case "OK":
		tag = "[ OK ]"
		s = p.theme.Success
	case "WARN", "MISS":
		s = p.theme.Warn
	case "FAIL":
		s = p.theme.Error
	}
	fmt.Fprintf(p.out, "  %s %s\n", p.style(tag, s), text)
}
