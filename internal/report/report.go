// Package report renders the plain text protocol of a suite run: an
// indented event log per case plus a closing summary table. Output is
// deterministic so it can be captured in golden files.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/roach88/tagcheck/internal/testcase"
)

const (
	indentStep = 2
	lineWidth  = 80
	statusCol  = 72
)

// Logger writes the test protocol with block indentation.
type Logger struct {
	w      io.Writer
	indent int
}

// New returns a logger writing to w.
func New(w io.Writer) *Logger {
	return &Logger{w: w}
}

// Writeline writes one line at the current indentation.
func (l *Logger) Writeline(line string) {
	fmt.Fprintf(l.w, "%s%s\n", strings.Repeat(" ", l.indent*indentStep), line)
}

// Write writes text line by line at the current indentation.
func (l *Logger) Write(text string) {
	for _, line := range strings.Split(text, "\n") {
		l.Writeline(line)
	}
}

// Indent increases the indentation level by one.
func (l *Logger) Indent() { l.indent++ }

// Outdent decreases the indentation level by one.
func (l *Logger) Outdent() {
	if l.indent > 0 {
		l.indent--
	}
}

// Header prints the banner opening the protocol of one case.
func (l *Logger) Header(name string) {
	l.Writeline(strings.Repeat("=", lineWidth))
	l.Writeline("==  " + name)
	l.Writeline(strings.Repeat("=", lineWidth))
}

// Start marks the beginning of an action and opens an indented block. It
// pairs with Result.
func (l *Logger) Start(name, action string) {
	l.Writeline(fmt.Sprintf("%s:\t%s:\tstarted...", name, action))
	l.Indent()
}

// Result closes the block opened by Start and prints the outcome, with an
// optional wrapped detail message.
func (l *Logger) Result(name, action string, status testcase.Status, msg string) {
	l.Outdent()
	l.Writeline(fmt.Sprintf("%s:\t%s:\t%s", name, action, status))
	if msg != "" {
		l.Indent()
		for _, line := range l.breakLines(msg, lineWidth) {
			l.Writeline(line)
		}
		l.Outdent()
	}
}

// Success prints a message with a right-aligned [Ok] marker.
func (l *Logger) Success(msg string) {
	l.writeMarked(msg, "[Ok]")
}

// Failure prints a message with a right-aligned [FAILED] marker.
func (l *Logger) Failure(msg string) {
	l.writeMarked(msg, "[FAILED]")
}

func (l *Logger) writeMarked(msg, marker string) {
	lines := l.breakLines(msg, statusCol)
	last := lines[len(lines)-1]
	pad := statusCol - len(last) - l.indent*indentStep
	if pad < 1 {
		pad = 1
	}
	lines[len(lines)-1] = last + strings.Repeat(" ", pad) + marker
	for _, line := range lines {
		l.Writeline(line)
	}
}

// breakLines splits a message into chunks that fit the given width at the
// current indentation.
func (l *Logger) breakLines(msg string, width int) []string {
	avail := width - l.indent*indentStep
	if avail < 1 {
		avail = 1
	}
	if msg == "" {
		return []string{""}
	}
	var lines []string
	for len(msg) > avail {
		lines = append(lines, msg[:avail])
		msg = msg[avail:]
	}
	return append(lines, msg)
}

// SummaryHeader prints the heading of the closing summary table.
func (l *Logger) SummaryHeader() {
	sep := strings.Repeat("-", lineWidth-1)
	l.Writeline(sep)
	l.Writeline(fmt.Sprintf("%-40s %-12s %-12s %-12s", "testcase", "prepare", "run", "test"))
	l.Writeline(sep)
}

// SummaryRow prints the one-line summary of a case.
func (l *Logger) SummaryRow(name string, prepare, run, test testcase.Status) {
	l.Writeline(fmt.Sprintf("%-40s %-12s %-12s %-12s", name, prepare, run, test))
}
