package diagnostics

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

var (
	colorOnce    sync.Once
	colorEnabled bool
)

// ColorEnabled reports whether stderr is a terminal that accepts ANSI colors.
// The answer is computed once per process.
func ColorEnabled() bool {
	colorOnce.Do(func() {
		colorEnabled = detectColor(os.Stderr.Fd())
	})
	return colorEnabled
}

func detectColor(fd uintptr) bool {
	// NO_COLOR convention: https://no-color.org/
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
)

// Formatter renders diagnostics with an optional source excerpt.
type Formatter struct {
	Color  bool
	Source string
}

func NewFormatter(source string) *Formatter {
	return &Formatter{Color: ColorEnabled(), Source: source}
}

func (f *Formatter) Write(w io.Writer, err *DiagnosticError) {
	head := err.Error()
	if f.Color {
		head = ansiBold + ansiRed + "error" + ansiReset + ": " + head
	} else {
		head = "error: " + head
	}
	fmt.Fprintln(w, head)

	line := f.sourceLine(err.Token.Line)
	if line == "" {
		return
	}
	fmt.Fprintf(w, "  %4d | %s\n", err.Token.Line, line)
	if err.Token.Column > 0 {
		width := len(err.Token.Lexeme)
		if width == 0 {
			width = 1
		}
		marker := strings.Repeat(" ", err.Token.Column-1) + strings.Repeat("^", width)
		if f.Color {
			marker = ansiYellow + marker + ansiReset
		}
		fmt.Fprintf(w, "       | %s\n", marker)
	}
}

func (f *Formatter) sourceLine(n int) string {
	if n <= 0 || f.Source == "" {
		return ""
	}
	lines := strings.Split(f.Source, "\n")
	if n > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[n-1], "\r")
}
