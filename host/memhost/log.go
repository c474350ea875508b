package memhost

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// clearCommand is the log line that empties the window instead of being printed.
const clearCommand = `\Clear`

type logWindow struct {
	mu    sync.Mutex
	lines []string
	out   io.Writer
}

func newLogWindow(out io.Writer) *logWindow {
	return &logWindow{out: out}
}

func (l *logWindow) Println(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if s == clearCommand {
		l.lines = nil
		return
	}
	l.lines = append(l.lines, s)
	if l.out != nil {
		_, _ = fmt.Fprintln(l.out, s)
	}
}

func (l *logWindow) Contents() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.lines) == 0 {
		return ""
	}
	return strings.Join(l.lines, "\n") + "\n"
}

func (l *logWindow) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = nil
}
