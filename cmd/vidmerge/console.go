package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"vidmerge/internal/pipeline"
)

const progressWidth = 24

// consoleReporter prints pipeline events as a running log with a text
// progress bar between steps.
type consoleReporter struct {
	mu       sync.Mutex
	out      io.Writer
	colorize bool
	progress int
}

func newConsoleReporter(out io.Writer) *consoleReporter {
	return &consoleReporter{out: out, colorize: shouldColorize(out)}
}

func (c *consoleReporter) Report(e pipeline.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch e.Type {
	case pipeline.EventLog:
		kind := levelKind(e.Level)
		line := e.Message
		if kind != statusInfo {
			line = fmt.Sprintf("[%s] %s", statusKindLabel(kind), e.Message)
		}
		fmt.Fprintln(c.out, paint(line, kind, c.colorize && kind != statusInfo))
	case pipeline.EventProgress:
		if e.Progress == c.progress {
			return
		}
		c.progress = e.Progress
		if e.Progress == 0 {
			return
		}
		fmt.Fprintln(c.out, paint(progressBar(e.Progress, e.Step), statusInfo, c.colorize))
	}
}

func progressBar(pct int, step pipeline.Step) string {
	pct = max(0, min(100, pct))
	filled := pct * progressWidth / 100
	return fmt.Sprintf("[%s%s] %3d%% %s",
		strings.Repeat("#", filled),
		strings.Repeat("-", progressWidth-filled),
		pct, step)
}
