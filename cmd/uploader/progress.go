package main

import (
	"fmt"
	"io"
	"mediavault/internal/client/orchestrator"
	"sync"

	"github.com/dustin/go-humanize"
)

// progressPrinter prints a line per status change and per 10% of progress
type progressPrinter struct {
	mu   sync.Mutex
	out  io.Writer
	last map[string]orchestrator.FileState
}

func newProgressPrinter(out io.Writer) *progressPrinter {
	return &progressPrinter{out: out, last: make(map[string]orchestrator.FileState)}
}

func (p *progressPrinter) update(st orchestrator.FileState) {
	p.mu.Lock()
	defer p.mu.Unlock()

	prev, seen := p.last[st.ID]
	if seen && prev.Status == st.Status && st.Progress/10 <= prev.Progress/10 {
		return
	}
	p.last[st.ID] = st

	switch st.Status {
	case orchestrator.StatusUploading:
		fmt.Fprintf(p.out, "%-10s %3d%%  %s (%s, %s)\n", st.Status, st.Progress, st.Name, humanize.IBytes(uint64(st.Size)), st.Strategy)
	case orchestrator.StatusError:
		fmt.Fprintf(p.out, "%-10s       %s: %v\n", st.Status, st.Name, st.Err)
	default:
		fmt.Fprintf(p.out, "%-10s %3d%%  %s\n", st.Status, st.Progress, st.Name)
	}
}
