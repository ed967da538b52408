package design

import (
	"sort"
	"strings"

	"github.com/visiboole/Visiboole-sub000/pkg/lexer"
)

// ErrorLog aggregates per-statement diagnostics across one design scan.
// Entries keep arrival order; exact duplicates for a line are dropped.
type ErrorLog struct {
	entries []lexer.Diagnostic
	seen    map[string]bool
}

// NewErrorLog creates an empty log.
func NewErrorLog() *ErrorLog {
	return &ErrorLog{seen: make(map[string]bool)}
}

// Add appends one diagnostic, ignoring exact duplicates.
func (l *ErrorLog) Add(d lexer.Diagnostic) {
	key := d.String()
	if l.seen[key] {
		return
	}
	l.seen[key] = true
	l.entries = append(l.entries, d)
}

// AddAll appends a batch of diagnostics.
func (l *ErrorLog) AddAll(diags []lexer.Diagnostic) {
	for _, d := range diags {
		l.Add(d)
	}
}

// Len reports the number of logged diagnostics.
func (l *ErrorLog) Len() int {
	return len(l.entries)
}

// Entries returns the diagnostics in arrival order.
func (l *ErrorLog) Entries() []lexer.Diagnostic {
	return l.entries
}

// Lines returns the diagnostics formatted as "{line}: {message}." in
// line order.
func (l *ErrorLog) Lines() []string {
	sorted := make([]lexer.Diagnostic, len(l.entries))
	copy(sorted, l.entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Line < sorted[j].Line })
	out := make([]string, len(sorted))
	for i, d := range sorted {
		out[i] = d.String()
	}
	return out
}

// String renders the whole log, one diagnostic per line.
func (l *ErrorLog) String() string {
	return strings.Join(l.Lines(), "\n")
}
