// Package diag collects the diagnostics every core component (symbol
// table, evaluator, semantic analyzer) may raise. Diagnostics accumulate;
// nothing in the core panics or returns early on a semantic error, per
// the error-handling design in the specification (§7).
package diag

import "fmt"

// Diagnostic is one compile-time error report, always formatted as
// "Line {line}:{column} - {message}" (§6.4).
type Diagnostic struct {
	Line    int
	Column  int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("Line %d:%d - %s", d.Line, d.Column, d.Message)
}

// Bag accumulates diagnostics in emission order and exposes dedup-by-
// message-identity merging, matching the semantic analyzer's contract of
// merging its own list with the symbol table's and the evaluator's.
type Bag struct {
	items []Diagnostic
	seen  map[string]bool
}

func NewBag() *Bag {
	return &Bag{seen: make(map[string]bool)}
}

// Add appends a diagnostic, skipping an exact duplicate (same line,
// column, and message) already recorded.
func (b *Bag) Add(line, column int, format string, args ...any) {
	d := Diagnostic{Line: line, Column: column, Message: fmt.Sprintf(format, args...)}
	key := d.String()
	if b.seen[key] {
		return
	}
	b.seen[key] = true
	b.items = append(b.items, d)
}

// Merge appends every diagnostic from other that isn't already present,
// preserving the order in which they were produced.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	for _, d := range other.items {
		key := d.String()
		if b.seen[key] {
			continue
		}
		b.seen[key] = true
		b.items = append(b.items, d)
	}
}

func (b *Bag) Empty() bool { return len(b.items) == 0 }

func (b *Bag) Items() []Diagnostic {
	out := make([]Diagnostic, len(b.items))
	copy(out, b.items)
	return out
}

func (b *Bag) Len() int { return len(b.items) }

// Strings renders every diagnostic via its String method, in order.
func (b *Bag) Strings() []string {
	out := make([]string, len(b.items))
	for i, d := range b.items {
		out[i] = d.String()
	}
	return out
}
