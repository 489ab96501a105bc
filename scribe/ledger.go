package scribe

import (
	"fmt"
	"strings"
)

type ongoing struct {
	name string
	args []Arg
}

// Ledger accumulates Dockerfile instruction lines. Finalized lines are
// plain strings; ongoing instructions keep their arguments unresolved
// until Finalize. Base instructions are kept separately and always render
// first.
type Ledger struct {
	base    []string
	lines   []string
	pending []ongoing
}

// Append stringifies v and appends it as one finalized instruction line.
// The content is not validated.
func (l *Ledger) Append(v any) *Ledger {
	l.lines = append(l.lines, fmt.Sprint(v))
	return l
}

// AppendAll appends every value as a finalized instruction line,
// preserving relative order.
func (l *Ledger) AppendAll(vs ...any) *Ledger {
	for _, v := range vs {
		l.Append(v)
	}
	return l
}

// AppendOngoing records one ongoing instruction under name. Repeated
// calls with the same name stay distinct entries; they are never merged.
// Arguments may mix literals, Arg values, and func() string deferred
// computations.
func (l *Ledger) AppendOngoing(name string, args ...any) *Ledger {
	l.pending = append(l.pending, ongoing{name: name, args: toArgs(args)})
	return l
}

// Finalize converts every ongoing instruction, in declaration order, into
// a finalized line of the form "NAME arg1 arg2". Deferred arguments are
// resolved here, each exactly once. The ongoing collection is drained, so
// a second Finalize call is a no-op for entries already finalized.
func (l *Ledger) Finalize() {
	for _, o := range l.pending {
		parts := make([]string, 0, len(o.args))
		for _, a := range o.args {
			parts = append(parts, a.resolve())
		}

		line := strings.ToUpper(o.name)
		if len(parts) > 0 {
			line += " " + strings.Join(parts, " ")
		}
		l.lines = append(l.lines, line)
	}
	l.pending = nil
}

// Instructions returns the base instructions followed by all finalized
// lines, in order. Ongoing instructions are not included; call Finalize
// first to render them.
func (l *Ledger) Instructions() []string {
	out := make([]string, 0, len(l.base)+len(l.lines))
	out = append(out, l.base...)
	out = append(out, l.lines...)
	return out
}

// HasBase reports whether base instructions have been set.
func (l *Ledger) HasBase() bool { return len(l.base) > 0 }

func (l *Ledger) setBase(lines []string) { l.base = lines }
