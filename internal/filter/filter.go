// Package filter holds the predicates used to admit fragments into a mix and to
// accept assembled products.
package filter

import (
	"fmt"
	"strings"

	"dnamix/internal/dna"
	"dnamix/internal/enzyme"
)

// Candidate is anything a filter can judge: digested fragments and assembled
// product sequences both qualify.
type Candidate interface {
	Bases() string
	Labels() []dna.Span
}

// Filter is a named predicate.
type Filter interface {
	Name() string
	Accepts(c Candidate) bool
}

// Chain is an ordered conjunction of filters. The empty chain accepts all.
type Chain []Filter

// Accepts reports whether every filter accepts c, stopping at the first refusal.
func (ch Chain) Accepts(c Candidate) bool {
	_, ok := ch.Rejecting(c)
	return ok
}

// Rejecting returns the first filter refusing c.
func (ch Chain) Rejecting(c Candidate) (Filter, bool) {
	for _, f := range ch {
		if !f.Accepts(c) {
			return f, false
		}
	}
	return nil, true
}

// Names lists the filters in order.
func (ch Chain) Names() []string {
	names := make([]string, len(ch))
	for i, f := range ch {
		names[i] = f.Name()
	}
	return names
}

type funcFilter struct {
	name string
	fn   func(Candidate) bool
}

func (f funcFilter) Name() string             { return f.name }
func (f funcFilter) Accepts(c Candidate) bool { return f.fn(c) }

// Func wraps fn as a filter called name.
func Func(name string, fn func(Candidate) bool) Filter {
	return funcFilter{name: name, fn: fn}
}

// Any accepts a candidate accepted by at least one of filters.
func Any(filters ...Filter) Filter {
	names := make([]string, len(filters))
	for i, f := range filters {
		names[i] = f.Name()
	}
	return Func("any("+strings.Join(names, ",")+")", func(c Candidate) bool {
		for _, f := range filters {
			if f.Accepts(c) {
				return true
			}
		}
		return false
	})
}

// Not inverts f.
func Not(f Filter) Filter {
	return Func("not("+f.Name()+")", func(c Candidate) bool { return !f.Accepts(c) })
}

// NoPattern rejects candidates holding pattern (IUPAC codes allowed) on
// either strand.
func NoPattern(pattern string) Filter {
	pattern = strings.ToUpper(pattern)
	return Func("no-pattern "+pattern, func(c Candidate) bool {
		return !dna.ContainsSite(c.Bases(), pattern)
	})
}

// NoRestrictionSite rejects candidates that still hold a site of e. Such a
// fragment is re-cut during the reaction and cannot end up in a product.
func NoRestrictionSite(e enzyme.Enzyme) Filter {
	site := e.Site
	return Func("no-site "+e.Name, func(c Candidate) bool {
		return !dna.ContainsSite(c.Bases(), site)
	})
}

// HasLabel accepts candidates carrying a span labeled exactly label.
func HasLabel(label string) Filter {
	return Func("has-label "+label, func(c Candidate) bool {
		for _, s := range c.Labels() {
			if s.Label == label {
				return true
			}
		}
		return false
	})
}

// TextSearch looks for Text among the candidate's span labels.
type TextSearch struct {
	Text string
	// Exact requires the label to equal Text instead of containing it.
	Exact bool
	// Once requires exactly one matching label instead of at least one.
	Once bool
}

func (t TextSearch) Name() string {
	if t.Once {
		return fmt.Sprintf("text %q once", t.Text)
	}
	return fmt.Sprintf("text %q", t.Text)
}

func (t TextSearch) Accepts(c Candidate) bool {
	n := 0
	for _, s := range c.Labels() {
		if (t.Exact && s.Label == t.Text) || (!t.Exact && strings.Contains(s.Label, t.Text)) {
			n++
		}
	}
	if t.Once {
		return n == 1
	}
	return n > 0
}

// Length bounds the candidate's length in bases. Zero means no bound.
type Length struct {
	Min, Max int
}

func (l Length) Name() string { return fmt.Sprintf("length %d-%d", l.Min, l.Max) }

func (l Length) Accepts(c Candidate) bool {
	n := len(c.Bases())
	return n >= l.Min && (l.Max == 0 || n <= l.Max)
}
