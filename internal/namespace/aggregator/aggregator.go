// Package aggregator provides the functions used to combine two values of the
// same profile key when profiles are merged.
package aggregator

import (
	"strconv"
	"strings"

	"github.com/duke-git/lancet/v2/slice"
)

// Aggregator combines an existing and a new profile value.
// Implementations must be pure and total: dflt stands in for any operand that
// cannot be interpreted in the aggregator's value domain.
type Aggregator interface {
	Compute(oldValue, newValue, dflt string) string
}

// Func adapts a function to Aggregator.
type Func func(oldValue, newValue, dflt string) string

// Compute calls f.
func (f Func) Compute(oldValue, newValue, dflt string) string {
	return f(oldValue, newValue, dflt)
}

// Sum adds integer values.
type Sum struct{}

// Compute implements Aggregator.
func (Sum) Compute(oldValue, newValue, dflt string) string {
	return strconv.Itoa(parseInt(oldValue, dflt) + parseInt(newValue, dflt))
}

// Max keeps the larger integer value.
type Max struct{}

// Compute implements Aggregator.
func (Max) Compute(oldValue, newValue, dflt string) string {
	return strconv.Itoa(max(parseInt(oldValue, dflt), parseInt(newValue, dflt)))
}

// Min keeps the smaller integer value.
type Min struct{}

// Compute implements Aggregator.
func (Min) Compute(oldValue, newValue, dflt string) string {
	return strconv.Itoa(min(parseInt(oldValue, dflt), parseInt(newValue, dflt)))
}

// Update replaces the old value with the new one.
type Update struct{}

// Compute implements Aggregator. An empty new value falls back to the old
// value, then to dflt.
func (Update) Compute(oldValue, newValue, dflt string) string {
	switch {
	case newValue != "":
		return newValue
	case oldValue != "":
		return oldValue
	default:
		return dflt
	}
}

// UniqueMerge unions comma separated values, keeping first-seen order.
type UniqueMerge struct{}

// Compute implements Aggregator.
func (UniqueMerge) Compute(oldValue, newValue, dflt string) string {
	values := append(splitList(oldValue), splitList(newValue)...)
	if len(values) == 0 {
		return dflt
	}
	return strings.Join(slice.Unique(values), ",")
}

// parseInt parses value, falling back to dflt and then to zero.
func parseInt(value, dflt string) int {
	if v, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
		return v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(dflt)); err == nil {
		return v
	}
	return 0
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
