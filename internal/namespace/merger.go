// Package namespace merges job profiles namespace by namespace, combining
// values of the same key with per-key aggregators.
package namespace

import (
	"fmt"
	"strings"

	"github.com/swarmourr/pegasus-sub001/internal/namespace/aggregator"
	"github.com/swarmourr/pegasus-sub001/pkg/types"
)

// Rule binds an aggregator to one profile key.
type Rule struct {
	Namespace  string
	Key        string
	Aggregator aggregator.Aggregator
	Default    string
}

type ruleKey struct {
	namespace string
	key       string
}

// Merger merges profiles. Keys without a rule take the new value.
type Merger struct {
	rules map[ruleKey]Rule
}

// NewMerger creates a merger with the given rules. Later rules for the same key win.
func NewMerger(rules ...Rule) *Merger {
	m := &Merger{rules: make(map[ruleKey]Rule, len(rules))}
	for _, r := range rules {
		m.rules[ruleKey{r.Namespace, r.Key}] = r
	}
	return m
}

// DefaultRules returns the aggregation rules applied when clustering jobs.
func DefaultRules() []Rule {
	return []Rule{
		{Namespace: types.PegasusNamespace, Key: types.RuntimeKey, Aggregator: aggregator.Sum{}, Default: "0"},
		{Namespace: types.GlobusNamespace, Key: types.MaxWalltimeKey, Aggregator: aggregator.Sum{}, Default: "0"},
		{Namespace: types.CondorNamespace, Key: types.RequestMemoryKey, Aggregator: aggregator.Max{}, Default: "0"},
		{Namespace: types.EnvNamespace, Key: "PATH", Aggregator: aggregator.UniqueMerge{}},
	}
}

// ParseRule parses "namespace.key=Aggregator[:default]".
func ParseRule(s string) (Rule, error) {
	lhs, rhs, ok := strings.Cut(strings.TrimSpace(s), "=")
	if !ok {
		return Rule{}, fmt.Errorf("invalid aggregation rule %q: expected namespace.key=Aggregator", s)
	}
	ns, key, ok := strings.Cut(lhs, ".")
	if !ok || ns == "" || key == "" {
		return Rule{}, fmt.Errorf("invalid aggregation rule %q: expected namespace.key", s)
	}
	name, dflt, _ := strings.Cut(rhs, ":")
	agg, err := aggregator.Get(name)
	if err != nil {
		return Rule{}, fmt.Errorf("invalid aggregation rule %q: %w", s, err)
	}
	return Rule{Namespace: ns, Key: key, Aggregator: agg, Default: dflt}, nil
}

// Merge merges src into dst.
func (m *Merger) Merge(dst, src types.Profiles) {
	for ns, values := range src {
		for key, value := range values {
			m.MergeValue(dst, ns, key, value)
		}
	}
}

// MergeValue merges a single value into dst.
func (m *Merger) MergeValue(dst types.Profiles, ns, key, value string) {
	rule, ok := m.rules[ruleKey{ns, key}]
	if !ok {
		dst.Set(ns, key, value)
		return
	}
	old, _ := dst.Get(ns, key)
	dst.Set(ns, key, rule.Aggregator.Compute(old, value, rule.Default))
}
