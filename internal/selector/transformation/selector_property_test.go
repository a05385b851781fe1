package transformation

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/swarmourr/pegasus-sub001/pkg/types"
)

func genEntries(t *rapid.T) []*types.TransformationEntry {
	n := rapid.IntRange(0, 20).Draw(t, "n")
	entries := make([]*types.TransformationEntry, n)
	for i := range entries {
		tcType := rapid.SampledFrom([]types.TCType{types.TCTypeInstalled, types.TCTypeStageable}).Draw(t, "type")
		site := rapid.SampledFrom([]string{"local", "condorpool", "osg", "cluster"}).Draw(t, "site")
		entries[i] = &types.TransformationEntry{Name: "t", Site: site, Type: tcType}
	}
	return entries
}

// TestSelectorsPartitionInput checks both selectors keep input order, never
// share an entry and together cover the whole input.
func TestSelectorsPartitionInput(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		entries := genEntries(t)
		snapshot := append([]*types.TransformationEntry(nil), entries...)

		installed, okI := NewInstalled().Select(entries, "")
		staged, okS := NewStaged().Select(entries, "")

		for i := range entries {
			if entries[i] != snapshot[i] {
				t.Fatalf("input mutated at %d", i)
			}
		}
		if okI != (len(installed) > 0) || okS != (len(staged) > 0) {
			t.Fatalf("result flag disagrees with result length")
		}
		if len(installed)+len(staged) != len(entries) {
			t.Fatalf("selectors lost entries: %d + %d != %d", len(installed), len(staged), len(entries))
		}

		i, s := 0, 0
		for _, e := range entries {
			switch e.Type {
			case types.TCTypeInstalled:
				if installed[i] != e {
					t.Fatalf("installed order broken at %d", i)
				}
				i++
			case types.TCTypeStageable:
				if staged[s] != e {
					t.Fatalf("staged order broken at %d", s)
				}
				s++
			}
		}
	})
}
