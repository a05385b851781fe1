// Package transformation selects which executable variants of a logical
// transformation are usable when planning a job.
package transformation

import (
	"github.com/duke-git/lancet/v2/slice"

	"github.com/swarmourr/pegasus-sub001/pkg/types"
)

// Selector filters the transformation catalog entries of one logical transformation.
type Selector interface {
	// Name returns the registered selector name.
	Name() string

	// Select returns the usable entries in input order. The boolean is false
	// when nothing matched, which callers must treat as "no result" rather
	// than an empty selection. The input slice is never modified.
	Select(entries []*types.TransformationEntry, preferredSite string) ([]*types.TransformationEntry, bool)
}

// selectByType keeps the entries of one installation type.
func selectByType(entries []*types.TransformationEntry, tcType types.TCType) ([]*types.TransformationEntry, bool) {
	result := slice.Filter(entries, func(_ int, entry *types.TransformationEntry) bool {
		return entry != nil && entry.Type == tcType
	})
	if len(result) == 0 {
		return nil, false
	}
	return result, true
}

// Installed keeps only entries installed on their site.
type Installed struct{}

// NewInstalled creates the installed-only selector.
func NewInstalled() *Installed {
	return &Installed{}
}

// Name returns the selector name.
func (s *Installed) Name() string {
	return NameInstalled
}

// Select keeps INSTALLED entries. preferredSite is ignored.
func (s *Installed) Select(entries []*types.TransformationEntry, preferredSite string) ([]*types.TransformationEntry, bool) {
	return selectByType(entries, types.TCTypeInstalled)
}

// Staged keeps only entries that can be staged to a site.
type Staged struct{}

// NewStaged creates the stageable-only selector.
func NewStaged() *Staged {
	return &Staged{}
}

// Name returns the selector name.
func (s *Staged) Name() string {
	return NameStaged
}

// Select keeps STAGEABLE entries. preferredSite is ignored.
func (s *Staged) Select(entries []*types.TransformationEntry, preferredSite string) ([]*types.TransformationEntry, bool) {
	return selectByType(entries, types.TCTypeStageable)
}
