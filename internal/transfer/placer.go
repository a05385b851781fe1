package transfer

import (
	"github.com/swarmourr/pegasus-sub001/pkg/types"
)

// JobPlacer determines whether a transfer job runs on the local submission
// host or on the remote staging site.
type JobPlacer struct {
	refiner Refiner
}

// NewJobPlacer creates a placer. It panics if refiner is nil.
func NewJobPlacer(refiner Refiner) *JobPlacer {
	if refiner == nil {
		panic("transfer: refiner passed to the job placer is nil")
	}
	return &JobPlacer{refiner: refiner}
}

// RunTransferOnLocalSite reports whether a transfer of type t into
// stagingSiteURL on stagingSite should execute on the local site.
// The first matching rule wins:
//  1. the staging site is the local site
//  2. the staging site file system is visible to the local site
//  3. the refiner preference, when it has one
//  4. the refiner asks for remote execution on the site
//  5. the staging URL is a file URL, which only the remote site can reach
//  6. otherwise local
func (p *JobPlacer) RunTransferOnLocalSite(stagingSite *types.SiteEntry, stagingSiteURL string, t types.TransferType) bool {
	handle := stagingSite.Handle

	if handle == types.LocalSiteHandle {
		return true
	}

	if stagingSite.IsVisibleToLocalSite() {
		return true
	}

	if p.refiner.HasPlacementPreference() {
		return p.refiner.PreferLocal(t)
	}

	if p.refiner.PreferRemote(handle, t) {
		return false
	}

	if types.IsFileURL(stagingSiteURL) {
		return false
	}

	return true
}
