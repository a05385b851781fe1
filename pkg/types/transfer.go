package types

import "fmt"

// TransferType is the kind of synthesized data-movement job.
type TransferType int

const (
	// StageInTransfer moves input files to the staging site.
	StageInTransfer TransferType = iota + 1
	// StageOutTransfer moves outputs from the staging site to the output site.
	StageOutTransfer
	// InterSiteTransfer moves intermediate files between staging sites.
	InterSiteTransfer
)

// String returns the job name prefix used for the transfer type.
func (t TransferType) String() string {
	switch t {
	case StageInTransfer:
		return "stage_in"
	case StageOutTransfer:
		return "stage_out"
	case InterSiteTransfer:
		return "stage_inter"
	default:
		return fmt.Sprintf("TransferType(%d)", int(t))
	}
}

// TransferTypes lists every transfer type.
func TransferTypes() []TransferType {
	return []TransferType{StageInTransfer, StageOutTransfer, InterSiteTransfer}
}

// TransferJob is a data-movement task synthesized by the planner.
type TransferJob struct {
	ID          string       `json:"id"`
	Type        TransferType `json:"-"`
	TypeName    string       `json:"type"`
	LFN         string       `json:"lfn"`
	SourceURL   string       `json:"source_url"`
	DestURL     string       `json:"dest_url"`
	StagingSite string       `json:"staging_site"`
	// RunSite is where the transfer executes: local or the staging site.
	RunSite string `json:"run_site"`
	// ForJob is the compute job the transfer serves.
	ForJob string `json:"for_job"`
}
