// Package transfer decides where synthesized data-movement jobs run.
package transfer

import (
	"strings"

	"github.com/duke-git/lancet/v2/slice"

	"github.com/swarmourr/pegasus-sub001/pkg/types"
)

// Refiner exposes the transfer refiner preferences consulted by the JobPlacer.
type Refiner interface {
	// HasPlacementPreference reports whether the refiner overrides placement entirely.
	HasPlacementPreference() bool

	// PreferLocal returns the refiner's local preference for a transfer type.
	// Only consulted when HasPlacementPreference is true.
	PreferLocal(t types.TransferType) bool

	// PreferRemote reports whether transfers of type t for a site should run remotely.
	PreferRemote(siteHandle string, t types.TransferType) bool
}

// Location preferences accepted by ConfigRefiner.
const (
	PreferenceNone   = ""
	PreferenceLocal  = "local"
	PreferenceRemote = "remote"
)

// AllSites matches every site in a remote-site list.
const AllSites = "*"

// RefinerConfig configures a ConfigRefiner.
type RefinerConfig struct {
	// RemoteSites lists, per transfer type, the sites whose transfers run remotely.
	RemoteSites map[types.TransferType][]string
	// LocationPreference overrides placement for every transfer type when set.
	// There is no per-type local preference.
	LocationPreference string
}

// ConfigRefiner is a Refiner driven by static configuration.
type ConfigRefiner struct {
	remoteSites map[types.TransferType][]string
	preference  string
}

// NewConfigRefiner creates a refiner from configuration.
func NewConfigRefiner(cfg RefinerConfig) *ConfigRefiner {
	remote := make(map[types.TransferType][]string, len(cfg.RemoteSites))
	for t, sites := range cfg.RemoteSites {
		remote[t] = slice.Unique(append([]string(nil), sites...))
	}
	return &ConfigRefiner{
		remoteSites: remote,
		preference:  strings.ToLower(strings.TrimSpace(cfg.LocationPreference)),
	}
}

// HasPlacementPreference implements Refiner.
func (r *ConfigRefiner) HasPlacementPreference() bool {
	return r.preference == PreferenceLocal || r.preference == PreferenceRemote
}

// PreferLocal implements Refiner. The location preference is global, so the
// answer is the same for every transfer type.
func (r *ConfigRefiner) PreferLocal(types.TransferType) bool {
	return r.preference == PreferenceLocal
}

// PreferRemote implements Refiner.
func (r *ConfigRefiner) PreferRemote(siteHandle string, t types.TransferType) bool {
	sites := r.remoteSites[t]
	return slice.Contain(sites, AllSites) || slice.Contain(sites, siteHandle)
}
