package catalog

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/swarmourr/pegasus-sub001/pkg/types"
)

const siteKind = "site"

type siteDocument struct {
	Pegasus string            `yaml:"pegasus"`
	Sites   []types.SiteEntry `yaml:"sites"`
}

// SiteCatalog holds the sites available to the planner, keyed by handle.
type SiteCatalog struct {
	sites map[string]*types.SiteEntry
	order []string
}

// NewSiteCatalog creates an empty site catalog.
func NewSiteCatalog() *SiteCatalog {
	return &SiteCatalog{sites: make(map[string]*types.SiteEntry)}
}

// Add inserts a site.
func (c *SiteCatalog) Add(site *types.SiteEntry) error {
	if site == nil || site.Handle == "" {
		return fmt.Errorf("%w: site needs a name", ErrInvalidEntry)
	}
	if _, ok := c.sites[site.Handle]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateSite, site.Handle)
	}
	for _, d := range site.Directories {
		switch d.Type {
		case types.SharedScratch, types.SharedStorage, types.LocalScratch, types.LocalStorage:
		default:
			return fmt.Errorf("%w: site %s: unknown directory type %q", ErrInvalidEntry, site.Handle, d.Type)
		}
	}
	c.sites[site.Handle] = site
	c.order = append(c.order, site.Handle)
	return nil
}

// Lookup returns the site with the given handle.
func (c *SiteCatalog) Lookup(handle string) (*types.SiteEntry, bool) {
	s, ok := c.sites[handle]
	return s, ok
}

// Handles returns the site handles in catalog order.
func (c *SiteCatalog) Handles() []string {
	return append([]string(nil), c.order...)
}

// ExecutionSites returns the sorted handles of every site except local.
func (c *SiteCatalog) ExecutionSites() []string {
	out := make([]string, 0, len(c.order))
	for _, h := range c.order {
		if h != types.LocalSiteHandle {
			out = append(out, h)
		}
	}
	sort.Strings(out)
	return out
}

// LoadSiteCatalog reads a site catalog file.
func LoadSiteCatalog(path string) (*SiteCatalog, error) {
	data, err := readFile(siteKind, path)
	if err != nil {
		return nil, err
	}
	return ParseSiteCatalog(data)
}

// ParseSiteCatalog parses a site catalog document.
func ParseSiteCatalog(data []byte) (*SiteCatalog, error) {
	var doc siteDocument
	if err := decodeStrict(siteKind, data, &doc); err != nil {
		return nil, err
	}
	return buildSiteCatalog(doc)
}

// DecodeSiteCatalog builds a site catalog from a parsed YAML mapping.
func DecodeSiteCatalog(n *yaml.Node) (*SiteCatalog, error) {
	var doc siteDocument
	if err := decodeNodeStrict(siteKind, n, &doc); err != nil {
		return nil, err
	}
	return buildSiteCatalog(doc)
}

func buildSiteCatalog(doc siteDocument) (*SiteCatalog, error) {
	if err := checkVersion(siteKind, doc.Pegasus); err != nil {
		return nil, err
	}
	sc := NewSiteCatalog()
	for i := range doc.Sites {
		site := doc.Sites[i]
		if err := sc.Add(&site); err != nil {
			return nil, &Error{Catalog: siteKind, Err: err}
		}
	}
	return sc, nil
}
