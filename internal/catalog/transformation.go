package catalog

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/swarmourr/pegasus-sub001/pkg/types"
)

const transformationKind = "transformation"

type transformationDocument struct {
	Pegasus         string              `yaml:"pegasus"`
	Transformations []transformationDoc `yaml:"transformations"`
	Containers      []map[string]any    `yaml:"containers,omitempty"`
}

type transformationDoc struct {
	Namespace string               `yaml:"namespace"`
	Name      string               `yaml:"name"`
	Version   string               `yaml:"version"`
	Profiles  types.Profiles       `yaml:"profiles"`
	Metadata  map[string]string    `yaml:"metadata"`
	Requires  []string             `yaml:"requires"`
	Sites     []transformationSite `yaml:"sites"`
}

type transformationSite struct {
	Name      string         `yaml:"name"`
	PFN       string         `yaml:"pfn"`
	Type      string         `yaml:"type"`
	Arch      string         `yaml:"arch"`
	OSType    string         `yaml:"os.type"`
	Container string         `yaml:"container"`
	Profiles  types.Profiles `yaml:"profiles"`
}

// TransformationCatalog maps logical transformations to their site variants.
type TransformationCatalog struct {
	entries []*types.TransformationEntry
}

// NewTransformationCatalog creates an empty transformation catalog.
func NewTransformationCatalog() *TransformationCatalog {
	return &TransformationCatalog{}
}

// Add inserts an entry.
func (c *TransformationCatalog) Add(e *types.TransformationEntry) error {
	if e == nil || e.Name == "" || e.Site == "" || e.PFN == "" {
		return fmt.Errorf("%w: transformation needs name, site and pfn", ErrInvalidEntry)
	}
	c.entries = append(c.entries, e)
	return nil
}

// Lookup returns the entries of namespace::name:version on site, in catalog
// order. An empty namespace, version or site in the query matches any value.
func (c *TransformationCatalog) Lookup(namespace, name, version, site string) []*types.TransformationEntry {
	var out []*types.TransformationEntry
	for _, e := range c.entries {
		if e.Name != name ||
			!matches(namespace, e.Namespace) ||
			!matches(version, e.Version) ||
			!matches(site, e.Site) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Len returns the number of entries.
func (c *TransformationCatalog) Len() int {
	return len(c.entries)
}

func matches(want, have string) bool {
	return want == "" || want == have
}

// LoadTransformationCatalog reads a transformation catalog file.
func LoadTransformationCatalog(path string) (*TransformationCatalog, error) {
	data, err := readFile(transformationKind, path)
	if err != nil {
		return nil, err
	}
	return ParseTransformationCatalog(data)
}

// ParseTransformationCatalog parses a transformation catalog document.
func ParseTransformationCatalog(data []byte) (*TransformationCatalog, error) {
	var doc transformationDocument
	if err := decodeStrict(transformationKind, data, &doc); err != nil {
		return nil, err
	}
	return buildTransformationCatalog(doc)
}

// DecodeTransformationCatalog builds a transformation catalog from a parsed YAML mapping.
func DecodeTransformationCatalog(n *yaml.Node) (*TransformationCatalog, error) {
	var doc transformationDocument
	if err := decodeNodeStrict(transformationKind, n, &doc); err != nil {
		return nil, err
	}
	return buildTransformationCatalog(doc)
}

func buildTransformationCatalog(doc transformationDocument) (*TransformationCatalog, error) {
	if err := checkVersion(transformationKind, doc.Pegasus); err != nil {
		return nil, err
	}

	tc := NewTransformationCatalog()
	for _, t := range doc.Transformations {
		for _, s := range t.Sites {
			typ, err := types.ParseTCType(s.Type)
			if err != nil {
				return nil, &Error{Catalog: transformationKind, Err: fmt.Errorf("%w: %s@%s: %v", ErrInvalidEntry, t.Name, s.Name, err)}
			}

			// site profiles override transformation profiles
			profiles := t.Profiles.Clone()
			for ns, kv := range s.Profiles {
				for k, v := range kv {
					profiles.Set(ns, k, v)
				}
			}

			entry := &types.TransformationEntry{
				Namespace: t.Namespace,
				Name:      t.Name,
				Version:   t.Version,
				Site:      s.Name,
				PFN:       s.PFN,
				Type:      typ,
				Arch:      s.Arch,
				OSType:    s.OSType,
				Profiles:  profiles,
			}
			if err := tc.Add(entry); err != nil {
				return nil, &Error{Catalog: transformationKind, Err: err}
			}
		}
	}
	return tc, nil
}
