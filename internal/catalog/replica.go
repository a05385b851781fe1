package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/swarmourr/pegasus-sub001/internal/keywords"
)

const replicaKind = "replica"

// Replica is one physical location of a logical file.
type Replica struct {
	LFN      string            `json:"lfn"`
	PFN      string            `json:"pfn"`
	Site     string            `json:"site"`
	Regex    bool              `json:"regex,omitempty"`
	SHA256   string            `json:"sha256,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`

	pattern *regexp.Regexp
}

var groupRef = regexp.MustCompile(`\[(\d+)\]`)

// resolve returns the replica of lfn, or false when the entry does not
// cover it. Regex entries substitute [n] in the PFN with submatch n.
func (r *Replica) resolve(lfn string) (Replica, bool) {
	if !r.Regex {
		return *r, r.LFN == lfn
	}
	m := r.pattern.FindStringSubmatch(lfn)
	if m == nil {
		return Replica{}, false
	}
	out := *r
	out.LFN = lfn
	out.Regex = false
	out.pattern = nil
	out.PFN = groupRef.ReplaceAllStringFunc(r.PFN, func(ref string) string {
		i, _ := strconv.Atoi(ref[1 : len(ref)-1])
		if i < len(m) {
			return m[i]
		}
		return ref
	})
	return out, true
}

// ReplicaCatalog maps logical file names to physical locations.
type ReplicaCatalog struct {
	exact   map[string][]*Replica
	regexes []*Replica
}

// NewReplicaCatalog creates an empty replica catalog.
func NewReplicaCatalog() *ReplicaCatalog {
	return &ReplicaCatalog{exact: make(map[string][]*Replica)}
}

// Add inserts a replica. Regex replicas have their LFN compiled as a pattern.
func (c *ReplicaCatalog) Add(r Replica) error {
	if r.LFN == "" || r.PFN == "" || r.Site == "" {
		return fmt.Errorf("%w: replica needs lfn, pfn and site", ErrInvalidEntry)
	}
	if r.Regex {
		p, err := regexp.Compile(r.LFN)
		if err != nil {
			return fmt.Errorf("%w: regex %q: %v", ErrInvalidEntry, r.LFN, err)
		}
		r.pattern = p
		c.regexes = append(c.regexes, &r)
		return nil
	}
	c.exact[r.LFN] = append(c.exact[r.LFN], &r)
	return nil
}

// Lookup returns every replica of lfn. Exact entries come before regex
// matches, each group in catalog order.
func (c *ReplicaCatalog) Lookup(lfn string) []Replica {
	var out []Replica
	for _, r := range c.exact[lfn] {
		out = append(out, *r)
	}
	for _, r := range c.regexes {
		if resolved, ok := r.resolve(lfn); ok {
			out = append(out, resolved)
		}
	}
	return out
}

// Len returns the number of catalog entries.
func (c *ReplicaCatalog) Len() int {
	n := len(c.regexes)
	for _, rs := range c.exact {
		n += len(rs)
	}
	return n
}

// LoadReplicaCatalog reads a replica catalog file.
func LoadReplicaCatalog(path string) (*ReplicaCatalog, error) {
	data, err := readFile(replicaKind, path)
	if err != nil {
		return nil, err
	}
	return ParseReplicaCatalog(data)
}

// ParseReplicaCatalog parses a replica catalog document.
func ParseReplicaCatalog(data []byte) (*ReplicaCatalog, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &Error{Catalog: replicaKind, Err: fmt.Errorf("%w: empty document", ErrInvalidEntry)}
		}
		return nil, &Error{Catalog: replicaKind, Err: err}
	}
	return DecodeReplicaCatalog(doc.Content[0])
}

// DecodeReplicaCatalog builds a replica catalog from a parsed YAML mapping,
// such as a catalog embedded in a workflow document.
func DecodeReplicaCatalog(n *yaml.Node) (*ReplicaCatalog, error) {
	if n.Kind != yaml.MappingNode {
		return nil, nodeErr(n, "catalog must be a mapping")
	}

	rc := NewReplicaCatalog()
	var version string
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		kw, _ := keywords.LookupReplicaKeyword(key.Value)
		switch kw {
		case keywords.ReplicaPegasus:
			version = val.Value
		case keywords.ReplicaReplicas:
			if val.Kind != yaml.SequenceNode {
				return nil, nodeErr(val, "%s must be a list", keywords.ReplicaReplicas)
			}
			for _, item := range val.Content {
				replicas, err := decodeReplicaEntry(item)
				if err != nil {
					return nil, err
				}
				for _, r := range replicas {
					if err := rc.Add(r); err != nil {
						return nil, &Error{Catalog: replicaKind, Line: item.Line, Column: item.Column, Err: err}
					}
				}
			}
		default:
			return nil, nodeErr(key, "unknown key %q", key.Value)
		}
	}
	if err := checkVersion(replicaKind, version); err != nil {
		return nil, err
	}
	return rc, nil
}

// decodeReplicaEntry expands one catalog entry into a replica per PFN.
// Both the pfns list form and the flat site/pfn form are accepted.
func decodeReplicaEntry(n *yaml.Node) ([]Replica, error) {
	if n.Kind != yaml.MappingNode {
		return nil, nodeErr(n, "replica must be a mapping")
	}

	var base Replica
	var pfns []Replica
	var flat Replica
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		kw, _ := keywords.LookupReplicaKeyword(key.Value)
		var err error
		switch kw {
		case keywords.ReplicaLFN:
			base.LFN = val.Value
		case keywords.ReplicaRegex:
			base.Regex, err = strconv.ParseBool(val.Value)
		case keywords.ReplicaPFN:
			flat.PFN = val.Value
		case keywords.ReplicaSite:
			flat.Site = val.Value
		case keywords.ReplicaPFNs:
			pfns, err = decodePFNs(val)
		case keywords.ReplicaMetadata:
			err = val.Decode(&base.Metadata)
		case keywords.ReplicaChecksum:
			base.SHA256, err = decodeChecksum(val)
		default:
			return nil, nodeErr(key, "unknown replica key %q", key.Value)
		}
		if err != nil {
			return nil, &Error{Catalog: replicaKind, Line: val.Line, Column: val.Column, Err: err}
		}
	}

	if flat.PFN != "" || flat.Site != "" {
		pfns = append(pfns, flat)
	}
	if len(pfns) == 0 {
		return nil, nodeErr(n, "replica %q has no %s", base.LFN, keywords.ReplicaPFNs)
	}

	out := make([]Replica, 0, len(pfns))
	for _, p := range pfns {
		r := base
		r.PFN = p.PFN
		r.Site = p.Site
		out = append(out, r)
	}
	return out, nil
}

func decodePFNs(n *yaml.Node) ([]Replica, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, nodeErr(n, "%s must be a list", keywords.ReplicaPFNs)
	}
	out := make([]Replica, 0, len(n.Content))
	for _, item := range n.Content {
		if item.Kind != yaml.MappingNode {
			return nil, nodeErr(item, "pfn must be a mapping")
		}
		var r Replica
		for i := 0; i+1 < len(item.Content); i += 2 {
			key, val := item.Content[i], item.Content[i+1]
			switch kw, _ := keywords.LookupReplicaKeyword(key.Value); kw {
			case keywords.ReplicaPFN:
				r.PFN = val.Value
			case keywords.ReplicaSite:
				r.Site = val.Value
			default:
				return nil, nodeErr(key, "unknown pfn key %q", key.Value)
			}
		}
		out = append(out, r)
	}
	return out, nil
}

func decodeChecksum(n *yaml.Node) (string, error) {
	if n.Kind != yaml.MappingNode {
		return "", fmt.Errorf("%w: %s must be a mapping", ErrInvalidEntry, keywords.ReplicaChecksum)
	}
	var sum string
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if kw, _ := keywords.LookupReplicaKeyword(key.Value); kw != keywords.ReplicaSHA256 {
			return "", fmt.Errorf("%w: unsupported checksum %q", ErrInvalidEntry, key.Value)
		}
		sum = strings.ToLower(val.Value)
	}
	return sum, nil
}

func nodeErr(n *yaml.Node, format string, args ...any) error {
	return &Error{
		Catalog: replicaKind,
		Line:    n.Line,
		Column:  n.Column,
		Err:     fmt.Errorf("%w: %s", ErrInvalidEntry, fmt.Sprintf(format, args...)),
	}
}
