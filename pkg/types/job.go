package types

import "fmt"

// ExecutionSiteKey is the selector/hints profile key that pins a job to a site.
const ExecutionSiteKey = "execution.site"

// JobKind discriminates plain jobs from clustered jobs.
type JobKind int

const (
	// JobKindPlain is a single computational job.
	JobKindPlain JobKind = iota
	// JobKindClustered owns an internal sub-graph of constituent jobs.
	JobKindClustered
)

// String returns the kind name.
func (k JobKind) String() string {
	switch k {
	case JobKindPlain:
		return "plain"
	case JobKindClustered:
		return "clustered"
	default:
		return fmt.Sprintf("JobKind(%d)", int(k))
	}
}

// LinkType describes how a job uses a file.
type LinkType string

const (
	LinkInput      LinkType = "input"
	LinkOutput     LinkType = "output"
	LinkCheckpoint LinkType = "checkpoint"
	LinkInout      LinkType = "inout"
)

// FileUse is a logical file referenced by a job.
type FileUse struct {
	LFN             string            `json:"lfn" yaml:"lfn"`
	Type            LinkType          `json:"type" yaml:"type"`
	StageOut        bool              `json:"stage_out,omitempty" yaml:"stageOut,omitempty"`
	RegisterReplica bool              `json:"register_replica,omitempty" yaml:"registerReplica,omitempty"`
	Optional        bool              `json:"optional,omitempty" yaml:"optional,omitempty"`
	Bypass          bool              `json:"bypass,omitempty" yaml:"bypass,omitempty"`
	ForPlanning     bool              `json:"for_planning,omitempty" yaml:"forPlanning,omitempty"`
	Size            int64             `json:"size,omitempty" yaml:"size,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// IsInput reports whether the job reads the file.
func (f FileUse) IsInput() bool {
	return f.Type == LinkInput || f.Type == LinkInout
}

// IsOutput reports whether the job writes the file.
func (f FileUse) IsOutput() bool {
	return f.Type == LinkOutput || f.Type == LinkInout || f.Type == LinkCheckpoint
}

// Job is a computational unit in the workflow.
//
// A job is either plain or clustered. Only clustered jobs carry a sub-graph,
// and they exclusively own the jobs inside it.
type Job struct {
	ID        string
	Namespace string
	Name      string
	Version   string
	NodeLabel string
	Arguments []string
	Uses      []FileUse

	// Level is the traversal depth, stamped once per planning pass.
	Level int

	// Profiles holds every namespace except hints.
	Profiles Profiles
	// Hints holds planner hints such as execution.site.
	Hints map[string]string

	// SiteHandle is the execution site chosen during planning.
	SiteHandle string

	kind    JobKind
	cluster Graph
}

// NewJob creates a plain job.
func NewJob(id, namespace, name, version string) *Job {
	return &Job{
		ID:        id,
		Namespace: namespace,
		Name:      name,
		Version:   version,
		Profiles:  make(Profiles),
		Hints:     make(map[string]string),
		kind:      JobKindPlain,
	}
}

// NewClusteredJob creates a clustered job that owns the given sub-graph.
func NewClusteredJob(id string, constituents Graph) *Job {
	j := NewJob(id, PegasusNamespace, ClusteredTransformation, "")
	j.kind = JobKindClustered
	j.cluster = constituents
	return j
}

// Kind returns the job discriminant.
func (j *Job) Kind() JobKind {
	return j.kind
}

// IsClustered reports whether the job owns constituent jobs.
func (j *Job) IsClustered() bool {
	return j.kind == JobKindClustered
}

// Constituents returns the internal sub-graph of a clustered job, or nil for plain jobs.
func (j *Job) Constituents() Graph {
	if j.kind != JobKindClustered {
		return nil
	}
	return j.cluster
}

// SetLevel stamps the traversal depth on the job.
func (j *Job) SetLevel(level int) {
	j.Level = level
}

// SelectorProfiles returns the selector namespace of the job profiles.
func (j *Job) SelectorProfiles() map[string]string {
	return j.Profiles.Namespace(SelectorNamespace)
}

// ExecutionSiteHint returns the execution site pinned through selector profiles
// or hints. Hints win when both are set.
func (j *Job) ExecutionSiteHint() (string, bool) {
	if site, ok := j.Hints[ExecutionSiteKey]; ok {
		return site, true
	}
	site, ok := j.SelectorProfiles()[ExecutionSiteKey]
	return site, ok
}

// TransformationName returns the fully qualified logical transformation name.
func (j *Job) TransformationName() string {
	return FullyQualifiedName(j.Namespace, j.Name, j.Version)
}

// FullyQualifiedName builds namespace::name:version, omitting empty parts.
func FullyQualifiedName(namespace, name, version string) string {
	s := name
	if namespace != "" {
		s = namespace + "::" + s
	}
	if version != "" {
		s = s + ":" + version
	}
	return s
}
