package types

// Profile namespaces.
const (
	EnvNamespace      = "env"
	CondorNamespace   = "condor"
	GlobusNamespace   = "globus"
	DagmanNamespace   = "dagman"
	PegasusNamespace  = "pegasus"
	SelectorNamespace = "selector"
	HintsNamespace    = "hints"
	MetadataNamespace = "metadata"
)

// Reserved profile keys used by the planner.
const (
	// LabelKey groups jobs for label clustering in the pegasus namespace.
	LabelKey = "label"
	// RuntimeKey is the expected runtime in seconds in the pegasus namespace.
	RuntimeKey = "runtime"
	// MaxWalltimeKey is the walltime limit in minutes in the globus namespace.
	MaxWalltimeKey = "maxwalltime"
	// RequestMemoryKey is the requested memory in the condor namespace.
	RequestMemoryKey = "request_memory"
)

// ClusteredTransformation is the logical name of the clustered job executable.
const ClusteredTransformation = "cluster"

// Profiles maps a namespace to its key/value profiles.
type Profiles map[string]map[string]string

// Namespace returns the profiles of a namespace; never nil for reading.
func (p Profiles) Namespace(ns string) map[string]string {
	if m, ok := p[ns]; ok {
		return m
	}
	return map[string]string{}
}

// Get returns a profile value.
func (p Profiles) Get(ns, key string) (string, bool) {
	v, ok := p[ns][key]
	return v, ok
}

// Set stores a profile value, allocating the namespace on demand.
func (p Profiles) Set(ns, key, value string) {
	m, ok := p[ns]
	if !ok {
		m = make(map[string]string)
		p[ns] = m
	}
	m[key] = value
}

// Clone returns a deep copy.
func (p Profiles) Clone() Profiles {
	out := make(Profiles, len(p))
	for ns, m := range p {
		cp := make(map[string]string, len(m))
		for k, v := range m {
			cp[k] = v
		}
		out[ns] = cp
	}
	return out
}
