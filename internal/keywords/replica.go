package keywords

// ReplicaKeyword is a reserved key of the replica catalog YAML schema.
type ReplicaKeyword int

// Replica catalog keywords. ReplicaUnknown is returned for tokens outside the schema.
const (
	ReplicaUnknown ReplicaKeyword = iota
	ReplicaPegasus
	ReplicaReplicas
	ReplicaLFN
	ReplicaPFNs
	ReplicaPFN
	ReplicaSite
	ReplicaRegex
	ReplicaMetadata
	ReplicaChecksum
	ReplicaSHA256
)

var replicaTokens = map[ReplicaKeyword]string{
	ReplicaPegasus:  "pegasus",
	ReplicaReplicas: "replicas",
	ReplicaLFN:      "lfn",
	ReplicaPFNs:     "pfns",
	ReplicaPFN:      "pfn",
	ReplicaSite:     "site",
	ReplicaRegex:    "regex",
	ReplicaMetadata: "metadata",
	ReplicaChecksum: "checksum",
	ReplicaSHA256:   "sha256",
}

var replicaByToken = invert(replicaTokens)

// ReservedName returns the document token of the keyword, or "" for ReplicaUnknown.
func (k ReplicaKeyword) ReservedName() string {
	return replicaTokens[k]
}

// String returns the document token of the keyword.
func (k ReplicaKeyword) String() string {
	if name, ok := replicaTokens[k]; ok {
		return name
	}
	return "unknown"
}

// LookupReplicaKeyword returns the keyword of a token. Unknown tokens yield
// ReplicaUnknown and false.
func LookupReplicaKeyword(token string) (ReplicaKeyword, bool) {
	k, ok := replicaByToken[token]
	return k, ok
}

// ReplicaKeywords returns every replica keyword in declaration order.
func ReplicaKeywords() []ReplicaKeyword {
	out := make([]ReplicaKeyword, 0, len(replicaTokens))
	for k := ReplicaPegasus; k <= ReplicaSHA256; k++ {
		out = append(out, k)
	}
	return out
}

func invert[K comparable](m map[K]string) map[string]K {
	out := make(map[string]K, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}
