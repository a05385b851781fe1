package aggregator

import (
	"fmt"
	"strings"
)

// Aggregator names, as used in profile merge rules.
const (
	NameSum         = "Sum"
	NameMax         = "MAX"
	NameMin         = "MIN"
	NameUpdate      = "Update"
	NameUniqueMerge = "UniqueMerge"
)

// builtins is built once and never modified.
var builtins = map[string]Aggregator{
	strings.ToLower(NameSum):         Sum{},
	strings.ToLower(NameMax):         Max{},
	strings.ToLower(NameMin):         Min{},
	strings.ToLower(NameUpdate):      Update{},
	strings.ToLower(NameUniqueMerge): UniqueMerge{},
}

// Get returns the named aggregator, matched case-insensitively.
func Get(name string) (Aggregator, error) {
	agg, ok := builtins[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown profile aggregator: %s", name)
	}
	return agg, nil
}
