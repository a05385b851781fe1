package types

import (
	"fmt"
	"strings"
)

// TCType is the installation type of a transformation variant.
type TCType string

const (
	// TCTypeInstalled is an executable already present on the site.
	TCTypeInstalled TCType = "INSTALLED"
	// TCTypeStageable is an executable that must be staged to the site.
	TCTypeStageable TCType = "STAGEABLE"
)

// ParseTCType parses a case-insensitive installation type.
func ParseTCType(s string) (TCType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(TCTypeInstalled):
		return TCTypeInstalled, nil
	case string(TCTypeStageable):
		return TCTypeStageable, nil
	default:
		return "", fmt.Errorf("unknown transformation type %q", s)
	}
}

// TransformationEntry is one site-specific realization of a logical transformation.
type TransformationEntry struct {
	Namespace string   `json:"namespace,omitempty"`
	Name      string   `json:"name"`
	Version   string   `json:"version,omitempty"`
	Site      string   `json:"site"`
	PFN       string   `json:"pfn"`
	Type      TCType   `json:"type"`
	Arch      string   `json:"arch,omitempty"`
	OSType    string   `json:"os_type,omitempty"`
	Profiles  Profiles `json:"profiles,omitempty"`
}

// LogicalName returns namespace::name:version.
func (e *TransformationEntry) LogicalName() string {
	return FullyQualifiedName(e.Namespace, e.Name, e.Version)
}

// String returns a short description of the entry.
func (e *TransformationEntry) String() string {
	return fmt.Sprintf("%s@%s(%s)", e.LogicalName(), e.Site, e.Type)
}
