package types

import "strings"

// LocalSiteHandle is the reserved handle of the local submission host.
const LocalSiteHandle = "local"

// FileURLScheme is the scheme prefix of file URLs.
const FileURLScheme = "file:"

// DirectoryType identifies the purpose of a site directory.
type DirectoryType string

const (
	SharedScratch DirectoryType = "sharedScratch"
	SharedStorage DirectoryType = "sharedStorage"
	LocalScratch  DirectoryType = "localScratch"
	LocalStorage  DirectoryType = "localStorage"
)

// FileServer is an endpoint exposing a site directory.
type FileServer struct {
	URL       string `json:"url" yaml:"url"`
	Operation string `json:"operation" yaml:"operation"`
}

// Directory is a directory on a site.
type Directory struct {
	Type             DirectoryType `json:"type" yaml:"type"`
	Path             string        `json:"path" yaml:"path"`
	SharedFileSystem bool          `json:"shared_file_system,omitempty" yaml:"sharedFileSystem,omitempty"`
	FileServers      []FileServer  `json:"file_servers,omitempty" yaml:"fileServers,omitempty"`
}

// SiteEntry describes a physical execution or staging resource.
type SiteEntry struct {
	Handle      string      `json:"name" yaml:"name"`
	Arch        string      `json:"arch,omitempty" yaml:"arch,omitempty"`
	OSType      string      `json:"os_type,omitempty" yaml:"os.type,omitempty"`
	Directories []Directory `json:"directories,omitempty" yaml:"directories,omitempty"`
	Profiles    Profiles    `json:"profiles,omitempty" yaml:"profiles,omitempty"`
}

// IsLocal reports whether the entry is the local submission host.
func (s *SiteEntry) IsLocal() bool {
	return s.Handle == LocalSiteHandle
}

// Directory returns the first directory of the given type.
func (s *SiteEntry) Directory(t DirectoryType) (*Directory, bool) {
	for i := range s.Directories {
		if s.Directories[i].Type == t {
			return &s.Directories[i], true
		}
	}
	return nil, false
}

// IsVisibleToLocalSite reports whether the shared scratch file system of the
// site is mounted on the local submission host.
func (s *SiteEntry) IsVisibleToLocalSite() bool {
	dir, ok := s.Directory(SharedScratch)
	return ok && dir.SharedFileSystem
}

// ScratchURL returns the URL prefix of the shared scratch directory.
// Sites without a shared scratch file server get a file URL built from the path.
func (s *SiteEntry) ScratchURL() string {
	return s.directoryURL(SharedScratch)
}

// StorageURL returns the URL prefix of the shared storage directory, falling
// back to the scratch URL.
func (s *SiteEntry) StorageURL() string {
	if url := s.directoryURL(SharedStorage); url != "" {
		return url
	}
	return s.ScratchURL()
}

func (s *SiteEntry) directoryURL(t DirectoryType) string {
	dir, ok := s.Directory(t)
	if !ok {
		return ""
	}
	for _, fs := range dir.FileServers {
		if fs.Operation == "" || fs.Operation == "all" || fs.Operation == "put" {
			return strings.TrimSuffix(fs.URL, "/")
		}
	}
	return "file://" + strings.TrimSuffix(dir.Path, "/")
}

// IsFileURL reports whether url uses the file scheme.
func IsFileURL(url string) bool {
	return strings.HasPrefix(url, FileURLScheme)
}
