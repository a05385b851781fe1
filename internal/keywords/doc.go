// Package keywords defines the reserved keys of the YAML workflow and replica
// catalog documents.
//
// Each keyword set maps a fixed list of symbols to their document tokens and
// back. The lookup tables are package-level values built once during package
// initialization and are read-only afterwards, so they are safe to share
// between goroutines without locking.
package keywords
