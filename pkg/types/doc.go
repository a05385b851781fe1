// Package types defines the core data structures shared by the planner.
//
// This package contains the fundamental types used throughout the planner,
// including:
//   - Jobs (plain and clustered) and the graph node contract
//   - Site and transformation catalog entries
//   - Transfer job types
//   - Profile namespaces and reserved profile keys
package types
