// Package site maps workflow jobs onto execution sites one job at a time.
//
// The Dispatcher fixes the traversal: it stamps job levels, skips jobs that
// already carry an execution.site hint, and hands every other job to a
// JobMapper. Clustered jobs have their constituents mapped first and are then
// mapped themselves. Site choice heuristics live in JobMapper implementations
// registered by name in a Registry.
package site
