// Package dag provides a small directed graph used to reason about formula
// dependencies. Nodes are identified by name; an edge from A to B records that
// B depends on A.
//
// The graph is only used for diagnostics. Formula evaluation itself resolves
// dependencies by fixed-point iteration and never consults it.
package dag
