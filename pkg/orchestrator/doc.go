// Package orchestrator wires the loader → parser → resolver → renderer
// pipeline behind a single Generate call for consumers that want one entry
// point.
package orchestrator
