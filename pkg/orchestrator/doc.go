// Package orchestrator is the grid container: it owns the single mutable
// GridModel and the current generated table, hands immutable snapshots to
// the form and the renderers, and is the only place either is replaced.
package orchestrator
