// Package model defines the grid configuration (GridModel) and the generated
// table of coloured cells consumed by renderers. Models are plain values:
// every mutation helper returns a copy so callers can hand snapshots to views
// without worrying about aliasing.
package model
