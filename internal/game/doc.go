// Package game implements the authoritative single-table Texas
// Hold'em engine: the hand lifecycle state machine, the betting round
// with raise-rights tracking, side-pot layering at showdown, and the
// per-viewer state projections.
//
// The Table is a single-writer monitor. Every exported event method
// takes the table mutex and runs to completion, including the
// broadcast of fresh projections, before the next event is handled.
// The inter-hand timer re-enters through the same lock.
package game
