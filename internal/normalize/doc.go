// Package normalize turns the raw checkpoint table into canonical deck records.
//
// Run applies a fixed sequence of steps: column pruning, date parsing, event
// filtering, the hand-maintained override data, the top-four rank filter,
// the lands collapse, category renaming, zero-filling and type coercion.
// Each step reports how many rows it removed so a run can be audited.
package normalize
