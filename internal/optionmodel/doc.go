// Package optionmodel derives read-only views of a product's options.
//
// BuildMatrix enumerates every combination of options across a product's
// option sets. BuildNesting folds the selections that actually exist into a
// tree keyed by option name, ordered by option set name, carrying the
// per-option metadata a selection UI needs.
//
// Both functions are pure: they never mutate their inputs and allocate fresh
// output on every call, so they are safe to call concurrently. Inputs are
// expected to be checked first with Resolve, which turns a model.Catalog into
// the set-name lookup and resolved selections BuildNesting consumes.
package optionmodel
