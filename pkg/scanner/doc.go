// Package scanner implements the passive vulnerability scanner: a fixed
// catalog of detector functions, each producing zero or more Findings from
// a textual blob built out of an observed Flow, augmented by a Shannon
// entropy detector, pluggable YAML rule packs, and operator-defined custom
// rules. Every detector runs on every call; a Scanner never raises for a
// bad input, since all matching is over a single text blob with literal
// (non-backtracking) regular expressions.
package scanner
