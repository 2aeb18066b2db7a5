// Package plugins loads pluggable YAML rule packs from a directory on
// disk: pattern detectors an operator can add or remove without a
// rebuild, applied by the Scanner exactly like a built-in detector. A
// malformed pack file or an individual malformed rule within an otherwise
// valid pack is skipped rather than rejecting the whole load.
package plugins
