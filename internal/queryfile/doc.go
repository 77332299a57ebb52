// Package queryfile loads query documents and compiles them into
// expression trees.
//
// A document is a CUE file (or an equivalent YAML scenario, see the
// harness) declaring a table binding - name, optional resource URI,
// layout flags, typed columns - and a pipeline of operations applied in
// order. Documents are validated against the embedded CUE schema before
// compilation; identifiers are NFC normalized so visually identical
// names compare equal.
package queryfile
