// Package translate turns expression trees into q AST fragments.
//
// The rule table is an exhaustive type switch over the sealed
// expression node set: each arm consumes the already-translated
// operand(s) plus the untranslated node and produces the corresponding
// q construct. Translation is bottom-up; a scope maps expression nodes
// (leaves, and temporarily a rule's child node) to their translated
// fragments.
//
// Translation is pure: no I/O, no shared mutable state, fresh q values
// per call. Callers may translate independent trees concurrently.
// Evaluation against live table handles - including the two-table
// rebinding dance for joins - lives in eval.go and is the only place
// this package touches the resource boundary.
package translate
