// Package q defines the target AST for the q query language and its
// textual rendering.
//
// The AST is a sealed value union: Atom, Bool, Symbol, List, Dict and
// Select implement the Expr marker interface. Values are immutable
// after construction; the translator builds fresh values per call and
// the rendered text is handed to the wire collaborator verbatim.
//
// Select is q's single relational construct: one node with a fixed
// four-slot layout (child, constraints, grouper, aggregates) rendered
// in the functional form ?[child; constraints; grouper; aggregates].
// Composing a filter, a group and an aggregate must merge into the
// slots of one Select - nesting Selects changes evaluation scope.
package q
