// Package expr defines the source expression tree that qbridge
// translates into q.
//
// The tree is a sealed tagged union: every node kind lives in this
// package and implements the Node marker interface, which enables
// exhaustive type switches in the translator. Nodes are immutable after
// construction and carry their result shape (DShape), which is fully
// determined by the node kind and the shapes of its children.
//
// Leaves are *Symbol values. The translator binds each distinct leaf to
// a q-side table symbol; Substitute rebuilds a tree with leaves rebound,
// which is how cross-table evaluation re-scopes an expression to the
// handles that are live at evaluation time.
package expr
