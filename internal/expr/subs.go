package expr

// Substitute returns a structurally fresh copy of the tree with leaf
// symbols rebound according to subs. Leaves are matched by identity,
// not by name: two distinct *Symbol values with the same name are
// different leaves. Nodes outside the substitution map are rebuilt,
// never mutated.
func Substitute(n Node, subs map[*Symbol]*Symbol) Node {
	switch node := n.(type) {
	case *Symbol:
		if repl, ok := subs[node]; ok {
			return repl
		}
		return node
	case *Lit:
		return node
	case *Projection:
		return &Projection{Child: Substitute(node.Child, subs), Fields: node.Fields}
	case *Field:
		return &Field{Child: Substitute(node.Child, subs), Name: node.Name}
	case *BinOp:
		return &BinOp{Op: node.Op, LHS: Substitute(node.LHS, subs), RHS: Substitute(node.RHS, subs)}
	case *UnaryOp:
		return &UnaryOp{Op: node.Op, Child: Substitute(node.Child, subs)}
	case *Reduction:
		return &Reduction{Op: node.Op, Child: Substitute(node.Child, subs), Axis: node.Axis}
	case *Selection:
		return &Selection{Child: Substitute(node.Child, subs), Predicate: Substitute(node.Predicate, subs)}
	case *Sort:
		return &Sort{Child: Substitute(node.Child, subs), Key: node.Key, Ascending: node.Ascending}
	case *Head:
		return &Head{Child: Substitute(node.Child, subs), N: node.N}
	case *Distinct:
		return &Distinct{Child: Substitute(node.Child, subs)}
	case *Slice:
		return &Slice{Child: Substitute(node.Child, subs), Index: node.Index}
	case *By:
		return &By{
			Child:   Substitute(node.Child, subs),
			Grouper: Substitute(node.Grouper, subs),
			Apply:   Substitute(node.Apply, subs),
		}
	case *Join:
		return &Join{
			LHS:     Substitute(node.LHS, subs),
			RHS:     Substitute(node.RHS, subs),
			How:     node.How,
			OnLeft:  node.OnLeft,
			OnRight: node.OnRight,
		}
	case *Summary:
		aggs := make([]Node, len(node.Aggs))
		for i, agg := range node.Aggs {
			aggs[i] = Substitute(agg, subs)
		}
		return &Summary{Child: Substitute(node.Child, subs), Names: node.Names, Aggs: aggs}
	case *NRows:
		return &NRows{Child: Substitute(node.Child, subs), Axis: node.Axis}
	case *DateTimePart:
		return &DateTimePart{Child: Substitute(node.Child, subs), Part: node.Part}
	default:
		return n
	}
}

// Leaves returns the distinct leaf symbols of the tree in first
// appearance order (left to right, depth first).
func Leaves(n Node) []*Symbol {
	var leaves []*Symbol
	seen := make(map[*Symbol]bool)
	collectLeaves(n, seen, &leaves)
	return leaves
}

func collectLeaves(n Node, seen map[*Symbol]bool, out *[]*Symbol) {
	switch node := n.(type) {
	case *Symbol:
		if !seen[node] {
			seen[node] = true
			*out = append(*out, node)
		}
	case *Lit:
	case *Projection:
		collectLeaves(node.Child, seen, out)
	case *Field:
		collectLeaves(node.Child, seen, out)
	case *BinOp:
		collectLeaves(node.LHS, seen, out)
		collectLeaves(node.RHS, seen, out)
	case *UnaryOp:
		collectLeaves(node.Child, seen, out)
	case *Reduction:
		collectLeaves(node.Child, seen, out)
	case *Selection:
		collectLeaves(node.Child, seen, out)
		collectLeaves(node.Predicate, seen, out)
	case *Sort:
		collectLeaves(node.Child, seen, out)
	case *Head:
		collectLeaves(node.Child, seen, out)
	case *Distinct:
		collectLeaves(node.Child, seen, out)
	case *Slice:
		collectLeaves(node.Child, seen, out)
	case *By:
		collectLeaves(node.Child, seen, out)
		collectLeaves(node.Grouper, seen, out)
		collectLeaves(node.Apply, seen, out)
	case *Join:
		collectLeaves(node.LHS, seen, out)
		collectLeaves(node.RHS, seen, out)
	case *Summary:
		collectLeaves(node.Child, seen, out)
		for _, agg := range node.Aggs {
			collectLeaves(agg, seen, out)
		}
	case *NRows:
		collectLeaves(node.Child, seen, out)
	case *DateTimePart:
		collectLeaves(node.Child, seen, out)
	}
}
