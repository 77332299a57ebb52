package translate

import (
	"strings"

	"github.com/querylab/qbridge/internal/q"
)

// StripScope rewrites every dotted symbol in a fragment whose first
// component equals scope, removing that prefix. Everything else passes
// through; lists and dicts recurse structurally, preserving order and
// key/value pairing. Operator atoms are not symbols and are never
// touched, so the select marker needs no special casing here - the
// Select node recurses slot by slot.
//
// The rewrite is pure and idempotent: after one pass no symbol retains
// a matching prefix, so a second pass with the same scope is a no-op.
func StripScope(frag q.Expr, scope string) q.Expr {
	if scope == "" {
		return frag
	}
	switch v := frag.(type) {
	case q.Atom, q.Bool:
		return frag
	case *q.Symbol:
		return stripSymbol(v, scope)
	case q.List:
		items := make([]q.Expr, len(v.Items))
		for i, item := range v.Items {
			items[i] = StripScope(item, scope)
		}
		return q.List{Items: items}
	case *q.Dict:
		keys := make([]*q.Symbol, len(v.Keys))
		vals := make([]q.Expr, len(v.Vals))
		for i, k := range v.Keys {
			keys[i] = stripSymbol(k, scope)
		}
		for i, val := range v.Vals {
			vals[i] = StripScope(val, scope)
		}
		return q.NewDict(keys, vals)
	case *q.Select:
		constraints := make([]q.List, len(v.Constraints))
		for i, c := range v.Constraints {
			constraints[i] = StripScope(c, scope).(q.List)
		}
		var grouper, aggregates *q.Dict
		if v.Grouper != nil {
			grouper = StripScope(v.Grouper, scope).(*q.Dict)
		}
		if v.Aggregates != nil {
			aggregates = StripScope(v.Aggregates, scope).(*q.Dict)
		}
		return q.NewSelect(StripScope(v.Child, scope), constraints, grouper, aggregates)
	default:
		return frag
	}
}

func stripSymbol(sym *q.Symbol, scope string) *q.Symbol {
	if rest, ok := strings.CutPrefix(sym.Name, scope+"."); ok {
		return q.NewSymbol(rest)
	}
	return sym
}
