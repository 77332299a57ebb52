package q

// BinOps maps source binary operator symbols to q operator names.
// Application order is left-to-right; q operators are not assumed
// commutative.
var BinOps = map[string]string{
	"+":   "+",
	"-":   "-",
	"*":   "*",
	"/":   "%",
	"//":  "div",
	"%":   "mod",
	"**":  "xexp",
	"==":  "=",
	"!=":  "<>",
	"<":   "<",
	"<=":  "<=",
	">":   ">",
	">=":  ">=",
	"and": "&",
	"or":  "|",
	"&":   "&",
	"|":   "|",
}

// UnOps maps source unary operator and reduction symbols to q function
// names.
var UnOps = map[string]string{
	"sum":   "sum",
	"min":   "min",
	"max":   "max",
	"count": "count",
	"first": "first",
	"last":  "last",
	"mean":  "avg",
	"avg":   "avg",
	"std":   "dev",
	"var":   "var",
	"abs":   "abs",
	"floor": "floor",
	"ceil":  "ceiling",
	"neg":   "neg",
	"not":   "not",
}

// Apply builds an operator application list: (op; args...).
func Apply(op string, args ...Expr) List {
	items := make([]Expr, 0, len(args)+1)
	items = append(items, Atom{S: op})
	items = append(items, args...)
	return List{Items: items}
}

// Take limits x to n elements: (#; n; x). q's # repeats cyclically when
// n exceeds the element count, so callers must clamp n first.
func Take(n, x Expr) List {
	return Apply("#", n, x)
}

// PartitionedTake selects rows of a partitioned table by index:
// (.Q.ind; x; ix). Ordinary # is not valid on partitioned tables.
func PartitionedTake(x, ix Expr) List {
	return Apply(".Q.ind", x, ix)
}

// Til enumerates 0..n-1: (til; n).
func Til(n Expr) List {
	return Apply("til", n)
}

// Count counts elements along the leading axis: (count; x).
func Count(x Expr) List {
	return Apply("count", x)
}

// DistinctOf deduplicates: (distinct; x).
func DistinctOf(x Expr) List {
	return Apply("distinct", x)
}

// SortBy orders child by a single key column, ascending or descending.
func SortBy(child Expr, key string, ascending bool) List {
	op := "xdesc"
	if ascending {
		op = "xasc"
	}
	return Apply(op, NewSymbol(key), child)
}

// SliceByName extracts a named column from a non-record value:
// (@; x; `name).
func SliceByName(x Expr, name string) List {
	return Apply("@", x, NewSymbol(name))
}

// EquiJoin joins two fragments on shared key columns: (ej; keys; lhs; rhs).
func EquiJoin(keys []string, lhs, rhs Expr) List {
	return Apply("ej", SymList(keys...), lhs, rhs)
}

// SymList builds a list of symbols from names.
func SymList(names ...string) List {
	items := make([]Expr, len(names))
	for i, name := range names {
		items[i] = NewSymbol(name)
	}
	return List{Items: items}
}

// CastLong casts x to a raw long: ($; `long; x).
func CastLong(x Expr) List {
	return Apply("$", NewSymbol("long"), x)
}

// Add, Sub, Div and Mod build arithmetic applications. Div is q's %
// (true division); integer results go through Floor.
func Add(x, y Expr) List { return Apply("+", x, y) }

func Sub(x, y Expr) List { return Apply("-", x, y) }

func Div(x, y Expr) List { return Apply("%", x, y) }

func Mod(x, y Expr) List { return Apply("mod", x, y) }

// Floor floors elementwise: (floor; x).
func Floor(x Expr) List { return Apply("floor", x) }

// MinOf is two-argument minimum: (&; x; y).
func MinOf(x, y Expr) List { return Apply("&", x, y) }

// EnlistRow wraps a single record row so it stays table-shaped:
// (,:; x).
func EnlistRow(x Expr) List { return Apply(",:", x) }
