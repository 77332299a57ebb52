package q

import (
	"fmt"
	"strconv"
	"strings"
)

// Expr is the sealed interface over q AST values.
// Only Atom, Bool, Symbol, List, Dict and Select implement it.
type Expr interface {
	fmt.Stringer
	qexpr() // Marker method - seals interface to this package
}

// Atom is a scalar literal carrying its q lexical rendering.
// Equality is by rendered form.
type Atom struct {
	S string
}

func (Atom) qexpr() {}

// String returns the literal verbatim.
func (a Atom) String() string { return a.S }

// Int returns an integer atom.
func Int(n int64) Atom {
	return Atom{S: strconv.FormatInt(n, 10)}
}

// Float returns a float atom.
func Float(f float64) Atom {
	return Atom{S: strconv.FormatFloat(f, 'g', -1, 64)}
}

// Bool is a q boolean literal.
type Bool bool

func (Bool) qexpr() {}

func (b Bool) String() string {
	if b {
		return "1b"
	}
	return "0b"
}

// Symbol is a named reference, optionally dotted as table.column.
//
// A Symbol created for a bound table carries the table's column names
// and physical layout flags; those drive the record-valued test, the
// count quirk and the partition-aware take. Fragments reference the one
// Symbol created per binding, they never copy it.
type Symbol struct {
	Name          string
	Fields        []string
	IsPartitioned bool
	IsSplayed     bool
}

func (*Symbol) qexpr() {}

func (s *Symbol) String() string { return "`" + s.Name }

// NewSymbol returns a plain named reference.
func NewSymbol(name string) *Symbol {
	return &Symbol{Name: name}
}

// NewTableSymbol returns a table reference carrying column names and
// physical layout flags.
func NewTableSymbol(name string, fields []string, partitioned, splayed bool) *Symbol {
	return &Symbol{Name: name, Fields: fields, IsPartitioned: partitioned, IsSplayed: splayed}
}

// Scope returns the first dotted component of the symbol name, or ""
// when the name is not dotted.
func (s *Symbol) Scope() string {
	if i := strings.IndexByte(s.Name, '.'); i >= 0 {
		return s.Name[:i]
	}
	return ""
}

// Member returns the symbol name with its first dotted component
// removed. Undotted names are returned unchanged.
func (s *Symbol) Member() string {
	if i := strings.IndexByte(s.Name, '.'); i >= 0 {
		return s.Name[i+1:]
	}
	return s.Name
}

// List is an ordered heterogeneous sequence. The first element is
// usually an operator or function atom; application of a value to an
// index is a list with no operator.
type List struct {
	Items []Expr
}

func (List) qexpr() {}

func (l List) String() string {
	parts := make([]string, len(l.Items))
	for i, item := range l.Items {
		parts[i] = item.String()
	}
	return "(" + strings.Join(parts, "; ") + ")"
}

// NewList builds a list from its items.
func NewList(items ...Expr) List {
	return List{Items: items}
}

// Dict is an ordered mapping from symbols to expressions. Order is
// significant: it determines output column order.
type Dict struct {
	Keys []*Symbol
	Vals []Expr
}

func (*Dict) qexpr() {}

func (d *Dict) String() string {
	keys := make([]string, len(d.Keys))
	vals := make([]string, len(d.Vals))
	for i, k := range d.Keys {
		keys[i] = k.String()
	}
	for i, v := range d.Vals {
		vals[i] = v.String()
	}
	return "(" + strings.Join(keys, "; ") + ")!(" + strings.Join(vals, "; ") + ")"
}

// NewDict builds an ordered dict from parallel keys and values.
func NewDict(keys []*Symbol, vals []Expr) *Dict {
	return &Dict{Keys: keys, Vals: vals}
}

// Set returns a copy of the dict with key bound to val, appending when
// the key is absent.
func (d *Dict) Set(key *Symbol, val Expr) *Dict {
	keys := append([]*Symbol{}, d.Keys...)
	vals := append([]Expr{}, d.Vals...)
	for i, k := range keys {
		if k.Name == key.Name {
			vals[i] = val
			return &Dict{Keys: keys, Vals: vals}
		}
	}
	return &Dict{Keys: append(keys, key), Vals: append(vals, val)}
}

// Select is q's relational operation node.
//
// Constraints is an ordered sequence of conjunctive clause lists; the
// outer sequence is disjunctive. A nil Grouper renders as 0b (no
// grouping) and a nil Aggregates as () per the functional select
// template ?[child; constraints; grouper; aggregates].
type Select struct {
	Child       Expr
	Constraints []List
	Grouper     *Dict
	Aggregates  *Dict
}

func (*Select) qexpr() {}

func (s *Select) String() string {
	constraints := make([]string, len(s.Constraints))
	for i, c := range s.Constraints {
		constraints[i] = c.String()
	}
	grouper := "0b"
	if s.Grouper != nil {
		grouper = s.Grouper.String()
	}
	aggregates := "()"
	if s.Aggregates != nil {
		aggregates = s.Aggregates.String()
	}
	return fmt.Sprintf("?[%s; (%s); %s; %s]",
		s.Child.String(), strings.Join(constraints, "; "), grouper, aggregates)
}

// NewSelect builds a select node. Any slot but the child may be zero.
func NewSelect(child Expr, constraints []List, grouper, aggregates *Dict) *Select {
	return &Select{Child: child, Constraints: constraints, Grouper: grouper, Aggregates: aggregates}
}

// IsRecordValued reports whether a translated fragment denotes a
// record-shaped value: a table reference carrying named fields, or a
// select. The tag is explicit so the field-access branch is a
// two-armed switch rather than a try-and-recover path.
func IsRecordValued(e Expr) bool {
	switch v := e.(type) {
	case *Symbol:
		return len(v.Fields) > 0
	case *Select:
		return true
	default:
		return false
	}
}
