package translate

import (
	"github.com/querylab/qbridge/internal/expr"
	"github.com/querylab/qbridge/internal/q"
)

// datetimePartNames maps source datetime part names to q's field letter
// codes. Parts absent from the map keep their own name.
var datetimePartNames = map[string]string{
	expr.PartDay:    "dd",
	expr.PartMonth:  "mm",
	expr.PartHour:   "hh",
	expr.PartSecond: "ss",
}

// Translator translates expression trees against a scope of leaf
// bindings. A Translator is cheap; build one per translation with the
// leaves bound to the q symbols of the live tables.
type Translator struct {
	scope map[expr.Node]q.Expr
}

// New returns an empty translator.
func New() *Translator {
	return &Translator{scope: make(map[expr.Node]q.Expr)}
}

// Bind binds a leaf symbol to its q-side table symbol.
func (t *Translator) Bind(leaf *expr.Symbol, sym *q.Symbol) *Translator {
	t.scope[leaf] = sym
	return t
}

// with returns a translator whose scope is extended by the given
// binding. The receiver is not modified; rules use this to translate a
// sub-expression against a child fragment.
func (t *Translator) with(n expr.Node, frag q.Expr) *Translator {
	scope := make(map[expr.Node]q.Expr, len(t.scope)+1)
	for k, v := range t.scope {
		scope[k] = v
	}
	scope[n] = frag
	return &Translator{scope: scope}
}

// Translate walks the tree bottom-up and produces one q fragment.
// Nodes present in the scope short-circuit to their bound fragment,
// which is how rules re-translate sub-expressions against an already
// translated child.
func (t *Translator) Translate(n expr.Node) (q.Expr, error) {
	if bound, ok := t.scope[n]; ok {
		return bound, nil
	}

	switch node := n.(type) {
	case *expr.Symbol:
		return nil, unboundf(node, "leaf %q has no table binding", node.Name)

	case *expr.Lit:
		return Coerce(node.Value)

	case *expr.Projection:
		return t.translateProjection(node)

	case *expr.Field:
		return t.translateField(node)

	case *expr.BinOp:
		return t.translateBinOp(node)

	case *expr.UnaryOp:
		return t.translateUnaryOp(node)

	case *expr.Reduction:
		return t.translateReduction(node)

	case *expr.Selection:
		return t.translateSelection(node)

	case *expr.Sort:
		child, err := t.Translate(node.Child)
		if err != nil {
			return nil, err
		}
		return q.SortBy(child, node.Key, node.Ascending), nil

	case *expr.Head:
		return t.translateHead(node)

	case *expr.Distinct:
		child, err := t.Translate(node.Child)
		if err != nil {
			return nil, err
		}
		return q.DistinctOf(child), nil

	case *expr.Slice:
		return t.translateSlice(node)

	case *expr.By:
		return t.translateBy(node)

	case *expr.Join:
		return t.translateJoin(node)

	case *expr.Summary:
		return t.translateSummary(node)

	case *expr.NRows:
		return t.translateNRows(node)

	case *expr.DateTimePart:
		return t.translateDateTimePart(node)

	default:
		return nil, unsupportedf(n, "no translation rule for node kind")
	}
}

// translateProjection maps each requested field to itself, preserving
// field order.
func (t *Translator) translateProjection(p *expr.Projection) (q.Expr, error) {
	child, err := t.Translate(p.Child)
	if err != nil {
		return nil, err
	}
	keys := make([]*q.Symbol, len(p.Fields))
	vals := make([]q.Expr, len(p.Fields))
	for i, f := range p.Fields {
		keys[i] = q.NewSymbol(f)
		vals[i] = q.NewSymbol(f)
	}
	return q.NewSelect(child, nil, nil, q.NewDict(keys, vals)), nil
}

// translateField resolves a field access either to a dotted member
// reference (record-valued table symbol) or to an explicit
// slice-by-name on the translated value.
func (t *Translator) translateField(f *expr.Field) (q.Expr, error) {
	child, err := t.Translate(f.Child)
	if err != nil {
		return nil, err
	}
	if sym, ok := child.(*q.Symbol); ok && q.IsRecordValued(sym) {
		return q.NewSymbol(sym.Name + "." + f.Name), nil
	}
	return q.SliceByName(child, f.Name), nil
}

func (t *Translator) translateBinOp(b *expr.BinOp) (q.Expr, error) {
	op, ok := q.BinOps[b.Op]
	if !ok {
		return nil, unsupportedf(b, "binary operator %q has no q equivalent", b.Op)
	}
	// Operand order is preserved: q operators are not assumed
	// commutative, and a coerced literal may sit on either side.
	lhs, err := t.Translate(b.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := t.Translate(b.RHS)
	if err != nil {
		return nil, err
	}
	return q.Apply(op, lhs, rhs), nil
}

func (t *Translator) translateUnaryOp(u *expr.UnaryOp) (q.Expr, error) {
	child, err := t.Translate(u.Child)
	if err != nil {
		return nil, err
	}
	if u.Op == "nunique" {
		return q.Count(q.DistinctOf(child)), nil
	}
	op, ok := q.UnOps[u.Op]
	if !ok {
		return nil, unsupportedf(u, "unary operator %q has no q equivalent", u.Op)
	}
	return q.Apply(op, child), nil
}

func (t *Translator) translateReduction(r *expr.Reduction) (q.Expr, error) {
	if !leadingAxis(r.Axis) {
		return nil, unsupportedf(r, "reduction %q over axis %v: only the leading axis is supported", r.Op, r.Axis)
	}
	child, err := t.Translate(r.Child)
	if err != nil {
		return nil, err
	}
	if r.Op == "nunique" {
		return q.Count(q.DistinctOf(child)), nil
	}
	op, ok := q.UnOps[r.Op]
	if !ok {
		return nil, unsupportedf(r, "reduction %q has no q equivalent", r.Op)
	}
	return q.Apply(op, child), nil
}

// translateSelection translates the predicate against the original
// child binding and adds one conjunctive clause. A child that is
// already a bare filter select absorbs the clause into its constraints
// slot instead of being wrapped; a grouped or aggregated select is
// wrapped, since filtering it constrains the grouped result, not the
// base table. The outer constraints list is disjunctive, so the new
// clause is conjoined into every existing clause.
func (t *Translator) translateSelection(s *expr.Selection) (q.Expr, error) {
	child, err := t.Translate(s.Child)
	if err != nil {
		return nil, err
	}
	if sel, ok := child.(*q.Select); ok && sel.Grouper == nil && sel.Aggregates == nil {
		pred, err := t.with(s.Child, sel.Child).Translate(s.Predicate)
		if err != nil {
			return nil, err
		}
		if len(sel.Constraints) == 0 {
			return q.NewSelect(sel.Child, []q.List{q.NewList(pred)}, nil, nil), nil
		}
		constraints := make([]q.List, len(sel.Constraints))
		for i, clause := range sel.Constraints {
			items := append(append([]q.Expr{}, clause.Items...), pred)
			constraints[i] = q.List{Items: items}
		}
		return q.NewSelect(sel.Child, constraints, nil, nil), nil
	}
	pred, err := t.with(s.Child, child).Translate(s.Predicate)
	if err != nil {
		return nil, err
	}
	return q.NewSelect(child, []q.List{q.NewList(pred)}, nil, nil), nil
}

// translateHead clamps the requested row count to the child's actual
// row count before taking: q's # repeats cyclically past the end, which
// would silently corrupt results. Partitioned tables take via .Q.ind.
func (t *Translator) translateHead(h *expr.Head) (q.Expr, error) {
	child, err := t.Translate(h.Child)
	if err != nil {
		return nil, err
	}
	rows, err := t.rowCount(h.Child, child)
	if err != nil {
		return nil, err
	}
	// & is two-argument min in q.
	final := q.MinOf(q.Int(h.N), rows)
	if sym, ok := child.(*q.Symbol); ok && sym.IsPartitioned {
		return q.PartitionedTake(child, q.Til(final)), nil
	}
	return q.Take(final, child), nil
}

// translateSlice supports exactly one slice dimension. Bounds are
// normalized against the child's row count and re-expressed as a fixed
// origin plus length, which is the form q's contiguous extraction
// wants.
func (t *Translator) translateSlice(s *expr.Slice) (q.Expr, error) {
	if len(s.Index) != 1 {
		return nil, unsupportedf(s, "slicing with %d dimensions: only a single slice is supported", len(s.Index))
	}
	child, err := t.Translate(s.Child)
	if err != nil {
		return nil, err
	}
	rows, err := t.rowCount(s.Child, child)
	if err != nil {
		return nil, err
	}

	switch idx := s.Index[0].(type) {
	case expr.At:
		var pos q.Expr = q.Int(idx.I)
		if idx.I < 0 {
			pos = q.Add(q.Int(idx.I), rows)
		}
		picked := q.NewList(child, pos)
		if !s.Shape().IsRecord() {
			return picked, nil
		}
		// A single row of a table must stay table-shaped.
		return q.EnlistRow(picked), nil

	case expr.Span:
		var start q.Expr = q.Int(0)
		if idx.Start != nil {
			if *idx.Start < 0 {
				start = q.Add(q.Int(*idx.Start), rows)
			} else {
				start = q.Int(*idx.Start)
			}
		}
		var stop q.Expr = rows
		if idx.Stop != nil {
			if *idx.Stop < 0 {
				stop = q.Add(q.Int(*idx.Stop), rows)
			} else {
				stop = q.Int(*idx.Stop)
			}
		}
		// Y[a:b] == a (b - a) sublist Y; expressed as indexing at
		// a + til (b - a) so the bounds may themselves be q expressions.
		return q.Apply("@", child, q.Add(start, q.Til(q.Sub(stop, start)))), nil

	default:
		return nil, unsupportedf(s, "unsupported slice index form")
	}
}

// translateBy reuses the constraints of an already-select child rather
// than nesting, computes a one-entry grouper, extracts the aggregates
// of the translated apply expression, and strips the now-redundant
// table prefix.
func (t *Translator) translateBy(b *expr.By) (q.Expr, error) {
	data, err := t.Translate(b.Child)
	if err != nil {
		return nil, err
	}

	child := data
	var constraints []q.List
	if sel, ok := data.(*q.Select); ok {
		child = sel.Child
		constraints = sel.Constraints
	}

	inner := t.with(b.Child, child).bindLeaves(b.Grouper, child)
	grouperQ, err := inner.Translate(b.Grouper)
	if err != nil {
		return nil, err
	}
	grouper := q.NewDict(
		[]*q.Symbol{q.NewSymbol(expr.OutputName(b.Grouper))},
		[]q.Expr{grouperQ},
	)

	applyT := t.with(b.Child, child).bindLeaves(b.Apply, child)
	applyQ, err := applyT.Translate(b.Apply)
	if err != nil {
		return nil, err
	}
	applySel, ok := applyQ.(*q.Select)
	if !ok || applySel.Aggregates == nil {
		return nil, unsupportedf(b, "group-by apply expression does not produce aggregates")
	}

	sel := q.NewSelect(child, constraints, grouper, applySel.Aggregates)
	return StripScope(sel, fragmentScope(child)), nil
}

// bindLeaves extends the scope so every leaf of sub resolves to frag.
func (t *Translator) bindLeaves(sub expr.Node, frag q.Expr) *Translator {
	out := t
	for _, leaf := range expr.Leaves(sub) {
		out = out.with(leaf, frag)
	}
	return out
}

// translateJoin supports inner equi-joins on identically named columns.
// Anything else fails before any partial translation is produced.
func (t *Translator) translateJoin(j *expr.Join) (q.Expr, error) {
	if j.How != "inner" {
		return nil, unsupportedf(j, "join kind %q: only inner joins are supported", j.How)
	}
	if len(j.OnLeft) != len(j.OnRight) {
		return nil, unsupportedf(j, "join key lists differ in length")
	}
	for i := range j.OnLeft {
		if j.OnLeft[i] != j.OnRight[i] {
			return nil, unsupportedf(j, "join on differently named columns %q and %q", j.OnLeft[i], j.OnRight[i])
		}
	}
	lhs, err := t.Translate(j.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := t.Translate(j.RHS)
	if err != nil {
		return nil, err
	}
	return q.EquiJoin(j.OnLeft, lhs, rhs), nil
}

// translateSummary translates each named aggregate against the same
// child fragment, assembles one aggregates mapping, and strips the
// table prefix the per-aggregate translations introduced.
func (t *Translator) translateSummary(s *expr.Summary) (q.Expr, error) {
	data, err := t.Translate(s.Child)
	if err != nil {
		return nil, err
	}
	inner := t.with(s.Child, data)

	keys := make([]*q.Symbol, len(s.Names))
	vals := make([]q.Expr, len(s.Aggs))
	for i, agg := range s.Aggs {
		frag, err := inner.bindLeaves(agg, data).Translate(agg)
		if err != nil {
			return nil, err
		}
		keys[i] = q.NewSymbol(s.Names[i])
		vals[i] = frag
	}
	sel := q.NewSelect(data, nil, nil, q.NewDict(keys, vals))
	return StripScope(sel, fragmentScope(data)), nil
}

// translateNRows rejects non-leading axes and counts rows, counting
// via a plain symbol reference when the fragment is a bare table
// reference with named fields: a bare record value does not count rows
// the way a named table reference does.
func (t *Translator) translateNRows(n *expr.NRows) (q.Expr, error) {
	if !leadingAxis(n.Axis) {
		return nil, unsupportedf(n, "count over axis %v: only the leading axis is supported on record types", n.Axis)
	}
	child, err := t.Translate(n.Child)
	if err != nil {
		return nil, err
	}
	return countRows(child), nil
}

// rowCount translates a row-count of childNode whose fragment is
// already known.
func (t *Translator) rowCount(childNode expr.Node, frag q.Expr) (q.Expr, error) {
	return t.with(childNode, frag).translateNRows(&expr.NRows{Child: childNode, Axis: []int{0}})
}

func countRows(frag q.Expr) q.Expr {
	if sym, ok := frag.(*q.Symbol); ok && len(sym.Fields) > 0 {
		return q.Count(q.NewSymbol(sym.Name))
	}
	return q.Count(frag)
}

// translateDateTimePart maps named parts through the field letter
// table. Microsecond is derived by integer arithmetic on the raw time
// value, millisecond divides the microsecond translation down, and
// minute bypasses q's mm accessor, which is defined for only one of
// the date, datetime and time types.
func (t *Translator) translateDateTimePart(d *expr.DateTimePart) (q.Expr, error) {
	child, err := t.Translate(d.Child)
	if err != nil {
		return nil, err
	}

	switch d.Part {
	case expr.PartMicrosecond:
		return microsecond(child), nil
	case expr.PartMillisecond:
		return q.Apply("div", microsecond(child), q.Int(1000)), nil
	case expr.PartMinute:
		return q.Mod(q.CastLong(member(child, "minute")), q.Int(60)), nil
	default:
		name := d.Part
		if renamed, ok := datetimePartNames[name]; ok {
			name = renamed
		}
		return member(child, name), nil
	}
}

// microsecond is the raw long value modulo one second of nanoseconds,
// divided down to microsecond granularity and floored.
func microsecond(child q.Expr) q.Expr {
	return q.Floor(q.Div(q.Mod(q.CastLong(child), q.Int(1000000000)), q.Int(1000)))
}

// member accesses a named component of a fragment: a dotted reference
// when the fragment is a symbol, a slice-by-name otherwise.
func member(frag q.Expr, name string) q.Expr {
	if sym, ok := frag.(*q.Symbol); ok {
		return q.NewSymbol(sym.Name + "." + name)
	}
	return q.SliceByName(frag, name)
}

// fragmentScope names the table scope a fragment's column references
// are qualified with, or "" when there is none to strip.
func fragmentScope(frag q.Expr) string {
	switch v := frag.(type) {
	case *q.Symbol:
		return v.Name
	case *q.Select:
		return fragmentScope(v.Child)
	default:
		return ""
	}
}

// leadingAxis reports whether axis denotes the leading axis. An empty
// axis list defaults to it.
func leadingAxis(axis []int) bool {
	return len(axis) == 0 || (len(axis) == 1 && axis[0] == 0)
}
