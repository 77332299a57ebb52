package expr

import (
	"time"
)

// Node is the sealed interface implemented by every expression kind.
//
// The marker method prevents external implementations so that the
// translator's type switch can be exhaustive over the kinds defined
// here.
type Node interface {
	Shape() DShape
	node() // Marker method - seals interface to this package
}

// Symbol is a leaf node: a reference to a logical table (or, after
// rebinding, to a live remote table).
type Symbol struct {
	Name   string
	DShape DShape
}

func (*Symbol) node() {}

// Shape returns the declared shape of the bound table.
func (s *Symbol) Shape() DShape { return s.DShape }

// Lit wraps a host-language literal used as a BinOp operand. Strings,
// dates and timestamps are coerced to q literal syntax at translation
// time; other values pass through.
type Lit struct {
	Value any
}

func (*Lit) node() {}

func (l *Lit) Shape() DShape {
	switch v := l.Value.(type) {
	case int, int64:
		return Scalar(KindInt64)
	case float64:
		return Scalar(KindFloat64)
	case bool:
		return Scalar(KindBool)
	case string:
		return Scalar(KindString)
	case time.Time:
		if isMidnight(v) {
			return Scalar(KindDate)
		}
		return Scalar(KindDateTime)
	default:
		return Scalar(KindString)
	}
}

func isMidnight(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}

// Projection selects a subset of fields from a record-shaped child,
// preserving the requested order.
type Projection struct {
	Child  Node
	Fields []string
}

func (*Projection) node() {}

func (p *Projection) Shape() DShape {
	child := p.Child.Shape()
	cols := make([]Column, 0, len(p.Fields))
	for _, f := range p.Fields {
		if c, ok := child.Column(f); ok {
			cols = append(cols, c)
		} else {
			cols = append(cols, Column{Name: f})
		}
	}
	return DShape{Columnar: child.Columnar, Columns: cols}
}

// Field accesses a single named field of a record-shaped child.
type Field struct {
	Child Node
	Name  string
}

func (*Field) node() {}

func (f *Field) Shape() DShape {
	child := f.Child.Shape()
	if c, ok := child.Column(f.Name); ok {
		return DShape{Columnar: child.Columnar, Elem: c.Type}
	}
	return DShape{Columnar: child.Columnar}
}

// comparisonOps are the binary operators whose result is boolean.
var comparisonOps = map[string]bool{
	"==": true, "!=": true,
	"<": true, "<=": true, ">": true, ">=": true,
	"and": true, "or": true,
}

// BinOp applies a binary operator to two operands. Either side may be a
// *Lit; operand order is significant and preserved through translation.
type BinOp struct {
	Op  string
	LHS Node
	RHS Node
}

func (*BinOp) node() {}

func (b *BinOp) Shape() DShape {
	lhs, rhs := b.LHS.Shape(), b.RHS.Shape()
	columnar := lhs.Columnar || rhs.Columnar
	if comparisonOps[b.Op] {
		return DShape{Columnar: columnar, Elem: KindBool}
	}
	return DShape{Columnar: columnar, Elem: promote(lhs.Elem, rhs.Elem)}
}

// UnaryOp applies a unary operator elementwise.
type UnaryOp struct {
	Op    string
	Child Node
}

func (*UnaryOp) node() {}

func (u *UnaryOp) Shape() DShape {
	child := u.Child.Shape()
	if u.Op == "not" {
		return DShape{Columnar: child.Columnar, Elem: KindBool}
	}
	return child
}

// Reduction collapses a column to a scalar along an axis. Only the
// leading axis is supported by the q backend.
type Reduction struct {
	Op    string
	Child Node
	Axis  []int
}

func (*Reduction) node() {}

func (r *Reduction) Shape() DShape {
	switch r.Op {
	case "count", "nunique":
		return Scalar(KindInt64)
	case "mean", "avg", "std", "var":
		return Scalar(KindFloat64)
	default:
		return Scalar(r.Child.Shape().Elem)
	}
}

// Selection filters the rows of its child by a boolean predicate. The
// predicate is an expression over the same child.
type Selection struct {
	Child     Node
	Predicate Node
}

func (*Selection) node() {}

func (s *Selection) Shape() DShape { return s.Child.Shape() }

// Sort orders the child's rows by a single key column.
type Sort struct {
	Child     Node
	Key       string
	Ascending bool
}

func (*Sort) node() {}

func (s *Sort) Shape() DShape { return s.Child.Shape() }

// Head limits the child to its first N rows.
type Head struct {
	Child Node
	N     int64
}

func (*Head) node() {}

func (h *Head) Shape() DShape { return h.Child.Shape() }

// Distinct removes duplicate rows.
type Distinct struct {
	Child Node
}

func (*Distinct) node() {}

func (d *Distinct) Shape() DShape { return d.Child.Shape() }

// Index is the sealed interface over slice index forms: a single row
// position (At) or a half-open range (Span).
type Index interface {
	index() // Marker method - seals interface to this package
}

// At selects a single row by position. Negative positions count from
// the end.
type At struct {
	I int64
}

func (At) index() {}

// Span selects a half-open row range. A nil bound defaults to the start
// or end of the data; negative bounds count from the end.
type Span struct {
	Start *int64
	Stop  *int64
}

func (Span) index() {}

// Slice extracts rows by position. Exactly one index dimension is
// supported.
type Slice struct {
	Child Node
	Index []Index
}

func (*Slice) node() {}

func (s *Slice) Shape() DShape {
	child := s.Child.Shape()
	if len(s.Index) == 1 {
		if _, ok := s.Index[0].(At); ok {
			// A single-position slice of a table is one row.
			return DShape{Columns: child.Columns, Elem: child.Elem}
		}
	}
	return child
}

// By groups the child's rows by a grouping expression and applies an
// aggregate expression within each group.
type By struct {
	Child   Node
	Grouper Node
	Apply   Node
}

func (*By) node() {}

func (b *By) Shape() DShape {
	grouper := b.Grouper.Shape()
	apply := b.Apply.Shape()
	cols := []Column{{Name: OutputName(b.Grouper), Type: grouper.Elem}}
	if apply.IsRecord() {
		cols = append(cols, apply.Columns...)
	} else {
		cols = append(cols, Column{Name: OutputName(b.Apply), Type: apply.Elem})
	}
	return Record(cols...)
}

// Join combines two record-shaped children on key columns. The q
// backend supports inner equi-joins on identically named columns only;
// other configurations are rejected at translation time.
type Join struct {
	LHS     Node
	RHS     Node
	How     string
	OnLeft  []string
	OnRight []string
}

func (*Join) node() {}

func (j *Join) Shape() DShape {
	lhs, rhs := j.LHS.Shape(), j.RHS.Shape()
	keys := make(map[string]bool, len(j.OnLeft))
	for _, k := range j.OnLeft {
		keys[k] = true
	}
	cols := append([]Column{}, lhs.Columns...)
	for _, c := range rhs.Columns {
		if !keys[c.Name] {
			cols = append(cols, c)
		}
	}
	return Record(cols...)
}

// Summary bundles several named aggregates computed over the same
// child. Names and Aggs are parallel and order-preserving.
type Summary struct {
	Child Node
	Names []string
	Aggs  []Node
}

func (*Summary) node() {}

func (s *Summary) Shape() DShape {
	cols := make([]Column, len(s.Names))
	for i, name := range s.Names {
		cols[i] = Column{Name: name, Type: s.Aggs[i].Shape().Elem}
	}
	return Row(cols...)
}

// NRows counts the elements of its child along an axis. Only the
// leading axis is supported by the q backend.
type NRows struct {
	Child Node
	Axis  []int
}

func (*NRows) node() {}

func (n *NRows) Shape() DShape { return Scalar(KindInt64) }

// Datetime part names accepted by DateTimePart.
const (
	PartYear        = "year"
	PartMonth       = "month"
	PartDay         = "day"
	PartHour        = "hour"
	PartMinute      = "minute"
	PartSecond      = "second"
	PartMillisecond = "millisecond"
	PartMicrosecond = "microsecond"
)

// DateTimePart extracts a named integer component from a date, datetime
// or time valued child.
type DateTimePart struct {
	Child Node
	Part  string
}

func (*DateTimePart) node() {}

func (d *DateTimePart) Shape() DShape {
	return DShape{Columnar: d.Child.Shape().Columnar, Elem: KindInt64}
}

// OutputName returns the name a node contributes when it becomes a
// named output column (a group-by grouper or a bare aggregate).
func OutputName(n Node) string {
	switch node := n.(type) {
	case *Field:
		return node.Name
	case *Symbol:
		return node.Name
	case *DateTimePart:
		return node.Part
	case *Reduction:
		return node.Op
	case *UnaryOp:
		return OutputName(node.Child)
	default:
		return "expr"
	}
}
