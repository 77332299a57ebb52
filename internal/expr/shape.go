package expr

// Kind enumerates the element types a column or scalar can have.
type Kind int

const (
	KindInt64 Kind = iota
	KindFloat64
	KindBool
	KindString
	KindDate
	KindDateTime
	KindTime
)

// String returns the datashape-style name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInt64:
		return "int64"
	case KindFloat64:
		return "float64"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindDate:
		return "date"
	case KindDateTime:
		return "datetime"
	case KindTime:
		return "time"
	default:
		return "unknown"
	}
}

// Column is a named, typed field of a record shape.
type Column struct {
	Name string
	Type Kind
}

// DShape describes the result shape of an expression node.
//
// A shape is either record-shaped (Columns non-empty) or elemental
// (Elem). Columnar marks a variable-length leading axis: a table is a
// columnar record, a single row is a non-columnar record, a column is a
// columnar elemental shape, and a scalar is a non-columnar elemental
// shape.
type DShape struct {
	Columnar bool
	Columns  []Column
	Elem     Kind
}

// Record returns a columnar record shape over the given columns.
func Record(cols ...Column) DShape {
	return DShape{Columnar: true, Columns: cols}
}

// Row returns a single-row record shape over the given columns.
func Row(cols ...Column) DShape {
	return DShape{Columns: cols}
}

// ColumnOf returns a columnar elemental shape.
func ColumnOf(k Kind) DShape {
	return DShape{Columnar: true, Elem: k}
}

// Scalar returns a scalar shape.
func Scalar(k Kind) DShape {
	return DShape{Elem: k}
}

// IsRecord reports whether the shape has named fields.
func (d DShape) IsRecord() bool {
	return len(d.Columns) > 0
}

// Column looks up a field by name.
func (d DShape) Column(name string) (Column, bool) {
	for _, c := range d.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// FieldNames returns the field names in declaration order.
func (d DShape) FieldNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// promote returns the wider of two numeric kinds. Non-numeric operands
// keep the left kind; arithmetic over them is caught at translation
// time, not here.
func promote(a, b Kind) Kind {
	if a == KindFloat64 || b == KindFloat64 {
		return KindFloat64
	}
	return a
}
