package queryfile

import (
	"fmt"

	"github.com/querylab/qbridge/internal/expr"
)

var columnKinds = map[string]expr.Kind{
	"int64":    expr.KindInt64,
	"float64":  expr.KindFloat64,
	"bool":     expr.KindBool,
	"string":   expr.KindString,
	"date":     expr.KindDate,
	"datetime": expr.KindDateTime,
	"time":     expr.KindTime,
}

// Build compiles a validated document into an expression tree. The
// returned leaf is the table symbol the caller binds to a live handle
// before translating.
func Build(doc *Document) (expr.Node, *expr.Symbol, error) {
	cols := make([]expr.Column, len(doc.Table.Columns))
	for i, c := range doc.Table.Columns {
		kind, ok := columnKinds[c.Type]
		if !ok {
			return nil, nil, &CompileError{Field: "table.columns", Message: fmt.Sprintf("unknown column type %q", c.Type)}
		}
		cols[i] = expr.Column{Name: c.Name, Type: kind}
	}

	leaf := &expr.Symbol{Name: doc.Table.Name, DShape: expr.Record(cols...)}
	var cur expr.Node = leaf

	for i, op := range doc.Pipeline {
		next, err := applyOp(cur, op)
		if err != nil {
			if ce, ok := err.(*CompileError); ok {
				ce.Field = fmt.Sprintf("pipeline[%d]", i)
			}
			return nil, nil, err
		}
		cur = next
	}
	return cur, leaf, nil
}

func applyOp(cur expr.Node, op OpSpec) (expr.Node, error) {
	switch op.Op {
	case "filter":
		if op.Field == "" || op.Cmp == "" {
			return nil, &CompileError{Message: "filter needs field and cmp"}
		}
		return &expr.Selection{
			Child: cur,
			Predicate: &expr.BinOp{
				Op:  op.Cmp,
				LHS: &expr.Field{Child: cur, Name: op.Field},
				RHS: &expr.Lit{Value: op.Value},
			},
		}, nil

	case "project":
		if len(op.Fields) == 0 {
			return nil, &CompileError{Message: "project needs at least one field"}
		}
		return &expr.Projection{Child: cur, Fields: op.Fields}, nil

	case "field":
		if op.Field == "" {
			return nil, &CompileError{Message: "field needs a field name"}
		}
		return &expr.Field{Child: cur, Name: op.Field}, nil

	case "sort":
		if op.Key == "" {
			return nil, &CompileError{Message: "sort needs a key"}
		}
		ascending := true
		if op.Ascending != nil {
			ascending = *op.Ascending
		}
		return &expr.Sort{Child: cur, Key: op.Key, Ascending: ascending}, nil

	case "head":
		return &expr.Head{Child: cur, N: op.N}, nil

	case "slice":
		if op.Index != nil {
			if op.Start != nil || op.Stop != nil {
				return nil, &CompileError{Message: "slice takes either index or start/stop, not both"}
			}
			return &expr.Slice{Child: cur, Index: []expr.Index{expr.At{I: *op.Index}}}, nil
		}
		return &expr.Slice{Child: cur, Index: []expr.Index{expr.Span{Start: op.Start, Stop: op.Stop}}}, nil

	case "distinct":
		return &expr.Distinct{Child: cur}, nil

	case "count":
		return &expr.NRows{Child: cur, Axis: []int{0}}, nil

	case "group":
		if op.By == "" {
			return nil, &CompileError{Message: "group needs a by column"}
		}
		if len(op.Aggs) == 0 {
			return nil, &CompileError{Message: "group needs at least one aggregate"}
		}
		apply, err := buildSummary(cur, op.Aggs)
		if err != nil {
			return nil, err
		}
		return &expr.By{
			Child:   cur,
			Grouper: &expr.Field{Child: cur, Name: op.By},
			Apply:   apply,
		}, nil

	case "summary":
		if len(op.Aggs) == 0 {
			return nil, &CompileError{Message: "summary needs at least one aggregate"}
		}
		return buildSummary(cur, op.Aggs)

	case "part":
		if op.Part == "" {
			return nil, &CompileError{Message: "part needs a part name"}
		}
		return &expr.DateTimePart{Child: cur, Part: op.Part}, nil

	default:
		return nil, &CompileError{Message: fmt.Sprintf("unknown operation %q", op.Op)}
	}
}

func buildSummary(cur expr.Node, aggs []AggSpec) (expr.Node, error) {
	names := make([]string, len(aggs))
	nodes := make([]expr.Node, len(aggs))
	for i, agg := range aggs {
		if agg.Name == "" || agg.Op == "" || agg.Field == "" {
			return nil, &CompileError{Message: "aggregate needs name, op and field"}
		}
		names[i] = agg.Name
		nodes[i] = &expr.Reduction{
			Op:    agg.Op,
			Child: &expr.Field{Child: cur, Name: agg.Field},
			Axis:  []int{0},
		}
	}
	return &expr.Summary{Child: cur, Names: names, Aggs: nodes}, nil
}
