package translate

import (
	"context"

	"github.com/querylab/qbridge/internal/expr"
	"github.com/querylab/qbridge/internal/resource"
)

// Eval translates a single-table expression against a live handle and
// executes it.
//
// The expression's leaf is rebound to a fresh symbol named after the
// remote table before translating, so column references resolve against
// the handle that is live now rather than whatever name the tree was
// built with.
func Eval(ctx context.Context, e expr.Node, table *resource.QTable) (resource.Rows, error) {
	leaves := expr.Leaves(e)
	if len(leaves) != 1 {
		return resource.Rows{}, unsupportedf(e, "single-table eval needs exactly one leaf, got %d", len(leaves))
	}

	fresh := &expr.Symbol{Name: table.TableName, DShape: table.Shape}
	rebound := expr.Substitute(e, map[*expr.Symbol]*expr.Symbol{leaves[0]: fresh})

	// Projecting one field out of a partitioned or splayed table must
	// go through a single-column projection; a bare column fetch is
	// not valid against those layouts.
	sym := table.QSymbol()
	if f, ok := rebound.(*expr.Field); ok && (sym.IsPartitioned || sym.IsSplayed) {
		rebound = &expr.Projection{Child: f.Child, Fields: []string{f.Name}}
	}

	frag, err := New().Bind(fresh, sym).Translate(rebound)
	if err != nil {
		return resource.Rows{}, err
	}
	return table.Eval(ctx, frag)
}

// Eval2 evaluates an expression spanning two independently bound
// tables.
//
// Translation does not proceed top-down through a shared scope: both
// leaves are rebound to fresh per-call symbols, the sub-expression is
// re-translated under that fresh scope, and the fully resolved query is
// executed through the left handle's session.
func Eval2(ctx context.Context, e expr.Node, lhs, rhs *resource.QTable) (resource.Rows, error) {
	leaves := expr.Leaves(e)
	if len(leaves) != 2 {
		return resource.Rows{}, unsupportedf(e, "two-table eval needs exactly two leaves, got %d", len(leaves))
	}

	freshL := &expr.Symbol{Name: lhs.TableName, DShape: lhs.Shape}
	freshR := &expr.Symbol{Name: rhs.TableName, DShape: rhs.Shape}
	rebound := expr.Substitute(e, map[*expr.Symbol]*expr.Symbol{
		leaves[0]: freshL,
		leaves[1]: freshR,
	})

	frag, err := New().
		Bind(freshL, lhs.QSymbol()).
		Bind(freshR, rhs.QSymbol()).
		Translate(rebound)
	if err != nil {
		return resource.Rows{}, err
	}
	return lhs.Eval(ctx, frag)
}
