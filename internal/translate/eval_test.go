package translate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querylab/qbridge/internal/expr"
	"github.com/querylab/qbridge/internal/resource"
)

type fakeSession struct {
	queries []string
	rows    resource.Rows
}

func (s *fakeSession) Eval(ctx context.Context, query string) (resource.Rows, error) {
	s.queries = append(s.queries, query)
	return s.rows, nil
}

func (s *fakeSession) Close() error { return nil }

func liveTable(name string, partitioned, splayed bool) (*resource.QTable, *fakeSession) {
	sess := &fakeSession{rows: resource.Rows{
		Columns: []string{"name"},
		Records: [][]any{{"Alice"}},
	}}
	b := resource.Binding{Table: name, Partitioned: partitioned, Splayed: splayed}
	return resource.NewQTable(b, accountsShape(), sess), sess
}

func TestEvalRebindsLeafToLiveTable(t *testing.T) {
	// The tree was built against a logical name; evaluation resolves it
	// against the live table's name.
	leaf := &expr.Symbol{Name: "accounts", DShape: accountsShape()}
	table, sess := liveTable("t", false, false)

	rows, err := Eval(context.Background(), filtered(leaf), table)
	require.NoError(t, err)

	require.Len(t, sess.queries, 1)
	assert.Equal(t, "?[`t; (((>; `t.balance; 150))); 0b; ()]", sess.queries[0])
	assert.Equal(t, []string{"name"}, rows.Columns)
	assert.Equal(t, [][]any{{"Alice"}}, rows.Records)
}

func TestEvalFieldOnPlainTable(t *testing.T) {
	leaf := &expr.Symbol{Name: "accounts", DShape: accountsShape()}
	table, sess := liveTable("t", false, false)

	_, err := Eval(context.Background(), &expr.Field{Child: leaf, Name: "name"}, table)
	require.NoError(t, err)
	require.Len(t, sess.queries, 1)
	assert.Equal(t, "`t.name", sess.queries[0])
}

func TestEvalFieldOnSplayedTableProjects(t *testing.T) {
	// A bare column fetch is not valid against splayed or partitioned
	// layouts; the field goes through a single-column projection.
	leaf := &expr.Symbol{Name: "accounts", DShape: accountsShape()}
	table, sess := liveTable("t", false, true)

	_, err := Eval(context.Background(), &expr.Field{Child: leaf, Name: "name"}, table)
	require.NoError(t, err)
	require.Len(t, sess.queries, 1)
	assert.Equal(t, "?[`t; (); 0b; (`name)!(`name)]", sess.queries[0])
}

func TestEvalFieldOnPartitionedTableProjects(t *testing.T) {
	leaf := &expr.Symbol{Name: "accounts", DShape: accountsShape()}
	table, sess := liveTable("t", true, false)

	_, err := Eval(context.Background(), &expr.Field{Child: leaf, Name: "name"}, table)
	require.NoError(t, err)
	require.Len(t, sess.queries, 1)
	assert.Equal(t, "?[`t; (); 0b; (`name)!(`name)]", sess.queries[0])
}

func TestEvalRequiresExactlyOneLeaf(t *testing.T) {
	l := &expr.Symbol{Name: "t1", DShape: accountsShape()}
	r := &expr.Symbol{Name: "t2", DShape: accountsShape()}
	j := &expr.Join{LHS: l, RHS: r, How: "inner", OnLeft: []string{"name"}, OnRight: []string{"name"}}

	table, _ := liveTable("t", false, false)
	_, err := Eval(context.Background(), j, table)

	var terr *Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, CodeUnsupportedOperation, terr.Code)
}

func TestEval2JoinRunsOnLeftSession(t *testing.T) {
	shape := expr.Record(
		expr.Column{Name: "id", Type: expr.KindInt64},
		expr.Column{Name: "x", Type: expr.KindFloat64},
	)
	l := &expr.Symbol{Name: "left", DShape: shape}
	r := &expr.Symbol{Name: "right", DShape: shape}
	j := &expr.Join{LHS: l, RHS: r, How: "inner", OnLeft: []string{"id"}, OnRight: []string{"id"}}

	lsess := &fakeSession{}
	rsess := &fakeSession{}
	lhs := resource.NewQTable(resource.Binding{Table: "t1"}, shape, lsess)
	rhs := resource.NewQTable(resource.Binding{Table: "t2"}, shape, rsess)

	_, err := Eval2(context.Background(), j, lhs, rhs)
	require.NoError(t, err)

	require.Len(t, lsess.queries, 1)
	assert.Equal(t, "(ej; (`id); `t1; `t2)", lsess.queries[0])
	assert.Empty(t, rsess.queries)
}

func TestEval2RequiresExactlyTwoLeaves(t *testing.T) {
	leaf := &expr.Symbol{Name: "accounts", DShape: accountsShape()}
	lhs, _ := liveTable("t1", false, false)
	rhs, _ := liveTable("t2", false, false)

	_, err := Eval2(context.Background(), filtered(leaf), lhs, rhs)

	var terr *Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, CodeUnsupportedOperation, terr.Code)
}
