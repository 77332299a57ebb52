package resource

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querylab/qbridge/internal/expr"
	"github.com/querylab/qbridge/internal/q"
)

type recordingSession struct {
	queries []string
	rows    Rows
	err     error
	closed  bool
}

func (s *recordingSession) Eval(ctx context.Context, query string) (Rows, error) {
	s.queries = append(s.queries, query)
	return s.rows, s.err
}

func (s *recordingSession) Close() error {
	s.closed = true
	return nil
}

func tradesShape() expr.DShape {
	return expr.Record(
		expr.Column{Name: "sym", Type: expr.KindString},
		expr.Column{Name: "price", Type: expr.KindFloat64},
	)
}

func TestNewQTableSymbol(t *testing.T) {
	b := Binding{Table: "trades", Partitioned: true}
	table := NewQTable(b, tradesShape(), &recordingSession{})

	sym := table.QSymbol()
	assert.Equal(t, "trades", sym.Name)
	assert.Equal(t, []string{"sym", "price"}, sym.Fields)
	assert.True(t, sym.IsPartitioned)
	assert.False(t, sym.IsSplayed)
	assert.NotEmpty(t, table.ID)
}

func TestQTableEvalSendsRenderedFragment(t *testing.T) {
	sess := &recordingSession{rows: Rows{Columns: []string{"sym"}, Records: [][]any{{"aapl"}}}}
	table := NewQTable(Binding{Table: "trades"}, tradesShape(), sess)

	frag := q.Count(q.NewSymbol("trades"))
	rows, err := table.Eval(context.Background(), frag)
	require.NoError(t, err)

	require.Len(t, sess.queries, 1)
	assert.Equal(t, "(count; `trades)", sess.queries[0])
	assert.Equal(t, []string{"sym"}, rows.Columns)
}

func TestQTableEvalWrapsSessionError(t *testing.T) {
	sess := &recordingSession{err: errors.New("connection reset")}
	table := NewQTable(Binding{Table: "trades"}, tradesShape(), sess)

	_, err := table.Eval(context.Background(), q.NewSymbol("trades"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trades")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestQTableInto(t *testing.T) {
	sess := &recordingSession{rows: Rows{Columns: []string{"sym", "price"}}}
	table := NewQTable(Binding{Table: "trades"}, tradesShape(), sess)

	rows, err := table.Into(context.Background())
	require.NoError(t, err)

	// Materialization evaluates the bare table name, no backtick.
	require.Len(t, sess.queries, 1)
	assert.Equal(t, "trades", sess.queries[0])
	assert.Equal(t, []string{"sym", "price"}, rows.Columns)
}

func TestQTableClose(t *testing.T) {
	sess := &recordingSession{}
	table := NewQTable(Binding{Table: "trades"}, tradesShape(), sess)

	require.NoError(t, table.Close())
	assert.True(t, sess.closed)
}
