package resource

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/querylab/qbridge/internal/expr"
	"github.com/querylab/qbridge/internal/q"
)

// Rows is the minimal tabular result shape the core needs back from a
// session: column names plus row-major records. Richer materialization
// belongs to callers.
type Rows struct {
	Columns []string
	Records [][]any
}

// Session is the wire collaborator: it serializes nothing and retries
// nothing, it just evaluates rendered q text on a live connection.
type Session interface {
	Eval(ctx context.Context, query string) (Rows, error)
	Close() error
}

// QTable is a live table handle. It owns the one q Symbol created for
// this binding; translated fragments reference that symbol, they never
// copy it.
type QTable struct {
	// ID tags this handle for diagnostics. Handles are per-connection,
	// so the tag is unique per live binding.
	ID string

	TableName string
	Shape     expr.DShape

	sym  *q.Symbol
	sess Session
}

// NewQTable builds a handle over an established session.
func NewQTable(b Binding, shape expr.DShape, sess Session) *QTable {
	return &QTable{
		ID:        uuid.NewString(),
		TableName: b.Table,
		Shape:     shape,
		sym:       q.NewTableSymbol(b.Table, shape.FieldNames(), b.Partitioned, b.Splayed),
		sess:      sess,
	}
}

// QSymbol returns the table's q symbol with its layout flags.
func (t *QTable) QSymbol() *q.Symbol { return t.sym }

// Eval renders the fragment and evaluates it remotely.
func (t *QTable) Eval(ctx context.Context, frag q.Expr) (Rows, error) {
	rows, err := t.sess.Eval(ctx, frag.String())
	if err != nil {
		return Rows{}, fmt.Errorf("eval on table %s (handle %s): %w", t.TableName, t.ID, err)
	}
	return rows, nil
}

// Into materializes the whole table by evaluating its bare name.
func (t *QTable) Into(ctx context.Context) (Rows, error) {
	rows, err := t.sess.Eval(ctx, t.TableName)
	if err != nil {
		return Rows{}, fmt.Errorf("materialize table %s (handle %s): %w", t.TableName, t.ID, err)
	}
	return rows, nil
}

// Close releases the underlying session.
func (t *QTable) Close() error { return t.sess.Close() }
