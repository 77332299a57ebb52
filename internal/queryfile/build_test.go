package queryfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querylab/qbridge/internal/expr"
)

func accountsDoc(ops ...OpSpec) *Document {
	return &Document{
		Table: TableSpec{
			Name: "t",
			Columns: []ColumnSpec{
				{Name: "name", Type: "string"},
				{Name: "balance", Type: "int64"},
				{Name: "ts", Type: "datetime"},
			},
		},
		Pipeline: ops,
	}
}

func TestBuildLeafShape(t *testing.T) {
	root, leaf, err := Build(accountsDoc())
	require.NoError(t, err)
	require.Same(t, expr.Node(leaf), root)

	assert.Equal(t, "t", leaf.Name)
	assert.Equal(t, []string{"name", "balance", "ts"}, leaf.DShape.FieldNames())

	c, ok := leaf.DShape.Column("ts")
	require.True(t, ok)
	assert.Equal(t, expr.KindDateTime, c.Type)
}

func TestBuildFilter(t *testing.T) {
	root, leaf, err := Build(accountsDoc(
		OpSpec{Op: "filter", Field: "balance", Cmp: ">", Value: 150},
	))
	require.NoError(t, err)

	sel, ok := root.(*expr.Selection)
	require.True(t, ok)
	assert.Same(t, leaf, sel.Child)

	pred, ok := sel.Predicate.(*expr.BinOp)
	require.True(t, ok)
	assert.Equal(t, ">", pred.Op)
	assert.Equal(t, "balance", pred.LHS.(*expr.Field).Name)
	assert.Equal(t, 150, pred.RHS.(*expr.Lit).Value)
}

func TestBuildProjectAndField(t *testing.T) {
	root, _, err := Build(accountsDoc(
		OpSpec{Op: "project", Fields: []string{"name", "balance"}},
	))
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "balance"}, root.(*expr.Projection).Fields)

	root, _, err = Build(accountsDoc(OpSpec{Op: "field", Field: "balance"}))
	require.NoError(t, err)
	assert.Equal(t, "balance", root.(*expr.Field).Name)
}

func TestBuildSortDefaultsAscending(t *testing.T) {
	root, _, err := Build(accountsDoc(OpSpec{Op: "sort", Key: "name"}))
	require.NoError(t, err)

	sort := root.(*expr.Sort)
	assert.Equal(t, "name", sort.Key)
	assert.True(t, sort.Ascending)

	desc := false
	root, _, err = Build(accountsDoc(OpSpec{Op: "sort", Key: "name", Ascending: &desc}))
	require.NoError(t, err)
	assert.False(t, root.(*expr.Sort).Ascending)
}

func TestBuildHeadDistinctCount(t *testing.T) {
	root, _, err := Build(accountsDoc(OpSpec{Op: "head", N: 10}))
	require.NoError(t, err)
	assert.Equal(t, int64(10), root.(*expr.Head).N)

	root, _, err = Build(accountsDoc(OpSpec{Op: "distinct"}))
	require.NoError(t, err)
	_, ok := root.(*expr.Distinct)
	assert.True(t, ok)

	root, _, err = Build(accountsDoc(OpSpec{Op: "count"}))
	require.NoError(t, err)
	assert.Equal(t, []int{0}, root.(*expr.NRows).Axis)
}

func TestBuildSliceForms(t *testing.T) {
	start, stop := int64(2), int64(5)
	root, _, err := Build(accountsDoc(OpSpec{Op: "slice", Start: &start, Stop: &stop}))
	require.NoError(t, err)

	slice := root.(*expr.Slice)
	require.Len(t, slice.Index, 1)
	span := slice.Index[0].(expr.Span)
	assert.Equal(t, int64(2), *span.Start)
	assert.Equal(t, int64(5), *span.Stop)

	idx := int64(3)
	root, _, err = Build(accountsDoc(OpSpec{Op: "slice", Index: &idx}))
	require.NoError(t, err)
	at := root.(*expr.Slice).Index[0].(expr.At)
	assert.Equal(t, int64(3), at.I)
}

func TestBuildSliceRejectsMixedForms(t *testing.T) {
	start, idx := int64(2), int64(3)
	_, _, err := Build(accountsDoc(OpSpec{Op: "slice", Start: &start, Index: &idx}))

	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "pipeline[0]", cerr.Field)
}

func TestBuildGroup(t *testing.T) {
	root, leaf, err := Build(accountsDoc(OpSpec{
		Op: "group",
		By: "name",
		Aggs: []AggSpec{
			{Name: "total", Op: "sum", Field: "balance"},
		},
	}))
	require.NoError(t, err)

	by := root.(*expr.By)
	assert.Same(t, expr.Node(leaf), by.Child)
	assert.Equal(t, "name", by.Grouper.(*expr.Field).Name)

	summary := by.Apply.(*expr.Summary)
	assert.Equal(t, []string{"total"}, summary.Names)
	red := summary.Aggs[0].(*expr.Reduction)
	assert.Equal(t, "sum", red.Op)
	assert.Equal(t, "balance", red.Child.(*expr.Field).Name)
	assert.Equal(t, []int{0}, red.Axis)
}

func TestBuildSummary(t *testing.T) {
	root, _, err := Build(accountsDoc(OpSpec{
		Op: "summary",
		Aggs: []AggSpec{
			{Name: "total", Op: "sum", Field: "balance"},
			{Name: "n", Op: "count", Field: "name"},
		},
	}))
	require.NoError(t, err)

	summary := root.(*expr.Summary)
	assert.Equal(t, []string{"total", "n"}, summary.Names)
	require.Len(t, summary.Aggs, 2)
}

func TestBuildPart(t *testing.T) {
	root, _, err := Build(accountsDoc(
		OpSpec{Op: "field", Field: "ts"},
		OpSpec{Op: "part", Part: "minute"},
	))
	require.NoError(t, err)

	part := root.(*expr.DateTimePart)
	assert.Equal(t, "minute", part.Part)
	assert.Equal(t, "ts", part.Child.(*expr.Field).Name)
}

func TestBuildValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		op   OpSpec
	}{
		{"filter without cmp", OpSpec{Op: "filter", Field: "balance"}},
		{"project without fields", OpSpec{Op: "project"}},
		{"field without name", OpSpec{Op: "field"}},
		{"sort without key", OpSpec{Op: "sort"}},
		{"group without by", OpSpec{Op: "group", Aggs: []AggSpec{{Name: "n", Op: "count", Field: "name"}}}},
		{"group without aggs", OpSpec{Op: "group", By: "name"}},
		{"summary without aggs", OpSpec{Op: "summary"}},
		{"incomplete agg", OpSpec{Op: "summary", Aggs: []AggSpec{{Name: "n"}}}},
		{"part without name", OpSpec{Op: "part"}},
		{"unknown op", OpSpec{Op: "explode"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Build(accountsDoc(tt.op))
			var cerr *CompileError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, "pipeline[0]", cerr.Field)
		})
	}
}

func TestBuildUnknownColumnType(t *testing.T) {
	doc := &Document{Table: TableSpec{
		Name:    "t",
		Columns: []ColumnSpec{{Name: "x", Type: "varchar"}},
	}}

	_, _, err := Build(doc)
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "table.columns", cerr.Field)
}

func TestBuildPipelineChains(t *testing.T) {
	root, _, err := Build(accountsDoc(
		OpSpec{Op: "filter", Field: "balance", Cmp: ">", Value: 150},
		OpSpec{Op: "project", Fields: []string{"name"}},
		OpSpec{Op: "head", N: 5},
	))
	require.NoError(t, err)

	head := root.(*expr.Head)
	proj := head.Child.(*expr.Projection)
	_, ok := proj.Child.(*expr.Selection)
	assert.True(t, ok)
}
