package queryfile

// Document describes a table binding and a pipeline of operations over
// it. The same shape is accepted from CUE (json tags) and from harness
// scenario YAML (yaml tags).
type Document struct {
	Table    TableSpec `json:"table" yaml:"table"`
	Pipeline []OpSpec  `json:"pipeline" yaml:"pipeline"`
}

// TableSpec declares the logical table the pipeline starts from.
type TableSpec struct {
	Name        string       `json:"name" yaml:"name"`
	URI         string       `json:"uri,omitempty" yaml:"uri,omitempty"`
	Partitioned bool         `json:"partitioned,omitempty" yaml:"partitioned,omitempty"`
	Splayed     bool         `json:"splayed,omitempty" yaml:"splayed,omitempty"`
	Columns     []ColumnSpec `json:"columns" yaml:"columns"`
}

// ColumnSpec is one typed column of the table.
type ColumnSpec struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// OpSpec is one pipeline operation. Op selects the kind; the remaining
// fields are kind-specific and validated during compilation.
type OpSpec struct {
	Op string `json:"op" yaml:"op"`

	// filter
	Field string `json:"field,omitempty" yaml:"field,omitempty"`
	Cmp   string `json:"cmp,omitempty" yaml:"cmp,omitempty"`
	Value any    `json:"value,omitempty" yaml:"value,omitempty"`

	// project
	Fields []string `json:"fields,omitempty" yaml:"fields,omitempty"`

	// sort
	Key       string `json:"key,omitempty" yaml:"key,omitempty"`
	Ascending *bool  `json:"ascending,omitempty" yaml:"ascending,omitempty"`

	// head
	N int64 `json:"n,omitempty" yaml:"n,omitempty"`

	// slice
	Start *int64 `json:"start,omitempty" yaml:"start,omitempty"`
	Stop  *int64 `json:"stop,omitempty" yaml:"stop,omitempty"`
	Index *int64 `json:"index,omitempty" yaml:"index,omitempty"`

	// group / summary
	By   string    `json:"by,omitempty" yaml:"by,omitempty"`
	Aggs []AggSpec `json:"aggs,omitempty" yaml:"aggs,omitempty"`

	// part
	Part string `json:"part,omitempty" yaml:"part,omitempty"`
}

// AggSpec names one aggregate: output name, reduction operator, input
// field.
type AggSpec struct {
	Name  string `json:"name" yaml:"name"`
	Op    string `json:"op" yaml:"op"`
	Field string `json:"field" yaml:"field"`
}
