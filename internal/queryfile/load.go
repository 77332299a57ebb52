package queryfile

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/token"
	"golang.org/x/text/unicode/norm"
)

//go:embed schema.cue
var schemaCUE string

// CompileError is a query document failure with the CUE position when
// one is available.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Field, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// LoadFile reads, validates and decodes one CUE query document.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read query document: %w", err)
	}
	return LoadBytes(data, path)
}

// LoadBytes validates and decodes a CUE query document. filename is
// used for error positions only.
func LoadBytes(data []byte, filename string) (*Document, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile embedded schema: %w", err)
	}
	docSchema := schema.LookupPath(cue.ParsePath("#Document"))

	v := ctx.CompileString(string(data), cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, &CompileError{Message: err.Error(), Pos: v.Pos()}
	}

	unified := docSchema.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, &CompileError{Message: err.Error(), Pos: unified.Pos()}
	}

	doc := &Document{}
	if err := unified.Decode(doc); err != nil {
		return nil, &CompileError{Message: err.Error(), Pos: unified.Pos()}
	}

	normalizeDocument(doc)
	return doc, nil
}

// normalizeDocument NFC-normalizes every identifier in the document so
// that visually identical names from different sources compare equal.
func normalizeDocument(doc *Document) {
	doc.Table.Name = norm.NFC.String(doc.Table.Name)
	for i := range doc.Table.Columns {
		doc.Table.Columns[i].Name = norm.NFC.String(doc.Table.Columns[i].Name)
	}
	for i := range doc.Pipeline {
		op := &doc.Pipeline[i]
		op.Field = norm.NFC.String(op.Field)
		op.Key = norm.NFC.String(op.Key)
		op.By = norm.NFC.String(op.By)
		for j := range op.Fields {
			op.Fields[j] = norm.NFC.String(op.Fields[j])
		}
		for j := range op.Aggs {
			op.Aggs[j].Name = norm.NFC.String(op.Aggs[j].Name)
			op.Aggs[j].Field = norm.NFC.String(op.Aggs[j].Field)
		}
	}
}
