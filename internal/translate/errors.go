package translate

import (
	"fmt"

	"github.com/querylab/qbridge/internal/expr"
)

// Code categorizes translation errors.
type Code string

const (
	// CodeUnsupportedOperation indicates a node kind or parameter
	// combination the q backend has no rule for: non-leading-axis
	// reductions and counts, non-inner joins, joins on differently
	// named columns, multi-dimensional slices.
	CodeUnsupportedOperation Code = "UNSUPPORTED_OPERATION"

	// CodeUnsupportedLiteral indicates a host value that cannot be
	// coerced to a q literal.
	CodeUnsupportedLiteral Code = "UNSUPPORTED_LITERAL"

	// CodeUnboundLeaf indicates a leaf symbol with no table binding in
	// the translation scope.
	CodeUnboundLeaf Code = "UNBOUND_LEAF"
)

// Error is a translation failure. It identifies the offending
// expression node; translation is deterministic and side-effect free,
// so errors are raised synchronously and never retried.
type Error struct {
	Code    Code
	Message string
	Node    expr.Node
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Node != nil {
		return fmt.Sprintf("%s: %s (node=%T)", e.Code, e.Message, e.Node)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func unsupportedf(n expr.Node, format string, args ...any) *Error {
	return &Error{Code: CodeUnsupportedOperation, Message: fmt.Sprintf(format, args...), Node: n}
}

func unboundf(n expr.Node, format string, args ...any) *Error {
	return &Error{Code: CodeUnboundLeaf, Message: fmt.Sprintf(format, args...), Node: n}
}
