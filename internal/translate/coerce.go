package translate

import (
	"time"

	"github.com/araddon/dateparse"

	"github.com/querylab/qbridge/internal/q"
)

// Coerce converts a host literal into a q AST value.
//
// Strings are first tried as timestamp literals; on failure they become
// a one-element symbol list, q's rendering of a bare symbol atom. Dates
// and datetimes use q's fixed-width literal grammar, and a datetime
// whose time of day is exactly midnight narrows to a date literal:
// q treats the two as distinct types with different comparison
// semantics.
func Coerce(value any) (q.Expr, error) {
	switch v := value.(type) {
	case q.Expr:
		return v, nil
	case string:
		ts, err := dateparse.ParseAny(v)
		if err != nil {
			return q.NewList(q.NewSymbol(v)), nil
		}
		return timeAtom(ts), nil
	case time.Time:
		return timeAtom(v), nil
	case int:
		return q.Int(int64(v)), nil
	case int64:
		return q.Int(v), nil
	case float64:
		return q.Float(v), nil
	case bool:
		return q.Bool(v), nil
	default:
		return nil, &Error{Code: CodeUnsupportedLiteral, Message: "no q literal form for value"}
	}
}

// timeAtom renders a timestamp in q literal grammar, narrowing
// midnight datetimes to bare date literals.
func timeAtom(t time.Time) q.Atom {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return q.Atom{S: t.Format("2006.01.02")}
	}
	return q.Atom{S: t.Format("2006.01.02D15:04:05.000000") + "000"}
}
