// Package expr supplies a narrow predicate evaluator for record manager
// scans. It deliberately does not implement a general expression language:
// recordmgr.Scan only ever invokes it through the narrow Predicate
// interface, and AttrCompare is the minimal concrete Predicate needed to
// exercise and test scans.
package expr

import (
	"fmt"

	"github.com/ajoshi/pagestore/internal/record"
	"github.com/ajoshi/pagestore/internal/recordmgr"
)

// CompareOp is one of the six relational operators AttrCompare supports.
type CompareOp int

const (
	Eq CompareOp = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

// ErrUnsupportedCompare is returned when an operator/type combination has
// no defined ordering (e.g. Lt on BOOL).
var ErrUnsupportedCompare = fmt.Errorf("expr: unsupported comparison")

// AttrCompare evaluates `attrIndex <op> literal` against a record,
// implementing recordmgr.Predicate. It stands in for the fuller expression
// evaluator a real query layer would supply, so the record manager can be
// exercised and tested independently of one.
type AttrCompare struct {
	AttrIndex int
	Op        CompareOp
	Literal   record.Value
}

// Eval implements recordmgr.Predicate.
func (c AttrCompare) Eval(r *recordmgr.Record, schema *record.Schema) (record.Value, error) {
	actual, err := r.GetAttr(c.AttrIndex)
	if err != nil {
		return record.Value{}, err
	}
	if actual.Type != c.Literal.Type {
		return record.Value{}, fmt.Errorf("%w: attribute type %v vs literal type %v", ErrUnsupportedCompare, actual.Type, c.Literal.Type)
	}
	if actual.Type == record.Bool && c.Op != Eq && c.Op != Ne {
		return record.Value{}, fmt.Errorf("%w: operator %d on BOOL", ErrUnsupportedCompare, c.Op)
	}

	cmp, err := compare(actual, c.Literal)
	if err != nil {
		return record.Value{}, err
	}

	var result bool
	switch c.Op {
	case Eq:
		result = cmp == 0
	case Ne:
		result = cmp != 0
	case Lt:
		result = cmp < 0
	case Le:
		result = cmp <= 0
	case Gt:
		result = cmp > 0
	case Ge:
		result = cmp >= 0
	default:
		return record.Value{}, fmt.Errorf("%w: operator %d", ErrUnsupportedCompare, c.Op)
	}
	return record.BoolValue(result), nil
}

// compare returns -1/0/1 the way bytes.Compare does. BOOL only supports
// equality (spec leaves ordering on booleans undefined); Eq/Ne still work
// since they only check cmp == 0.
func compare(a, b record.Value) (int, error) {
	switch a.Type {
	case record.Int:
		return sign(int64(a.IntV) - int64(b.IntV)), nil
	case record.Float:
		switch {
		case a.FloatV < b.FloatV:
			return -1, nil
		case a.FloatV > b.FloatV:
			return 1, nil
		default:
			return 0, nil
		}
	case record.Bool:
		if a.BoolV == b.BoolV {
			return 0, nil
		}
		if a.BoolV {
			return 1, nil
		}
		return -1, nil
	case record.String:
		switch {
		case a.StringV < b.StringV:
			return -1, nil
		case a.StringV > b.StringV:
			return 1, nil
		default:
			return 0, nil
		}
	default:
		return 0, fmt.Errorf("%w: data type %v", ErrUnsupportedCompare, a.Type)
	}
}

func sign(n int64) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
