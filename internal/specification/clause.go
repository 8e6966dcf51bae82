package specification

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownField  = errors.New("specification: unknown field")
	ErrKindMismatch  = errors.New("specification: value kind does not match field")
	ErrUnsupportedOp = errors.New("specification: operator not supported for value kind")
)

// Field names an attribute of the entity a specification targets.
type Field string

// Op is a clause comparator.
type Op int

const (
	OpEq Op = iota
	OpGt
	OpGte
	OpLt
	OpLte
	// OpContains is a case-insensitive substring match on text values.
	OpContains
)

func (o Op) String() string {
	switch o {
	case OpEq:
		return "eq"
	case OpGt:
		return "gt"
	case OpGte:
		return "gte"
	case OpLt:
		return "lt"
	case OpLte:
		return "lte"
	case OpContains:
		return "contains"
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// Kind tags the payload carried by a Value.
type Kind int

const (
	KindDecimal Kind = iota
	KindText
)

// Value is a tagged variant holding either a decimal or a text payload.
type Value struct {
	kind Kind
	dec  decimal.Decimal
	text string
}

func Decimal(d decimal.Decimal) Value { return Value{kind: KindDecimal, dec: d} }

func Text(s string) Value { return Value{kind: KindText, text: s} }

func (v Value) Kind() Kind               { return v.kind }
func (v Value) Decimal() decimal.Decimal { return v.dec }
func (v Value) Text() string             { return v.text }

func (v Value) String() string {
	if v.kind == KindDecimal {
		return v.dec.String()
	}
	return v.text
}

// Compare orders two values of the same kind. Text is compared bytewise.
func (v Value) Compare(o Value) (int, error) {
	if v.kind != o.kind {
		return 0, ErrKindMismatch
	}
	if v.kind == KindDecimal {
		return v.dec.Cmp(o.dec), nil
	}
	return strings.Compare(v.text, o.text), nil
}

// Clause is a single comparison of an entity field against a constant.
type Clause struct {
	Field Field
	Op    Op
	Value Value
}

func Eq(f Field, v Value) Clause  { return Clause{Field: f, Op: OpEq, Value: v} }
func Gt(f Field, v Value) Clause  { return Clause{Field: f, Op: OpGt, Value: v} }
func Gte(f Field, v Value) Clause { return Clause{Field: f, Op: OpGte, Value: v} }
func Lt(f Field, v Value) Clause  { return Clause{Field: f, Op: OpLt, Value: v} }
func Lte(f Field, v Value) Clause { return Clause{Field: f, Op: OpLte, Value: v} }

func Contains(f Field, term string) Clause {
	return Clause{Field: f, Op: OpContains, Value: Text(term)}
}

// Test reports whether the field value got satisfies the clause.
func (c Clause) Test(got Value) (bool, error) {
	if got.kind != c.Value.kind {
		return false, fmt.Errorf("%w: %s", ErrKindMismatch, c.Field)
	}
	if c.Op == OpContains {
		if got.kind != KindText {
			return false, fmt.Errorf("%w: %s on %s", ErrUnsupportedOp, c.Op, c.Field)
		}
		return strings.Contains(strings.ToLower(got.text), strings.ToLower(c.Value.text)), nil
	}

	cmp, err := got.Compare(c.Value)
	if err != nil {
		return false, err
	}
	switch c.Op {
	case OpEq:
		return cmp == 0, nil
	case OpGt:
		return cmp > 0, nil
	case OpGte:
		return cmp >= 0, nil
	case OpLt:
		return cmp < 0, nil
	case OpLte:
		return cmp <= 0, nil
	}
	return false, fmt.Errorf("%w: %s", ErrUnsupportedOp, c.Op)
}

// Group is a disjunction: it holds when any of its clauses holds.
type Group []Clause

// Criteria is a conjunction of groups. An empty Criteria matches everything.
type Criteria []Group

func (c Criteria) IsEmpty() bool { return len(c) == 0 }

// Fields lists every field referenced by the criteria, in clause order.
func (c Criteria) Fields() []Field {
	var fields []Field
	for _, g := range c {
		for _, cl := range g {
			fields = append(fields, cl.Field)
		}
	}
	return fields
}

// Record is implemented by entities that can be evaluated in memory.
type Record interface {
	FieldValue(f Field) (Value, bool)
}

// Match evaluates the criteria against a single record.
func Match[T Record](c Criteria, item T) (bool, error) {
	for _, group := range c {
		satisfied := false
		for _, cl := range group {
			got, ok := item.FieldValue(cl.Field)
			if !ok {
				return false, fmt.Errorf("%w: %s", ErrUnknownField, cl.Field)
			}
			hit, err := cl.Test(got)
			if err != nil {
				return false, err
			}
			if hit {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return false, nil
		}
	}
	return true, nil
}
