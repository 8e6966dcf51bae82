package sqlcrepo

import (
	"fmt"
	"strings"

	"catalog-service/internal/domain"
	"catalog-service/internal/specification"
)

type column struct {
	name string
	kind specification.Kind
}

var productColumns = map[specification.Field]column{
	domain.FieldName:        {"name", specification.KindText},
	domain.FieldDescription: {"description", specification.KindText},
	domain.FieldPrice:       {"price", specification.KindDecimal},
	domain.FieldWeight:      {"weight", specification.KindDecimal},
}

// Query is a translated specification: SQL fragments plus their bound
// arguments in placeholder order.
type Query struct {
	Where   string
	OrderBy string
	Limit   string
	Args    []any
}

type translator struct {
	dialect Dialect
	args    []any
}

func (t *translator) bind(v any) string {
	t.args = append(t.args, v)
	return t.dialect.placeholder(len(t.args))
}

// Translate renders the criteria, order and paging of spec. The insertion
// sequence is always the final sort key.
func Translate(spec domain.ProductSpec, d Dialect) (Query, error) {
	t := &translator{dialect: d}

	where, err := t.criteria(spec.Criteria())
	if err != nil {
		return Query{}, err
	}

	orderBy := "ORDER BY seq ASC"
	if field, desc, ok := spec.Sort(); ok {
		col, ok := productColumns[field]
		if !ok {
			return Query{}, fmt.Errorf("%w: %s", specification.ErrUnknownField, field)
		}
		expr := col.name
		if col.kind == specification.KindText {
			expr += " COLLATE " + d.textCollation
		}
		dir := "ASC"
		if desc {
			dir = "DESC"
		}
		orderBy = fmt.Sprintf("ORDER BY %s %s, seq ASC", expr, dir)
	}

	var limit string
	if spec.IsPagingEnabled() {
		limit = fmt.Sprintf("LIMIT %s OFFSET %s", t.bind(spec.Take()), t.bind(spec.Skip()))
	}

	return Query{Where: where, OrderBy: orderBy, Limit: limit, Args: t.args}, nil
}

// TranslateCriteria renders only the filter, for counting.
func TranslateCriteria(criteria specification.Criteria, d Dialect) (string, []any, error) {
	t := &translator{dialect: d}
	where, err := t.criteria(criteria)
	return where, t.args, err
}

func (t *translator) criteria(c specification.Criteria) (string, error) {
	if c.IsEmpty() {
		return "", nil
	}
	conjuncts := make([]string, 0, len(c))
	for _, group := range c {
		disjuncts := make([]string, 0, len(group))
		for _, cl := range group {
			sql, err := t.clause(cl)
			if err != nil {
				return "", err
			}
			disjuncts = append(disjuncts, sql)
		}
		if len(disjuncts) == 1 {
			conjuncts = append(conjuncts, disjuncts[0])
		} else {
			conjuncts = append(conjuncts, "("+strings.Join(disjuncts, " OR ")+")")
		}
	}
	return "WHERE " + strings.Join(conjuncts, " AND "), nil
}

func (t *translator) clause(cl specification.Clause) (string, error) {
	col, ok := productColumns[cl.Field]
	if !ok {
		return "", fmt.Errorf("%w: %s", specification.ErrUnknownField, cl.Field)
	}
	if col.kind != cl.Value.Kind() {
		return "", fmt.Errorf("%w: %s", specification.ErrKindMismatch, cl.Field)
	}

	if cl.Op == specification.OpContains {
		if col.kind != specification.KindText {
			return "", fmt.Errorf("%w: %s on %s", specification.ErrUnsupportedOp, cl.Op, cl.Field)
		}
		pattern := "%" + escapeLike(strings.ToLower(cl.Value.Text())) + "%"
		return fmt.Sprintf(`LOWER(%s) LIKE %s ESCAPE '\'`, col.name, t.bind(pattern)), nil
	}

	var op string
	switch cl.Op {
	case specification.OpEq:
		op = "="
	case specification.OpGt:
		op = ">"
	case specification.OpGte:
		op = ">="
	case specification.OpLt:
		op = "<"
	case specification.OpLte:
		op = "<="
	default:
		return "", fmt.Errorf("%w: %s", specification.ErrUnsupportedOp, cl.Op)
	}

	expr := col.name
	var arg any
	if col.kind == specification.KindDecimal {
		arg = t.dialect.bindDecimal(cl.Value.Decimal())
	} else {
		expr += " COLLATE " + t.dialect.textCollation
		arg = cl.Value.Text()
	}
	return fmt.Sprintf("%s %s %s", expr, op, t.bind(arg)), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
