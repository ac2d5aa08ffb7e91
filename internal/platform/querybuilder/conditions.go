package querybuilder

import (
	"strconv"
	"strings"

	"github.com/lib/pq"
)

// params collects bound arguments and hands out positional placeholders.
type params struct {
	values []any
}

func (p *params) bind(v any) string {
	p.values = append(p.values, v)
	return "$" + strconv.Itoa(len(p.values))
}

// Condition is a fragment of a WHERE clause.
type Condition interface {
	writeTo(buf *strings.Builder, p *params)
}

type eqCondition struct {
	column string
	value  any
}

func Eq(column string, value any) Condition {
	return eqCondition{column: column, value: value}
}

func (c eqCondition) writeTo(buf *strings.Builder, p *params) {
	buf.WriteString(c.column)
	buf.WriteString(" = ")
	buf.WriteString(p.bind(c.value))
}

type isNullCondition string

func IsNull(column string) Condition {
	return isNullCondition(column)
}

func (c isNullCondition) writeTo(buf *strings.Builder, _ *params) {
	buf.WriteString(string(c))
	buf.WriteString(" IS NULL")
}

type orCondition []Condition

// Or joins conditions with OR and wraps them in parentheses. An empty Or is
// false.
func Or(conditions ...Condition) Condition {
	return orCondition(conditions)
}

func (c orCondition) writeTo(buf *strings.Builder, p *params) {
	if len(c) == 0 {
		buf.WriteString(matchNothing)
		return
	}
	buf.WriteByte('(')
	writeJoined(buf, p, c, " OR ")
	buf.WriteByte(')')
}

type anyCondition struct {
	column string
	values []string
}

// AnyOf matches column against a text array bound as a single parameter.
func AnyOf(column string, values []string) Condition {
	return anyCondition{column: column, values: values}
}

func (c anyCondition) writeTo(buf *strings.Builder, p *params) {
	if len(c.values) == 0 {
		buf.WriteString(matchNothing)
		return
	}
	buf.WriteString(c.column)
	buf.WriteString(" = ANY(")
	buf.WriteString(p.bind(pq.Array(c.values)))
	buf.WriteByte(')')
}

const matchNothing = "1=0"

func writeJoined(buf *strings.Builder, p *params, conditions []Condition, sep string) {
	for i, c := range conditions {
		if i > 0 {
			buf.WriteString(sep)
		}
		c.writeTo(buf, p)
	}
}

func writeWhere(buf *strings.Builder, p *params, conditions []Condition) {
	if len(conditions) == 0 {
		return
	}
	buf.WriteString(" WHERE ")
	writeJoined(buf, p, conditions, " AND ")
}
