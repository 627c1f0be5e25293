package translations

import (
	"fmt"
	"strings"

	"gorm.io/gorm/clause"
)

type lookup int

const (
	lookupEq lookup = iota
	lookupNe
	lookupIn
	lookupContains
	lookupIContains
	lookupStartsWith
	lookupGt
	lookupGte
	lookupLt
	lookupLte
	lookupIsNull
)

// Cond is a predicate on a shared or translated field.
type Cond struct {
	Field  string
	lookup lookup
	value  any
}

func Eq(field string, value any) Cond  { return Cond{Field: field, lookup: lookupEq, value: value} }
func Ne(field string, value any) Cond  { return Cond{Field: field, lookup: lookupNe, value: value} }
func Gt(field string, value any) Cond  { return Cond{Field: field, lookup: lookupGt, value: value} }
func Gte(field string, value any) Cond { return Cond{Field: field, lookup: lookupGte, value: value} }
func Lt(field string, value any) Cond  { return Cond{Field: field, lookup: lookupLt, value: value} }
func Lte(field string, value any) Cond { return Cond{Field: field, lookup: lookupLte, value: value} }

// In matches any of values.
func In(field string, values ...any) Cond {
	return Cond{Field: field, lookup: lookupIn, value: values}
}

// Contains is a LIKE %s% match. Case sensitivity follows the database.
func Contains(field, s string) Cond {
	return Cond{Field: field, lookup: lookupContains, value: s}
}

// IContains is a case-insensitive Contains.
func IContains(field, s string) Cond {
	return Cond{Field: field, lookup: lookupIContains, value: s}
}

func StartsWith(field, s string) Cond {
	return Cond{Field: field, lookup: lookupStartsWith, value: s}
}

// IsNull matches NULL columns, or non-NULL ones when null is false.
func IsNull(field string, null bool) Cond {
	return Cond{Field: field, lookup: lookupIsNull, value: null}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (c Cond) expression(col clause.Column) clause.Expression {
	switch c.lookup {
	case lookupNe:
		return clause.Neq{Column: col, Value: c.value}
	case lookupGt:
		return clause.Gt{Column: col, Value: c.value}
	case lookupGte:
		return clause.Gte{Column: col, Value: c.value}
	case lookupLt:
		return clause.Lt{Column: col, Value: c.value}
	case lookupLte:
		return clause.Lte{Column: col, Value: c.value}
	case lookupIn:
		values, _ := c.value.([]any)
		return clause.IN{Column: col, Values: values}
	case lookupContains:
		return clause.Expr{SQL: `? LIKE ? ESCAPE '\'`, Vars: []any{col, "%" + likeEscaper.Replace(fmt.Sprint(c.value)) + "%"}}
	case lookupIContains:
		return clause.Expr{SQL: `LOWER(?) LIKE LOWER(?) ESCAPE '\'`, Vars: []any{col, "%" + likeEscaper.Replace(fmt.Sprint(c.value)) + "%"}}
	case lookupStartsWith:
		return clause.Expr{SQL: `? LIKE ? ESCAPE '\'`, Vars: []any{col, likeEscaper.Replace(fmt.Sprint(c.value)) + "%"}}
	case lookupIsNull:
		if null, _ := c.value.(bool); null {
			return clause.Expr{SQL: "? IS NULL", Vars: []any{col}}
		}
		return clause.Expr{SQL: "? IS NOT NULL", Vars: []any{col}}
	}
	return clause.Eq{Column: col, Value: c.value}
}
