package translations

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// QuerySet is an immutable query over a shared model. Every method returns a
// new QuerySet; terminal methods run against the database.
//
// A QuerySet joins the translation table once, with an INNER JOIN restricted
// to a single language, as soon as it is scoped with Language or references a
// translated field. Unscoped queries resolve the language from their context
// at the first translated reference.
type QuerySet[S, T any] struct {
	m   *Manager[S, T]
	ctx context.Context

	language   string
	scoped     bool
	translated bool

	where    []clause.Expression
	filtered map[string]bool
	orders   []clause.OrderByColumn
	limit    int
	offset   int
	err      error
}

func (q *QuerySet[S, T]) clone() *QuerySet[S, T] {
	c := *q
	c.where = append([]clause.Expression(nil), q.where...)
	c.orders = append([]clause.OrderByColumn(nil), q.orders...)
	c.filtered = make(map[string]bool, len(q.filtered))
	for k, v := range q.filtered {
		c.filtered[k] = v
	}
	return &c
}

func (q *QuerySet[S, T]) withDB(db *gorm.DB) *QuerySet[S, T] {
	c := q.clone()
	c.m = q.m.WithDB(db)
	return c
}

// Language scopes the query to code, or to the ambient language of the
// query's context when code is empty. A later call replaces the scope.
func (q *QuerySet[S, T]) Language(code string) *QuerySet[S, T] {
	c := q.clone()
	if code == "" {
		code = q.m.reg.Language(q.ctx)
	}
	if err := checkLanguage(code); err != nil && c.err == nil {
		c.err = err
	}
	c.language = code
	c.scoped = true
	return c
}

// LanguageCode returns the language the query is resolved to, if any.
func (q *QuerySet[S, T]) LanguageCode() string { return q.language }

// reference marks a translated field as used, fixing the language if it is
// still open.
func (q *QuerySet[S, T]) reference(ref fieldRef) {
	if ref.kind != translatedField {
		return
	}
	if !q.scoped && q.language == "" {
		q.language = q.m.reg.Language(q.ctx)
	}
	q.translated = true
}

func (q *QuerySet[S, T]) joined() bool { return q.scoped || q.translated }

func (q *QuerySet[S, T]) column(ref fieldRef) clause.Column {
	if ref.kind == translatedField {
		return q.m.meta.rowColumn(ref.field)
	}
	return q.m.meta.sharedColumn(ref.field)
}

// Filter narrows the query with conds, all of which must hold.
func (q *QuerySet[S, T]) Filter(conds ...Cond) *QuerySet[S, T] {
	c := q.clone()
	exprs := c.conditions(conds)
	if len(exprs) > 0 {
		c.where = append(c.where, clause.And(exprs...))
	}
	return c
}

// Exclude drops rows for which all conds hold.
func (q *QuerySet[S, T]) Exclude(conds ...Cond) *QuerySet[S, T] {
	c := q.clone()
	exprs := c.conditions(conds)
	if len(exprs) > 0 {
		c.where = append(c.where, clause.Not(clause.And(exprs...)))
	}
	return c
}

func (q *QuerySet[S, T]) conditions(conds []Cond) []clause.Expression {
	exprs := make([]clause.Expression, 0, len(conds))
	var unknown []string
	for _, cond := range conds {
		ref, ok := q.m.meta.resolve(cond.Field)
		if !ok {
			unknown = append(unknown, cond.Field)
			continue
		}
		q.reference(ref)
		col := q.column(ref)
		q.filtered[col.Table+"."+col.Name] = true
		exprs = append(exprs, cond.expression(col))
	}
	if len(unknown) > 0 && q.err == nil {
		q.err = unknownFieldsError(q.m.meta.Name, unknown)
	}
	return exprs
}

// OrderBy sorts by fields; a leading "-" sorts descending.
func (q *QuerySet[S, T]) OrderBy(fields ...string) *QuerySet[S, T] {
	c := q.clone()
	for _, f := range fields {
		desc := strings.HasPrefix(f, "-")
		name := strings.TrimPrefix(f, "-")
		ref, ok := c.m.meta.resolve(name)
		if !ok {
			if c.err == nil {
				c.err = unknownFieldsError(c.m.meta.Name, []string{name})
			}
			continue
		}
		c.reference(ref)
		c.orders = append(c.orders, clause.OrderByColumn{Column: c.column(ref), Desc: desc})
	}
	return c
}

// Limit caps the number of rows.
func (q *QuerySet[S, T]) Limit(n int) *QuerySet[S, T] {
	c := q.clone()
	c.limit = n
	return c
}

// Offset skips n rows.
func (q *QuerySet[S, T]) Offset(n int) *QuerySet[S, T] {
	c := q.clone()
	c.offset = n
	return c
}

func (q *QuerySet[S, T]) sliced() bool { return q.limit > 0 || q.offset > 0 }

// base is the FROM/JOIN/WHERE part of the query.
func (q *QuerySet[S, T]) base() *gorm.DB {
	db := q.m.db.WithContext(q.ctx).Model(new(S))
	if q.joined() {
		meta := q.m.meta
		pk := meta.sharedPK().DBName
		join := fmt.Sprintf("INNER JOIN %s ON %s = %s AND %s = ?",
			db.Statement.Quote(meta.Translations.Table),
			meta.quote(db, meta.Translations.Table, "master_id"),
			meta.quote(db, meta.Shared.Table, pk),
			meta.quote(db, meta.Translations.Table, "language_code"))
		db = db.Joins(join, q.language)
	}
	if len(q.where) > 0 {
		db = db.Clauses(clause.Where{Exprs: q.where})
	}
	return db
}

func (q *QuerySet[S, T]) window(db *gorm.DB) *gorm.DB {
	for _, o := range q.orders {
		db = db.Order(o)
	}
	if q.limit > 0 {
		db = db.Limit(q.limit)
	}
	if q.offset > 0 {
		db = db.Offset(q.offset)
	}
	return db
}

// All runs the query. Results of a joined query carry their translation, so
// N rows cost one round trip.
func (q *QuerySet[S, T]) All() ([]*S, error) {
	if q.err != nil {
		return nil, q.err
	}
	if !q.joined() {
		var out []*S
		if err := q.window(q.base()).Find(&out).Error; err != nil {
			return nil, fmt.Errorf("%s: %w", q.m.meta.Name, err)
		}
		return out, nil
	}
	return q.materialize(q.window(q.base()))
}

func readable(sch *schema.Schema) []*schema.Field {
	fields := make([]*schema.Field, 0, len(sch.DBNames))
	for _, name := range sch.DBNames {
		if f := sch.FieldsByDBName[name]; f != nil && f.Readable {
			fields = append(fields, f)
		}
	}
	return fields
}

// materialize scans each joined row into a fresh S and its cached T.
func (q *QuerySet[S, T]) materialize(db *gorm.DB) ([]*S, error) {
	meta := q.m.meta
	shared, trans := readable(meta.Shared), readable(meta.Translations)
	cols := make([]string, 0, len(shared)+len(trans))
	for _, f := range shared {
		cols = append(cols, meta.quote(db, meta.Shared.Table, f.DBName))
	}
	for _, f := range trans {
		cols = append(cols, meta.quote(db, meta.Translations.Table, f.DBName))
	}

	rows, err := db.Select(strings.Join(cols, ", ")).Rows()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", meta.Name, err)
	}
	defer rows.Close()

	var out []*S
	dest := make([]any, len(cols))
	for rows.Next() {
		obj, row := new(S), new(T)
		ov, rv := reflectValue(obj), reflectValue(row)
		for i, f := range shared {
			dest[i] = f.ReflectValueOf(q.ctx, ov).Addr().Interface()
		}
		for i, f := range trans {
			dest[len(shared)+i] = f.ReflectValueOf(q.ctx, rv).Addr().Interface()
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%s: scanning row: %w", meta.Name, err)
		}
		q.m.cache(obj).row = row
		out = append(out, obj)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", meta.Name, err)
	}
	return out, nil
}

// First returns the first row, ordered by primary key unless the query is
// ordered.
func (q *QuerySet[S, T]) First() (*S, error) {
	c := q.clone()
	if len(c.orders) == 0 {
		c.orders = []clause.OrderByColumn{{Column: c.m.meta.sharedColumn(c.m.meta.sharedPK())}}
	}
	c.limit = 1
	objs, err := c.All()
	if err != nil {
		return nil, err
	}
	if len(objs) == 0 {
		return nil, c.notFound()
	}
	return objs[0], nil
}

// Get returns the single row matching conds.
func (q *QuerySet[S, T]) Get(conds ...Cond) (*S, error) {
	c := q.Filter(conds...)
	c.limit = 2
	objs, err := c.All()
	if err != nil {
		return nil, err
	}
	switch len(objs) {
	case 0:
		return nil, c.notFound()
	case 1:
		return objs[0], nil
	}
	return nil, fmt.Errorf("%s: %w", q.m.meta.Name, ErrMultipleObjects)
}

// notFound tells a missing shared row from a shared row that only lacks the
// translation, when the filters allow it.
func (q *QuerySet[S, T]) notFound() error {
	meta := q.m.meta
	if q.joined() && !q.filtersTable(meta.Translations.Table) {
		var n int64
		db := q.m.db.WithContext(q.ctx).Model(new(S))
		if len(q.where) > 0 {
			db = db.Clauses(clause.Where{Exprs: q.where})
		}
		if err := db.Count(&n).Error; err == nil && n > 0 {
			return fmt.Errorf("%s in %q: %w", meta.Name, q.language, ErrTranslationNotFound)
		}
	}
	return fmt.Errorf("%s: %w", meta.Name, ErrNotFound)
}

func (q *QuerySet[S, T]) filtersTable(table string) bool {
	for k := range q.filtered {
		if strings.HasPrefix(k, table+".") {
			return true
		}
	}
	return false
}

// Count returns the number of matching shared rows.
func (q *QuerySet[S, T]) Count() (int64, error) {
	if q.err != nil {
		return 0, q.err
	}
	var n int64
	if err := q.base().Count(&n).Error; err != nil {
		return 0, fmt.Errorf("%s: %w", q.m.meta.Name, err)
	}
	return n, nil
}

// Exists reports whether any row matches.
func (q *QuerySet[S, T]) Exists() (bool, error) {
	n, err := q.Count()
	return n > 0, err
}

// PKSubquery returns the primary keys of the matching shared rows as a gorm
// subquery, e.g. db.Where("normal_id IN (?)", sub). A query that failed to
// build returns its error instead of a subquery.
func (q *QuerySet[S, T]) PKSubquery() (*gorm.DB, error) {
	if q.err != nil {
		return nil, q.err
	}
	return q.pkSubquery(), nil
}

func (q *QuerySet[S, T]) pkSubquery() *gorm.DB {
	db := q.window(q.base())
	meta := q.m.meta
	return db.Select(meta.quote(db, meta.Shared.Table, meta.sharedPK().DBName))
}

func (q *QuerySet[S, T]) pks() ([]any, error) {
	var ids []uint
	meta := q.m.meta
	db := q.window(q.base())
	pk := meta.quote(db, meta.Shared.Table, meta.sharedPK().DBName)
	if err := db.Select(pk).Pluck(pk, &ids).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", meta.Name, err)
	}
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out, nil
}
