package translations

import (
	"fmt"
	"reflect"
	"strings"
)

// Projection is a values()/values_list() query: it returns field values
// instead of model instances, keyed by the names the caller asked for.
type Projection[S, T any] struct {
	qs   *QuerySet[S, T]
	refs []fieldRef
}

// Values projects the query onto fields. With no fields it projects every
// shared and translated column.
func (q *QuerySet[S, T]) Values(fields ...string) *Projection[S, T] {
	c := q.clone()
	if len(fields) == 0 {
		fields = q.m.meta.columnNames()
	}
	refs, err := c.m.meta.resolveAll(fields)
	if err != nil && c.err == nil {
		c.err = err
	}
	for _, ref := range refs {
		c.reference(ref)
	}
	return &Projection[S, T]{qs: c, refs: refs}
}

// ValuesList is Values; read the result with Tuples or Flat.
func (q *QuerySet[S, T]) ValuesList(fields ...string) *Projection[S, T] {
	return q.Values(fields...)
}

func (p *Projection[S, T]) with(qs *QuerySet[S, T]) *Projection[S, T] {
	return &Projection[S, T]{qs: qs, refs: p.refs}
}

// Language rescopes the projection; see QuerySet.Language.
func (p *Projection[S, T]) Language(code string) *Projection[S, T] {
	return p.with(p.qs.Language(code))
}

func (p *Projection[S, T]) Filter(conds ...Cond) *Projection[S, T] {
	return p.with(p.qs.Filter(conds...))
}

func (p *Projection[S, T]) Exclude(conds ...Cond) *Projection[S, T] {
	return p.with(p.qs.Exclude(conds...))
}

func (p *Projection[S, T]) OrderBy(fields ...string) *Projection[S, T] {
	return p.with(p.qs.OrderBy(fields...))
}

// Maps returns one map per row.
func (p *Projection[S, T]) Maps() ([]map[string]any, error) {
	rows, err := p.rows()
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, len(rows))
	for i, row := range rows {
		m := make(map[string]any, len(p.refs))
		for j, ref := range p.refs {
			m[ref.name] = row[j]
		}
		out[i] = m
	}
	return out, nil
}

// Tuples returns one slice per row, in field order.
func (p *Projection[S, T]) Tuples() ([][]any, error) {
	return p.rows()
}

// Flat returns the values of a single-field projection.
func (p *Projection[S, T]) Flat() ([]any, error) {
	if len(p.refs) != 1 {
		return nil, fmt.Errorf("%s: flat projection needs exactly one field, got %d", p.qs.m.meta.Name, len(p.refs))
	}
	rows, err := p.rows()
	if err != nil {
		return nil, err
	}
	out := make([]any, len(rows))
	for i, row := range rows {
		out[i] = row[0]
	}
	return out, nil
}

func (p *Projection[S, T]) rows() ([][]any, error) {
	q := p.qs
	if q.err != nil {
		return nil, q.err
	}
	meta := q.m.meta
	db := q.window(q.base())
	cols := make([]string, len(p.refs))
	for i, ref := range p.refs {
		col := q.column(ref)
		cols[i] = meta.quote(db, col.Table, col.Name)
	}
	rows, err := db.Select(strings.Join(cols, ", ")).Rows()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", meta.Name, err)
	}
	defer rows.Close()

	var out [][]any
	for rows.Next() {
		holders := make([]reflect.Value, len(p.refs))
		dest := make([]any, len(p.refs))
		for i, ref := range p.refs {
			holders[i] = reflect.New(ref.field.FieldType)
			dest[i] = holders[i].Interface()
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%s: scanning values: %w", meta.Name, err)
		}
		row := make([]any, len(holders))
		for i, h := range holders {
			row[i] = h.Elem().Interface()
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// columnNames lists the shared columns followed by the translated ones.
func (m *Meta) columnNames() []string {
	var names []string
	for _, f := range readable(m.Shared) {
		names = append(names, f.DBName)
	}
	for _, f := range readable(m.Translations) {
		if f.PrimaryKey || f.DBName == "master_id" {
			continue
		}
		names = append(names, f.DBName)
	}
	return names
}
