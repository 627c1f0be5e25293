package translations

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Update writes fields to every matching row. Shared and translated fields
// are split by table: one statement per table touched, two for a mixed
// update, run in one transaction. Translated writes only touch rows of the
// query's language. It returns the rows affected on the shared table, or on
// the translation table for translated-only updates.
func (q *QuerySet[S, T]) Update(fields Fields) (int64, error) {
	if q.err != nil {
		return 0, q.err
	}
	meta := q.m.meta
	if q.sliced() {
		return 0, fmt.Errorf("%s: %w", meta.Name, ErrSlicedQuery)
	}

	c := q.clone()
	shared, translated := make(map[string]any), make(map[string]any)
	var unknown []string
	for name, v := range fields {
		if isOwnerField(name) {
			return 0, fmt.Errorf("%s: %w", meta.Name, ErrOwnerArgument)
		}
		ref, ok := meta.resolve(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		if ref.isLanguage() {
			return 0, fmt.Errorf("%s: %w", meta.Name, ErrLanguageArgument)
		}
		c.reference(ref)
		if ref.kind == translatedField {
			translated[ref.field.DBName] = v
		} else {
			shared[ref.field.DBName] = v
		}
	}
	if len(unknown) > 0 {
		return 0, unknownFieldsError(meta.Name, unknown)
	}

	switch {
	case len(shared) == 0 && len(translated) == 0:
		return 0, nil
	case len(translated) == 0:
		return c.updateShared(shared, nil)
	case len(shared) == 0:
		return c.updateTranslated(translated, nil)
	}

	// The second statement selects its rows again, so it must not run after
	// a statement that rewrote a filtered column. When both sides rewrite
	// filtered columns the owners are fetched up front.
	sharedLast := c.rewritesFiltered(meta.Shared.Table, shared)
	translatedLast := c.rewritesFiltered(meta.Translations.Table, translated)

	var n int64
	err := c.m.db.WithContext(c.ctx).Transaction(func(tx *gorm.DB) error {
		tq := c.withDB(tx)
		var ids []any
		if sharedLast && translatedLast {
			var err error
			if ids, err = tq.pks(); err != nil {
				return err
			}
		}
		var err error
		if sharedLast && !translatedLast {
			if _, err = tq.updateTranslated(translated, ids); err != nil {
				return err
			}
			n, err = tq.updateShared(shared, ids)
			return err
		}
		if n, err = tq.updateShared(shared, ids); err != nil {
			return err
		}
		_, err = tq.updateTranslated(translated, ids)
		return err
	})
	return n, err
}

func (q *QuerySet[S, T]) rewritesFiltered(table string, values map[string]any) bool {
	for col := range values {
		if q.filtered[table+"."+col] {
			return true
		}
	}
	return false
}

func (q *QuerySet[S, T]) updateShared(values map[string]any, ids []any) (int64, error) {
	meta := q.m.meta
	db := q.m.db.WithContext(q.ctx).Model(new(S))
	switch {
	case ids != nil:
		db = db.Where(clause.IN{Column: meta.sharedColumn(meta.sharedPK()), Values: ids})
	case q.joined():
		db = db.Where(meta.quote(db, meta.Shared.Table, meta.sharedPK().DBName)+" IN (?)", q.pkSubquery())
	case len(q.where) > 0:
		db = db.Clauses(clause.Where{Exprs: q.where})
	default:
		db = db.Session(&gorm.Session{AllowGlobalUpdate: true})
	}
	res := db.Updates(values)
	if res.Error != nil {
		return 0, fmt.Errorf("%s: update: %w", meta.Name, res.Error)
	}
	return res.RowsAffected, nil
}

func (q *QuerySet[S, T]) updateTranslated(values map[string]any, ids []any) (int64, error) {
	meta := q.m.meta
	db := q.m.db.WithContext(q.ctx).Model(new(T)).
		Where(clause.Eq{Column: clause.Column{Table: meta.Translations.Table, Name: "language_code"}, Value: q.language})
	if ids != nil {
		db = db.Where(clause.IN{Column: clause.Column{Table: meta.Translations.Table, Name: "master_id"}, Values: ids})
	} else {
		db = db.Where(meta.quote(db, meta.Translations.Table, "master_id")+" IN (?)", q.pkSubquery())
	}
	res := db.Updates(values)
	if res.Error != nil {
		return 0, fmt.Errorf("%s: updating %q translations: %w", meta.Name, q.language, res.Error)
	}
	return res.RowsAffected, nil
}
