package translations

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Delete removes the matching shared rows together with their translations
// in every language, and returns the number of shared rows deleted.
func (q *QuerySet[S, T]) Delete() (int64, error) {
	if q.err != nil {
		return 0, q.err
	}
	meta := q.m.meta
	if q.sliced() {
		return 0, fmt.Errorf("%s: %w", meta.Name, ErrSlicedQuery)
	}
	var n int64
	err := q.m.db.WithContext(q.ctx).Transaction(func(tx *gorm.DB) error {
		ids, err := q.withDB(tx).pks()
		if err != nil || len(ids) == 0 {
			return err
		}
		// The registry's cascade callback removes the translations first.
		res := tx.Where(clause.IN{Column: meta.sharedColumn(meta.sharedPK()), Values: ids}).Delete(new(S))
		if res.Error != nil {
			return fmt.Errorf("%s: delete: %w", meta.Name, res.Error)
		}
		n = res.RowsAffected
		return nil
	})
	return n, err
}

// DeleteTranslations removes the translations in the query's language of the
// matching shared rows. Shared rows and other languages are left alone.
func (q *QuerySet[S, T]) DeleteTranslations() (int64, error) {
	if q.err != nil {
		return 0, q.err
	}
	meta := q.m.meta
	if q.sliced() {
		return 0, fmt.Errorf("%s: %w", meta.Name, ErrSlicedQuery)
	}
	c := q.clone()
	if c.language == "" {
		c.language = c.m.reg.Language(c.ctx)
	}
	db := c.m.db.WithContext(c.ctx)
	res := db.
		Where(clause.Eq{Column: clause.Column{Table: meta.Translations.Table, Name: "language_code"}, Value: c.language}).
		Where(meta.quote(db, meta.Translations.Table, "master_id")+" IN (?)", c.pkSubquery()).
		Delete(new(T))
	if res.Error != nil {
		return 0, fmt.Errorf("%s: deleting %q translations: %w", meta.Name, c.language, res.Error)
	}
	c.m.reg.Logger.Debug().Str("model", meta.Name).Str("language", c.language).
		Int64("rows", res.RowsAffected).Msg("translations deleted")
	return res.RowsAffected, nil
}
