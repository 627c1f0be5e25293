package translations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Manager is the entry point for a registered shared model S with translation
// model T.
type Manager[S, T any] struct {
	db   *gorm.DB
	reg  *Registry
	meta *Meta
}

// Register builds the translation metadata for S and T, records it on the
// registry plugin of db and returns the manager. All errors are
// definition-time errors.
func Register[S, T any](db *gorm.DB, opts Options) (*Manager[S, T], error) {
	reg, err := registryOf(db)
	if err != nil {
		return nil, err
	}
	meta, err := buildMeta[S, T](db, opts)
	if err != nil {
		return nil, err
	}
	if err := reg.add(meta); err != nil {
		return nil, err
	}
	reg.Logger.Debug().
		Str("model", meta.Name).
		Str("table", meta.Translations.Table).
		Str("accessor", meta.Accessor).
		Msg("translation model registered")
	return &Manager[S, T]{db: db, reg: reg, meta: meta}, nil
}

// MustRegister is Register for package-level setup; it panics on error.
func MustRegister[S, T any](db *gorm.DB, opts Options) *Manager[S, T] {
	m, err := Register[S, T](db, opts)
	if err != nil {
		panic(err)
	}
	return m
}

// Meta returns the translation metadata.
func (m *Manager[S, T]) Meta() *Meta { return m.meta }

// WithDB returns a manager that runs on db, typically a transaction.
func (m *Manager[S, T]) WithDB(db *gorm.DB) *Manager[S, T] {
	return &Manager[S, T]{db: db, reg: m.reg, meta: m.meta}
}

// Migrate creates or updates both tables and the unique indexes of the
// translation table.
func (m *Manager[S, T]) Migrate(ctx context.Context) error {
	db := m.db.WithContext(ctx)
	if err := db.AutoMigrate(new(S), new(T)); err != nil {
		return fmt.Errorf("%s: migrate: %w", m.meta.Name, err)
	}
	for _, cols := range m.meta.UniqueTogether {
		name := "uniq_" + m.meta.Translations.Table + "_" + strings.Join(cols, "_")
		if db.Migrator().HasIndex(new(T), name) {
			continue
		}
		quoted := make([]string, len(cols))
		for i, c := range cols {
			quoted[i] = db.Statement.Quote(c)
		}
		sql := fmt.Sprintf("CREATE UNIQUE INDEX %s ON %s (%s)",
			db.Statement.Quote(name), db.Statement.Quote(m.meta.Translations.Table), strings.Join(quoted, ", "))
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("%s: creating %s: %w", m.meta.Name, name, err)
		}
	}
	return nil
}

// Query returns a translation-aware query. It is not bound to a language
// until Language is called or a translated field is referenced.
func (m *Manager[S, T]) Query(ctx context.Context) *QuerySet[S, T] {
	if ctx == nil {
		ctx = context.Background()
	}
	return &QuerySet[S, T]{m: m, ctx: ctx}
}

// Language is shorthand for Query(ctx).Language(code).
func (m *Manager[S, T]) Language(ctx context.Context, code string) *QuerySet[S, T] {
	return m.Query(ctx).Language(code)
}

// Real returns a plain gorm query on the shared table. It never joins the
// translation table.
func (m *Manager[S, T]) Real(ctx context.Context) *gorm.DB {
	return m.db.WithContext(ctx).Model(new(S))
}

// Translations returns a plain gorm query on the translation table.
func (m *Manager[S, T]) Translations(ctx context.Context) *gorm.DB {
	return m.db.WithContext(ctx).Model(new(T))
}

// GetTranslation loads the translation of obj in lang without touching the
// cache. An empty lang means the ambient language of ctx.
func (m *Manager[S, T]) GetTranslation(ctx context.Context, obj *S, lang string) (*T, error) {
	if lang == "" {
		lang = m.reg.Language(ctx)
	}
	if err := checkLanguage(lang); err != nil {
		return nil, err
	}
	id, ok := m.ownerID(ctx, obj)
	if !ok {
		return nil, fmt.Errorf("%s: %w", m.meta.Name, ErrNoTranslationContext)
	}
	return m.lookup(ctx, id, lang)
}

func (m *Manager[S, T]) lookup(ctx context.Context, ownerID uint, lang string) (*T, error) {
	row := new(T)
	err := m.db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: "master_id"}, Value: ownerID}).
		Where(clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: "language_code"}, Value: lang}).
		Take(row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s %d in %q: %w", m.meta.Name, ownerID, lang, ErrTranslationNotFound)
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

// Combine loads the owner of row and returns it with row as its active
// translation.
func (m *Manager[S, T]) Combine(ctx context.Context, row *T) (*S, error) {
	base := baseOf(row)
	if base.MasterID == nil {
		return nil, fmt.Errorf("%s: translation has no master: %w", m.meta.Name, ErrNoTranslationContext)
	}
	obj := new(S)
	if err := m.Real(ctx).Take(obj, *base.MasterID).Error; err != nil {
		return nil, fmt.Errorf("%s %d: %w", m.meta.Name, *base.MasterID, err)
	}
	m.cache(obj).row = row
	return obj, nil
}

// Prefetch loads the translations in lang of every owner with one query and
// installs them as the owners' active translation. Owners without a row in
// lang keep their cache unchanged.
func (m *Manager[S, T]) Prefetch(ctx context.Context, lang string, owners ...*S) error {
	if lang == "" {
		lang = m.reg.Language(ctx)
	}
	if err := checkLanguage(lang); err != nil {
		return err
	}
	byID := make(map[uint][]*S, len(owners))
	ids := make([]any, 0, len(owners))
	for _, o := range owners {
		if o == nil {
			continue
		}
		id, ok := m.ownerID(ctx, o)
		if !ok {
			continue
		}
		if _, seen := byID[id]; !seen {
			ids = append(ids, id)
		}
		byID[id] = append(byID[id], o)
	}
	if len(ids) == 0 {
		return nil
	}

	var rows []*T
	err := m.db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: "language_code"}, Value: lang}).
		Where(clause.IN{Column: clause.Column{Table: clause.CurrentTable, Name: "master_id"}, Values: ids}).
		Find(&rows).Error
	if err != nil {
		return fmt.Errorf("%s: prefetching %q translations: %w", m.meta.Name, lang, err)
	}
	for _, row := range rows {
		base := baseOf(row)
		if base.MasterID == nil {
			continue
		}
		for i, o := range byID[*base.MasterID] {
			r := row
			if i > 0 {
				dup := *row
				r = &dup
			}
			m.cache(o).row = r
		}
	}
	return nil
}

func (m *Manager[S, T]) cache(obj *S) *Cache[T] {
	return any(obj).(cacheHolder[T]).translationCache()
}

func (m *Manager[S, T]) ownerID(ctx context.Context, obj *S) (uint, bool) {
	return m.meta.ownerID(ctx, reflectValue(obj))
}
