package translations

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

const pluginName = "translations"

// Registry is the gorm plugin that knows every registered shared model. It
// persists cached translations after shared rows are written and removes
// translation rows before shared rows are deleted.
type Registry struct {
	// DefaultLanguage is used when a context carries no language.
	DefaultLanguage string
	Logger          zerolog.Logger

	mu    sync.RWMutex
	metas map[reflect.Type]*Meta
}

// NewRegistry returns a registry ready for db.Use.
func NewRegistry(defaultLanguage string, logger zerolog.Logger) *Registry {
	return &Registry{
		DefaultLanguage: defaultLanguage,
		Logger:          logger,
		metas:           make(map[reflect.Type]*Meta),
	}
}

// Name implements gorm.Plugin.
func (r *Registry) Name() string { return pluginName }

// Initialize implements gorm.Plugin.
func (r *Registry) Initialize(db *gorm.DB) error {
	if r.metas == nil {
		r.metas = make(map[reflect.Type]*Meta)
	}
	if err := db.Callback().Create().After("gorm:create").Register("translations:save_translation", r.saveTranslations); err != nil {
		return err
	}
	if err := db.Callback().Update().After("gorm:update").Register("translations:save_translation", r.saveTranslations); err != nil {
		return err
	}
	return db.Callback().Delete().Before("gorm:delete").Register("translations:cascade_delete", r.cascadeDelete)
}

// Language resolves the ambient language of ctx.
func (r *Registry) Language(ctx context.Context) string {
	if code := LanguageFrom(ctx); code != "" {
		return code
	}
	if r.DefaultLanguage != "" {
		return r.DefaultLanguage
	}
	return FallbackLanguage
}

func (r *Registry) add(meta *Meta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.metas[meta.Shared.ModelType]; ok {
		return fmt.Errorf("%s: %w", meta.Name, ErrAlreadyRegistered)
	}
	r.metas[meta.Shared.ModelType] = meta
	return nil
}

func (r *Registry) lookup(db *gorm.DB) *Meta {
	if db.Error != nil || db.Statement.Schema == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.metas[db.Statement.Schema.ModelType]
}

// registryOf returns the registry installed on db, installing a default one
// when the plugin is missing.
func registryOf(db *gorm.DB) (*Registry, error) {
	if p, ok := db.Config.Plugins[pluginName]; ok {
		r, ok := p.(*Registry)
		if !ok {
			return nil, fmt.Errorf("plugin %q is %T, not *translations.Registry", pluginName, p)
		}
		return r, nil
	}
	r := NewRegistry("", zerolog.Nop())
	if err := db.Use(r); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) saveTranslations(db *gorm.DB) {
	meta := r.lookup(db)
	if meta == nil || !db.Statement.ReflectValue.IsValid() {
		return
	}
	rv := db.Statement.ReflectValue
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := r.saveOne(db, meta, rv.Index(i)); err != nil {
				db.AddError(err)
				return
			}
		}
	case reflect.Struct:
		if err := r.saveOne(db, meta, rv); err != nil {
			db.AddError(err)
		}
	}
}

func (r *Registry) saveOne(db *gorm.DB, meta *Meta, v reflect.Value) error {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if !v.CanAddr() {
		return nil
	}
	holder, ok := v.Addr().Interface().(pendingTranslation)
	if !ok {
		return nil
	}
	row := holder.cachedTranslation()
	if row == nil {
		return nil
	}
	base := row.(translationRow).translationBase()
	if base.MasterID == nil {
		id, ok := meta.ownerID(db.Statement.Context, v)
		if !ok {
			return fmt.Errorf("%s: saving translation: %w", meta.Name, ErrNoTranslationContext)
		}
		base.MasterID = &id
	}
	if err := db.Session(&gorm.Session{NewDB: true}).Save(row).Error; err != nil {
		return fmt.Errorf("%s: saving %s translation: %w", meta.Name, base.LanguageCode, err)
	}
	r.Logger.Debug().Str("model", meta.Name).Uint("master_id", *base.MasterID).
		Str("language", base.LanguageCode).Msg("translation saved")
	return nil
}

func (r *Registry) cascadeDelete(db *gorm.DB) {
	meta := r.lookup(db)
	if meta == nil {
		return
	}
	stmt := db.Statement
	if meta.softDelete && !stmt.Unscoped {
		return
	}

	owners := db.Session(&gorm.Session{NewDB: true}).
		Model(meta.newShared()).
		Select(meta.quote(db, meta.Shared.Table, meta.sharedPK().DBName))
	conditioned := false
	if c, ok := stmt.Clauses["WHERE"]; ok {
		if where, ok := c.Expression.(clause.Where); ok && len(where.Exprs) > 0 {
			owners = owners.Clauses(clause.Where{Exprs: where.Exprs})
			conditioned = true
		}
	}
	if ids := meta.ownerIDs(stmt.Context, stmt.ReflectValue); len(ids) > 0 {
		owners = owners.Where(clause.IN{Column: meta.sharedColumn(meta.sharedPK()), Values: ids})
		conditioned = true
	}

	tx := db.Session(&gorm.Session{NewDB: true})
	switch {
	case conditioned:
		tx = tx.Where(meta.quote(db, meta.Translations.Table, "master_id")+" IN (?)", owners)
	case db.AllowGlobalUpdate:
		tx = tx.Session(&gorm.Session{AllowGlobalUpdate: true})
	default:
		// gorm rejects the unconditioned delete itself.
		return
	}
	res := tx.Delete(meta.newRow())
	if res.Error != nil {
		db.AddError(fmt.Errorf("%s: cascading delete to translations: %w", meta.Name, res.Error))
		return
	}
	r.Logger.Debug().Str("model", meta.Name).Int64("rows", res.RowsAffected).Msg("translations cascaded")
}

// Options configure Register.
type Options struct {
	// RelatedName names the reverse relation; defaults to "translations".
	RelatedName string
	// UniqueTogether lists extra unique column sets of the translation table.
	// (language_code, master_id) is always added.
	UniqueTogether [][]string
}

// Meta describes a registered shared model and its translation model.
type Meta struct {
	Name           string
	Shared         *schema.Schema
	Translations   *schema.Schema
	Accessor       string
	CacheName      string
	UniqueTogether [][]string

	translated map[string]*schema.Field
	softDelete bool
}

var reservedTranslationFields = map[string]bool{
	"ID":           true,
	"LanguageCode": true,
	"MasterID":     true,
	"Master":       true,
}

func buildMeta[S, T any](db *gorm.DB, opts Options) (*Meta, error) {
	shared, row := new(S), new(T)
	name := reflect.TypeOf(shared).Elem().Name()
	rowName := reflect.TypeOf(row).Elem().Name()

	if _, ok := any(shared).(translationRow); ok {
		return nil, fmt.Errorf("%s: %w", name, ErrTranslationType)
	}
	if _, ok := any(shared).(cacheHolder[T]); !ok {
		return nil, fmt.Errorf("%s does not embed Cache[%s]: %w", name, rowName, ErrNotTranslatable)
	}
	if _, ok := any(row).(translationRow); !ok {
		return nil, fmt.Errorf("%s: %s does not embed translations.Base: %w", name, rowName, ErrNotTranslatable)
	}

	sharedSchema, err := parseSchema(db, shared)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	rowSchema, err := parseSchema(db, row)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rowName, err)
	}
	if pk := sharedSchema.PrioritizedPrimaryField; pk == nil || !isInteger(pk.FieldType) {
		return nil, fmt.Errorf("%s needs a single integer primary key: %w", name, ErrNotTranslatable)
	}

	rowType := reflect.TypeOf(row).Elem()
	for i := 0; i < rowType.NumField(); i++ {
		f := rowType.Field(i)
		if !f.Anonymous && reservedTranslationFields[f.Name] {
			return nil, fmt.Errorf("%s.%s: %w", rowName, f.Name, ErrReservedField)
		}
	}
	for _, col := range []string{"id", "language_code", "master_id"} {
		if f := rowSchema.FieldsByDBName[col]; f == nil || len(f.StructField.Index) == 1 {
			return nil, fmt.Errorf("%s.%s: %w", rowName, col, ErrReservedField)
		}
	}

	translated := make(map[string]*schema.Field)
	for _, f := range rowSchema.Fields {
		if f.DBName == "" || f.PrimaryKey || f.DBName == "master_id" {
			continue
		}
		if _, clash := sharedSchema.FieldsByDBName[f.DBName]; clash {
			return nil, fmt.Errorf("%s.%s is declared on %s too: %w", rowName, f.DBName, name, ErrReservedField)
		}
		translated[f.DBName] = f
		translated[f.Name] = f
	}

	unique := make([][]string, 0, len(opts.UniqueTogether)+1)
	for _, set := range opts.UniqueTogether {
		cols := make([]string, 0, len(set))
		var unknown []string
		for _, n := range set {
			f := rowSchema.LookUpField(n)
			if f == nil || f.DBName == "" {
				unknown = append(unknown, n)
				continue
			}
			cols = append(cols, f.DBName)
		}
		if len(unknown) > 0 {
			return nil, unknownFieldsError(rowName, unknown)
		}
		unique = append(unique, cols)
	}
	unique = append(unique, []string{"language_code", "master_id"})

	accessor := opts.RelatedName
	if accessor == "" {
		accessor = "translations"
	}
	_, soft := sharedSchema.FieldsByDBName["deleted_at"]

	return &Meta{
		Name:           name,
		Shared:         sharedSchema,
		Translations:   rowSchema,
		Accessor:       accessor,
		CacheName:      accessor + "_cache",
		UniqueTogether: unique,
		translated:     translated,
		softDelete:     soft,
	}, nil
}

func parseSchema(db *gorm.DB, model any) (*schema.Schema, error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return nil, err
	}
	return stmt.Schema, nil
}

func isInteger(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func unknownFieldsError(entity string, names []string) error {
	sort.Strings(names)
	return fmt.Errorf("%w (%s) specified for %s", ErrUnknownFields, strings.Join(names, ", "), entity)
}

func (m *Meta) sharedPK() *schema.Field { return m.Shared.PrioritizedPrimaryField }

func (m *Meta) newShared() any { return reflect.New(m.Shared.ModelType).Interface() }

func (m *Meta) newRow() any { return reflect.New(m.Translations.ModelType).Interface() }

func (m *Meta) sharedColumn(f *schema.Field) clause.Column {
	return clause.Column{Table: m.Shared.Table, Name: f.DBName}
}

func (m *Meta) rowColumn(f *schema.Field) clause.Column {
	return clause.Column{Table: m.Translations.Table, Name: f.DBName}
}

func (m *Meta) quote(db *gorm.DB, table, column string) string {
	return db.Statement.Quote(clause.Column{Table: table, Name: column})
}

// ownerID reads the primary key of the shared struct v.
func (m *Meta) ownerID(ctx context.Context, v reflect.Value) (uint, bool) {
	value, zero := m.sharedPK().ValueOf(ctx, v)
	if zero {
		return 0, false
	}
	return toUint(value)
}

func (m *Meta) ownerIDs(ctx context.Context, rv reflect.Value) []any {
	if !rv.IsValid() {
		return nil
	}
	var ids []any
	collect := func(v reflect.Value) {
		for v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return
			}
			v = v.Elem()
		}
		if v.Kind() != reflect.Struct || v.Type() != m.Shared.ModelType {
			return
		}
		if id, ok := m.ownerID(ctx, v); ok {
			ids = append(ids, id)
		}
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			collect(rv.Index(i))
		}
	default:
		collect(rv)
	}
	return ids
}

func toUint(v any) (uint, bool) {
	switch n := v.(type) {
	case uint:
		return n, n != 0
	case uint64:
		return uint(n), n != 0
	case uint32:
		return uint(n), n != 0
	case uint16:
		return uint(n), n != 0
	case uint8:
		return uint(n), n != 0
	case int:
		return uint(n), n > 0
	case int64:
		return uint(n), n > 0
	case int32:
		return uint(n), n > 0
	case int16:
		return uint(n), n > 0
	case int8:
		return uint(n), n > 0
	case *uint:
		if n == nil {
			return 0, false
		}
		return *n, *n != 0
	}
	return 0, false
}
