package translations

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Form is the edit surface of a translatable model: one flat set of fields
// spanning the shared row and the translation in one language.
type Form[S, T any] struct {
	m      *Manager[S, T]
	fields []fieldRef
}

// NewForm builds a form over fields, minus exclude. With no fields it covers
// every editable shared and translated column. Unknown names fail here, not on
// first use.
func NewForm[S, T any](m *Manager[S, T], fields []string, exclude ...string) (*Form[S, T], error) {
	if len(fields) == 0 {
		fields = m.meta.editableNames()
	}
	skip := make(map[string]bool, len(exclude))
	var unknown []string
	for _, name := range exclude {
		if _, ok := m.meta.resolve(name); !ok {
			unknown = append(unknown, name)
		}
		skip[name] = true
	}
	var refs []fieldRef
	for _, name := range fields {
		if skip[name] {
			continue
		}
		if isOwnerField(name) {
			return nil, fmt.Errorf("%s form: %w", m.meta.Name, ErrOwnerArgument)
		}
		ref, ok := m.meta.resolve(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		refs = append(refs, ref)
	}
	if len(unknown) > 0 {
		return nil, unknownFieldsError(m.meta.Name, unknown)
	}
	return &Form[S, T]{m: m, fields: refs}, nil
}

// Fields returns the names the form accepts.
func (f *Form[S, T]) Fields() []string {
	names := make([]string, len(f.fields))
	for i, ref := range f.fields {
		names[i] = ref.name
	}
	return names
}

// Initial returns the current values of obj for every form field, taking the
// translated ones from its active translation. A missing translation leaves
// only the shared values.
func (f *Form[S, T]) Initial(ctx context.Context, obj *S) (map[string]any, error) {
	out := make(map[string]any, len(f.fields)+1)
	row, err := f.m.Translation(ctx, obj)
	if err != nil && !errors.Is(err, ErrTranslationNotFound) && !errors.Is(err, ErrNoTranslationContext) {
		return nil, err
	}
	for _, ref := range f.fields {
		switch {
		case ref.kind == sharedField:
			out[ref.name], _ = ref.field.ValueOf(ctx, reflectValue(obj))
		case row != nil:
			out[ref.name], _ = ref.field.ValueOf(ctx, reflectValue(row))
		}
	}
	if row != nil {
		out["language_code"] = baseOf(row).LanguageCode
	}
	return out, nil
}

// Save applies data to obj, validates the shared model and the translation
// with their `validate` tags and stores both. data["language_code"] picks the
// translation to edit and defaults to the ambient language. The translation
// is the cached one when its language matches, else the persisted one, else
// a new row.
func (f *Form[S, T]) Save(ctx context.Context, obj *S, data map[string]any) (*S, error) {
	meta := f.m.meta
	allowed := make(map[string]fieldRef, len(f.fields))
	for _, ref := range f.fields {
		allowed[ref.name] = ref
	}
	lang := f.m.reg.Language(ctx)
	var unknown []string
	for name, v := range data {
		if name == "language_code" {
			code, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %v", ErrInvalidLanguage, v)
			}
			lang = code
			continue
		}
		if isOwnerField(name) {
			return nil, fmt.Errorf("%s form: %w", meta.Name, ErrOwnerArgument)
		}
		if _, ok := allowed[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return nil, unknownFieldsError(meta.Name, unknown)
	}
	if err := checkLanguage(lang); err != nil {
		return nil, err
	}

	row, err := f.translationFor(ctx, obj, lang)
	if err != nil {
		return nil, err
	}
	for name, v := range data {
		ref, ok := allowed[name]
		if !ok {
			continue
		}
		dst := reflectValue(obj)
		if ref.kind == translatedField {
			dst = reflectValue(row)
		}
		if err := f.m.assign(ctx, dst, ref, v); err != nil {
			return nil, err
		}
	}

	if err := validate.StructCtx(ctx, obj); err != nil {
		return nil, fmt.Errorf("%s: %w", meta.Name, err)
	}
	if err := validate.StructCtx(ctx, row); err != nil {
		return nil, fmt.Errorf("%s in %q: %w", meta.Name, lang, err)
	}

	f.m.cache(obj).row = row
	if err := f.m.db.WithContext(ctx).Save(obj).Error; err != nil {
		return nil, fmt.Errorf("saving %s: %w", meta.Name, err)
	}
	return obj, nil
}

func (f *Form[S, T]) translationFor(ctx context.Context, obj *S, lang string) (*T, error) {
	if row := f.m.cache(obj).row; row != nil && baseOf(row).LanguageCode == lang {
		return row, nil
	}
	if id, ok := f.m.ownerID(ctx, obj); ok {
		row, err := f.m.lookup(ctx, id, lang)
		if err == nil {
			return row, nil
		}
		if !errors.Is(err, ErrTranslationNotFound) {
			return nil, err
		}
	}
	return f.m.blank(lang), nil
}

// editableNames lists the columns a default form covers: everything but
// keys, timestamps managed by gorm and language_code.
func (m *Meta) editableNames() []string {
	var names []string
	for _, f := range readable(m.Shared) {
		if f.PrimaryKey || f.AutoCreateTime != 0 || f.AutoUpdateTime != 0 || f.DBName == "deleted_at" {
			continue
		}
		names = append(names, f.DBName)
	}
	for _, f := range readable(m.Translations) {
		if f.PrimaryKey || f.DBName == "master_id" || f.DBName == "language_code" {
			continue
		}
		names = append(names, f.DBName)
	}
	return names
}
