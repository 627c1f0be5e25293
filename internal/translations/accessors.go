package translations

import (
	"context"
	"errors"
	"fmt"
	"reflect"
)

// Translation returns the active translation of obj, loading it in the
// ambient language of ctx when nothing is cached.
func (m *Manager[S, T]) Translation(ctx context.Context, obj *S) (*T, error) {
	c := m.cache(obj)
	if c.row != nil {
		return c.row, nil
	}
	id, ok := m.ownerID(ctx, obj)
	if !ok {
		return nil, fmt.Errorf("%s: %w", m.meta.Name, ErrNoTranslationContext)
	}
	row, err := m.lookup(ctx, id, m.reg.Language(ctx))
	if err != nil {
		return nil, err
	}
	c.row = row
	return row, nil
}

// translationForWrite is Translation, except that a missing persisted row is
// replaced by a blank one in the ambient language.
func (m *Manager[S, T]) translationForWrite(ctx context.Context, obj *S) (*T, error) {
	row, err := m.Translation(ctx, obj)
	if errors.Is(err, ErrTranslationNotFound) {
		row = m.blank(m.reg.Language(ctx))
		m.cache(obj).row = row
		return row, nil
	}
	return row, err
}

func (m *Manager[S, T]) blank(lang string) *T {
	row := new(T)
	baseOf(row).LanguageCode = lang
	return row
}

// Get reads a shared or translated field of obj.
func (m *Manager[S, T]) Get(ctx context.Context, obj *S, name string) (any, error) {
	ref, ok := m.meta.resolve(name)
	if !ok {
		return nil, unknownFieldsError(m.meta.Name, []string{name})
	}
	switch {
	case ref.kind == sharedField:
		v, _ := ref.field.ValueOf(ctx, reflectValue(obj))
		return v, nil
	case ref.isLanguage():
		return m.LanguageOf(ctx, obj), nil
	}
	row, err := m.Translation(ctx, obj)
	if err != nil {
		return nil, err
	}
	v, _ := ref.field.ValueOf(ctx, reflectValue(row))
	return v, nil
}

// Set writes a shared or translated field of obj. Translated writes go to the
// active translation, which is created in the ambient language if the owner
// has none persisted. Setting language_code is SetLanguage.
func (m *Manager[S, T]) Set(ctx context.Context, obj *S, name string, value any) error {
	if isOwnerField(name) {
		return fmt.Errorf("%s: %w", m.meta.Name, ErrOwnerArgument)
	}
	ref, ok := m.meta.resolve(name)
	if !ok {
		return unknownFieldsError(m.meta.Name, []string{name})
	}
	switch {
	case ref.kind == sharedField:
		return m.assign(ctx, reflectValue(obj), ref, value)
	case ref.isLanguage():
		code, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %v", ErrInvalidLanguage, value)
		}
		return m.SetLanguage(ctx, obj, code)
	}
	row, err := m.translationForWrite(ctx, obj)
	if err != nil {
		return err
	}
	return m.assign(ctx, reflectValue(row), ref, value)
}

// Unset resets a field to its zero value. Unsetting language_code evicts the
// active translation.
func (m *Manager[S, T]) Unset(ctx context.Context, obj *S, name string) error {
	ref, ok := m.meta.resolve(name)
	if !ok {
		return unknownFieldsError(m.meta.Name, []string{name})
	}
	zero := reflect.Zero(ref.field.FieldType).Interface()
	switch {
	case ref.kind == sharedField:
		return m.assign(ctx, reflectValue(obj), ref, zero)
	case ref.isLanguage():
		m.cache(obj).row = nil
		return nil
	}
	row, err := m.Translation(ctx, obj)
	if err != nil {
		return err
	}
	return m.assign(ctx, reflectValue(row), ref, zero)
}

// LanguageOf returns the language of the active translation, or the ambient
// language when nothing is cached.
func (m *Manager[S, T]) LanguageOf(ctx context.Context, obj *S) string {
	if row := m.cache(obj).row; row != nil {
		return baseOf(row).LanguageCode
	}
	return m.reg.Language(ctx)
}

// SetLanguage switches the active translation of obj to code. The persisted
// row is used when the owner has one, a blank row otherwise. Unsaved edits of
// the previous translation are discarded.
func (m *Manager[S, T]) SetLanguage(ctx context.Context, obj *S, code string) error {
	if err := checkLanguage(code); err != nil {
		return err
	}
	c := m.cache(obj)
	if c.row != nil && baseOf(c.row).LanguageCode == code {
		return nil
	}
	if id, ok := m.ownerID(ctx, obj); ok {
		row, err := m.lookup(ctx, id, code)
		if err == nil {
			c.row = row
			return nil
		}
		if !errors.Is(err, ErrTranslationNotFound) {
			return err
		}
	}
	c.row = m.blank(code)
	return nil
}

func (m *Manager[S, T]) assign(ctx context.Context, dst reflect.Value, ref fieldRef, value any) error {
	if err := ref.field.Set(ctx, dst, value); err != nil {
		return fmt.Errorf("%s.%s: %w", m.meta.Name, ref.name, err)
	}
	return nil
}
