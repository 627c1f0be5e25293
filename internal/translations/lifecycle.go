package translations

import (
	"context"
	"fmt"
)

// New builds an unsaved S from fields. Translated fields (and language_code)
// go to a pending translation installed as the active one; when none are
// given the translation machinery is not touched at all.
func (m *Manager[S, T]) New(ctx context.Context, fields Fields) (*S, error) {
	var (
		shared, translated []fieldRef
		unknown            []string
	)
	for name := range fields {
		if isOwnerField(name) {
			return nil, fmt.Errorf("cannot init %s with %q: %w", m.meta.Name, name, ErrOwnerArgument)
		}
		ref, ok := m.meta.resolve(name)
		switch {
		case !ok:
			unknown = append(unknown, name)
		case ref.kind == sharedField:
			shared = append(shared, ref)
		default:
			translated = append(translated, ref)
		}
	}
	if len(unknown) > 0 {
		return nil, unknownFieldsError(m.meta.Name, unknown)
	}

	obj := new(S)
	if len(translated) > 0 {
		lang := m.reg.Language(ctx)
		row := new(T)
		for _, ref := range translated {
			if ref.isLanguage() {
				code, ok := fields[ref.name].(string)
				if !ok {
					return nil, fmt.Errorf("%w: %v", ErrInvalidLanguage, fields[ref.name])
				}
				lang = code
				continue
			}
			if err := m.assign(ctx, reflectValue(row), ref, fields[ref.name]); err != nil {
				return nil, err
			}
		}
		if err := checkLanguage(lang); err != nil {
			return nil, err
		}
		baseOf(row).LanguageCode = lang
		m.cache(obj).row = row
	}
	for _, ref := range shared {
		if err := m.assign(ctx, reflectValue(obj), ref, fields[ref.name]); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

// Create is New followed by a gorm Create; the registry callback persists the
// pending translation right after the shared row.
func (m *Manager[S, T]) Create(ctx context.Context, fields Fields) (*S, error) {
	obj, err := m.New(ctx, fields)
	if err != nil {
		return nil, err
	}
	if err := m.db.WithContext(ctx).Create(obj).Error; err != nil {
		return nil, fmt.Errorf("creating %s: %w", m.meta.Name, err)
	}
	return obj, nil
}
