package translations

import (
	"reflect"

	"gorm.io/gorm/schema"
)

// Fields maps caller-visible field names (columns, Go names or "pk") to
// values.
type Fields map[string]any

type fieldKind int

const (
	sharedField fieldKind = iota
	translatedField
)

type fieldRef struct {
	name  string
	kind  fieldKind
	field *schema.Field
}

func (r fieldRef) isLanguage() bool {
	return r.kind == translatedField && r.field.DBName == "language_code"
}

func (m *Meta) resolve(name string) (fieldRef, bool) {
	if name == "pk" {
		return fieldRef{name: name, kind: sharedField, field: m.sharedPK()}, true
	}
	if f := m.Shared.LookUpField(name); f != nil && f.DBName != "" {
		return fieldRef{name: name, kind: sharedField, field: f}, true
	}
	if f, ok := m.translated[name]; ok {
		return fieldRef{name: name, kind: translatedField, field: f}, true
	}
	return fieldRef{}, false
}

func (m *Meta) resolveAll(names []string) ([]fieldRef, error) {
	refs := make([]fieldRef, 0, len(names))
	var unknown []string
	for _, n := range names {
		ref, ok := m.resolve(n)
		if !ok {
			unknown = append(unknown, n)
			continue
		}
		refs = append(refs, ref)
	}
	if len(unknown) > 0 {
		return nil, unknownFieldsError(m.Name, unknown)
	}
	return refs, nil
}

func isOwnerField(name string) bool {
	switch name {
	case "master", "master_id", "Master", "MasterID":
		return true
	}
	return false
}

func reflectValue(ptr any) reflect.Value {
	return reflect.ValueOf(ptr).Elem()
}
