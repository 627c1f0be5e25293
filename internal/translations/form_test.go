package translations

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormFields(t *testing.T) {
	e := newTestEnv(t)

	f, err := NewForm(e.normals, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"shared_field", "translated_field"}, f.Fields())

	f, err = NewForm(e.normals, []string{"shared_field", "translated_field"}, "shared_field")
	require.NoError(t, err)
	assert.Equal(t, []string{"translated_field"}, f.Fields())

	_, err = NewForm(e.normals, []string{"shared_field", "nope", "nada"})
	require.ErrorIs(t, err, ErrUnknownFields)
	assert.Contains(t, err.Error(), "(nada, nope) specified for Normal")

	_, err = NewForm(e.normals, []string{"master"})
	assert.ErrorIs(t, err, ErrOwnerArgument)
}

func TestFormInitial(t *testing.T) {
	e := newTestEnv(t)
	obj := e.seed(t, "s", map[string]string{"en": "hello"})
	f, err := NewForm(e.normals, nil)
	require.NoError(t, err)

	fresh := new(Normal)
	require.NoError(t, e.db.First(fresh, obj.ID).Error)
	initial, err := f.Initial(lang("en"), fresh)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"shared_field": "s", "translated_field": "hello", "language_code": "en"}, initial)

	other := new(Normal)
	require.NoError(t, e.db.First(other, obj.ID).Error)
	initial, err = f.Initial(lang("de"), other)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"shared_field": "s"}, initial)
}

func TestFormSave(t *testing.T) {
	e := newTestEnv(t)
	f, err := NewForm(e.normals, nil)
	require.NoError(t, err)

	obj, err := f.Save(lang("en"), new(Normal), map[string]any{"shared_field": "s", "translated_field": "hello"})
	require.NoError(t, err)
	require.NotZero(t, obj.ID)
	assert.Equal(t, "en", obj.Cached().LanguageCode)

	// a second language on the same owner
	obj, err = f.Save(lang("en"), obj, map[string]any{"translated_field": "hallo", "language_code": "de"})
	require.NoError(t, err)
	assert.Equal(t, "de", obj.Cached().LanguageCode)
	assert.EqualValues(t, 2, e.translationCount(t))

	// back to the persisted english row
	obj, err = f.Save(context.Background(), obj, map[string]any{"translated_field": "hi", "language_code": "en"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, e.translationCount(t))
	row, err := e.normals.GetTranslation(context.Background(), obj, "en")
	require.NoError(t, err)
	assert.Equal(t, "hi", row.TranslatedField)
}

func TestFormSaveValidation(t *testing.T) {
	e := newTestEnv(t)
	f, err := NewForm(e.normals, nil)
	require.NoError(t, err)

	_, err = f.Save(lang("en"), new(Normal), map[string]any{"shared_field": "s"})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs), "got %v", err)
	assert.Equal(t, "TranslatedField", verrs[0].Field())

	var shared int64
	require.NoError(t, e.normals.Real(context.Background()).Count(&shared).Error)
	assert.Zero(t, shared, "nothing is written on invalid input")

	_, err = f.Save(lang("en"), new(Normal), map[string]any{"translated_field": "x", "bogus": 1})
	assert.ErrorIs(t, err, ErrUnknownFields)
	_, err = f.Save(lang("en"), new(Normal), map[string]any{"translated_field": "x", "master_id": 1})
	assert.ErrorIs(t, err, ErrOwnerArgument)
	_, err = f.Save(lang("en"), new(Normal), map[string]any{"translated_field": "x", "language_code": 7})
	assert.ErrorIs(t, err, ErrInvalidLanguage)
}
