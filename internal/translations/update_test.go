package translations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) reload(t *testing.T, id uint, code string) (*Normal, *NormalTranslation) {
	t.Helper()
	obj := new(Normal)
	require.NoError(t, e.db.First(obj, id).Error)
	row, err := e.normals.GetTranslation(context.Background(), obj, code)
	if err != nil {
		return obj, nil
	}
	return obj, row
}

func TestUpdateSharedOnly(t *testing.T) {
	e := newTestEnv(t)
	a, b, _ := seedThree(t, e)

	var rows int64
	n := e.counting(func() {
		var err error
		rows, err = e.normals.Language(context.Background(), "en").Update(Fields{"shared_field": "upd"})
		require.NoError(t, err)
	})
	assert.EqualValues(t, 1, n)
	assert.EqualValues(t, 2, rows)

	for _, id := range []uint{a.ID, b.ID} {
		obj, _ := e.reload(t, id, "en")
		assert.Equal(t, "upd", obj.SharedField)
	}
}

func TestUpdateTranslatedOnly(t *testing.T) {
	e := newTestEnv(t)
	a, _, _ := seedThree(t, e)

	n := e.counting(func() {
		rows, err := e.normals.Language(context.Background(), "ja").
			Filter(Eq("shared_field", "shared-a")).
			Update(Fields{"translated_field": "RINGO"})
		require.NoError(t, err)
		assert.EqualValues(t, 1, rows)
	})
	assert.EqualValues(t, 1, n)

	_, ja := e.reload(t, a.ID, "ja")
	assert.Equal(t, "RINGO", ja.TranslatedField)
	_, en := e.reload(t, a.ID, "en")
	assert.Equal(t, "apple", en.TranslatedField, "other languages are untouched")
}

func TestUpdateMixed(t *testing.T) {
	e := newTestEnv(t)
	a, b, _ := seedThree(t, e)

	n := e.counting(func() {
		_, err := e.normals.Language(context.Background(), "en").
			Filter(Eq("translated_field", "apple")).
			Update(Fields{"shared_field": "mixed", "translated_field": "APPLE"})
		require.NoError(t, err)
	})
	assert.EqualValues(t, 2, n)

	obj, row := e.reload(t, a.ID, "en")
	assert.Equal(t, "mixed", obj.SharedField)
	assert.Equal(t, "APPLE", row.TranslatedField)

	other, _ := e.reload(t, b.ID, "en")
	assert.Equal(t, "shared-b", other.SharedField)
}

func TestUpdateMixedRewritingSharedFilter(t *testing.T) {
	e := newTestEnv(t)
	a, _, _ := seedThree(t, e)

	_, err := e.normals.Language(context.Background(), "en").
		Filter(Eq("shared_field", "shared-a")).
		Update(Fields{"shared_field": "moved", "translated_field": "moved too"})
	require.NoError(t, err)

	obj, row := e.reload(t, a.ID, "en")
	assert.Equal(t, "moved", obj.SharedField)
	assert.Equal(t, "moved too", row.TranslatedField)
}

func TestUpdateMixedRewritingBothFilters(t *testing.T) {
	e := newTestEnv(t)
	a, _, _ := seedThree(t, e)

	n := e.counting(func() {
		_, err := e.normals.Language(context.Background(), "en").
			Filter(Eq("shared_field", "shared-a"), Eq("translated_field", "apple")).
			Update(Fields{"shared_field": "x", "translated_field": "y"})
		require.NoError(t, err)
	})
	assert.EqualValues(t, 3, n, "owners are fetched first")

	obj, row := e.reload(t, a.ID, "en")
	assert.Equal(t, "x", obj.SharedField)
	assert.Equal(t, "y", row.TranslatedField)
}

func TestUpdateErrors(t *testing.T) {
	e := newTestEnv(t)
	q := e.normals.Language(context.Background(), "en")

	_, err := q.Limit(1).Update(Fields{"shared_field": "x"})
	assert.ErrorIs(t, err, ErrSlicedQuery)
	_, err = q.Update(Fields{"master_id": 1})
	assert.ErrorIs(t, err, ErrOwnerArgument)
	_, err = q.Update(Fields{"bogus": 1})
	assert.ErrorIs(t, err, ErrUnknownFields)
	_, err = q.Update(Fields{"language_code": "ja", "translated_field": "x"})
	assert.ErrorIs(t, err, ErrLanguageArgument)
	_, err = q.Update(Fields{"LanguageCode": "ja"})
	assert.ErrorIs(t, err, ErrLanguageArgument)

	n, err := q.Update(Fields{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUnscopedSharedUpdateTouchesAllRows(t *testing.T) {
	e := newTestEnv(t)
	seedThree(t, e)

	rows, err := e.normals.Query(context.Background()).Update(Fields{"shared_field": "all"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, rows)
}
