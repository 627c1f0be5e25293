package translations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteCascades(t *testing.T) {
	e := newTestEnv(t)
	_, b, c := seedThree(t, e)
	require.EqualValues(t, 4, e.translationCount(t))

	rows, err := e.normals.Language(context.Background(), "en").Filter(Eq("translated_field", "apple")).Delete()
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	// every language of a is gone, b and c keep theirs
	assert.EqualValues(t, 2, e.translationCount(t))
	var left []uint
	require.NoError(t, e.normals.Real(context.Background()).Order("id").Pluck("id", &left).Error)
	assert.Equal(t, []uint{b.ID, c.ID}, left)
}

func TestGormDeleteCascades(t *testing.T) {
	e := newTestEnv(t)
	a, _, _ := seedThree(t, e)

	n := e.counting(func() {
		require.NoError(t, e.db.Delete(a).Error)
	})
	assert.EqualValues(t, 2, n)
	assert.EqualValues(t, 2, e.translationCount(t))

	require.NoError(t, e.db.Where("shared_field = ?", "shared-b").Delete(&Normal{}).Error)
	assert.EqualValues(t, 1, e.translationCount(t))
}

func TestDeleteTranslations(t *testing.T) {
	e := newTestEnv(t)
	a, b, c := seedThree(t, e)

	rows, err := e.normals.Query(lang("ja")).DeleteTranslations()
	require.NoError(t, err)
	assert.EqualValues(t, 2, rows)

	var shared int64
	require.NoError(t, e.normals.Real(context.Background()).Count(&shared).Error)
	assert.EqualValues(t, 3, shared, "shared rows survive")

	_, row := e.reload(t, a.ID, "en")
	require.NotNil(t, row)
	_, row = e.reload(t, c.ID, "ja")
	assert.Nil(t, row)

	rows, err = e.normals.Language(context.Background(), "en").Filter(Eq("pk", b.ID)).DeleteTranslations()
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)
	assert.EqualValues(t, 1, e.translationCount(t))
}

func TestDeleteSliced(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.normals.Query(context.Background()).Offset(1).Delete()
	assert.ErrorIs(t, err, ErrSlicedQuery)
	_, err = e.normals.Query(context.Background()).Limit(1).DeleteTranslations()
	assert.ErrorIs(t, err, ErrSlicedQuery)
}
