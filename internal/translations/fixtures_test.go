package translations

import (
	"context"
	"path/filepath"
	"testing"

	"gallery-app/internal/infra/dblog"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type Normal struct {
	ID          uint `gorm:"primaryKey"`
	SharedField string

	Cache[NormalTranslation] `gorm:"-"`
}

type NormalTranslation struct {
	Base
	TranslatedField string `validate:"required,max=50"`
}

// Standard points at Normal without being translatable.
type Standard struct {
	ID            uint `gorm:"primaryKey"`
	StandardField string
	NormalID      uint `gorm:"index"`
}

type testEnv struct {
	db      *gorm.DB
	stmts   *dblog.Logger
	normals *Manager[Normal, NormalTranslation]
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	stmts := dblog.New(zerolog.Nop(), 0)
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{Logger: stmts})
	require.NoError(t, err)
	require.NoError(t, db.Use(NewRegistry("en", zerolog.Nop())))

	normals, err := Register[Normal, NormalTranslation](db, Options{})
	require.NoError(t, err)
	require.NoError(t, normals.Migrate(context.Background()))
	require.NoError(t, db.AutoMigrate(&Standard{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	stmts.Reset()
	return &testEnv{db: db, stmts: stmts, normals: normals}
}

// counting runs fn and returns the number of statements it executed.
func (e *testEnv) counting(fn func()) int64 {
	e.stmts.Reset()
	fn()
	return e.stmts.Statements()
}

func lang(code string) context.Context {
	return WithLanguage(context.Background(), code)
}

// seed creates a Normal with one translation per language in texts.
func (e *testEnv) seed(t *testing.T, shared string, texts map[string]string) *Normal {
	t.Helper()
	var obj *Normal
	for code, text := range texts {
		if obj == nil {
			var err error
			obj, err = e.normals.Create(lang(code), Fields{"shared_field": shared, "translated_field": text})
			require.NoError(t, err)
			continue
		}
		require.NoError(t, e.normals.SetLanguage(context.Background(), obj, code))
		require.NoError(t, e.normals.Set(lang(code), obj, "translated_field", text))
		require.NoError(t, e.db.Save(obj).Error)
	}
	return obj
}

func (e *testEnv) translationCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.normals.Translations(context.Background()).Count(&n).Error)
	return n
}
