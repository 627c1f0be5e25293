package works

import (
	"context"
	"net/http"
	"sort"
	"strconv"

	"gallery-app/database"
	"gallery-app/internal/domain/works"
	"gallery-app/internal/translations"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type (
	seriesManager  = translations.Manager[works.Series, works.SeriesTranslation]
	artworkManager = translations.Manager[works.Artwork, works.ArtworkTranslation]
)

var (
	seriesFields  = []string{"id_locked", "title", "description", "year"}
	artworkFields = []string{"sort_index", "id_locked", "sold", "year", "medium", "size_cm", "price", "title", "description", "notes"}
)

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func sortedLanguages[V any](m map[string]V) []string {
	langs := make([]string, 0, len(m))
	for lang := range m {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// loadSeries fetches a series without joining any translation.
func loadSeries(ctx context.Context, m *seriesManager, id uint) (*works.Series, error) {
	return m.Query(ctx).Get(translations.Eq("pk", id))
}

func loadArtwork(ctx context.Context, m *artworkManager, id uint) (*works.Artwork, error) {
	return m.Query(ctx).Get(translations.Eq("pk", id))
}

// saveSeriesI18n writes data plus one translation per language of i18n.
// With no languages only the shared row is saved.
func saveSeriesI18n(ctx context.Context, tx *gorm.DB, s *works.Series, data map[string]any, i18n map[string]SeriesI18nInput) error {
	m := database.Series.WithDB(tx)
	if len(i18n) == 0 {
		return saveShared(ctx, tx, s, data)
	}
	form, err := translations.NewForm(m, seriesFields)
	if err != nil {
		return err
	}
	for _, lang := range sortedLanguages(i18n) {
		v := i18n[lang]
		fields := map[string]any{
			"language_code": lang,
			"title":         v.Title,
			"description":   v.Description,
			"year":          v.Year,
		}
		for k, val := range data {
			fields[k] = val
		}
		if _, err := form.Save(ctx, s, fields); err != nil {
			return err
		}
	}
	return nil
}

func saveArtworkI18n(ctx context.Context, tx *gorm.DB, a *works.Artwork, data map[string]any, i18n map[string]ArtworkI18nInput) error {
	m := database.Artworks.WithDB(tx)
	if len(i18n) == 0 {
		return saveShared(ctx, tx, a, data)
	}
	form, err := translations.NewForm(m, artworkFields)
	if err != nil {
		return err
	}
	for _, lang := range sortedLanguages(i18n) {
		v := i18n[lang]
		fields := map[string]any{
			"language_code": lang,
			"title":         v.Title,
			"description":   v.Description,
			"notes":         v.Notes,
		}
		for k, val := range data {
			fields[k] = val
		}
		if _, err := form.Save(ctx, a, fields); err != nil {
			return err
		}
	}
	return nil
}

func saveShared(ctx context.Context, tx *gorm.DB, obj any, data map[string]any) error {
	if len(data) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Model(obj).Updates(data).Error
}
