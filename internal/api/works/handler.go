package works

import (
	"net/http"
	"strconv"

	"gallery-app/database"
	"gallery-app/internal/app/http/middleware"
	"gallery-app/internal/domain/works"
	"gallery-app/internal/translations"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ------------------------------
// GET /series  (request language only)
// ------------------------------
func ListSeries(c *gin.Context) {
	ctx := c.Request.Context()

	series, err := database.Series.Language(ctx, "").OrderBy("-created_at", "pk").All()
	if err != nil {
		writeError(c, "Series", "load", err)
		return
	}

	out := make([]SeriesDTO, 0, len(series))
	for _, s := range series {
		out = append(out, toSeriesDTO(s))
	}
	c.JSON(http.StatusOK, gin.H{"series": out})
}

// ------------------------------
// GET /series/:id  (series + items in the request language)
// ------------------------------
func GetSeriesByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	s, err := database.Series.Language(ctx, "").Get(translations.Eq("pk", id))
	if err != nil {
		writeError(c, "Series", "load", err)
		return
	}

	// items keep their shared data even when they lack a translation
	items, err := database.Artworks.Query(ctx).
		Filter(translations.Eq("series_id", id)).
		OrderBy("sort_index", "pk").
		All()
	if err == nil {
		err = database.Artworks.Prefetch(ctx, "", items...)
	}
	if err != nil {
		writeError(c, "Artwork", "load", err)
		return
	}

	out := toSeriesDTO(s)
	out.Items = make([]ArtworkDTO, 0, len(items))
	for _, a := range items {
		out.Items = append(out.Items, toArtworkDTO(a))
	}
	c.JSON(http.StatusOK, out)
}

// ------------------------------
// GET /artworks?q=&series_id=
// ------------------------------
func ListArtworks(c *gin.Context) {
	ctx := c.Request.Context()

	q := database.Artworks.Language(ctx, "")
	if term := c.Query("q"); term != "" {
		q = q.Filter(translations.IContains("title", term))
	}
	if sid := c.Query("series_id"); sid != "" {
		seriesID, err := strconv.ParseUint(sid, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid series_id"})
			return
		}
		q = q.Filter(translations.Eq("series_id", uint(seriesID)))
	}

	artworks, err := q.OrderBy("series_id", "sort_index", "pk").All()
	if err != nil {
		writeError(c, "Artwork", "load", err)
		return
	}
	out := make([]ArtworkDTO, 0, len(artworks))
	for _, a := range artworks {
		out = append(out, toArtworkDTO(a))
	}
	c.JSON(http.StatusOK, gin.H{"artworks": out})
}

// ------------------------------
// GET /artworks/titles  (id + title pairs)
// ------------------------------
func ListArtworkTitles(c *gin.Context) {
	rows, err := database.Artworks.Language(c.Request.Context(), "").
		ValuesList("id", "title").
		OrderBy("title").
		Tuples()
	if err != nil {
		writeError(c, "Artwork", "load", err)
		return
	}
	out := make([]TitleDTO, 0, len(rows))
	for _, row := range rows {
		id, _ := row[0].(uint)
		title, _ := row[1].(string)
		out = append(out, TitleDTO{ID: id, Title: title})
	}
	c.JSON(http.StatusOK, gin.H{"titles": out})
}

// ------------------------------
// GET /artworks/:id
// ------------------------------
func GetArtworkByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	a, err := database.Artworks.Language(c.Request.Context(), "").Get(translations.Eq("pk", id))
	if err != nil {
		writeError(c, "Artwork", "load", err)
		return
	}
	c.JSON(http.StatusOK, toArtworkDTO(a))
}

// ------------------------------
// POST /series
// ------------------------------
func CreateSeries(c *gin.Context) {
	var req CreateSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.I18n) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title in at least one language required"})
		return
	}
	ctx := c.Request.Context()

	s := &works.Series{}
	if uid := c.GetUint(middleware.UserIDKey); uid != 0 {
		s.UserID = &uid
	}
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		return saveSeriesI18n(ctx, tx, s, map[string]any{"id_locked": req.IDLocked}, req.I18n)
	})
	if err != nil {
		writeError(c, "Series", "create", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": s.ID})
}

// ------------------------------
// PUT /series/:id
// ------------------------------
func UpdateSeries(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req UpdateSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		s, err := loadSeries(ctx, database.Series.WithDB(tx), id)
		if err != nil {
			return err
		}
		if s.IDLocked && (req.IDLocked == nil || *req.IDLocked) {
			return errLocked
		}
		data := map[string]any{}
		if req.IDLocked != nil {
			data["id_locked"] = *req.IDLocked
		}
		return saveSeriesI18n(ctx, tx, s, data, req.I18n)
	})
	if err != nil {
		writeError(c, "Series", "update", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ------------------------------
// DELETE /series/:id  (artworks and every translation go too)
// ------------------------------
func DeleteSeries(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var deleted, items int64
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		items, err = database.Artworks.WithDB(tx).Query(ctx).
			Filter(translations.Eq("series_id", id)).
			Delete()
		if err != nil {
			return err
		}
		deleted, err = database.Series.WithDB(tx).Query(ctx).
			Filter(translations.Eq("pk", id)).
			Delete()
		if err == nil && deleted == 0 {
			err = gorm.ErrRecordNotFound
		}
		return err
	})
	if err != nil {
		writeError(c, "Series", "delete", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted", "items": items})
}

// ------------------------------
// DELETE /series/:id/translations/:lang
// ------------------------------
func DeleteSeriesTranslation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	n, err := database.Series.Language(c.Request.Context(), c.Param("lang")).
		Filter(translations.Eq("pk", id)).
		DeleteTranslations()
	if err == nil && n == 0 {
		err = translations.ErrTranslationNotFound
	}
	if err != nil {
		writeError(c, "Series", "delete", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ------------------------------
// POST /series/:id/artworks
// ------------------------------
func CreateArtwork(c *gin.Context) {
	seriesID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req CreateArtworkRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.I18n) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title in at least one language required"})
		return
	}
	ctx := c.Request.Context()

	a := &works.Artwork{SeriesID: seriesID}
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		s, err := loadSeries(ctx, database.Series.WithDB(tx), seriesID)
		if err != nil {
			return err
		}
		if s.IDLocked {
			return errLocked
		}

		sortIndex := 0
		if req.SortIndex != nil {
			sortIndex = *req.SortIndex
		} else {
			var last int64
			if last, err = database.Artworks.WithDB(tx).Query(ctx).Filter(translations.Eq("series_id", seriesID)).Count(); err != nil {
				return err
			}
			sortIndex = int(last)
		}

		data := map[string]any{
			"sort_index": sortIndex,
			"id_locked":  req.IDLocked,
			"sold":       req.Sold,
			"year":       req.Year,
			"medium":     req.Medium,
			"size_cm":    req.SizeCM,
			"price":      req.Price,
		}
		return saveArtworkI18n(ctx, tx, a, data, req.I18n)
	})
	if err != nil {
		writeError(c, "Series", "create artwork in", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": a.ID})
}

// ------------------------------
// PUT /artworks/:id
// ------------------------------
func UpdateArtwork(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req UpdateArtworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		a, err := loadArtwork(ctx, database.Artworks.WithDB(tx), id)
		if err != nil {
			return err
		}
		if a.IDLocked && (req.IDLocked == nil || *req.IDLocked) {
			return errLocked
		}

		data := map[string]any{}
		if req.SortIndex != nil {
			data["sort_index"] = *req.SortIndex
		}
		if req.IDLocked != nil {
			data["id_locked"] = *req.IDLocked
		}
		if req.Sold != nil {
			data["sold"] = *req.Sold
		}
		if req.Year != nil {
			data["year"] = *req.Year
		}
		if req.Medium != nil {
			data["medium"] = *req.Medium
		}
		if req.SizeCM != nil {
			data["size_cm"] = *req.SizeCM
		}
		if req.Price != nil {
			data["price"] = *req.Price
		}
		return saveArtworkI18n(ctx, tx, a, data, req.I18n)
	})
	if err != nil {
		writeError(c, "Artwork", "update", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ------------------------------
// DELETE /artworks/:id
// ------------------------------
func DeleteArtwork(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	n, err := database.Artworks.Query(c.Request.Context()).Filter(translations.Eq("pk", id)).Delete()
	if err == nil && n == 0 {
		err = gorm.ErrRecordNotFound
	}
	if err != nil {
		writeError(c, "Artwork", "delete", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ------------------------------
// DELETE /artworks/:id/translations/:lang
// ------------------------------
func DeleteArtworkTranslation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	n, err := database.Artworks.Language(c.Request.Context(), c.Param("lang")).
		Filter(translations.Eq("pk", id)).
		DeleteTranslations()
	if err == nil && n == 0 {
		err = translations.ErrTranslationNotFound
	}
	if err != nil {
		writeError(c, "Artwork", "delete", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ------------------------------
// PATCH /series/:id/artworks  (bulk, request language)
// ------------------------------
func BulkUpdateArtworks(c *gin.Context) {
	seriesID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req BulkUpdateArtworksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := translations.Fields{}
	if req.Sold != nil {
		fields["sold"] = *req.Sold
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.Medium != nil {
		fields["medium"] = *req.Medium
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}

	n, err := database.Artworks.Language(c.Request.Context(), "").
		Filter(translations.Eq("series_id", seriesID), translations.Eq("id_locked", false)).
		Update(fields)
	if err != nil {
		writeError(c, "Artwork", "update", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "updated": n})
}

// ------------------------------
// PUT /series/:id/artworks/reorder
// ------------------------------
func ReorderArtworks(c *gin.Context) {
	seriesID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req ReorderArtworksRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.ArtworkIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "artwork_ids required"})
		return
	}
	ctx := c.Request.Context()

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		s, err := loadSeries(ctx, database.Series.WithDB(tx), seriesID)
		if err != nil {
			return err
		}
		if s.IDLocked {
			return errLocked
		}

		artworks := database.Artworks.WithDB(tx).Query(ctx).Filter(translations.Eq("series_id", s.ID))
		for i, artworkID := range req.ArtworkIDs {
			if _, err := artworks.Filter(translations.Eq("pk", artworkID)).Update(translations.Fields{"sort_index": i}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		writeError(c, "Series", "reorder artworks of", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
