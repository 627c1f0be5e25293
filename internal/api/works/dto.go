package works

// ---------- requests

type SeriesI18nInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Year        string `json:"year"`
}

type ArtworkI18nInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Notes       string `json:"notes"`
}

type CreateSeriesRequest struct {
	IDLocked bool                       `json:"id_locked"`
	I18n     map[string]SeriesI18nInput `json:"i18n" binding:"required"` // { "en": {...}, "de": {...} }
}

type UpdateSeriesRequest struct {
	IDLocked *bool                      `json:"id_locked"`
	I18n     map[string]SeriesI18nInput `json:"i18n"` // upsert languages
}

type CreateArtworkRequest struct {
	SortIndex *int `json:"sort_index"`
	IDLocked  bool `json:"id_locked"`
	Sold      bool `json:"sold"`

	Year   string `json:"year"`
	Medium string `json:"medium"`
	SizeCM string `json:"size_cm"`
	Price  string `json:"price"`

	I18n map[string]ArtworkI18nInput `json:"i18n" binding:"required"`
}

type UpdateArtworkRequest struct {
	SortIndex *int  `json:"sort_index"`
	IDLocked  *bool `json:"id_locked"`
	Sold      *bool `json:"sold"`

	Year   *string `json:"year"`
	Medium *string `json:"medium"`
	SizeCM *string `json:"size_cm"`
	Price  *string `json:"price"`

	I18n map[string]ArtworkI18nInput `json:"i18n"` // upsert languages
}

// BulkUpdateArtworksRequest updates every artwork of a series that has a
// translation in the request language. Notes is translated, the rest shared.
type BulkUpdateArtworksRequest struct {
	Sold   *bool   `json:"sold"`
	Price  *string `json:"price"`
	Medium *string `json:"medium"`
	Notes  *string `json:"notes"`
}

type ReorderArtworksRequest struct {
	ArtworkIDs []uint `json:"artwork_ids" binding:"required"` // ordered list
}
