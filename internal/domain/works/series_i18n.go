package works

import "gallery-app/internal/translations"

// SeriesTranslation holds the per-language columns of a Series.
type SeriesTranslation struct {
	translations.Base

	Title       string `gorm:"not null" json:"title" validate:"required,max=200"`
	Description string `json:"description,omitempty" validate:"max=5000"`
	Year        string `gorm:"size:16" json:"year,omitempty" validate:"max=16"`
}
