package works

import (
	"time"

	"gallery-app/internal/translations"
)

type Artwork struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SortIndex int  `gorm:"not null;default:0;index:idx_artworks_series_sort,priority:2" json:"sort_index"`
	SeriesID  uint `gorm:"not null;index:idx_artworks_series_sort,priority:1" json:"series_id"`

	IDLocked bool `gorm:"not null;default:false" json:"id_locked"`
	Sold     bool `gorm:"not null;default:false" json:"sold"`

	Year   string `json:"year,omitempty"`
	Medium string `json:"medium,omitempty"`
	SizeCM string `gorm:"column:size_cm" json:"size_cm,omitempty"`
	Price  string `json:"price,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	translations.Cache[ArtworkTranslation] `gorm:"-" json:"-"`
}
