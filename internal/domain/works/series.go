package works

import (
	"time"

	"gallery-app/internal/translations"
)

type Series struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID   *uint `gorm:"index" json:"-"`
	IDLocked bool  `gorm:"not null;default:false" json:"id_locked"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	translations.Cache[SeriesTranslation] `gorm:"-" json:"-"`
}
