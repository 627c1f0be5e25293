package works

import "gallery-app/internal/translations"

type ArtworkTranslation struct {
	translations.Base

	Title       string `gorm:"not null" json:"title" validate:"required,max=200"`
	Description string `json:"description,omitempty"`
	Notes       string `json:"notes,omitempty"`
}
