package works

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"gallery-app/internal/domain/works"
	"gallery-app/internal/translations"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

type ArtworkDTO struct {
	ID        uint `json:"id"`
	SeriesID  uint `json:"seriesId"`
	SortIndex int  `json:"sortIndex"`
	IDLocked  bool `json:"idLocked,omitempty"`
	Sold      bool `json:"sold"`

	Year   string `json:"year"`
	Medium string `json:"medium"`
	SizeCM string `json:"size_cm"`
	Price  string `json:"price"`

	// Language is empty when the artwork has no translation in the request
	// language.
	Language    string `json:"language,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

type SeriesDTO struct {
	ID       uint `json:"id"`
	IDLocked bool `json:"idLocked,omitempty"`

	Language    string `json:"language,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Year        string `json:"year,omitempty"`

	CreatedAt time.Time    `json:"createdAt"`
	Items     []ArtworkDTO `json:"items,omitempty"`
}

type TitleDTO struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func toSeriesDTO(s *works.Series) SeriesDTO {
	out := SeriesDTO{ID: s.ID, IDLocked: s.IDLocked, CreatedAt: s.CreatedAt}
	if t := s.Cached(); t != nil {
		out.Language = t.LanguageCode
		out.Title = t.Title
		out.Description = t.Description
		out.Year = t.Year
	}
	return out
}

func toArtworkDTO(a *works.Artwork) ArtworkDTO {
	out := ArtworkDTO{
		ID:        a.ID,
		SeriesID:  a.SeriesID,
		SortIndex: a.SortIndex,
		IDLocked:  a.IDLocked,
		Sold:      a.Sold,
		Year:      a.Year,
		Medium:    a.Medium,
		SizeCM:    a.SizeCM,
		Price:     a.Price,
	}
	if t := a.Cached(); t != nil {
		out.Language = t.LanguageCode
		out.Title = t.Title
		out.Description = t.Description
		out.Notes = t.Notes
	}
	return out
}

var errLocked = errors.New("locked")

// writeError maps store errors onto the JSON error shape.
func writeError(c *gin.Context, entity string, action string, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, translations.ErrTranslationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": entity + " has no translation in this language"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": entity + " not found"})
	case errors.Is(err, errLocked):
		c.JSON(http.StatusForbidden, gin.H{"error": entity + " is locked"})
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, translations.ErrMultipleObjects):
		c.JSON(http.StatusConflict, gin.H{"error": "Failed to " + action + " " + strings.ToLower(entity), "details": err.Error()})
	case errors.As(err, &verrs),
		errors.Is(err, translations.ErrUnknownFields),
		errors.Is(err, translations.ErrInvalidLanguage),
		errors.Is(err, translations.ErrOwnerArgument),
		errors.Is(err, translations.ErrLanguageArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action + " " + strings.ToLower(entity), "details": err.Error()})
	}
}
