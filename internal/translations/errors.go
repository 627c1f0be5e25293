package translations

import (
	"errors"

	"gorm.io/gorm"
)

// Definition-time errors.
var (
	ErrNotTranslatable   = errors.New("model does not embed translations.Cache")
	ErrTranslationType   = errors.New("model is a translation model")
	ErrAlreadyRegistered = errors.New("translation model registered more than once")
	ErrReservedField     = errors.New("reserved field name")
)

// Usage errors.
var (
	ErrUnknownFields        = errors.New("unknown field(s)")
	ErrOwnerArgument        = errors.New("master cannot be passed explicitly")
	ErrNoTranslationContext = errors.New("no cached translation and no persisted owner")
	ErrInvalidLanguage      = errors.New("invalid language code")
	ErrSlicedQuery          = errors.New("cannot update or delete a sliced query")
	ErrLanguageArgument     = errors.New("language_code cannot be updated in bulk")
)

// Lookup errors. ErrNotFound matches gorm.ErrRecordNotFound with errors.Is,
// ErrTranslationNotFound does not.
var (
	ErrNotFound            = gorm.ErrRecordNotFound
	ErrTranslationNotFound = errors.New("translation not found")
	ErrMultipleObjects     = errors.New("get returned more than one object")
)
