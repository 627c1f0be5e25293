// Package translations adds per-language companion tables to gorm models.
//
// A shared model embeds Cache[T] and a translation model embeds Base. Once the
// pair is registered, the Manager exposes the translated columns as if they
// lived on the shared table: filters, ordering, projections, bulk updates and
// deletes are routed to the right table, and every query joins at most one
// translation row per shared row.
package translations

// MaxLanguageCodeLength bounds language_code.
const MaxLanguageCodeLength = 15

// Base holds the columns every translation row carries.
type Base struct {
	ID           uint   `gorm:"primaryKey" json:"-"`
	LanguageCode string `gorm:"size:15;not null;index" json:"language_code"`
	// MasterID is nullable so the reverse relation never cascades at the
	// storage level. Deletes are cascaded by the registry callbacks instead.
	MasterID *uint `gorm:"index" json:"-"`
}

func (b *Base) translationBase() *Base { return b }

// Cache is embedded by shared models (tag it `gorm:"-"`) and holds the active
// translation of the instance.
type Cache[T any] struct {
	row *T
}

// Cached returns the active translation, or nil if none is loaded.
func (c *Cache[T]) Cached() *T { return c.row }

func (c *Cache[T]) translationCache() *Cache[T] { return c }

func (c *Cache[T]) cachedTranslation() any {
	if c.row == nil {
		return nil
	}
	return c.row
}

type translationRow interface {
	translationBase() *Base
}

type cacheHolder[T any] interface {
	translationCache() *Cache[T]
}

// pendingTranslation is the non-generic view the gorm callbacks use.
type pendingTranslation interface {
	cachedTranslation() any
}

func baseOf[T any](row *T) *Base {
	return any(row).(translationRow).translationBase()
}
