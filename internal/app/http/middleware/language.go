package middleware

import (
	"net/http"

	"gallery-app/internal/translations"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

// LanguageKey is the gin context key holding the request language.
const LanguageKey = "language"

// Language resolves the language of each request and stores it as the
// ambient language of the request context. The order is ?lang=, then
// Accept-Language matched against supported, then fallback.
func Language(supported []string, fallback string) gin.HandlerFunc {
	tags := make([]language.Tag, 0, len(supported))
	codes := make([]string, 0, len(supported))
	for _, s := range supported {
		tag, err := language.Parse(s)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		codes = append(codes, s)
	}
	matcher := language.NewMatcher(tags)

	return func(c *gin.Context) {
		code := fallback
		if q := c.Query("lang"); q != "" {
			if len(q) > translations.MaxLanguageCodeLength {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid language"})
				return
			}
			code = q
		} else if header := c.GetHeader("Accept-Language"); header != "" && len(tags) > 0 {
			if wanted, _, err := language.ParseAcceptLanguage(header); err == nil && len(wanted) > 0 {
				if _, idx, conf := matcher.Match(wanted...); conf != language.No && idx < len(codes) {
					code = codes[idx]
				}
			}
		}

		c.Set(LanguageKey, code)
		c.Header("Content-Language", code)
		c.Request = c.Request.WithContext(translations.WithLanguage(c.Request.Context(), code))
		c.Next()
	}
}
