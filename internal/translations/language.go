package translations

import (
	"context"
	"fmt"
	"strings"
)

// FallbackLanguage is used when neither the context nor the registry name one.
const FallbackLanguage = "en"

type languageKey struct{}

// WithLanguage returns a context whose ambient language is code.
func WithLanguage(ctx context.Context, code string) context.Context {
	return context.WithValue(ctx, languageKey{}, code)
}

// LanguageFrom returns the language stored by WithLanguage, or "".
func LanguageFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	code, _ := ctx.Value(languageKey{}).(string)
	return code
}

func checkLanguage(code string) error {
	if code == "" || len(code) > MaxLanguageCodeLength || strings.TrimSpace(code) != code {
		return fmt.Errorf("%w: %q", ErrInvalidLanguage, code)
	}
	return nil
}
