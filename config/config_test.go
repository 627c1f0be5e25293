package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"en", "ja", "pt-br"}, splitList(" en, ja ,,pt-br "))
	assert.Nil(t, splitList(""))
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("DB_URL", "file.db")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("LANGUAGE_CODE", "de")
	t.Setenv("LANGUAGES", "de,en")

	LoadEnv()

	assert.Equal(t, "8080", PORT)
	assert.Equal(t, "sqlite", DB_DRIVER)
	assert.Equal(t, "de", LANGUAGE_CODE)
	assert.Equal(t, []string{"de", "en"}, LANGUAGES)
}
