package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gallery-app/config"
	"gallery-app/internal/translations"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func languageOf(t *testing.T, target string, header string) (string, *httptest.ResponseRecorder) {
	t.Helper()
	r := gin.New()
	r.Use(Language([]string{"en", "ja", "pt-BR"}, "en"))
	var got string
	r.GET("/", func(c *gin.Context) {
		got = translations.LanguageFrom(c.Request.Context())
		assert.Equal(t, got, c.GetString(LanguageKey))
		c.Status(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if header != "" {
		req.Header.Set("Accept-Language", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return got, w
}

func TestLanguage(t *testing.T) {
	cases := []struct {
		target, header, want string
	}{
		{"/", "", "en"},
		{"/?lang=de", "ja", "de"},
		{"/", "ja-JP,ja;q=0.9,en;q=0.5", "ja"},
		{"/", "pt-BR", "pt-BR"},
		{"/", "ko", "en"},
		{"/", "not a header;;", "en"},
	}
	for _, tc := range cases {
		got, w := languageOf(t, tc.target, tc.header)
		assert.Equal(t, tc.want, got, "%s with Accept-Language %q", tc.target, tc.header)
		assert.Equal(t, tc.want, w.Header().Get("Content-Language"))
	}
}

func TestLanguageRejectsLongCodes(t *testing.T) {
	_, w := languageOf(t, "/?lang="+strings.Repeat("x", 16), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSanitizeNested(t *testing.T) {
	r := gin.New()
	r.Use(SanitizeAndCleanInputMiddleware())
	var body map[string]interface{}
	r.POST("/", func(c *gin.Context) {
		require.NoError(t, c.ShouldBindJSON(&body))
		c.Status(http.StatusOK)
	})

	payload := `{"title":"<b>hi</b>","i18n":{"en":{"title":"<script>x</script>ok"}},"tags":["<i>a</i>"],"n":3}`
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload)))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "hi", body["title"])
	assert.Equal(t, "ok", body["i18n"].(map[string]interface{})["en"].(map[string]interface{})["title"])
	assert.Equal(t, []interface{}{"a"}, body["tags"])
	assert.EqualValues(t, 3, body["n"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func token(t *testing.T, role string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email":   "admin@example.com",
		"role":    role,
		"user_id": 7,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(config.JWT_SECRET))
	require.NoError(t, err)
	return s
}

func TestAuthAndRole(t *testing.T) {
	config.JWT_SECRET = "test-secret"
	r := gin.New()
	r.GET("/admin", AuthMiddleware(), RequireRole("admin"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint("user_id")})
	})

	do := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusUnauthorized, do("").Code)
	assert.Equal(t, http.StatusUnauthorized, do("Token abc").Code)
	assert.Equal(t, http.StatusUnauthorized, do("Bearer garbage").Code)
	assert.Equal(t, http.StatusForbidden, do("Bearer "+token(t, "user")).Code)

	w := do("Bearer " + token(t, "admin"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":7}`, w.Body.String())

	signed, err := SignToken(9, "a@example.com", "admin", time.Hour)
	require.NoError(t, err)
	w = do("Bearer " + signed)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":9}`, w.Body.String())
}

func TestAuthRejectsUnacceptableTokens(t *testing.T) {
	config.JWT_SECRET = "test-secret"
	r := gin.New()
	r.GET("/admin", AuthMiddleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
	do := func(tok string) int {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	sign := func(method jwt.SigningMethod, claims jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(config.JWT_SECRET))
		require.NoError(t, err)
		return s
	}

	expired, err := SignToken(1, "a@example.com", "admin", -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(expired))

	// no exp claim
	assert.Equal(t, http.StatusUnauthorized, do(sign(jwt.SigningMethodHS256, jwt.MapClaims{"role": "admin"})))
	// only HS256 is accepted
	assert.Equal(t, http.StatusUnauthorized, do(sign(jwt.SigningMethodHS512, jwt.MapClaims{
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})))

	config.JWT_SECRET = "other-secret"
	valid, err := SignToken(1, "a@example.com", "admin", time.Hour)
	require.NoError(t, err)
	config.JWT_SECRET = "test-secret"
	assert.Equal(t, http.StatusUnauthorized, do(valid))
}
