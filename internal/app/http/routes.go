package routes

import (
	"gallery-app/config"
	authapi "gallery-app/internal/api/auth"
	usersapi "gallery-app/internal/api/users"
	worksapi "gallery-app/internal/api/works"
	"gallery-app/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.POST("/login", middleware.SanitizeAndCleanInputMiddleware(), authapi.Login)
	r.POST("/change-password", middleware.AuthMiddleware(), authapi.ChangePassword)
	r.GET("/me", middleware.AuthMiddleware(), usersapi.GetCurrentUser)

	// every content route runs in the request language
	public := r.Group("/")
	public.Use(middleware.Language(config.LANGUAGES, config.LANGUAGE_CODE))

	public.GET("/series", worksapi.ListSeries)
	public.GET("/series/:id", worksapi.GetSeriesByID)
	public.GET("/artworks", worksapi.ListArtworks)
	public.GET("/artworks/titles", worksapi.ListArtworkTitles)
	public.GET("/artworks/:id", worksapi.GetArtworkByID)

	// Admin routes
	admin := public.Group("/")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin"), middleware.SanitizeAndCleanInputMiddleware())

	admin.POST("/series", worksapi.CreateSeries)
	admin.PUT("/series/:id", worksapi.UpdateSeries)
	admin.DELETE("/series/:id", worksapi.DeleteSeries)
	admin.DELETE("/series/:id/translations/:lang", worksapi.DeleteSeriesTranslation)

	admin.POST("/series/:id/artworks", worksapi.CreateArtwork)
	admin.PATCH("/series/:id/artworks", worksapi.BulkUpdateArtworks)
	admin.PUT("/series/:id/artworks/reorder", worksapi.ReorderArtworks)

	admin.PUT("/artworks/:id", worksapi.UpdateArtwork)
	admin.DELETE("/artworks/:id", worksapi.DeleteArtwork)
	admin.DELETE("/artworks/:id/translations/:lang", worksapi.DeleteArtworkTranslation)
}
