package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"gallery-app/config"
	"gallery-app/internal/domain/users"
	"gallery-app/internal/domain/works"
	"gallery-app/internal/infra/dblog"
	"gallery-app/internal/infra/logger"
	"gallery-app/internal/translations"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var (
	DB *gorm.DB
	// Statements counts the statements DB has executed.
	Statements *dblog.Logger

	Series   *translations.Manager[works.Series, works.SeriesTranslation]
	Artworks *translations.Manager[works.Artwork, works.ArtworkTranslation]
)

// Open connects to driver ("postgres" or "sqlite") and installs the
// translations plugin with defaultLanguage.
func Open(driver, dsn, defaultLanguage string, log zerolog.Logger) (*gorm.DB, *dblog.Logger, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres", "":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	stmts := dblog.New(log, 200*time.Millisecond)
	db, err := gorm.Open(dialector, &gorm.Config{Logger: stmts, TranslateError: true})
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to %s: %w", driver, err)
	}
	if err := db.Use(translations.NewRegistry(defaultLanguage, log.With().Str("component", "translations").Logger())); err != nil {
		return nil, nil, err
	}
	return db, stmts, nil
}

// Connect opens the database, registers the translatable models and
// migrates them. It sets the package globals.
func Connect(driver, dsn, defaultLanguage string) error {
	db, stmts, err := Open(driver, dsn, defaultLanguage, *logger.Named("db"))
	if err != nil {
		return err
	}

	series, err := translations.Register[works.Series, works.SeriesTranslation](db, translations.Options{})
	if err != nil {
		return err
	}
	artworks, err := translations.Register[works.Artwork, works.ArtworkTranslation](db, translations.Options{})
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := db.WithContext(ctx).AutoMigrate(&users.User{}); err != nil {
		return err
	}
	if err := series.Migrate(ctx); err != nil {
		return err
	}
	if err := artworks.Migrate(ctx); err != nil {
		return err
	}

	DB, Statements = db, stmts
	Series, Artworks = series, artworks
	return nil
}

// EnsureAdmin creates the admin account for email unless it exists.
func EnsureAdmin(email, password string) error {
	var n int64
	if err := DB.Model(&users.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	hashed := string(hash)
	return DB.Create(&users.User{Name: "admin", Email: email, Password: &hashed, Role: users.RoleAdmin}).Error
}

func InitDB() {
	if err := Connect(config.DB_DRIVER, config.DB_URL, config.LANGUAGE_CODE); err != nil {
		log.Fatal("❌ Failed to connect to database:", err)
	}
	if config.ADMIN_EMAIL != "" && config.ADMIN_PASSWORD != "" {
		if err := EnsureAdmin(config.ADMIN_EMAIL, config.ADMIN_PASSWORD); err != nil {
			log.Fatal("❌ Failed to create admin:", err)
		}
	}
	logger.Named("db").Info().Str("driver", config.DB_DRIVER).Msg("✅ Connected and migrated successfully")
}
