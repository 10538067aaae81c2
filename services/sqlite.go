// services/sqlite.go
package services

import (
	stdContext "context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Starefossen/NisseKomm-sub003/model"
	"github.com/Starefossen/NisseKomm-sub003/services/repositories"
	"github.com/Starefossen/NisseKomm-sub003/shared"
)

// SqliteService is the local single-tenant store: one gorm database holding
// session rows and credentials. Opens a sqlite file by default; hosted
// single-tenant installs point DB_DRIVER=postgres at a DSN instead.
type SqliteService struct {
	context.DefaultService
	db *gorm.DB

	driver   string
	database string

	sessions    repositories.SessionRepository
	credentials repositories.CredentialRepository
}

const SQLITE_SVC = "sqlite_svc"

// Id returns Service ID
func (ds SqliteService) Id() string {
	return SQLITE_SVC
}

// Db Access to raw SqliteService db
func (ds *SqliteService) Db() *gorm.DB {
	return ds.db
}

// Configure the service
func (ds *SqliteService) Configure(ctx *context.Context) error {
	ds.driver = strings.ToLower(os.Getenv("DB_DRIVER"))
	if ds.driver == "" {
		ds.driver = "sqlite"
	}

	ds.database = os.Getenv("DB_DATABASE")
	if ds.database == "" {
		ds.database = "nissekomm.db"
	}

	return ds.DefaultService.Configure(ctx)
}

// Start the service and open connection to the database
// Migrate any tables that have changed since last runtime
func (ds *SqliteService) Start() (err error) {
	var dialector gorm.Dialector
	switch ds.driver {
	case "sqlite":
		dialector = sqlite.Open(ds.database)
	case "postgres":
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return errors.New("DB_DRIVER=postgres requires DATABASE_URL")
		}
		dialector = postgres.Open(dsn)
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", ds.driver)
	}

	ds.db, err = gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return err
	}

	models := []interface{}{
		&model.SessionRecord{},
		&model.Credential{},
	}

	err = ds.db.AutoMigrate(models...)
	if err != nil {
		log.Printf("Failed to migrate database: %v", err)
		return err
	}

	ds.sessions = repositories.NewSessionRepository(ds.db)
	ds.credentials = repositories.NewCredentialRepository(ds.db)

	log.Println("Database connected and migrated successfully")
	return nil
}

func (ds *SqliteService) Shutdown() {
}

// Credentials exposes the credential lookup repository.
func (ds *SqliteService) Credentials() *repositories.CredentialRepository {
	return &ds.credentials
}

// ==================== SESSION STORE ====================

func (ds *SqliteService) ReadSession(_ stdContext.Context, sessionID string) (*model.Session, error) {
	sess, err := ds.sessions.Get(sessionID)
	if err != nil {
		return nil, ds.storeError(err)
	}
	return sess, nil
}

func (ds *SqliteService) WriteSession(_ stdContext.Context, sess *model.Session) error {
	if err := ds.sessions.Upsert(sess); err != nil {
		return ds.storeError(err)
	}
	return nil
}

func (ds *SqliteService) PatchSessionFields(_ stdContext.Context, sessionID string, fields map[string]interface{}) error {
	if err := ds.sessions.PatchFields(sessionID, fields); err != nil {
		return ds.storeError(err)
	}
	return nil
}

// storeError folds gorm errors into the persistence port's sentinels.
func (ds *SqliteService) storeError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrSessionNotFound
	}
	return fmt.Errorf("%w: %v", shared.ErrBackendUnavailable, ds.HandleError(err))
}

func (ds *SqliteService) HandleError(err error) error {
	if err == nil {
		return nil
	}

	var statusCode int
	var errorType string

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		statusCode = http.StatusNotFound // 404
		errorType = "NOT_FOUND"
	case errors.Is(err, gorm.ErrDuplicatedKey):
		statusCode = http.StatusConflict // 409
		errorType = "CONFLICT"
	case errors.Is(err, gorm.ErrInvalidTransaction):
		statusCode = http.StatusInternalServerError // 500
		errorType = "TRANSACTION_ERROR"
	default:
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			statusCode = http.StatusConflict // 409
			errorType = "UNIQUE_CONSTRAINT"
		} else if strings.Contains(err.Error(), "no such table") {
			statusCode = http.StatusInternalServerError // 500
			errorType = "SCHEMA_ERROR"
		} else {
			statusCode = http.StatusInternalServerError // 500
			errorType = "INTERNAL_ERROR"
		}
	}

	logEntry := log.WithFields(log.Fields{
		"status_code": statusCode,
		"error_type":  errorType,
		"error":       err.Error(),
	})

	if statusCode >= 500 {
		logEntry.Error("Database error occurred")
	} else {
		logEntry.Warn("Database operation failed")
	}

	return fmt.Errorf("%s: %w", errorType, err)
}
