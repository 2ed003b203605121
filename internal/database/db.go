package database

import (
	"fmt"
	stdlog "log"
	"os"
	"time"

	"go-cashflow/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const connectAttempts = 5

// Connect opens the configured database, retrying while it comes up,
// and syncs the schema.
func Connect(driver, dsn, logLevel string, log logrus.FieldLogger) (*gorm.DB, error) {
	dialector, err := Dialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	var db *gorm.DB
	for i := 0; i < connectAttempts; i++ {
		db, err = gorm.Open(dialector, Config(logLevel, log))
		if err == nil {
			break
		}
		log.WithError(err).Warnf("Failed to connect to database. Retrying in 2 seconds... (%d/%d)", i+1, connectAttempts)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to %s after %d attempts: %w", driver, connectAttempts, err)
	}
	log.WithField("driver", driver).Info("Connected to database")

	if err := Migrate(db); err != nil {
		return nil, err
	}
	log.Info("Database schema synced")
	return db, nil
}

func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "mysql":
		return mysql.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", driver)
}

// Config is shared by the server and tests. Times are written in UTC so
// range filters compare consistently on every driver. A nil w logs to stdout.
func Config(logLevel string, w logger.Writer) *gorm.Config {
	if w == nil {
		w = stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags)
	}
	return &gorm.Config{
		Logger: logger.New(
			w,
			logger.Config{
				LogLevel:      parseLogLevel(logLevel),
				SlowThreshold: time.Second,
			},
		),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

func parseLogLevel(s string) logger.LogLevel {
	switch s {
	case "silent":
		return logger.Silent
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	}
	return logger.Error
}
