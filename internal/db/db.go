package db

import (
	"fmt"
	"strings"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// Blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"invoiceapp/internal/models"
)

// Options controls how Connect opens and prepares the database.
type Options struct {
	// DSN is a postgres URL (postgres://...) or a sqlite file path/URI.
	DSN string
	// SQLMigrations runs the files under migrations/ via golang-migrate
	// instead of gorm AutoMigrate. Only meaningful for postgres.
	SQLMigrations bool
	// Debug enables gorm query logging.
	Debug bool
}

// Connect opens the database selected by the DSN and applies migrations.
// Postgres connections are retried a few times to let the server come up.
func Connect(opts Options) (*gorm.DB, error) {
	if strings.TrimSpace(opts.DSN) == "" {
		return nil, fmt.Errorf("database DSN is empty")
	}

	logLevel := logger.Silent
	if opts.Debug {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var conn *gorm.DB
	var err error
	if isPostgres(opts.DSN) {
		for i := 0; i < 5; i++ {
			conn, err = gorm.Open(postgres.Open(opts.DSN), cfg)
			if err == nil {
				break
			}
			time.Sleep(2 * time.Second)
		}
	} else {
		conn, err = gorm.Open(sqlite.Open(opts.DSN), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if pingErr := conn.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}

	if opts.SQLMigrations && isPostgres(opts.DSN) {
		if err := runSQLMigrations(opts.DSN); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
		return conn, nil
	}
	if err := Migrate(conn); err != nil {
		return nil, err
	}
	return conn, nil
}

// Migrate applies the gorm schema for all application models.
func Migrate(conn *gorm.DB) error {
	for _, m := range []any{
		&models.Customer{},
		&models.Invoice{},
		&models.InvoiceItem{},
	} {
		if err := conn.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

func isPostgres(dsn string) bool {
	lower := strings.ToLower(dsn)
	return strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://")
}

// runSQLMigrations executes migrations in ./migrations using the
// golang-migrate file source.
func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
