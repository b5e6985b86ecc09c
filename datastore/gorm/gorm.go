package gorm

import (
	"fmt"

	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/pix-rail/pix-key-api/configs"
	"github.com/pix-rail/pix-key-api/migrations"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	dbTypePostgresql = "psql"
	dbTypeMysql      = "mysql"
	dbTypeSqlite     = "sqlite"
)

func New(cfg *configs.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.DatabaseType {
	default:
		return nil, fmt.Errorf("database type '%s' not supported", cfg.DatabaseType)
	case dbTypePostgresql:
		dialector = postgres.Open(cfg.DatabaseDSN)
	case dbTypeMysql:
		dialector = mysql.Open(cfg.DatabaseDSN)
	case dbTypeSqlite:
		dialector = sqlite.Open(cfg.DatabaseDSN)
	}

	options := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(dialector, options)
	if err != nil {
		return nil, err
	}

	if err := Migrate(db, cfg.DatabaseVersion); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate runs all pending migrations, or migrates up to the given
// migration version if one is set.
func Migrate(db *gorm.DB, version string) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, migrations.List())

	if version != "" {
		log.WithFields(log.Fields{"version": version}).Info("Migrating database to version")
		return m.MigrateTo(version)
	}

	return m.Migrate()
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		panic("unable to close database")
	}
	err = sqlDB.Close()
	if err != nil {
		panic("unable to close database")
	}
}
