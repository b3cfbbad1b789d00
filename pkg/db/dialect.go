package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Dialect picks the GORM driver for the configured database type.
func Dialect(cfg Config) (gorm.Dialector, error) {
	switch cfg.Type {
	case "mysql":
		return mysql.Open(cfg.mysqlDSN()), nil
	case "postgres":
		return postgres.Open(cfg.postgresDSN()), nil
	case "sqlite":
		return sqlite.Open(cfg.sqlitePath()), nil
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.Type)
	}
}
