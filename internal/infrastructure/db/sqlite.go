package db

import (
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/migrator"
	"gorm.io/gorm/schema"
)

// sqliteDialector stores decimal columns as TEXT. SQLite gives decimal(65,0)
// NUMERIC affinity, which turns wei amounts above int64 into lossy REALs.
type sqliteDialector struct{ sqlite.Dialector }

func newSQLite(dsn string) gorm.Dialector {
	return sqliteDialector{Dialector: sqlite.Dialector{DSN: dsn}}
}

func (d sqliteDialector) DataTypeOf(field *schema.Field) string {
	if strings.HasPrefix(strings.ToLower(string(field.DataType)), "decimal") {
		return "text"
	}
	return d.Dialector.DataTypeOf(field)
}

// Migrator must be rebuilt around d; the embedded one would bind the plain
// sqlite DataTypeOf.
func (d sqliteDialector) Migrator(db *gorm.DB) gorm.Migrator {
	return sqlite.Migrator{Migrator: migrator.Migrator{Config: migrator.Config{
		DB:                          db,
		Dialector:                   d,
		CreateIndexAfterCreateTable: true,
	}}}
}
