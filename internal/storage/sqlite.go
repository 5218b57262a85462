package storage

import (
	"building-access-control/internal/config"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteProvider struct {
	SQLProvider
}

func NewSQLiteProvider(config *config.Storage) (provider *SQLiteProvider) {
	sp := NewSQLProvider(config, "sqlite3", config.SQLite.Path+"?_foreign_keys=on")
	if sp == nil {
		return nil
	}
	return &SQLiteProvider{
		SQLProvider: *sp,
	}
}
