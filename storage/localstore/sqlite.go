// Package localstore provides the local key/value storage of the portal,
// the equivalent of a browser's localStorage.
package localstore

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/trezcool/masomo-portal/core"
)

type entry struct {
	Key       string `gorm:"column:storage_key;primaryKey"`
	Value     string `gorm:"column:value;not null"`
	UpdatedAt time.Time
}

func (entry) TableName() string { return "local_storage" }

// SQLite is a core.Storage persisted in a single sqlite file.
type SQLite struct {
	db *gorm.DB
}

var _ core.Storage = (*SQLite)(nil)

// Open opens (and creates if needed) the storage file at path.
func Open(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(err, "creating storage dir")
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	if err = db.AutoMigrate(&entry{}); err != nil {
		return nil, errors.Wrap(err, "migrating local storage")
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(key string) (string, bool, error) {
	var e entry
	err := s.db.Where("storage_key = ?", key).Take(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, errors.Wrapf(err, "reading %q", key)
	}
	return e.Value, true, nil
}

func (s *SQLite) Set(key, value string) error {
	e := entry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
	return errors.Wrapf(err, "writing %q", key)
}

func (s *SQLite) Delete(key string) error {
	err := s.db.Where("storage_key = ?", key).Delete(&entry{}).Error
	return errors.Wrapf(err, "deleting %q", key)
}

func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
