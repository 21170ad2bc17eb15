// Package postgres is the gorm-backed Storage. It runs against PostgreSQL in
// production and against SQLite in tests, so queries stay on portable SQL.
package postgres

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/job-board/internal/storage"
)

var _ storage.Storage = (*Store)(nil)

type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// New wraps db. The caller should open it with TranslateError enabled so
// unique violations surface as storage.ErrConflict.
func New(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", storage.ErrConflict, err)
	}
	return err
}

// first loads one row into dst, reporting false on a miss.
func first(tx *gorm.DB, dst interface{}, query string, args ...interface{}) (bool, error) {
	err := tx.Where(query, args...).First(dst).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a lowered LIKE pattern matching q anywhere.
func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
}
