package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}

	// GORM wraps error di dalam gorm.Err* → unwrap dulu
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	return IsDuplicateKeyMessage(err.Error())
}

// IsDuplicateKeyMessage matches the driver text of a unique violation. The
// store layer flattens storage errors into message strings, so callers that
// only hold the message classify through this form.
func IsDuplicateKeyMessage(msg string) bool {
	// GORM dialector translation (TranslateError)
	if strings.Contains(msg, gorm.ErrDuplicatedKey.Error()) {
		return true
	}

	// PostgreSQL (error code 23505)
	if strings.Contains(msg, "duplicate key value violates unique constraint") {
		return true
	}

	// MySQL (error code 1062)
	if strings.Contains(msg, "Error 1062") {
		return true
	}

	// SQLite (error code 2067)
	if strings.Contains(msg, "UNIQUE constraint failed") {
		return true
	}

	return false
}
