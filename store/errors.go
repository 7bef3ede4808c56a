package store

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/kbukum/usermodel/errors"
)

// IsNotFound reports whether err is GORM's record-not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicate reports whether err is a unique-constraint violation.
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// IsConnectionError reports whether err looks like a lost or refused
// connection.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, p := range []string{
		"database is locked",
		"unable to open database",
		"disk i/o error",
		"sql: database is closed",
		"driver: bad connection",
	} {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// FromDatabase turns connection failures into a 503 AppError and returns
// every other error unchanged.
func FromDatabase(err error) error {
	if IsConnectionError(err) {
		return apperrors.Unavailable(err)
	}
	return err
}
