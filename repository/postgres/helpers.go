package postgres

import (
	"time"

	"github.com/google/uuid"
)

func nullTime(t *time.Time) interface{} {
	if t == nil || t.IsZero() {
		return nil
	}
	return *t
}

// validID reports whether id can match a row; the id column is a UUID and
// anything else would fail at the driver instead of simply not matching.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
