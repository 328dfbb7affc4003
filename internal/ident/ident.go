// Package ident generates identifiers for new records.
package ident

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// NextID returns a fresh identifier. UUIDv7 carries a millisecond time
// prefix followed by random bits, so ids are unique within a process and
// overwhelmingly unique across processes. Callers must not rely on any
// ordering of the returned strings.
func NextID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	// crypto/rand unavailable; the clock alone still moves forward
	return strconv.FormatInt(time.Now().UnixNano(), 36)
}
