package store

import (
	"time"

	"github.com/ayoisaiah/roulette/internal/models"
)

// DB is the database storage interface.
type DB interface {
	// GetState returns the persisted application state blob. A missing or
	// unreadable blob reports ok=false so the caller starts fresh.
	GetState() (state models.AppState, ok bool, err error)
	// SaveState overwrites the application state blob.
	SaveState(state models.AppState) error
	// SaveSessionRecord appends a finished session to the history,
	// keyed by its start time.
	SaveSessionRecord(rec models.SessionRecord) error
	// GetSessionRecords returns history records within the time bounds. A
	// zero startTime means no lower bound.
	GetSessionRecords(
		startTime, endTime time.Time,
	) ([]models.SessionRecord, error)
	// Close ends the database connection
	Close() error
	// Open begins a database connection
	Open() error
}
