// Package store connects to the data store and manages the state blob and
// session history
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/ayoisaiah/roulette/internal/models"
	"github.com/ayoisaiah/roulette/internal/timeutil"
)

var (
	stateBucket    = []byte("state")
	sessionsBucket = []byte("sessions")
	stateKey       = []byte("app_state")
)

var errRouletteRunning = errors.New(
	"is Roulette already running? Only one instance can be active at a time",
)

// Client is a BoltDB database client.
type Client struct {
	*bolt.DB
	pathToDB string
}

// NewClient opens (or creates) the database at the given path and ensures
// the buckets exist.
func NewClient(pathToDB string) (*Client, error) {
	c := &Client{pathToDB: pathToDB}

	if err := c.Open(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Client) Open() error {
	db, err := openDB(c.pathToDB)
	if err != nil {
		return err
	}

	c.DB = db

	return c.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(stateBucket); err != nil {
			return err
		}

		_, err := tx.CreateBucketIfNotExists(sessionsBucket)

		return err
	})
}

func (c *Client) GetState() (models.AppState, bool, error) {
	var (
		state models.AppState
		ok    bool
	)

	err := c.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(stateBucket).Get(stateKey)
		if len(raw) == 0 {
			return nil
		}

		// A corrupt blob behaves like a missing one: first run.
		if jsonErr := json.Unmarshal(raw, &state); jsonErr != nil {
			state = models.AppState{}
			return nil
		}

		ok = true

		return nil
	})

	return state, ok, err
}

func (c *Client) SaveState(state models.AppState) error {
	value, err := json.Marshal(state)
	if err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(stateBucket).Put(stateKey, value)
	})
}

func (c *Client) SaveSessionRecord(rec models.SessionRecord) error {
	value, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Put(timeutil.ToKey(rec.StartedAt), value)
	})
}

func (c *Client) GetSessionRecords(
	startTime, endTime time.Time,
) ([]models.SessionRecord, error) {
	var records []models.SessionRecord

	err := c.View(func(tx *bolt.Tx) error {
		cur := tx.Bucket(sessionsBucket).Cursor()

		min := timeutil.ToKey(startTime)
		max := timeutil.ToKey(endTime)

		k, v := cur.First()
		if !startTime.IsZero() {
			k, v = cur.Seek(min)
		}

		for ; k != nil && bytes.Compare(k, max) <= 0; k, v = cur.Next() {
			var rec models.SessionRecord

			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}

			records = append(records, rec)
		}

		return nil
	})

	return records, err
}

// openDB creates or opens a database and locks it.
func openDB(pathToDB string) (*bolt.DB, error) {
	var fileMode fs.FileMode = 0o600

	db, err := bolt.Open(
		pathToDB,
		fileMode,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, errRouletteRunning
		}

		return nil, err
	}

	return db, nil
}
