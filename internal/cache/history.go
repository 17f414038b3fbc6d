package cache

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

// bucketName is the BoltDB bucket for build history records.
const bucketName = "builds"

// historyLimit caps how many records are kept per build key.
const historyLimit = 20

// Record is one completed build, keyed by build key and timestamp.
type Record struct {
	Key           string    `json:"key"`
	Platform      string    `json:"platform"`
	Configuration string    `json:"configuration"`
	Success       bool      `json:"success"`
	Cached        bool      `json:"cached"`
	Duration      float64   `json:"duration_seconds"`
	Artifacts     []string  `json:"artifacts,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// History persists build records in BoltDB alongside the JSON metadata.
// It is a diagnostic aid (plhub platform history / cache stats) and not part
// of the skip/no-skip contract.
type History struct {
	db *bbolt.DB
}

// OpenHistory opens the history database inside cacheDir.
func OpenHistory(cacheDir string) (*History, error) {
	dbPath := filepath.Join(cacheDir, "history.db")
	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history bucket: %w", err)
	}

	return &History{db: db}, nil
}

// Close closes the underlying database.
func (h *History) Close() error {
	if h.db != nil {
		return h.db.Close()
	}

	return nil
}

// Append stores a record under "<key>/<RFC3339Nano timestamp>" and trims old
// records beyond historyLimit for that key.
func (h *History) Append(rec Record) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	return h.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))

		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}

		id := []byte(rec.Key + "/" + rec.Timestamp.Format(time.RFC3339Nano))
		if err := b.Put(id, data); err != nil {
			return err
		}

		return trimKey(b, rec.Key)
	})
}

// trimKey deletes the oldest records for key beyond historyLimit. Bolt keys
// sort lexicographically, so the RFC3339 suffix keeps them in time order.
func trimKey(b *bbolt.Bucket, key string) error {
	prefix := []byte(key + "/")
	var ids [][]byte

	c := b.Cursor()
	for k, _ := c.Seek(prefix); k != nil && hasPrefix(k, prefix); k, _ = c.Next() {
		ids = append(ids, append([]byte(nil), k...))
	}

	for len(ids) > historyLimit {
		if err := b.Delete(ids[0]); err != nil {
			return err
		}
		ids = ids[1:]
	}

	return nil
}

func hasPrefix(k, prefix []byte) bool {
	if len(k) < len(prefix) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

// List returns records for key in chronological order, or every record when
// key is empty.
func (h *History) List(key string) ([]Record, error) {
	var records []Record

	err := h.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))

		return b.ForEach(func(k, v []byte) error {
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return nil // skip corrupt records
			}

			if key == "" || rec.Key == key {
				records = append(records, rec)
			}

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}
