package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samvad-hq/iothub-client/pkg/iothub"
	bolt "go.etcd.io/bbolt"
)

const (
	twinBucket = "twins"
	// Values are an 8-byte expiry, an 8-byte save time, then the twin JSON.
	headerBytes = 16
)

// boltStore implements a Store backed by BoltDB.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	snapshotTTL     time.Duration
	cleanupInterval time.Duration
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(twinBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		snapshotTTL:     opts.SnapshotTTL,
		cleanupInterval: opts.CleanupInterval,
	}
	store.lastCleanup.Store(time.Now().Unix())
	return store, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// SaveTwin stores twin as the latest snapshot for deviceID.
func (b *boltStore) SaveTwin(deviceID string, twin iothub.Twin) error {
	if b == nil || b.db == nil {
		return nil
	}

	now := time.Now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}

	doc, err := json.Marshal(twin)
	if err != nil {
		return fmt.Errorf("encode twin snapshot: %w", err)
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(twinBucket))
		if bucket == nil {
			return fmt.Errorf("twin bucket missing")
		}
		buf := make([]byte, headerBytes, headerBytes+len(doc))
		binary.BigEndian.PutUint64(buf[:8], uint64(now.Add(b.snapshotTTL).Unix()))
		binary.BigEndian.PutUint64(buf[8:], uint64(now.Unix()))
		buf = append(buf, doc...)
		return bucket.Put([]byte(deviceID), buf)
	})
}

// LastTwin returns the latest unexpired snapshot for deviceID.
func (b *boltStore) LastTwin(deviceID string) (iothub.Twin, time.Time, bool, error) {
	if b == nil || b.db == nil {
		return nil, time.Time{}, false, nil
	}

	var (
		twin    iothub.Twin
		savedAt time.Time
		found   bool
	)
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(twinBucket))
		if bucket == nil {
			return fmt.Errorf("twin bucket missing")
		}

		key := []byte(deviceID)
		value := bucket.Get(key)
		if value == nil {
			return nil
		}

		expiry, saved, doc, ok := decodeSnapshot(value)
		if !ok || !expiry.After(time.Now()) {
			return bucket.Delete(key)
		}
		if err := json.Unmarshal(doc, &twin); err != nil {
			return fmt.Errorf("decode twin snapshot: %w", err)
		}
		savedAt = saved
		found = true
		return nil
	})
	if err != nil {
		return nil, time.Time{}, false, err
	}
	return twin, savedAt, found, nil
}

// maybeCleanupExpired removes expired snapshots on a fixed cadence to avoid unbounded growth.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(twinBucket))
		if bucket == nil {
			return fmt.Errorf("twin bucket missing")
		}

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			expiry, _, _, ok := decodeSnapshot(v)
			if !ok || !expiry.After(now) {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

func decodeSnapshot(value []byte) (expiry, savedAt time.Time, doc []byte, ok bool) {
	if len(value) < headerBytes {
		return time.Time{}, time.Time{}, nil, false
	}
	exp := int64(binary.BigEndian.Uint64(value[:8]))
	saved := int64(binary.BigEndian.Uint64(value[8:16]))
	if exp <= 0 {
		return time.Time{}, time.Time{}, nil, false
	}
	return time.Unix(exp, 0), time.Unix(saved, 0), value[headerBytes:], true
}
