// Package storage keeps local twin snapshots for the CLI.
package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/iothub-client/pkg/iothub"
)

// Store records the last twin fetched per device.
type Store interface {
	Close() error
	SaveTwin(deviceID string, twin iothub.Twin) error
	// LastTwin returns the stored twin and when it was saved. ok is false
	// when nothing unexpired is stored.
	LastTwin(deviceID string) (twin iothub.Twin, savedAt time.Time, ok bool, err error)
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	SnapshotTTL     time.Duration
	CleanupInterval time.Duration
}

const (
	defaultSnapshotTTL     = 7 * 24 * time.Hour
	defaultCleanupInterval = 6 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.SnapshotTTL <= 0 {
		opts.SnapshotTTL = defaultSnapshotTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                       { return nil }
func (noopStore) SaveTwin(string, iothub.Twin) error { return nil }
func (noopStore) LastTwin(string) (iothub.Twin, time.Time, bool, error) {
	return nil, time.Time{}, false, nil
}
