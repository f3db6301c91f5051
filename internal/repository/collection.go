package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/smart-attendance-api/pkg/storage"
)

// Collection names persisted by the API.
const (
	CollectionUsers      = "users"
	CollectionAttendance = "attendance"
	CollectionLeaves     = "leaves"
)

// ErrNotFound is returned by lookups that match no record.
var ErrNotFound = errors.New("record not found")

// Record is implemented by every persisted entity.
type Record interface {
	RecordID() int
}

// StorageObserver receives timing for every collection read and write.
type StorageObserver interface {
	ObserveStorageOperation(collection, operation string, duration time.Duration, err error)
}

// Collection is a typed, whole-document view over a storage.Store entry.
// Writers are serialised by a per-collection mutex held across
// load-mutate-save so concurrent requests cannot drop each other's updates.
type Collection[T Record] struct {
	name    string
	store   storage.Store
	logger  *zap.Logger
	metrics StorageObserver
	mu      sync.Mutex
}

// NewCollection binds a collection name to a store.
func NewCollection[T Record](name string, store storage.Store, logger *zap.Logger, metrics StorageObserver) *Collection[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collection[T]{name: name, store: store, logger: logger, metrics: metrics}
}

// Name returns the collection name.
func (c *Collection[T]) Name() string {
	return c.name
}

// Load returns every record. A missing or unparsable document yields an empty
// slice; a corrupt document is logged because the next write replaces it.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	start := time.Now()
	payload, err := c.store.Read(ctx, c.name)
	c.observe("read", start, err)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("load %s: %w", c.name, err)
	}

	var records []T
	if err := json.Unmarshal(payload, &records); err != nil {
		c.logger.Warn("collection corrupt, treating as empty",
			zap.String("collection", c.name),
			zap.Int("bytes", len(payload)),
			zap.Error(err),
		)
		return []T{}, nil
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// Mutate runs fn against a fresh copy of the collection and persists the
// returned slice. Returning an error from fn aborts without writing.
func (c *Collection[T]) Mutate(ctx context.Context, fn func(records []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.Load(ctx)
	if err != nil {
		return err
	}
	updated, err := fn(records)
	if err != nil {
		return err
	}
	return c.save(ctx, updated)
}

// Seed writes records only when the collection has never been written.
// It reports whether anything was stored.
func (c *Collection[T]) Seed(ctx context.Context, records []T) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.store.Read(ctx, c.name); err == nil {
		return false, nil
	} else if !errors.Is(err, storage.ErrNotExist) {
		return false, fmt.Errorf("check %s: %w", c.name, err)
	}
	if err := c.save(ctx, records); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Collection[T]) save(ctx context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}
	payload, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.name, err)
	}
	start := time.Now()
	err = c.store.Write(ctx, c.name, payload)
	c.observe("write", start, err)
	if err != nil {
		return fmt.Errorf("save %s: %w", c.name, err)
	}
	return nil
}

func (c *Collection[T]) observe(op string, start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	if errors.Is(err, storage.ErrNotExist) {
		err = nil
	}
	c.metrics.ObserveStorageOperation(c.name, op, time.Since(start), err)
}

// NextID returns 1 for an empty collection, otherwise the largest id plus one.
func NextID[T Record](records []T) int {
	maxID := 0
	for _, r := range records {
		if id := r.RecordID(); id > maxID {
			maxID = id
		}
	}
	return maxID + 1
}
