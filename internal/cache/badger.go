package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

const gcInterval = 5 * time.Minute

type Options struct {
	Directory string
	InMemory  bool
}

// Badger stores fetched feed payloads with a TTL.
type Badger struct {
	db   *badger.DB
	stop chan struct{}
	once sync.Once
}

func NewBadger(opts Options) (*Badger, error) {
	var badgerOpts badger.Options

	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Directory == "" {
			return nil, errors.New("cache directory is required")
		}
		if err := os.MkdirAll(opts.Directory, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
		badgerOpts = badger.DefaultOptions(opts.Directory)
	}

	db, err := badger.Open(badgerOpts.WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	c := &Badger{db: db, stop: make(chan struct{})}
	if !opts.InMemory {
		go c.runGC()
	}

	return c, nil
}

func (c *Badger) runGC() {
	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			_ = c.db.RunValueLogGC(0.5)
		}
	}
}

// Get returns the value stored for key, ErrCacheMiss when it is absent or
// expired. Keys are feed URLs, normalized by FeedKey.
func (c *Badger) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(FeedKey(key)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrCacheMiss
		} else if err != nil {
			return err
		}

		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

// Set stores value under key. A non-positive ttl keeps the entry forever.
func (c *Badger) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	return c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(FeedKey(key)), value)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
}

// Delete removes key. A missing key is not an error.
func (c *Badger) Delete(_ context.Context, key string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(FeedKey(key)))
	})
}

func (c *Badger) Close() error {
	c.once.Do(func() { close(c.stop) })
	return c.db.Close()
}
