package kvstore

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/pointspay/ledger-backend/internal/repository"
	"github.com/pointspay/ledger-backend/internal/store"
)

// counterKey is the fixed slot the scalar occupies inside its region.
const counterKey = 0

type counterRepo struct {
	kv     store.KV
	region string
	mu     sync.Mutex
}

func NewCounter(kv store.KV, region string) repository.Counter {
	return &counterRepo{kv: kv, region: region}
}

// Next is a read-increment-write over the persisted scalar. The mutex makes
// the allocation atomic: audit writes run on worker goroutines outside the
// service mutex, so the counter cannot rely on callers for serialization.
func (c *counterRepo) Next() (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, ok, err := c.kv.Get(c.region, counterKey)
	if err != nil {
		return 0, fmt.Errorf("read id counter %s: %w", c.region, err)
	}
	var current uint64
	if ok {
		if len(raw) != 8 {
			return 0, fmt.Errorf("id counter %s: corrupt value of %d bytes", c.region, len(raw))
		}
		current = binary.BigEndian.Uint64(raw)
	}
	next := current + 1
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], next)
	if err := c.kv.Insert(c.region, counterKey, buf[:]); err != nil {
		return 0, fmt.Errorf("write id counter %s: %w", c.region, err)
	}
	return next, nil
}
