// Package store provides the durable keyed-map port the ledger persists
// through, with interchangeable in-memory, SQLite and Postgres engines.
// Each region is an independent u64→bytes map; adding a region never
// requires migrating existing ones.
package store

// Region names. Counter regions hold a single big-endian u64 at key 0.
const (
	RegionCounter      = "counter"
	RegionUsers        = "users"
	RegionTransactions = "transactions"
	RegionAudit        = "audit"
	RegionAuditCounter = "audit_counter"
)

// Regions is the full set an engine must provision at open.
var Regions = []string{
	RegionCounter,
	RegionUsers,
	RegionTransactions,
	RegionAudit,
	RegionAuditCounter,
}

// KV is the storage port. Implementations must iterate in ascending key
// order; the transaction history contract depends on it.
type KV interface {
	// Get returns the value at key, and whether the key exists.
	Get(region string, key uint64) ([]byte, bool, error)
	// Insert stores value at key, replacing any previous value.
	Insert(region string, key uint64, value []byte) error
	// Remove deletes the key if present.
	Remove(region string, key uint64) error
	// Iterate visits entries in ascending key order until fn returns
	// false or an error.
	Iterate(region string, fn func(key uint64, value []byte) (bool, error)) error
	Close() error
}
