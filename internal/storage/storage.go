package storage

import (
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const probeKeyPrefix = "probe:" // probe:<zobrist hash, 8 bytes BE>

// CachedProbeResult is the on-disk representation of a tablebase probe
// result, keyed by the position's Zobrist hash. It mirrors
// tablebase.ProbeResult but does not import that package, avoiding an
// import cycle (tablebase imports storage, not the reverse).
type CachedProbeResult struct {
	WDL      int       `json:"wdl"`
	DTZ      int       `json:"dtz"`
	CachedAt time.Time `json:"cached_at"`
}

// Store wraps BadgerDB as a persistent cache for tablebase probe results.
// Unlike the core's transposition table, entries here survive process
// restarts: repeated probes of the same endgame across engine
// invocations are satisfied from disk instead of re-querying the
// network fallback.
type Store struct {
	db *badger.DB
}

// Open opens (creating if necessary) the probe-result cache at the
// platform data directory.
func Open() (*Store, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return OpenAt(dbDir)
}

// OpenAt opens the cache at an explicit directory, used by tests.
func OpenAt(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func probeKey(hash uint64) []byte {
	key := make([]byte, len(probeKeyPrefix)+8)
	copy(key, probeKeyPrefix)
	binary.BigEndian.PutUint64(key[len(probeKeyPrefix):], hash)
	return key
}

// GetProbe returns a cached probe result for the given position hash.
// ok is false on a cache miss.
func (s *Store) GetProbe(hash uint64) (result CachedProbeResult, ok bool, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		item, getErr := txn.Get(probeKey(hash))
		if getErr == badger.ErrKeyNotFound {
			return nil
		}
		if getErr != nil {
			return getErr
		}
		ok = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &result)
		})
	})
	return result, ok, err
}

// PutProbe caches a probe result for the given position hash.
func (s *Store) PutProbe(hash uint64, result CachedProbeResult) error {
	result.CachedAt = time.Now()
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(probeKey(hash), data)
	})
}

// Clear wipes the entire probe cache. Mirrors the UCI "Clear Hash"
// button's effect on the transposition table, but for the tablebase
// layer's persistent cache.
func (s *Store) Clear() error {
	return s.db.DropAll()
}

// Stats reports the on-disk footprint of the cache.
type Stats struct {
	LSMSize  int64
	VlogSize int64
}

// Size returns the approximate on-disk footprint of the cache.
func (s *Store) Size() Stats {
	lsm, vlog := s.db.Size()
	return Stats{LSMSize: lsm, VlogSize: vlog}
}
