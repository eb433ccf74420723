/*
 * Copyright (c) 2024. Shuojiang Liu.
 * Licensed under the MIT License (the "License");
 * you may not use this file except in compliance with the License.
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package caskdb is the Bitcask-style append-only log-structured key-value
// store: every write is appended to a single memory-mapped log file, a
// keydir in memory indexes each live key to its most recent value, and an
// optional hint-file snapshot makes recovery fast without rereading the
// whole log.
package caskdb

import (
	"errors"
	"math"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"

	"github.com/nsavage/caskdb/cache"
	"github.com/nsavage/caskdb/hintfile"
	"github.com/nsavage/caskdb/keydir"
	"github.com/nsavage/caskdb/mmaplog"
	"github.com/nsavage/caskdb/record"
	"github.com/nsavage/caskdb/utils"
)

// lockSuffix names the sidecar file a Store locks for the lifetime of the
// open, enforcing the single-writer invariant (spec §5, §9).
const lockSuffix = ".lock"

// Stat reports point-in-time size and occupancy figures for a Store.
type Stat struct {
	KeyCount         int
	LogSize          int64
	ReclaimableBytes int64
	DiskSize         int64
}

// Store is the façade tying the mapped log, keydir, hot-value cache and
// lock file together into the put/get/delete/recover/snapshot API
// (spec §4.6).
type Store struct {
	mu sync.Mutex

	log     *mmaplog.Log
	keydir  *keydir.Keydir
	cache   *cache.Cache
	lock    *flock.Flock
	logger  *zap.SugaredLogger
	options Options

	offset      int64
	reclaimable int64
}

// Open opens (creating if necessary) the log file at path under opts,
// acquires an exclusive lock on the path+".lock" sidecar file, and recovers the keydir from the
// hint file and/or a forward scan of the log (spec §4.3 "open").
func Open(path string, opts Options) (*Store, error) {
	opts = opts.withDefaults()
	if err := checkOptions(opts); err != nil {
		return nil, err
	}

	lock := flock.New(path + lockSuffix)
	held, err := lock.TryLock()
	if err != nil {
		return nil, err
	}
	if !held {
		return nil, ErrDatabaseIsUsing
	}

	log, err := mmaplog.Open(path, opts.InitialLength)
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}

	c, err := cache.New(opts.CacheSize)
	if err != nil {
		_ = log.Close()
		_ = lock.Unlock()
		return nil, err
	}

	s := &Store{
		log:     log,
		keydir:  keydir.New(),
		cache:   c,
		lock:    lock,
		logger:  opts.Logger,
		options: opts,
	}

	opts.Logger.Infow("opening store",
		"path", path,
		"initialLength", opts.InitialLength,
		"cacheSize", opts.CacheSize,
		"growthFactor", opts.GrowthFactor,
		"sync", opts.Sync,
	)

	if err := s.Recover(); err != nil {
		_ = log.Close()
		_ = lock.Unlock()
		return nil, err
	}

	return s, nil
}

// Put appends a record for key/value to the log and updates the keydir and
// cache. A zero-length value is treated as a tombstone — the same as
// Delete — per spec §3's "direct callers writing an empty value
// effectively delete the key".
func (s *Store) Put(key string, value []byte) error {
	if key == "" {
		return ErrKeyIsEmpty
	}
	if len(key) > math.MaxUint32 {
		return ErrKeyTooLarge
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.appendAndIndex(key, value, len(value) == 0)
}

// Get returns the current value for key, serving from the hot-value cache
// when possible and falling back to a positional read of the log.
func (s *Store) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, ErrKeyIsEmpty
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.cache.Get(key); ok {
		return v, nil
	}

	entry, ok := s.keydir.Get(key)
	if !ok {
		return nil, ErrKeyNotFound
	}

	value, err := s.log.GetBytes(entry.ValueOffset, entry.ValueSize)
	if err != nil {
		return nil, err
	}

	s.cache.Put(key, value)
	return value, nil
}

// Delete appends a tombstone record for key. Deleting a key with no live
// entry is a legal no-op on the keydir, but still appends a tombstone —
// delete is idempotent in its observable effect, not in what it writes
// (spec §4.4).
func (s *Store) Delete(key string) error {
	if key == "" {
		return ErrKeyIsEmpty
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.appendAndIndex(key, nil, true)
}

func (s *Store) appendAndIndex(key string, value []byte, tombstone bool) error {
	ts := time.Now().UnixMilli()

	var encoded []byte
	if tombstone {
		encoded = record.Encode(ts, []byte(key), nil)
	} else {
		encoded = record.Encode(ts, []byte(key), value)
	}
	size := int64(len(encoded))

	if err := s.growIfNeeded(size); err != nil {
		return err
	}

	if err := s.log.PutBytes(s.offset, encoded); err != nil {
		return err
	}

	if s.options.Sync {
		if err := s.log.Sync(); err != nil {
			return err
		}
	}

	valueOffset := s.offset + record.HeaderSize + int64(len(key))

	if tombstone {
		old, had := s.keydir.Delete(key)
		s.cache.Remove(key)
		if had {
			s.reclaimable += record.HeaderSize + int64(len(key)) + old.ValueSize
		}
		s.reclaimable += size
	} else {
		old, had := s.keydir.Put(key, keydir.Entry{Timestamp: ts, ValueSize: int64(len(value)), ValueOffset: valueOffset})
		s.cache.Put(key, value)
		if had {
			s.reclaimable += record.HeaderSize + int64(len(key)) + old.ValueSize
		}
	}

	s.offset += size
	return nil
}

// growIfNeeded doubles (or scales by GrowthFactor) the mapped log's length
// until the next n bytes fit past the current append offset (spec §4.1
// "grow_if_needed").
func (s *Store) growIfNeeded(n int64) error {
	if s.offset+n <= s.log.Length() {
		return nil
	}

	oldLength := s.log.Length()
	newLength := oldLength
	for s.offset+n > newLength {
		newLength *= s.options.GrowthFactor
	}

	if err := s.log.Remap(newLength); err != nil {
		return err
	}

	s.logger.Infow("grew mapped log", "path", s.log.FilePath(), "oldLength", oldLength, "newLength", newLength)
	return nil
}

// Recover rebuilds the keydir from the hint file, if one exists and is
// well-formed, then scans forward from there to absorb any records
// appended after the last snapshot (spec §4.3 "recover", §4.5).
func (s *Store) Recover() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hintPath := hintfile.Path(s.log.FilePath())

	kd, err := hintfile.Read(hintPath, s.log.Length())
	if err != nil {
		var malformed *hintfile.MalformedHintError
		if errors.As(err, &malformed) {
			s.logger.Warnw("hint file malformed, falling back to full scan", "path", hintPath, "reason", malformed.Reason)
			kd = keydir.New()
		} else {
			return err
		}
	}

	s.keydir = kd
	hintKeys := kd.Size()
	s.offset = kd.MaxValueEnd()

	if err := s.scanFrom(s.offset); err != nil {
		return err
	}

	s.logger.Infow("recovered store", "path", s.log.FilePath(), "keys", s.keydir.Size(), "hintKeys", hintKeys, "offset", s.offset)
	return nil
}

// scanFrom walks records starting at offset until it reaches the all-zero
// end-of-data sentinel or the end of the mapping, replaying each record's
// effect on the keydir (spec §4.5 "Log scanner"). A CRC mismatch — the
// signature of a torn write — stops the scan and reports CorruptLogError
// at the offset of the bad record; everything before it is recovered.
func (s *Store) scanFrom(start int64) error {
	offset := start
	for offset+8 <= s.log.Length() {
		word, err := s.log.GetU64(offset)
		if err != nil {
			return err
		}
		if word == 0 {
			break
		}

		header, err := record.DecodeHeaderAt(s.log, offset)
		if err != nil {
			return &CorruptLogError{Offset: offset}
		}

		size := header.Size()
		if offset+size > s.log.Length() {
			return &CorruptLogError{Offset: offset}
		}

		ok, err := record.Verify(s.log, offset)
		if err != nil || !ok {
			return &CorruptLogError{Offset: offset}
		}

		keyBytes, err := s.log.GetBytes(offset+record.HeaderSize, int64(header.KeySize))
		if err != nil {
			return &CorruptLogError{Offset: offset}
		}
		key := string(keyBytes)

		if header.IsTombstone() {
			s.keydir.Delete(key)
		} else {
			valueOffset := offset + record.HeaderSize + int64(header.KeySize)
			s.keydir.Put(key, keydir.Entry{Timestamp: header.Timestamp, ValueSize: header.ValueSize, ValueOffset: valueOffset})
		}

		offset += size
	}

	s.offset = offset
	return nil
}

// Snapshot writes the current keydir out to the hint file, so a future
// Open can skip scanning everything written before this point.
func (s *Store) Snapshot() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() error {
	path := hintfile.Path(s.log.FilePath())
	if err := hintfile.Write(path, s.keydir); err != nil {
		return err
	}
	s.logger.Infow("wrote hint file snapshot", "path", path, "keys", s.keydir.Size())
	return nil
}

// Keys returns every live key. The order is whatever the keydir happens to
// iterate in and must not be relied upon (spec §4.4).
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, s.keydir.Size())
	s.keydir.Iterate(func(key string, _ keydir.Entry) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// Fold calls fn with every live key and its current value, stopping early
// if fn returns false.
func (s *Store) Fold(fn func(key string, value []byte) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var foldErr error
	s.keydir.Iterate(func(key string, e keydir.Entry) bool {
		value, err := s.log.GetBytes(e.ValueOffset, e.ValueSize)
		if err != nil {
			foldErr = err
			return false
		}
		return fn(key, value)
	})
	return foldErr
}

// Stat reports the current key count, the append offset, the bytes made
// reclaimable by overwrites and tombstones, and the on-disk footprint of
// the log's directory.
func (s *Store) Stat() Stat {
	s.mu.Lock()
	defer s.mu.Unlock()

	diskSize, _ := utils.DirectorySize(filepath.Dir(s.log.FilePath()))

	return Stat{
		KeyCount:         s.keydir.Size(),
		LogSize:          s.offset,
		ReclaimableBytes: s.reclaimable,
		DiskSize:         diskSize,
	}
}

// Close snapshots the keydir, flushes and releases the mapping, and
// releases the lock file.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.snapshotLocked(); err != nil {
		return err
	}

	if err := s.log.Close(); err != nil {
		return err
	}

	if err := s.lock.Unlock(); err != nil {
		return err
	}

	s.logger.Infow("closed store", "path", s.log.FilePath())
	return nil
}
