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

// Package keydir implements the in-memory index mapping every live key to
// the location of its most recent value in the log, backed by Google's
// btree library the same way the teacher repository's BTree index backs
// its own keydir — stripped down to a single file's worth of positions,
// since this core never rotates logs across multiple files.
package keydir

import (
	"bytes"
	"sync"

	"github.com/google/btree"
)

// Entry is the keydir's index record for one key: when it was written,
// how large the value is, and where the value bytes live in the log.
type Entry struct {
	Timestamp   int64
	ValueSize   int64
	ValueOffset int64
}

// item is the btree.Item wrapping a key and its Entry.
type item struct {
	key   string
	entry Entry
}

func (i *item) Less(than btree.Item) bool {
	return bytes.Compare([]byte(i.key), []byte(than.(*item).key)) < 0
}

// Keydir is the mutable key -> Entry index.
type Keydir struct {
	mu   sync.RWMutex
	tree *btree.BTree
}

// New creates an empty Keydir.
func New() *Keydir {
	return &Keydir{tree: btree.New(32)}
}

// Put inserts or replaces the entry for key, returning the entry it
// superseded (if any). No duplicate keys are ever held: a new write
// replaces the old entry outright (spec §3 "Keydir").
func (k *Keydir) Put(key string, e Entry) (Entry, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()

	old := k.tree.ReplaceOrInsert(&item{key: key, entry: e})
	if old == nil {
		return Entry{}, false
	}
	return old.(*item).entry, true
}

// Get returns the entry for key, if present.
func (k *Keydir) Get(key string) (Entry, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	found := k.tree.Get(&item{key: key})
	if found == nil {
		return Entry{}, false
	}
	return found.(*item).entry, true
}

// Contains reports whether key has a live entry.
func (k *Keydir) Contains(key string) bool {
	_, ok := k.Get(key)
	return ok
}

// Delete removes key's entry, returning what was removed (if anything).
func (k *Keydir) Delete(key string) (Entry, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()

	old := k.tree.Delete(&item{key: key})
	if old == nil {
		return Entry{}, false
	}
	return old.(*item).entry, true
}

// Size returns the number of live keys.
func (k *Keydir) Size() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.tree.Len()
}

// Iterate walks every (key, entry) pair in ascending key order — the
// btree backing happens to yield an order, but callers (the hint-file
// writer, most notably) must not rely on it; spec §4.4 leaves iteration
// order unspecified. Iteration stops early if fn returns false.
func (k *Keydir) Iterate(fn func(key string, e Entry) bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	k.tree.Ascend(func(i btree.Item) bool {
		it := i.(*item)
		return fn(it.key, it.entry)
	})
}

// MaxValueEnd returns the largest (ValueOffset + ValueSize) across every
// entry, used to restore the Store's append offset after loading a hint
// file or recovering from a scan (spec §4.3, §4.5).
func (k *Keydir) MaxValueEnd() int64 {
	k.mu.RLock()
	defer k.mu.RUnlock()

	var max int64
	k.tree.Ascend(func(i btree.Item) bool {
		it := i.(*item)
		if end := it.entry.ValueOffset + it.entry.ValueSize; end > max {
			max = end
		}
		return true
	})
	return max
}
