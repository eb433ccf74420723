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

// Package cache is the bounded hot-value cache interposed between Store
// callers and the log (spec §4.6): both Get and Put count as access, and
// the least-recently-accessed entry is evicted on overflow.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache is a bounded key -> value byte-slice cache with LRU eviction.
type Cache struct {
	inner *lru.Cache[string, []byte]
}

// New creates a Cache with a fixed capacity, set once at construction
// time (spec §3 "Capacity is fixed at open time").
func New(capacity int) (*Cache, error) {
	inner, err := lru.New[string, []byte](capacity)
	if err != nil {
		return nil, err
	}
	return &Cache{inner: inner}, nil
}

// Get returns the cached value for key, marking it most-recently-used.
func (c *Cache) Get(key string) ([]byte, bool) {
	return c.inner.Get(key)
}

// Put inserts or updates key's cached value, evicting the
// least-recently-accessed entry if the cache is over capacity.
func (c *Cache) Put(key string, value []byte) {
	c.inner.Add(key, value)
}

// Remove evicts key from the cache, if present.
func (c *Cache) Remove(key string) {
	c.inner.Remove(key)
}

// Len returns the number of entries currently cached.
func (c *Cache) Len() int {
	return c.inner.Len()
}
