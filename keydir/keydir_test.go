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

package keydir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPutGetDelete(t *testing.T) {
	kd := New()

	_, had := kd.Put("a", Entry{Timestamp: 1, ValueSize: 3, ValueOffset: 28})
	assert.False(t, had)

	e, ok := kd.Get("a")
	assert.True(t, ok)
	assert.Equal(t, int64(28), e.ValueOffset)

	old, had := kd.Put("a", Entry{Timestamp: 2, ValueSize: 5, ValueOffset: 100})
	assert.True(t, had)
	assert.Equal(t, int64(28), old.ValueOffset)

	removed, ok := kd.Delete("a")
	assert.True(t, ok)
	assert.Equal(t, int64(100), removed.ValueOffset)

	_, ok = kd.Get("a")
	assert.False(t, ok)
}

func TestSizeAndContains(t *testing.T) {
	kd := New()
	assert.Equal(t, 0, kd.Size())

	kd.Put("a", Entry{})
	kd.Put("b", Entry{})
	assert.Equal(t, 2, kd.Size())
	assert.True(t, kd.Contains("a"))
	assert.False(t, kd.Contains("z"))
}

func TestIterate(t *testing.T) {
	kd := New()
	kd.Put("b", Entry{ValueOffset: 2})
	kd.Put("a", Entry{ValueOffset: 1})
	kd.Put("c", Entry{ValueOffset: 3})

	var keys []string
	kd.Iterate(func(key string, e Entry) bool {
		keys = append(keys, key)
		return true
	})
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestIterateStopsEarly(t *testing.T) {
	kd := New()
	kd.Put("a", Entry{})
	kd.Put("b", Entry{})
	kd.Put("c", Entry{})

	var seen int
	kd.Iterate(func(key string, e Entry) bool {
		seen++
		return seen < 2
	})
	assert.Equal(t, 2, seen)
}

func TestMaxValueEnd(t *testing.T) {
	kd := New()
	assert.Equal(t, int64(0), kd.MaxValueEnd())

	kd.Put("a", Entry{ValueOffset: 28, ValueSize: 10})
	kd.Put("b", Entry{ValueOffset: 100, ValueSize: 5})
	assert.Equal(t, int64(105), kd.MaxValueEnd())
}
