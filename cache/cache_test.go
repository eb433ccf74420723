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

package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPutGet(t *testing.T) {
	c, err := New(2)
	assert.Nil(t, err)

	c.Put("a", []byte{1, 2, 3})
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, v)
}

func TestLRUEviction(t *testing.T) {
	c, err := New(2)
	assert.Nil(t, err)

	c.Put("a", []byte("a"))
	c.Put("b", []byte("b"))
	c.Get("a") // touch a, making b the least-recently-used
	c.Put("c", []byte("c"))

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("b")
	assert.False(t, ok, "b should have been evicted as least-recently-used")

	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestRemove(t *testing.T) {
	c, err := New(2)
	assert.Nil(t, err)

	c.Put("a", []byte("a"))
	c.Remove("a")

	_, ok := c.Get("a")
	assert.False(t, ok)
}
