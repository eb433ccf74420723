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

package mmaplog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpenZeroFillsNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.log")

	log, err := Open(path, 64)
	assert.Nil(t, err)
	defer log.Close()

	assert.Equal(t, int64(64), log.Length())

	word, err := log.GetU64(0)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), word)
}

func TestPutGetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.log")
	log, err := Open(path, 64)
	assert.Nil(t, err)
	defer log.Close()

	assert.Nil(t, log.PutU64(0, 0xDEADBEEF))
	v, err := log.GetU64(0)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0xDEADBEEF), v)

	assert.Nil(t, log.PutBytes(8, []byte("hello")))
	b, err := log.GetBytes(8, 5)
	assert.Nil(t, err)
	assert.Equal(t, []byte("hello"), b)
}

func TestOutOfBounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.log")
	log, err := Open(path, 16)
	assert.Nil(t, err)
	defer log.Close()

	_, err = log.GetU64(12)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	err = log.PutBytes(10, []byte("123456789"))
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestRemapGrowth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.log")
	log, err := Open(path, 32)
	assert.Nil(t, err)
	defer log.Close()

	assert.Nil(t, log.PutBytes(0, []byte("keep-me")))

	assert.Nil(t, log.Remap(1024))
	assert.Equal(t, int64(1024), log.Length())

	b, err := log.GetBytes(0, 7)
	assert.Nil(t, err)
	assert.Equal(t, []byte("keep-me"), b)

	// the grown tail must be zero-filled
	tail, err := log.GetBytes(512, 8)
	assert.Nil(t, err)
	assert.Equal(t, make([]byte, 8), tail)
}

func TestCRC32(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.log")
	log, err := Open(path, 32)
	assert.Nil(t, err)
	defer log.Close()

	assert.Nil(t, log.PutBytes(0, []byte("abcd")))
	crc, err := log.CRC32(0, 4)
	assert.Nil(t, err)
	assert.NotZero(t, crc)
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.log")
	log, err := Open(path, 32)
	assert.Nil(t, err)
	assert.Nil(t, log.PutBytes(0, []byte("persisted")))
	assert.Nil(t, log.Sync())
	assert.Nil(t, log.Close())

	log2, err := Open(path, 32)
	assert.Nil(t, err)
	defer log2.Close()

	b, err := log2.GetBytes(0, 9)
	assert.Nil(t, err)
	assert.Equal(t, []byte("persisted"), b)
}
