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

package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeHeader(t *testing.T) {
	buf := Encode(1234, []byte("engine"), []byte("caskdb"))
	assert.Equal(t, HeaderSize+len("engine")+len("caskdb"), len(buf))

	header, err := DecodeHeader(buf)
	assert.Nil(t, err)
	assert.Equal(t, int64(1234), header.Timestamp)
	assert.Equal(t, uint32(len("engine")), header.KeySize)
	assert.Equal(t, int64(len("caskdb")), header.ValueSize)
	assert.False(t, header.IsTombstone())
	assert.False(t, header.IsZero())
}

func TestEncodeTombstone(t *testing.T) {
	buf := Encode(1, []byte("gone"), nil)
	header, err := DecodeHeader(buf)
	assert.Nil(t, err)
	assert.True(t, header.IsTombstone())
}

func TestDecodeHeaderTooShort(t *testing.T) {
	_, err := DecodeHeader(make([]byte, HeaderSize-1))
	assert.ErrorIs(t, err, ErrHeaderTooShort)
}

func TestCRCMatchesEncoded(t *testing.T) {
	key, value := []byte("a"), []byte("1")
	buf := Encode(1, key, value)

	header, err := DecodeHeader(buf)
	assert.Nil(t, err)

	crc := CRC(buf[:HeaderSize], key, value)
	assert.Equal(t, header.CRC, crc)
}

func TestHeaderSize(t *testing.T) {
	h := Header{KeySize: 3, ValueSize: 5}
	assert.Equal(t, int64(HeaderSize+3+5), h.Size())
}
