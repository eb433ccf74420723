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

// Package record implements the append-log record format: a fixed-width
// header followed by the raw key and value bytes, and the CRC-32 checksum
// that protects each record against torn writes.
package record

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
)

// HeaderSize is the number of bytes preceding the key/value payload:
// crc(8) + ts(8) + key_size(4) + value_size(8).
const HeaderSize = 28

// ErrHeaderTooShort is returned by DecodeHeader when fewer than HeaderSize
// bytes are available.
var ErrHeaderTooShort = errors.New("record: header buffer shorter than HeaderSize")

// Header is the decoded fixed-width prefix of a record.
type Header struct {
	CRC       uint32
	Timestamp int64
	KeySize   uint32
	ValueSize int64
}

// Size returns the total on-disk length of the record this header
// describes: HeaderSize plus key and value bytes.
func (h Header) Size() int64 {
	return HeaderSize + int64(h.KeySize) + h.ValueSize
}

// IsTombstone reports whether this header describes a deleted key
// (value_size == 0, per spec §3).
func (h Header) IsTombstone() bool {
	return h.ValueSize == 0
}

// IsZero reports whether every header field is zero, as in the zero-filled
// tail past the last record. The log scanner itself stops on the 8-byte
// CRC word alone being zero.
func (h Header) IsZero() bool {
	return h.CRC == 0 && h.Timestamp == 0 && h.KeySize == 0 && h.ValueSize == 0
}

// Encode builds the full on-disk byte representation of a record: the
// 8-byte CRC word, the 20-byte ts|key_size|value_size header, the key and
// the value, in the order fixed by spec §3. Multi-byte integers are
// written little-endian on every host (see nativeEndian below), not in
// the host's own byte order.
func Encode(ts int64, key, value []byte) []byte {
	total := HeaderSize + len(key) + len(value)
	buf := make([]byte, total)

	nativeEndian.PutUint64(buf[8:16], uint64(ts))
	nativeEndian.PutUint32(buf[16:20], uint32(len(key)))
	nativeEndian.PutUint64(buf[20:28], uint64(len(value)))
	copy(buf[HeaderSize:], key)
	copy(buf[HeaderSize+len(key):], value)

	crc := crc32.ChecksumIEEE(buf[8:])
	nativeEndian.PutUint64(buf[0:8], uint64(crc))

	return buf
}

// DecodeHeader reads the fixed-width header from the front of buf. The
// crc field is returned widened into the low 32 bits of the stored 8-byte
// word (spec §9: "the upper 4 bytes are zero").
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, ErrHeaderTooShort
	}

	return Header{
		CRC:       uint32(nativeEndian.Uint64(buf[0:8])),
		Timestamp: int64(nativeEndian.Uint64(buf[8:16])),
		KeySize:   nativeEndian.Uint32(buf[16:20]),
		ValueSize: int64(nativeEndian.Uint64(buf[20:28])),
	}, nil
}

// CRC computes the CRC-32 (IEEE 802.3) checksum over header[8:] ++ key ++
// value, i.e. everything in the record after the crc word itself.
func CRC(header []byte, key, value []byte) uint32 {
	crc := crc32.ChecksumIEEE(header[8:HeaderSize])
	crc = crc32.Update(crc, crc32.IEEETable, key)
	crc = crc32.Update(crc, crc32.IEEETable, value)
	return crc
}

// nativeEndian is fixed to little-endian: a deliberate, documented choice
// (spec §9 "an implementation may select a fixed byte order (preferred:
// little-endian) provided it is consistent across writer/reader"). Despite
// the field name this is NOT host-native; it is a single, self-consistent
// byte order chosen once for this store.
var nativeEndian = binary.LittleEndian
