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

import "github.com/nsavage/caskdb/mmaplog"

// DecodeHeaderAt reads and decodes the header at offset within log.
func DecodeHeaderAt(log *mmaplog.Log, offset int64) (Header, error) {
	buf, err := log.GetBytes(offset, HeaderSize)
	if err != nil {
		return Header{}, err
	}
	return DecodeHeader(buf)
}

// Verify recomputes the CRC over the header, key and value bytes stored at
// recordOffset within log and reports whether it matches the stored crc
// word. It is the scanner's only defense against a torn write left by a
// crash mid-append (spec §4.5, §7).
func Verify(log *mmaplog.Log, recordOffset int64) (bool, error) {
	header, err := DecodeHeaderAt(log, recordOffset)
	if err != nil {
		return false, err
	}

	headerBuf, err := log.GetBytes(recordOffset, HeaderSize)
	if err != nil {
		return false, err
	}

	key, err := log.GetBytes(recordOffset+HeaderSize, int64(header.KeySize))
	if err != nil {
		return false, err
	}

	value, err := log.GetBytes(recordOffset+HeaderSize+int64(header.KeySize), header.ValueSize)
	if err != nil {
		return false, err
	}

	return CRC(headerBuf, key, value) == header.CRC, nil
}
