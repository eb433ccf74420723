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

// Package hintfile reads and writes the compact keydir snapshot that
// speeds up recovery (spec §4.5): a sequence of fixed-width big-endian
// records, one per live key, terminated by end-of-file. The hint file is
// written through the plain fileio.FileIO handle, never through the
// mapped log, matching spec §5's "the hint-file writer opens its own
// file handle and releases it on completion".
package hintfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/nsavage/caskdb/fileio"
	"github.com/nsavage/caskdb/keydir"
)

// Suffix is appended to a log's path to form its hint-file path.
const Suffix = ".hint"

// byteOrder is the hint file's own fixed, self-consistent byte order
// (spec §4.5: "the reference implementation uses big-endian"),
// independent of the native-order choice the log records use.
var byteOrder = binary.BigEndian

// MalformedHintError is returned when the hint file is truncated
// mid-record, or decodes to an offset beyond what the caller knows the
// log's length to be. Recovery falls back to a full log scan (spec §7,
// §9 Open Questions).
type MalformedHintError struct {
	Path   string
	Reason string
}

func (e *MalformedHintError) Error() string {
	return fmt.Sprintf("hintfile: %s malformed: %s", e.Path, e.Reason)
}

// Path derives the hint-file path that sits alongside a log file.
func Path(logPath string) string {
	return logPath + Suffix
}

// Write replaces the hint file at path wholesale with one fixed-width
// record per entry of kd: ts(i64) | key_size(i32) | value_size(i64) |
// value_offset(i64) | key. A snapshot is a full-file replacement, not an
// append — Write truncates any existing hint file before emitting the
// new one, so a later Snapshot never resurrects keys an intervening
// Delete removed (spec §4.5, §7).
func Write(path string, kd *keydir.Keydir) error {
	f, err := fileio.NewTruncatingFileIOManager(path)
	if err != nil {
		return fmt.Errorf("hintfile: open %s: %w", path, err)
	}
	defer f.Close()

	var writeErr error
	kd.Iterate(func(key string, e keydir.Entry) bool {
		rec := make([]byte, 8+4+8+8+len(key))
		byteOrder.PutUint64(rec[0:8], uint64(e.Timestamp))
		byteOrder.PutUint32(rec[8:12], uint32(len(key)))
		byteOrder.PutUint64(rec[12:20], uint64(e.ValueSize))
		byteOrder.PutUint64(rec[20:28], uint64(e.ValueOffset))
		copy(rec[28:], key)

		if _, err := f.Write(rec); err != nil {
			writeErr = fmt.Errorf("hintfile: write %s: %w", path, err)
			return false
		}
		return true
	})
	if writeErr != nil {
		return writeErr
	}

	return f.Sync()
}

// Read loads every record from the hint file at path into a fresh
// Keydir. It returns an empty Keydir and a nil error if the file does not
// exist, since an absent hint file simply means "fall back to a full
// scan" (spec §4.3 "recover").
//
// logLength is the caller's mapped log's current size: an entry whose
// value_offset+value_size reaches past it could not possibly describe a
// value actually written to that log, so it is reported as
// MalformedHintError rather than silently trusted (spec §7, §9 Open
// Questions).
func Read(path string, logLength int64) (*keydir.Keydir, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return keydir.New(), nil
	}

	f, err := fileio.NewFileIOManager(path)
	if err != nil {
		return nil, fmt.Errorf("hintfile: open %s: %w", path, err)
	}
	defer f.Close()

	size, err := f.Size()
	if err != nil {
		return nil, fmt.Errorf("hintfile: stat %s: %w", path, err)
	}

	kd := keydir.New()
	var offset int64

	for offset < size {
		head := make([]byte, 20)
		if _, err := f.Read(head, offset); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil, &MalformedHintError{Path: path, Reason: "truncated record header"}
			}
			return nil, fmt.Errorf("hintfile: read %s: %w", path, err)
		}

		ts := int64(byteOrder.Uint64(head[0:8]))
		keySize := byteOrder.Uint32(head[8:12])
		valueSize := int64(byteOrder.Uint64(head[12:20]))

		offset += 20

		tail := make([]byte, 8+int64(keySize))
		if offset+int64(len(tail)) > size {
			return nil, &MalformedHintError{Path: path, Reason: "truncated record tail"}
		}
		if _, err := f.Read(tail, offset); err != nil {
			return nil, fmt.Errorf("hintfile: read %s: %w", path, err)
		}

		valueOffset := int64(byteOrder.Uint64(tail[0:8]))
		key := string(tail[8:])
		offset += int64(len(tail))

		if valueOffset < 0 || valueSize < 0 {
			return nil, &MalformedHintError{Path: path, Reason: "negative offset or size"}
		}
		if valueOffset+valueSize > logLength {
			return nil, &MalformedHintError{Path: path, Reason: "offset beyond the log's length"}
		}

		kd.Put(key, keydir.Entry{Timestamp: ts, ValueSize: valueSize, ValueOffset: valueOffset})
	}

	return kd, nil
}
