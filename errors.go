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

package caskdb

import (
	"errors"
	"fmt"
)

var (
	ErrKeyIsEmpty             = errors.New("caskdb: the key is empty")
	ErrKeyNotFound            = errors.New("caskdb: key is not found in the store")
	ErrKeyTooLarge            = errors.New("caskdb: key exceeds the maximum 32-bit key size")
	ErrDatabaseIsUsing        = errors.New("caskdb: data file is locked by another process")
	ErrDataDirectoryCorrupted = errors.New("caskdb: data directory might be corrupted")
)

// CorruptLogError is returned by Recover when the log scanner encounters
// a record whose CRC does not match its stored checksum — the signature
// of a crash mid-append (spec §4.3 "Failure semantics of put", §7). The
// recovered prefix is everything before Offset; the caller decides
// whether to truncate the log there and continue.
type CorruptLogError struct {
	Offset int64
}

func (e *CorruptLogError) Error() string {
	return fmt.Sprintf("caskdb: corrupt log record at offset %d", e.Offset)
}
