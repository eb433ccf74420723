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

// Package fileio wraps the plain (non-mapped) file descriptor used for
// the hint file: a sidecar that, per spec §5, "opens its own file handle
// and releases it on completion" independently of the mapped log.
package fileio

import "os"

// DataFilePermission is the permission used for files this package opens.
const DataFilePermission = 0644

// FileIO is a wrapper for the standard file IO descriptor
type FileIO struct {
	// fd is the system file descriptor
	fd *os.File
}

// NewFileIOManager opens fileName for read-write (creating it if it doesn't
// yet exist) without disturbing whatever it already holds.
func NewFileIOManager(fileName string) (*FileIO, error) {
	// O_CREATE: create the file if it does not exist; O_RDWR: read-write mode.
	// Deliberately no O_APPEND: the only caller left in this tree is the
	// hint-file reader, which seeks to arbitrary offsets via ReadAt and must
	// not have its position silently forced to end-of-file on every write.
	fd, err := os.OpenFile(fileName, os.O_CREATE|os.O_RDWR, DataFilePermission)
	if err != nil {
		return nil, err
	}

	return &FileIO{fd: fd}, nil
}

// NewTruncatingFileIOManager opens fileName for read-write, discarding any
// existing contents first. A snapshot write is a whole-file replacement,
// not an append — this is what the hint-file writer opens to enforce that.
func NewTruncatingFileIOManager(fileName string) (*FileIO, error) {
	// O_TRUNC: existing contents (if any) are discarded on open.
	fd, err := os.OpenFile(fileName, os.O_CREATE|os.O_RDWR|os.O_TRUNC, DataFilePermission)
	if err != nil {
		return nil, err
	}

	return &FileIO{fd: fd}, nil
}

// Read reads the corresponding data from a given location in a file
func (f *FileIO) Read(b []byte, offset int64) (int, error) {
	return f.fd.ReadAt(b, offset)
}

// Write writes the given byte array to file
func (f *FileIO) Write(b []byte) (int, error) {
	return f.fd.Write(b)
}

// Sync forces any writes to sync to disk
func (f *FileIO) Sync() error {
	return f.fd.Sync()
}

// Close closes the file
func (f *FileIO) Close() error {
	return f.fd.Close()
}

// Size gets the size of file
func (f *FileIO) Size() (int64, error) {
	fileInfo, err := f.fd.Stat()
	if err != nil {
		return 0, err
	}

	return fileInfo.Size(), nil
}
