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

// Package utils holds small filesystem helpers shared across caskdb that
// don't belong to any single component.
package utils

import (
	"io/fs"
	"path/filepath"
)

// DirectorySize returns the size of the directory, used by Store.Stat to
// report the on-disk footprint of a data directory.
func DirectorySize(directoryPath string) (int64, error) {
	var size int64
	err := filepath.Walk(directoryPath, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})

	return size, err
}
