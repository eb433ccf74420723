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

package clusterutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSHA1Hex(t *testing.T) {
	digest := SHA1("caskdb")
	hexStr := Hex(digest)
	assert.Len(t, hexStr, 40)

	parsed, err := ParseHex(hexStr)
	assert.Nil(t, err)
	assert.Equal(t, digest, parsed)
}

func TestParseHexInvalid(t *testing.T) {
	_, err := ParseHex("not-hex")
	assert.ErrorIs(t, err, ErrInvalidHex)

	_, err = ParseHex("zz" + Hex(SHA1("x"))[2:])
	assert.ErrorIs(t, err, ErrInvalidHex)
}

func TestLocalIP(t *testing.T) {
	ip, ok := LocalIP()
	if ok {
		assert.NotEmpty(t, ip)
	}
}
