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

// Package clusterutil provides the small standalone helpers an
// out-of-core consistent-hashing cluster layer is expected to build on
// (spec §6): SHA-1 digests, hex conversion, and local IP discovery. None
// of this is part of the storage core itself.
package clusterutil

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"net"
)

// ErrInvalidHex is returned by ParseHex when s is not exactly 40
// hexadecimal characters.
var ErrInvalidHex = errors.New("clusterutil: invalid 40-character hex digest")

// SHA1 computes the 160-bit SHA-1 digest of the UTF-8 representation of s.
func SHA1(s string) [20]byte {
	return sha1.Sum([]byte(s))
}

// Hex renders a digest as a 40-character lowercase hex string.
func Hex(digest [20]byte) string {
	return hex.EncodeToString(digest[:])
}

// ParseHex parses a 40-character hex string back into a digest.
func ParseHex(s string) ([20]byte, error) {
	var digest [20]byte
	if len(s) != 40 {
		return digest, ErrInvalidHex
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return digest, ErrInvalidHex
	}
	copy(digest[:], decoded)
	return digest, nil
}

// LocalIP returns the first non-loopback IPv4 or IPv6 address found among
// the host's network interfaces, or false if none is available.
func LocalIP() (string, bool) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", false
	}

	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		return ipNet.IP.String(), true
	}

	return "", false
}
