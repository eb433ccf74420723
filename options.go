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

	"go.uber.org/zap"
)

// Options configures a Store. The zero value is not valid on its own —
// pass it through Open, which fills unset fields from DefaultOptions —
// but DefaultOptions itself always works.
type Options struct {
	// InitialLength is the size, in bytes, the log is created or grown to
	// on first open. Zero means DefaultOptions.InitialLength.
	InitialLength int64

	// CacheSize is the number of recently-read or recently-written values
	// held in the hot-value LRU cache. Zero means DefaultOptions.CacheSize.
	CacheSize int

	// GrowthFactor is the multiplier applied to the log's mapped length
	// each time an append would overrun it. Must be at least 2; zero
	// means DefaultOptions.GrowthFactor.
	GrowthFactor int64

	// Sync forces an msync after every put and delete, trading throughput
	// for a durability guarantee that survives a process crash.
	Sync bool

	// Logger receives structured events for open, recovery, growth, and
	// close. A nil Logger is replaced with a no-op logger.
	Logger *zap.SugaredLogger
}

// DefaultOptions is a conservative, always-valid set of options suitable
// for small to medium workloads.
var DefaultOptions = Options{
	InitialLength: 8 << 10, // 8 KiB
	CacheSize:     1024,
	GrowthFactor:  2,
}

func (o Options) withDefaults() Options {
	if o.InitialLength == 0 {
		o.InitialLength = DefaultOptions.InitialLength
	}
	if o.CacheSize == 0 {
		o.CacheSize = DefaultOptions.CacheSize
	}
	if o.GrowthFactor == 0 {
		o.GrowthFactor = DefaultOptions.GrowthFactor
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop().Sugar()
	}
	return o
}

func checkOptions(o Options) error {
	if o.InitialLength <= 0 {
		return errors.New("caskdb: InitialLength must be greater than zero")
	}
	if o.CacheSize <= 0 {
		return errors.New("caskdb: CacheSize must be greater than zero")
	}
	if o.GrowthFactor < 2 {
		return errors.New("caskdb: GrowthFactor must be at least 2")
	}
	return nil
}
