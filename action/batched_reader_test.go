// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package action

import (
	"testing"

	"github.com/RoaringBitmap/roaring"
	"github.com/stretchr/testify/require"
)

func TestBatchedBitmapReaderPartitionsExactly(t *testing.T) {
	filter := roaring.New()
	for i := uint32(0); i < 10; i++ {
		filter.Add(i * 2) // 0,2,4,...,18
	}
	reader := NewBatchedBitmapReader(filter, 3)

	var seen []uint32
	for {
		batch, ok, err := reader.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		require.LessOrEqual(t, batch.GetCardinality(), uint64(3))
		seen = append(seen, batch.ToArray()...)
	}
	require.ElementsMatch(t, filter.ToArray(), seen)
}

func TestBatchedBitmapReaderEmptyFilter(t *testing.T) {
	reader := NewBatchedBitmapReader(roaring.New(), 4)
	_, ok, err := reader.Next()
	require.NoError(t, err)
	require.False(t, ok)
}
