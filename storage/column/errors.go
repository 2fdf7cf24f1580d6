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

package column

import "errors"

// ErrNotSorted is returned by Date.Insert when a value would break the
// monotonic non-decreasing order a Sorted date column asserts at
// ingestion time.
var ErrNotSorted = errors.New("column: date values must be inserted in non-decreasing order on a sorted column")
