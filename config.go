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

package silo

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/silogenomics/silo/query"
)

// Config holds the Engine's tunable behavior: a small literal struct
// passed once at construction.
type Config struct {
	// DefaultDeadline bounds every query's wall-clock execution; a
	// request context with an earlier deadline ends the query sooner.
	DefaultDeadline time.Duration
	// Workers caps the number of partitions evaluated concurrently per
	// query; zero means one goroutine per partition.
	Workers int
	// LogLevel controls the verbosity of the engine's structured logs.
	LogLevel logrus.Level
}

func (c *Config) applyDefaults() {
	if c.DefaultDeadline == 0 {
		c.DefaultDeadline = query.DefaultDeadline
	}
}
