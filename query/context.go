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

package query

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/silogenomics/silo/errkit"
)

// Context wraps a context.Context with a query-scoped logger and
// translates a deadline overrun into the Timeout error kind rather than
// the raw context.DeadlineExceeded.
type Context struct {
	context.Context
	Log *logrus.Entry
}

// NewContext derives a Context bound to deadline (zero means no
// deadline) carrying log fields identifying this query.
func NewContext(parent context.Context, deadline time.Duration, table string) (*Context, context.CancelFunc) {
	ctx := parent
	cancel := func() {}
	if deadline > 0 {
		ctx, cancel = context.WithTimeout(parent, deadline)
	}
	log := logrus.WithFields(logrus.Fields{"table": table})
	return &Context{Context: ctx, Log: log}, cancel
}

// Err reports the context's error, translating DeadlineExceeded into the
// engine's Timeout error kind.
func (c *Context) Err() error {
	err := c.Context.Err()
	if err == context.DeadlineExceeded {
		return errkit.New(errkit.Timeout, "query exceeded its deadline", "")
	}
	return err
}
