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

// Package errkit declares the error kinds the query engine can surface
// and how each is classified for the caller.
package errkit

import (
	"encoding/json"

	goerrors "gopkg.in/src-d/go-errors.v1"
)

// Kind identifies how an error should be reported and whether it is the
// caller's fault or the engine's.
type Kind int

const (
	BadRequest Kind = iota
	QueryParse
	UnknownColumn
	UnknownSequence
	InvalidRegex
	OutOfRange
	Timeout
	Internal
)

func (k Kind) String() string {
	switch k {
	case BadRequest:
		return "BadRequest"
	case QueryParse:
		return "QueryParse"
	case UnknownColumn:
		return "UnknownColumn"
	case UnknownSequence:
		return "UnknownSequence"
	case InvalidRegex:
		return "InvalidRegex"
	case OutOfRange:
		return "OutOfRange"
	case Timeout:
		return "Timeout"
	case Internal:
		return "Internal"
	default:
		return "Unknown"
	}
}

var kinds = map[Kind]*goerrors.Kind{
	BadRequest:      goerrors.NewKind("bad request: %s"),
	QueryParse:      goerrors.NewKind("could not parse query: %s"),
	UnknownColumn:   goerrors.NewKind("unknown column: %s"),
	UnknownSequence: goerrors.NewKind("unknown sequence: %s"),
	InvalidRegex:    goerrors.NewKind("invalid regular expression: %s"),
	OutOfRange:      goerrors.NewKind("value out of range: %s"),
	Timeout:         goerrors.NewKind("query timed out: %s"),
	Internal:        goerrors.NewKind("internal error: %s"),
}

// Error is a query-engine error tagged with a Kind and, for Parse/validation
// kinds, the offending field name.
type Error struct {
	kind   Kind
	detail string
	err    error
}

func (e *Error) Error() string {
	return e.err.Error()
}

func (e *Error) Unwrap() error {
	return e.err
}

// Kind returns the error's classification.
func (e *Error) Kind() Kind {
	return e.kind
}

// Detail returns the offending field name or identifier, if any.
func (e *Error) Detail() string {
	return e.detail
}

// MarshalJSON renders the error in the wire shape {kind, message,
// detail?}.
func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
		Detail  string `json:"detail,omitempty"`
	}{e.kind.String(), e.err.Error(), e.detail})
}

// New builds an *Error of the given kind with a message and optional
// detail (typically the offending field, column, or sequence name).
func New(kind Kind, message string, detail string) *Error {
	return &Error{kind: kind, detail: detail, err: kinds[kind].New(message)}
}

// Is reports whether err is (or wraps) a *Error of the given kind.
func Is(err error, kind Kind) bool {
	if e, ok := As(err); ok {
		return e.kind == kind
	}
	return kinds[kind].Is(err)
}

// As extracts an *Error from err, if any wraps one.
func As(err error) (*Error, bool) {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return nil, false
}
