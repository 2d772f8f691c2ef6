//----------------------------------------------------------------------
// This file is part of linecable.
// Copyright (C) 2024-present The linecable developers
//
// linecable is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// linecable is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

package lib

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies model errors.
type Kind int

const (
	ErrNone Kind = iota
	ErrInvalidGeometry
	ErrInvalidValue
	ErrInvalidInput
	ErrDomain
	ErrNumerical
	ErrNotFound
	ErrDuplicate
	ErrIO
)

// String returns the kind label
func (k Kind) String() string {
	switch k {
	case ErrInvalidGeometry:
		return "INVALID_GEOMETRY"
	case ErrInvalidValue:
		return "INVALID_VALUE"
	case ErrInvalidInput:
		return "INVALID_INPUT"
	case ErrDomain:
		return "DOMAIN"
	case ErrNumerical:
		return "NUMERICAL_ERROR"
	case ErrNotFound:
		return "NOT_FOUND"
	case ErrDuplicate:
		return "DUPLICATE"
	case ErrIO:
		return "IO_ERROR"
	}
	return "UNKNOWN"
}

// Error carries the kind, a short message and enough structural
// context (cable index, component id, layer index, frequency index)
// to locate the offending element. Unset indices are -1.
type Error struct {
	Kind      Kind
	Msg       string
	Cable     int
	Component string
	Layer     int
	Freq      int
}

// Error returns the human-readable message with context
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(": ")
	b.WriteString(e.Msg)
	if e.Cable >= 0 {
		fmt.Fprintf(&b, " [cable %d]", e.Cable)
	}
	if len(e.Component) > 0 {
		fmt.Fprintf(&b, " [component %s]", e.Component)
	}
	if e.Layer >= 0 {
		fmt.Fprintf(&b, " [layer %d]", e.Layer)
	}
	if e.Freq >= 0 {
		fmt.Fprintf(&b, " [freq %d]", e.Freq)
	}
	return b.String()
}

// newErr assembles an error of given kind without context
func newErr(k Kind, format string, args ...any) *Error {
	return &Error{
		Kind:  k,
		Msg:   fmt.Sprintf(format, args...),
		Cable: -1,
		Layer: -1,
		Freq:  -1,
	}
}

// AtCable attaches a cable index
func (e *Error) AtCable(i int) *Error {
	e.Cable = i
	return e
}

// AtComponent attaches a component id
func (e *Error) AtComponent(id string) *Error {
	e.Component = id
	return e
}

// AtLayer attaches a layer index
func (e *Error) AtLayer(i int) *Error {
	e.Layer = i
	return e
}

// AtFreq attaches a frequency index
func (e *Error) AtFreq(k int) *Error {
	e.Freq = k
	return e
}

// KindOf extracts the kind of a model error (ErrNone for nil or
// foreign errors).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrNone
}
