// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package errs implements the error model shared by all tools. There is a single Error type, the
// Kind field tells validation failures and the different weather API failures apart.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an Error.
type Kind int

const (
	// KindInternal is used for failures that do not fit any other kind, like recovered panics.
	KindInternal Kind = iota
	// KindValidation means a caller supplied argument is absent, wrong-shaped or out of domain.
	KindValidation
	// KindNotFound means the provider does not know the requested location.
	KindNotFound
	// KindAuthOrQuota means the provider rejected the credentials or the quota is exhausted.
	KindAuthOrQuota
	// KindNetwork means the provider could not be reached, timed out or failed server-side.
	KindNetwork
	// KindParse means the provider answered with a payload we could not make sense of.
	KindParse
)

var kindNames = map[Kind]string{
	KindInternal:    "internal",
	KindValidation:  "validation",
	KindNotFound:    "not_found",
	KindAuthOrQuota: "auth_or_quota",
	KindNetwork:     "network",
	KindParse:       "parse_error",
}

// String returns the snake_case name of the kind, as used in tool payloads and logs.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// IsAPI reports whether the kind belongs to the weather API failures.
func (k Kind) IsAPI() bool {
	return k == KindNotFound || k == KindAuthOrQuota || k == KindNetwork || k == KindParse
}

// Error is the error type returned by the units, trend and weather packages.
type Error struct {
	Kind Kind
	// Op is the operation that failed, e.g. "kelvin_to_celsius" or "weather.current".
	Op string
	// Field names the offending argument for validation errors.
	Field string
	// Provider and Status are set for weather API errors.
	Provider string
	Status   int
	// Msg is a short human readable reason.
	Msg string
	Err error
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Op != "" {
		sb.WriteString(e.Op)
		sb.WriteString(": ")
	}
	switch {
	case e.Kind == KindValidation && e.Field != "":
		sb.WriteString("invalid ")
		sb.WriteString(e.Field)
		sb.WriteString(": ")
	case e.Kind.IsAPI() && e.Provider != "":
		sb.WriteString(e.Provider)
		if e.Status != 0 {
			fmt.Fprintf(&sb, " (status %d)", e.Status)
		}
		sb.WriteString(": ")
	}
	if e.Msg != "" {
		sb.WriteString(e.Msg)
	} else {
		sb.WriteString(e.Kind.String())
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is makes errors.Is match any *Error of the same Kind when the target carries no further details,
// so errors.Is(err, &errs.Error{Kind: errs.KindNotFound}) works as a kind check.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Field == "" && t.Msg == "" && t.Err == nil
}

// Validation returns a new validation error for the given operation and field.
func Validation(op, field, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Op: op, Field: field, Msg: fmt.Sprintf(format, args...)}
}

// API returns a new weather API error of the given kind.
func API(kind Kind, op, provider string, status int, msg string, err error) *Error {
	return &Error{Kind: kind, Op: op, Provider: provider, Status: status, Msg: msg, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain. Errors that are not of type *Error are
// reported as KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	return err != nil && KindOf(err) == KindValidation
}
