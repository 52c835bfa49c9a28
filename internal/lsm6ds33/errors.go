// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package lsm6ds33

import "errors"

// Kind classifies an Error.
type Kind uint8

const (
	// KindCommunication is a failed or refused bus transaction whose cause
	// is not kept.
	KindCommunication Kind = iota + 1
	// KindPin is reserved for GPIO lines (interrupts, chip select). Nothing
	// raises it yet.
	KindPin
	// KindUnknownChipID means WHO_AM_I did not return ChipID.
	KindUnknownChipID
	// KindBus wraps the transport's own error.
	KindBus
)

func (k Kind) String() string {
	switch k {
	case KindCommunication:
		return "communication error"
	case KindPin:
		return "pin error"
	case KindUnknownChipID:
		return "unknown chip id"
	case KindBus:
		return "bus error"
	}
	return "unknown error"
}

// Error is returned by every bus-touching operation of this package.
type Error struct {
	Kind Kind
	Err  error // set for KindBus
}

func (e *Error) Error() string {
	if e.Err != nil {
		return "lsm6ds33: " + e.Kind.String() + ": " + e.Err.Error()
	}
	return "lsm6ds33: " + e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinels by kind. A bus error is also a communication
// error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Err != nil {
		return false
	}
	if t.Kind == KindCommunication && e.Kind == KindBus {
		return true
	}
	return t.Kind == e.Kind
}

var (
	ErrCommunication = &Error{Kind: KindCommunication}
	ErrPin           = &Error{Kind: KindPin}
	ErrUnknownChipID = &Error{Kind: KindUnknownChipID}

	// ErrInvalidValue is returned, without touching the bus, for a rate or
	// scale the chip cannot be set to.
	ErrInvalidValue = errors.New("lsm6ds33: invalid value")

	// ErrResetTimeout is returned when Opts.ResetPollLimit reads of CTRL3_C
	// all still showed SW_RESET set.
	ErrResetTimeout = errors.New("lsm6ds33: soft reset did not complete")
)

func busError(err error) error {
	return &Error{Kind: KindBus, Err: err}
}
