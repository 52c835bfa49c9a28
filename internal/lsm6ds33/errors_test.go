// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package lsm6ds33

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorIs(t *testing.T) {
	cause := errors.New("i/o timeout")
	bus := busError(cause)
	data := []struct {
		err    error
		target error
		want   bool
	}{
		{ErrCommunication, ErrCommunication, true},
		{bus, ErrCommunication, true},
		{bus, cause, true},
		{bus, ErrUnknownChipID, false},
		{ErrCommunication, ErrUnknownChipID, false},
		{ErrPin, ErrPin, true},
		{ErrPin, ErrCommunication, false},
		{fmt.Errorf("wrapped: %w", ErrUnknownChipID), ErrUnknownChipID, true},
		{ErrCommunication, bus, false},
		{ErrInvalidValue, ErrCommunication, false},
	}
	for i, line := range data {
		if got := errors.Is(line.err, line.target); got != line.want {
			t.Errorf("#%d: errors.Is(%v, %v) = %t, want %t", i, line.err, line.target, got, line.want)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	if got, want := ErrUnknownChipID.Error(), "lsm6ds33: unknown chip id"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if got, want := busError(errors.New("nack")).Error(), "lsm6ds33: bus error: nack"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if errors.Unwrap(ErrCommunication) != nil {
		t.Error("ErrCommunication wraps a cause")
	}
}
