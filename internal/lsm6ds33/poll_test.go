// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package lsm6ds33

import (
	"errors"
	"testing"
)

func TestPollUntil(t *testing.T) {
	n := 0
	err := pollUntil(0, 0, func() (bool, error) {
		n++
		return n == 1000, nil
	})
	if err != nil || n != 1000 {
		t.Errorf("unbounded: err = %v after %d calls", err, n)
	}

	n = 0
	err = pollUntil(7, 0, func() (bool, error) {
		n++
		return false, nil
	})
	if !errors.Is(err, ErrResetTimeout) || n != 7 {
		t.Errorf("bounded: err = %v after %d calls", err, n)
	}

	stop := errors.New("stop")
	n = 0
	err = pollUntil(0, 0, func() (bool, error) {
		n++
		return false, stop
	})
	if err != stop || n != 1 {
		t.Errorf("failing: err = %v after %d calls", err, n)
	}
}
