// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package lsm6ds33

import "time"

// pollUntil calls done until it reports true or fails. limit caps the number
// of calls, 0 means no cap. interval is slept between calls, 0 spins.
// It returns ErrResetTimeout when the cap is hit.
func pollUntil(limit int, interval time.Duration, done func() (bool, error)) error {
	for i := 0; limit == 0 || i < limit; i++ {
		ok, err := done()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if interval > 0 {
			time.Sleep(interval)
		}
	}
	return ErrResetTimeout
}
