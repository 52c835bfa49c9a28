// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/relabs-tech/lsm6ds33/internal/config"
	imu_raw "github.com/relabs-tech/lsm6ds33/internal/imu"
	"github.com/relabs-tech/lsm6ds33/internal/sensors"
)

// formatSample renders one sample as a console line.
func formatSample(s imu_raw.IMURaw) string {
	return fmt.Sprintf(
		"[IMU-%s] ax=%6d ay=%6d az=%6d  gx=%6d gy=%6d gz=%6d  t=%5.1f°C",
		strings.ToUpper(s.Source[:min(1, len(s.Source))]),
		s.Ax, s.Ay, s.Az, s.Gx, s.Gy, s.Gz, s.TempC(),
	)
}

func formatConfig(c imu_raw.IMUConfig) string {
	return fmt.Sprintf("[CFG-%s] accel %s @ %s  gyro %s @ %s",
		strings.ToUpper(c.Source[:min(1, len(c.Source))]),
		c.AccelScale, c.AccelODR, c.GyroScale, c.GyroODR)
}

// RunConsole reads the IMUs directly, without MQTT, and prints samples.
func RunConsole() error {
	cfg := config.Get()
	mgr := sensors.GetIMUManager()
	if err := mgr.Init(); err != nil {
		return err
	}
	defer mgr.Close()

	for _, name := range availableIMUs(mgr) {
		c, err := mgr.ReadBackConfig(name)
		if err != nil {
			return err
		}
		fmt.Println(formatConfig(c))
	}

	ticker := time.NewTicker(time.Duration(cfg.ConsoleLogInterval) * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		for _, name := range availableIMUs(mgr) {
			s, err := mgr.ReadIMU(name)
			if err != nil {
				return err
			}
			fmt.Println(formatSample(s))
		}
	}
	return nil
}
