// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/relabs-tech/lsm6ds33/internal/app"
	"github.com/relabs-tech/lsm6ds33/internal/config"
	"github.com/relabs-tech/lsm6ds33/internal/sensors"
)

func main() {
	configPath := flag.String("config", "./lsm6ds33_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting LSM6DS33 register debug tool (standalone)")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	log.Println("Initializing IMU manager...")
	imuManager := sensors.GetIMUManager()
	if err := imuManager.Init(); err != nil {
		log.Printf("Warning: IMU initialization had issues: %v", err)
		log.Println("Continuing anyway - IMUs can be reinitialized from the page")
	}
	defer imuManager.Close()

	if imuManager.IsLeftIMUAvailable() {
		log.Println("Left IMU available")
	} else {
		log.Println("Warning: Left IMU not available")
	}

	if imuManager.IsRightIMUAvailable() {
		log.Println("Right IMU available")
	} else {
		log.Println("Warning: Right IMU not available")
	}

	http.HandleFunc("/ws", app.HandleRegisterDebugWS)

	// API endpoint for live IMU data
	http.HandleFunc("/api/imu", app.HandleIMUData)

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "web/register_debug.html")
	})

	port := config.Get().RegisterDebugPort
	addr := fmt.Sprintf(":%d", port)
	log.Printf("Register debug tool listening on %s", addr)
	log.Printf("Open http://localhost:%d in your browser", port)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
