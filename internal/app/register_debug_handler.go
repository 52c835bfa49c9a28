// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/relabs-tech/lsm6ds33/internal/config"
	imu_raw "github.com/relabs-tech/lsm6ds33/internal/imu"
	"github.com/relabs-tech/lsm6ds33/internal/lsm6ds33"
	"github.com/relabs-tech/lsm6ds33/internal/sensors"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// registerBackend is the part of sensors.IMUManager the register debugger
// drives.
type registerBackend interface {
	GetRegisterMap() []sensors.RegisterInfo
	ReadRegister(imu string, addr byte) (byte, error)
	WriteRegister(imu string, addr, value byte) error
	ReadAllRegisters(imu string) (map[byte]byte, error)
	ExportRegisterConfig(imu string) (map[byte]byte, error)
	ReinitializeIMU(imu string) error
	ReadIMU(imu string) (imu_raw.IMURaw, error)
	Config(imu string) (imu_raw.IMUConfig, error)
	ReadBackConfig(imu string) (imu_raw.IMUConfig, error)
	SetAccelDataRate(imu string, r lsm6ds33.DataRate) error
	SetAccelScale(imu string, s lsm6ds33.AccelScale) error
	SetGyroDataRate(imu string, r lsm6ds33.DataRate) error
	SetGyroScale(imu string, s lsm6ds33.GyroScale) error
}

// RegisterDebugSession holds WebSocket connection state for register debugging
type RegisterDebugSession struct {
	Conn     *websocket.Conn
	backend  registerBackend
	writable func(addr byte) bool
}

// RegisterCmd is any request sent by the register debug page.
type RegisterCmd struct {
	Action  string `json:"action"`
	IMU     string `json:"imu,omitempty"`
	Address string `json:"addr,omitempty"`
	Value   string `json:"value,omitempty"`
}

// Response types
type RegisterResponse struct {
	Type        string                 `json:"type"` // "register_data", "register_map", "config", "status", "error"
	Device      string                 `json:"device,omitempty"`
	IMU         string                 `json:"imu,omitempty"`
	Address     string                 `json:"addr,omitempty"`
	Value       string                 `json:"value,omitempty"`
	Registers   map[string]string      `json:"registers,omitempty"` // for bulk read
	Timestamp   string                 `json:"timestamp,omitempty"`
	Message     string                 `json:"message,omitempty"`
	Status      string                 `json:"status,omitempty"`
	Config      *imu_raw.IMUConfig     `json:"config,omitempty"`      // last written
	ChipConfig  *imu_raw.IMUConfig     `json:"chip_config,omitempty"` // decoded from the chip
	RegisterMap []sensors.RegisterInfo `json:"register_map,omitempty"`
}

// RegisterConfigFile represents the JSON structure for exported register configuration
type RegisterConfigFile struct {
	Version   int               `json:"version"`
	Device    string            `json:"device"`
	IMU       string            `json:"imu"`
	Timestamp string            `json:"timestamp"`
	Registers map[string]string `json:"registers"` // hex address -> hex value
}

const deviceName = "lsm6ds33"

// HandleRegisterDebugWS handles the WebSocket connection for register
// debugging against the global IMU manager.
func HandleRegisterDebugWS(w http.ResponseWriter, r *http.Request) {
	newRegisterDebugHandler(sensors.GetIMUManager(), config.Get().RegisterWritable)(w, r)
}

func newRegisterDebugHandler(b registerBackend, writable func(addr byte) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("register_debug: websocket upgrade error: %v", err)
			return
		}
		defer conn.Close()

		session := &RegisterDebugSession{Conn: conn, backend: b, writable: writable}

		// Send register map on connection
		if err := session.sendRegisterMap(); err != nil {
			log.Printf("register_debug: error sending register map: %v", err)
			return
		}

		// Message loop
		for {
			var cmd RegisterCmd
			if err := conn.ReadJSON(&cmd); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("register_debug: websocket error: %v", err)
				}
				break
			}
			session.dispatch(cmd)
		}
	}
}

func (s *RegisterDebugSession) dispatch(cmd RegisterCmd) {
	if cmd.Action == "" {
		s.sendError("missing or invalid action field")
		return
	}
	if cmd.Action == "get_map" {
		s.sendRegisterMap()
		return
	}
	if cmd.IMU == "" {
		s.sendError("missing imu field")
		return
	}

	// Route based on action
	switch cmd.Action {
	case "read":
		s.handleRead(cmd)
	case "read_all":
		s.handleReadAll(cmd)
	case "write":
		s.handleWrite(cmd)
	case "init":
		s.handleInit(cmd)
	case "read_config":
		s.sendConfig(cmd.IMU, "")
	case "set_accel_odr", "set_accel_scale", "set_gyro_odr", "set_gyro_scale":
		s.handleSet(cmd)
	case "export_config":
		s.handleExportConfig(cmd)
	default:
		s.sendError(fmt.Sprintf("unknown action: %s", cmd.Action))
	}
}

func parseByte(s string) (byte, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	return byte(v), err
}

func hexMap(regs map[byte]byte) map[string]string {
	out := make(map[string]string, len(regs))
	for addr, value := range regs {
		out[fmt.Sprintf("0x%02X", addr)] = fmt.Sprintf("0x%02X", value)
	}
	return out
}

func (s *RegisterDebugSession) handleRead(cmd RegisterCmd) {
	if cmd.Address == "" {
		s.sendError("missing addr field")
		return
	}
	addr, err := parseByte(cmd.Address)
	if err != nil {
		s.sendError(fmt.Sprintf("invalid address format: %s", cmd.Address))
		return
	}

	value, err := s.backend.ReadRegister(cmd.IMU, addr)
	if err != nil {
		s.sendError(fmt.Sprintf("read error: %v", err))
		return
	}

	s.Conn.WriteJSON(RegisterResponse{
		Type:      "register_data",
		Device:    deviceName,
		IMU:       cmd.IMU,
		Address:   fmt.Sprintf("0x%02X", addr),
		Value:     fmt.Sprintf("0x%02X", value),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func (s *RegisterDebugSession) handleReadAll(cmd RegisterCmd) {
	registers, err := s.backend.ReadAllRegisters(cmd.IMU)
	if err != nil {
		s.sendError(fmt.Sprintf("read all error: %v", err))
		return
	}

	s.Conn.WriteJSON(RegisterResponse{
		Type:      "register_data",
		Device:    deviceName,
		IMU:       cmd.IMU,
		Registers: hexMap(registers),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func (s *RegisterDebugSession) handleWrite(cmd RegisterCmd) {
	if cmd.Address == "" || cmd.Value == "" {
		s.sendError("missing addr or value field")
		return
	}

	addr, err := parseByte(cmd.Address)
	if err != nil {
		s.sendError(fmt.Sprintf("invalid address format: %s", cmd.Address))
		return
	}
	value, err := parseByte(cmd.Value)
	if err != nil {
		s.sendError(fmt.Sprintf("invalid value format: %s", cmd.Value))
		return
	}

	if !s.writable(addr) {
		s.sendError(fmt.Sprintf("register 0x%02X not in allowed write ranges", addr))
		return
	}
	if err := s.backend.WriteRegister(cmd.IMU, addr, value); err != nil {
		s.sendError(fmt.Sprintf("write error: %v", err))
		return
	}

	s.Conn.WriteJSON(RegisterResponse{
		Type:      "register_data",
		Device:    deviceName,
		IMU:       cmd.IMU,
		Address:   fmt.Sprintf("0x%02X", addr),
		Value:     fmt.Sprintf("0x%02X", value),
		Timestamp: time.Now().Format(time.RFC3339),
		Message:   "write successful",
	})
}

func (s *RegisterDebugSession) handleInit(cmd RegisterCmd) {
	if err := s.backend.ReinitializeIMU(cmd.IMU); err != nil {
		s.sendError(fmt.Sprintf("reinit error: %v", err))
		return
	}
	s.sendConfig(cmd.IMU, "IMU reinitialized successfully")
}

// handleSet applies one rate or range change. Values use the same notation
// as the configuration file: Hz for rates, g or °/s for ranges.
func (s *RegisterDebugSession) handleSet(cmd RegisterCmd) {
	if cmd.Value == "" {
		s.sendError("missing value field")
		return
	}

	var err error
	switch cmd.Action {
	case "set_accel_odr":
		var r lsm6ds33.DataRate
		if r, err = config.ParseDataRate(cmd.Value); err == nil {
			err = s.backend.SetAccelDataRate(cmd.IMU, r)
		}
	case "set_accel_scale":
		var sc lsm6ds33.AccelScale
		if sc, err = config.ParseAccelScale(cmd.Value); err == nil {
			err = s.backend.SetAccelScale(cmd.IMU, sc)
		}
	case "set_gyro_odr":
		var r lsm6ds33.DataRate
		if r, err = config.ParseDataRate(cmd.Value); err == nil {
			err = s.backend.SetGyroDataRate(cmd.IMU, r)
		}
	case "set_gyro_scale":
		var sc lsm6ds33.GyroScale
		if sc, err = config.ParseGyroScale(cmd.Value); err == nil {
			err = s.backend.SetGyroScale(cmd.IMU, sc)
		}
	}
	if err != nil {
		s.sendError(fmt.Sprintf("%s error: %v", cmd.Action, err))
		return
	}
	s.sendConfig(cmd.IMU, fmt.Sprintf("%s %s applied", cmd.Action, cmd.Value))
}

// sendConfig reports both the cached and the on-chip configuration.
func (s *RegisterDebugSession) sendConfig(imu, message string) {
	cached, err := s.backend.Config(imu)
	if err != nil {
		s.sendError(fmt.Sprintf("config error: %v", err))
		return
	}
	chip, err := s.backend.ReadBackConfig(imu)
	if err != nil {
		s.sendError(fmt.Sprintf("config read back error: %v", err))
		return
	}
	s.Conn.WriteJSON(RegisterResponse{
		Type:       "config",
		Device:     deviceName,
		IMU:        imu,
		Status:     "initialized",
		Config:     &cached,
		ChipConfig: &chip,
		Message:    message,
		Timestamp:  time.Now().Format(time.RFC3339),
	})
}

func (s *RegisterDebugSession) handleExportConfig(cmd RegisterCmd) {
	registers, err := s.backend.ExportRegisterConfig(cmd.IMU)
	if err != nil {
		s.sendError(fmt.Sprintf("export error: %v", err))
		return
	}

	now := time.Now()
	configJSON, err := json.Marshal(RegisterConfigFile{
		Version:   1,
		Device:    deviceName,
		IMU:       cmd.IMU,
		Timestamp: now.Format(time.RFC3339),
		Registers: hexMap(registers),
	})
	if err != nil {
		s.sendError(fmt.Sprintf("export error: %v", err))
		return
	}

	// Send as download
	s.Conn.WriteJSON(map[string]any{
		"type":     "export_config",
		"imu":      cmd.IMU,
		"message":  "config exported",
		"config":   string(configJSON),
		"filename": fmt.Sprintf("%s_%s_registers.json", cmd.IMU, now.Format("20060102_150405")),
	})
}

func (s *RegisterDebugSession) sendRegisterMap() error {
	return s.Conn.WriteJSON(RegisterResponse{
		Type:        "register_map",
		Device:      deviceName,
		RegisterMap: s.backend.GetRegisterMap(),
	})
}

func (s *RegisterDebugSession) sendError(message string) {
	s.Conn.WriteJSON(RegisterResponse{
		Type:    "error",
		Message: message,
	})
}

// HandleIMUData serves a live sample read straight from the global IMU
// manager. Query parameter: ?imu=left or ?imu=right (defaults to left)
func HandleIMUData(w http.ResponseWriter, r *http.Request) {
	newIMUDataHandler(sensors.GetIMUManager())(w, r)
}

func newIMUDataHandler(b registerBackend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		name, ok := imuParam(w, r)
		if !ok {
			return
		}
		raw, err := b.ReadIMU(name)
		if err != nil {
			http.Error(w, fmt.Sprintf(`{"error": %q}`, err.Error()), http.StatusInternalServerError)
			return
		}
		writeJSON(w, raw)
	}
}
