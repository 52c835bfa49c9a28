package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/relabs-tech/lsm6ds33/internal/lsm6ds33"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker           string
	MQTTClientIDProducer string
	MQTTClientIDConsole  string
	MQTTClientIDWeb      string
	MQTTClientIDDisplay  string

	// Topics
	TopicIMULeft   string
	TopicIMURight  string
	TopicIMUConfig string

	// IMU Hardware
	IMUBus            string // "i2c" or "spi"
	IMUI2CBus         string // i2creg name, "" for the first bus
	IMULeftI2CAddr    uint16 // 0 when absent
	IMURightI2CAddr   uint16 // 0 when absent
	IMULeftSPIDevice  string
	IMURightSPIDevice string

	// IMU Rates and Ranges. Zero values keep the driver defaults.
	IMUAccelODR   lsm6ds33.DataRate
	IMUAccelScale lsm6ds33.AccelScale
	IMUGyroODR    lsm6ds33.DataRate
	IMUGyroScale  lsm6ds33.GyroScale

	// IMU Soft Reset
	IMUResetPollLimit      int // 0 waits forever
	IMUResetPollIntervalUS int // microseconds, 0 spins

	// Timing
	IMUSampleInterval  int // milliseconds
	ConsoleLogInterval int // milliseconds

	// Web Server
	WebServerPort              int
	RegisterDebugPort          int
	RegisterDebugAllowedRanges []AddrRange // registers the debug tool may write

	// Display (SSD1306 at 0x3C on IMU_I2C_BUS)
	DisplayUpdateInterval int    // milliseconds
	DisplayContent        string // "imu_raw_left", "imu_raw_right", "imu_config"
}

// AddrRange is an inclusive range of register addresses.
type AddrRange struct {
	From, To byte
}

// Package-level singleton, set once by InitGlobal and read through Get.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()
	return Parse(file)
}

// Parse reads KEY=VALUE lines from r. Blank lines and lines starting with #
// are ignored.
func Parse(r io.Reader) (*Config, error) {
	cfg := &Config{
		IMUBus:                "i2c",
		IMULeftI2CAddr:        lsm6ds33.I2CAddrHigh,
		TopicIMULeft:          "inertial/imu/left",
		TopicIMURight:         "inertial/imu/right",
		TopicIMUConfig:        "inertial/imu/config",
		WebServerPort:         8080,
		RegisterDebugPort:     8081,
		DisplayUpdateInterval: 500,
		DisplayContent:        "imu_raw_left",
	}
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value

	// Topics
	case "TOPIC_IMU_LEFT":
		c.TopicIMULeft = value
	case "TOPIC_IMU_RIGHT":
		c.TopicIMURight = value
	case "TOPIC_IMU_CONFIG":
		c.TopicIMUConfig = value

	// IMU Hardware
	case "IMU_BUS":
		if value != "i2c" && value != "spi" {
			return fmt.Errorf("IMU_BUS must be i2c or spi, got %q", value)
		}
		c.IMUBus = value
	case "IMU_I2C_BUS":
		c.IMUI2CBus = value
	case "IMU_LEFT_I2C_ADDR":
		addr, err := parseI2CAddr(value)
		if err != nil {
			return fmt.Errorf("invalid IMU_LEFT_I2C_ADDR %q: %w", value, err)
		}
		c.IMULeftI2CAddr = addr
	case "IMU_RIGHT_I2C_ADDR":
		addr, err := parseI2CAddr(value)
		if err != nil {
			return fmt.Errorf("invalid IMU_RIGHT_I2C_ADDR %q: %w", value, err)
		}
		c.IMURightI2CAddr = addr
	case "IMU_LEFT_SPI_DEVICE":
		c.IMULeftSPIDevice = value
	case "IMU_RIGHT_SPI_DEVICE":
		c.IMURightSPIDevice = value

	// IMU Rates and Ranges
	case "IMU_ACCEL_ODR":
		r, err := ParseDataRate(value)
		if err != nil {
			return fmt.Errorf("invalid IMU_ACCEL_ODR: %w", err)
		}
		c.IMUAccelODR = r
	case "IMU_ACCEL_SCALE":
		s, err := ParseAccelScale(value)
		if err != nil {
			return fmt.Errorf("invalid IMU_ACCEL_SCALE: %w", err)
		}
		c.IMUAccelScale = s
	case "IMU_GYRO_ODR":
		r, err := ParseDataRate(value)
		if err != nil {
			return fmt.Errorf("invalid IMU_GYRO_ODR: %w", err)
		}
		if r > lsm6ds33.ODR1_66kHz {
			return fmt.Errorf("IMU_GYRO_ODR must be at most 1660 Hz, got %s", value)
		}
		c.IMUGyroODR = r
	case "IMU_GYRO_SCALE":
		s, err := ParseGyroScale(value)
		if err != nil {
			return fmt.Errorf("invalid IMU_GYRO_SCALE: %w", err)
		}
		c.IMUGyroScale = s

	// IMU Soft Reset
	case "IMU_RESET_POLL_LIMIT":
		val, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid IMU_RESET_POLL_LIMIT %q: %w", value, err)
		}
		if val < 0 {
			return fmt.Errorf("IMU_RESET_POLL_LIMIT must be >= 0 (0 = wait forever), got %d", val)
		}
		c.IMUResetPollLimit = val
	case "IMU_RESET_POLL_INTERVAL_US":
		val, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid IMU_RESET_POLL_INTERVAL_US %q: %w", value, err)
		}
		if val < 0 {
			return fmt.Errorf("IMU_RESET_POLL_INTERVAL_US must be >= 0, got %d", val)
		}
		c.IMUResetPollIntervalUS = val

	// Timing
	case "IMU_SAMPLE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid IMU_SAMPLE_INTERVAL %q: %w", value, err)
		}
		c.IMUSampleInterval = interval
	case "CONSOLE_LOG_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid CONSOLE_LOG_INTERVAL %q: %w", value, err)
		}
		c.ConsoleLogInterval = interval

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port
	case "REGISTER_DEBUG_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid REGISTER_DEBUG_PORT %q: %w", value, err)
		}
		c.RegisterDebugPort = port
	case "REGISTER_DEBUG_WRITABLE":
		ranges, err := parseAddrRanges(value)
		if err != nil {
			return fmt.Errorf("invalid REGISTER_DEBUG_WRITABLE %q: %w", value, err)
		}
		c.RegisterDebugAllowedRanges = ranges

	// Display
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_UPDATE_INTERVAL %q: %w", value, err)
		}
		c.DisplayUpdateInterval = interval
	case "DISPLAY_CONTENT":
		switch value {
		case "imu_raw_left", "imu_raw_right", "imu_config":
		default:
			return fmt.Errorf("DISPLAY_CONTENT must be imu_raw_left, imu_raw_right or imu_config, got %q", value)
		}
		c.DisplayContent = value

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	switch c.IMUBus {
	case "i2c":
		if c.IMULeftI2CAddr == 0 && c.IMURightI2CAddr == 0 {
			return fmt.Errorf("IMU_LEFT_I2C_ADDR or IMU_RIGHT_I2C_ADDR is required")
		}
		if c.IMULeftI2CAddr == c.IMURightI2CAddr {
			return fmt.Errorf("IMU_LEFT_I2C_ADDR and IMU_RIGHT_I2C_ADDR must differ")
		}
	case "spi":
		if c.IMULeftSPIDevice == "" && c.IMURightSPIDevice == "" {
			return fmt.Errorf("IMU_LEFT_SPI_DEVICE or IMU_RIGHT_SPI_DEVICE is required")
		}
	}
	if c.IMUSampleInterval == 0 {
		return fmt.Errorf("IMU_SAMPLE_INTERVAL is required")
	}
	if c.ConsoleLogInterval == 0 {
		return fmt.Errorf("CONSOLE_LOG_INTERVAL is required")
	}
	return nil
}

// IMUOpts returns the driver options described by the configuration.
func (c *Config) IMUOpts() *lsm6ds33.Opts {
	return &lsm6ds33.Opts{
		AccelDataRate:     c.IMUAccelODR,
		AccelScale:        c.IMUAccelScale,
		GyroDataRate:      c.IMUGyroODR,
		GyroScale:         c.IMUGyroScale,
		ResetPollLimit:    c.IMUResetPollLimit,
		ResetPollInterval: time.Duration(c.IMUResetPollIntervalUS) * time.Microsecond,
	}
}

// RegisterWritable reports whether the register debug tool may write addr.
// No configured ranges means no writes.
func (c *Config) RegisterWritable(addr byte) bool {
	for _, r := range c.RegisterDebugAllowedRanges {
		if addr >= r.From && addr <= r.To {
			return true
		}
	}
	return false
}

var dataRatesHz = map[string]lsm6ds33.DataRate{
	"12.5": lsm6ds33.ODR12_5Hz,
	"26":   lsm6ds33.ODR26Hz,
	"52":   lsm6ds33.ODR52Hz,
	"104":  lsm6ds33.ODR104Hz,
	"208":  lsm6ds33.ODR208Hz,
	"416":  lsm6ds33.ODR416Hz,
	"833":  lsm6ds33.ODR833Hz,
	"1660": lsm6ds33.ODR1_66kHz,
	"3330": lsm6ds33.ODR3_33kHz,
	"6660": lsm6ds33.ODR6_66kHz,
}

// ParseDataRate parses a rate in Hz: 12.5, 26, 52, 104, 208, 416, 833, 1660,
// 3330 or 6660.
func ParseDataRate(s string) (lsm6ds33.DataRate, error) {
	if r, ok := dataRatesHz[s]; ok {
		return r, nil
	}
	return 0, fmt.Errorf("unsupported data rate %q Hz (12.5, 26, 52, 104, 208, 416, 833, 1660, 3330, 6660)", s)
}

// ParseAccelScale parses an accelerometer range in g: 2, 4, 8 or 16.
func ParseAccelScale(s string) (lsm6ds33.AccelScale, error) {
	switch s {
	case "2":
		return lsm6ds33.AccelScale2G, nil
	case "4":
		return lsm6ds33.AccelScale4G, nil
	case "8":
		return lsm6ds33.AccelScale8G, nil
	case "16":
		return lsm6ds33.AccelScale16G, nil
	}
	return 0, fmt.Errorf("unsupported accelerometer scale %q g (2, 4, 8, 16)", s)
}

// ParseGyroScale parses a gyroscope range in °/s: 125, 250, 500, 1000 or 2000.
func ParseGyroScale(s string) (lsm6ds33.GyroScale, error) {
	switch s {
	case "125":
		return lsm6ds33.GyroScale125DPS, nil
	case "250", "245":
		return lsm6ds33.GyroScale250DPS, nil
	case "500":
		return lsm6ds33.GyroScale500DPS, nil
	case "1000":
		return lsm6ds33.GyroScale1000DPS, nil
	case "2000":
		return lsm6ds33.GyroScale2000DPS, nil
	}
	return 0, fmt.Errorf("unsupported gyroscope scale %q dps (125, 250, 500, 1000, 2000)", s)
}

func parseI2CAddr(s string) (uint16, error) {
	addr, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, err
	}
	if addr > 0x7F {
		return 0, fmt.Errorf("7-bit address expected, got 0x%X", addr)
	}
	return uint16(addr), nil
}

// parseAddrRanges parses "0x10-0x19,0x01".
func parseAddrRanges(s string) ([]AddrRange, error) {
	var out []AddrRange
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		from, to, isRange := strings.Cut(part, "-")
		lo, err := strconv.ParseUint(strings.TrimSpace(from), 0, 8)
		if err != nil {
			return nil, err
		}
		hi := lo
		if isRange {
			if hi, err = strconv.ParseUint(strings.TrimSpace(to), 0, 8); err != nil {
				return nil, err
			}
		}
		if hi < lo {
			return nil, fmt.Errorf("range %q is reversed", part)
		}
		out = append(out, AddrRange{From: byte(lo), To: byte(hi)})
	}
	return out, nil
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
