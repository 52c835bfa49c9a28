package app

import (
	"encoding/json"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/lsm6ds33/internal/config"
	imu_raw "github.com/relabs-tech/lsm6ds33/internal/imu"
	"github.com/relabs-tech/lsm6ds33/internal/sensors"
)

const (
	displayWidth  = 128
	displayHeight = 64
)

// DisplayData holds the latest data for display
type DisplayData struct {
	mu      sync.RWMutex
	samples map[string]imu_raw.IMURaw
	configs map[string]imu_raw.IMUConfig
}

func newDisplayData() *DisplayData {
	return &DisplayData{
		samples: make(map[string]imu_raw.IMURaw),
		configs: make(map[string]imu_raw.IMUConfig),
	}
}

func RunDisplay() error {
	cfg := config.Get()

	// Initialize periph
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	// Open I2C bus
	bus, err := i2creg.Open(cfg.IMUI2CBus)
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	log.Printf("display: initialized on %s", bus)

	if err := dev.Draw(dev.Bounds(), renderSplash(), image.Point{}); err != nil {
		log.Printf("display: error showing splash: %v", err)
	}

	data := newDisplayData()

	// Connect to MQTT
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDDisplay)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("display: connected to MQTT broker at %s", cfg.MQTTBroker)

	topic := displayTopic(cfg)
	token := client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		if err := data.handleMessage(cfg.DisplayContent, msg.Payload()); err != nil {
			log.Printf("display: %s unmarshal error: %v", msg.Topic(), err)
		}
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("display: subscribed to %s", topic)

	// Display update loop
	ticker := time.NewTicker(time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond)
	defer ticker.Stop()

	log.Println("display: starting update loop")

	for range ticker.C {
		if err := dev.Draw(dev.Bounds(), data.render(cfg.DisplayContent), image.Point{}); err != nil {
			log.Printf("display: error updating display: %v", err)
		}
	}

	return nil
}

func displayTopic(cfg *config.Config) string {
	switch cfg.DisplayContent {
	case "imu_raw_right":
		return cfg.TopicIMURight
	case "imu_config":
		return cfg.TopicIMUConfig + "/+"
	}
	return cfg.TopicIMULeft
}

func (d *DisplayData) handleMessage(content string, payload []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch content {
	case "imu_config":
		var c imu_raw.IMUConfig
		if err := json.Unmarshal(payload, &c); err != nil {
			return err
		}
		d.configs[c.Source] = c
	case "imu_raw_right":
		var raw imu_raw.IMURaw
		if err := json.Unmarshal(payload, &raw); err != nil {
			return err
		}
		d.samples[sensors.Right] = raw
	default:
		var raw imu_raw.IMURaw
		if err := json.Unmarshal(payload, &raw); err != nil {
			return err
		}
		d.samples[sensors.Left] = raw
	}
	return nil
}

// render draws the current frame for content.
func (d *DisplayData) render(content string) *image1bit.VerticalLSB {
	d.mu.RLock()
	defer d.mu.RUnlock()
	switch content {
	case "imu_raw_right":
		raw, ok := d.samples[sensors.Right]
		return renderIMURaw(raw, ok, "Right")
	case "imu_config":
		c, ok := d.configs[sensors.Left]
		if !ok {
			c, ok = d.configs[sensors.Right]
		}
		return renderIMUConfig(c, ok)
	}
	raw, ok := d.samples[sensors.Left]
	return renderIMURaw(raw, ok, "Left")
}

func newFrame() (*image1bit.VerticalLSB, *font.Drawer) {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, displayWidth, displayHeight))
	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
	return img, drawer
}

func drawLines(drawer *font.Drawer, lines ...string) {
	for i, l := range lines {
		drawer.Dot = fixed.P(0, 13*(i+1))
		drawer.DrawString(l)
	}
}

func renderWaiting(title string) *image1bit.VerticalLSB {
	img, drawer := newFrame()
	drawer.Dot = fixed.P(0, 26)
	drawer.DrawString(title)
	drawer.Dot = fixed.P(0, 39)
	drawer.DrawString("Waiting...")
	return img
}

func renderIMURaw(raw imu_raw.IMURaw, haveData bool, label string) *image1bit.VerticalLSB {
	if !haveData {
		return renderWaiting("IMU " + label)
	}
	img, drawer := newFrame()
	drawLines(drawer,
		fmt.Sprintf("A:%6d %6d", raw.Ax, raw.Ay),
		fmt.Sprintf("  %6d %5.1fC", raw.Az, raw.TempC()),
		fmt.Sprintf("G:%6d %6d", raw.Gx, raw.Gy),
		fmt.Sprintf("  %6d", raw.Gz),
	)
	return img
}

func renderIMUConfig(c imu_raw.IMUConfig, haveData bool) *image1bit.VerticalLSB {
	if !haveData {
		return renderWaiting("IMU config")
	}
	img, drawer := newFrame()
	drawLines(drawer,
		"LSM6DS33 "+c.Source,
		"A "+c.AccelScale,
		"  "+c.AccelODR,
		"G "+c.GyroScale+" "+c.GyroODR,
	)
	return img
}

func renderSplash() *image1bit.VerticalLSB {
	img, drawer := newFrame()
	drawer.Dot = fixed.P(25, 26)
	drawer.DrawString("LSM6DS33")
	drawer.Dot = fixed.P(10, 43)
	drawer.DrawString("Accel / Gyro")
	return img
}
