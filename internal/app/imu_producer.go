package app

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/relabs-tech/lsm6ds33/internal/config"
	imu_raw "github.com/relabs-tech/lsm6ds33/internal/imu"
	"github.com/relabs-tech/lsm6ds33/internal/sensors"
)

// imuReader is the part of sensors.IMUManager the producer needs.
type imuReader interface {
	IsLeftIMUAvailable() bool
	IsRightIMUAvailable() bool
	ReadIMU(name string) (imu_raw.IMURaw, error)
	Config(name string) (imu_raw.IMUConfig, error)
}

// publisher sends a retained payload to a topic.
type publisher interface {
	Publish(topic string, payload []byte) error
}

type mqttPublisher struct {
	client mqtt.Client
}

func (p mqttPublisher) Publish(topic string, payload []byte) error {
	token := p.client.Publish(topic, 0, true, payload)
	token.Wait()
	return token.Error()
}

func publishJSON(p publisher, topic string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("json marshal (%s): %w", topic, err)
	}
	if err := p.Publish(topic, payload); err != nil {
		return fmt.Errorf("MQTT publish error (%s): %w", topic, err)
	}
	return nil
}

// imuTopics maps IMU names to their sample topics.
type imuTopics struct {
	left, right, config string
}

func topicsFromConfig(cfg *config.Config) imuTopics {
	return imuTopics{left: cfg.TopicIMULeft, right: cfg.TopicIMURight, config: cfg.TopicIMUConfig}
}

func (t imuTopics) sample(name string) string {
	if name == sensors.Right {
		return t.right
	}
	return t.left
}

// configTopic is where the configuration of the named IMU is published.
func (t imuTopics) configTopic(name string) string {
	return t.config + "/" + name
}

func availableIMUs(src imuReader) []string {
	var names []string
	if src.IsLeftIMUAvailable() {
		names = append(names, sensors.Left)
	}
	if src.IsRightIMUAvailable() {
		names = append(names, sensors.Right)
	}
	return names
}

// publishConfigs publishes the cached configuration of every available IMU.
func publishConfigs(p publisher, src imuReader, topics imuTopics) error {
	for _, name := range availableIMUs(src) {
		c, err := src.Config(name)
		if err != nil {
			return err
		}
		if err := publishJSON(p, topics.configTopic(name), c); err != nil {
			return err
		}
	}
	return nil
}

// publishSamples reads and publishes one sample per available IMU. A failing
// IMU is logged and skipped; the samples that were published are returned.
func publishSamples(p publisher, src imuReader, topics imuTopics) []imu_raw.IMURaw {
	var out []imu_raw.IMURaw
	for _, name := range availableIMUs(src) {
		s, err := src.ReadIMU(name)
		if err != nil {
			log.Printf("error reading %s IMU: %v", name, err)
			continue
		}
		if err := publishJSON(p, topics.sample(name), s); err != nil {
			log.Printf("%v", err)
			continue
		}
		out = append(out, s)
	}
	return out
}

func RunIMUProducer() error {
	log.Println("starting LSM6DS33 raw sample producer")

	cfg := config.Get()

	// --- Initialize IMU manager (both left and right) ---
	imuManager := sensors.GetIMUManager()
	if err := imuManager.Init(); err != nil {
		return fmt.Errorf("failed to initialize IMU manager: %w", err)
	}
	defer imuManager.Close()

	// --- connect to MQTT ---
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDProducer)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("MQTT connect error: %w", token.Error())
	}
	defer client.Disconnect(250)

	pub := mqttPublisher{client: client}
	topics := topicsFromConfig(cfg)
	if err := publishConfigs(pub, imuManager, topics); err != nil {
		log.Printf("config publish error: %v", err)
	}

	log.Println("connected to MQTT, starting publish loop")

	ticker := time.NewTicker(time.Duration(cfg.IMUSampleInterval) * time.Millisecond)
	defer ticker.Stop()
	logEvery := time.Duration(cfg.ConsoleLogInterval) * time.Millisecond
	var lastLog time.Time

	for t := range ticker.C {
		samples := publishSamples(pub, imuManager, topics)
		if t.Sub(lastLog) < logEvery {
			continue
		}
		lastLog = t
		for _, s := range samples {
			log.Printf("%s tick: %s", t.Format(time.RFC3339), formatSample(s))
		}
	}
	return nil
}
