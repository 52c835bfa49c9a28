package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/lsm6ds33/internal/config"
	imu_raw "github.com/relabs-tech/lsm6ds33/internal/imu"
)

func RunConsoleMQTT() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	printSample := func(_ mqtt.Client, msg mqtt.Message) {
		var s imu_raw.IMURaw
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("console: %s unmarshal error: %v", msg.Topic(), err)
			return
		}
		fmt.Println(formatSample(s))
	}

	for _, topic := range []string{cfg.TopicIMULeft, cfg.TopicIMURight} {
		token := client.Subscribe(topic, 0, printSample)
		token.Wait()
		if token.Error() != nil {
			return token.Error()
		}
		log.Printf("console: subscribed to %s", topic)
	}

	// Subscribe to configuration of both IMUs
	cfgTopic := cfg.TopicIMUConfig + "/+"
	cfgToken := client.Subscribe(cfgTopic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var c imu_raw.IMUConfig
		if err := json.Unmarshal(msg.Payload(), &c); err != nil {
			log.Printf("console: config unmarshal error: %v", err)
			return
		}
		fmt.Println(formatConfig(c))
	})
	cfgToken.Wait()
	if cfgToken.Error() != nil {
		return cfgToken.Error()
	}
	log.Printf("console: subscribed to %s", cfgTopic)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
