package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/lsm6ds33/internal/app"
	"github.com/relabs-tech/lsm6ds33/internal/config"
)

func main() {
	configPath := flag.String("config", "./lsm6ds33_config.txt", "path to configuration file")
	flag.Parse()

	log.Println("starting LSM6DS33 console (MQTT subscriber)")

	// Load configuration
	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunConsoleMQTT(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
