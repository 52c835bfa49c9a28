package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/relabs-tech/lsm6ds33/internal/config"
	imu_raw "github.com/relabs-tech/lsm6ds33/internal/imu"
	"github.com/relabs-tech/lsm6ds33/internal/sensors"
)

// imuStore keeps the latest sample and configuration seen per IMU.
type imuStore struct {
	mu      sync.RWMutex
	samples map[string]imu_raw.IMURaw
	configs map[string]imu_raw.IMUConfig
}

func newIMUStore() *imuStore {
	return &imuStore{
		samples: make(map[string]imu_raw.IMURaw),
		configs: make(map[string]imu_raw.IMUConfig),
	}
}

func (s *imuStore) putSample(v imu_raw.IMURaw) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples[v.Source] = v
}

func (s *imuStore) putConfig(v imu_raw.IMUConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[v.Source] = v
}

func (s *imuStore) sample(name string) (imu_raw.IMURaw, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.samples[name]
	return v, ok
}

func (s *imuStore) config(name string) (imu_raw.IMUConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.configs[name]
	return v, ok
}

// imuParam returns the ?imu= query value, "left" when absent.
func imuParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := r.URL.Query().Get("imu")
	switch name {
	case "":
		return sensors.Left, true
	case sensors.Left, sensors.Right:
		return name, true
	}
	http.Error(w, `{"error": "invalid imu parameter, use 'left' or 'right'"}`, http.StatusBadRequest)
	return "", false
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("json encode error: %v", err)
	}
}

// newWebMux serves the latest data held in store plus static files from dir.
func newWebMux(store *imuStore, dir string) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/imu", func(w http.ResponseWriter, r *http.Request) {
		name, ok := imuParam(w, r)
		if !ok {
			return
		}
		s, ok := store.sample(name)
		if !ok {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, s)
	})

	mux.HandleFunc("/api/imu/config", func(w http.ResponseWriter, r *http.Request) {
		name, ok := imuParam(w, r)
		if !ok {
			return
		}
		c, ok := store.config(name)
		if !ok {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, c)
	})

	mux.Handle("/", http.FileServer(http.Dir(dir)))
	return mux
}

// handleMessage routes an MQTT payload into store by topic.
func (s *imuStore) handleMessage(topics imuTopics, topic string, payload []byte) error {
	if strings.HasPrefix(topic, topics.config+"/") {
		var c imu_raw.IMUConfig
		if err := json.Unmarshal(payload, &c); err != nil {
			return err
		}
		s.putConfig(c)
		return nil
	}
	var v imu_raw.IMURaw
	if err := json.Unmarshal(payload, &v); err != nil {
		return err
	}
	if v.Source == "" {
		v.Source = sensors.Left
		if topic == topics.right {
			v.Source = sensors.Right
		}
	}
	s.putSample(v)
	return nil
}

func RunWeb() error {
	cfg := config.Get()
	store := newIMUStore()
	topics := topicsFromConfig(cfg)

	// 1) Connect to MQTT broker
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDWeb)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("connected to MQTT broker at %s", cfg.MQTTBroker)

	// 2) Subscribe to samples and configuration
	handler := func(_ mqtt.Client, msg mqtt.Message) {
		if err := store.handleMessage(topics, msg.Topic(), msg.Payload()); err != nil {
			log.Printf("MQTT payload unmarshal error (%s): %v", msg.Topic(), err)
		}
	}
	for _, topic := range []string{topics.left, topics.right, topics.config + "/+"} {
		token := client.Subscribe(topic, 0, handler)
		token.Wait()
		if token.Error() != nil {
			return token.Error()
		}
		log.Printf("subscribed to MQTT topic %s", topic)
	}

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web server listening on %s", addr)
	return http.ListenAndServe(addr, newWebMux(store, "web"))
}
