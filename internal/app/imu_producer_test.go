package app

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/relabs-tech/lsm6ds33/internal/config"
	imu_raw "github.com/relabs-tech/lsm6ds33/internal/imu"
	"github.com/relabs-tech/lsm6ds33/internal/sensors"
)

var testTopics = imuTopics{left: "imu/left", right: "imu/right", config: "imu/config"}

func TestPublishSamples(t *testing.T) {
	b := newFakeBackend()
	p := &fakePublisher{}
	got := publishSamples(p, b, testTopics)
	if len(got) != 2 {
		t.Fatalf("published %d samples, want 2", len(got))
	}
	want := []published{
		{"imu/left", `{"source":"left","temp":0,"ax":1,"ay":2,"az":3,"gx":4,"gy":5,"gz":6}`},
		{"imu/right", `{"source":"right","temp":0,"ax":-1,"ay":0,"az":0,"gx":0,"gy":0,"gz":0}`},
	}
	if diff := cmp.Diff(want, p.msgs, cmp.AllowUnexported(published{})); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestPublishSamplesSkipsMissingIMU(t *testing.T) {
	b := newFakeBackend()
	delete(b.regs, sensors.Right)
	p := &fakePublisher{}
	if got := publishSamples(p, b, testTopics); len(got) != 1 || got[0].Source != sensors.Left {
		t.Errorf("publishSamples() = %+v", got)
	}

	b.readErr = errors.New("nack")
	p = &fakePublisher{}
	if got := publishSamples(p, b, testTopics); len(got) != 0 || len(p.msgs) != 0 {
		t.Errorf("read failure still published: %+v", p.msgs)
	}
}

func TestPublishSamplesPublishError(t *testing.T) {
	p := &fakePublisher{err: errors.New("broker gone")}
	if got := publishSamples(p, newFakeBackend(), testTopics); len(got) != 0 {
		t.Errorf("publishSamples() = %+v, want none", got)
	}
}

func TestPublishConfigs(t *testing.T) {
	p := &fakePublisher{}
	if err := publishConfigs(p, newFakeBackend(), testTopics); err != nil {
		t.Fatal(err)
	}
	if len(p.msgs) != 2 || p.msgs[0].topic != "imu/config/left" || p.msgs[1].topic != "imu/config/right" {
		t.Fatalf("messages = %+v", p.msgs)
	}
	if !strings.Contains(p.msgs[1].payload, `"accel_odr":"52Hz"`) {
		t.Errorf("right config payload = %s", p.msgs[1].payload)
	}
}

func TestTopicsFromConfig(t *testing.T) {
	cfg := &config.Config{TopicIMULeft: "a", TopicIMURight: "b", TopicIMUConfig: "c"}
	tp := topicsFromConfig(cfg)
	if tp.sample(sensors.Left) != "a" || tp.sample(sensors.Right) != "b" || tp.configTopic(sensors.Right) != "c/right" {
		t.Errorf("topics = %+v", tp)
	}
}

func TestFormatSample(t *testing.T) {
	got := formatSample(imu_raw.IMURaw{Source: "right", Temp: 32, Ax: 1, Gz: -7})
	want := "[IMU-R] ax=     1 ay=     0 az=     0  gx=     0 gy=     0 gz=    -7  t= 27.0°C"
	if got != want {
		t.Errorf("formatSample() =\n%q, want\n%q", got, want)
	}
	if got := formatSample(imu_raw.IMURaw{}); !strings.HasPrefix(got, "[IMU-]") {
		t.Errorf("formatSample(empty) = %q", got)
	}
	cfg := formatConfig(imu_raw.IMUConfig{Source: "left", AccelScale: "±2g", AccelODR: "26Hz", GyroScale: "±2000°/s", GyroODR: "26Hz"})
	if cfg != "[CFG-L] accel ±2g @ 26Hz  gyro ±2000°/s @ 26Hz" {
		t.Errorf("formatConfig() = %q", cfg)
	}
}
