package app

import (
	"testing"

	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/relabs-tech/lsm6ds33/internal/config"
)

func lit(img *image1bit.VerticalLSB) int {
	n := 0
	for _, b := range img.Pix {
		for ; b != 0; b &= b - 1 {
			n++
		}
	}
	return n
}

func TestDisplayTopic(t *testing.T) {
	cfg := &config.Config{TopicIMULeft: "l", TopicIMURight: "r", TopicIMUConfig: "c"}
	for content, want := range map[string]string{
		"imu_raw_left":  "l",
		"imu_raw_right": "r",
		"imu_config":    "c/+",
	} {
		cfg.DisplayContent = content
		if got := displayTopic(cfg); got != want {
			t.Errorf("displayTopic(%s) = %q, want %q", content, got, want)
		}
	}
}

func TestDisplayRender(t *testing.T) {
	d := newDisplayData()
	waiting := d.render("imu_raw_left")
	if lit(waiting) == 0 {
		t.Fatal("waiting frame is blank")
	}
	if b := waiting.Bounds(); b.Dx() != displayWidth || b.Dy() != displayHeight {
		t.Errorf("bounds = %v", b)
	}

	if err := d.handleMessage("imu_raw_left", []byte(`{"source":"left","ax":-16384,"gz":250}`)); err != nil {
		t.Fatal(err)
	}
	frame := d.render("imu_raw_left")
	if lit(frame) == 0 || string(frame.Pix) == string(waiting.Pix) {
		t.Error("sample frame should differ from the waiting frame")
	}

	if err := d.handleMessage("imu_config", []byte(`{"source":"right","accel_scale":"±8g"}`)); err != nil {
		t.Fatal(err)
	}
	if string(d.render("imu_config").Pix) == string(renderWaiting("IMU config").Pix) {
		t.Error("config frame should not be the waiting frame")
	}

	if err := d.handleMessage("imu_raw_right", []byte(`{`)); err == nil {
		t.Error("bad payload should fail")
	}
	if lit(renderSplash()) == 0 {
		t.Error("splash is blank")
	}
}
