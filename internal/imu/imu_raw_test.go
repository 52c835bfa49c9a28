package imu

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTempC(t *testing.T) {
	for _, tc := range []struct {
		raw  int16
		want float64
	}{
		{0, 25},
		{16, 26},
		{-160, 15},
	} {
		if got := (IMURaw{Temp: tc.raw}).TempC(); got != tc.want {
			t.Errorf("TempC(%d) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestIMURawJSON(t *testing.T) {
	b, err := json.Marshal(IMURaw{Source: "left", Temp: 3, Ax: 1, Ay: -2, Az: 16384, Gx: 4, Gy: 5, Gz: -6})
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"source": "left", "temp": 3.0,
		"ax": 1.0, "ay": -2.0, "az": 16384.0,
		"gx": 4.0, "gy": 5.0, "gz": -6.0,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}
