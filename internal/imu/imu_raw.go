package imu

// IMURaw represents a single raw LSM6DS33 sample, in counts.
type IMURaw struct {
	Source string `json:"source"` // "left" or "right"

	Temp int16 `json:"temp"` // 16 LSB/°C, 0 at 25°C

	Ax int16 `json:"ax"` // accel
	Ay int16 `json:"ay"`
	Az int16 `json:"az"`

	Gx int16 `json:"gx"` // gyro
	Gy int16 `json:"gy"`
	Gz int16 `json:"gz"`
}

// TempC converts the temperature output to degrees Celsius.
func (r IMURaw) TempC() float64 {
	return 25 + float64(r.Temp)/16
}

// IMUConfig is the rate and range configuration of one IMU.
type IMUConfig struct {
	Source     string `json:"source"`
	AccelODR   string `json:"accel_odr"`
	AccelScale string `json:"accel_scale"`
	AccelPower string `json:"accel_power"`
	GyroODR    string `json:"gyro_odr"`
	GyroScale  string `json:"gyro_scale"`
	GyroPower  string `json:"gyro_power"`
}
