package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

var configString = `{
  "bridgeName": "Big Blue",
  "pin": "00102003",
  "port": "12321",
  "metricsPort": "2112",
  "canConfig": {
    "device": "can0",
    "deviceAddress": 0
  },
  "serialConfig": {
    "device": "/dev/ttyUSB0",
    "baud": 9600
  },
  "batteryConfig": {
    "name": "House Battery",
    "capacityAh": 200,
    "maxChargeCurrent": 100,
    "maxDischargeCurrent": 200,
    "minCellVoltage": 2.9,
    "invertCurrent": false
  },
  "mqttConfig": {
    "host": "192.168.1.4",
    "port": 1883,
    "deviceId": "d41243b4f71d"
  },
  "automation": {
    "charger": {
      "lowValue": 10,
      "highValue": 99.9,
      "offDelay": "5m",
      "coolDown": "30m"
    }
  }
}`

var expectedConfig = Config{
	BridgeName:  "Big Blue",
	PIN:         "00102003",
	Port:        "12321",
	MetricsPort: "2112",
	CANConfig: CANConfig{
		Device: "can0",
	},
	Serial: SerialConfig{
		Device: "/dev/ttyUSB0",
		Baud:   9600,
	},
	Battery: BatteryConfig{
		Name:                "House Battery",
		CapacityAh:          200,
		MaxChargeCurrent:    100,
		MaxDischargeCurrent: 200,
		MinCellVoltage:      2.9,
	},
	MQTTConfig: MQTTConfiguration{
		Host:     "192.168.1.4",
		Port:     1883,
		DeviceID: "d41243b4f71d",
	},
	Automation: map[string]Automation{
		"charger": {
			HighValue: 99.9,
			LowValue:  10,
			OffDelay:  "5m",
			CoolDown:  "30m",
		},
	},
}

func Test_ConfigParse(t *testing.T) {
	var actualConfig Config
	err := json.Unmarshal([]byte(configString), &actualConfig)
	assert.NoError(t, err)
	assert.Equal(t, expectedConfig, actualConfig)
}
