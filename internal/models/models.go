package models

import "github.com/guregu/null"

type Config struct {
	BridgeName  string                `json:"bridgeName"`
	PIN         string                `json:"pin"`
	Port        string                `json:"port"`
	MetricsPort string                `json:"metricsPort"`
	StatsServer string                `json:"statsServer"`
	CANConfig   CANConfig             `json:"canConfig"`
	Serial      SerialConfig          `json:"serialConfig"`
	Battery     BatteryConfig         `json:"batteryConfig"`
	MQTTConfig  MQTTConfiguration     `json:"mqttConfig"`
	Automation  map[string]Automation `json:"automation"`
}

type CANConfig struct {
	Device        string `json:"device"`
	DeviceAddress uint32 `json:"deviceAddress"`
}

type SerialConfig struct {
	Device string `json:"device"`
	Baud   int    `json:"baud"`
}

type BatteryConfig struct {
	Name                string  `json:"name"`
	CapacityAh          float64 `json:"capacityAh"`
	MaxChargeCurrent    float64 `json:"maxChargeCurrent"`
	MaxDischargeCurrent float64 `json:"maxDischargeCurrent"`
	MinCellVoltage      float64 `json:"minCellVoltage"`
	InvertCurrent       bool    `json:"invertCurrent"`
}

type MQTTConfiguration struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DeviceID string `json:"deviceId"`
}

type Automation struct {
	HighValue float64 `json:"highValue"`
	LowValue  float64 `json:"lowValue"`
	OffDelay  string  `json:"offDelay"`
	CoolDown  string  `json:"coolDown"`
}

type Message struct {
	Value null.Float `json:"value"`
}
