package daly

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_MapAlarmsVoltage(t *testing.T) {
	tests := []struct {
		name     string
		voltage  byte
		expected Protection
	}{
		{"clear", 0x00, Protection{}},
		{"high voltage alarm", 0x30, Protection{HighVoltage: ProtectionAlarm}},
		{"high voltage pre-alarm", 0x08, Protection{HighVoltage: ProtectionPreAlarm}},
		{"alarm wins over pre-alarm", 0x3F, Protection{HighVoltage: ProtectionAlarm}},
		{"low voltage alarm", 0x80, Protection{LowVoltage: ProtectionAlarm}},
		{"low voltage pre-alarm", 0x40, Protection{LowVoltage: ProtectionPreAlarm}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, mapAlarms(alarmData{voltage: tc.voltage}))
		})
	}
}

func Test_MapAlarmsTemperature(t *testing.T) {
	tests := []struct {
		name        string
		temperature byte
		expected    Protection
	}{
		{"high charge temp alarm", 0x02, Protection{HighChargeTemp: ProtectionAlarm}},
		{"high charge temp pre-alarm", 0x01, Protection{HighChargeTemp: ProtectionPreAlarm}},
		{"low charge temp alarm", 0x08, Protection{LowChargeTemp: ProtectionAlarm}},
		{"low charge temp pre-alarm", 0x04, Protection{LowChargeTemp: ProtectionPreAlarm}},
		{"high discharge temp alarm", 0x20, Protection{HighDischargeTemp: ProtectionAlarm}},
		{"high discharge temp pre-alarm", 0x10, Protection{HighDischargeTemp: ProtectionPreAlarm}},
		{"low discharge temp alarm", 0x80, Protection{LowDischargeTemp: ProtectionAlarm}},
		{"low discharge temp pre-alarm", 0x40, Protection{LowDischargeTemp: ProtectionPreAlarm}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, mapAlarms(alarmData{temperature: tc.temperature}))
		})
	}
}

func Test_MapAlarmsCurrentSOC(t *testing.T) {
	tests := []struct {
		name       string
		currentSOC byte
		expected   Protection
	}{
		{"charge current alarm", 0x02, Protection{HighCurrent: ProtectionAlarm}},
		{"discharge current alarm", 0x08, Protection{HighCurrent: ProtectionAlarm}},
		{"charge current pre-alarm", 0x01, Protection{HighCurrent: ProtectionPreAlarm}},
		{"discharge current pre-alarm", 0x04, Protection{HighCurrent: ProtectionPreAlarm}},
		{"low soc alarm", 0x80, Protection{LowSOC: ProtectionAlarm}},
		{"low soc pre-alarm", 0x40, Protection{LowSOC: ProtectionPreAlarm}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, mapAlarms(alarmData{currentSOC: tc.currentSOC}))
		})
	}
}

func Test_MapAlarmsUnmappedBytesIgnored(t *testing.T) {
	data := alarmData{diff: 0xFF, mos: 0xFF, misc1: 0xFF, misc2: 0xFF, fault: 0xFF}
	assert.Equal(t, Protection{}, mapAlarms(data))
}
