package daly

// Protection severities. Every condition is either clear, at its warning
// level, or at its alarm level.
const (
	ProtectionClear    = 0
	ProtectionPreAlarm = 1
	ProtectionAlarm    = 2
)

type Protection struct {
	HighVoltage       int
	LowVoltage        int
	HighChargeTemp    int
	LowChargeTemp     int
	HighDischargeTemp int
	LowDischargeTemp  int
	HighCurrent       int
	LowSOC            int
}

// mapAlarms turns the raw alarm bitfields into protection severities. Alarm
// bits win over pre-alarm bits when both are set. The diff, mos, misc and
// fault bytes are not mapped.
func mapAlarms(data alarmData) Protection {
	return Protection{
		HighVoltage:       severity(data.voltage, 0x30, 0x0F),
		LowVoltage:        severity(data.voltage, 0x80, 0x40),
		HighChargeTemp:    severity(data.temperature, 0x02, 0x01),
		LowChargeTemp:     severity(data.temperature, 0x08, 0x04),
		HighDischargeTemp: severity(data.temperature, 0x20, 0x10),
		LowDischargeTemp:  severity(data.temperature, 0x80, 0x40),
		HighCurrent:       severity(data.currentSOC, 0x0A, 0x05),
		LowSOC:            severity(data.currentSOC, 0x80, 0x40),
	}
}

func severity(flags, alarmMask, preAlarmMask byte) int {
	if flags&alarmMask != 0 {
		return ProtectionAlarm
	}
	if flags&preAlarmMask != 0 {
		return ProtectionPreAlarm
	}
	return ProtectionClear
}
