package daly

import (
	"encoding/binary"
	"errors"
)

const (
	// Raw current readings are offset so 30000 means 0A.
	currentZeroOffset = 30000
	// Raw temperatures are offset so 40 means 0°C.
	tempZeroOffset = 40
)

var (
	ErrShortPayload = errors.New("daly: payload shorter than frame layout")
	ErrNoCells      = errors.New("daly: status frame reports zero cells")
)

type statusData struct {
	cellCount        int
	tempSensors      int
	chargerConnected bool
	loadConnected    bool
	chargeCycles     int
}

// decodeStatus parses cell count, temp sensor count, charger/load flags and
// the cycle counter. A zero cell count means this is not a Daly BMS.
func decodeStatus(payload []byte) (statusData, error) {
	if len(payload) < 8 {
		return statusData{}, ErrShortPayload
	}
	data := statusData{
		cellCount:        int(payload[0]),
		tempSensors:      int(payload[1]),
		chargerConnected: payload[2] != 0,
		loadConnected:    payload[3] != 0,
		chargeCycles:     int(binary.BigEndian.Uint16(payload[5:7])),
	}
	if data.cellCount == 0 {
		return statusData{}, ErrNoCells
	}
	return data, nil
}

type socData struct {
	voltage float64
	current float64
	soc     float64
}

// decodeSOC parses pack voltage, current and state of charge. Plausibility
// of the current reading is checked by the caller, which knows the
// configured charge and discharge limits.
func decodeSOC(payload []byte, invertCurrent bool) (socData, error) {
	if len(payload) < 8 {
		return socData{}, ErrShortPayload
	}
	current := (float64(binary.BigEndian.Uint16(payload[4:6])) - currentZeroOffset) / -10
	if invertCurrent {
		current = -current
	}
	return socData{
		voltage: float64(binary.BigEndian.Uint16(payload[0:2])) / 10,
		current: current,
		soc:     float64(binary.BigEndian.Uint16(payload[6:8])) / 10,
	}, nil
}

type fetData struct {
	chargeFET         bool
	dischargeFET      bool
	bmsCycles         int
	capacityRemaining float64
}

func decodeFET(payload []byte) (fetData, error) {
	if len(payload) < 8 {
		return fetData{}, ErrShortPayload
	}
	return fetData{
		chargeFET:         payload[1] != 0,
		dischargeFET:      payload[2] != 0,
		bmsCycles:         int(payload[3]),
		capacityRemaining: float64(binary.BigEndian.Uint32(payload[4:8])) / 1000,
	}, nil
}

type cellRangeData struct {
	maxVoltage float64
	maxIndex   int
	minVoltage float64
	minIndex   int
}

// decodeCellVoltageRange parses the extreme cell voltages. Daly cell numbers
// are 1 based, the model is 0 based.
func decodeCellVoltageRange(payload []byte) (cellRangeData, error) {
	if len(payload) < 6 {
		return cellRangeData{}, ErrShortPayload
	}
	return cellRangeData{
		maxVoltage: float64(binary.BigEndian.Uint16(payload[0:2])) / 1000,
		maxIndex:   int(payload[2]) - 1,
		minVoltage: float64(binary.BigEndian.Uint16(payload[3:5])) / 1000,
		minIndex:   int(payload[5]) - 1,
	}, nil
}

type tempRangeData struct {
	max      float64
	maxIndex int
	min      float64
	minIndex int
}

func decodeTemperatureRange(payload []byte) (tempRangeData, error) {
	if len(payload) < 4 {
		return tempRangeData{}, ErrShortPayload
	}
	return tempRangeData{
		max:      float64(int8(payload[0])) - tempZeroOffset,
		maxIndex: int(payload[1]),
		min:      float64(int8(payload[2])) - tempZeroOffset,
		minIndex: int(payload[3]),
	}, nil
}

type alarmData struct {
	voltage     byte
	temperature byte
	currentSOC  byte
	diff        byte
	mos         byte
	misc1       byte
	misc2       byte
	fault       byte
}

func decodeAlarm(payload []byte) (alarmData, error) {
	if len(payload) < 8 {
		return alarmData{}, ErrShortPayload
	}
	return alarmData{
		voltage:     payload[0],
		temperature: payload[1],
		currentSOC:  payload[2],
		diff:        payload[3],
		mos:         payload[4],
		misc1:       payload[5],
		misc2:       payload[6],
		fault:       payload[7],
	}, nil
}
