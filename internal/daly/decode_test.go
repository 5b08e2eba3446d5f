package daly

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_DecodeStatus(t *testing.T) {
	data, err := decodeStatus([]byte{8, 2, 1, 0, 0, 0x00, 0x2C, 0x00})
	assert.NoError(t, err)
	assert.Equal(t, 8, data.cellCount)
	assert.Equal(t, 2, data.tempSensors)
	assert.True(t, data.chargerConnected)
	assert.False(t, data.loadConnected)
	assert.Equal(t, 44, data.chargeCycles)
}

func Test_DecodeStatusZeroCells(t *testing.T) {
	_, err := decodeStatus([]byte{0, 2, 1, 0, 0, 0x00, 0x2C, 0x00})
	assert.Equal(t, ErrNoCells, err)
}

func Test_DecodeStatusShortPayload(t *testing.T) {
	_, err := decodeStatus([]byte{8, 2, 1})
	assert.Equal(t, ErrShortPayload, err)
}

func Test_DecodeSOC(t *testing.T) {
	// voltage raw 528, current raw 29990, soc raw 900
	payload := []byte{0x02, 0x10, 0x00, 0x00, 0x75, 0x26, 0x03, 0x84}
	data, err := decodeSOC(payload, false)
	assert.NoError(t, err)
	assert.Equal(t, 52.8, data.voltage)
	assert.Equal(t, 1.0, data.current)
	assert.Equal(t, 90.0, data.soc)
}

func Test_DecodeSOCInverted(t *testing.T) {
	payload := []byte{0x02, 0x10, 0x00, 0x00, 0x75, 0x26, 0x03, 0x84}
	data, err := decodeSOC(payload, true)
	assert.NoError(t, err)
	assert.Equal(t, -1.0, data.current)
}

func Test_DecodeSOCZeroCurrent(t *testing.T) {
	payload := []byte{0x02, 0x10, 0x00, 0x00, 0x75, 0x30, 0x03, 0x84}
	data, err := decodeSOC(payload, false)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, data.current)
}

func Test_DecodeSOCShortPayload(t *testing.T) {
	_, err := decodeSOC([]byte{0x02, 0x10, 0x00}, false)
	assert.Equal(t, ErrShortPayload, err)
}

func Test_DecodeFET(t *testing.T) {
	payload := []byte{1, 1, 0, 5, 0x00, 0x02, 0x49, 0xF0}
	data, err := decodeFET(payload)
	assert.NoError(t, err)
	assert.True(t, data.chargeFET)
	assert.False(t, data.dischargeFET)
	assert.Equal(t, 5, data.bmsCycles)
	assert.Equal(t, 150.0, data.capacityRemaining)
}

func Test_DecodeCellVoltageRange(t *testing.T) {
	// wire indexes are 1 based, the model is 0 based
	payload := []byte{0x0C, 0xE4, 1, 0x0C, 0x1C, 4}
	data, err := decodeCellVoltageRange(payload)
	assert.NoError(t, err)
	assert.Equal(t, 3.3, data.maxVoltage)
	assert.Equal(t, 0, data.maxIndex)
	assert.Equal(t, 3.1, data.minVoltage)
	assert.Equal(t, 3, data.minIndex)
}

func Test_DecodeTemperatureRange(t *testing.T) {
	// raw 40 is 0°C, raw 0 is -40°C
	data, err := decodeTemperatureRange([]byte{50, 1, 40, 2})
	assert.NoError(t, err)
	assert.Equal(t, 10.0, data.max)
	assert.Equal(t, 1, data.maxIndex)
	assert.Equal(t, 0.0, data.min)
	assert.Equal(t, 2, data.minIndex)

	data, err = decodeTemperatureRange([]byte{40, 1, 0, 1})
	assert.NoError(t, err)
	assert.Equal(t, 0.0, data.max)
	assert.Equal(t, -40.0, data.min)
}

func Test_DecodeAlarm(t *testing.T) {
	data, err := decodeAlarm([]byte{0x30, 0x02, 0x80, 0, 0, 0, 0, 0x01})
	assert.NoError(t, err)
	assert.Equal(t, byte(0x30), data.voltage)
	assert.Equal(t, byte(0x02), data.temperature)
	assert.Equal(t, byte(0x80), data.currentSOC)
	assert.Equal(t, byte(0x01), data.fault)
}

func Test_DecodeShortPayloads(t *testing.T) {
	short := []byte{1, 2}
	_, err := decodeFET(short)
	assert.Equal(t, ErrShortPayload, err)
	_, err = decodeCellVoltageRange(short)
	assert.Equal(t, ErrShortPayload, err)
	_, err = decodeTemperatureRange(short)
	assert.Equal(t, ErrShortPayload, err)
	_, err = decodeAlarm(short)
	assert.Equal(t, ErrShortPayload, err)
}
