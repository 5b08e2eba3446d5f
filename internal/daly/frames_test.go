package daly

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_RegistryIDs(t *testing.T) {
	registry := NewRegistry(0)
	assert.Equal(t, uint32(0x18900140), registry.CommandID(OpSOC))
	assert.Equal(t, uint32(0x18904001), registry.ResponseID(OpSOC))
	assert.Equal(t, uint32(0x18940140), registry.CommandID(OpStatus))
	assert.Equal(t, uint32(0x18944001), registry.ResponseID(OpStatus))
	assert.Equal(t, uint32(0x18980140), registry.CommandID(OpAlarm))
	assert.Equal(t, uint32(0x18984001), registry.ResponseID(OpAlarm))
}

func Test_RegistryAppliesDeviceAddress(t *testing.T) {
	registry := NewRegistry(2)
	assert.Equal(t, uint32(0x18900142), registry.CommandID(OpSOC))
	assert.Equal(t, uint32(0x18904003), registry.ResponseID(OpSOC))
}

func Test_RegistryOperationForResponse(t *testing.T) {
	registry := NewRegistry(0)
	op, ok := registry.OperationForResponse(0x18944001)
	assert.True(t, ok)
	assert.Equal(t, OpStatus, op)

	_, ok = registry.OperationForResponse(0x18940140)
	assert.False(t, ok)
}

func Test_RegistryOperationForResponseNormalizesAddress(t *testing.T) {
	registry := NewRegistry(2)
	op, ok := registry.OperationForResponse(0x18904003)
	assert.True(t, ok)
	assert.Equal(t, OpSOC, op)
}

func Test_ResponseSwapsSenderAndDestination(t *testing.T) {
	for op, commandID := range commandBase {
		responseID := responseBase[op]
		assert.Equal(t, commandID&0xFFFF0000, responseID&0xFFFF0000, op.String())
		assert.Equal(t, (commandID&0xFF)<<8|(commandID>>8)&0xFF, responseID&0xFFFF, op.String())
	}
}
