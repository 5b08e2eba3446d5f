package daly

// Operation names one logical request/response pair understood by the BMS.
type Operation int

const (
	OpStatus Operation = iota
	OpSOC
	OpMinMaxCellVolts
	OpMinMaxTemp
	OpFET
	OpCellVolts
	OpTemp
	OpCellBalance
	OpAlarm
)

func (o Operation) String() string {
	switch o {
	case OpStatus:
		return "status"
	case OpSOC:
		return "soc"
	case OpMinMaxCellVolts:
		return "minmax cell volts"
	case OpMinMaxTemp:
		return "minmax temp"
	case OpFET:
		return "fet"
	case OpCellVolts:
		return "cell volts"
	case OpTemp:
		return "temp"
	case OpCellBalance:
		return "cell balance"
	case OpAlarm:
		return "alarm"
	default:
		return "unknown"
	}
}

// Arbitration IDs are [Priority=18][Command][BMS ID=01][Uplink ID=40] for
// commands. Responses swap the BMS and uplink bytes.
var commandBase = map[Operation]uint32{
	OpSOC:             0x18900140,
	OpMinMaxCellVolts: 0x18910140,
	OpMinMaxTemp:      0x18920140,
	OpFET:             0x18930140,
	OpStatus:          0x18940140,
	OpCellVolts:       0x18950140,
	OpTemp:            0x18960140,
	OpCellBalance:     0x18970140,
	OpAlarm:           0x18980140,
}

var responseBase = map[Operation]uint32{
	OpSOC:             0x18904001,
	OpMinMaxCellVolts: 0x18914001,
	OpMinMaxTemp:      0x18924001,
	OpFET:             0x18934001,
	OpStatus:          0x18944001,
	OpCellVolts:       0x18954001,
	OpTemp:            0x18964001,
	OpCellBalance:     0x18974001,
	OpAlarm:           0x18984001,
}

var responseOperations = func() map[uint32]Operation {
	operations := make(map[uint32]Operation, len(responseBase))
	for op, id := range responseBase {
		operations[id] = op
	}
	return operations
}()

// Registry resolves logical operations to arbitration IDs for one device.
// The configured device address offsets every ID, 0 for unaddressed units.
type Registry struct {
	address uint32
}

func NewRegistry(address uint32) Registry {
	return Registry{address: address}
}

func (r Registry) CommandID(op Operation) uint32 {
	return commandBase[op] + r.address
}

func (r Registry) ResponseID(op Operation) uint32 {
	return responseBase[op] + r.address
}

// OperationForResponse classifies an inbound frame ID after normalizing for
// the device address.
func (r Registry) OperationForResponse(id uint32) (Operation, bool) {
	op, ok := responseOperations[id-r.address]
	return op, ok
}
