package daly

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/guregu/null"
)

// errorClearTimeout is how long the error latch stays set after the last
// failed poll step.
const errorClearTimeout = 120 * time.Second

// Transceiver sends one request frame and returns the concatenated payload
// of the expected response frames. Both the CAN and the UART transports
// satisfy it.
type Transceiver interface {
	Request(commandID, responseID uint32, expected int) ([]byte, error)
}

// FrameCache exposes the latest payload seen per arbitration ID for units
// that broadcast without being asked.
type FrameCache interface {
	Frames() map[uint32][]byte
}

type Config struct {
	Name                string
	CapacityAh          float64
	MaxChargeCurrent    float64
	MaxDischargeCurrent float64
	MinCellVoltage      float64
	InvertCurrent       bool
	DeviceAddress       uint32
}

type CellRange struct {
	MaxVoltage float64
	MaxIndex   int
	MinVoltage float64
	MinIndex   int
}

type TemperatureRange struct {
	Max      float64
	MaxIndex int
	Min      float64
	MinIndex int
}

type Client interface {
	TestConnection() bool
	GetSettings() bool
	Refresh() bool
	ReadCachedFrames() bool
	HardwareVersion() string
	ErrorActive() bool
	GetCapacity() float64
	GetBatteryVoltage() (float64, bool)
	GetBatteryCurrent() (float64, bool)
	GetBatteryStateOfCharge() (float64, bool)
	GetCapacityRemaining() (float64, bool)
	GetFETStatus() (charge bool, discharge bool, ok bool)
	GetCellCount() (int, bool)
	GetTempSensorCount() (int, bool)
	GetChargerConnected() (bool, bool)
	GetLoadConnected() (bool, bool)
	GetChargeCycles() (int, bool)
	GetCellVoltages() []null.Float
	GetCellVoltageRange() (CellRange, bool)
	GetTemperatureRange() (TemperatureRange, bool)
	GetProtection() Protection
}

// client owns the battery state model. The poll loop is its only writer,
// consumers read through the accessors at their own cadence.
type client struct {
	config Config
	frames Registry
	bus    Transceiver
	cache  FrameCache
	now    func() time.Time

	mux sync.RWMutex

	capacity          float64
	voltage           float64
	current           float64
	soc               float64
	hasSOC            bool
	chargeFET         bool
	dischargeFET      bool
	bmsCycles         int
	capacityRemaining float64
	hasFET            bool
	cellCount         int
	tempSensors       int
	chargerConnected  bool
	loadConnected     bool
	chargeCycles      int
	hasStatus         bool
	cells             []null.Float
	cellRange         CellRange
	hasCellRange      bool
	tempRange         TemperatureRange
	hasTempRange      bool
	protection        Protection
	hardwareVersion   string

	errorActive   bool
	lastErrorTime time.Time
	pollStep      int
}

// NewClient builds a battery client for a bus transceiver. cache may be nil
// when the unit does not broadcast.
func NewClient(config Config, bus Transceiver, cache FrameCache) Client {
	return &client{
		config: config,
		frames: NewRegistry(config.DeviceAddress),
		bus:    bus,
		cache:  cache,
		now:    time.Now,
	}
}

// TestConnection verifies a Daly BMS answers on this bus: settings load,
// then a status frame with a nonzero cell count, either broadcast or
// requested.
func (c *client) TestConnection() bool {
	if !c.GetSettings() {
		return false
	}
	if c.cache != nil && len(c.cache.Frames()) > 0 {
		return c.ReadCachedFrames()
	}
	c.mux.Lock()
	defer c.mux.Unlock()
	return c.readStatusData()
}

func (c *client) GetSettings() bool {
	c.mux.Lock()
	c.capacity = c.config.CapacityAh
	c.mux.Unlock()
	return true
}

// Refresh runs one poll cycle. SOC and FET state are read every cycle, the
// remaining categories take turns so a single cycle never floods the bus.
func (c *client) Refresh() bool {
	c.mux.Lock()
	defer c.mux.Unlock()
	c.clearStaleError()

	result := c.readSOCData()
	result = result && c.readFETData()
	switch c.pollStep {
	case 0:
		result = result && c.readCellVoltageRange()
	case 1:
		result = result && c.readAlarmData()
	case 2:
		result = result && c.readCellVoltages()
	case 3:
		result = result && c.readTemperatureRange()
	}
	c.pollStep = (c.pollStep + 1) % 4

	if !result {
		c.errorActive = true
		c.lastErrorTime = c.now()
	}
	return result
}

// ReadCachedFrames consumes the latest broadcast frames instead of issuing
// requests. Only status frames matter here, everything else still goes
// through the request path.
func (c *client) ReadCachedFrames() bool {
	c.mux.Lock()
	defer c.mux.Unlock()
	c.clearStaleError()

	if c.cache == nil {
		return false
	}
	found := 0
	for id, payload := range c.cache.Frames() {
		op, ok := c.frames.OperationForResponse(id)
		if !ok || op != OpStatus {
			continue
		}
		data, err := decodeStatus(payload)
		if err != nil {
			log.Printf("Error decoding cached status frame: %s", err)
			continue
		}
		c.applyStatus(data)
		found++
	}
	if found == 0 {
		log.Printf("No status frames seen on the bus")
		c.errorActive = true
		c.lastErrorTime = c.now()
		return false
	}
	return true
}

func (c *client) clearStaleError() {
	if c.errorActive && c.now().Sub(c.lastErrorTime) > errorClearTimeout {
		c.errorActive = false
	}
}

func (c *client) request(op Operation, expected int) ([]byte, error) {
	return c.bus.Request(c.frames.CommandID(op), c.frames.ResponseID(op), expected)
}

func (c *client) readStatusData() bool {
	payload, err := c.request(OpStatus, 1)
	if err != nil {
		log.Printf("Error reading status data: %s", err)
		return false
	}
	data, err := decodeStatus(payload)
	if err != nil {
		log.Printf("Error decoding status data: %s", err)
		return false
	}
	c.applyStatus(data)
	return true
}

func (c *client) applyStatus(data statusData) {
	c.cellCount = data.cellCount
	c.tempSensors = data.tempSensors
	c.chargerConnected = data.chargerConnected
	c.loadConnected = data.loadConnected
	c.chargeCycles = data.chargeCycles
	c.hasStatus = true
	if len(c.cells) != data.cellCount {
		c.cells = make([]null.Float, data.cellCount)
	}
	c.hardwareVersion = fmt.Sprintf("DalyBMS %dS", data.cellCount)
}

func (c *client) readSOCData() bool {
	currentMinValid := -(c.config.MaxDischargeCurrent * 2.1)
	currentMaxValid := c.config.MaxChargeCurrent * 1.3
	for tries := 2; tries > 0; tries-- {
		payload, err := c.request(OpSOC, 1)
		if err != nil {
			log.Printf("Error reading SOC data: %s", err)
			return false
		}
		data, err := decodeSOC(payload, c.config.InvertCurrent)
		if err != nil {
			log.Printf("Error decoding SOC data: %s", err)
			return false
		}
		if currentMinValid < data.current && data.current < currentMaxValid {
			c.voltage = data.voltage
			c.current = data.current
			c.soc = data.soc
			c.hasSOC = true
			return true
		}
		log.Printf("Discarding implausible current reading %v, %d tries left", data.current, tries-1)
	}
	return false
}

func (c *client) readFETData() bool {
	payload, err := c.request(OpFET, 1)
	if err != nil {
		log.Printf("Error reading FET data: %s", err)
		return false
	}
	data, err := decodeFET(payload)
	if err != nil {
		log.Printf("Error decoding FET data: %s", err)
		return false
	}
	c.chargeFET = data.chargeFET
	c.dischargeFET = data.dischargeFET
	c.bmsCycles = data.bmsCycles
	c.capacityRemaining = data.capacityRemaining
	c.hasFET = true
	return true
}

func (c *client) readCellVoltageRange() bool {
	payload, err := c.request(OpMinMaxCellVolts, 1)
	if err != nil {
		log.Printf("Error reading cell voltage range: %s", err)
		return false
	}
	data, err := decodeCellVoltageRange(payload)
	if err != nil {
		log.Printf("Error decoding cell voltage range: %s", err)
		return false
	}
	c.cellRange = CellRange{
		MaxVoltage: data.maxVoltage,
		MaxIndex:   data.maxIndex,
		MinVoltage: data.minVoltage,
		MinIndex:   data.minIndex,
	}
	c.hasCellRange = true
	return true
}

func (c *client) readAlarmData() bool {
	payload, err := c.request(OpAlarm, 1)
	if err != nil {
		log.Printf("Error reading alarm data: %s", err)
		return false
	}
	data, err := decodeAlarm(payload)
	if err != nil {
		log.Printf("Error decoding alarm data: %s", err)
		return false
	}
	c.protection = mapAlarms(data)
	return true
}

func (c *client) readCellVoltages() bool {
	if c.cellCount == 0 {
		return true
	}
	expected := (c.cellCount + 2) / 3
	payload, err := c.request(OpCellVolts, expected)
	if err != nil {
		log.Printf("Error reading cell voltages: %s", err)
		return false
	}
	applyCellVoltages(payload, c.cells, c.config.MinCellVoltage)
	return true
}

func (c *client) readTemperatureRange() bool {
	payload, err := c.request(OpMinMaxTemp, 1)
	if err != nil {
		log.Printf("Error reading temperature range: %s", err)
		return false
	}
	data, err := decodeTemperatureRange(payload)
	if err != nil {
		log.Printf("Error decoding temperature range: %s", err)
		return false
	}
	c.tempRange = TemperatureRange{
		Max:      data.max,
		MaxIndex: data.maxIndex,
		Min:      data.min,
		MinIndex: data.minIndex,
	}
	c.hasTempRange = true
	return true
}

func (c *client) HardwareVersion() string {
	c.mux.RLock()
	defer c.mux.RUnlock()
	return c.hardwareVersion
}

func (c *client) ErrorActive() bool {
	c.mux.RLock()
	defer c.mux.RUnlock()
	return c.errorActive
}

func (c *client) GetCapacity() float64 {
	c.mux.RLock()
	defer c.mux.RUnlock()
	return c.capacity
}

func (c *client) GetBatteryVoltage() (float64, bool) {
	c.mux.RLock()
	defer c.mux.RUnlock()
	return c.voltage, c.hasSOC
}

func (c *client) GetBatteryCurrent() (float64, bool) {
	c.mux.RLock()
	defer c.mux.RUnlock()
	return c.current, c.hasSOC
}

func (c *client) GetBatteryStateOfCharge() (float64, bool) {
	c.mux.RLock()
	defer c.mux.RUnlock()
	return c.soc, c.hasSOC
}

func (c *client) GetCapacityRemaining() (float64, bool) {
	c.mux.RLock()
	defer c.mux.RUnlock()
	return c.capacityRemaining, c.hasFET
}

func (c *client) GetFETStatus() (bool, bool, bool) {
	c.mux.RLock()
	defer c.mux.RUnlock()
	return c.chargeFET, c.dischargeFET, c.hasFET
}

func (c *client) GetCellCount() (int, bool) {
	c.mux.RLock()
	defer c.mux.RUnlock()
	return c.cellCount, c.hasStatus
}

func (c *client) GetTempSensorCount() (int, bool) {
	c.mux.RLock()
	defer c.mux.RUnlock()
	return c.tempSensors, c.hasStatus
}

func (c *client) GetChargerConnected() (bool, bool) {
	c.mux.RLock()
	defer c.mux.RUnlock()
	return c.chargerConnected, c.hasStatus
}

func (c *client) GetLoadConnected() (bool, bool) {
	c.mux.RLock()
	defer c.mux.RUnlock()
	return c.loadConnected, c.hasStatus
}

func (c *client) GetChargeCycles() (int, bool) {
	c.mux.RLock()
	defer c.mux.RUnlock()
	return c.chargeCycles, c.hasStatus
}

func (c *client) GetCellVoltages() []null.Float {
	c.mux.RLock()
	defer c.mux.RUnlock()
	cells := make([]null.Float, len(c.cells))
	copy(cells, c.cells)
	return cells
}

func (c *client) GetCellVoltageRange() (CellRange, bool) {
	c.mux.RLock()
	defer c.mux.RUnlock()
	return c.cellRange, c.hasCellRange
}

func (c *client) GetTemperatureRange() (TemperatureRange, bool) {
	c.mux.RLock()
	defer c.mux.RUnlock()
	return c.tempRange, c.hasTempRange
}

func (c *client) GetProtection() Protection {
	c.mux.RLock()
	defer c.mux.RUnlock()
	return c.protection
}
