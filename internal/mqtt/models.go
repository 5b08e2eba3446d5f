package mqtt

import (
	"github.com/guregu/null"

	"github.com/jgulick48/daly-can-monitor/internal/daly"
)

// BatteryState is the JSON snapshot published for consumers. Unknown cell
// voltages serialize as null.
type BatteryState struct {
	HardwareVersion   string          `json:"hardwareVersion"`
	Voltage           float64         `json:"voltage"`
	Current           float64         `json:"current"`
	StateOfCharge     float64         `json:"stateOfCharge"`
	CapacityRemaining float64         `json:"capacityRemaining"`
	CellCount         int             `json:"cellCount"`
	Cells             []null.Float    `json:"cells"`
	CellVoltageMax    float64         `json:"cellVoltageMax"`
	CellVoltageMaxID  int             `json:"cellVoltageMaxId"`
	CellVoltageMin    float64         `json:"cellVoltageMin"`
	CellVoltageMinID  int             `json:"cellVoltageMinId"`
	TemperatureMax    float64         `json:"temperatureMax"`
	TemperatureMin    float64         `json:"temperatureMin"`
	ChargeFET         bool            `json:"chargeFet"`
	DischargeFET      bool            `json:"dischargeFet"`
	ChargerConnected  bool            `json:"chargerConnected"`
	LoadConnected     bool            `json:"loadConnected"`
	ChargeCycles      int             `json:"chargeCycles"`
	Protection        daly.Protection `json:"protection"`
	ErrorActive       bool            `json:"errorActive"`
}
