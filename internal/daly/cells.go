package daly

import (
	"encoding/binary"

	"github.com/guregu/null"
)

// applyCellVoltages merges a buffer of cell voltage frames into cells. Each
// 8 byte frame carries a 1 based frame index followed by three voltages in
// mV. Indexes beyond the cell count are dropped, cells missing from this
// buffer keep their previous value. A reading below half the minimum
// plausible cell voltage is stored as unknown, that close to zero the sense
// line is floating.
func applyCellVoltages(payload []byte, cells []null.Float, minCellVoltage float64) {
	lowCutoff := minCellVoltage / 2
	for offset := 0; offset+8 <= len(payload); offset += 8 {
		frameIndex := int(payload[offset])
		for i := 0; i < 3; i++ {
			cellIndex := (frameIndex-1)*3 + i
			if cellIndex < 0 || cellIndex >= len(cells) {
				continue
			}
			voltage := float64(int16(binary.BigEndian.Uint16(payload[offset+1+2*i:offset+3+2*i]))) / 1000
			if voltage < lowCutoff {
				cells[cellIndex] = null.Float{}
			} else {
				cells[cellIndex] = null.FloatFrom(voltage)
			}
		}
	}
}
