package automation

import (
	"log"
	"time"

	"github.com/jgulick48/daly-can-monitor/internal/models"
)

// AutomateChargerStart switches a charger on when the state of charge drops
// below the low threshold and back off once it climbs past the high
// threshold. socFunc reads the battery, switchFunc drives the charger and
// stateFunc reports whether the charger is currently connected.
func AutomateChargerStart(params models.Automation, socFunc func() (float64, bool), switchFunc func(bool), stateFunc func() bool) {
	offDelay, _ := time.ParseDuration(params.OffDelay)
	coolDown, _ := time.ParseDuration(params.CoolDown)
	go func() {
		var state AutomationState
		state.LoadFromFile("")
		for {
			time.Sleep(10 * time.Second)
			soc, ok := socFunc()
			if !ok {
				continue
			}
			charging := stateFunc()
			if shouldStart(params, soc, charging) {
				if coolDown > 0 && time.Now().Before(time.Unix(state.LastStopped, 0).Add(coolDown)) {
					log.Printf("Cooldown has not yet finished, waiting until at least %v to start charger.", time.Unix(state.LastStopped, 0).Add(coolDown))
					continue
				}
				log.Printf("State of charge below threshold of %v, starting charger.", params.LowValue)
				switchFunc(true)
				state.AutomationTriggered = true
				state.LastStarted = time.Now().Unix()
				state.SaveToFile("")
			} else if state.AutomationTriggered && shouldStop(params, soc, charging) {
				log.Printf("State of charge above threshold of %v, stopping charger.", params.HighValue)
				if offDelay > 0 {
					time.Sleep(offDelay)
				}
				switchFunc(false)
				state.AutomationTriggered = false
				state.LastStopped = time.Now().Unix()
				state.SaveToFile("")
			}
		}
	}()
}

func shouldStart(params models.Automation, soc float64, charging bool) bool {
	return !charging && soc < params.LowValue
}

func shouldStop(params models.Automation, soc float64, charging bool) bool {
	return charging && soc > params.HighValue
}
