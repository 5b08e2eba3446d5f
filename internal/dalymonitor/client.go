package dalymonitor

import (
	"strconv"
	"time"

	"github.com/jgulick48/hc/accessory"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jgulick48/daly-can-monitor/internal/daly"
	"github.com/jgulick48/daly-can-monitor/internal/metrics"
	"github.com/jgulick48/daly-can-monitor/internal/models"
)

type Client interface {
	GetAccessories() []*accessory.Accessory
	Start()
}

type client struct {
	config  models.Config
	battery daly.Client
}

func NewClient(config models.Config, battery daly.Client) Client {
	prometheus.MustRegister(
		batteryVoltage,
		batteryCurrent,
		batteryStateOfCharge,
		batteryCapacityRemaining,
		batteryCellVoltage,
		batteryTemperature,
		batteryFETStatus,
		batteryProtection,
		batteryChargeCycles,
		batteryErrorActive,
	)
	return &client{
		config:  config,
		battery: battery,
	}
}

// Start publishes the battery model to prometheus and statsd every 10
// seconds.
func (c *client) Start() {
	go func() {
		timer := time.NewTicker(10 * time.Second)
		for range timer.C {
			c.sendAllMetrics()
		}
	}()
}

func (c *client) sendAllMetrics() {
	name := c.config.Battery.Name
	tags := []string{metrics.FormatTag("name", name)}
	if voltage, ok := c.battery.GetBatteryVoltage(); ok {
		batteryVoltage.With(prometheus.Labels{"name": name}).Set(voltage)
		metrics.SendGaugeMetric("battery_volts", tags, voltage)
	}
	if current, ok := c.battery.GetBatteryCurrent(); ok {
		batteryCurrent.With(prometheus.Labels{"name": name}).Set(current)
		metrics.SendGaugeMetric("battery_current", tags, current)
	}
	if soc, ok := c.battery.GetBatteryStateOfCharge(); ok {
		batteryStateOfCharge.With(prometheus.Labels{"name": name}).Set(soc)
		metrics.SendGaugeMetric("battery_stateofcharge", tags, soc)
	}
	if capacity, ok := c.battery.GetCapacityRemaining(); ok {
		batteryCapacityRemaining.With(prometheus.Labels{"name": name}).Set(capacity)
		metrics.SendGaugeMetric("battery_ampHours", tags, capacity)
	}
	if cycles, ok := c.battery.GetChargeCycles(); ok {
		batteryChargeCycles.With(prometheus.Labels{"name": name}).Set(float64(cycles))
	}
	if charge, discharge, ok := c.battery.GetFETStatus(); ok {
		batteryFETStatus.With(prometheus.Labels{"name": name, "fet": "charge"}).Set(boolToFloat(charge))
		batteryFETStatus.With(prometheus.Labels{"name": name, "fet": "discharge"}).Set(boolToFloat(discharge))
	}
	if temps, ok := c.battery.GetTemperatureRange(); ok {
		batteryTemperature.With(prometheus.Labels{"name": name, "extreme": "max"}).Set(temps.Max)
		batteryTemperature.With(prometheus.Labels{"name": name, "extreme": "min"}).Set(temps.Min)
	}
	for i, cell := range c.battery.GetCellVoltages() {
		if !cell.Valid {
			continue
		}
		batteryCellVoltage.With(prometheus.Labels{"name": name, "cell": strconv.Itoa(i)}).Set(cell.Float64)
	}
	protection := c.battery.GetProtection()
	for condition, severity := range map[string]int{
		"highVoltage":       protection.HighVoltage,
		"lowVoltage":        protection.LowVoltage,
		"highChargeTemp":    protection.HighChargeTemp,
		"lowChargeTemp":     protection.LowChargeTemp,
		"highDischargeTemp": protection.HighDischargeTemp,
		"lowDischargeTemp":  protection.LowDischargeTemp,
		"highCurrent":       protection.HighCurrent,
		"lowSOC":            protection.LowSOC,
	} {
		batteryProtection.With(prometheus.Labels{"name": name, "condition": condition}).Set(float64(severity))
	}
	batteryErrorActive.With(prometheus.Labels{"name": name}).Set(boolToFloat(c.battery.ErrorActive()))
}

// GetAccessories exposes the battery over HomeKit: state of charge as the
// level with low battery and charging state driven from the model.
func (c *client) GetAccessories() []*accessory.Accessory {
	accessories := make([]*accessory.Accessory, 0)
	ac := accessory.NewSwitch(accessory.Info{
		Name: c.config.Battery.Name,
		ID:   2,
	})
	ac.AddBatteryLevel()
	go func() {
		var lastState float64
		var lastCurrent float64
		for {
			if soc, ok := c.battery.GetBatteryStateOfCharge(); ok && soc != lastState {
				ac.Battery.BatteryLevel.SetValue(int(soc))
				if soc < 10 {
					ac.Battery.StatusLowBattery.SetValue(1)
				} else {
					ac.Battery.StatusLowBattery.SetValue(0)
				}
				lastState = soc
			}
			if current, ok := c.battery.GetBatteryCurrent(); ok && current != lastCurrent {
				chargeState := 0
				if current > 0 {
					chargeState = 1
				}
				ac.Battery.ChargingState.SetValue(chargeState)
				lastCurrent = current
			}
			if charge, _, ok := c.battery.GetFETStatus(); ok {
				ac.Switch.On.SetValue(charge)
			}
			time.Sleep(10 * time.Second)
		}
	}()
	accessories = append(accessories, ac.Accessory)
	return accessories
}

func boolToFloat(value bool) float64 {
	if value {
		return 1
	}
	return 0
}
