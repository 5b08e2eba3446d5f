package dalymonitor

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	batteryVoltage = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "batteryVoltage",
			Help: "Pack voltage reported by the BMS in volts.",
		},
		[]string{
			"name",
		},
	)
	batteryCurrent = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "batteryCurrent",
			Help: "Pack current reported by the BMS in amps.",
		},
		[]string{
			"name",
		},
	)
	batteryStateOfCharge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "batteryStateOfCharge",
			Help: "State of charge reported by the BMS in percent.",
		},
		[]string{
			"name",
		},
	)
	batteryCapacityRemaining = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "batteryCapacityRemaining",
			Help: "Remaining capacity reported by the BMS in amp hours.",
		},
		[]string{
			"name",
		},
	)
	batteryCellVoltage = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "batteryCellVoltage",
			Help: "Per cell voltage reported by the BMS in volts.",
		},
		[]string{
			"name",
			"cell",
		},
	)
	batteryTemperature = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "batteryTemperature",
			Help: "Temperature extremes reported by the BMS in celsius.",
		},
		[]string{
			"name",
			"extreme",
		},
	)
	batteryFETStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "batteryFETStatus",
			Help: "Charge and discharge FET state, 1 when closed.",
		},
		[]string{
			"name",
			"fet",
		},
	)
	batteryProtection = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "batteryProtection",
			Help: "Protection severity per condition, 0 clear, 1 pre-alarm, 2 alarm.",
		},
		[]string{
			"name",
			"condition",
		},
	)
	batteryChargeCycles = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "batteryChargeCycles",
			Help: "Cumulative charge cycle count reported by the BMS.",
		},
		[]string{
			"name",
		},
	)
	batteryErrorActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "batteryErrorActive",
			Help: "1 while the poll error latch is set.",
		},
		[]string{
			"name",
		},
	)
)
