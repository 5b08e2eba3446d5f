package main

import (
	"encoding/json"
	"io/ioutil"
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/brutella/can"
	"github.com/jgulick48/hc"
	"github.com/jgulick48/hc/accessory"
	"github.com/mitchellh/panicwrap"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jgulick48/daly-can-monitor/internal/automation"
	"github.com/jgulick48/daly-can-monitor/internal/canbus"
	"github.com/jgulick48/daly-can-monitor/internal/daly"
	"github.com/jgulick48/daly-can-monitor/internal/dalymonitor"
	"github.com/jgulick48/daly-can-monitor/internal/metrics"
	"github.com/jgulick48/daly-can-monitor/internal/models"
	"github.com/jgulick48/daly-can-monitor/internal/mqtt"
	"github.com/jgulick48/daly-can-monitor/internal/serialbus"
)

func main() {
	exitStatus, err := panicwrap.BasicWrap(panicHandler)
	if err != nil {
		panic(err)
	}
	if exitStatus >= 0 {
		os.Exit(exitStatus)
	}
	run()
}

func panicHandler(output string) {
	log.Printf("Monitor process panicked:\n\n%s\n", output)
	os.Exit(1)
}

func run() {
	configFile, err := ioutil.ReadFile("./config.json")
	if err != nil {
		log.Printf("No config file found.")
		panic(err)
	}
	var config models.Config
	if err = json.Unmarshal(configFile, &config); err != nil {
		log.Printf("Invalid config file provided")
		panic(err)
	}
	metrics.Init(config.StatsServer)

	battery := connectBattery(config)
	if !battery.TestConnection() {
		log.Printf("No response from BMS yet, continuing to poll.")
	}
	go func() {
		for range time.Tick(time.Second) {
			battery.Refresh()
		}
	}()

	monitor := dalymonitor.NewClient(config, battery)
	monitor.Start()
	if config.MetricsPort != "" {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			log.Println(http.ListenAndServe(config.MetricsPort, nil))
		}()
	}

	mqttClient := mqtt.NewClient(config.MQTTConfig, battery, false)
	if mqttClient.IsEnabled() {
		go mqttClient.Connect()
	}
	if params, ok := config.Automation["charger"]; ok {
		chargerState := func() bool {
			if state, ok := mqttClient.GetChargerState(); ok {
				return state
			}
			connected, _ := battery.GetChargerConnected()
			return connected
		}
		automation.AutomateChargerStart(params, battery.GetBatteryStateOfCharge, mqttClient.SetChargerState, chargerState)
	}

	accessories := make([]*accessory.Accessory, 0)
	bridge := accessory.NewBridge(accessory.Info{
		Name: config.BridgeName,
		ID:   1,
	})
	accessories = append(accessories, monitor.GetAccessories()...)

	hcConfig := hc.Config{
		Pin:  config.PIN,
		Port: config.Port,
	}
	t, err := hc.NewIPTransport(hcConfig, bridge.Accessory, accessories...)
	if err != nil {
		log.Panic(err)
	}

	hc.OnTermination(func() {
		mqttClient.Close()
		<-t.Stop()
	})
	t.Start()
}

// connectBattery picks the transport from config. A CAN device gets the
// request/response transceiver plus a broadcast cache, otherwise the UART
// port speaks the same commands without one.
func connectBattery(config models.Config) daly.Client {
	batteryConfig := daly.Config{
		Name:                config.Battery.Name,
		CapacityAh:          config.Battery.CapacityAh,
		MaxChargeCurrent:    config.Battery.MaxChargeCurrent,
		MaxDischargeCurrent: config.Battery.MaxDischargeCurrent,
		MinCellVoltage:      config.Battery.MinCellVoltage,
		InvertCurrent:       config.Battery.InvertCurrent,
		DeviceAddress:       config.CANConfig.DeviceAddress,
	}
	if config.CANConfig.Device != "" {
		iface, err := net.InterfaceByName(config.CANConfig.Device)
		if err != nil {
			log.Printf("Could not find network interface %s", config.CANConfig.Device)
			panic(err)
		}
		conn, err := can.NewReadWriteCloserForInterface(iface)
		if err != nil {
			panic(err)
		}
		bus := can.NewBus(conn)
		transceiver := canbus.NewTransceiver(bus)
		cache := canbus.NewCache(bus)
		go func() {
			if err := bus.ConnectAndPublish(); err != nil {
				log.Printf("CAN bus read loop stopped: %s", err)
			}
		}()
		return daly.NewClient(batteryConfig, transceiver, cache)
	}
	if config.Serial.Device != "" {
		transceiver, err := serialbus.NewTransceiver(config.Serial)
		if err != nil {
			log.Printf("Could not open serial device %s", config.Serial.Device)
			panic(err)
		}
		return daly.NewClient(batteryConfig, transceiver, nil)
	}
	panic("no canConfig device or serialConfig device configured")
}
