package mqtt

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/jgulick48/daly-can-monitor/internal/daly"
	"github.com/jgulick48/daly-can-monitor/internal/models"
)

type Client interface {
	Close()
	Connect()
	IsEnabled() bool
	SetChargerState(on bool)
	GetChargerState() (bool, bool)
}

func NewClient(config models.MQTTConfiguration, battery daly.Client, debug bool) Client {
	return &client{
		config:   config,
		battery:  battery,
		done:     make(chan bool),
		messages: make(chan mqtt.Message),
		debug:    debug,
	}
}

type client struct {
	config     models.MQTTConfiguration
	battery    daly.Client
	done       chan bool
	mqttClient mqtt.Client
	messages   chan mqtt.Message
	debug      bool

	mux             sync.RWMutex
	chargerState    bool
	hasChargerState bool
}

func (c *client) Close() {
	c.done <- true
}

func (c *client) IsEnabled() bool {
	return c.config.Host != ""
}

func (c *client) Connect() {
	go func() {
		for message := range c.messages {
			c.ProcessData(message.Topic(), message.Payload())
		}
	}()
	log.Printf("Connecting to %s", fmt.Sprintf("tcp://%s:%d", c.config.Host, c.config.Port))
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", c.config.Host, c.config.Port))
	opts.SetClientID("daly_can_monitor")
	opts.SetDefaultPublishHandler(c.messagePubHandler)
	if c.config.Username != "" && c.config.Password != "" {
		opts.SetUsername(c.config.Username)
		opts.SetPassword(c.config.Password)
	}
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = c.connectLostHandler
	c.mqttClient = mqtt.NewClient(opts)
	if token := c.mqttClient.Connect(); token.Wait() && token.Error() != nil {
		log.Printf("Error connecting to mqtt client: %s", token.Error())
	}
	c.sub()
	defer c.mqttClient.Disconnect(250)
	c.publishLoop()
}

func (c *client) publishLoop() {
	ticker := time.NewTicker(5 * time.Second)
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.publishState()
		}
	}
}

func (c *client) publishState() {
	state := c.snapshot()
	payload, err := json.Marshal(state)
	if err != nil {
		log.Printf("Error marshaling battery state: %s", err)
		return
	}
	token := c.mqttClient.Publish(fmt.Sprintf("daly/%s/battery/state", c.config.DeviceID), 0, false, payload)
	token.Wait()
	if token.Error() != nil {
		log.Printf("Error publishing battery state %s", token.Error())
	}
}

func (c *client) snapshot() BatteryState {
	state := BatteryState{
		HardwareVersion: c.battery.HardwareVersion(),
		Cells:           c.battery.GetCellVoltages(),
		Protection:      c.battery.GetProtection(),
		ErrorActive:     c.battery.ErrorActive(),
	}
	state.Voltage, _ = c.battery.GetBatteryVoltage()
	state.Current, _ = c.battery.GetBatteryCurrent()
	state.StateOfCharge, _ = c.battery.GetBatteryStateOfCharge()
	state.CapacityRemaining, _ = c.battery.GetCapacityRemaining()
	state.CellCount, _ = c.battery.GetCellCount()
	state.ChargeFET, state.DischargeFET, _ = c.battery.GetFETStatus()
	state.ChargerConnected, _ = c.battery.GetChargerConnected()
	state.LoadConnected, _ = c.battery.GetLoadConnected()
	state.ChargeCycles, _ = c.battery.GetChargeCycles()
	if cellRange, ok := c.battery.GetCellVoltageRange(); ok {
		state.CellVoltageMax = cellRange.MaxVoltage
		state.CellVoltageMaxID = cellRange.MaxIndex
		state.CellVoltageMin = cellRange.MinVoltage
		state.CellVoltageMinID = cellRange.MinIndex
	}
	if temps, ok := c.battery.GetTemperatureRange(); ok {
		state.TemperatureMax = temps.Max
		state.TemperatureMin = temps.Min
	}
	return state
}

func (c *client) messagePubHandler(client mqtt.Client, msg mqtt.Message) {
	c.messages <- msg
}

var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Println("Connected")
}

func (c *client) connectLostHandler(client mqtt.Client, err error) {
	log.Printf("Connect lost: %v", err)
	c.done <- true
}

func (c *client) sub() {
	topic := fmt.Sprintf("daly/%s/charger/state", c.config.DeviceID)
	token := c.mqttClient.Subscribe(topic, 1, nil)
	token.Wait()
	log.Printf("Subscribed to topic: %s", topic)
}

func (c *client) ProcessData(topic string, message []byte) error {
	var payload models.Message
	err := json.Unmarshal(message, &payload)
	if err != nil {
		return err
	}
	if c.debug {
		log.Printf("Got message from topic: %s %s", topic, message)
	}
	if !payload.Value.Valid {
		return nil
	}
	c.mux.Lock()
	c.chargerState = payload.Value.Float64 == 1
	c.hasChargerState = true
	c.mux.Unlock()
	return nil
}

// SetChargerState publishes a command for whatever device feeds the charge
// bus.
func (c *client) SetChargerState(on bool) {
	value := 0
	if on {
		value = 1
	}
	log.Printf("Setting charger state to %v", on)
	if !c.mqttClient.IsConnected() {
		go c.mqttClient.Connect()
	}
	token := c.mqttClient.Publish(fmt.Sprintf("daly/%s/charger/set", c.config.DeviceID), 0, false, fmt.Sprintf("{\"value\": %v}", value))
	token.Wait()
	if token.Error() != nil {
		log.Printf("Error setting charger state %s", token.Error())
	}
}

func (c *client) GetChargerState() (bool, bool) {
	c.mux.RLock()
	defer c.mux.RUnlock()
	return c.chargerState, c.hasChargerState
}
