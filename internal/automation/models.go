package automation

import (
	"encoding/json"
	"io/ioutil"
	"log"
)

type AutomationState struct {
	LastStarted         int64 `json:"lastStarted"`
	LastStopped         int64 `json:"lastStopped"`
	AutomationTriggered bool  `json:"automationTriggered"`
}

func (a *AutomationState) LoadFromFile(filename string) {
	if filename == "" {
		filename = "./state.json"
	}
	stateFile, err := ioutil.ReadFile(filename)
	if err != nil {
		log.Printf("No state file found. Starting fresh.")
		return
	}
	if err = json.Unmarshal(stateFile, a); err != nil {
		log.Printf("Invalid state file format. Starting fresh.")
		*a = AutomationState{}
	}
}

func (a *AutomationState) SaveToFile(filename string) {
	if filename == "" {
		filename = "./state.json"
	}
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return
	}
	ioutil.WriteFile(filename, data, 0644)
}
