package metrics

import (
	"fmt"
	"log"

	"github.com/DataDog/datadog-go/statsd"
)

var Metrics *statsd.Client
var StatsEnabled bool

func Init(statsServer string) {
	if statsServer == "" {
		return
	}
	client, err := statsd.New(statsServer)
	if err != nil {
		log.Printf("Unable to create stats client %s", err.Error())
		return
	}
	Metrics = client
	StatsEnabled = true
}

func FormatTag(key, value string) string {
	return fmt.Sprintf("%s:%s", key, value)
}

func SendGaugeMetric(name string, tags []string, value float64) {
	if StatsEnabled {
		err := Metrics.Gauge(name, value, tags, 1)
		if err != nil {
			log.Printf("Got error trying to send metric %s", err.Error())
		}
	}
}
