// Command track_logger tails the skytrack status websocket and writes
// each tick as a point to InfluxDB.
package main

import (
	"log"
	"os"
	"time"

	"github.com/gorilla/websocket"
	influxdb2 "github.com/influxdata/influxdb-client-go"
	"github.com/influxdata/influxdb-client-go/api"
)

func main() {
	server := os.Getenv("INFLUX_SERVER")
	if server == "" {
		server = "http://localhost:9999"
	}
	client := influxdb2.NewClient(server, os.Getenv("INFLUX_TOKEN"))
	defer client.Close()
	writeApi := client.WriteApi("w1xm", "skytrack.status")
	defer writeApi.Close()
	go func() {
		for err := range writeApi.Errors() {
			log.Printf("write error: %v", err)
		}
	}()
	for {
		if err := logData(writeApi); err != nil {
			log.Print(err)
		}
		time.Sleep(1 * time.Second)
	}
}

func logData(writeApi api.WriteApi) error {
	url := os.Getenv("SKYTRACK_ADDRESS")
	if url == "" {
		url = "ws://localhost:8502/api/ws"
	}
	defer writeApi.Flush()
	var dialer websocket.Dialer
	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	for {
		var status map[string]interface{}
		if err := conn.ReadJSON(&status); err != nil {
			return err
		}
		tags := make(map[string]string)
		fields := make(map[string]interface{})
		for k, v := range status {
			switch v := v.(type) {
			case string:
				tags[k] = v
			default:
				fields[k] = v
			}
		}
		p := influxdb2.NewPoint("skytrack.status",
			tags,
			fields,
			time.Now(),
		)
		writeApi.WritePoint(p)
	}
}
