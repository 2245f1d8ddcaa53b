package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"mesh-metrics-backend/internal/events"
)

func main() {
	baseURL := "http://localhost:8080"
	now := time.Now().UTC()

	// 1. POST /events
	evs := []events.Event{
		{
			CreatedAt:   now,
			PayloadType: events.PayloadDeviceEvent,
			DeviceEvent: &events.DeviceEvent{
				SenderMac:   "aa:bb:cc:00:00:01",
				ReceiverMac: "00:11:22:ff:fe:00:00:01",
				Sequence:    1,
				EventType:   events.TxTypeSupervision,
				DeviceType:  "Spot",
			},
		},
		{
			CreatedAt:   now.Add(time.Second),
			PayloadType: events.PayloadDeviceInfo,
			DeviceInfo:  &events.DeviceInfo{SenderMac: "aa:bb:cc:00:00:01", MajorVersion: 1, MinorVersion: 4},
		},
	}
	payload, err := json.Marshal(struct {
		Events []events.Event `json:"events"`
	}{Events: evs})
	if err != nil {
		panic(err)
	}
	fmt.Println("Payload:", string(payload))
	resp, err := http.Post(baseURL+"/events", "application/json", bytes.NewBuffer(payload))
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	fmt.Println("POST /events status:", resp.Status)
	fmt.Println("POST response body:", string(body))

	// 2. GET /metrics/end-devices?start=...&end=...
	start := url.QueryEscape(now.Add(-1 * time.Hour).Format(time.RFC3339))
	end := url.QueryEscape(now.Add(1 * time.Hour).Format(time.RFC3339))
	resp, err = http.Get(fmt.Sprintf("%s/metrics/end-devices?start=%s&end=%s", baseURL, start, end))
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()
	var result []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		panic(err)
	}
	pretty, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println("GET /metrics/end-devices result:", string(pretty))
}
