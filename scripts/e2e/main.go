package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/segmentio/kafka-go"

	"mesh-metrics-backend/internal/events"
)

// Steps:
// 1. Read newline-delimited event envelopes from -events
// 2. Publish them to the events topic
// 3. Wait for the ingester to store them
// 4. Query both metrics endpoints over the window spanned by the events
// 5. Print the records and a short summary of failing criteria

func main() {
	eventsPath := flag.String("events", "events.json", "newline-delimited event envelopes")
	brokers := flag.String("brokers", "localhost:9092", "kafka bootstrap address")
	topic := flag.String("topic", "events", "events topic")
	baseURL := flag.String("api", "http://localhost:8080", "metrics API base URL")
	wait := flag.Duration("wait", 30*time.Second, "time to wait for ingestion")
	flag.Parse()

	file, err := os.Open(*eventsPath)
	if err != nil {
		panic(fmt.Errorf("failed to open %s: %w", *eventsPath, err))
	}
	defer file.Close()

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(*brokers),
		Topic:                  *topic,
		AllowAutoTopicCreation: true,
	}
	defer writer.Close()

	var (
		messages   []kafka.Message
		start, end time.Time
	)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var env events.Envelope
		if err := json.Unmarshal(line, &env); err != nil {
			fmt.Printf("failed to decode envelope: %v\n", err)
			continue
		}
		if env.CreatedAt != nil {
			if start.IsZero() || env.CreatedAt.Before(start) {
				start = *env.CreatedAt
			}
			if env.CreatedAt.After(end) {
				end = *env.CreatedAt
			}
		}
		messages = append(messages, kafka.Message{Value: append([]byte(nil), line...)})
	}
	if err := scanner.Err(); err != nil {
		fmt.Printf("error reading %s: %v\n", *eventsPath, err)
	}
	if start.IsZero() {
		start = time.Now().Add(-time.Hour)
	}
	if end.IsZero() {
		end = time.Now()
	}

	if err := writer.WriteMessages(context.TODO(), messages...); err != nil {
		panic(fmt.Errorf("failed to write messages: %w", err))
	}
	fmt.Printf("Published %d events to Kafka topic '%s'\n", len(messages), *topic)

	time.Sleep(*wait)

	for _, path := range []string{"/metrics/end-devices", "/metrics/extenders"} {
		records, err := fetch(*baseURL+path, start.Add(-time.Second), end.Add(time.Second))
		if err != nil {
			fmt.Printf("Error fetching %s: %v\n", path, err)
			continue
		}
		pretty, _ := json.MarshalIndent(records, "", "  ")
		fmt.Printf("%s:\n%s\n", path, string(pretty))
		summarize(path, records)
	}

	fmt.Println("E2E test completed")
}

func fetch(endpoint string, start, end time.Time) ([]map[string]any, error) {
	u := fmt.Sprintf("%s?start=%s&end=%s", endpoint,
		url.QueryEscape(start.UTC().Format(time.RFC3339)),
		url.QueryEscape(end.UTC().Format(time.RFC3339)),
	)
	resp, err := http.Get(u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}
	var records []map[string]any
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func summarize(path string, records []map[string]any) {
	failing := 0
	for _, rec := range records {
		criteria, ok := rec["criteria"].(map[string]any)
		if !ok {
			continue
		}
		for name, pass := range criteria {
			if pass == false {
				fmt.Printf("  %s %v: %s failing\n", path, rec["mac"], name)
				failing++
			}
		}
	}
	fmt.Printf("%s: %d records, %d failing criteria\n", path, len(records), failing)
}
