package topology

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

var (
	ErrRequestFailed    = errors.New("topology request failed")
	ErrUnexpectedStatus = errors.New("unexpected topology status")
	ErrDecodeFailed     = errors.New("topology decode failed")
)

type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client fetches the current topology from the configuration service.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
	}
}

func (c *Client) Fetch(ctx context.Context) (Snapshot, error) {
	const fn = "Topology:Fetch"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/topology", nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%s:%w:%w", fn, ErrRequestFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%s:%w:%w", fn, ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Snapshot{}, fmt.Errorf("%s:%w: %d", fn, ErrUnexpectedStatus, resp.StatusCode)
	}

	var snap Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("%s:%w:%w", fn, ErrDecodeFailed, err)
	}
	slog.DebugContext(ctx, "Fetched topology snapshot",
		"locations", len(snap.Locations),
		"devices", len(snap.Devices),
	)
	return snap, nil
}
