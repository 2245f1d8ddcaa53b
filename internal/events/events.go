package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type PayloadType string

const (
	PayloadDeviceEvent          PayloadType = "device-event"
	PayloadDeviceInfo           PayloadType = "device-info"
	PayloadSensors              PayloadType = "sensors"
	PayloadExtenderCheckins     PayloadType = "extender-checkins"
	PayloadZigbeeRouteNeighbors PayloadType = "zigbee-route-neighbors"
)

// Watched lists the payload types the metrics endpoints query for.
var Watched = []PayloadType{
	PayloadDeviceEvent,
	PayloadDeviceInfo,
	PayloadSensors,
	PayloadExtenderCheckins,
	PayloadZigbeeRouteNeighbors,
}

func IsWatched(t PayloadType) bool {
	for _, w := range Watched {
		if w == t {
			return true
		}
	}
	return false
}

// Device event types reported by end devices.
const (
	TxTypeButton1          = "TX_TYPE_BUTTON_1"
	TxTypeButton2          = "TX_TYPE_BUTTON_2"
	TxTypeButton3          = "TX_TYPE_BUTTON_3"
	TxTypeDryContactOpen1  = "TX_TYPE_DRY_CONTACT_OPEN_1"
	TxTypeDryContactClose1 = "TX_TYPE_DRY_CONTACT_CLOSE_1"
	TxTypeDryContactOpen2  = "TX_TYPE_DRY_CONTACT_OPEN_2"
	TxTypeDryContactClose2 = "TX_TYPE_DRY_CONTACT_CLOSE_2"
	TxTypeReedSwitchOpen1  = "TX_TYPE_REED_SWITCH_OPEN_1"
	TxTypeReedSwitchClose1 = "TX_TYPE_REED_SWITCH_CLOSE_1"
	TxTypeSupervision      = "TX_TYPE_SUPERVISION"
)

const (
	TransportZigbee = "zigbee"
	TransportWifi   = "wifi"
)

// Version names carried in extender check-ins.
const (
	VersionMenderArtifact    = "Mender Artifact"
	VersionEndDeviceFirmware = "End Device Firmware"
)

var (
	ErrUnknownPayloadType = errors.New("unknown payload type")
	ErrMissingPayload     = errors.New("missing payload")
)

// Event is one immutable entry of the event log. Exactly one payload
// pointer is set, the one matching PayloadType.
type Event struct {
	ID          string
	CreatedAt   time.Time
	PayloadType PayloadType

	DeviceEvent    *DeviceEvent
	DeviceInfo     *DeviceInfo
	Sensors        *Sensors
	Checkins       *ExtenderCheckins
	RouteNeighbors *RouteNeighbors
}

type DeviceEvent struct {
	SenderMac   string `json:"senderMac" validate:"required"`
	ReceiverMac string `json:"receiverMac" validate:"required"`
	Sequence    int64  `json:"sequence"`
	EventType   string `json:"eventType" validate:"required"`
	DeviceType  string `json:"deviceType"`
}

type DeviceInfo struct {
	SenderMac    string `json:"senderMac" validate:"required"`
	MajorVersion int    `json:"majorVersion" validate:"gte=0"`
	MinorVersion int    `json:"minorVersion" validate:"gte=0"`
}

type SensorData struct {
	Units string  `json:"units"`
	Value float64 `json:"value"`
}

type Sensors struct {
	SenderMac      string       `json:"senderMac" validate:"required"`
	SensorDataList []SensorData `json:"sensorDataList"`
}

type CheckinVersion struct {
	Name  string `json:"name"`
	Major int    `json:"major"`
	Minor int    `json:"minor"`
	Build int    `json:"build"`
}

type Checkin struct {
	Mac            string           `json:"mac" validate:"required"`
	Alias          string           `json:"alias"`
	ZigbeeExtPanID string           `json:"zigbeeExtPanId"`
	Transport      string           `json:"transport"`
	Active         bool             `json:"active"`
	Versions       []CheckinVersion `json:"versions"`
}

type ExtenderCheckins struct {
	CheckinList []Checkin `json:"checkinList" validate:"dive"`
}

type Neighbor struct {
	Mac string `json:"mac" validate:"required"`
	LQI int    `json:"lqi"`
}

type RouteNeighbors struct {
	Mac       string     `json:"mac" validate:"required"`
	Neighbors []Neighbor `json:"neighbors" validate:"dive"`
}

// Envelope is the wire shape shared by the queue, the HTTP ingest endpoint
// and the event store.
type Envelope struct {
	ID          string          `json:"id,omitempty"`
	CreatedAt   *time.Time      `json:"createdAt,omitempty"`
	PayloadType PayloadType     `json:"payloadType"`
	Payload     json.RawMessage `json:"payload"`
}

// Decode turns an envelope into an Event, parsing the payload variant
// selected by PayloadType.
func (e Envelope) Decode() (Event, error) {
	ev := Event{ID: e.ID, PayloadType: e.PayloadType}
	if e.CreatedAt != nil {
		ev.CreatedAt = *e.CreatedAt
	}
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return Event{}, ErrMissingPayload
	}
	if err := decodePayload(&ev, e.Payload); err != nil {
		return Event{}, err
	}
	return ev, nil
}

func decodePayload(ev *Event, raw json.RawMessage) error {
	var target any
	switch ev.PayloadType {
	case PayloadDeviceEvent:
		ev.DeviceEvent = &DeviceEvent{}
		target = ev.DeviceEvent
	case PayloadDeviceInfo:
		ev.DeviceInfo = &DeviceInfo{}
		target = ev.DeviceInfo
	case PayloadSensors:
		ev.Sensors = &Sensors{}
		target = ev.Sensors
	case PayloadExtenderCheckins:
		ev.Checkins = &ExtenderCheckins{}
		target = ev.Checkins
	case PayloadZigbeeRouteNeighbors:
		ev.RouteNeighbors = &RouteNeighbors{}
		target = ev.RouteNeighbors
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPayloadType, ev.PayloadType)
	}
	return json.Unmarshal(raw, target)
}

// Payload returns the populated payload variant.
func (ev Event) Payload() any {
	switch ev.PayloadType {
	case PayloadDeviceEvent:
		return ev.DeviceEvent
	case PayloadDeviceInfo:
		return ev.DeviceInfo
	case PayloadSensors:
		return ev.Sensors
	case PayloadExtenderCheckins:
		return ev.Checkins
	case PayloadZigbeeRouteNeighbors:
		return ev.RouteNeighbors
	}
	return nil
}

// Envelope re-encodes the event into its wire shape.
func (ev Event) Envelope() (Envelope, error) {
	raw, err := json.Marshal(ev.Payload())
	if err != nil {
		return Envelope{}, err
	}
	createdAt := ev.CreatedAt
	return Envelope{
		ID:          ev.ID,
		CreatedAt:   &createdAt,
		PayloadType: ev.PayloadType,
		Payload:     raw,
	}, nil
}

func (ev *Event) UnmarshalJSON(data []byte) error {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	decoded, err := env.Decode()
	if err != nil {
		return err
	}
	*ev = decoded
	return nil
}

func (ev Event) MarshalJSON() ([]byte, error) {
	env, err := ev.Envelope()
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

// Newer reports whether a sorts after b for "latest" selection: later
// createdAt wins, equal timestamps fall back to the greater id.
func Newer(a, b *Event) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}
