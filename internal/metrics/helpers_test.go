package metrics

import (
	"fmt"
	"time"

	"mesh-metrics-backend/internal/events"
)

var t0 = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func at(sec int) time.Time {
	return t0.Add(time.Duration(sec) * time.Second)
}

func deviceEvent(id string, sec int, sender, receiver string, seq int64, eventType, deviceType string) events.Event {
	return events.Event{
		ID:          id,
		CreatedAt:   at(sec),
		PayloadType: events.PayloadDeviceEvent,
		DeviceEvent: &events.DeviceEvent{
			SenderMac:   sender,
			ReceiverMac: receiver,
			Sequence:    seq,
			EventType:   eventType,
			DeviceType:  deviceType,
		},
	}
}

func deviceInfo(id string, sec int, sender string, major, minor int) events.Event {
	return events.Event{
		ID:          id,
		CreatedAt:   at(sec),
		PayloadType: events.PayloadDeviceInfo,
		DeviceInfo:  &events.DeviceInfo{SenderMac: sender, MajorVersion: major, MinorVersion: minor},
	}
}

func sensors(id string, sec int, sender string, data ...events.SensorData) events.Event {
	return events.Event{
		ID:          id,
		CreatedAt:   at(sec),
		PayloadType: events.PayloadSensors,
		Sensors:     &events.Sensors{SenderMac: sender, SensorDataList: data},
	}
}

func checkins(id string, sec int, list ...events.Checkin) events.Event {
	return events.Event{
		ID:          id,
		CreatedAt:   at(sec),
		PayloadType: events.PayloadExtenderCheckins,
		Checkins:    &events.ExtenderCheckins{CheckinList: list},
	}
}

func neighbors(id string, sec int, addr string, list ...events.Neighbor) events.Event {
	return events.Event{
		ID:             id,
		CreatedAt:      at(sec),
		PayloadType:    events.PayloadZigbeeRouteNeighbors,
		RouteNeighbors: &events.RouteNeighbors{Mac: addr, Neighbors: list},
	}
}

func versions(pairs ...any) []events.CheckinVersion {
	var out []events.CheckinVersion
	for i := 0; i+3 < len(pairs); i += 4 {
		out = append(out, events.CheckinVersion{
			Name:  pairs[i].(string),
			Major: pairs[i+1].(int),
			Minor: pairs[i+2].(int),
			Build: pairs[i+3].(int),
		})
	}
	return out
}

func extMac(i int) string {
	return fmt.Sprintf("00:11:22:ff:fe:00:00:%02x", i)
}
