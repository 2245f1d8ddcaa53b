package metrics

import (
	"mesh-metrics-backend/internal/events"
	"mesh-metrics-backend/internal/mac"
)

type checkinRef struct {
	event   *events.Event
	checkin *events.Checkin
}

// Index answers the per-mac lookups of one query window. It is built in a
// single pass and read-only afterwards.
type Index struct {
	latest        map[events.PayloadType]map[string]*events.Event
	byEventType   map[string]map[string][]*events.DeviceEvent
	deviceEvents  []*events.DeviceEvent
	checkins      map[string][]*events.Checkin
	latestCheckin map[string]checkinRef
	allCheckins   []*events.Checkin
	extenderMacs  []string
	lastCheckins  *events.Event
}

func NewIndex(evs []events.Event) *Index {
	idx := &Index{
		latest:        make(map[events.PayloadType]map[string]*events.Event),
		byEventType:   make(map[string]map[string][]*events.DeviceEvent),
		checkins:      make(map[string][]*events.Checkin),
		latestCheckin: make(map[string]checkinRef),
	}
	for i := range evs {
		ev := &evs[i]
		switch ev.PayloadType {
		case events.PayloadDeviceEvent:
			if ev.DeviceEvent == nil {
				continue
			}
			idx.addDeviceEvent(ev)
		case events.PayloadDeviceInfo:
			if ev.DeviceInfo != nil {
				idx.keepLatest(ev, ev.DeviceInfo.SenderMac)
			}
		case events.PayloadSensors:
			if ev.Sensors != nil {
				idx.keepLatest(ev, ev.Sensors.SenderMac)
			}
		case events.PayloadZigbeeRouteNeighbors:
			if ev.RouteNeighbors != nil {
				idx.keepLatest(ev, ev.RouteNeighbors.Mac)
			}
		case events.PayloadExtenderCheckins:
			if ev.Checkins != nil {
				idx.addCheckins(ev)
			}
		}
	}
	return idx
}

func (idx *Index) keepLatest(ev *events.Event, addr string) {
	byMac, ok := idx.latest[ev.PayloadType]
	if !ok {
		byMac = make(map[string]*events.Event)
		idx.latest[ev.PayloadType] = byMac
	}
	key := mac.Normalize(addr)
	if cur, ok := byMac[key]; !ok || events.Newer(ev, cur) {
		byMac[key] = ev
	}
}

func (idx *Index) addDeviceEvent(ev *events.Event) {
	de := ev.DeviceEvent
	idx.keepLatest(ev, de.SenderMac)
	idx.deviceEvents = append(idx.deviceEvents, de)

	key := mac.Normalize(de.SenderMac)
	byType, ok := idx.byEventType[key]
	if !ok {
		byType = make(map[string][]*events.DeviceEvent)
		idx.byEventType[key] = byType
	}
	byType[de.EventType] = append(byType[de.EventType], de)
}

func (idx *Index) addCheckins(ev *events.Event) {
	if idx.lastCheckins == nil || events.Newer(ev, idx.lastCheckins) {
		idx.lastCheckins = ev
	}
	seen := make(map[string]bool, len(ev.Checkins.CheckinList))
	for i := range ev.Checkins.CheckinList {
		c := &ev.Checkins.CheckinList[i]
		key := mac.Normalize(c.Mac)
		idx.allCheckins = append(idx.allCheckins, c)
		if _, known := idx.checkins[key]; !known {
			idx.extenderMacs = append(idx.extenderMacs, key)
		}
		idx.checkins[key] = append(idx.checkins[key], c)

		// Only the first entry for a mac within one event counts as its check-in.
		if seen[key] {
			continue
		}
		seen[key] = true
		if cur, ok := idx.latestCheckin[key]; !ok || events.Newer(ev, cur.event) {
			idx.latestCheckin[key] = checkinRef{event: ev, checkin: c}
		}
	}
}

// Latest returns the newest event of kind for addr, or nil.
func (idx *Index) Latest(kind events.PayloadType, addr string) *events.Event {
	return idx.latest[kind][mac.Normalize(addr)]
}

// DeviceEvents returns every device-event payload sent by addr with the given event type.
func (idx *Index) DeviceEvents(addr, eventType string) []*events.DeviceEvent {
	return idx.byEventType[mac.Normalize(addr)][eventType]
}

// AllDeviceEvents returns every device-event payload of the window.
func (idx *Index) AllDeviceEvents() []*events.DeviceEvent {
	return idx.deviceEvents
}

// LatestCheckin returns addr's entry in the newest check-in event that lists it.
func (idx *Index) LatestCheckin(addr string) *events.Checkin {
	ref, ok := idx.latestCheckin[mac.Normalize(addr)]
	if !ok {
		return nil
	}
	return ref.checkin
}

// Checkins returns every check-in entry reported for addr.
func (idx *Index) Checkins(addr string) []*events.Checkin {
	return idx.checkins[mac.Normalize(addr)]
}

// AllCheckins returns every check-in entry of every check-in event.
func (idx *Index) AllCheckins() []*events.Checkin {
	return idx.allCheckins
}

// LatestCheckinsEvent returns the newest extender-checkins event, or nil.
func (idx *Index) LatestCheckinsEvent() *events.Event {
	return idx.lastCheckins
}

// ExtenderMacs lists the normalized macs seen in check-ins, in first-seen order.
func (idx *Index) ExtenderMacs() []string {
	return idx.extenderMacs
}
