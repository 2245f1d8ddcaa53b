package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mesh-metrics-backend/internal/events"
)

func Test_Index_Latest(t *testing.T) {
	const dev = "aa:bb:cc:11:22:33"
	evs := []events.Event{
		deviceInfo("i-2", 20, dev, 1, 2),
		deviceInfo("i-1", 10, dev, 1, 1),
		deviceInfo("i-3", 20, "AA:BB:CC:11:22:33", 1, 3),
		deviceInfo("i-0", 30, "aa:bb:cc:99:99:99", 9, 9),
	}
	idx := NewIndex(evs)

	got := idx.Latest(events.PayloadDeviceInfo, dev)
	require.NotNil(t, got)
	assert.Equal(t, "i-3", got.ID, "equal timestamps resolve to the greater id")
	assert.Equal(t, 3, got.DeviceInfo.MinorVersion)

	assert.Nil(t, idx.Latest(events.PayloadSensors, dev))
	assert.Nil(t, idx.Latest(events.PayloadDeviceInfo, "aa:bb:cc:00:00:00"))
}

func Test_Index_Latest_OrderIndependent(t *testing.T) {
	const dev = "aa:bb:cc:11:22:33"
	a := deviceEvent("a", 5, dev, extMac(1), 1, events.TxTypeButton1, "Push")
	b := deviceEvent("b", 5, dev, extMac(2), 1, events.TxTypeButton1, "Spot")

	first := NewIndex([]events.Event{a, b}).Latest(events.PayloadDeviceEvent, dev)
	second := NewIndex([]events.Event{b, a}).Latest(events.PayloadDeviceEvent, dev)
	assert.Equal(t, "b", first.ID)
	assert.Equal(t, "b", second.ID)
}

func Test_Index_DeviceEvents(t *testing.T) {
	const dev = "aa:bb:cc:11:22:33"
	evs := []events.Event{
		deviceEvent("1", 0, dev, extMac(1), 1, events.TxTypeSupervision, "Spot"),
		deviceEvent("2", 1, dev, extMac(2), 1, events.TxTypeSupervision, "Spot"),
		deviceEvent("3", 2, dev, extMac(1), 2, events.TxTypeReedSwitchOpen1, "Spot"),
		deviceEvent("4", 3, "aa:bb:cc:44:55:66", extMac(1), 1, events.TxTypeSupervision, "Spot"),
	}
	idx := NewIndex(evs)

	assert.Len(t, idx.DeviceEvents(dev, events.TxTypeSupervision), 2)
	assert.Len(t, idx.DeviceEvents(dev, events.TxTypeReedSwitchOpen1), 1)
	assert.Empty(t, idx.DeviceEvents(dev, events.TxTypeButton1))
	assert.Len(t, idx.AllDeviceEvents(), 4)
}

func Test_Index_Checkins(t *testing.T) {
	evs := []events.Event{
		checkins("c-2", 20,
			events.Checkin{Mac: extMac(1), Alias: "00:00", Transport: events.TransportZigbee, Active: true},
			events.Checkin{Mac: extMac(1), Alias: "ignored", Transport: events.TransportWifi, Active: false},
		),
		checkins("c-1", 10,
			events.Checkin{Mac: extMac(1), Alias: "01:00", Transport: events.TransportZigbee, Active: false},
			events.Checkin{Mac: extMac(2), Alias: "02:00", Transport: events.TransportWifi, Active: true},
		),
	}
	idx := NewIndex(evs)

	latest := idx.LatestCheckin(extMac(1))
	require.NotNil(t, latest)
	assert.Equal(t, "00:00", latest.Alias)
	assert.Equal(t, "02:00", idx.LatestCheckin(extMac(2)).Alias)
	assert.Nil(t, idx.LatestCheckin(extMac(3)))

	assert.Len(t, idx.Checkins(extMac(1)), 3)
	assert.Len(t, idx.AllCheckins(), 4)
	assert.Equal(t, []string{extMac(1), extMac(2)}, idx.ExtenderMacs())
	assert.Equal(t, "c-2", idx.LatestCheckinsEvent().ID)
}
