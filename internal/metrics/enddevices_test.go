package metrics

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mesh-metrics-backend/internal/events"
	"mesh-metrics-backend/internal/topology"
)

func Test_CalculateEndDeviceMetrics_Scenario(t *testing.T) {
	const dev = "AA:BB:CC:11:22:33"
	locations := []topology.Location{{
		ID:           "b-a",
		Name:         "Building A",
		LocationType: topology.LocationBuilding,
		Ancestors:    []topology.Ancestor{{ID: "b-a", Name: "Building A", LocationType: topology.LocationBuilding}},
		Devices:      []topology.DeviceRef{{Mac: dev}},
	}}
	devices := []topology.Device{{Mac: dev, Name: "Motion 1", Flavor: "motion"}}
	evs := []events.Event{
		deviceEvent("e1", 0, dev, extMac(1), 1, events.TxTypeSupervision, HardwareMove),
		deviceInfo("e2", 1, dev, 1, 4),
	}

	got := CalculateEndDeviceMetrics(locations, devices, evs, DefaultThresholds())
	require.Len(t, got, 1)
	rec := got[0]

	assert.Equal(t, dev, rec.Mac)
	require.NotNil(t, rec.Location.Building)
	assert.Equal(t, "Building A", *rec.Location.Building)
	require.NotNil(t, rec.HardwareType)
	assert.Equal(t, HardwareMove, *rec.HardwareType)
	require.NotNil(t, rec.FirmwareVersion)
	assert.Equal(t, "v1.4", *rec.FirmwareVersion)
	assert.True(t, rec.Criteria.IsMatchingTypes)
	assert.True(t, rec.Criteria.IsSupervisionPassing)
	assert.False(t, rec.Criteria.IsFirmwareUpToDate, "no fleet firmware without check-ins")
	assert.False(t, rec.Criteria.IsBatteryAcceptable)
	assert.False(t, rec.Criteria.IsDeviceTriggersPassing)
	assert.Equal(t, []TriggerCriterion{}, rec.DeviceTriggersCriteria)
}

func Test_CalculateEndDeviceMetrics(t *testing.T) {
	const (
		door   = "aa:bb:cc:00:00:01"
		button = "aa:bb:cc:00:00:02"
		ghost  = "aa:bb:cc:00:00:03"
	)
	locations := []topology.Location{{
		ID:           "r-1",
		Name:         "Room 1",
		LocationType: topology.LocationRoom,
		Ancestors: []topology.Ancestor{
			{ID: "f-1", Name: "Floor 1", LocationType: topology.LocationFloor},
			{ID: "s-1", Name: "North", LocationType: topology.LocationSection},
			{ID: "b-1", Name: "Main", LocationType: topology.LocationBuilding},
		},
		Devices: []topology.DeviceRef{{Mac: door}, {Mac: button}},
	}}
	devices := []topology.Device{
		{Mac: "aa:bb:cc:00:00:aa", Name: "Pendant", Flavor: "pendant"},
		{
			Mac:    door,
			Name:   "Door 1",
			Flavor: "door",
			TransmitterProfile: &topology.TransmitterProfile{
				Name: "Door contact",
				TransmitterTypeMappings: []topology.TransmitterTypeMapping{
					{TxType: events.TxTypeReedSwitchOpen1},
					{TxType: events.TxTypeReedSwitchClose1},
				},
			},
		},
		{
			Mac:    button,
			Name:   "Pull 1",
			Flavor: "pull-station",
			TransmitterProfile: &topology.TransmitterProfile{
				Name:                    "Pull",
				TransmitterTypeMappings: []topology.TransmitterTypeMapping{{TxType: events.TxTypeButton1}},
			},
		},
		{Mac: ghost, Name: "Unseen", Flavor: "window"},
		{Mac: "00:11:22:00:00:01", Name: "Ext", Flavor: "extender"},
		{Mac: door, Name: "Door 1 again", Flavor: "door"},
	}
	evs := []events.Event{
		// door: open heard by 3 extenders, close by 3
		deviceEvent("d1", 0, door, extMac(1), 1, events.TxTypeReedSwitchOpen1, HardwareSpot),
		deviceEvent("d2", 0, door, extMac(2), 1, events.TxTypeReedSwitchOpen1, HardwareSpot),
		deviceEvent("d3", 0, door, extMac(3), 1, events.TxTypeReedSwitchOpen1, HardwareSpot),
		deviceEvent("d4", 5, door, extMac(1), 2, events.TxTypeReedSwitchClose1, HardwareSpot),
		deviceEvent("d5", 5, door, extMac(2), 2, events.TxTypeReedSwitchClose1, HardwareSpot),
		deviceEvent("d6", 5, door, extMac(4), 2, events.TxTypeReedSwitchClose1, HardwareSpot),
		deviceEvent("d7", 9, door, extMac(1), 3, events.TxTypeSupervision, HardwareSpot),
		deviceInfo("d8", 1, door, 2, 0),
		sensors("d9", 2, door, events.SensorData{Units: "Celsius", Value: 21}, events.SensorData{Units: "Volts", Value: 3.01}),
		sensors("d10", 1, door, events.SensorData{Units: "Volts", Value: 2.5}),

		// button: reported as Move, only 2 extenders heard the press, low battery
		deviceEvent("b1", 0, button, extMac(1), 1, events.TxTypeButton1, HardwareMove),
		deviceEvent("b2", 0, button, extMac(2), 1, events.TxTypeButton1, HardwareMove),
		deviceInfo("b3", 1, button, 1, 9),
		sensors("b4", 2, button, events.SensorData{Units: "Volts", Value: 2.85}),

		checkins("c1", 3,
			events.Checkin{Mac: extMac(1), Versions: versions(events.VersionEndDeviceFirmware, 2, 0, 11)},
			events.Checkin{Mac: extMac(2), Versions: versions(events.VersionEndDeviceFirmware, 1, 9, 0)},
		),
	}

	got := CalculateEndDeviceMetrics(locations, devices, evs, DefaultThresholds())
	require.Len(t, got, 3)

	d := got[0]
	assert.Equal(t, door, d.Mac)
	assert.Equal(t, "Door 1", *d.DeviceName)
	assert.Equal(t, "door", *d.ConfigType)
	assert.Equal(t, "Door contact", *d.TransmitterProfile)
	assert.Equal(t, HardwareSpot, *d.HardwareType)
	assert.Equal(t, "v2.0", *d.FirmwareVersion)
	assert.Equal(t, 3.01, *d.BatteryVoltage)
	assert.Equal(t, Location{
		Building:      ptr("Main"),
		SectionOrWing: ptr("North"),
		Floor:         ptr("Floor 1"),
		Place:         ptr("Room 1"),
		PlaceID:       ptr("r-1"),
	}, d.Location)
	assert.Equal(t, &VisibilityStats{Min: 1, Median: 3, Max: 3}, d.ExtendersVisibility)
	assert.Equal(t, 1, d.SupervisionCount)
	assert.Equal(t, []TriggerCriterion{
		{TxType: events.TxTypeReedSwitchOpen1, ExtendersCount: 3, Pass: true},
		{TxType: events.TxTypeReedSwitchClose1, ExtendersCount: 3, Pass: true},
	}, d.DeviceTriggersCriteria)
	assert.Equal(t, EndDeviceCriteria{
		IsMatchingTypes:         true,
		IsFirmwareUpToDate:      true,
		IsSupervisionPassing:    true,
		IsBatteryAcceptable:     true,
		IsDeviceTriggersPassing: true,
	}, d.Criteria)

	b := got[1]
	assert.Equal(t, button, b.Mac)
	assert.Equal(t, "v1.9", *b.FirmwareVersion)
	assert.Equal(t, []TriggerCriterion{
		{TxType: events.TxTypeButton1, ExtendersCount: 2, Pass: false},
	}, b.DeviceTriggersCriteria)
	assert.Equal(t, EndDeviceCriteria{}, b.Criteria)

	g := got[2]
	assert.Equal(t, ghost, g.Mac)
	assert.Nil(t, g.HardwareType)
	assert.Nil(t, g.FirmwareVersion)
	assert.Nil(t, g.BatteryVoltage)
	assert.Nil(t, g.ExtendersVisibility)
	assert.Equal(t, Location{}, g.Location)
	assert.Equal(t, EndDeviceCriteria{}, g.Criteria)
}

func Test_CalculateEndDeviceMetrics_Thresholds(t *testing.T) {
	const dev = "aa:bb:cc:00:00:01"
	devices := []topology.Device{{
		Mac:    dev,
		Flavor: "pull-station",
		TransmitterProfile: &topology.TransmitterProfile{
			TransmitterTypeMappings: []topology.TransmitterTypeMapping{{TxType: events.TxTypeButton1}},
		},
	}}
	evs := []events.Event{
		deviceEvent("1", 0, dev, extMac(1), 1, events.TxTypeButton1, HardwarePush),
		deviceEvent("2", 0, dev, extMac(2), 1, events.TxTypeButton1, HardwarePush),
	}
	th := DefaultThresholds()
	th.TriggerMinExtenders = 1

	got := CalculateEndDeviceMetrics(nil, devices, evs, th)
	require.Len(t, got, 1)
	assert.True(t, got[0].Criteria.IsDeviceTriggersPassing)
	assert.Nil(t, got[0].DeviceName)
}

func Test_CalculateEndDeviceMetrics_Idempotent(t *testing.T) {
	const dev = "aa:bb:cc:00:00:01"
	locations := []topology.Location{{ID: "1", Name: "Room", Devices: []topology.DeviceRef{{Mac: dev}}}}
	devices := []topology.Device{{Mac: dev, Flavor: "door"}}
	evs := []events.Event{
		deviceEvent("1", 0, dev, extMac(1), 1, events.TxTypeSupervision, HardwareSpot),
		deviceEvent("2", 0, dev, extMac(2), 1, events.TxTypeSupervision, HardwareSpot),
		deviceEvent("3", 4, dev, extMac(2), 2, events.TxTypeSupervision, HardwareSpot),
		sensors("4", 1, dev, events.SensorData{Units: "Volts", Value: 2.9}),
	}

	first, err := json.Marshal(CalculateEndDeviceMetrics(locations, devices, evs, DefaultThresholds()))
	require.NoError(t, err)
	second, err := json.Marshal(CalculateEndDeviceMetrics(locations, devices, evs, DefaultThresholds()))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}
