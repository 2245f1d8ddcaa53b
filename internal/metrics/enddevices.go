package metrics

import (
	"strings"

	"mesh-metrics-backend/internal/events"
	"mesh-metrics-backend/internal/mac"
	"mesh-metrics-backend/internal/topology"
)

// Flavors that are not end devices and get no end-device record.
var excludedFlavors = map[string]bool{
	"pendant":       true,
	"extender":      true,
	"director":      true,
	"headend-power": true,
}

const voltsUnit = "Volts"

// CalculateEndDeviceMetrics builds one record per configured end device,
// in configuration order.
func CalculateEndDeviceMetrics(
	locations []topology.Location,
	devices []topology.Device,
	evs []events.Event,
	th Thresholds,
) []EndDeviceMetrics {
	resolver := topology.NewResolver(locations, devices)
	idx := NewIndex(evs)
	visibility := Visibility(idx.AllDeviceEvents())
	fleetFirmware := fleetEndDeviceFirmware(idx)

	seen := make(map[string]bool, len(devices))
	results := make([]EndDeviceMetrics, 0, len(devices))
	for _, d := range devices {
		key := mac.Normalize(d.Mac)
		if excludedFlavors[d.Flavor] || seen[key] {
			continue
		}
		seen[key] = true
		results = append(results, endDevice(d.Mac, resolver, idx, visibility, fleetFirmware, th))
	}
	return results
}

func endDevice(
	addr string,
	resolver *topology.Resolver,
	idx *Index,
	visibility map[string]VisibilityStats,
	fleetFirmware *string,
	th Thresholds,
) EndDeviceMetrics {
	rec := EndDeviceMetrics{
		Mac:                    addr,
		Location:               locationOf(resolver, addr),
		DeviceTriggersCriteria: []TriggerCriterion{},
	}

	var flavor string
	dev, ok := resolver.Device(addr)
	if ok {
		flavor = dev.Flavor
		rec.DeviceName = nonEmpty(dev.Name)
		rec.ConfigType = nonEmpty(dev.Flavor)
		if dev.TransmitterProfile != nil {
			rec.TransmitterProfile = nonEmpty(dev.TransmitterProfile.Name)
			for _, m := range dev.TransmitterProfile.TransmitterTypeMappings {
				n := distinctReceivers(idx.DeviceEvents(addr, m.TxType))
				rec.DeviceTriggersCriteria = append(rec.DeviceTriggersCriteria, TriggerCriterion{
					TxType:         m.TxType,
					ExtendersCount: n,
					Pass:           n > th.TriggerMinExtenders,
				})
			}
		}
	}

	var hardwareType string
	if ev := idx.Latest(events.PayloadDeviceEvent, addr); ev != nil {
		hardwareType = ev.DeviceEvent.DeviceType
		rec.HardwareType = nonEmpty(hardwareType)
	}
	if ev := idx.Latest(events.PayloadDeviceInfo, addr); ev != nil {
		v := Version{Major: ev.DeviceInfo.MajorVersion, Minor: ev.DeviceInfo.MinorVersion}
		rec.FirmwareVersion = ptr(v.Short())
	}
	rec.BatteryVoltage = batteryVoltage(idx.Latest(events.PayloadSensors, addr))
	if s, ok := visibility[mac.Normalize(addr)]; ok {
		rec.ExtendersVisibility = &s
	}
	rec.SupervisionCount = len(idx.DeviceEvents(addr, events.TxTypeSupervision))

	rec.Criteria = EndDeviceCriteria{
		IsMatchingTypes:         IsMatching(flavor, hardwareType),
		IsFirmwareUpToDate:      sameVersion(rec.FirmwareVersion, fleetFirmware),
		IsSupervisionPassing:    rec.HardwareType != nil && rec.SupervisionCount > 0,
		IsBatteryAcceptable:     rec.BatteryVoltage != nil && *rec.BatteryVoltage > th.MinBatteryVoltage,
		IsDeviceTriggersPassing: allPass(rec.DeviceTriggersCriteria),
	}
	return rec
}

// batteryVoltage reads the first volts entry of the newest sensors report.
func batteryVoltage(ev *events.Event) *float64 {
	if ev == nil {
		return nil
	}
	for _, s := range ev.Sensors.SensorDataList {
		if strings.EqualFold(s.Units, voltsUnit) {
			return ptr(s.Value)
		}
	}
	return nil
}

func distinctReceivers(des []*events.DeviceEvent) int {
	set := make(map[string]struct{}, len(des))
	for _, de := range des {
		set[mac.Normalize(de.ReceiverMac)] = struct{}{}
	}
	return len(set)
}

func allPass(triggers []TriggerCriterion) bool {
	if len(triggers) == 0 {
		return false
	}
	for _, t := range triggers {
		if !t.Pass {
			return false
		}
	}
	return true
}
