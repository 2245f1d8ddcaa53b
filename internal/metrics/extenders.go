package metrics

import (
	"slices"

	"mesh-metrics-backend/internal/events"
	"mesh-metrics-backend/internal/mac"
	"mesh-metrics-backend/internal/topology"
)

const (
	FlavorExtender = "extender"

	HardwareExtender = "extender"
	HardwareDirector = "director"

	directorAlias = "00:00"
)

// CalculateExtenderMetrics builds one record per extender seen in a
// check-in or configured as an extender, sorted by extended mac.
func CalculateExtenderMetrics(
	locations []topology.Location,
	devices []topology.Device,
	evs []events.Event,
	th Thresholds,
) []ExtenderMetrics {
	resolver := topology.NewResolver(locations, devices)
	idx := NewIndex(evs)

	universe := make(map[string]struct{})
	for _, m := range idx.ExtenderMacs() {
		universe[m] = struct{}{}
	}
	for _, d := range devices {
		if d.Flavor != FlavorExtender {
			continue
		}
		universe[extendedKey(d.Mac)] = struct{}{}
	}
	macs := make([]string, 0, len(universe))
	for m := range universe {
		macs = append(macs, m)
	}
	slices.Sort(macs)

	maxMender := fleetMaxVersion(idx, events.VersionMenderArtifact)
	maxFirmware := fleetMaxVersion(idx, events.VersionEndDeviceFirmware)

	results := make([]ExtenderMetrics, 0, len(macs))
	for _, m := range macs {
		results = append(results, extender(m, resolver, idx, maxMender, maxFirmware, th))
	}
	return results
}

func extender(
	addr string,
	resolver *topology.Resolver,
	idx *Index,
	maxMender, maxFirmware *string,
	th Thresholds,
) ExtenderMetrics {
	short := shortKey(addr)
	rec := ExtenderMetrics{
		Mac:          addr,
		HardwareType: HardwareExtender,
		Location:     locationOf(resolver, short),
	}
	if dev, ok := resolver.Device(short); ok {
		rec.DeviceName = nonEmpty(dev.Name)
	}

	if c := idx.LatestCheckin(addr); c != nil {
		if c.Alias == directorAlias {
			rec.HardwareType = HardwareDirector
		}
		rec.PanID = nonEmpty(c.ZigbeeExtPanID)
		if v, ok := firstNamed(c.Versions, events.VersionMenderArtifact); ok {
			rec.MenderArtifact = ptr(v.Full())
		}
		if v, ok := firstNamed(c.Versions, events.VersionEndDeviceFirmware); ok {
			rec.EndDeviceFirmwareVersion = ptr(v.Full())
		}
	}

	checkins := idx.Checkins(addr)
	rec.ZigbeeActivePercentage = activePercentage(checkins, events.TransportZigbee)
	rec.WifiActivePercentage = activePercentage(checkins, events.TransportWifi)

	if ev := idx.Latest(events.PayloadZigbeeRouteNeighbors, addr); ev != nil {
		count, avg := neighborStats(ev.RouteNeighbors.Neighbors)
		rec.NeighborsCount = &count
		rec.AverageLQI = avg
	}

	rec.Criteria = ExtenderCriteria{
		IsMenderArtifactUpToDate:      sameVersion(rec.MenderArtifact, maxMender),
		IsEndDeviceFirmwareUpToDate:   sameVersion(rec.EndDeviceFirmwareVersion, maxFirmware),
		IsZigbeeActivityAcceptable:    above(rec.ZigbeeActivePercentage, th.MinActivityPercentage),
		IsWifiActivityAcceptable:      above(rec.WifiActivePercentage, th.MinActivityPercentage),
		IsNumberOfNeighborsAcceptable: rec.NeighborsCount != nil && *rec.NeighborsCount >= th.MinNeighbors,
		IsLqiAcceptable:               rec.AverageLQI != nil && *rec.AverageLQI >= th.MinAverageLQI,
	}
	return rec
}

// extendedKey is the normalized 64-bit form of a configured address.
// Addresses that are not 6 octets are kept as they are.
func extendedKey(addr string) string {
	key := mac.Normalize(addr)
	if ext, err := mac.ToExtended(key); err == nil {
		return ext
	}
	return key
}

func shortKey(addr string) string {
	if short, err := mac.ToShort(addr); err == nil {
		return short
	}
	return addr
}

// activePercentage is 100 * active / total over the check-ins of one
// transport, nil when there are none.
func activePercentage(checkins []*events.Checkin, transport string) *float64 {
	var total, active int
	for _, c := range checkins {
		if c.Transport != transport {
			continue
		}
		total++
		if c.Active {
			active++
		}
	}
	if total == 0 {
		return nil
	}
	return ptr(100 * float64(active) / float64(total))
}

func neighborStats(neighbors []events.Neighbor) (int, *float64) {
	if len(neighbors) == 0 {
		return 0, nil
	}
	distinct := make(map[string]struct{}, len(neighbors))
	var sum int
	for _, n := range neighbors {
		distinct[mac.Normalize(n.Mac)] = struct{}{}
		sum += n.LQI
	}
	return len(distinct), ptr(float64(sum) / float64(len(neighbors)))
}

func above(v *float64, limit float64) bool {
	return v != nil && *v > limit
}
