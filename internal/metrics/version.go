package metrics

import (
	"cmp"
	"fmt"

	"mesh-metrics-backend/internal/events"
)

// Version is a (major, minor, build) tuple. Pairs leave Build at zero.
type Version struct {
	Major int
	Minor int
	Build int
}

func (v Version) Compare(o Version) int {
	if c := cmp.Compare(v.Major, o.Major); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Minor, o.Minor); c != 0 {
		return c
	}
	return cmp.Compare(v.Build, o.Build)
}

// Release drops the build number.
func (v Version) Release() Version {
	return Version{Major: v.Major, Minor: v.Minor}
}

// Short renders end-device firmware, e.g. "v1.4".
func (v Version) Short() string {
	return fmt.Sprintf("v%d.%d", v.Major, v.Minor)
}

// Full renders extender versions, e.g. "2.1.17".
func (v Version) Full() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Build)
}

func fromCheckin(cv events.CheckinVersion) Version {
	return Version{Major: cv.Major, Minor: cv.Minor, Build: cv.Build}
}

// MostRecent returns the greatest of versions, false when there are none.
func MostRecent(versions []Version) (Version, bool) {
	if len(versions) == 0 {
		return Version{}, false
	}
	best := versions[0]
	for _, v := range versions[1:] {
		if v.Compare(best) >= 0 {
			best = v
		}
	}
	return best, true
}

// Named returns the versions whose name matches.
func Named(versions []events.CheckinVersion, name string) []Version {
	var out []Version
	for _, cv := range versions {
		if cv.Name == name {
			out = append(out, fromCheckin(cv))
		}
	}
	return out
}

// firstNamed returns the first version entry called name.
func firstNamed(versions []events.CheckinVersion, name string) (Version, bool) {
	for _, cv := range versions {
		if cv.Name == name {
			return fromCheckin(cv), true
		}
	}
	return Version{}, false
}

// fleetEndDeviceFirmware is the newest end-device firmware, by major and
// minor, announced in the newest check-in event.
func fleetEndDeviceFirmware(idx *Index) *string {
	ev := idx.LatestCheckinsEvent()
	if ev == nil {
		return nil
	}
	var candidates []Version
	for _, c := range ev.Checkins.CheckinList {
		if v, ok := firstNamed(c.Versions, events.VersionEndDeviceFirmware); ok {
			candidates = append(candidates, v.Release())
		}
	}
	best, ok := MostRecent(candidates)
	if !ok {
		return nil
	}
	return ptr(best.Short())
}

// fleetMaxVersion is the newest version called name across every check-in of the window.
func fleetMaxVersion(idx *Index, name string) *string {
	var candidates []Version
	for _, c := range idx.AllCheckins() {
		candidates = append(candidates, Named(c.Versions, name)...)
	}
	best, ok := MostRecent(candidates)
	if !ok {
		return nil
	}
	return ptr(best.Full())
}
