package topology

import "mesh-metrics-backend/internal/mac"

// Placement describes where a device is installed.
type Placement struct {
	Building      *string
	SectionOrWing *string
	Floor         *string
	Place         string
	PlaceID       string
}

// Duplicate records a mac that appears more than once in the topology.
// The first occurrence is the one the resolver answers with.
type Duplicate struct {
	Mac    string
	Kind   string
	First  string
	Second string
}

const (
	DuplicateLocation = "location"
	DuplicateDevice   = "device"
)

// Resolver indexes a topology snapshot by mac. It is built once per
// request and never mutated afterwards.
type Resolver struct {
	locations  map[string]*Location
	devices    map[string]*Device
	duplicates []Duplicate
}

func NewResolver(locations []Location, devices []Device) *Resolver {
	r := &Resolver{
		locations: make(map[string]*Location),
		devices:   make(map[string]*Device, len(devices)),
	}
	for i := range locations {
		loc := &locations[i]
		for _, d := range loc.Devices {
			key := mac.Normalize(d.Mac)
			if prev, ok := r.locations[key]; ok {
				if prev != loc {
					r.duplicates = append(r.duplicates, Duplicate{
						Mac:    d.Mac,
						Kind:   DuplicateLocation,
						First:  string(prev.ID),
						Second: string(loc.ID),
					})
				}
				continue
			}
			r.locations[key] = loc
		}
	}
	for i := range devices {
		dev := &devices[i]
		key := mac.Normalize(dev.Mac)
		if prev, ok := r.devices[key]; ok {
			r.duplicates = append(r.duplicates, Duplicate{
				Mac:    dev.Mac,
				Kind:   DuplicateDevice,
				First:  prev.Name,
				Second: dev.Name,
			})
			continue
		}
		r.devices[key] = dev
	}
	return r
}

// Device returns the configured record for mac.
func (r *Resolver) Device(addr string) (*Device, bool) {
	d, ok := r.devices[mac.Normalize(addr)]
	return d, ok
}

// Locate resolves the installed placement of mac.
func (r *Resolver) Locate(addr string) (Placement, bool) {
	loc, ok := r.locations[mac.Normalize(addr)]
	if !ok {
		return Placement{}, false
	}

	p := Placement{
		Place:   loc.Name,
		PlaceID: string(loc.ID),
	}
	if n := len(loc.Ancestors); n > 0 {
		p.Building = strPtr(loc.Ancestors[n-1].Name)
	} else if loc.LocationType == LocationBuilding {
		p.Building = strPtr(loc.Name)
	}
	for _, a := range loc.Ancestors {
		if p.SectionOrWing == nil && (a.LocationType == LocationSection || a.LocationType == LocationWing) {
			p.SectionOrWing = strPtr(a.Name)
		}
		if p.Floor == nil && a.LocationType == LocationFloor {
			p.Floor = strPtr(a.Name)
		}
	}
	return p, true
}

func (r *Resolver) Duplicates() []Duplicate {
	return r.duplicates
}

func strPtr(s string) *string {
	return &s
}
