package topology

import (
	"bytes"
	"encoding/json"
	"strconv"
)

type LocationType string

const (
	LocationBuilding LocationType = "building"
	LocationFloor    LocationType = "floor"
	LocationSection  LocationType = "section"
	LocationWing     LocationType = "wing"
	LocationRoom     LocationType = "room"
)

// ID accepts both string and numeric identifiers from the configuration service.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	if string(data) == "null" {
		*id = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

type Ancestor struct {
	ID           ID           `json:"id"`
	Name         string       `json:"name"`
	LocationType LocationType `json:"locationType"`
}

type DeviceRef struct {
	Mac string `json:"mac"`
}

// Location is one node of the installed topology. Ancestors run from the
// nearest parent to the building.
type Location struct {
	ID           ID           `json:"id"`
	Name         string       `json:"name"`
	LocationType LocationType `json:"locationType"`
	Ancestors    []Ancestor   `json:"ancestors"`
	Devices      []DeviceRef  `json:"devices"`
}

type TransmitterTypeMapping struct {
	TxType string `json:"txType"`
}

type TransmitterProfile struct {
	Name                    string                   `json:"name"`
	TransmitterTypeMappings []TransmitterTypeMapping `json:"transmitterTypeMappings"`
}

type Device struct {
	Mac                string              `json:"mac"`
	Name               string              `json:"name"`
	Flavor             string              `json:"flavor"`
	TransmitterProfile *TransmitterProfile `json:"transmitterProfile,omitempty"`
}

// Snapshot is the full topology as returned by the configuration service.
type Snapshot struct {
	Locations []Location `json:"locations"`
	Devices   []Device   `json:"devices"`
}
