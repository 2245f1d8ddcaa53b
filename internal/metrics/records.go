package metrics

import "mesh-metrics-backend/internal/topology"

type Location struct {
	Building      *string `json:"building"`
	SectionOrWing *string `json:"sectionOrWing"`
	Floor         *string `json:"floor"`
	Place         *string `json:"place"`
	PlaceID       *string `json:"placeId"`
}

type TriggerCriterion struct {
	TxType         string `json:"txType"`
	ExtendersCount int    `json:"extendersCount"`
	Pass           bool   `json:"pass"`
}

type EndDeviceCriteria struct {
	IsMatchingTypes         bool `json:"isMatchingTypes"`
	IsFirmwareUpToDate      bool `json:"isFirmwareUpToDate"`
	IsSupervisionPassing    bool `json:"isSupervisionPassing"`
	IsBatteryAcceptable     bool `json:"isBatteryAcceptable"`
	IsDeviceTriggersPassing bool `json:"isDeviceTriggersPassing"`
}

type EndDeviceMetrics struct {
	Mac                    string             `json:"mac"`
	DeviceName             *string            `json:"deviceName"`
	ConfigType             *string            `json:"configType"`
	HardwareType           *string            `json:"hardwareType"`
	TransmitterProfile     *string            `json:"transmitterProfile"`
	FirmwareVersion        *string            `json:"firmwareVersion"`
	BatteryVoltage         *float64           `json:"batteryVoltage"`
	Location               Location           `json:"location"`
	ExtendersVisibility    *VisibilityStats   `json:"extendersVisibility"`
	SupervisionCount       int                `json:"supervisionCount"`
	DeviceTriggersCriteria []TriggerCriterion `json:"deviceTriggersCriteria"`
	Criteria               EndDeviceCriteria  `json:"criteria"`
}

type ExtenderCriteria struct {
	IsMenderArtifactUpToDate      bool `json:"isMenderArtifactUpToDate"`
	IsEndDeviceFirmwareUpToDate   bool `json:"isEndDeviceFirmwareUpToDate"`
	IsZigbeeActivityAcceptable    bool `json:"isZigbeeActivityAcceptable"`
	IsWifiActivityAcceptable      bool `json:"isWifiActivityAcceptable"`
	IsNumberOfNeighborsAcceptable bool `json:"isNumberOfNeighborsAcceptable"`
	IsLqiAcceptable               bool `json:"isLqiAcceptable"`
}

type ExtenderMetrics struct {
	Mac                      string           `json:"mac"`
	DeviceName               *string          `json:"deviceName"`
	HardwareType             string           `json:"hardwareType"`
	PanID                    *string          `json:"panId"`
	Location                 Location         `json:"location"`
	MenderArtifact           *string          `json:"menderArtifact"`
	EndDeviceFirmwareVersion *string          `json:"endDeviceFirmwareVersion"`
	ZigbeeActivePercentage   *float64         `json:"zigbeeActivePercentage"`
	WifiActivePercentage     *float64         `json:"wifiActivePercentage"`
	NeighborsCount           *int             `json:"neighborsCount"`
	AverageLQI               *float64         `json:"averageLqi"`
	Criteria                 ExtenderCriteria `json:"criteria"`
}

func locationOf(r *topology.Resolver, addr string) Location {
	p, ok := r.Locate(addr)
	if !ok {
		return Location{}
	}
	return Location{
		Building:      p.Building,
		SectionOrWing: p.SectionOrWing,
		Floor:         p.Floor,
		Place:         ptr(p.Place),
		PlaceID:       ptr(p.PlaceID),
	}
}

func ptr[T any](v T) *T {
	return &v
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// sameVersion is the up-to-date test: both present and equal.
func sameVersion(own, fleet *string) bool {
	return own != nil && fleet != nil && *own == *fleet
}
