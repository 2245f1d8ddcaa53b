package metrics

// Thresholds holds the pass/fail limits of the criteria blocks.
type Thresholds struct {
	// A device trigger passes when more than this many extenders heard it.
	TriggerMinExtenders int
	// Battery is acceptable strictly above this voltage.
	MinBatteryVoltage float64
	// Activity is acceptable strictly above this percentage.
	MinActivityPercentage float64
	MinNeighbors          int
	MinAverageLQI         float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		TriggerMinExtenders:   2,
		MinBatteryVoltage:     2.85,
		MinActivityPercentage: 90,
		MinNeighbors:          2,
		MinAverageLQI:         100,
	}
}
