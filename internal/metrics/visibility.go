package metrics

import (
	"slices"

	"mesh-metrics-backend/internal/events"
	"mesh-metrics-backend/internal/mac"
)

// VisibilityStats summarises how many extenders heard each transmission of one sender.
type VisibilityStats struct {
	Min    int `json:"min"`
	Median int `json:"median"`
	Max    int `json:"max"`
}

type transmission struct {
	sender   string
	sequence int64
}

// Visibility groups device events by (sender, sequence), counts distinct
// receivers per group and reduces the counts per sender. The median is
// the element at n/2 of the sorted counts.
func Visibility(des []*events.DeviceEvent) map[string]VisibilityStats {
	receivers := make(map[transmission]map[string]struct{})
	for _, de := range des {
		key := transmission{sender: mac.Normalize(de.SenderMac), sequence: de.Sequence}
		set, ok := receivers[key]
		if !ok {
			set = make(map[string]struct{})
			receivers[key] = set
		}
		set[mac.Normalize(de.ReceiverMac)] = struct{}{}
	}

	counts := make(map[string][]int)
	for key, set := range receivers {
		counts[key.sender] = append(counts[key.sender], len(set))
	}

	stats := make(map[string]VisibilityStats, len(counts))
	for sender, c := range counts {
		slices.Sort(c)
		stats[sender] = VisibilityStats{
			Min:    c[0],
			Median: c[len(c)/2],
			Max:    c[len(c)-1],
		}
	}
	return stats
}
