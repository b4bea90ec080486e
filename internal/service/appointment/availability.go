package appointment

import (
	"encoding/json"
	"time"
)

// SlotLayout is the wire form of a slot: UTC with millisecond precision.
const SlotLayout = "2006-01-02T15:04:05.000Z"

// Availability is one day's grid split into free and held slots.
type Availability struct {
	Date           time.Time
	AvailableSlots []time.Time
	BookedSlots    []time.Time
}

func (a Availability) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		AvailableSlots []string `json:"availableSlots"`
		BookedSlots    []string `json:"bookedSlots"`
	}{
		AvailableSlots: formatSlots(a.AvailableSlots),
		BookedSlots:    formatSlots(a.BookedSlots),
	})
}

func formatSlots(ts []time.Time) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.UTC().Format(SlotLayout))
	}
	return out
}
