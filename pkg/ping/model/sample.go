// Package model contains the data types shared by the ping probe pipeline.
package model

import "fmt"

// Sample is one parsed reading from the ping probe's output.
type Sample struct {
	// Timestamp is the timestamp token extracted from the probe line,
	// verbatim. It is never reparsed as a calendar type.
	Timestamp string `json:"timestamp"`

	// RTTMs is the round-trip time in milliseconds.
	RTTMs uint16 `json:"rtt_ms"`
}

// String formats the sample the way it is written to the sample log,
// without the trailing newline.
func (s Sample) String() string {
	return fmt.Sprintf("%s %d", s.Timestamp, s.RTTMs)
}
