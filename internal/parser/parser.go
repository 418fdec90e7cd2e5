// Package parser extracts latency samples from raw ping output lines.
package parser

import (
	"errors"
	"regexp"
	"strconv"

	"github.com/netwatch/netwatch/pkg/ping/model"
)

var (
	// ErrNoMatch is returned for lines that do not contain a bracketed
	// timestamp followed by a time= field.
	ErrNoMatch = errors.New("line does not match the ping output pattern")

	// ErrOverflow is returned when the time= value does not fit in 16 bits.
	ErrOverflow = errors.New("ping time exceeds the 16-bit millisecond range")
)

// lineRE matches one timestamped ping reply, e.g.:
//
//	[2024-01-01T00:00:00Z] 64 bytes from 1.1.1.1: icmp_seq=1 ttl=55 time=23
var lineRE = regexp.MustCompile(`\[(.+)\].*time=(\d+)`)

// Parse extracts a Sample from one line of ping output. It is safe to call
// on arbitrary text and has no side effects.
func Parse(line string) (model.Sample, error) {
	m := lineRE.FindStringSubmatch(line)
	if m == nil {
		return model.Sample{}, ErrNoMatch
	}
	ms, err := strconv.ParseUint(m[2], 10, 16)
	if err != nil {
		// The pattern guarantees digits, so the only way ParseUint can
		// fail here is a value out of range.
		return model.Sample{}, ErrOverflow
	}
	return model.Sample{
		Timestamp: m[1],
		RTTMs:     uint16(ms),
	}, nil
}
