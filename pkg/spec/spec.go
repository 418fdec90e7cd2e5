// Package spec contains constants for the netwatch probes.
package spec

import "time"

const (
	// PingTimeout is the maximum time to wait for a line of ping output
	// before the session is considered stalled and the probe is restarted.
	PingTimeout = 10 * time.Second

	// SpeedtestInterval is the interval between subsequent speedtest runs.
	SpeedtestInterval = 1800 * time.Second

	// DefaultTarget is the address the ping probe measures against.
	DefaultTarget = "1.1.1.1"

	// DefaultSampleLog is the default path of the append-only sample log.
	DefaultSampleLog = "ping.log"

	// DefaultSpeedtestFile is the default path of the speedtest results
	// file. The file holds a single JSON array, one element per run.
	DefaultSpeedtestFile = "speedtest.json"

	// StatusPath serves the current probe status as JSON.
	StatusPath = "/netwatch/v1/status"

	// LivePath serves parsed samples over a websocket as they arrive.
	LivePath = "/netwatch/v1/live"

	// RecentWindow is how long a sample counts as "recent" for the status
	// endpoint.
	RecentWindow = 5 * time.Minute
)
