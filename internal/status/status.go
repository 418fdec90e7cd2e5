// Package status serves a JSON summary of the probe's current state.
package status

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jellydator/ttlcache/v3"
	"github.com/netwatch/netwatch/pkg/ping/model"
	"github.com/netwatch/netwatch/pkg/spec"
	"github.com/netwatch/netwatch/pkg/version"
)

// Report is the response body of the status endpoint.
type Report struct {
	// Version is the running binary's version.
	Version string `json:"version"`
	// Target is the address the ping probe measures against.
	Target string `json:"target"`
	// SessionID identifies the currently running probe session.
	SessionID string `json:"session_id,omitempty"`
	// LastSample is the most recently parsed sample, if any.
	LastSample *model.Sample `json:"last_sample,omitempty"`
	// RecentSamples is the number of samples parsed within the recent
	// window.
	RecentSamples int `json:"recent_samples"`
	// LastSpeedtest is the time of the last successfully saved speedtest
	// result, if any.
	LastSpeedtest *time.Time `json:"last_speedtest,omitempty"`
}

// Handler tracks probe activity and serves it as a Report.
type Handler struct {
	target string
	recent *ttlcache.Cache[uint64, model.Sample]
	seq    atomic.Uint64

	mu            sync.Mutex
	sessionID     string
	lastSample    *model.Sample
	lastSpeedtest time.Time
}

// NewHandler returns a status handler for the given probe target. Samples
// count as recent for spec.RecentWindow after they are observed.
func NewHandler(target string) *Handler {
	cache := ttlcache.New(
		ttlcache.WithTTL[uint64, model.Sample](spec.RecentWindow),
		ttlcache.WithDisableTouchOnHit[uint64, model.Sample](),
	)
	go cache.Start()
	return &Handler{
		target: target,
		recent: cache,
	}
}

// ObserveSession records the ID of the probe session that just started.
func (h *Handler) ObserveSession(mid string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessionID = mid
}

// ObserveSample records one parsed sample.
func (h *Handler) ObserveSample(s model.Sample) {
	h.recent.Set(h.seq.Add(1), s, ttlcache.DefaultTTL)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastSample = &s
}

// ObserveSpeedtest records a successfully saved speedtest result.
func (h *Handler) ObserveSpeedtest(json.RawMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastSpeedtest = time.Now()
}

// ServeHTTP writes the current Report as JSON.
func (h *Handler) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	h.mu.Lock()
	report := Report{
		Version:       version.Version,
		Target:        h.target,
		SessionID:     h.sessionID,
		LastSample:    h.lastSample,
		RecentSamples: h.recent.Len(),
	}
	if !h.lastSpeedtest.IsZero() {
		t := h.lastSpeedtest
		report.LastSpeedtest = &t
	}
	h.mu.Unlock()

	rw.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(rw).Encode(report); err != nil {
		log.Error("Cannot write status report", "error", err)
	}
}
