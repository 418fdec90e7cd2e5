// Package speedtest periodically measures broadband throughput by running
// the external speedtest tool and appending each result to a JSON results
// file.
package speedtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"github.com/charmbracelet/log"
	"github.com/m-lab/go/memoryless"
	"github.com/netwatch/netwatch/internal/metrics"
	"github.com/netwatch/netwatch/internal/persistence"
	"github.com/netwatch/netwatch/pkg/spec"
)

// Runner invokes the speedtest tool on a fixed interval and records its
// results.
type Runner struct {
	// Command and Args specify the speedtest command line. The command
	// must print one JSON value on stdout and exit with status 0.
	Command string
	Args    []string

	// File is the path of the results file. It holds a single JSON array
	// with one element per successful run.
	File string

	// Interval is the time between runs.
	Interval time.Duration

	// OnResult, when set, is called after each successfully saved result.
	OnResult func(result json.RawMessage)

	err error
}

// NewRunner returns a Runner with the default speedtest command line and
// interval, saving results to file.
func NewRunner(file string) *Runner {
	return &Runner{
		Command:  "speedtest",
		Args:     []string{"--json"},
		File:     file,
		Interval: spec.SpeedtestInterval,
	}
}

// Run ticks until the context is canceled or a tick fails fatally. A
// non-zero exit status of the speedtest tool only skips that tick;
// unparseable output and results-file corruption are fatal, since
// continuing would either record nothing or risk the file's history.
func (r *Runner) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	runErr := memoryless.Run(ctx, func() {
		if err := r.Tick(ctx); err != nil {
			if r.err == nil {
				r.err = err
			}
			cancel()
		}
	}, memoryless.Config{
		// Min = Expected = Max makes the ticker fire at a fixed
		// interval.
		Min:      r.Interval,
		Expected: r.Interval,
		Max:      r.Interval,
	})
	if r.err != nil {
		return r.err
	}
	return runErr
}

// Tick runs the speedtest tool once and appends its output to the results
// file. The returned error is nil both on success and when the tool itself
// fails, because a failed run is logged and skipped rather than retried.
func (r *Runner) Tick(ctx context.Context) error {
	log.Info("Running speedtest", "command", r.Command)
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.Command, r.Args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		metrics.SpeedtestTicks.WithLabelValues("exec_error").Inc()
		log.Error("Speedtest failed", "error", err, "stderr", stderr.String())
		return nil
	}

	var result json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(out), &result); err != nil {
		return fmt.Errorf("cannot parse speedtest output: %w", err)
	}
	if err := persistence.AppendResult(r.File, result); err != nil {
		return err
	}
	metrics.SpeedtestTicks.WithLabelValues("ok").Inc()
	log.Info("Speedtest result saved", "file", r.File)

	if r.OnResult != nil {
		r.OnResult(result)
	}
	return nil
}
