// Package pinger supervises the external ping probe. It owns one probe
// process at a time, parses its output into samples and restarts the whole
// probe whenever the output stalls or ends.
package pinger

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/netwatch/netwatch/internal/metrics"
	"github.com/netwatch/netwatch/internal/parser"
	"github.com/netwatch/netwatch/pkg/ping/model"
	"github.com/netwatch/netwatch/pkg/spec"
)

// Outcome is the terminal state of a probe session.
type Outcome string

const (
	// OutcomeEOF means the probe closed its output stream.
	OutcomeEOF = Outcome("eof")

	// OutcomeStall means no output line arrived within the timeout.
	OutcomeStall = Outcome("stall")

	// OutcomeCanceled means the session's context was canceled.
	OutcomeCanceled = Outcome("canceled")
)

// Sink receives every parsed sample. Append errors end the session.
type Sink interface {
	Append(model.Sample) error
}

// Observer is notified of session starts and parsed samples. Delivery is
// best-effort: observers cannot fail a session.
type Observer interface {
	ObserveSession(mid string)
	ObserveSample(model.Sample)
}

// Config configures a Pinger.
type Config struct {
	// Target is the address the probe measures against.
	Target string

	// Timeout is the maximum time to wait for one output line before the
	// session is considered stalled. Defaults to spec.PingTimeout.
	Timeout time.Duration

	// Command and Args override the probe command line. When Command is
	// empty, the system ping binary is invoked with timestamped
	// continuous output toward Target.
	Command string
	Args    []string
}

// Pinger runs probe sessions against a fixed target.
type Pinger struct {
	config    Config
	sink      Sink
	observers []Observer
}

// New returns a Pinger that appends parsed samples to sink and notifies the
// given observers.
func New(config Config, sink Sink, observers ...Observer) *Pinger {
	if config.Command == "" {
		config.Command = "ping"
		config.Args = []string{"-D", config.Target}
	}
	if config.Timeout == 0 {
		config.Timeout = spec.PingTimeout
	}
	return &Pinger{
		config:    config,
		sink:      sink,
		observers: observers,
	}
}

// Run restarts probe sessions forever. Session-level outcomes (EOF, stall)
// trigger an immediate restart: both already rate-limit naturally, so there
// is no backoff. Environment-level failures (spawn, sink I/O) are returned
// to the caller instead of being retried over a broken environment.
func (p *Pinger) Run(ctx context.Context) error {
	for {
		outcome, err := p.RunSession(ctx)
		if err != nil {
			return err
		}
		metrics.Sessions.WithLabelValues(string(outcome)).Inc()
		switch outcome {
		case OutcomeCanceled:
			return nil
		case OutcomeStall:
			log.Info("Restarting stalled probe", "target", p.config.Target)
		case OutcomeEOF:
			log.Info("Restarting probe after end of output", "target", p.config.Target)
		}
	}
}

// RunSession runs exactly one probe process lifecycle: spawn, read lines
// under the timeout, parse and persist samples, and tear the process down.
// The probe process is always terminated and reaped before RunSession
// returns.
func (p *Pinger) RunSession(ctx context.Context) (Outcome, error) {
	mid := uuid.NewString()

	// The probe writes to an explicit pipe rather than a StdoutPipe: the
	// watcher below calls Wait concurrently with the reader, and Wait
	// closes StdoutPipe's read end, which could drop buffered lines.
	// With an os.Pipe the reader always drains the stream to EOF.
	stdout, pw, err := os.Pipe()
	if err != nil {
		return "", fmt.Errorf("cannot capture probe output: %w", err)
	}
	cmd := exec.Command(p.config.Command, p.config.Args...)
	cmd.Stdout = pw
	if err := cmd.Start(); err != nil {
		pw.Close()
		stdout.Close()
		return "", fmt.Errorf("cannot start probe: %w", err)
	}
	// The child holds its own copy of the write end.
	pw.Close()
	log.Info("Probe started", "mid", mid, "command", p.config.Command,
		"pid", cmd.Process.Pid)
	for _, o := range p.observers {
		o.ObserveSession(mid)
	}

	// The watcher owns the child process: it reaps it when it exits on its
	// own and kills it when the session ends first. The session is not
	// over until the watcher has confirmed the process is gone.
	stop := make(chan struct{})
	watcherDone := make(chan struct{})
	go func() {
		defer close(watcherDone)
		waitc := make(chan error, 1)
		go func() { waitc <- cmd.Wait() }()
		select {
		case err := <-waitc:
			log.Debug("Probe exited", "mid", mid, "error", err)
		case <-stop:
			if err := cmd.Process.Kill(); err != nil {
				log.Error("Cannot kill probe", "mid", mid, "error", err)
			}
			<-waitc
		}
	}()

	lines := make(chan string)
	readerQuit := make(chan struct{})
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-readerQuit:
				return
			}
		}
	}()

	teardown := func() {
		close(stop)
		<-watcherDone
		close(readerQuit)
		stdout.Close()
	}

	for {
		select {
		case line, ok := <-lines:
			if !ok {
				log.Info("Probe closed its output", "mid", mid)
				teardown()
				return OutcomeEOF, nil
			}
			log.Debug("Line received", "mid", mid, "line", line)
			sample, err := parser.Parse(line)
			if err != nil {
				metrics.ParseErrors.Inc()
				log.Warn("Cannot parse probe output", "mid", mid,
					"line", line, "error", err)
				continue
			}
			if err := p.sink.Append(sample); err != nil {
				teardown()
				return "", fmt.Errorf("cannot append sample: %w", err)
			}
			metrics.Samples.Inc()
			for _, o := range p.observers {
				o.ObserveSample(sample)
			}
		case <-time.After(p.config.Timeout):
			log.Info("No probe output within the timeout", "mid", mid,
				"timeout", p.config.Timeout)
			teardown()
			return OutcomeStall, nil
		case <-ctx.Done():
			teardown()
			return OutcomeCanceled, nil
		}
	}
}
