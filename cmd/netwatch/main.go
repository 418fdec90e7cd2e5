// netwatch supervises a continuous ping probe toward a fixed target,
// persisting every reading, and periodically measures broadband throughput
// with the speedtest tool.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/m-lab/go/prometheusx"
	"github.com/m-lab/go/rtx"
	"github.com/netwatch/netwatch/internal/live"
	"github.com/netwatch/netwatch/internal/persistence"
	"github.com/netwatch/netwatch/internal/pinger"
	"github.com/netwatch/netwatch/internal/speedtest"
	"github.com/netwatch/netwatch/internal/status"
	"github.com/netwatch/netwatch/pkg/spec"
	"github.com/netwatch/netwatch/pkg/version"
)

var (
	flagTarget = flag.String("ping.target", spec.DefaultTarget,
		"Address the ping probe measures against")
	flagSampleLog = flag.String("ping.log", spec.DefaultSampleLog,
		"File to append ping samples to")
	flagSpeedtestFile = flag.String("speedtest.file", spec.DefaultSpeedtestFile,
		"File holding the speedtest results array")
	flagStatusAddr = flag.String("status_addr", ":8080",
		"Listen address for the status and live endpoints")
)

func main() {
	flag.Parse()

	// Initialize logging and metrics.
	log.SetReportCaller(true)
	log.SetReportTimestamp(true)
	log.SetLevel(log.InfoLevel)
	log.Info("Starting netwatch", "version", version.Version,
		"target", *flagTarget)

	promSrv := prometheusx.MustServeMetrics()
	defer promSrv.Close()

	sampleLog, err := persistence.OpenSampleLog(*flagSampleLog)
	rtx.Must(err, "cannot open sample log")
	defer sampleLog.Close()

	statusHandler := status.NewHandler(*flagTarget)
	broadcaster := live.NewBroadcaster()
	defer broadcaster.Close()

	mux := http.NewServeMux()
	mux.Handle(spec.StatusPath, statusHandler)
	mux.Handle(spec.LivePath, broadcaster)
	statusServer := &http.Server{
		Addr:        *flagStatusAddr,
		Handler:     mux,
		ReadTimeout: time.Minute,
	}
	log.Info("About to listen for status requests", "endpoint", *flagStatusAddr)
	go func() {
		// The status server is a supporting surface: its failure is
		// logged but does not stop the probes.
		if err := statusServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Error("Status server failed", "error", err)
		}
	}()
	defer statusServer.Close()

	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// The speedtest runner is fully decoupled from the ping path: its
	// failures end only its own task.
	runner := speedtest.NewRunner(*flagSpeedtestFile)
	runner.OnResult = statusHandler.ObserveSpeedtest
	go func() {
		if err := runner.Run(ctx); err != nil {
			log.Error("Speedtest runner stopped", "error", err)
		}
	}()

	p := pinger.New(pinger.Config{
		Target:  *flagTarget,
		Timeout: spec.PingTimeout,
	}, sampleLog, statusHandler, broadcaster)
	rtx.Must(p.Run(ctx), "ping supervisor failed")
}
