// Command aqualed drives two dimmable aquarium lamps from a 24-hour
// schedule with manual override, persisted settings and a web API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mwoudenberg/aqualed/internal/clock"
	"github.com/mwoudenberg/aqualed/internal/logbuf"
	"github.com/mwoudenberg/aqualed/internal/logic"
	"github.com/mwoudenberg/aqualed/internal/mqtt"
	"github.com/mwoudenberg/aqualed/internal/pwm"
	"github.com/mwoudenberg/aqualed/internal/schedule"
	"github.com/mwoudenberg/aqualed/internal/status"
	"github.com/mwoudenberg/aqualed/internal/store"
	"github.com/mwoudenberg/aqualed/internal/web"
)

// restartExitCode asks the process supervisor to restart the daemon.
// systemd unit: RestartForceExitStatus=3.
const restartExitCode = 3

func main() {
	tick := flag.Duration("tick", time.Second, "Clock tick interval")
	resync := flag.Duration("resync", 10*time.Minute, "NTP resync interval (0 to disable)")
	heartbeat := flag.Duration("heartbeat", time.Minute, "MQTT heartbeat interval (0 to disable)")
	ntpHost := flag.String("ntp", "pool.ntp.org", "NTP server")
	broker := flag.String("broker", "tcp://192.168.1.200:1883", `MQTT broker address ("off" disables MQTT)`)
	httpAddr := flag.String("http", ":80", "HTTP listen address (empty to disable)")
	storePath := flag.String("store", "/var/lib/aqualed/settings.bin", "Settings file path")
	webroot := flag.String("webroot", "", "Directory with UI files (empty serves the built-in page)")
	pinA := flag.Int("pin-a", pwm.DefaultPinA, "BCM pin number for lamp A")
	pinB := flag.Int("pin-b", pwm.DefaultPinB, "BCM pin number for lamp B")
	logBudget := flag.Int("log-budget", logbuf.DefaultBudget, "Debug log byte budget")
	printLevels := flag.Bool("print-levels", false, "Print currently resolved levels and exit")

	flag.Parse()

	code, err := run(*tick, *resync, *heartbeat, *ntpHost, *broker, *httpAddr, *storePath, *webroot,
		*pinA, *pinB, *logBudget, *printLevels)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	os.Exit(code)
}

func run(tick, resync, heartbeat time.Duration, ntpHost, broker, httpAddr, storePath, webroot string,
	pinA, pinB, logBudget int, printLevels bool) (int, error) {

	// Settings storage; a failed load means we don't know what the lamps
	// should do, so startup stops here.
	st, err := store.Open(storePath)
	if err != nil {
		return 0, fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	ctrl, err := schedule.NewController(st)
	if err != nil {
		return 0, fmt.Errorf("init schedule: %w", err)
	}

	// The clock starts from the host's idea of UTC and is corrected by
	// NTP later; between syncs it advances purely on ticks.
	clk := clock.New(clock.CentralEuropean, clock.CentralEuropean.ToLocal(time.Now().UTC()))

	// Print levels mode
	if printLevels {
		table, ov := ctrl.Snapshot()
		levels := logic.Resolve(clk.Hour(), table, ov)
		fmt.Printf("A: %d%%, B: %d%%\n", levels.A, levels.B)
		return 0, nil
	}

	logs := logbuf.New(logBudget, clk.Now)
	logs.Printf("Starting aqualed...")

	// Initialize outputs
	out, err := pwm.NewRealOutput(pinA, pinB)
	if err != nil {
		return 0, fmt.Errorf("init pwm: %w", err)
	}
	defer out.Close()

	// Initialize MQTT
	var publisher mqtt.Publisher
	var mqttStatus mqtt.ConnectionStatus
	if broker != "off" {
		real := mqtt.NewRealPublisher(broker)
		defer real.Close()
		publisher = real
		mqttStatus = real
	}

	tracker := status.NewTracker(time.Now(), status.Config{
		TickMs:    tick.Milliseconds(),
		ResyncMs:  resync.Milliseconds(),
		Broker:    broker,
		HTTPAddr:  httpAddr,
		StorePath: storePath,
		NTPHost:   ntpHost,
	})

	// One sync attempt up front so the schedule starts on NTP time when
	// the network is there; failure just means drift-only until resync.
	src := clock.NewNTPSource(ntpHost)
	if utc, err := src.UTC(); err != nil {
		logs.Printf("initial ntp sync failed: %v", err)
	} else {
		clk.Sync(utc)
		tracker.SetSynced(true)
		logs.Printf("time synced, local time %s", clk.Now().Format("15:04:05"))
	}

	restartCh := make(chan struct{}, 1)
	requestRestart := func() {
		select {
		case restartCh <- struct{}{}:
		default:
		}
	}

	// Start HTTP server
	if httpAddr != "" {
		srv := web.New(httpAddr, ctrl, logs, tracker, requestRestart, webroot)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		logs.Printf("HTTP server started on %s", httpAddr)
	}

	if publisher != nil {
		startup := mqtt.SystemEvent{Timestamp: time.Now(), Event: "STARTUP", Retained: true}
		if err := publisher.PublishSystem(startup); err != nil {
			log.Printf("failed to publish startup event: %v", err)
		}
	}

	log.Printf("started: tick=%v resync=%v broker=%s store=%s", tick, resync, broker, storePath)

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	var resyncC <-chan time.Time
	if resync > 0 {
		resyncTicker := time.NewTicker(resync)
		defer resyncTicker.Stop()
		resyncC = resyncTicker.C
	}

	var heartbeatC <-chan time.Time
	if heartbeat > 0 && publisher != nil {
		heartbeatTicker := time.NewTicker(heartbeat)
		defer heartbeatTicker.Stop()
		heartbeatC = heartbeatTicker.C
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(clk, ctrl, out, publisher, mqttStatus, src, tracker, logs,
		ticker.C, resyncC, heartbeatC, sigCh, restartCh)
}

func runLoop(clk *clock.Clock, ctrl *schedule.Controller, out pwm.Output,
	publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, src clock.TimeSource,
	tracker *status.Tracker, logs *logbuf.Buffer,
	tick, resyncC, heartbeatC <-chan time.Time, sig <-chan os.Signal, restart <-chan struct{}) (int, error) {

	var applied logic.Levels // lamps start dark; write only on change

	for {
		select {
		case s := <-sig:
			logs.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			publishShutdown(publisher, signalName)
			return 0, nil

		case <-restart:
			logs.Printf("restart requested")
			publishShutdown(publisher, "RESET")
			return restartExitCode, nil

		case <-resyncC:
			utc, err := src.UTC()
			if err != nil {
				// Keep running on tick-accumulated time.
				logs.Printf("ntp sync failed: %v", err)
				continue
			}
			clk.Sync(utc)
			if tracker != nil {
				tracker.SetSynced(true)
			}
			logs.Printf("time synced, local time %s", clk.Now().Format("15:04:05"))

		case <-heartbeatC:
			if publisher != nil {
				event := mqtt.SystemEvent{Timestamp: time.Now(), Event: "HEARTBEAT"}
				if err := publisher.PublishSystem(event); err != nil {
					logs.Printf("heartbeat publish failed: %v", err)
				}
			}

		case <-tick:
			clk.Tick()

			table, ov := ctrl.Snapshot()
			levels := logic.Resolve(clk.Hour(), table, ov)

			source := status.SourceSchedule
			if ov.Active {
				source = status.SourceOverride
			}

			if levels != applied {
				if err := out.Set(levels.A, levels.B); err != nil {
					// Leave applied unchanged so the write is retried
					// on the next tick.
					logs.Printf("pwm write error: %v", err)
				} else {
					logs.Printf("lamps A=%d%% B=%d%% (%s)", levels.A, levels.B, source)
					applied = levels
					if publisher != nil {
						event := mqtt.LevelEvent{
							Timestamp: clk.Now(),
							A:         levels.A,
							B:         levels.B,
							Source:    string(source),
						}
						if err := publisher.PublishLevels(event); err != nil {
							logs.Printf("mqtt publish failed: %v", err)
						}
					}
				}
			}

			if tracker != nil {
				tracker.Update(applied, source, clk.Now())
				tracker.SetLogLines(logs.Len())
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}
		}
	}
}

func publishShutdown(publisher mqtt.Publisher, reason string) {
	if publisher == nil {
		return
	}
	event := mqtt.SystemEvent{
		Timestamp: time.Now(),
		Event:     "SHUTDOWN",
		Reason:    reason,
		Retained:  true,
	}
	if err := publisher.PublishSystem(event); err != nil {
		log.Printf("failed to publish shutdown event: %v", err)
	} else {
		log.Printf("published shutdown event")
	}
}
