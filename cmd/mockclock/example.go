package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mlsorensen/goclock"
	"github.com/mlsorensen/goclock/pkg/clock"
	"github.com/mlsorensen/goclock/pkg/clock/comms"

	// Registers the "mock" transport with goclock.
	_ "github.com/mlsorensen/goclock/pkg/transports/mock"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	log.Info().Msg("GoClock mock run starting")

	// The mock ignores the peer, but the session still wants one for its messages.
	peer := goclock.DefaultPeer()
	peer.Name = "MOCK-Development-Clock"

	dialer, err := goclock.NewDialer("mock", goclock.DialOptions{})
	if err != nil {
		log.Fatal().Err(err).Msg("Could not create mock transport")
	}
	notify := func(text string) { log.Info().Str("notice", text).Msg("clock") }
	session := goclock.NewSession(goclock.SessionConfig{Peer: peer, Dialer: dialer, Notify: notify})
	myClock := clock.New(session, notify, comms.DefaultReadBuffer)

	if res := myClock.Connect(); !res.OK() {
		log.Fatal().Err(res.Err).Msg("Could not connect to clock")
	}

	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)

	// Walk the clock through every button, then cycle the color until interrupted.
	steps := []struct {
		name string
		fn   func() error
	}{
		{"set time", myClock.SetTimeNow},
		{"set date", myClock.SetDateNow},
		{"temperature", myClock.QueryTemperature},
		{"humidity", myClock.QueryHumidity},
		{"wake 06:45", func() error { return myClock.SetWakeTime(6, 45) }},
		{"sleep 23:15", func() error { return myClock.SetSleepTime(23, 15) }},
		{"wake after sleep", func() error { return myClock.SetWakeTime(23, 30) }},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			log.Warn().Err(err).Str("step", step.name).Msg("step failed")
		}
	}

	sched, err := myClock.QuerySchedule()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not read schedule")
	}
	log.Info().Str("schedule", sched.String()).Msg("schedule")

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	hue := uint8(0)
	for {
		select {
		case sig := <-sigchan:
			log.Info().Str("signal", sig.String()).Msg("Shutdown signal received. Disconnecting...")
			if err := myClock.Disconnect(); err != nil {
				log.Error().Err(err).Msg("disconnect failed")
			}
			return
		case <-ticker.C:
			hue += 37
			if err := myClock.SetColor(comms.ColorState{Red: hue, Green: 255 - hue, Blue: hue / 2}); err != nil {
				log.Error().Err(err).Msg("set color failed")
				continue
			}
			color, err := myClock.QueryColor()
			if err != nil {
				log.Error().Err(err).Msg("query color failed")
				continue
			}
			log.Info().Str("color", color.String()).Str("hex", color.Hex()).Msg("color")
		}
	}
}
