package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mlsorensen/goclock"
	"github.com/mlsorensen/goclock/internal/config"
	"github.com/mlsorensen/goclock/pkg/clock"

	// Registers the "rfcomm" and "mock" transports.
	_ "github.com/mlsorensen/goclock/pkg/transports/all"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to configuration file (YAML or TOML)")
	flag.StringVar(&configPath, "c", "", "Path to configuration file (shorthand)")
	transport := flag.String("transport", "", "Override session.transport ("+strings.Join(goclock.Transports(), ", ")+")")
	execLine := flag.String("e", "", "Run commands separated by ';' and exit")
	flag.Parse()

	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
	}
	if *transport != "" {
		cfg.Session.Transport = *transport
	}

	setupLogging(cfg.Log.Level, cfg.Log.JSON, cfg.Log.Colors)

	peer, err := cfg.BuildPeer()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid peer")
	}
	if cfg.Session.Transport == "rfcomm" {
		peer = goclock.ResolveName(peer)
	}

	dialer, err := goclock.NewDialer(cfg.Session.Transport, cfg.DialOptions())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create transport")
	}

	notify := func(text string) { fmt.Fprintln(os.Stdout, "»", text) }
	session := goclock.NewSession(goclock.SessionConfig{
		Peer:            peer,
		Dialer:          dialer,
		Notify:          notify,
		ConnectAttempts: cfg.Session.ConnectAttempts,
	})
	ctl := &controller{
		clock: clock.New(session, notify, cfg.Session.ReadBuffer),
		out:   os.Stdout,
	}

	log.Info().Str("peer", peer.Address).Str("transport", cfg.Session.Transport).Msg("Starting clockctl")

	// Connect right away, like the handheld does when it is switched on.
	ctl.clock.Connect()

	go func() {
		sigchan := make(chan os.Signal, 1)
		signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
		<-sigchan
		log.Info().Msg("Shutdown signal received. Disconnecting...")
		ctl.shutdown()
		os.Exit(0)
	}()

	if *execLine != "" {
		code := 0
		for _, line := range strings.Split(*execLine, ";") {
			if err := ctl.run(line); err != nil {
				if errors.Is(err, errQuit) {
					break
				}
				log.Error().Err(err).Str("cmd", strings.TrimSpace(line)).Msg("Command failed")
				code = 1
			}
		}
		ctl.shutdown()
		os.Exit(code)
	}

	runREPL(ctl, NewLineEditor())
	ctl.shutdown()
}

// runREPL reads and runs commands until quit or end of input.
func runREPL(ctl *controller, editor *LineEditor) {
	defer editor.Close()
	fmt.Fprintln(ctl.out, "Type 'help' for commands.")
	for {
		line, err := editor.GetLine("clock> ")
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Error().Err(err).Msg("Input error")
			}
			return
		}
		if err := ctl.run(line); err != nil {
			if errors.Is(err, errQuit) {
				return
			}
			fmt.Fprintln(ctl.out, "error:", err)
		}
	}
}

func setupLogging(level string, useJSON bool, colors bool) {
	zerolog.TimeFieldFormat = time.RFC3339

	if useJSON {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "15:04:05.000",
			NoColor:    !colors,
		})
	}

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
