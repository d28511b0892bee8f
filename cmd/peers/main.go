package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mlsorensen/goclock"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	log.Info().Msg("Listing devices bonded with the local adapter")

	if err := goclock.TryEnableAdapter(); err != nil {
		log.Fatal().Err(err).Msg("Bluetooth adapter unavailable")
	}

	peers, err := goclock.BondedPeers()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not list bonded devices")
	}

	if len(peers) == 0 {
		log.Info().Msg("No bonded devices. Pair the clock first, e.g. with bluetoothctl.")
		return
	}

	fmt.Println("--- Bonded Devices ---")
	for i, p := range peers {
		marker := ""
		if strings.EqualFold(p.Address, goclock.PeerAddress) {
			marker = "  <- clock"
		}
		fmt.Printf("%d: Name: %s%s\n", i+1, p.Name, marker)
		fmt.Printf("   Address: %s\n\n", p.Address)
	}
	fmt.Println("----------------------")
}
