package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Striker-Sense/internal/config"
	"github.com/Garsondee/Striker-Sense/internal/logging"
	"github.com/Garsondee/Striker-Sense/internal/viewer"
)

func main() {
	scenario := flag.String("scenario", "kickoff", "scenario to play")
	seed := flag.Int64("seed", 42, "RNG seed for tackle outcomes")
	configDir := flag.String("config-dir", ".", "directory searched for "+config.ConfigName+".{json,yaml,toml}")
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.New(logging.Options{Level: cfg.LogLevel, Console: true, Writer: os.Stderr})

	g, err := viewer.New(viewer.Options{Scenario: *scenario, Seed: *seed, Config: cfg, Logger: logger})
	if err != nil {
		log.Fatal(err)
	}
	ebiten.SetWindowTitle("Striker Sense")
	ebiten.SetWindowSize(g.Size())
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
