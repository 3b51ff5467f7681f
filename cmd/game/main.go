package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/pohlkotter/multiselect/internal/game"
	"github.com/pohlkotter/multiselect/internal/scenario"
	"github.com/pohlkotter/multiselect/internal/sim"
)

func main() {
	var scenarioName string
	var seed int64
	flag.StringVar(&scenarioName, "scenario", "", "built-in scenario name or path to a YAML file")
	flag.Int64Var(&seed, "seed", 42, "RNG seed")
	flag.Parse()

	sc, err := scenario.Load(scenarioName)
	if err != nil {
		log.Fatal(err)
	}
	s, err := sim.New(sc.Config(seed))
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowTitle("Multilevel Selection")
	ebiten.SetWindowSize(1280, 800)
	if err := ebiten.RunGame(game.New(s)); err != nil {
		log.Fatal(err)
	}
}
