package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/motion_playback/internal/app"
	"github.com/relabs-tech/motion_playback/internal/config"
)

func main() {
	configPath := flag.String("config", "", "optional KEY=VALUE config file")
	flag.Parse()

	log.Println("starting motion-playback serial recorder")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunRecord(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
