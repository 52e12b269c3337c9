package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/relabs-tech/motion_playback/internal/app"
	"github.com/relabs-tech/motion_playback/internal/config"
)

func main() {
	configPath := flag.String("config", "", "optional KEY=VALUE config file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-config file] <data file (.csv, .xlsx or .sto)>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunInfo(flag.Arg(0)); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
