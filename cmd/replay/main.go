// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

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

	log.Println("starting motion-playback MQTT replay")

	if err := config.InitGlobal(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunReplay(flag.Arg(0)); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
