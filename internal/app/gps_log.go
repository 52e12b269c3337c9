package app

import (
	"bufio"
	"encoding/csv"
	"log"
	"os"
	"strings"

	nmea "github.com/adrianmo/go-nmea"
	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/motion_playback/internal/config"
	"github.com/relabs-tech/motion_playback/internal/gps"
)

// runGPSLog reads NMEA sentences from the configured GPS port and appends
// RMC fixes to the sidecar CSV. It runs for the lifetime of the capture;
// each fix is flushed as it arrives so an interrupt loses nothing.
func runGPSLog(cfg *config.Config) {
	serialOpts := serial.OpenOptions{
		PortName:              cfg.GPSSerialPort,
		BaudRate:              uint(cfg.GPSBaudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(serialOpts)
	if err != nil {
		log.Printf("gps: open %s: %v", cfg.GPSSerialPort, err)
		return
	}
	defer port.Close()
	log.Printf("gps: logging fixes from %s to %s", cfg.GPSSerialPort, cfg.GPSOutputCSV)

	out, err := os.Create(cfg.GPSOutputCSV)
	if err != nil {
		log.Printf("gps: create %s: %v", cfg.GPSOutputCSV, err)
		return
	}
	defer out.Close()

	cw := csv.NewWriter(out)
	if err := cw.Write(gps.CSVHeader()); err != nil {
		log.Printf("gps: write header: %v", err)
		return
	}
	cw.Flush()

	reader := bufio.NewReader(port)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			log.Printf("gps: read error: %v", err)
			return
		}

		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "$") {
			continue
		}

		sentence, err := nmea.Parse(line)
		if err != nil {
			// noisy receivers emit partial sentences; ignore them
			continue
		}
		if sentence.DataType() != nmea.TypeRMC {
			continue
		}
		m := sentence.(nmea.RMC)

		fix := gps.Fix{
			Time:       m.Time.String(),
			Date:       m.Date.String(),
			Latitude:   m.Latitude,
			Longitude:  m.Longitude,
			SpeedKnots: m.Speed,
			CourseDeg:  m.Course,
			Validity:   string(m.Validity),
		}
		if err := cw.Write(fix.CSVRecord()); err != nil {
			log.Printf("gps: write fix: %v", err)
			return
		}
		cw.Flush()
	}
}
