// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package app

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/motion_playback/internal/config"
	"github.com/relabs-tech/motion_playback/internal/quat"
)

// recording buffers samples per sensor until the capture is flushed.
// Discovery order is the order sensors first appear on the wire, the same
// convention the loaders use for files.
type recording struct {
	order  []string
	frames map[string][]quat.Quaternion
}

func newRecording() *recording {
	return &recording{frames: make(map[string][]quat.Quaternion)}
}

func (r *recording) add(name string, q quat.Quaternion) {
	if _, known := r.frames[name]; !known {
		r.order = append(r.order, name)
	}
	r.frames[name] = append(r.frames[name], q)
}

// frameCount is the number of complete frames: sensors can be mid-frame
// when capture stops, so the shortest timeline wins.
func (r *recording) frameCount() int {
	n := -1
	for _, fs := range r.frames {
		if n < 0 || len(fs) < n {
			n = len(fs)
		}
	}
	if n < 0 {
		return 0
	}
	return n
}

// writeCSV emits the capture in the Quat1_<name> tabular convention, so
// the written file loads straight back through the tabular loader.
func (r *recording) writeCSV(w io.Writer) error {
	if len(r.order) == 0 {
		return fmt.Errorf("no samples captured")
	}

	cw := csv.NewWriter(w)

	header := make([]string, 0, 4*len(r.order))
	for _, name := range r.order {
		for c := 1; c <= 4; c++ {
			header = append(header, fmt.Sprintf("Quat%d_%s", c, name))
		}
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	n := r.frameCount()
	row := make([]string, 0, len(header))
	for f := 0; f < n; f++ {
		row = row[:0]
		for _, name := range r.order {
			q := r.frames[name][f]
			for _, v := range []float64{q.W, q.X, q.Y, q.Z} {
				row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// parseSampleLine reads one wire line: "<sensor>,<w>,<x>,<y>,<z>".
func parseSampleLine(line string) (string, quat.Quaternion, error) {
	name, rest, ok := strings.Cut(strings.TrimSpace(line), ",")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", quat.Quaternion{}, fmt.Errorf("%w: line %q", quat.ErrMalformed, line)
	}
	q, err := quat.Parse(rest)
	if err != nil {
		return "", quat.Quaternion{}, err
	}
	return name, q, nil
}

// RunRecord captures quaternion samples from a serial port until
// interrupted, then writes them as a tabular CSV. When a GPS port is
// configured, NMEA fixes are logged to a sidecar CSV alongside.
func RunRecord() error {
	cfg := config.Get()

	serialOpts := serial.OpenOptions{
		PortName:              cfg.SerialPort,
		BaudRate:              uint(cfg.SerialBaud),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(serialOpts)
	if err != nil {
		return fmt.Errorf("open serial port %s: %w", cfg.SerialPort, err)
	}
	defer port.Close()
	log.Printf("record: capturing from %s at %d baud, Ctrl-C to stop", cfg.SerialPort, cfg.SerialBaud)

	if cfg.GPSSerialPort != "" {
		go runGPSLog(cfg)
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		reader := bufio.NewReader(port)
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				log.Printf("record: serial read: %v", err)
				return
			}
			lines <- line
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	rec := newRecording()
	samples := 0
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				return flushRecording(rec, cfg.OutputCSV)
			}
			line = strings.TrimSpace(line)
			// GPS receivers on a shared bus leak NMEA sentences; skip them.
			if line == "" || strings.HasPrefix(line, "$") {
				continue
			}
			name, q, err := parseSampleLine(line)
			if err != nil {
				log.Printf("record: skipping %q: %v", line, err)
				continue
			}
			rec.add(name, q)
			samples++
			if samples%500 == 0 {
				log.Printf("record: %d samples from %d sensors", samples, len(rec.order))
			}
		case <-sig:
			log.Println("record: interrupt, flushing")
			return flushRecording(rec, cfg.OutputCSV)
		}
	}
}

func flushRecording(rec *recording, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := rec.writeCSV(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Printf("record: wrote %d frames for %d sensors to %s", rec.frameCount(), len(rec.order), path)
	return nil
}
