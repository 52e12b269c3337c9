// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package loader turns recorded sensor files into validated datasets.
// Each supported file format is an independent FormatLoader; playback
// code never sees format details.
package loader

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/relabs-tech/motion_playback/internal/dataset"
)

// ErrUnsupportedFormat reports a file extension with no registered loader.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// FormatLoader reads one file format into a dataset. Implementations
// report dataset.ErrNoSensors when no sensor column is discovered and
// dataset.ErrInconsistentFrameCount when sensors disagree on length.
type FormatLoader interface {
	Load(path string) (*dataset.Dataset, error)
}

// ForPath selects a loader by file extension.
func ForPath(path string) (FormatLoader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return CSVLoader{}, nil
	case ".xlsx":
		return XLSXLoader{}, nil
	case ".sto":
		return STOLoader{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load is the one-call entry point: pick a loader, read the file, and
// run the cross-sensor validation.
func Load(path string) (*dataset.Dataset, error) {
	l, err := ForPath(path)
	if err != nil {
		return nil, err
	}
	return l.Load(path)
}

// finish wraps timeline assembly shared by every loader: duplicate-name
// rejection and the common frame-count invariant, with the file named in
// any failure.
func finish(path string, timelines []dataset.Timeline) (*dataset.Dataset, error) {
	ds, err := dataset.New(timelines)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}
