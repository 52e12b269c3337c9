package dataset

import (
	"errors"
	"fmt"

	"github.com/relabs-tech/motion_playback/internal/quat"
)

var (
	// ErrNoSensors reports a source with no recognizable sensor columns.
	ErrNoSensors = errors.New("no sensors found")
	// ErrInconsistentFrameCount reports sensors disagreeing on sequence length.
	ErrInconsistentFrameCount = errors.New("inconsistent frame count")
	// ErrDuplicateSensor reports two timelines sharing one sensor name.
	ErrDuplicateSensor = errors.New("duplicate sensor name")
)

// Timeline is the ordered quaternion sequence for one sensor, one sample
// per frame. Insertion order is temporal order.
type Timeline struct {
	Name   string
	Frames []quat.Quaternion
}

// Dataset holds one timeline per sensor in the order sensors were
// discovered in the source file. It is loaded once and not mutated
// afterwards.
type Dataset struct {
	Timelines []Timeline
}

// New builds a dataset and rejects duplicate sensor names up front.
func New(timelines []Timeline) (*Dataset, error) {
	seen := make(map[string]struct{}, len(timelines))
	for _, tl := range timelines {
		if _, dup := seen[tl.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSensor, tl.Name)
		}
		seen[tl.Name] = struct{}{}
	}
	return &Dataset{Timelines: timelines}, nil
}

// Validate checks the cross-sensor invariants: at least one sensor, and
// one common non-zero frame count shared by every timeline. Call it once
// right after loading.
func (d *Dataset) Validate() error {
	if len(d.Timelines) == 0 {
		return ErrNoSensors
	}

	lengths := make(map[int]struct{}, 1)
	for _, tl := range d.Timelines {
		lengths[len(tl.Frames)] = struct{}{}
	}
	if len(lengths) != 1 {
		return fmt.Errorf("%w: lengths %v", ErrInconsistentFrameCount, d.lengthsByName())
	}
	if len(d.Timelines[0].Frames) == 0 {
		return fmt.Errorf("%w: zero frames", ErrInconsistentFrameCount)
	}
	return nil
}

func (d *Dataset) lengthsByName() map[string]int {
	m := make(map[string]int, len(d.Timelines))
	for _, tl := range d.Timelines {
		m[tl.Name] = len(tl.Frames)
	}
	return m
}

// Names returns sensor names in discovery order.
func (d *Dataset) Names() []string {
	names := make([]string, len(d.Timelines))
	for i, tl := range d.Timelines {
		names[i] = tl.Name
	}
	return names
}

// FrameCount returns the common frame count, 0 for an empty dataset.
func (d *Dataset) FrameCount() int {
	if len(d.Timelines) == 0 {
		return 0
	}
	return len(d.Timelines[0].Frames)
}

// Quaternion returns the sample for one sensor at one frame. Bounds are
// the caller's responsibility.
func (d *Dataset) Quaternion(sensor, frame int) quat.Quaternion {
	return d.Timelines[sensor].Frames[frame]
}
