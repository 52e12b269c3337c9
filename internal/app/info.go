package app

import (
	"fmt"

	"github.com/relabs-tech/motion_playback/internal/loader"
)

// RunInfo loads a data file and prints what a playback session would see:
// sensor names in discovery order, the common frame count, and the first
// and last sample per sensor.
func RunInfo(path string) error {
	ds, err := loader.Load(path)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d sensors, %d frames\n", path, len(ds.Timelines), ds.FrameCount())
	for i, tl := range ds.Timelines {
		first := tl.Frames[0]
		last := tl.Frames[len(tl.Frames)-1]
		fmt.Printf(
			"  [%d] %-20s first=(%7.4f %7.4f %7.4f %7.4f)  last=(%7.4f %7.4f %7.4f %7.4f)\n",
			i, tl.Name,
			first.W, first.X, first.Y, first.Z,
			last.W, last.X, last.Y, last.Z,
		)
	}
	return nil
}
