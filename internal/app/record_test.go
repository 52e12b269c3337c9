package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/motion_playback/internal/loader"
	"github.com/relabs-tech/motion_playback/internal/quat"
)

func TestParseSampleLine(t *testing.T) {
	name, q, err := parseSampleLine("pelvis,1,0,0,0\r\n")
	require.NoError(t, err)
	assert.Equal(t, "pelvis", name)
	assert.Equal(t, quat.Quaternion{W: 1}, q)
}

func TestParseSampleLineErrors(t *testing.T) {
	for _, line := range []string{
		"",
		"pelvis",
		",1,0,0,0",
		"pelvis,1,0,0",
		"pelvis,1,0,0,0,0",
		"pelvis,a,b,c,d",
	} {
		_, _, err := parseSampleLine(line)
		assert.Error(t, err, "line %q", line)
	}
}

func TestRecordingDiscoveryOrder(t *testing.T) {
	rec := newRecording()
	rec.add("tibia", quat.Identity)
	rec.add("pelvis", quat.Identity)
	rec.add("tibia", quat.Identity)

	assert.Equal(t, []string{"tibia", "pelvis"}, rec.order)
	assert.Equal(t, 1, rec.frameCount())
}

func TestWriteCSVRoundTripsThroughLoader(t *testing.T) {
	rec := newRecording()
	for i := 0; i < 3; i++ {
		rec.add("pelvis", quat.Quaternion{W: 1})
		rec.add("tibia", quat.Quaternion{W: 0.5, X: 0.5, Y: 0.5, Z: 0.5})
	}
	// A trailing partial frame must be dropped, not half-written.
	rec.add("pelvis", quat.Quaternion{X: 1})

	path := filepath.Join(t.TempDir(), "capture.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, rec.writeCSV(f))
	require.NoError(t, f.Close())

	ds, err := loader.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"pelvis", "tibia"}, ds.Names())
	assert.Equal(t, 3, ds.FrameCount())
	assert.Equal(t, quat.Quaternion{W: 0.5, X: 0.5, Y: 0.5, Z: 0.5}, ds.Quaternion(1, 2))
}

func TestWriteCSVEmptyCapture(t *testing.T) {
	var buf bytes.Buffer
	err := newRecording().writeCSV(&buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no samples")
}
