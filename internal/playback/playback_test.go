package playback

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/relabs-tech/motion_playback/internal/dataset"
	"github.com/relabs-tech/motion_playback/internal/quat"
	"github.com/relabs-tech/motion_playback/internal/transform"
)

// fakeSurface records every dispatch in order.
type fakeSurface struct {
	transforms []struct {
		idx int
		m   transform.Matrix4
	}
	overlays []string
	focal    [3]float64
}

func (s *fakeSurface) SetNodeTransform(i int, m transform.Matrix4) {
	s.transforms = append(s.transforms, struct {
		idx int
		m   transform.Matrix4
	}{i, m})
}

func (s *fakeSurface) SetOverlayText(text string) { s.overlays = append(s.overlays, text) }

func (s *fakeSurface) FocalPoint() (float64, float64, float64) {
	return s.focal[0], s.focal[1], s.focal[2]
}

func (s *fakeSurface) reset() {
	s.transforms = nil
	s.overlays = nil
}

type recordedTransform struct {
	last transform.Matrix4
	hits int
}

func (r *recordedTransform) ApplyTransform(m transform.Matrix4) {
	r.last = m
	r.hits++
}

func testDataset(t *testing.T, frames int) *dataset.Dataset {
	t.Helper()
	mk := func() []quat.Quaternion {
		fs := make([]quat.Quaternion, frames)
		for i := range fs {
			fs[i] = quat.Identity
		}
		return fs
	}
	ds, err := dataset.New([]dataset.Timeline{
		{Name: "A", Frames: mk()},
		{Name: "B", Frames: mk()},
	})
	require.NoError(t, err)
	return ds
}

func TestNewControllerDispatchesFrameZero(t *testing.T) {
	surf := &fakeSurface{}
	c, err := NewController(testDataset(t, 3), transform.NewEngine(0.2), surf)
	require.NoError(t, err)

	assert.Equal(t, 0, c.Frame())
	assert.Equal(t, 3, c.FrameCount())
	require.Len(t, surf.transforms, 2)
	assert.Equal(t, 0, surf.transforms[0].idx)
	assert.Equal(t, 1, surf.transforms[1].idx)
	assert.Equal(t, []string{"Frame: 0"}, surf.overlays)

	// Identity quaternion: node 1 sits one spacing along X.
	assert.Equal(t, 0.2, surf.transforms[1].m[0][3])
}

func TestNewControllerEmptyDataset(t *testing.T) {
	ds, err := dataset.New([]dataset.Timeline{{Name: "A"}})
	require.NoError(t, err)

	_, err = NewController(ds, transform.NewEngine(0.2), &fakeSurface{})
	assert.True(t, errors.Is(err, ErrEmptyDataset))

	_, err = NewController(nil, transform.NewEngine(0.2), &fakeSurface{})
	assert.True(t, errors.Is(err, ErrEmptyDataset))
}

func TestSeekClampsOutOfRange(t *testing.T) {
	surf := &fakeSurface{}
	c, err := NewController(testDataset(t, 5), transform.NewEngine(0.2), surf)
	require.NoError(t, err)

	surf.reset()
	c.Seek(99)
	assert.Equal(t, 4, c.Frame())
	assert.Equal(t, []string{"Frame: 4"}, surf.overlays)

	surf.reset()
	c.Seek(-3)
	assert.Equal(t, 0, c.Frame())
	assert.Equal(t, []string{"Frame: 0"}, surf.overlays)
}

func TestSeekIdempotent(t *testing.T) {
	surf := &fakeSurface{}
	c, err := NewController(testDataset(t, 5), transform.NewEngine(0.2), surf)
	require.NoError(t, err)

	surf.reset()
	c.Seek(2)
	first := append([]struct {
		idx int
		m   transform.Matrix4
	}(nil), surf.transforms...)
	firstOverlays := append([]string(nil), surf.overlays...)

	surf.reset()
	c.Seek(2)
	assert.Equal(t, first, surf.transforms)
	assert.Equal(t, firstOverlays, surf.overlays)
}

func TestFollowersFaceFocalPoint(t *testing.T) {
	surf := &fakeSurface{focal: [3]float64{0, -3, 0}}
	c, err := NewController(testDataset(t, 2), transform.NewEngine(0.2), surf)
	require.NoError(t, err)

	label := &recordedTransform{}
	c.AddFollower(NewFollower(r3.Vec{X: 0.19, Y: 0.01, Z: 0.1}, label))

	c.Seek(1)
	assert.Equal(t, 1, label.hits)
	// Translation column carries the follower position.
	assert.Equal(t, 0.19, label.last[0][3])
	assert.Equal(t, 0.01, label.last[1][3])
	assert.Equal(t, 0.1, label.last[2][3])

	// Camera moved: Refresh re-aims the follower without changing frames.
	surf.focal = [3]float64{2, 0, 0}
	c.Refresh()
	assert.Equal(t, 2, label.hits)
	assert.Equal(t, 1, c.Frame())
}
