package transform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/relabs-tech/motion_playback/internal/quat"
)

func TestNodeTransformIdentityQuaternion(t *testing.T) {
	e := NewEngine(0.2)

	for _, idx := range []int{0, 1, 4} {
		m := e.NodeTransform(idx, quat.Identity)

		want := Identity()
		want[0][3] = float64(idx) * 0.2
		assert.Equal(t, want, m, "sensor index %d", idx)
	}
}

func TestNodeTransformRotationBlock(t *testing.T) {
	e := NewEngine(0.5)
	s := math.Sqrt2 / 2
	m := e.NodeTransform(2, quat.Quaternion{W: s, Z: s})

	// Quarter turn about Z in the top-left block.
	assert.InDelta(t, 0, m[0][0], 1e-12)
	assert.InDelta(t, -1, m[0][1], 1e-12)
	assert.InDelta(t, 1, m[1][0], 1e-12)
	assert.InDelta(t, 0, m[1][1], 1e-12)
	assert.InDelta(t, 1, m[2][2], 1e-12)

	// Translation column and homogeneous row untouched by rotation.
	assert.Equal(t, 1.0, m[0][3])
	assert.Equal(t, 0.0, m[1][3])
	assert.Equal(t, 0.0, m[2][3])
	assert.Equal(t, [4]float64{0, 0, 0, 1}, m[3])
}

func TestNewEngineDefaultSpacing(t *testing.T) {
	assert.Equal(t, DefaultSpacing, NewEngine(0).Spacing)
	assert.Equal(t, DefaultSpacing, NewEngine(-1).Spacing)
	assert.Equal(t, 0.35, NewEngine(0.35).Spacing)
}

func TestFlatRowMajor(t *testing.T) {
	var m Matrix4
	n := 0.0
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			m[i][j] = n
			n++
		}
	}
	flat := m.Flat()
	assert.Equal(t, 0.0, flat[0])
	assert.Equal(t, 3.0, flat[3])
	assert.Equal(t, 4.0, flat[4])
	assert.Equal(t, 15.0, flat[15])
}

func TestBillboardFacesFocalPoint(t *testing.T) {
	pos := r3.Vec{X: 0.2, Y: 0.01, Z: 0.1}
	focal := r3.Vec{X: 0.2, Y: -3, Z: 0.1}
	m := Billboard(pos, focal)

	// Forward column (third) points from pos toward focal: -Y here.
	assert.InDelta(t, 0, m[0][2], 1e-12)
	assert.InDelta(t, -1, m[1][2], 1e-12)
	assert.InDelta(t, 0, m[2][2], 1e-12)

	// Position carried in the translation column.
	assert.Equal(t, pos.X, m[0][3])
	assert.Equal(t, pos.Y, m[1][3])
	assert.Equal(t, pos.Z, m[2][3])
}

func TestBillboardDegenerate(t *testing.T) {
	pos := r3.Vec{X: 1}
	m := Billboard(pos, pos)

	want := Identity()
	want[0][3] = 1
	assert.Equal(t, want, m)
}
