// Package transform computes the rigid 4x4 transforms applied to scene
// nodes. The engine is stateless: everything is a pure function of the
// quaternion and the sensor's slot in the row of nodes.
package transform

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/relabs-tech/motion_playback/internal/quat"
)

// DefaultSpacing is the distance between neighbouring sensor nodes along
// the X axis.
const DefaultSpacing = 0.2

// Matrix4 is a row-major homogeneous transform.
type Matrix4 [4][4]float64

// Identity returns the identity transform.
func Identity() Matrix4 {
	return Matrix4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Flat returns the 16 elements in row-major order, the layout the render
// surface consumes.
func (m Matrix4) Flat() [16]float64 {
	var out [16]float64
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out[i*4+j] = m[i][j]
		}
	}
	return out
}

// Engine derives node transforms for a fixed sensor spacing.
type Engine struct {
	Spacing float64
}

// NewEngine returns an engine with the given spacing; zero or negative
// spacing falls back to DefaultSpacing.
func NewEngine(spacing float64) Engine {
	if spacing <= 0 {
		spacing = DefaultSpacing
	}
	return Engine{Spacing: spacing}
}

// NodeTransform embeds the quaternion's rotation into a homogeneous
// matrix and offsets the node along X by its slot so co-located sensors
// stay visually distinct. The quaternion is normalized on the way in;
// frame bounds are the controller's responsibility.
func (e Engine) NodeTransform(sensorIndex int, q quat.Quaternion) Matrix4 {
	rot := q.RotationMatrix()

	m := Identity()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = rot[i][j]
		}
	}
	m[0][3] = float64(sensorIndex) * e.Spacing
	return m
}

// NodeOffset returns the resting position of a sensor node.
func (e Engine) NodeOffset(sensorIndex int) r3.Vec {
	return r3.Vec{X: float64(sensorIndex) * e.Spacing}
}

// Billboard builds a transform that places a node at pos and turns it to
// face focal, with world Z up. Used for camera-relative annotations. When
// pos and focal coincide the rotation degenerates to identity.
func Billboard(pos, focal r3.Vec) Matrix4 {
	fwd := r3.Sub(focal, pos)
	if r3.Norm(fwd) == 0 {
		m := Identity()
		m[0][3], m[1][3], m[2][3] = pos.X, pos.Y, pos.Z
		return m
	}
	fwd = r3.Unit(fwd)

	up := r3.Vec{Z: 1}
	right := r3.Cross(up, fwd)
	if r3.Norm(right) == 0 {
		// Looking straight along Z; pick an arbitrary horizontal right.
		right = r3.Vec{X: 1}
	} else {
		right = r3.Unit(right)
	}
	up = r3.Cross(fwd, right)

	m := Identity()
	for col, v := range []r3.Vec{right, up, fwd} {
		m[0][col] = v.X
		m[1][col] = v.Y
		m[2][col] = v.Z
	}
	m[0][3], m[1][3], m[2][3] = pos.X, pos.Y, pos.Z
	return m
}
