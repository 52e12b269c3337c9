package quat

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	gquat "gonum.org/v1/gonum/num/quat"
)

// ErrMalformed reports a raw value that could not be read as a
// scalar-first quaternion.
var ErrMalformed = errors.New("malformed quaternion")

// Quaternion is one orientation sample in scalar-first order (w, x, y, z).
// Samples are constructed once at load time and never mutated; they need
// not be normalized, rotation construction normalizes implicitly.
type Quaternion struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Identity is the no-rotation quaternion.
var Identity = Quaternion{W: 1}

// Parse reads a raw cell value as a scalar-first quaternion. Components are
// split on commas when the value contains one, otherwise on whitespace.
// Anything other than exactly 4 numeric tokens fails with ErrMalformed.
func Parse(raw string) (Quaternion, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Quaternion{}, fmt.Errorf("%w: empty value", ErrMalformed)
	}

	var tokens []string
	if strings.Contains(s, ",") {
		tokens = strings.Split(s, ",")
	} else {
		tokens = strings.Fields(s)
	}
	if len(tokens) != 4 {
		return Quaternion{}, fmt.Errorf("%w: %q has %d components, want 4", ErrMalformed, raw, len(tokens))
	}

	var c [4]float64
	for i, tok := range tokens {
		v, err := strconv.ParseFloat(strings.TrimSpace(tok), 64)
		if err != nil {
			return Quaternion{}, fmt.Errorf("%w: component %d of %q is not numeric", ErrMalformed, i+1, raw)
		}
		c[i] = v
	}

	return Quaternion{W: c[0], X: c[1], Y: c[2], Z: c[3]}, nil
}

// Normalized returns the unit quaternion with the same orientation.
// The zero quaternion has no orientation and normalizes to Identity so
// that downstream rotation math never sees NaNs.
func (q Quaternion) Normalized() Quaternion {
	n := gquat.Number{Real: q.W, Imag: q.X, Jmag: q.Y, Kmag: q.Z}
	abs := gquat.Abs(n)
	if abs == 0 {
		return Identity
	}
	n = gquat.Scale(1/abs, n)
	return Quaternion{W: n.Real, X: n.Imag, Y: n.Jmag, Z: n.Kmag}
}

// RotationMatrix expands the quaternion into a 3x3 rotation matrix,
// normalizing first.
func (q Quaternion) RotationMatrix() [3][3]float64 {
	u := q.Normalized()
	w, x, y, z := u.W, u.X, u.Y, u.Z

	return [3][3]float64{
		{1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y)},
		{2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x)},
		{2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y)},
	}
}
