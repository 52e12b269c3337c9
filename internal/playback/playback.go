// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package playback owns the session's only mutable state: the current
// frame index. All dispatch to the render surface happens through the
// controller, on whichever single goroutine is handling input events.
package playback

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/relabs-tech/motion_playback/internal/dataset"
	"github.com/relabs-tech/motion_playback/internal/transform"
)

// ErrEmptyDataset reports a dataset with zero frames.
var ErrEmptyDataset = errors.New("empty dataset")

// Surface is the external render surface the controller drives. It is a
// pure consumer of transforms and overlay text, plus a camera query used
// to aim camera-relative annotations.
type Surface interface {
	SetNodeTransform(sensorIndex int, m transform.Matrix4)
	SetOverlayText(text string)
	FocalPoint() (x, y, z float64)
}

// Transformable is the capability of receiving a rigid transform.
// Whether a scene node has it is decided once, when the node is attached,
// never per frame.
type Transformable interface {
	ApplyTransform(transform.Matrix4)
}

// Follower is a camera-relative annotation: a label pinned near a sensor
// node that turns to face the camera focal point on every frame change.
type Follower struct {
	Position r3.Vec
	target   Transformable
}

// NewFollower pins an annotation at pos; its billboard transform is
// delivered to target.
func NewFollower(pos r3.Vec, target Transformable) *Follower {
	return &Follower{Position: pos, target: target}
}

func (f *Follower) face(focal r3.Vec) {
	f.target.ApplyTransform(transform.Billboard(f.Position, focal))
}

// Controller holds the current frame index and dispatches every visual
// update derived from it. It starts Ready at frame 0.
type Controller struct {
	ds        *dataset.Dataset
	engine    transform.Engine
	surface   Surface
	followers []*Follower
	frame     int
}

// NewController validates the dataset and dispatches frame 0. A dataset
// with zero frames cannot start a session.
func NewController(ds *dataset.Dataset, engine transform.Engine, surface Surface) (*Controller, error) {
	if ds == nil || ds.FrameCount() == 0 {
		return nil, ErrEmptyDataset
	}

	c := &Controller{
		ds:      ds,
		engine:  engine,
		surface: surface,
	}
	c.dispatch(0)
	return c, nil
}

// AddFollower attaches a camera-relative annotation. Attachment happens
// at scene construction; nodes without the Transformable capability have
// nowhere to attach and are simply never part of dispatch.
func (c *Controller) AddFollower(f *Follower) {
	c.followers = append(c.followers, f)
}

// Frame returns the current frame index.
func (c *Controller) Frame() int {
	return c.frame
}

// FrameCount returns the session's common frame count.
func (c *Controller) FrameCount() int {
	return c.ds.FrameCount()
}

// Seek moves to the requested frame and dispatches every node transform,
// the overlay text, and the follower annotations. Out-of-range requests
// come from continuous slider interaction and are clamped silently; they
// never fail. Seeking to the current frame re-dispatches identical output.
func (c *Controller) Seek(idx int) {
	if idx < 0 {
		idx = 0
	}
	if last := c.ds.FrameCount() - 1; idx > last {
		idx = last
	}
	c.dispatch(idx)
}

// Refresh re-dispatches the current frame, used after camera moves so
// followers pick up the new focal point.
func (c *Controller) Refresh() {
	c.dispatch(c.frame)
}

func (c *Controller) dispatch(idx int) {
	c.frame = idx

	for i := range c.ds.Timelines {
		m := c.engine.NodeTransform(i, c.ds.Quaternion(i, idx))
		c.surface.SetNodeTransform(i, m)
	}
	c.surface.SetOverlayText(fmt.Sprintf("Frame: %d", idx))

	fx, fy, fz := c.surface.FocalPoint()
	focal := r3.Vec{X: fx, Y: fy, Z: fz}
	for _, f := range c.followers {
		f.face(focal)
	}
}
