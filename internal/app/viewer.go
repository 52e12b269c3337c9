// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package app

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/relabs-tech/motion_playback/internal/config"
	"github.com/relabs-tech/motion_playback/internal/dataset"
	"github.com/relabs-tech/motion_playback/internal/loader"
	"github.com/relabs-tech/motion_playback/internal/playback"
	"github.com/relabs-tech/motion_playback/internal/transform"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// Messages pushed to the browser.
type initMessage struct {
	Type       string     `json:"type"` // "init"
	Sensors    []string   `json:"sensors"`
	FrameCount int        `json:"frame_count"`
	Spacing    float64    `json:"spacing"`
	Focal      [3]float64 `json:"focal"`
}

type transformMessage struct {
	Type   string      `json:"type"` // "transform"
	Node   int         `json:"node"`
	Matrix [16]float64 `json:"matrix"`
}

type overlayMessage struct {
	Type string `json:"type"` // "overlay"
	Text string `json:"text"`
}

// Messages received from the browser.
type clientMessage struct {
	Action string     `json:"action"` // "seek" or "camera"
	Frame  int        `json:"frame"`
	Focal  [3]float64 `json:"focal"`
}

// wsSurface is the render surface backing one browser connection. All
// calls happen on the connection's read loop, so writes never interleave.
type wsSurface struct {
	conn  *websocket.Conn
	focal [3]float64
}

func (s *wsSurface) SetNodeTransform(i int, m transform.Matrix4) {
	s.push(transformMessage{Type: "transform", Node: i, Matrix: m.Flat()})
}

func (s *wsSurface) SetOverlayText(text string) {
	s.push(overlayMessage{Type: "overlay", Text: text})
}

func (s *wsSurface) FocalPoint() (float64, float64, float64) {
	return s.focal[0], s.focal[1], s.focal[2]
}

func (s *wsSurface) push(msg any) {
	if err := s.conn.WriteJSON(msg); err != nil {
		log.Printf("viewer: websocket write: %v", err)
	}
}

// labelNode routes a follower's billboard transform to its node slot on
// the surface. Label nodes occupy the slots after the sensor nodes.
type labelNode struct {
	surface *wsSurface
	id      int
}

func (n labelNode) ApplyTransform(m transform.Matrix4) {
	n.surface.SetNodeTransform(n.id, m)
}

// RunViewer loads the data file once and serves the interactive playback
// page. Each websocket connection gets its own controller; every seek is
// handled on that connection's read loop.
func RunViewer(path string) error {
	cfg := config.Get()

	ds, err := loader.Load(path)
	if err != nil {
		return err
	}
	log.Printf("viewer: loaded %s: %d sensors, %d frames", path, len(ds.Timelines), ds.FrameCount())

	engine := transform.NewEngine(cfg.OffsetSpacing)

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir("web")))
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("viewer: websocket upgrade: %v", err)
			return
		}
		defer conn.Close()

		if err := serveSession(conn, ds, engine); err != nil {
			log.Printf("viewer: session ended: %v", err)
		}
	})

	addr := fmt.Sprintf(":%d", cfg.WebPort)
	log.Printf("viewer: listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}

// serveSession drives one browser connection until it closes.
func serveSession(conn *websocket.Conn, ds *dataset.Dataset, engine transform.Engine) error {
	nsensors := len(ds.Timelines)

	surf := &wsSurface{
		conn: conn,
		// Default camera aim: the middle of the sensor row.
		focal: [3]float64{float64(nsensors-1) * engine.Spacing / 2, 0, 0},
	}

	surf.push(initMessage{
		Type:       "init",
		Sensors:    ds.Names(),
		FrameCount: ds.FrameCount(),
		Spacing:    engine.Spacing,
		Focal:      surf.focal,
	})

	ctrl, err := playback.NewController(ds, engine, surf)
	if err != nil {
		return err
	}
	for i := 0; i < nsensors; i++ {
		pos := engine.NodeOffset(i)
		pos = r3.Add(pos, r3.Vec{X: -0.01, Y: 0.01, Z: 0.1})
		ctrl.AddFollower(playback.NewFollower(pos, labelNode{surface: surf, id: nsensors + i}))
	}
	ctrl.Refresh()

	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}

		switch msg.Action {
		case "seek":
			ctrl.Seek(msg.Frame)
		case "camera":
			surf.focal = msg.Focal
			ctrl.Refresh()
		default:
			log.Printf("viewer: unknown action %q", msg.Action)
		}
	}
}
