// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package app

import (
	"encoding/json"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/motion_playback/internal/config"
	"github.com/relabs-tech/motion_playback/internal/loader"
	"github.com/relabs-tech/motion_playback/internal/quat"
)

// frameMessage is one published frame: every sensor's quaternion at one
// frame index, in dataset order.
type frameMessage struct {
	Frame   int          `json:"frame"`
	Sensors []sensorPose `json:"sensors"`
}

type sensorPose struct {
	Name string          `json:"name"`
	Quat quat.Quaternion `json:"quat"`
}

// RunReplay loads a recording and publishes it frame by frame over MQTT,
// so consumers built for a live producer pipeline can be fed from a file.
func RunReplay(path string) error {
	cfg := config.Get()

	ds, err := loader.Load(path)
	if err != nil {
		return err
	}
	log.Printf("replay: loaded %s: %d sensors, %d frames", path, len(ds.Timelines), ds.FrameCount())

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDReplay)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Printf("replay: connected to MQTT broker at %s", cfg.MQTTBroker)

	ticker := time.NewTicker(time.Second / time.Duration(cfg.ReplayRateHz))
	defer ticker.Stop()

	frame := 0
	for range ticker.C {
		if frame >= ds.FrameCount() {
			break
		}

		msg := frameMessage{Frame: frame, Sensors: make([]sensorPose, 0, len(ds.Timelines))}
		for i, tl := range ds.Timelines {
			msg.Sensors = append(msg.Sensors, sensorPose{Name: tl.Name, Quat: ds.Quaternion(i, frame)})
		}

		payload, err := json.Marshal(msg)
		if err != nil {
			log.Printf("replay: json marshal error: %v", err)
			frame++
			continue
		}

		token := client.Publish(cfg.TopicFrame, 0, false, payload)
		token.Wait()
		if token.Error() != nil {
			log.Printf("replay: publish error: %v", token.Error())
		}

		if frame%100 == 0 {
			log.Printf("replay: published frame %d/%d", frame, ds.FrameCount()-1)
		}
		frame++
	}

	log.Printf("replay: done, %d frames published to %s", ds.FrameCount(), cfg.TopicFrame)
	return nil
}
