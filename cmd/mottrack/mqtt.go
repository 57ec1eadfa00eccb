package main

import (
	"context"
	"encoding/json"
	"net"
	"time"

	"github.com/fieldtrace/mot/track"
	natiumqtt "github.com/soypat/natiu-mqtt"
)

// mqttSink publishes each frame's visible tracks as a small JSON payload,
// an optional emission collaborator kept outside the engine so the core
// tracking logic never depends on a broker being reachable.
type mqttSink struct {
	client *natiumqtt.Client
	conn   net.Conn
	topic  string
}

type trackEmission struct {
	Frame  int             `json:"frame"`
	Tracks []trackPosition `json:"tracks"`
}

type trackPosition struct {
	ID uint64  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

func newMQTTSink(ctx context.Context, broker, topic string) (*mqttSink, error) {
	conn, err := net.DialTimeout("tcp", broker, 5*time.Second)
	if err != nil {
		return nil, err
	}

	client := natiumqtt.NewClient(natiumqtt.ClientConfig{
		Decoder: natiumqtt.DecoderNoAlloc{UserBuffer: make([]byte, 2048)},
	})

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err = client.Connect(connectCtx, conn, &natiumqtt.VariablesConnect{
		ClientID: []byte("mottrack"),
	})
	if err != nil {
		conn.Close()
		return nil, err
	}

	if topic == "" {
		topic = "mottrack/tracks"
	}
	return &mqttSink{client: client, conn: conn, topic: topic}, nil
}

func (s *mqttSink) Publish(frameIndex int, tracks []*track.Track) error {
	payload := trackEmission{Frame: frameIndex}
	for _, t := range tracks {
		pos := t.Filter().LatestPrediction()
		payload.Tracks = append(payload.Tracks, trackPosition{ID: uint64(t.ID()), X: pos.X, Y: pos.Y})
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	header := natiumqtt.Header{}
	vars := natiumqtt.VariablesPublish{TopicName: []byte(s.topic)}
	return s.client.PublishPayload(header, vars, body)
}

func (s *mqttSink) Close() error {
	return s.conn.Close()
}
