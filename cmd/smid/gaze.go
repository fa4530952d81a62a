package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/smathot/libsmi/smi"
)

type gazeSample struct {
	X int `json:"x"`
	Y int `json:"y"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local use
	},
}

// nextGazeSample takes the session for one blocking sample. While streaming
// is on the device pushes frames continuously, so the hold is short.
func nextGazeSample() (gazeSample, error) {
	trackerMu.Lock()
	defer trackerMu.Unlock()
	x, y, err := tracker.Sample(false)
	return gazeSample{X: x, Y: y}, err
}

// streamGaze pushes decoded gaze samples over a websocket until the client
// goes away, streaming stops, or the channel fails.
func streamGaze(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("gaze stream: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		s, err := nextGazeSample()
		if err != nil {
			if !errors.Is(err, smi.ErrNotStreaming) {
				log.Errorf("gaze stream: %v", err)
			}
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, err.Error()))
			return
		}
		if err := conn.WriteJSON(s); err != nil {
			return
		}
	}
}

// runGazePublisher publishes each decoded sample as JSON to an MQTT topic
// while streaming is enabled.
func runGazePublisher(broker, topic string) error {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("smid-gaze-publisher")

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Infof("gaze publisher connected to MQTT broker at %s", broker)

	for {
		trackerMu.Lock()
		streaming := tracker.Streaming()
		trackerMu.Unlock()
		if !streaming {
			time.Sleep(250 * time.Millisecond)
			continue
		}

		s, err := nextGazeSample()
		if errors.Is(err, smi.ErrNotStreaming) {
			// Recording stopped between the check and the sample.
			continue
		}
		if err != nil {
			return err
		}

		payload, err := json.Marshal(s)
		if err != nil {
			continue
		}
		token := client.Publish(topic, 0, true, payload)
		token.Wait()
		if token.Error() != nil {
			log.Errorf("gaze publish: %v", token.Error())
		}
	}
}
