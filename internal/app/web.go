package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/berryimu_logger/internal/config"
	"github.com/relabs-tech/berryimu_logger/internal/sample"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// RunWeb subscribes to the live sample topic and serves two views of it:
// a JSON snapshot of the latest sample at /api/sample, and a websocket at
// /ws that pushes every incoming sample to connected clients.
func RunWeb() error {
	cfg := config.Get()
	if cfg.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is not configured")
	}

	var (
		mu         sync.RWMutex
		lastSample sample.Sample
		haveSample bool
	)

	// Fan-out of raw payloads to websocket clients.
	var (
		clientsMu sync.Mutex
		clients   = make(map[*websocket.Conn]struct{})
	)

	// 1) Connect to MQTT broker
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDWeb)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	// 2) Subscribe to the sample topic; update snapshot and push to clients
	token := client.Subscribe(cfg.TopicSamples, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s sample.Sample
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("web: sample unmarshal error: %v", err)
			return
		}
		mu.Lock()
		lastSample = s
		haveSample = true
		mu.Unlock()

		clientsMu.Lock()
		for conn := range clients {
			if err := conn.WriteMessage(websocket.TextMessage, msg.Payload()); err != nil {
				conn.Close()
				delete(clients, conn)
			}
		}
		clientsMu.Unlock()
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: subscribed to %s", cfg.TopicSamples)

	// 3) JSON API endpoint: latest sample
	http.HandleFunc("/api/sample", func(w http.ResponseWriter, r *http.Request) {
		mu.RLock()
		defer mu.RUnlock()

		if !haveSample {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(lastSample); err != nil {
			log.Printf("web: json encode error: %v", err)
		}
	})

	// 4) Websocket live stream
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("web: websocket upgrade error: %v", err)
			return
		}
		clientsMu.Lock()
		clients[conn] = struct{}{}
		clientsMu.Unlock()
		log.Printf("web: websocket client connected (%s)", r.RemoteAddr)

		// Drain reads so close frames are processed; writes happen on
		// the MQTT callback goroutine.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					clientsMu.Lock()
					delete(clients, conn)
					clientsMu.Unlock()
					conn.Close()
					return
				}
			}
		}()
	})

	// 5) Static files from ./web as the root
	fs := http.FileServer(http.Dir("web"))
	http.Handle("/", fs)

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web server listening on %s", addr)
	return http.ListenAndServe(addr, nil)
}
