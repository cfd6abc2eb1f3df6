package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/berryimu_logger/internal/config"
	"github.com/relabs-tech/berryimu_logger/internal/sample"
)

// RunConsoleMQTT subscribes to the live sample topic and prints each record
// as an aligned row. Absent axis groups are rendered as dashes so partial
// samples stand out.
func RunConsoleMQTT() error {
	cfg := config.Get()
	if cfg.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is not configured")
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicSamples, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s sample.Sample
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Printf("console: sample unmarshal error: %v", err)
			return
		}

		fmt.Printf("[IMU ] %s  acc=%s  gyr=%s  mag=%s\n",
			s.Time.Format("15:04:05.000"),
			formatAxes(s.Acc), formatAxes(s.Gyr), formatAxes(s.Mag),
		)
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicSamples)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}

func formatAxes(a *sample.Axes) string {
	if a == nil {
		return "   ---    ---    ---"
	}
	return fmt.Sprintf("%6d %6d %6d", a.X, a.Y, a.Z)
}
