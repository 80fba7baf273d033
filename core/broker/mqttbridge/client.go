// Package mqttbridge relays interaction events between an MQTT broker and
// the webserver component, so robot-side services that only speak MQTT can
// drive connected frontends and observe their button clicks.
package mqttbridge

import (
	"fmt"
	"log"
	"sync/atomic"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// Client wraps a paho MQTT client with background connection management.
type Client struct {
	client    paho.Client
	connected atomic.Bool
}

// ClientConfig carries broker connection settings.
type ClientConfig struct {
	BrokerURL string
	ClientID  string
	Username  string
	Password  string
}

// NewClient builds the MQTT client and starts connecting in the background.
// Publish and Subscribe fail until the connection is established.
func NewClient(cfg ClientConfig) *Client {
	log.Printf("[MQTT] Connecting to broker: %s", cfg.BrokerURL)

	opts := paho.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetCleanSession(true).
		SetMaxReconnectInterval(10 * time.Second)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		if cfg.Password != "" {
			opts.SetPassword(cfg.Password)
		}
	}

	c := &Client{}

	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		log.Printf("[MQTT] Connection lost: %v", err)
	})
	opts.SetOnConnectHandler(func(_ paho.Client) {
		log.Printf("[MQTT] Connected to broker")
	})

	c.client = paho.NewClient(opts)

	go func() {
		for {
			if token := c.client.Connect(); token.Wait() && token.Error() != nil {
				log.Printf("[MQTT] Failed to connect to broker: %v. Retrying...", token.Error())
				time.Sleep(5 * time.Second)
				continue
			}
			c.connected.Store(true)
			return
		}
	}()

	return c
}

// IsConnected reports whether the broker connection is open.
func (c *Client) IsConnected() bool {
	return c.connected.Load() && c.client.IsConnectionOpen()
}

// Publish sends a payload to the topic at QoS 1.
func (c *Client) Publish(topic string, payload []byte) error {
	if !c.IsConnected() {
		return fmt.Errorf("mqtt client not connected")
	}

	token := c.client.Publish(topic, 1, false, payload)
	if token.Wait() && token.Error() != nil {
		log.Printf("[MQTT] Failed to publish to topic %s: %v", topic, token.Error())
		return token.Error()
	}
	return nil
}

// Subscribe registers a handler for the topic at QoS 1.
func (c *Client) Subscribe(topic string, handler func(topic string, payload []byte)) error {
	if !c.IsConnected() {
		return fmt.Errorf("mqtt client not connected")
	}

	token := c.client.Subscribe(topic, 1, func(_ paho.Client, msg paho.Message) {
		handler(msg.Topic(), msg.Payload())
	})
	if token.Wait() && token.Error() != nil {
		log.Printf("[MQTT] Failed to subscribe to topic %s: %v", topic, token.Error())
		return token.Error()
	}

	log.Printf("[MQTT] Subscribed to topic: %s", topic)
	return nil
}

// Unsubscribe drops subscriptions for the given topics.
func (c *Client) Unsubscribe(topics ...string) error {
	if !c.IsConnected() {
		return fmt.Errorf("mqtt client not connected")
	}

	token := c.client.Unsubscribe(topics...)
	if token.Wait() && token.Error() != nil {
		log.Printf("[MQTT] Failed to unsubscribe from topics %v: %v", topics, token.Error())
		return token.Error()
	}
	return nil
}

// Disconnect closes the broker connection.
func (c *Client) Disconnect(quiesceMillis uint) {
	if c.IsConnected() {
		c.client.Disconnect(quiesceMillis)
		c.connected.Store(false)
		log.Printf("[MQTT] Disconnected from broker")
	}
}
