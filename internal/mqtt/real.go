package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/sweeney/charge-indicator/internal/logic"
)

// bufferCapacity bounds how many messages are held while the broker is
// unreachable. Charging transitions are rare; this is generous.
const bufferCapacity = 64

// RealClient publishes to an actual MQTT broker and subscribes to the
// battery state topic. Messages published while disconnected are
// buffered and replayed on reconnect.
type RealClient struct {
	client paho.Client

	mu     sync.Mutex
	buffer *ringBuffer
}

// NewRealClient creates a client connected to the given broker.
func NewRealClient(broker string) (*RealClient, error) {
	c := &RealClient{buffer: newRingBuffer(bufferCapacity)}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("charge-indicator").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(c.onConnect)

	c.client = paho.NewClient(opts)
	token := c.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return c, nil
}

// Publish sends a charging transition event to the MQTT broker.
func (c *RealClient) Publish(event logic.Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	// QoS 1 (at-least-once): transitions are rare and losing one leaves
	// downstream consumers with a stale charging state.
	return c.publish(Topic, payload, 1, false)
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (c *RealClient) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	return c.publish(TopicSystem, payload, 1, event.Retained)
}

// publish delivers now if connected, otherwise buffers for replay.
func (c *RealClient) publish(topic string, payload []byte, qos byte, retained bool) error {
	if !c.client.IsConnected() {
		c.mu.Lock()
		c.buffer.push(bufferedMsg{topic: topic, payload: payload, qos: qos, retained: retained})
		c.mu.Unlock()
		return nil
	}

	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// onConnect replays buffered messages after a (re)connect.
func (c *RealClient) onConnect(client paho.Client) {
	c.mu.Lock()
	msgs := c.buffer.drain()
	c.mu.Unlock()

	if len(msgs) == 0 {
		return
	}
	log.Printf("mqtt: reconnected, replaying %d buffered messages", len(msgs))
	for _, m := range msgs {
		token := client.Publish(m.topic, m.qos, m.retained, m.payload)
		if !token.WaitTimeout(5 * time.Second) {
			log.Printf("mqtt: replay timeout on %s", m.topic)
			continue
		}
		if err := token.Error(); err != nil {
			log.Printf("mqtt: replay failed on %s: %v", m.topic, err)
		}
	}
}

// SubscribeBattery subscribes to the battery state topic. Each valid
// update is handed to the callback; malformed messages are logged and
// dropped so a noisy publisher can never break the event pipeline.
func (c *RealClient) SubscribeBattery(handler func(percent int)) error {
	token := c.client.Subscribe(TopicBattery, 0, func(_ paho.Client, msg paho.Message) {
		pct, err := ParseBatteryState(msg.Payload())
		if err != nil {
			log.Printf("mqtt: dropping battery message: %v", err)
			return
		}
		handler(pct)
	})
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("subscribe timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe %s: %w", TopicBattery, err)
	}
	return nil
}

// IsConnected reports whether the broker connection is active.
func (c *RealClient) IsConnected() bool {
	return c.client.IsConnected()
}

// Close disconnects from the broker.
func (c *RealClient) Close() error {
	c.client.Disconnect(1000) // 1 second timeout
	return nil
}
