package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/sweeney/heater-controller/internal/logic"
)

const (
	// ClientIDPrefix is combined with a random suffix per process.
	ClientIDPrefix = "heater-controller"

	outboxCapacity = 100
	connectWait    = 10 * time.Second
	publishTimeout = 5 * time.Second
)

// NewClientID returns a broker client id unique to this process, so a second
// controller never takes over an existing session.
func NewClientID() string {
	return ClientIDPrefix + "-" + uuid.NewString()[:8]
}

// RealPublisher publishes to an actual MQTT broker.
// Messages published while disconnected are buffered and replayed on reconnect.
// Retained states must reach the broker in order, so sends keep queueing after
// the connection opens until the backlog has been replayed.
type RealPublisher struct {
	client paho.Client
	now    func() time.Time

	mu     sync.Mutex
	outbox *outbox
	live   bool   // backlog replayed on the current connection
	lost   uint64 // connection losses, so a stale replay cannot set live
}

// NewRealPublisher creates a publisher for the given broker. If the broker is
// not reachable within the connect wait, the client keeps retrying in the
// background and messages are buffered meanwhile.
func NewRealPublisher(broker, clientID string) (*RealPublisher, error) {
	p := &RealPublisher{
		now:    time.Now,
		outbox: newOutbox(outboxCapacity),
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5*time.Second).
		SetWill(TopicSystem, string(WillPayload()), 1, true).
		SetOnConnectHandler(p.onConnect).
		SetConnectionLostHandler(p.onConnectionLost)

	p.client = paho.NewClient(opts)
	token := p.client.Connect()
	if token.WaitTimeout(connectWait) {
		if err := token.Error(); err != nil {
			return nil, fmt.Errorf("connect to broker: %w", err)
		}
	} else {
		log.Printf("mqtt: broker %s not reachable yet, buffering until connected", broker)
	}

	return p, nil
}

// ReportStateChange publishes the new state, retained, without waiting for
// the broker so the control loop never blocks on the network.
func (p *RealPublisher) ReportStateChange(state logic.State) error {
	payload, err := FormatStatePayload(p.now(), state)
	if err != nil {
		return fmt.Errorf("format state payload: %w", err)
	}

	p.send(bufferedMsg{topic: TopicState, payload: payload, qos: 1, retained: true}, false)
	return nil
}

// PublishSystem sends a system lifecycle event and waits for delivery.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once) for lifecycle events - we want to ensure delivery
	token := p.send(bufferedMsg{topic: TopicSystem, payload: payload, qos: 1, retained: event.Retained}, true)
	if token == nil {
		return nil
	}
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish system timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish system: %w", err)
	}
	return nil
}

// send publishes msg, or buffers it and returns nil while offline or while the
// backlog is still being replayed. Unless wait is set, delivery errors are
// logged from a separate goroutine.
func (p *RealPublisher) send(msg bufferedMsg, wait bool) paho.Token {
	p.mu.Lock()
	if !p.live || !p.client.IsConnectionOpen() {
		p.outbox.push(msg)
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	token := p.client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
	if !wait {
		go logDelivery(msg.topic, token)
	}
	return token
}

func (p *RealPublisher) onConnect(c paho.Client) {
	log.Printf("mqtt: connected")
	p.replay(func(msg bufferedMsg) {
		go logDelivery(msg.topic, c.Publish(msg.topic, msg.qos, msg.retained, msg.payload))
	})
}

func (p *RealPublisher) onConnectionLost(_ paho.Client, err error) {
	p.mu.Lock()
	p.live = false
	p.lost++
	p.mu.Unlock()
	log.Printf("mqtt: connection lost: %v", err)
}

// replay publishes queued messages oldest first, including any queued while
// replaying, and only then lets send publish directly. It gives up if the
// connection is lost meanwhile; the next connect replays again.
func (p *RealPublisher) replay(publish func(bufferedMsg)) {
	p.mu.Lock()
	lost := p.lost
	p.mu.Unlock()

	for {
		p.mu.Lock()
		if p.lost != lost {
			p.mu.Unlock()
			return
		}
		pending := p.outbox.drainAll()
		if len(pending) == 0 {
			p.live = true
			p.mu.Unlock()
			return
		}
		p.mu.Unlock()

		for _, msg := range pending {
			publish(msg)
		}
	}
}

func logDelivery(topic string, token paho.Token) {
	if !token.WaitTimeout(publishTimeout) {
		log.Printf("mqtt: publish to %s timed out", topic)
		return
	}
	if err := token.Error(); err != nil {
		log.Printf("mqtt: publish to %s: %v", topic, err)
	}
}

// IsConnected reports whether the client currently holds a broker connection.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Buffered returns how many messages are waiting for a connection.
func (p *RealPublisher) Buffered() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.outbox.len()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second quiesce
	return nil
}
