package mqtt

import "log"

// bufferedMsg stores a serialized MQTT message for replay after reconnection.
type bufferedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// outbox queues messages while the broker is unreachable, oldest first.
// When full, the oldest state message is evicted before any lifecycle event,
// so STARTUP and SHUTDOWN survive a long outage of a flapping controller.
// Not safe for concurrent use; caller must synchronize.
type outbox struct {
	msgs     []bufferedMsg
	capacity int
	dropped  int // evictions since last drain
}

func newOutbox(capacity int) *outbox {
	return &outbox{
		msgs:     make([]bufferedMsg, 0, capacity),
		capacity: capacity,
	}
}

func (o *outbox) push(msg bufferedMsg) {
	if len(o.msgs) == o.capacity {
		if o.dropped == 0 {
			log.Printf("mqtt: offline queue full (%d messages), evicting oldest", o.capacity)
		}
		o.dropped++
		o.evict()
	}
	o.msgs = append(o.msgs, msg)
}

// evict removes the oldest state message, or the oldest message if every
// queued message is a lifecycle event.
func (o *outbox) evict() {
	victim := 0
	for i, m := range o.msgs {
		if m.topic == TopicState {
			victim = i
			break
		}
	}
	o.msgs = append(o.msgs[:victim], o.msgs[victim+1:]...)
}

// drainAll returns queued messages oldest first and empties the queue.
func (o *outbox) drainAll() []bufferedMsg {
	if len(o.msgs) == 0 {
		return nil
	}

	out := o.msgs
	if o.dropped > 0 {
		log.Printf("mqtt: replaying %d queued messages (%d evicted while offline)", len(out), o.dropped)
	}
	o.msgs = make([]bufferedMsg, 0, o.capacity)
	o.dropped = 0
	return out
}

func (o *outbox) len() int {
	return len(o.msgs)
}
