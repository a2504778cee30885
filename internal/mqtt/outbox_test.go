package mqtt

import (
	"testing"
)

func stateMsg(i int) bufferedMsg {
	return bufferedMsg{topic: TopicState, payload: []byte{byte(i)}, qos: 1, retained: true}
}

func systemMsg(event string) bufferedMsg {
	return bufferedMsg{topic: TopicSystem, payload: []byte(event), qos: 1, retained: true}
}

func payloads(msgs []bufferedMsg) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		if m.topic == TopicState {
			out[i] = string(rune('0' + m.payload[0]))
		} else {
			out[i] = string(m.payload)
		}
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestOutboxEmptyDrain(t *testing.T) {
	o := newOutbox(10)
	if got := o.drainAll(); got != nil {
		t.Errorf("expected nil from empty drain, got %d items", len(got))
	}
}

func TestOutboxKeepsOrder(t *testing.T) {
	o := newOutbox(10)
	o.push(systemMsg("STARTUP"))
	o.push(stateMsg(1))
	o.push(stateMsg(2))
	o.push(systemMsg("SHUTDOWN"))

	got := payloads(o.drainAll())
	want := []string{"STARTUP", "1", "2", "SHUTDOWN"}
	if !equalStrings(got, want) {
		t.Errorf("drain order: got %v, want %v", got, want)
	}
	if o.drainAll() != nil {
		t.Error("second drain should be empty")
	}
}

func TestOutboxEvictsOldestStateFirst(t *testing.T) {
	o := newOutbox(4)
	o.push(systemMsg("STARTUP"))
	for i := 1; i <= 5; i++ {
		o.push(stateMsg(i))
	}

	got := payloads(o.drainAll())
	want := []string{"STARTUP", "3", "4", "5"}
	if !equalStrings(got, want) {
		t.Errorf("after overflow: got %v, want %v", got, want)
	}
}

func TestOutboxEvictsOldestWhenOnlyLifecycle(t *testing.T) {
	o := newOutbox(2)
	o.push(systemMsg("STARTUP"))
	o.push(systemMsg("SHUTDOWN"))
	o.push(systemMsg("STARTUP"))

	got := payloads(o.drainAll())
	want := []string{"SHUTDOWN", "STARTUP"}
	if !equalStrings(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestOutboxDroppedCount(t *testing.T) {
	o := newOutbox(3)
	for i := 0; i < 7; i++ {
		o.push(stateMsg(i))
	}
	if o.dropped != 4 {
		t.Errorf("dropped: got %d, want 4", o.dropped)
	}
	if o.len() != 3 {
		t.Errorf("len: got %d, want 3", o.len())
	}

	o.drainAll()
	if o.dropped != 0 || o.len() != 0 {
		t.Errorf("after drain: dropped %d len %d", o.dropped, o.len())
	}
}

func TestOutboxReusableAfterDrain(t *testing.T) {
	o := newOutbox(3)
	o.push(stateMsg(1))
	first := o.drainAll()

	o.push(stateMsg(2))
	if first[0].payload[0] != 1 {
		t.Errorf("drained slice was overwritten: %v", first[0].payload)
	}
	if got := o.drainAll(); len(got) != 1 || got[0].payload[0] != 2 {
		t.Errorf("second cycle: got %v", payloads(got))
	}
}

func TestOutboxPreservesFields(t *testing.T) {
	o := newOutbox(10)
	o.push(bufferedMsg{
		topic:    TopicState,
		payload:  []byte(`{"heater":{"state":"OVERHEAT"}}`),
		qos:      1,
		retained: true,
	})

	got := o.drainAll()
	if len(got) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got))
	}
	if got[0].topic != TopicState || got[0].qos != 1 || !got[0].retained {
		t.Errorf("fields: got %+v", got[0])
	}
	if string(got[0].payload) != `{"heater":{"state":"OVERHEAT"}}` {
		t.Errorf("payload: got %s", got[0].payload)
	}
}
