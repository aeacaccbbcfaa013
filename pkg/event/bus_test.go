package event

import "testing"

type pingEvent struct{ N int }
type pongEvent struct{ N int }

func TestPublishDeliversByType(t *testing.T) {
	b := NewBus()
	var pings, pongs []int
	Subscribe(b, func(e pingEvent) { pings = append(pings, e.N) })
	Subscribe(b, func(e pongEvent) { pongs = append(pongs, e.N) })

	Publish(b, pingEvent{N: 1})
	Publish(b, pingEvent{N: 2})
	Publish(b, pongEvent{N: 3})

	if len(pings) != 2 || pings[0] != 1 || pings[1] != 2 {
		t.Errorf("pings: got %v, want [1 2]", pings)
	}
	if len(pongs) != 1 || pongs[0] != 3 {
		t.Errorf("pongs: got %v, want [3]", pongs)
	}
}

func TestUnsubscribe(t *testing.T) {
	b := NewBus()
	calls := 0
	unsub := Subscribe(b, func(pingEvent) { calls++ })
	Subscribe(b, func(pingEvent) {})

	Publish(b, pingEvent{})
	unsub()
	Publish(b, pingEvent{})

	if calls != 1 {
		t.Errorf("calls: got %d, want 1", calls)
	}
	if n := SubscriberCount[pingEvent](b); n != 1 {
		t.Errorf("SubscriberCount: got %d, want 1", n)
	}
	// 重复退订是安全的
	unsub()
}

func TestPublishWithoutSubscribers(t *testing.T) {
	b := NewBus()
	Publish(b, pingEvent{N: 1})
	if len(b.Types()) != 0 {
		t.Errorf("Types: got %v, want empty", b.Types())
	}
}

func TestNestedPublish(t *testing.T) {
	b := NewBus()
	var order []string
	Subscribe(b, func(e pingEvent) {
		order = append(order, "ping")
		Publish(b, pongEvent{N: e.N})
	})
	Subscribe(b, func(pongEvent) { order = append(order, "pong") })

	Publish(b, pingEvent{N: 1})
	if len(order) != 2 || order[0] != "ping" || order[1] != "pong" {
		t.Errorf("order: got %v", order)
	}
}
