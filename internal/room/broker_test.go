package room

import (
	"testing"
	"time"
)

func TestBrokerPublishSubscribe(t *testing.T) {
	b := NewBroker()

	ch := b.Subscribe("AB12")
	defer b.Unsubscribe("AB12", ch)

	b.Publish("AB12", Room{Code: "AB12", Version: 3})

	select {
	case doc := <-ch:
		if doc.Version != 3 {
			t.Fatalf("version = %d, want 3", doc.Version)
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}
}

func TestBrokerIsolatesRooms(t *testing.T) {
	b := NewBroker()

	ch := b.Subscribe("AB12")
	defer b.Unsubscribe("AB12", ch)

	b.Publish("ZZ99", Room{Code: "ZZ99", Version: 1})

	select {
	case doc := <-ch:
		t.Fatalf("received snapshot for another room: %+v", doc)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBrokerDropsWhenSubscriberLags(t *testing.T) {
	b := NewBroker()

	ch := b.Subscribe("AB12")
	defer b.Unsubscribe("AB12", ch)

	// More publishes than the channel buffers; none may block.
	done := make(chan struct{})
	go func() {
		for i := range 100 {
			b.Publish("AB12", Room{Code: "AB12", Version: int64(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a lagging subscriber")
	}
}
